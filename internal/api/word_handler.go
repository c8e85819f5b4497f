package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lexday/lexday-api/internal/api/shared"
	"github.com/lexday/lexday-api/internal/service/words"
)

// WordHandler handles vocabulary management API requests.
type WordHandler struct {
	wordService words.WordService
	validator   *validator.Validate
}

// NewWordHandler creates a new WordHandler with the given dependencies.
func NewWordHandler(wordService words.WordService) *WordHandler {
	return &WordHandler{
		wordService: wordService,
		validator:   validator.New(),
	}
}

// CreateWord handles POST /words.
func (h *WordHandler) CreateWord(w http.ResponseWriter, r *http.Request) {
	var req CreateWordRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	created, err := h.wordService.CreateWord(r.Context(), words.CreateWordRequest{
		Term:        req.Term,
		Translation: req.Translation,
		Notes:       req.Notes,
		Enrich:      req.Enrich,
	})
	if err != nil {
		if errors.Is(err, words.ErrDuplicateTerm) {
			shared.RespondWithError(w, r, http.StatusConflict, "A word with this term already exists")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create word", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// GetWord handles GET /words/{id}.
func (h *WordHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID")
		return
	}

	word, err := h.wordService.GetWord(r.Context(), id)
	if err != nil {
		if errors.Is(err, words.ErrWordNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Word not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to get word", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// ListWords handles GET /words. The include_archived query flag widens the
// result to archived entries.
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	list, err := h.wordService.ListWords(r.Context(), includeArchived)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list words", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, list)
}

// UpdateWord handles PUT /words/{id}.
func (h *WordHandler) UpdateWord(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID")
		return
	}

	var req UpdateWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	updated, err := h.wordService.UpdateWord(r.Context(), id, words.UpdateWordRequest{
		Term:        req.Term,
		Translation: req.Translation,
		Notes:       req.Notes,
		Archived:    req.Archived,
	})
	if err != nil {
		switch {
		case errors.Is(err, words.ErrWordNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "Word not found")
		case errors.Is(err, words.ErrDuplicateTerm):
			shared.RespondWithError(w, r, http.StatusConflict, "A word with this term already exists")
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to update word", err)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// DeleteWord handles DELETE /words/{id}.
func (h *WordHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID")
		return
	}

	if err := h.wordService.DeleteWord(r.Context(), id); err != nil {
		if errors.Is(err, words.ErrWordNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Word not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete word", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
