package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lexday/lexday-api/internal/api/shared"
	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/service/session"
)

// SessionHandler handles study-session API requests: cycle state, queues,
// and phase completion.
type SessionHandler struct {
	sessionService session.SessionService
	validator      *validator.Validate
}

// NewSessionHandler creates a new SessionHandler with the given
// dependencies.
func NewSessionHandler(sessionService session.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		validator:      validator.New(),
	}
}

// GetState handles GET /session.
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionService.CurrentState(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load cycle state", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// MorningQueue handles GET /session/queue/morning.
func (h *SessionHandler) MorningQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.sessionService.BuildMorningQueue(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to build morning queue", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, queue)
}

// EveningQueue handles GET /session/queue/evening.
func (h *SessionHandler) EveningQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.sessionService.BuildEveningQueue(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to build evening queue", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, queue)
}

// CompletePhase handles POST /session/complete.
func (h *SessionHandler) CompletePhase(w http.ResponseWriter, r *http.Request) {
	var req CompletePhaseRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	transition, err := h.sessionService.CompletePhase(r.Context(), domain.Phase(req.Phase))
	if err != nil {
		if errors.Is(err, session.ErrCurrentPhaseMismatch) {
			shared.RespondWithError(w, r, http.StatusConflict, "Completed phase does not match current phase")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to complete phase", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, transition)
}
