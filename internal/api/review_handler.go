package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/lexday/lexday-api/internal/api/shared"
	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/service/review"
	"github.com/lexday/lexday-api/internal/store"
)

// ReviewHandler handles review submission and audit log API requests.
type ReviewHandler struct {
	reviewService review.ReviewService
	reviewLog     store.ReviewLogStore
	validator     *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler with the given dependencies.
func NewReviewHandler(
	reviewService review.ReviewService,
	reviewLog store.ReviewLogStore,
) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		reviewLog:     reviewLog,
		validator:     validator.New(),
	}
}

// SubmitReview handles POST /words/{id}/review.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	wordID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID")
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.reviewService.SubmitReview(r.Context(), wordID, review.ReviewAnswer{
		Outcome: domain.ReviewOutcome(req.Outcome),
	})
	if err != nil {
		switch {
		case errors.Is(err, review.ErrMissingScheduleRecord):
			shared.RespondWithError(w, r, http.StatusNotFound, "No schedule record for this word")
		case errors.Is(err, review.ErrInvalidAnswer):
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid review outcome")
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to submit review", err)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ListReviewLog handles GET /reviews. The optional day query parameter
// filters entries to one study day.
func (h *ReviewHandler) ListReviewLog(w http.ResponseWriter, r *http.Request) {
	var day *int
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid day parameter")
			return
		}
		day = &parsed
	}

	entries, err := h.reviewLog.List(r.Context(), day)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list review log", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}
