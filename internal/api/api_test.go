package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexday/lexday-api/internal/api"
	"github.com/lexday/lexday-api/internal/api/middleware"
	"github.com/lexday/lexday-api/internal/config"
	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/domain/srs"
	"github.com/lexday/lexday-api/internal/platform/memstore"
	"github.com/lexday/lexday-api/internal/service/auth"
	"github.com/lexday/lexday-api/internal/service/review"
	"github.com/lexday/lexday-api/internal/service/session"
	"github.com/lexday/lexday-api/internal/service/words"
)

const testPassphrase = "open sesame please"

// testServer wires the full protected API against in-memory storage.
type testServer struct {
	router     chi.Router
	jwtService auth.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-key-that-is-at-least-32-chars",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)

	passphraseHash, err := auth.HashPassphrase(testPassphrase)
	require.NoError(t, err)

	wordStore := memstore.NewWordStore()
	schedules := memstore.NewScheduleStore(wordStore)
	cycles := memstore.NewCycleStateStore()
	reviewLog := memstore.NewReviewLogStore()
	transactor := memstore.NewTransactor(wordStore, schedules, cycles, reviewLog)
	params := srs.NewDefaultParams()
	logger := slog.Default()

	wordService := words.NewWordService(transactor, wordStore, schedules, cycles, nil, params, logger)
	reviewService := review.NewReviewService(transactor, schedules, cycles, reviewLog, params, logger)
	sessionService := session.NewSessionService(transactor, schedules, cycles, params, logger)

	authHandler := api.NewAuthHandler(jwtService, auth.NewBcryptVerifier(), passphraseHash)
	wordHandler := api.NewWordHandler(wordService)
	reviewHandler := api.NewReviewHandler(reviewService, reviewLog)
	sessionHandler := api.NewSessionHandler(sessionService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/auth/refresh", authHandler.RefreshToken)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/api/words", wordHandler.CreateWord)
		r.Get("/api/words", wordHandler.ListWords)
		r.Get("/api/words/{id}", wordHandler.GetWord)
		r.Put("/api/words/{id}", wordHandler.UpdateWord)
		r.Delete("/api/words/{id}", wordHandler.DeleteWord)
		r.Post("/api/words/{id}/review", reviewHandler.SubmitReview)
		r.Get("/api/reviews", reviewHandler.ListReviewLog)
		r.Get("/api/session", sessionHandler.GetState)
		r.Get("/api/session/queue/morning", sessionHandler.MorningQueue)
		r.Get("/api/session/queue/evening", sessionHandler.EveningQueue)
		r.Post("/api/session/complete", sessionHandler.CompletePhase)
	})

	return &testServer{router: r, jwtService: jwtService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) accessToken(t *testing.T) string {
	t.Helper()
	token, err := s.jwtService.GenerateToken(context.Background())
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestLoginIssuesTokenPair(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"passphrase": testPassphrase,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	// The issued access token opens protected routes.
	listRec := s.do(t, http.MethodGet, "/api/words", resp.AccessToken, nil)
	assert.Equal(t, http.StatusOK, listRec.Code)
}

func TestLoginRejectsWrongPassphrase(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"passphrase": "guess",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotatesTokens(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	refresh, err := s.jwtService.GenerateRefreshToken(context.Background())
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": s.accessToken(t),
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/words", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/session", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWordLifecycleOverAPI(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.accessToken(t)

	// Create.
	rec := s.do(t, http.MethodPost, "/api/words", token, map[string]interface{}{
		"term":        "la madrugada",
		"translation": "the early morning hours",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Word struct {
			ID   uuid.UUID `json:"id"`
			Term string    `json:"term"`
		} `json:"word"`
		Schedule struct {
			Step          int `json:"step"`
			NextReviewDay int `json:"next_review_day"`
		} `json:"schedule"`
	}
	decodeBody(t, rec, &created)
	assert.Equal(t, "la madrugada", created.Word.Term)
	assert.Equal(t, 0, created.Schedule.Step)
	assert.Equal(t, 1, created.Schedule.NextReviewDay)

	// Duplicate term conflicts.
	rec = s.do(t, http.MethodPost, "/api/words", token, map[string]interface{}{
		"term":        "La Madrugada",
		"translation": "duplicate",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Get.
	rec = s.do(t, http.MethodGet, "/api/words/"+created.Word.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Update to archived.
	rec = s.do(t, http.MethodPut, "/api/words/"+created.Word.ID.String(), token, map[string]interface{}{
		"term":        "la madrugada",
		"translation": "the small hours",
		"archived":    true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Archived words disappear from the default listing.
	rec = s.do(t, http.MethodGet, "/api/words", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []json.RawMessage
	decodeBody(t, rec, &listed)
	assert.Empty(t, listed)

	rec = s.do(t, http.MethodGet, "/api/words?include_archived=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &listed)
	assert.Len(t, listed, 1)

	// Delete.
	rec = s.do(t, http.MethodDelete, "/api/words/"+created.Word.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/words/"+created.Word.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWordEndpointsRejectBadInput(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.accessToken(t)

	// Missing required fields.
	rec := s.do(t, http.MethodPost, "/api/words", token, map[string]interface{}{
		"term": "solo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed UUID.
	rec = s.do(t, http.MethodGet, "/api/words/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitReviewOverAPI(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.accessToken(t)

	rec := s.do(t, http.MethodPost, "/api/words", token, map[string]interface{}{
		"term":        "repasar",
		"translation": "to review",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Word struct {
			ID uuid.UUID `json:"id"`
		} `json:"word"`
	}
	decodeBody(t, rec, &created)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/words/%s/review", created.Word.ID), token, map[string]string{
		"outcome": "correct",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Record struct {
			Step int `json:"step"`
		} `json:"record"`
		LogEntry struct {
			StepBefore int `json:"step_before"`
			StepAfter  int `json:"step_after"`
		} `json:"log_entry"`
	}
	decodeBody(t, rec, &result)
	assert.Equal(t, 1, result.Record.Step)
	assert.Equal(t, 0, result.LogEntry.StepBefore)
	assert.Equal(t, 1, result.LogEntry.StepAfter)

	// The audit log shows the review.
	rec = s.do(t, http.MethodGet, "/api/reviews?day=0", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []json.RawMessage
	decodeBody(t, rec, &entries)
	assert.Len(t, entries, 1)

	// An unknown outcome never reaches the service.
	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/words/%s/review", created.Word.ID), token, map[string]string{
		"outcome": "meh",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A word without a schedule record is a 404.
	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/words/%s/review", uuid.New()), token, map[string]string{
		"outcome": "again",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionFlowOverAPI(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.accessToken(t)

	rec := s.do(t, http.MethodGet, "/api/session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state struct {
		Day   int    `json:"day"`
		Phase string `json:"phase"`
	}
	decodeBody(t, rec, &state)
	assert.Equal(t, 0, state.Day)
	assert.Equal(t, "morning", state.Phase)

	// Completing the wrong phase is a conflict.
	rec = s.do(t, http.MethodPost, "/api/session/complete", token, map[string]string{
		"phase": "evening",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Walk one full day: morning, lunch, evening.
	for _, phase := range []string{"morning", "lunch", "evening"} {
		rec = s.do(t, http.MethodPost, "/api/session/complete", token, map[string]string{
			"phase": phase,
		})
		require.Equal(t, http.StatusOK, rec.Code, "completing %s", phase)
	}

	rec = s.do(t, http.MethodGet, "/api/session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &state)
	assert.Equal(t, 1, state.Day)
	assert.Equal(t, "morning", state.Phase)
}

func TestQueueEndpointsOverAPI(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.accessToken(t)

	// A word created today is new: absent from the morning queue, present
	// in the evening queue.
	rec := s.do(t, http.MethodPost, "/api/words", token, map[string]interface{}{
		"term":        "nuevo",
		"translation": "new",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Word struct {
			ID uuid.UUID `json:"id"`
		} `json:"word"`
	}
	decodeBody(t, rec, &created)

	var queue struct {
		Day   int `json:"day"`
		Items []struct {
			WordID uuid.UUID `json:"word_id"`
			Source string    `json:"source"`
		} `json:"items"`
	}

	rec = s.do(t, http.MethodGet, "/api/session/queue/morning", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &queue)
	assert.Empty(t, queue.Items)

	rec = s.do(t, http.MethodGet, "/api/session/queue/evening", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &queue)
	require.Len(t, queue.Items, 1)
	assert.Equal(t, created.Word.ID, queue.Items[0].WordID)
	assert.Equal(t, string(domain.QueueSourceNew), queue.Items[0].Source)
}
