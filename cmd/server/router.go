package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lexday/lexday-api/internal/api"
	"github.com/lexday/lexday-api/internal/api/middleware"
	"github.com/lexday/lexday-api/internal/api/shared"
	"github.com/lexday/lexday-api/internal/service/auth"
)

// setupRouter configures the HTTP routes. Auth endpoints are public; every
// study endpoint sits behind bearer token authentication.
func (app *application) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.jwtService,
		auth.NewBcryptVerifier(),
		app.config.Auth.PassphraseHash)
	wordHandler := api.NewWordHandler(app.wordService)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.reviewLogStore)
	sessionHandler := api.NewSessionHandler(app.sessionService)
	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/words", wordHandler.CreateWord)
			r.Get("/words", wordHandler.ListWords)
			r.Get("/words/{id}", wordHandler.GetWord)
			r.Put("/words/{id}", wordHandler.UpdateWord)
			r.Delete("/words/{id}", wordHandler.DeleteWord)
			r.Post("/words/{id}/review", reviewHandler.SubmitReview)
			r.Get("/reviews", reviewHandler.ListReviewLog)

			r.Get("/session", sessionHandler.GetState)
			r.Get("/session/queue/morning", sessionHandler.MorningQueue)
			r.Get("/session/queue/evening", sessionHandler.EveningQueue)
			r.Post("/session/complete", sessionHandler.CompletePhase)

			if app.syncService != nil {
				syncHandler := api.NewSyncHandler(app.syncService)
				r.Post("/sync", syncHandler.TriggerSync)
				r.Get("/sync/status", syncHandler.SyncStatus)
			} else {
				r.Post("/sync", syncUnavailable)
				r.Get("/sync/status", syncUnavailable)
			}
		})
	})

	return r
}

func syncUnavailable(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Sync is not configured")
}
