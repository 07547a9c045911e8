package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cadell/conjugo-api/internal/api"
	apiMiddleware "github.com/cadell/conjugo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.UserIDMiddleware)

	practiceHandler := api.NewPracticeHandler(app.practiceService, app.logger)
	reviewHandler := api.NewReviewHandler(app.practiceService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Practice endpoints; next drill works anonymously, answers need a
		// user ID.
		r.Post("/practice/next", practiceHandler.NextDrill)
		r.Post("/practice/answer", practiceHandler.SubmitAnswer)

		// Review and family read models.
		r.Get("/review/heatmap", reviewHandler.Heatmap)
		r.Get("/families/statistics", reviewHandler.FamilyStatistics)
		r.Get("/families/recommendations", reviewHandler.FamilyRecommendations)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
