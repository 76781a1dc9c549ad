package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/verdantweb/ai-router/app"
	"github.com/verdantweb/ai-router/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(120 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleLiveness)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	r.Route("/api/v1", func(r chi.Router) {
		// Generation endpoint consumed by application features
		r.Post("/generate", deps.GenerateHandler.HandleGenerate)

		// Admin surface
		r.Route("/admin/ai", func(r chi.Router) {
			r.Use(middleware.AdminAuth(deps.Config.Admin.JWTSecret, deps.Logger))

			r.Get("/providers", deps.ProviderHandler.HandleList)
			r.Post("/providers", deps.ProviderHandler.HandleCreate)
			r.Put("/providers/reorder", deps.ProviderHandler.HandleReorder)
			r.Put("/providers/{id}", deps.ProviderHandler.HandleUpdate)
			r.Delete("/providers/{id}", deps.ProviderHandler.HandleDelete)
			r.Post("/providers/{id}/test", deps.ProviderHandler.HandleTest)
			r.Post("/health-check", deps.ProviderHandler.HandleHealthCheck)
			r.Post("/init", deps.ProviderHandler.HandleInit)
			r.Get("/usage", deps.ProviderHandler.HandleUsage)

			r.Get("/logs", deps.LogHandler.HandleList)
			r.Delete("/logs", deps.LogHandler.HandleClear)
			r.Get("/logs/export", deps.LogHandler.HandleExport)

			r.Post("/test-function", deps.GenerateHandler.HandleTestFunction)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found","message":"route not found"}`))
	})

	return r
}
