package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *Server) routes() {
	s.r = chi.NewRouter()

	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.r.Use(middleware.RequestID)
	s.r.Use(middleware.RealIP)
	s.r.Use(middleware.Recoverer)
	s.r.Use(middleware.SetHeader("Content-Type", "application/json"))
	s.r.Use(middleware.Timeout(60 * time.Second))

	s.r.Route("/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			JSON(w, http.StatusOK, map[string]any{"status": "online"})
		})

		r.Get("/context", s.handleContextGet)
		r.Get("/assets", s.handleAssetsGet)
		r.Get("/diagnostics", s.handleDiagnosticsGet)

		r.Post("/inputs", s.handleInputsPost)
		r.Post("/selection", s.handleSelectionPost)
		r.Post("/continue", s.handleContinuePost)
		r.Post("/confirm", s.handleConfirmPost)
		r.Post("/refresh", s.handleRefreshPost)
		r.Post("/back", s.handleBackPost)
		r.Post("/reset", s.handleResetPost)
	})
}
