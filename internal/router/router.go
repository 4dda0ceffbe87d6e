package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tripweaver/go-trip-planner/internal/api/assistant"
	"github.com/tripweaver/go-trip-planner/internal/api/planner"
	"github.com/tripweaver/go-trip-planner/internal/api/settings"
)

// Config contains dependencies needed for the router setup
type Config struct {
	PlannerHandler   *planner.Handler
	AssistantHandler *assistant.Handler
	SettingsHandler  *settings.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", planner.SessionHeader},
		ExposedHeaders:   []string{"Link", planner.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/itinerary", cfg.PlannerHandler.GenerateItinerary)
		r.Get("/itinerary/status", cfg.PlannerHandler.GetStatus)

		r.Post("/chat", cfg.AssistantHandler.SendMessage)
		r.Get("/chat/{sessionID}", cfg.AssistantHandler.GetTranscript)

		r.Get("/settings/theme", cfg.SettingsHandler.GetTheme)
		r.Put("/settings/theme", cfg.SettingsHandler.SetTheme)
	})

	return r
}
