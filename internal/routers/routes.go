package routers

import (
	"github.com/go-chi/chi/v5"

	"codesync/internal/api"
	"codesync/internal/metrics"
	"codesync/internal/middleware"
	"codesync/internal/models"
)

func HealthRoutes(router chi.Router, healthHandler *api.HealthHandler) {
	router.Get("/", healthHandler.Root)
	router.Get("/healthz", healthHandler.HealthzHandler)
	router.Get("/readyz", healthHandler.ReadyzHandler)
	router.Handle("/metrics", metrics.Handler())
}

func CollabRoutes(router chi.Router, collabHandler *api.CollabHandler) {
	router.Get("/ws", collabHandler.CollabWS)
	router.Get("/api/rooms/{id}", collabHandler.RoomSnapshot)
}

func AIRoutes(router chi.Router, aiHandler *api.AIHandler) {
	router.Route("/api/groq", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.CompleteRequest]()).Post("/complete", aiHandler.CompleteHandler)
		r.With(middleware.ValidateRequest[*models.ExplainRequest]()).Post("/explain", aiHandler.ExplainHandler)
	})
}

func ProjectRoutes(router chi.Router, projectHandler *api.ProjectHandler) {
	router.Route("/api/projects/{id}", func(r chi.Router) {
		r.Get("/", projectHandler.LoadProject)
		r.With(middleware.ValidateRequest[*models.SaveProjectRequest]()).Post("/save", projectHandler.SaveProject)
		r.Get("/files", projectHandler.LoadFile)
		r.With(middleware.ValidateRequest[*models.SaveFileRequest]()).Put("/files", projectHandler.SaveFile)
	})
}

// Handlers groups everything Register mounts.
type Handlers struct {
	Health  *api.HealthHandler
	Collab  *api.CollabHandler
	AI      *api.AIHandler
	Project *api.ProjectHandler
}

func Register(router chi.Router, h Handlers) {
	HealthRoutes(router, h.Health)
	CollabRoutes(router, h.Collab)
	AIRoutes(router, h.AI)
	ProjectRoutes(router, h.Project)
}
