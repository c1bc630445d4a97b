package sandbox

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/platform"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route(platform.APIPrefix, func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/audit", s.handleAudit)

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", s.handleFind(entity.TypeAccount))
				r.Get("/me", s.handleMe)
				r.Get("/{id}", s.handleGet(entity.TypeAccount))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", s.handleFind(entity.TypeProduct))
				r.Post("/", s.handleCreateProduct)
				r.Get("/{id}", s.handleGet(entity.TypeProduct))
				r.Delete("/{id}", s.handleDeleteProduct)
			})

			r.Route("/devicegroups", func(r chi.Router) {
				r.Get("/", s.handleFind(entity.TypeDeviceGroup))
				r.Post("/", s.handleCreateDeviceGroup)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGet(entity.TypeDeviceGroup))
					r.Get("/devices", s.handleListMembers)
					r.Get("/deployment", s.handleCurrentDeployment)
					r.Post("/deployments", s.handleDeploy)
				})
			})

			r.Route("/devices", func(r chi.Router) {
				r.Get("/", s.handleFind(entity.TypeDevice))

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGet(entity.TypeDevice))
					r.Patch("/", s.handleUpdateDevice)
					r.Delete("/", s.handleDeleteDevice)
					r.Put("/devicegroup", s.handleAssignDevice)
					r.Delete("/devicegroup", s.handleUnassignDevice)
					r.Post("/restart", s.handleRestartDevice)
				})
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
