package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskdeck/taskdeck-api/internal/api"
	apiMiddleware "github.com/taskdeck/taskdeck-api/internal/api/middleware"
	"github.com/taskdeck/taskdeck-api/internal/service/authz"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.credentials, app.jwtService)
	taskHandler := api.NewTaskHandler(app.taskService)
	auditHandler := api.NewAuditHandler(app.auditRecorder, app.authorizer)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Task endpoints. Reads need authentication only; writes are
			// role-gated at the route so a viewer fails before the body is
			// even read, and re-checked in the service.
			r.Get("/tasks", taskHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireOperation(app.authorizer, authz.OpTaskCreate))
				r.Post("/tasks", taskHandler.Create)
			})
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireOperation(app.authorizer, authz.OpTaskReorder))
				r.Patch("/tasks/reorder", taskHandler.Reorder)
			})
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireOperation(app.authorizer, authz.OpTaskUpdate))
				r.Put("/tasks/{id}", taskHandler.Update)
			})
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireOperation(app.authorizer, authz.OpTaskDelete))
				r.Delete("/tasks/{id}", taskHandler.Delete)
			})

			// Audit trail, admin and above
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireOperation(app.authorizer, authz.OpAuditList))
				r.Get("/audit-log", auditHandler.List)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
