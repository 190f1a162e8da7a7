package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/user-management/internal/auth"
	"github.com/frahmantamala/user-management/internal/storage"
	"github.com/frahmantamala/user-management/internal/transport/middleware"
	"github.com/frahmantamala/user-management/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, storageHandler *storage.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	gate := auth.NewGate(logger)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Mount API under /api/v1
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)

				sr.Group(func(pr chi.Router) {
					pr.Use(authHandler.AuthMiddleware)
					pr.Post("/logout", authHandler.Logout)
				})
			})
		}

		if authHandler == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			if userHandler != nil {
				pr.Get("/users/me", userHandler.GetCurrentUser)

				pr.Route("/users", func(ur chi.Router) {
					ur.With(gate.Require(user.PermissionTypes, "list")).Get("/", userHandler.ListUsers)
					ur.With(gate.Require(user.PermissionTypes, "create")).Post("/", userHandler.CreateUser)
					ur.With(gate.Require(user.PermissionTypes, "retrieve")).Get("/{id}", userHandler.GetUser)
					ur.With(gate.Require(user.PermissionTypes, "update")).Patch("/{id}", userHandler.UpdateUser)
					ur.With(gate.Require(user.PermissionTypes, "set_password")).Post("/{id}/set_password", userHandler.SetPassword)
					ur.With(gate.Require(user.PermissionTypes, "destroy")).Delete("/{id}", userHandler.DestroyUser)
				})
			}

			if storageHandler != nil {
				pr.Route("/files", func(fr chi.Router) {
					fr.With(gate.Require(storage.PermissionTypes, "upload")).Post("/", storageHandler.UploadFile)
					fr.With(gate.Require(storage.PermissionTypes, "download")).Get("/url", storageHandler.GetFileURL)
				})
			}
		})
	})
}
