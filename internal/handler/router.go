package handler

import (
	"database/sql"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/suar-net/hookmirror/internal/config"
	"github.com/suar-net/hookmirror/internal/hub"
	"github.com/suar-net/hookmirror/internal/service"
)

// SetupRouter creates the main Chi router for the application, wiring the
// ingestion endpoint, the live viewer websocket and the management APIs.
func SetupRouter(
	users service.IUserService,
	webhooks service.IWebhookService,
	viewer service.IViewerService,
	liveHub *hub.Hub,
	db *sql.DB,
	admin config.AdminConfig,
	logger *log.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Logger: logs request details (method, path, latency, status).
	r.Use(middleware.Logger)
	// Recoverer: recovers from panics and returns a 500 error instead of crashing.
	r.Use(middleware.Recoverer)

	// Webhook senders and the viewer frontend live on arbitrary origins.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	webhookHandler := NewWebhookHandler(webhooks, logger)
	userHandler := NewUserHandler(users, logger)
	viewerHandler := NewViewerHandler(users, viewer, logger)
	wsHandler := NewWSHandler(users, viewer, liveHub, logger)
	healthHandler := NewHealthHandler(db, logger)
	authMiddleware := NewAuthMiddleware(admin, logger)

	r.Get("/health", healthHandler.Check)
	r.Get("/ws/@{username}", wsHandler.Serve)

	r.Route("/api", func(r chi.Router) {
		// Ingestion accepts every verb, on the endpoint root and below.
		r.HandleFunc("/@{username}", webhookHandler.Handle)
		r.HandleFunc("/@{username}/*", webhookHandler.Handle)

		r.Route("/users", func(r chi.Router) {
			r.Get("/check/{username}", userHandler.CheckAvailability)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/", userHandler.Create)
				r.Get("/{username}", userHandler.Get)
				r.Put("/{username}", userHandler.Update)
			})
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/@{username}", viewerHandler.List)
			r.Delete("/@{username}", viewerHandler.Clear)
			r.Delete("/@{username}/{id}", viewerHandler.Delete)
			r.Get("/@{username}/search", viewerHandler.Search)
			r.Get("/@{username}/stats", viewerHandler.Statistics)
			r.Get("/@{username}/export", viewerHandler.Export)
		})
	})

	return r
}
