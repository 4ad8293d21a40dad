// Package http provides the JSON HTTP handlers and routing of the trainer API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sigongjoa/Concept-Gacha/internal/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Students *StudentHandler
	Cards    *CardHandler
	Review   *ReviewHandler
	Upload   *UploadHandler
	// Assets serves uploaded images under /assets/. Optional.
	Assets http.Handler
	// StaticDir is served at / when set.
	StaticDir string
}

// NewRouter constructs the HTTP handler that serves the trainer API.
//
// Routes:
//
//	GET    /api/students                  → Students.List
//	POST   /api/students                  → Students.Create
//	GET    /api/students/{id}             → Students.Get
//	PATCH  /api/students/{id}             → Students.Rename
//	DELETE /api/students/{id}             → Students.Delete
//	GET    /api/students/{id}/cards       → Cards.List
//	POST   /api/students/{id}/cards       → Cards.Create
//	GET    /api/students/{id}/cards/random → Review.Random
//	GET    /api/students/{id}/stats       → Review.StudentStats
//	GET    /api/stats/all                 → Review.AllStats
//	GET    /api/cards/{id}                → Cards.Get
//	PATCH  /api/cards/{id}                → Cards.Update
//	DELETE /api/cards/{id}                → Cards.Delete
//	POST   /api/upload                    → Upload.Upload (multipart)
//
// Middleware chain (applied in order):
//  1. RequestID
//  2. WithRequestLogging(logger)
//  3. Recoverer
//  4. AllowContentType("application/json") on the JSON routes
func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			// Only allow request bodies with Content-Type: application/json
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Route("/students", func(r chi.Router) {
				r.Get("/", h.Students.List)
				r.Post("/", h.Students.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Students.Get)
					r.Patch("/", h.Students.Rename)
					r.Delete("/", h.Students.Delete)
					r.Get("/cards", h.Cards.List)
					r.Post("/cards", h.Cards.Create)
					r.Get("/cards/random", h.Review.Random)
					r.Get("/stats", h.Review.StudentStats)
				})
			})

			r.Route("/cards/{id}", func(r chi.Router) {
				r.Get("/", h.Cards.Get)
				r.Patch("/", h.Cards.Update)
				r.Delete("/", h.Cards.Delete)
			})

			r.Get("/stats/all", h.Review.AllStats)
		})

		r.Post("/upload", h.Upload.Upload)
	})

	if h.Assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets", h.Assets))
	}
	if h.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(h.StaticDir)))
	}

	return r
}
