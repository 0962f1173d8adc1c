package backuprouter

import (
	"net/http"

	backuphandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router registers the snapshot HTTP routes.
type Router struct {
	handlers backuphandlers.Handlers
	editor   func(http.Handler) http.Handler
}

// NewRouter creates a new backup router.
func NewRouter(handlers backuphandlers.Handlers, editor func(http.Handler) http.Handler) *Router {
	return &Router{handlers: handlers, editor: editor}
}

// Mount registers the routes on mux.
func (r *Router) Mount(mux chi.Router) {
	mux.Route("/api/backups", func(g chi.Router) {
		g.Use(r.editor)
		g.Get("/", r.handlers.Status)
		g.Post("/", r.handlers.CreateSnapshot)
		g.Post("/cleanup", r.handlers.Cleanup)
	})
}
