package importrouter

import (
	"net/http"

	importhandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router registers the import HTTP routes. Every route needs the editor role.
type Router struct {
	handlers importhandlers.Handlers
	editor   func(http.Handler) http.Handler
}

// NewRouter creates a new import router.
func NewRouter(handlers importhandlers.Handlers, editor func(http.Handler) http.Handler) *Router {
	return &Router{handlers: handlers, editor: editor}
}

// Mount registers the routes on mux.
func (r *Router) Mount(mux chi.Router) {
	mux.Route("/api/imports", func(g chi.Router) {
		g.Use(r.editor)
		g.Post("/", r.handlers.Analyze)
		g.Post("/preview", r.handlers.Preview)
		g.Get("/{id}", r.handlers.GetPending)
		g.Post("/{id}/commit", r.handlers.Commit)
		g.Delete("/{id}", r.handlers.Discard)
	})
}
