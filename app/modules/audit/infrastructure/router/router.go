package auditrouter

import (
	"net/http"

	audithandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router registers the audit HTTP routes.
type Router struct {
	handlers audithandlers.Handlers
	viewer   func(http.Handler) http.Handler
}

func NewRouter(handlers audithandlers.Handlers, viewer func(http.Handler) http.Handler) *Router {
	return &Router{handlers: handlers, viewer: viewer}
}

// Mount registers the routes under /api/audit.
func (r *Router) Mount(mux chi.Router) {
	mux.Route("/api/audit", func(cr chi.Router) {
		cr.Use(r.viewer)
		cr.Get("/", r.handlers.HandleRecent)
		cr.Get("/points", r.handlers.HandlePoints)
	})
}
