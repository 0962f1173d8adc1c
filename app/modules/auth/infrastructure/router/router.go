package authrouter

import (
	"net/http"

	authhandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/auth/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router registers the auth HTTP routes.
type Router struct {
	handlers authhandlers.Handlers
	viewer   func(http.Handler) http.Handler
}

// NewRouter creates a new auth router. viewer guards routes that need any
// valid operator token.
func NewRouter(handlers authhandlers.Handlers, viewer func(http.Handler) http.Handler) *Router {
	return &Router{
		handlers: handlers,
		viewer:   viewer,
	}
}

// Mount registers the routes under /api/auth.
func (r *Router) Mount(mux chi.Router) {
	mux.Route("/api/auth", func(cr chi.Router) {
		cr.With(r.viewer).Get("/me", r.handlers.HandleWhoAmI)
	})
}
