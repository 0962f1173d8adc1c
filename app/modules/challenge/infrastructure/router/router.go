package challengerouter

import (
	"net/http"

	challengehandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router registers the challenge HTTP routes.
type Router struct {
	handlers challengehandlers.Handlers
	viewer   func(http.Handler) http.Handler
	editor   func(http.Handler) http.Handler
}

// NewRouter creates a new challenge router.
func NewRouter(handlers challengehandlers.Handlers, viewer, editor func(http.Handler) http.Handler) *Router {
	return &Router{handlers: handlers, viewer: viewer, editor: editor}
}

// Mount registers the routes on mux.
func (r *Router) Mount(mux chi.Router) {
	h := r.handlers

	mux.Group(func(g chi.Router) {
		g.Use(r.viewer)
		g.Get("/api/challenges", h.ListChallenges)
		g.Get("/api/events", h.ListEvents)
		g.Get("/api/participants/{name}/results", h.ParticipantResults)
	})

	mux.Group(func(g chi.Router) {
		g.Use(r.editor)
		g.Post("/api/challenges", h.CreateChallenge)
		g.Delete("/api/challenges/{id}", h.DeleteChallenge)

		g.Patch("/api/events/{id}", h.UpdateEvent)
		g.Delete("/api/events/{id}", h.DeleteEvent)
		g.Post("/api/events/{id}/results", h.AddResult)

		g.Patch("/api/results/{id}", h.UpdateResult)
		g.Delete("/api/results/{id}", h.DeleteResult)

		g.Get("/api/maintenance/invalid-participants", h.InvalidParticipants)
		g.Post("/api/maintenance/invalid-participants/clean", h.CleanInvalidParticipants)
		g.Get("/api/maintenance/aberrant-results", h.AberrantResults)
		g.Post("/api/maintenance/aberrant-results/fix", h.FixAberrantResults)
	})
}
