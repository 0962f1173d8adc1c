package leaderboardrouter

import (
	"net/http"

	leaderboardhandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router registers the standings HTTP routes.
type Router struct {
	handlers leaderboardhandlers.Handlers
	viewer   func(http.Handler) http.Handler
}

// NewRouter creates a new leaderboard router.
func NewRouter(handlers leaderboardhandlers.Handlers, viewer func(http.Handler) http.Handler) *Router {
	return &Router{handlers: handlers, viewer: viewer}
}

// Mount registers the routes on mux. Full paths are used so the routes can
// share the /api/challenges and /api/participants prefixes with the
// challenge module.
func (r *Router) Mount(mux chi.Router) {
	h := r.handlers

	mux.Group(func(g chi.Router) {
		g.Use(r.viewer)
		g.Get("/api/challenges/{id}/standings", h.Standings)
		g.Get("/api/challenges/{id}/standings.pdf", h.StandingsPDF)
		g.Get("/api/challenges/{id}/standings.xlsx", h.StandingsXLSX)
		g.Get("/api/challenges/{id}/report.pdf", h.ReportPDF)
		g.Get("/api/participants/{name}/chart.png", h.ProgressionChart)
		g.Get("/api/summary", h.Summary)
	})
}
