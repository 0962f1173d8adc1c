package leaderboardhandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	leaderboardservice "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/web"
	"github.com/go-chi/chi/v5"
)

// Handlers serves the standings and report endpoints.
type Handlers interface {
	Standings(w http.ResponseWriter, r *http.Request)
	StandingsPDF(w http.ResponseWriter, r *http.Request)
	StandingsXLSX(w http.ResponseWriter, r *http.Request)
	ReportPDF(w http.ResponseWriter, r *http.Request)
	ProgressionChart(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

// LeaderboardHandlers implements Handlers.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers.
func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardHandlers{service: service, logger: logger}
}

func (h *LeaderboardHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, challengedb.ErrNotFound):
		web.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, leaderboardservice.ErrUnknownCircuit),
		errors.Is(err, leaderboardservice.ErrUnknownCategory):
		web.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Leaderboard request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		web.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func query(r *http.Request) (leaderboardservice.Query, error) {
	id, err := web.Int64Param(r, "id")
	if err != nil {
		return leaderboardservice.Query{}, err
	}
	q := r.URL.Query()
	return leaderboardservice.Query{
		ChallengeID: id,
		Circuit:     q.Get("circuit"),
		Category:    q.Get("category"),
	}, nil
}

func (h *LeaderboardHandlers) Standings(w http.ResponseWriter, r *http.Request) {
	q, err := query(r)
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	table, err := h.service.Standings(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, table)
}

func (h *LeaderboardHandlers) StandingsPDF(w http.ResponseWriter, r *http.Request) {
	q, err := query(r)
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.serveFile(w, r)(h.service.StandingsPDF(r.Context(), q))
}

func (h *LeaderboardHandlers) StandingsXLSX(w http.ResponseWriter, r *http.Request) {
	q, err := query(r)
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.serveFile(w, r)(h.service.StandingsXLSX(r.Context(), q))
}

func (h *LeaderboardHandlers) ReportPDF(w http.ResponseWriter, r *http.Request) {
	q, err := query(r)
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.serveFile(w, r)(h.service.ReportPDF(r.Context(), q.ChallengeID, q.Circuit))
}

func (h *LeaderboardHandlers) ProgressionChart(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		web.Error(w, http.StatusBadRequest, "invalid participant name")
		return
	}
	challengeID, err := web.OptionalInt64Query(r, "challenge")
	if err != nil || challengeID == nil {
		web.Error(w, http.StatusBadRequest, "challenge is required")
		return
	}
	h.serveFile(w, r)(h.service.ProgressionChart(r.Context(), name, *challengeID, r.URL.Query().Get("circuit")))
}

func (h *LeaderboardHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, summary)
}

// serveFile writes a rendered file or the service error.
func (h *LeaderboardHandlers) serveFile(w http.ResponseWriter, r *http.Request) func(*leaderboardservice.File, error) {
	return func(f *leaderboardservice.File, err error) {
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		web.Attachment(w, f.ContentType, f.Name, f.Body)
	}
}
