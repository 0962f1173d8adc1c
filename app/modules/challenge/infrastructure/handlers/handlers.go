package challengehandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	challengeservice "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/web"
	"github.com/go-chi/chi/v5"
)

// Handlers serves the challenge HTTP endpoints.
type Handlers interface {
	ListChallenges(w http.ResponseWriter, r *http.Request)
	CreateChallenge(w http.ResponseWriter, r *http.Request)
	DeleteChallenge(w http.ResponseWriter, r *http.Request)

	ListEvents(w http.ResponseWriter, r *http.Request)
	UpdateEvent(w http.ResponseWriter, r *http.Request)
	DeleteEvent(w http.ResponseWriter, r *http.Request)

	AddResult(w http.ResponseWriter, r *http.Request)
	UpdateResult(w http.ResponseWriter, r *http.Request)
	DeleteResult(w http.ResponseWriter, r *http.Request)
	ParticipantResults(w http.ResponseWriter, r *http.Request)

	InvalidParticipants(w http.ResponseWriter, r *http.Request)
	CleanInvalidParticipants(w http.ResponseWriter, r *http.Request)
	AberrantResults(w http.ResponseWriter, r *http.Request)
	FixAberrantResults(w http.ResponseWriter, r *http.Request)
}

// ChallengeHandlers implements Handlers.
type ChallengeHandlers struct {
	service challengeservice.Service
	logger  *slog.Logger
}

// NewChallengeHandlers creates a new ChallengeHandlers.
func NewChallengeHandlers(service challengeservice.Service, logger *slog.Logger) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChallengeHandlers{service: service, logger: logger}
}

// writeError maps service errors onto HTTP statuses.
func (h *ChallengeHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var taken *challengeservice.RankTakenError
	switch {
	case errors.As(err, &taken):
		web.CodedError(w, http.StatusConflict, "RANK_TAKEN", taken.Error(), map[string]any{
			"rank":     taken.Rank,
			"category": taken.Category,
			"holder":   taken.Holder,
		})
	case errors.Is(err, challengedb.ErrNotFound):
		web.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, challengeservice.ErrInvalidRange),
		errors.Is(err, challengeservice.ErrEmptyName),
		errors.Is(err, challengeservice.ErrEmptyCategory),
		errors.Is(err, challengeservice.ErrInvalidRank),
		errors.Is(err, challengeservice.ErrPointsOutOfRange),
		errors.Is(err, challengeservice.ErrInvalidDate):
		web.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Challenge request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		web.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func eventFilter(r *http.Request) (challengedb.EventFilter, error) {
	challengeID, err := web.OptionalInt64Query(r, "challenge")
	if err != nil {
		return challengedb.EventFilter{}, err
	}
	return challengedb.EventFilter{
		ChallengeID: challengeID,
		Circuit:     r.URL.Query().Get("circuit"),
	}, nil
}

func (h *ChallengeHandlers) ListChallenges(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListChallenges(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, list)
}

type createChallengeRequest struct {
	Range string `json:"range"`
}

func (h *ChallengeHandlers) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req createChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "Failed to decode request body")
		return
	}
	c, err := h.service.CreateChallenge(r.Context(), req.Range)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusCreated, c)
}

func (h *ChallengeHandlers) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := web.Int64Param(r, "id")
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.DeleteChallenge(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChallengeHandlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilter(r)
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	events, err := h.service.ListEvents(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, events)
}

type updateEventRequest struct {
	Name *string `json:"name"`
	Date *string `json:"date"`
	// ChallengeID moves the raid; 0 detaches it from any season.
	ChallengeID *int64 `json:"challenge_id"`
}

func (h *ChallengeHandlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := web.Int64Param(r, "id")
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "Failed to decode request body")
		return
	}
	if req.Name == nil && req.Date == nil && req.ChallengeID == nil {
		web.Error(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.Name != nil {
		if err := h.service.RenameEvent(r.Context(), id, *req.Name); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	if req.Date != nil {
		if err := h.service.RedateEvent(r.Context(), id, *req.Date); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	if req.ChallengeID != nil {
		target := req.ChallengeID
		if *target == 0 {
			target = nil
		}
		if err := h.service.MoveEvent(r.Context(), id, target); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChallengeHandlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := web.Int64Param(r, "id")
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	removed, err := h.service.DeleteEvent(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]int{"results_removed": removed})
}

func (h *ChallengeHandlers) AddResult(w http.ResponseWriter, r *http.Request) {
	id, err := web.Int64Param(r, "id")
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req challengeservice.ManualResult
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "Failed to decode request body")
		return
	}
	req.EventID = id
	res, err := h.service.AddManualResult(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusCreated, res)
}

type updateResultRequest struct {
	Points *int `json:"points"`
}

func (h *ChallengeHandlers) UpdateResult(w http.ResponseWriter, r *http.Request) {
	id, err := web.Int64Param(r, "id")
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Points == nil {
		web.Error(w, http.StatusBadRequest, "points is required")
		return
	}
	if err := h.service.UpdateResultPoints(r.Context(), id, *req.Points); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChallengeHandlers) DeleteResult(w http.ResponseWriter, r *http.Request) {
	id, err := web.Int64Param(r, "id")
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.DeleteResult(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChallengeHandlers) ParticipantResults(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		web.Error(w, http.StatusBadRequest, "invalid participant name")
		return
	}
	filter, err := eventFilter(r)
	if err != nil {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.service.ParticipantResults(r.Context(), name, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, rows)
}

func (h *ChallengeHandlers) InvalidParticipants(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.InvalidParticipants(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, rows)
}

func (h *ChallengeHandlers) CleanInvalidParticipants(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CleanInvalidParticipants(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (h *ChallengeHandlers) AberrantResults(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.AberrantResults(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, rows)
}

func (h *ChallengeHandlers) FixAberrantResults(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.FixAberrantResults(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]int{"fixed": n})
}
