package backuphandlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	backupservice "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/application"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/web"
)

// Handlers serves the snapshot endpoints.
type Handlers interface {
	CreateSnapshot(w http.ResponseWriter, r *http.Request)
	Cleanup(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

// BackupHandlers implements Handlers.
type BackupHandlers struct {
	service         backupservice.Service
	defaultKeepDays int
	logger          *slog.Logger
}

// NewBackupHandlers creates a new BackupHandlers. defaultKeepDays applies
// when a cleanup request names no retention.
func NewBackupHandlers(service backupservice.Service, defaultKeepDays int, logger *slog.Logger) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupHandlers{service: service, defaultKeepDays: defaultKeepDays, logger: logger}
}

func (h *BackupHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, backupservice.ErrInvalidRetention) {
		web.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.ErrorContext(r.Context(), "Backup request failed",
		attr.ExtractCorrelationID(r.Context()),
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	web.Error(w, http.StatusInternalServerError, "internal error")
}

func (h *BackupHandlers) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.CreateSnapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if snap.Created {
		status = http.StatusCreated
	}
	web.JSON(w, status, snap)
}

type cleanupRequest struct {
	KeepDays *int `json:"keep_days"`
}

type cleanupResponse struct {
	Removed int `json:"removed"`
}

func (h *BackupHandlers) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		web.Error(w, http.StatusBadRequest, "Failed to decode request body")
		return
	}
	keep := h.defaultKeepDays
	if req.KeepDays != nil {
		keep = *req.KeepDays
	}
	removed, err := h.service.Cleanup(r.Context(), keep)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, cleanupResponse{Removed: removed})
}

func (h *BackupHandlers) Status(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Status(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, list)
}
