package audithandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/web"
)

// Handlers serves the audit log endpoints.
type Handlers interface {
	HandleRecent(w http.ResponseWriter, r *http.Request)
	HandlePoints(w http.ResponseWriter, r *http.Request)
}

// AuditHandlers implements Handlers.
type AuditHandlers struct {
	service auditservice.Service
	logger  *slog.Logger
}

// NewAuditHandlers creates a new AuditHandlers.
func NewAuditHandlers(service auditservice.Service, logger *slog.Logger) Handlers {
	return &AuditHandlers{service: service, logger: logger}
}

// limit reads ?limit=, returning 0 (service default) when absent.
func limit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// HandleRecent returns the latest modifications across all tables.
func (h *AuditHandlers) HandleRecent(w http.ResponseWriter, r *http.Request) {
	n, ok := limit(r)
	if !ok {
		web.Error(w, http.StatusBadRequest, "invalid limit")
		return
	}
	rows, err := h.service.RecentModifications(r.Context(), n)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to read audit log", attr.Error(err))
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, http.StatusOK, rows)
}

// HandlePoints returns the latest manual point corrections.
func (h *AuditHandlers) HandlePoints(w http.ResponseWriter, r *http.Request) {
	n, ok := limit(r)
	if !ok {
		web.Error(w, http.StatusBadRequest, "invalid limit")
		return
	}
	rows, err := h.service.PointModifications(r.Context(), n)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to read point modifications", attr.Error(err))
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, http.StatusOK, rows)
}
