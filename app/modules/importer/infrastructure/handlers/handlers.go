package importhandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	importservice "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/application"
	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/importer/infrastructure/parsers"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// previewRows is how many data rows Preview echoes back.
const previewRows = 5

// Handlers serves the import HTTP endpoints.
type Handlers interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Analyze(w http.ResponseWriter, r *http.Request)
	GetPending(w http.ResponseWriter, r *http.Request)
	Commit(w http.ResponseWriter, r *http.Request)
	Discard(w http.ResponseWriter, r *http.Request)
}

// ImportHandlers implements Handlers.
type ImportHandlers struct {
	service   importservice.Service
	parsers   *parsers.Factory
	maxUpload int64
	logger    *slog.Logger
}

// NewImportHandlers creates a new ImportHandlers. Uploads larger than
// maxUpload bytes are rejected.
func NewImportHandlers(service importservice.Service, factory *parsers.Factory, maxUpload int64, logger *slog.Logger) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if factory == nil {
		factory = parsers.NewFactory()
	}
	return &ImportHandlers{service: service, parsers: factory, maxUpload: maxUpload, logger: logger}
}

func (h *ImportHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		importErr  *parsers.ImportError
		gate       *importservice.PointsDecisionRequiredError
		unresolved *importservice.UnresolvedConflictError
	)
	switch {
	case errors.As(err, &importErr):
		status := http.StatusBadRequest
		if importErr.Code == parsers.CodeUnsupportedFormat {
			status = http.StatusUnsupportedMediaType
		}
		web.CodedError(w, status, importErr.Code, importErr.Error(), nil)
	case errors.As(err, &gate):
		web.CodedError(w, http.StatusConflict, "POINTS_DECISION_REQUIRED", gate.Error(), map[string]any{
			"conflicts": gate.Conflicts,
		})
	case errors.As(err, &unresolved):
		web.CodedError(w, http.StatusConflict, "UNRESOLVED_CONFLICTS", unresolved.Error(), map[string]any{
			"entry_ids": unresolved.EntryIDs,
		})
	case errors.Is(err, importservice.ErrDuplicateEvent):
		web.CodedError(w, http.StatusConflict, "DUPLICATE_EVENT", err.Error(), nil)
	case errors.Is(err, importdomain.ErrBatchNotFound):
		web.Error(w, http.StatusNotFound, "import batch not found or expired")
	case errors.Is(err, importdomain.ErrInvalidConfig),
		errors.Is(err, importservice.ErrInvalidDecision):
		web.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Import request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		web.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// readTable parses the uploaded "file" part of a multipart request.
func (h *ImportHandlers) readTable(w http.ResponseWriter, r *http.Request) (*importdomain.Table, error) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	memory := h.maxUpload
	if memory <= 0 {
		memory = 32 << 20
	}
	if err := r.ParseMultipartForm(memory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &parsers.ImportError{Code: "FILE_TOO_LARGE", Message: fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit)}
		}
		return nil, &parsers.ImportError{Code: parsers.CodeParseError, Message: "invalid multipart form", Err: err}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, &parsers.ImportError{Code: parsers.CodeParseError, Message: "missing file part", Err: err}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &parsers.ImportError{Code: parsers.CodeParseError, Message: "failed to read upload", Err: err}
	}

	parser, err := h.parsers.GetParser(header.Filename)
	if err != nil {
		return nil, err
	}
	return parser.Parse(data, header.Filename)
}

type previewResponse struct {
	Columns []string           `json:"columns"`
	Rows    []importdomain.Row `json:"rows"`
	Total   int                `json:"total"`
}

// Preview returns the header and the first rows of an upload so the operator
// can map columns before analysis.
func (h *ImportHandlers) Preview(w http.ResponseWriter, r *http.Request) {
	table, err := h.readTable(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows := table.Rows
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}
	web.JSON(w, http.StatusOK, previewResponse{Columns: table.Columns, Rows: rows, Total: len(table.Rows)})
}

// Analyze expects a multipart form with a "file" part, a JSON "config" field
// and an optional "points_source" field answering a previous points conflict.
func (h *ImportHandlers) Analyze(w http.ResponseWriter, r *http.Request) {
	table, err := h.readTable(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var spec importservice.ConfigSpec
	if err := json.Unmarshal([]byte(r.FormValue("config")), &spec); err != nil {
		web.Error(w, http.StatusBadRequest, "Failed to decode import config")
		return
	}
	cfg, err := h.service.BuildConfig(spec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.service.Analyze(r.Context(), importservice.AnalyzeRequest{
		Table:    *table,
		Config:   cfg,
		Decision: importdomain.PointsSource(r.FormValue("points_source")),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusCreated, result)
}

func batchID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *ImportHandlers) GetPending(w http.ResponseWriter, r *http.Request) {
	id, err := batchID(r)
	if err != nil {
		web.Error(w, http.StatusBadRequest, "invalid batch id")
		return
	}
	batch, err := h.service.GetPending(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, batch)
}

func (h *ImportHandlers) Commit(w http.ResponseWriter, r *http.Request) {
	id, err := batchID(r)
	if err != nil {
		web.Error(w, http.StatusBadRequest, "invalid batch id")
		return
	}
	var decision importdomain.ImportDecision
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&decision); err != nil && !errors.Is(err, io.EOF) {
			web.Error(w, http.StatusBadRequest, "Failed to decode request body")
			return
		}
	}
	summary, err := h.service.Commit(r.Context(), id, decision)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, summary)
}

func (h *ImportHandlers) Discard(w http.ResponseWriter, r *http.Request) {
	id, err := batchID(r)
	if err != nil {
		web.Error(w, http.StatusBadRequest, "invalid batch id")
		return
	}
	if err := h.service.Discard(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
