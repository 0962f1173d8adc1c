package audit

import (
	"context"
	"net/http"

	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	audithandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/handlers"
	auditdb "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/repositories"
	auditrouter "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/router"
	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the audit module.
type Module struct {
	service *auditservice.AuditService
	router  *auditrouter.Router
}

// NewModule creates a new audit module backed by db.
func NewModule(ctx context.Context, obs *observability.Observability, db *bun.DB, viewer func(http.Handler) http.Handler) *Module {
	obs.Logger.InfoContext(ctx, "Initializing audit module")

	service := auditservice.NewAuditService(
		auditdb.NewRepository(db),
		obs.Logger,
		observability.NewOperationMetrics(obs.Registry, "audit"),
		obs.Tracer("audit"),
	)
	handlers := audithandlers.NewAuditHandlers(service, obs.Logger)

	return &Module{
		service: service,
		router:  auditrouter.NewRouter(handlers, viewer),
	}
}

// RegisterRoutes mounts the audit HTTP routes.
func (m *Module) RegisterRoutes(mux chi.Router) {
	m.router.Mount(mux)
}

// GetService returns the audit service used as the recorder by other modules.
func (m *Module) GetService() *auditservice.AuditService {
	return m.service
}
