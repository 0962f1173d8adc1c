package authhandlers

import (
	"log/slog"
	"net/http"

	authservice "github.com/Black-And-White-Club/raid-challenge/app/modules/auth/application"
	"github.com/Black-And-White-Club/raid-challenge/app/web"
	"go.opentelemetry.io/otel/trace"
)

// Handlers serves the auth HTTP endpoints.
type Handlers interface {
	HandleWhoAmI(w http.ResponseWriter, r *http.Request)
}

// AuthHandlers implements the Handlers interface.
type AuthHandlers struct {
	service authservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(service authservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &AuthHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleWhoAmI returns the claims of the calling operator.
func (h *AuthHandlers) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, authservice.ErrMissingToken.Error())
		return
	}
	web.JSON(w, http.StatusOK, claims)
}
