package auth

import (
	"context"
	"log/slog"
	"net/http"

	authservice "github.com/Black-And-White-Club/raid-challenge/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/auth/infrastructure/handlers"
	authrouter "github.com/Black-And-White-Club/raid-challenge/app/modules/auth/infrastructure/router"
	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/Black-And-White-Club/raid-challenge/config"
	pkgjwt "github.com/Black-And-White-Club/raid-challenge/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Module represents the auth module.
type Module struct {
	service  authservice.Service
	handlers authhandlers.Handlers
	router   *authrouter.Router
	limiter  *authhandlers.IPRateLimiter
	cfg      *config.Config
	logger   *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(ctx context.Context, cfg *config.Config, obs *observability.Observability) *Module {
	logger := obs.Logger
	tracer := obs.Tracer("auth")

	logger.InfoContext(ctx, "Initializing auth module")

	tokens := pkgjwt.NewService(cfg.JWT.Secret, cfg.JWT.DefaultTTL)
	service := authservice.NewService(tokens, logger, tracer)
	handlers := authhandlers.NewAuthHandlers(service, logger, tracer)

	m := &Module{
		service:  service,
		handlers: handlers,
		limiter:  authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		cfg:      cfg,
		logger:   logger,
	}
	m.router = authrouter.NewRouter(handlers, m.Require(pkgjwt.RoleViewer))
	return m
}

// Middlewares returns the middlewares every API route goes through.
func (m *Module) Middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		authhandlers.CORSMiddleware(m.cfg.HTTP.AllowedOrigins),
		authhandlers.RateLimitMiddleware(m.limiter),
	}
}

// Require returns a middleware that admits operators holding role.
func (m *Module) Require(role pkgjwt.Role) func(http.Handler) http.Handler {
	return authhandlers.RequireRole(m.service, role)
}

// RegisterRoutes mounts the auth HTTP routes.
func (m *Module) RegisterRoutes(mux chi.Router) {
	m.router.Mount(mux)
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
