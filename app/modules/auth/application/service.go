package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/auth/domain"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	pkgjwt "github.com/Black-And-White-Club/raid-challenge/pkg/jwt"
	"go.opentelemetry.io/otel/trace"
)

// service implements the Service interface.
type service struct {
	tokens pkgjwt.Service
	logger *slog.Logger
	tracer trace.Tracer
}

// NewService creates a new auth service.
func NewService(tokens pkgjwt.Service, logger *slog.Logger, tracer trace.Tracer) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		tokens: tokens,
		logger: logger,
		tracer: tracer,
	}
}

// IssueToken mints an operator token for subject with the given role.
func (s *service) IssueToken(ctx context.Context, subject string, role pkgjwt.Role, ttl time.Duration) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.IssueToken")
	defer span.End()

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", ErrEmptySubject
	}
	if !role.Valid() {
		s.logger.WarnContext(ctx, "Invalid role specified", attr.String("role", string(role)))
		return "", ErrInvalidRole
	}

	token, err := s.tokens.GenerateToken(subject, role, ttl)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "Issued operator token",
		attr.String("subject", subject),
		attr.String("role", string(role)),
	)
	return token, nil
}

// Authenticate validates a bearer token and returns the operator claims.
func (s *service) Authenticate(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	_, span := s.tracer.Start(ctx, "AuthService.Authenticate")
	defer span.End()

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, pkgjwt.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	out := &authdomain.Claims{
		Subject: claims.Subject,
		Role:    pkgjwt.Role(claims.Role),
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
