package authhandlers

import (
	"context"
	"time"

	authservice "github.com/Black-And-White-Club/raid-challenge/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/auth/domain"
	pkgjwt "github.com/Black-And-White-Club/raid-challenge/pkg/jwt"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	IssueTokenFunc   func(ctx context.Context, subject string, role pkgjwt.Role, ttl time.Duration) (string, error)
	AuthenticateFunc func(ctx context.Context, tokenString string) (*authdomain.Claims, error)
}

func (f *FakeService) IssueToken(ctx context.Context, subject string, role pkgjwt.Role, ttl time.Duration) (string, error) {
	if f.IssueTokenFunc != nil {
		return f.IssueTokenFunc(ctx, subject, role, ttl)
	}
	return "token", nil
}

func (f *FakeService) Authenticate(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	if f.AuthenticateFunc != nil {
		return f.AuthenticateFunc(ctx, tokenString)
	}
	return nil, authservice.ErrInvalidToken
}

var _ authservice.Service = (*FakeService)(nil)
