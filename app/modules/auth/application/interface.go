package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/auth/domain"
	pkgjwt "github.com/Black-And-White-Club/raid-challenge/pkg/jwt"
)

// Service defines the authentication service interface.
type Service interface {
	// IssueToken mints an operator token for subject with the given role.
	IssueToken(ctx context.Context, subject string, role pkgjwt.Role, ttl time.Duration) (string, error)

	// Authenticate validates a bearer token and returns the operator claims.
	Authenticate(ctx context.Context, tokenString string) (*authdomain.Claims, error)
}
