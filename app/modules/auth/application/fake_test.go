package authservice

import (
	"time"

	pkgjwt "github.com/Black-And-White-Club/raid-challenge/pkg/jwt"
)

// ------------------------
// Fake Token Service
// ------------------------

type FakeTokens struct {
	trace []string

	GenerateTokenFunc func(subject string, role pkgjwt.Role, ttl time.Duration) (string, error)
	ValidateTokenFunc func(tokenString string) (*pkgjwt.OperatorClaims, error)
}

func (f *FakeTokens) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeTokens) Trace() []string {
	return f.trace
}

func (f *FakeTokens) GenerateToken(subject string, role pkgjwt.Role, ttl time.Duration) (string, error) {
	f.record("GenerateToken")
	if f.GenerateTokenFunc != nil {
		return f.GenerateTokenFunc(subject, role, ttl)
	}
	return "fake-token", nil
}

func (f *FakeTokens) ValidateToken(tokenString string) (*pkgjwt.OperatorClaims, error) {
	f.record("ValidateToken")
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(tokenString)
	}
	return &pkgjwt.OperatorClaims{Role: string(pkgjwt.RoleViewer)}, nil
}

var _ pkgjwt.Service = (*FakeTokens)(nil)
