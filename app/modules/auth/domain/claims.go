package authdomain

import (
	"time"

	pkgjwt "github.com/Black-And-White-Club/raid-challenge/pkg/jwt"
)

// Claims represents an authenticated operator.
type Claims struct {
	Subject   string      `json:"subject"`
	Role      pkgjwt.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
	IssuedAt  time.Time   `json:"issued_at"`
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
