package jwt

import "github.com/golang-jwt/jwt/v5"

// OperatorClaims are the claims carried by an operator token.
type OperatorClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleViewer || r == RoleEditor
}

// Allows reports whether a holder of r may use an endpoint guarded by
// required. Editors may do everything viewers can.
func (r Role) Allows(required Role) bool {
	switch required {
	case RoleViewer:
		return r == RoleViewer || r == RoleEditor
	case RoleEditor:
		return r == RoleEditor
	}
	return false
}
