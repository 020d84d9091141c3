package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/health-optimised/directory-backend/pkg/enums"
)

// AccessTokenClaims is the typed JWT handed to API clients after login.
// The directory's credential table is a demonstration surface, so the token
// only carries display identity and role.
type AccessTokenClaims struct {
	Username string     `json:"username"`
	Role     enums.Role `json:"role"`
	jwt.RegisteredClaims
}
