package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of principal variants. It is carried on the
// principal, never as a free-form string on the entities.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleDonor Role = "DONOR"
)

// Principal is the resolved identity used for authorization decisions. It is
// built once at the lookup boundary from either an admin or a donor record.
type Principal struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// LoginRequest holds the credentials for authenticating a principal. The
// identifier is an admin username or a donor email.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and principal info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	Principal   Principal `json:"principal"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	PrincipalID string `json:"principal_id"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
	jwt.RegisteredClaims
}
