package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the authenticated user's identity. Token issuance
// lives in the auth service outside this API; here we only validate and
// read the subject so callers can own their programs.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
