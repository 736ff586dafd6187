// Package jwt implements generation and parsing of JWT tokens with the
// custom claims this service needs: user uid, username and the email
// verification flag.
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims carries the user data embedded in issued tokens.
type CustomClaims struct {
	UserUID              string `json:"uid"`
	Username             string `json:"username"`
	EmailVerified        bool   `json:"email_verified"`
	jwt.RegisteredClaims        // standard claims (ExpiresAt, IssuedAt, ...)
}
