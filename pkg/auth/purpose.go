package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes for single-use email links.
const (
	PurposeVerifyEmail   = "verify-email"
	PurposeResetPassword = "reset-password"
)

// PurposeClaims is the payload of email-link tokens.
type PurposeClaims struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// GeneratePurposeToken creates a signed token bound to one purpose, used in
// verification and password-reset links.
func GeneratePurposeToken(userID, purpose string, ttl time.Duration) (string, error) {
	claims := PurposeClaims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidatePurposeToken parses a purpose token and checks it matches the
// expected purpose.
func ValidatePurposeToken(t, purpose string) (*PurposeClaims, error) {
	token, err := jwt.ParseWithClaims(t, &PurposeClaims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, hs256Only)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*PurposeClaims)
	if !ok || !token.Valid || claims.Purpose != purpose {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
