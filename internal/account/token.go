package account

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a backend token without verifying it.
// The backend owns the signing key; the expiry only decides when the stored identity is dropped.
func TokenExpiry(token string) (*time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("token has no exp claim")
	}
	exp := claims.ExpiresAt.Time
	return &exp, nil
}
