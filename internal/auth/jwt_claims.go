package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpirationFromJWT reads the exp claim of a JWT without verifying its signature.
// The console cannot verify tokens; the backend stays authoritative.
func ExpirationFromJWT(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
