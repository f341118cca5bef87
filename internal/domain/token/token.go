package token

// Package token inspects bearer tokens without verifying their signature.
// The backend re-validates signature and expiry on every request; the local
// check only exists so the client can discard tokens that cannot work.

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry decodes the token payload and returns its exp claim.
// The signature is deliberately not verified.
func Expiry(tokenString string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, jwt.ErrTokenRequiredClaimMissing
	}
	return exp.Time, nil
}

// IsExpired reports whether the token's exp claim is in the past.
// Malformed tokens and tokens without an exp claim count as expired.
func IsExpired(tokenString string) bool {
	return IsExpiredAt(tokenString, time.Now())
}

// IsExpiredAt is IsExpired evaluated against an explicit instant.
func IsExpiredAt(tokenString string, now time.Time) bool {
	exp, err := Expiry(tokenString)
	if err != nil {
		return true
	}
	return !exp.After(now)
}
