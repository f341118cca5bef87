package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestExpiry_ReturnsClaim(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s := signedToken(t, jwt.MapClaims{"exp": exp.Unix(), "sub": "11111111-1"})

	got, err := Expiry(s)
	require.NoError(t, err)
	assert.True(t, got.Equal(exp), "expiry should match the embedded claim")
}

func TestExpiry_MissingClaim(t *testing.T) {
	s := signedToken(t, jwt.MapClaims{"sub": "11111111-1"})

	_, err := Expiry(s)
	assert.Error(t, err)
}

func TestIsExpired(t *testing.T) {
	future := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(30 * time.Minute).Unix()})
	past := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-30 * time.Minute).Unix()})

	assert.False(t, IsExpired(future))
	assert.True(t, IsExpired(past))
}

func TestIsExpired_FailsClosed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "not-a-token"},
		{"two segments", "abc.def"},
		{"garbage payload", "eyJhbGciOiJIUzI1NiJ9.!!!notbase64!!!.sig"},
		{"no exp claim", signedTokenNoHelper(jwt.MapClaims{"sub": "x"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsExpired(tt.token), "malformed tokens must count as expired")
		})
	}
}

func TestIsExpiredAt_BoundaryIsExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := signedTokenNoHelper(jwt.MapClaims{"exp": now.Unix()})

	assert.True(t, IsExpiredAt(s, now), "a token expiring exactly now is unusable")
	assert.False(t, IsExpiredAt(s, now.Add(-time.Second)))
}

func signedTokenNoHelper(claims jwt.MapClaims) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return s
}
