package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursepilot/internal/auth"
	"coursepilot/internal/config"
	"coursepilot/internal/domain"
)

func newVerifier(issuer string) *auth.Verifier {
	return auth.NewVerifier(config.AuthConfig{Enabled: true, JWTSecret: "test-secret", Issuer: issuer})
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := newVerifier("clerk")
	token, err := v.Sign("user_123", "student@example.edu", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)

	require.NoError(t, err)
	assert.Equal(t, "user_123", claims.Subject)
	assert.Equal(t, "student@example.edu", claims.Email)
}

func TestVerifier_Rejects(t *testing.T) {
	good := newVerifier("clerk")

	expired, err := good.Sign("user_1", "", -time.Hour)
	require.NoError(t, err)
	otherIssuer, err := newVerifier("someone-else").Sign("user_1", "", time.Hour)
	require.NoError(t, err)
	wrongSecret, err := auth.NewVerifier(config.AuthConfig{JWTSecret: "other", Issuer: "clerk"}).Sign("user_1", "", time.Hour)
	require.NoError(t, err)
	noSubject, err := good.Sign("", "", time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user_1",
		Issuer:    "clerk",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"wrong issuer": otherIssuer,
		"wrong secret": wrongSecret,
		"no subject":   noSubject,
		"alg none":     none,
		"garbage":      "not-a-token",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := good.Verify(token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestVerifier_NoIssuerCheck(t *testing.T) {
	token, err := newVerifier("anything").Sign("user_9", "", time.Hour)
	require.NoError(t, err)

	_, err = newVerifier("").Verify(token)

	assert.NoError(t, err)
}
