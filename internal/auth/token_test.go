package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	session, err := tm.GenerateToken(domain.Identity{UserID: 42, Email: "a@example.com", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	identity, err := tm.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, "a@example.com", identity.Email)
	assert.Equal(t, domain.RoleUser, identity.Role)
}

func TestTokenManager_DefaultTTLIsOneDay(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", 0)
	tm.now = func() time.Time { return now }

	session, err := tm.GenerateToken(domain.Identity{UserID: 1, Email: "x@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), session.ExpiresAt)
}

func TestTokenManager_Expired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	tm := NewTokenManager("secret", time.Hour)
	tm.now = func() time.Time { return issued }

	session, err := tm.GenerateToken(domain.Identity{UserID: 1, Email: "x@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(session.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	session, err := issuer.GenerateToken(domain.Identity{UserID: 1, Email: "x@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = verifier.ParseToken(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	claims := jwt.MapClaims{
		"id":    1,
		"email": "x@example.com",
		"role":  "superuser",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{"id": 1, "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
