package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "lingora-test", 24)

	token, err := tm.GenerateToken("m-1", "yuki@example.com", "Yuki Tanaka", "mentor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "m-1", claims.UserID)
	assert.Equal(t, "yuki@example.com", claims.Email)
	assert.Equal(t, "Yuki Tanaka", claims.Name)
	assert.Equal(t, "mentor", claims.Role)
	assert.Equal(t, "lingora-test", claims.Issuer)
	assert.Equal(t, "m-1", claims.Subject)
}

func TestTokenManager_WrongSecretRejected(t *testing.T) {
	token, err := NewTokenManager("secret-a", "lingora-test", 24).
		GenerateToken("m-1", "yuki@example.com", "Yuki", "mentor")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", "lingora-test", 24).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_GarbageTokenRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", "lingora-test", 24)

	_, err := tm.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ExpiredTokenRejected(t *testing.T) {
	// Zero TTL makes the token expire at issue time.
	tm := NewTokenManager("test-secret", "lingora-test", 0)

	token, err := tm.GenerateToken("m-1", "yuki@example.com", "Yuki", "mentor")
	require.NoError(t, err)

	time.Sleep(time.Second)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGetExpirationTime(t *testing.T) {
	tm := NewTokenManager("test-secret", "lingora-test", 24)
	assert.Equal(t, 24*time.Hour, tm.GetExpirationTime())
}

func TestTimingSafeCompare(t *testing.T) {
	assert.True(t, TimingSafeCompare("ltk_abc_123", "ltk_abc_123"))
	assert.False(t, TimingSafeCompare("ltk_abc_123", "ltk_abc_124"))
	assert.False(t, TimingSafeCompare("ltk_abc_123", "ltk_abc"))
	assert.True(t, TimingSafeCompare("", ""))
}
