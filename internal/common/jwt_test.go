package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialapp/internal/config"
)

func newTestTokenManager(secret string, ttl time.Duration) *TokenManager {
	return NewTokenManager(&config.Config{Auth: config.AuthConfig{
		JWTSecret: secret,
		TokenTTL:  ttl,
		Issuer:    "socialapp",
	}})
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := newTestTokenManager("secret", time.Hour)

	token, err := tm.GenerateToken(42, "alice@example.com")
	require.NoError(t, err)

	claims, err := tm.ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "socialapp", claims.Issuer)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := newTestTokenManager("secret", time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := tm.GenerateToken(1, "a@b.co")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ValidToken(token)
	assert.Error(t, err)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := newTestTokenManager("one", time.Hour).GenerateToken(1, "a@b.co")
	require.NoError(t, err)

	_, err = newTestTokenManager("two", time.Hour).ValidToken(token)
	assert.Error(t, err)
}

func TestTokenManager_Malformed(t *testing.T) {
	_, err := newTestTokenManager("secret", time.Hour).ValidToken("not-a-token")
	assert.Error(t, err)
}
