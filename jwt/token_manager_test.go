package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func newTestManager(t *testing.T, store TokenStore) *TokenManager {
	t.Helper()
	cfg := Config{Secret: "test-secret"}
	cfg.Blacklist.Enabled = store != nil
	m, err := NewTokenManager(cfg, store, logger.Nop())
	require.NoError(t, err)
	m.now = func() time.Time { return fixedNow }
	return m
}

func TestTokenManager_IssuePair(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	pair, err := m.IssuePair(ctx, "user_demo")
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)

	access, err := m.VerifyType(ctx, pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user_demo", access.Subject)
	assert.True(t, fixedNow.Add(30*time.Minute).Equal(access.ExpiresAt.Time))
	assert.True(t, fixedNow.Equal(access.IssuedAt.Time))
	assert.NotEmpty(t, access.ID)

	refresh, err := m.VerifyType(ctx, pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)
	assert.True(t, fixedNow.Add(7*24*time.Hour).Equal(refresh.ExpiresAt.Time))
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestTokenManager_WrongType(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	pair, err := m.IssuePair(ctx, "u1")
	require.NoError(t, err)

	_, err = m.VerifyType(ctx, pair.RefreshToken, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
	_, err = m.VerifyType(ctx, pair.AccessToken, TypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestTokenManager_Expired(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	token, err := m.GenerateAccessToken(ctx, "u1")
	require.NoError(t, err)

	m.now = func() time.Time { return fixedNow.Add(31 * time.Minute) }
	_, err = m.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Contains(t, err.Error(), "Invalid or expired token")
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	other, err := NewTokenManager(Config{Secret: "other-secret"}, nil, logger.Nop())
	require.NoError(t, err)
	other.now = m.now
	foreign, err := other.GenerateAccessToken(ctx, "u1")
	require.NoError(t, err)

	_, err = m.Verify(ctx, foreign)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.Verify(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u1", "type": "access", "exp": fixedNow.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(ctx, unsigned)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManager_MissingSubject(t *testing.T) {
	m := newTestManager(t, nil)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"type": "access", "exp": fixedNow.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManager_Revoke(t *testing.T) {
	store := NewMemoryTokenStore(0, logger.Nop())
	defer store.Close()
	store.now = func() time.Time { return fixedNow }
	m := newTestManager(t, store)
	ctx := context.Background()

	first, err := m.IssuePair(ctx, "u1")
	require.NoError(t, err)
	second, err := m.IssuePair(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, first.AccessToken))

	_, err = m.Verify(ctx, first.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = m.Verify(ctx, second.AccessToken)
	assert.NoError(t, err, "revocation is per token")

	assert.NoError(t, m.Revoke(ctx, "garbage"), "invalid tokens are ignored")
}

func TestTokenManager_RevokeWithoutBlacklist(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()
	token, err := m.GenerateAccessToken(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, token))
	_, err = m.Verify(ctx, token)
	assert.NoError(t, err)
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	assert.ErrorIs(t, cfg.Validate(), ErrSecretEmpty)

	cfg.Secret = "s"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())

	cfg.Algorithm = "RS256"
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrAlgorithmNotSupported)
	assert.Contains(t, err.Error(), "RS256")
}
