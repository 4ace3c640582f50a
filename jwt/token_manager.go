package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// TokenManager issues, verifies and revokes tokens.
type TokenManager struct {
	config        Config
	signingMethod jwt.SigningMethod
	key           []byte
	store         TokenStore
	logger        *logger.CtxZapLogger
	now           func() time.Time
}

// NewTokenManager validates cfg. store may be nil, which disables revocation.
func NewTokenManager(cfg Config, store TokenStore, log *logger.CtxZapLogger) (*TokenManager, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &TokenManager{
		config:        cfg,
		signingMethod: signingMethods[cfg.Algorithm],
		key:           []byte(cfg.Secret),
		store:         store,
		logger:        log,
		now:           time.Now,
	}, nil
}

// IssuePair creates a fresh access/refresh pair for subject.
func (m *TokenManager) IssuePair(ctx context.Context, subject string) (TokenPair, error) {
	access, err := m.GenerateAccessToken(ctx, subject)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.GenerateRefreshToken(ctx, subject)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (m *TokenManager) GenerateAccessToken(ctx context.Context, subject string) (string, error) {
	return m.generate(ctx, subject, TypeAccess, m.config.AccessTTL())
}

func (m *TokenManager) GenerateRefreshToken(ctx context.Context, subject string) (string, error) {
	return m.generate(ctx, subject, TypeRefresh, m.config.RefreshTTL())
}

func (m *TokenManager) generate(ctx context.Context, subject string, typ TokenType, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(m.signingMethod, claims).SignedString(m.key)
	if err != nil {
		m.logger.ErrorCtx(ctx, "failed to sign token",
			zap.Error(err),
			zap.String("subject", subject),
			zap.String("type", string(typ)),
		)
		return "", ErrSign.Wrap(err)
	}

	m.logger.DebugCtx(ctx, "token generated",
		zap.String("subject", subject),
		zap.String("type", string(typ)),
		zap.Duration("ttl", ttl),
	)
	return signed, nil
}

// Verify parses tokenString, checks signature and expiry, then the blacklist.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{m.signingMethod.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		m.logger.DebugCtx(ctx, "token verification failed", zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired.Wrap(err)
		}
		return nil, ErrTokenInvalid.Wrap(err)
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	if m.blacklistEnabled() && claims.ID != "" {
		revoked, err := m.store.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			m.logger.ErrorCtx(ctx, "failed to check token blacklist", zap.Error(err))
			return nil, ErrBlacklist.Wrap(err)
		}
		if revoked {
			m.logger.WarnCtx(ctx, "token is blacklisted", zap.String("subject", claims.Subject))
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// VerifyType is Verify plus a token type check.
func (m *TokenManager) VerifyType(ctx context.Context, tokenString string, want TokenType) (*Claims, error) {
	claims, err := m.Verify(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}

// Revoke blacklists tokenString for the rest of its lifetime. Invalid or expired tokens
// are ignored.
func (m *TokenManager) Revoke(ctx context.Context, tokenString string) error {
	if !m.blacklistEnabled() {
		return nil
	}
	claims, err := m.Verify(ctx, tokenString)
	if err != nil || claims.ID == "" {
		return nil
	}
	ttl := claims.TTL(m.now())
	if ttl <= 0 {
		return nil
	}
	if err := m.store.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		return ErrBlacklist.Wrap(err)
	}
	m.logger.InfoCtx(ctx, "token revoked",
		zap.String("subject", claims.Subject),
		zap.Duration("ttl", ttl),
	)
	return nil
}

func (m *TokenManager) blacklistEnabled() bool {
	return m.config.Blacklist.Enabled && m.store != nil
}
