package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/snacktrack/snacktrack-api/jwt"
	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

const (
	DemoUserID       = "user_demo"
	DemoUserEmail    = "demo@example.com"
	DemoUserName     = "Demo User"
	DemoUserPassword = "password123"

	forgotPasswordMessage = "If this email is registered, you will receive a password reset link."
)

// Service implements the account flows on top of UserStore and the token manager.
type Service struct {
	users     *UserStore
	passwords *PasswordService
	tokens    *jwt.TokenManager
	logger    *logger.CtxZapLogger
	now       func() time.Time
}

func NewService(users *UserStore, passwords *PasswordService, tokens *jwt.TokenManager, log *logger.CtxZapLogger) *Service {
	return &Service{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    log,
		now:       time.Now,
	}
}

// Seed inserts the demo account. Calling it again is a no-op.
func (s *Service) Seed(ctx context.Context) error {
	if _, ok := s.users.GetByEmail(DemoUserEmail); ok {
		return nil
	}
	hash, err := s.passwords.HashPassword(DemoUserPassword)
	if err != nil {
		return err
	}
	err = s.users.Create(&User{
		ID:           DemoUserID,
		Email:        DemoUserEmail,
		Name:         DemoUserName,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return err
	}
	s.logger.InfoCtx(ctx, "Demo user seeded", zap.String("email", DemoUserEmail))
	return nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if _, ok := s.users.GetByEmail(req.Email); ok {
		return nil, ErrEmailTaken
	}
	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &User{
		ID:           fmt.Sprintf("user_%d", now.UnixNano()),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	tokens, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoCtx(ctx, "User registered", zap.String("user_id", user.ID))
	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, ok := s.users.GetByEmail(req.Email)
	if !ok || !s.passwords.CheckPassword(req.Password, user.PasswordHash) {
		s.logger.WarnCtx(ctx, "Login failed", zap.String("email", normalizeEmail(req.Email)))
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (jwt.TokenPair, error) {
	claims, err := s.tokens.VerifyType(ctx, refreshToken, jwt.TypeRefresh)
	if err != nil {
		return jwt.TokenPair{}, ErrInvalidRefreshToken
	}
	if _, ok := s.users.GetByID(claims.Subject); !ok {
		return jwt.TokenPair{}, ErrRefreshUserMissing
	}
	return s.tokens.IssuePair(ctx, claims.Subject)
}

func (s *Service) Me(_ context.Context, userID string) (*User, error) {
	user, ok := s.users.GetByID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Logout revokes the presented access token.
func (s *Service) Logout(ctx context.Context, accessToken string) (MessageResponse, error) {
	if err := s.tokens.Revoke(ctx, accessToken); err != nil {
		return MessageResponse{}, err
	}
	return MessageResponse{Message: "Logged out successfully"}, nil
}

// ForgotPassword answers the same way whether or not the email exists.
func (s *Service) ForgotPassword(ctx context.Context, email string) MessageResponse {
	if _, ok := s.users.GetByEmail(email); ok {
		s.logger.InfoCtx(ctx, "Password reset requested", zap.String("email", normalizeEmail(email)))
	}
	return MessageResponse{Message: forgotPasswordMessage}
}

// ResetPassword acknowledges the request. Reset tokens are not delivered by email yet,
// so there is nothing to verify against.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) MessageResponse {
	s.logger.InfoCtx(ctx, "Password reset submitted")
	return MessageResponse{Message: "Password reset successfully"}
}

// Tokens exposes the token manager for the authentication middleware.
func (s *Service) Tokens() *jwt.TokenManager {
	return s.tokens
}
