package api

import (
	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/auth"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/jwt"
	"github.com/snacktrack/snacktrack-api/middleware"
)

// AuthHandler serves /auth.
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(rg gin.IRouter) {
	requireAuth := middleware.RequireAuth(h.svc.Tokens())

	rg.POST("/register", httpx.Wrap(h.register))
	rg.POST("/login", httpx.Wrap(h.login))
	rg.POST("/refresh", httpx.Wrap(h.refresh))
	rg.POST("/logout", requireAuth, httpx.Wrap(h.logout))
	rg.GET("/me", requireAuth, httpx.Wrap(h.me))
	rg.POST("/forgot-password", httpx.Wrap(h.forgotPassword))
	rg.POST("/reset-password", httpx.Wrap(h.resetPassword))
}

func (h *AuthHandler) register(c *gin.Context, req *auth.RegisterRequest) (*auth.AuthResponse, error) {
	return h.svc.Register(c.Request.Context(), *req)
}

func (h *AuthHandler) login(c *gin.Context, req *auth.LoginRequest) (*auth.AuthResponse, error) {
	return h.svc.Login(c.Request.Context(), *req)
}

func (h *AuthHandler) refresh(c *gin.Context, req *auth.RefreshRequest) (*jwt.TokenPair, error) {
	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

func (h *AuthHandler) logout(c *gin.Context, _ *Empty) (*auth.MessageResponse, error) {
	resp, err := h.svc.Logout(c.Request.Context(), middleware.AccessToken(c))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (h *AuthHandler) me(c *gin.Context, _ *Empty) (*auth.User, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return nil, auth.ErrNotAuthenticated
	}
	return h.svc.Me(c.Request.Context(), userID)
}

func (h *AuthHandler) forgotPassword(c *gin.Context, req *auth.ForgotPasswordRequest) (*auth.MessageResponse, error) {
	resp := h.svc.ForgotPassword(c.Request.Context(), req.Email)
	return &resp, nil
}

func (h *AuthHandler) resetPassword(c *gin.Context, req *auth.ResetPasswordRequest) (*auth.MessageResponse, error) {
	resp := h.svc.ResetPassword(c.Request.Context(), *req)
	return &resp, nil
}
