package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sdc-club/backend/pkg/response"
	"github.com/sdc-club/backend/pkg/utils"
)

// LoginRequest is the body for POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the login response.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Handler handles admin login.
type Handler struct {
	passwordHash string
	jwt          *JWTService
	logger       *zap.Logger
}

// NewHandler creates an auth handler checking passwords against a bcrypt hash.
func NewHandler(passwordHash string, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{passwordHash: passwordHash, jwt: jwt, logger: logger}
}

// Login handles POST /api/admin/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Login failed", "invalid request: "+err.Error())
		return
	}
	if !utils.CheckPassword(req.Password, h.passwordHash) {
		h.logger.Warn("admin login rejected", zap.String("client_ip", c.ClientIP()))
		response.Unauthorized(c, "invalid credentials")
		return
	}
	token, expiresAt, err := h.jwt.Generate(RoleAdmin, RoleAdmin)
	if err != nil {
		h.logger.Error("sign admin token failed", zap.Error(err))
		response.Internal(c, "Login failed", "failed to issue token")
		return
	}
	response.OK(c, TokenResponse{Token: token, ExpiresAt: expiresAt})
}
