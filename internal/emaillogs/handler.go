package emaillogs

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sdc-club/backend/internal/models"
	"github.com/sdc-club/backend/pkg/response"
)

// Lister reads email logs.
type Lister interface {
	ListByRegistration(ctx context.Context, registrationID string) ([]models.EmailLog, error)
}

// Handler handles email log HTTP endpoints.
type Handler struct {
	repo   Lister
	logger *zap.Logger
}

// NewHandler creates an email logs handler.
func NewHandler(repo Lister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListByRegistration handles GET /api/registration/:id/emails, newest first.
// Mount behind the admin guard.
func (h *Handler) ListByRegistration(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "Error fetching email logs", "registration id required")
		return
	}
	logs, err := h.repo.ListByRegistration(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list email logs failed", zap.String("registration_id", id), zap.Error(err))
		response.Internal(c, "Error fetching email logs", "failed to load email logs")
		return
	}
	response.OK(c, logs)
}
