package registrations

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sdc-club/backend/internal/middleware"
	"github.com/sdc-club/backend/internal/models"
	"github.com/sdc-club/backend/pkg/queue"
	"github.com/sdc-club/backend/pkg/response"
)

// Response messages of the registration API.
const (
	MsgCreated      = "Registration submitted successfully"
	MsgCreateFailed = "Registration failed"
	MsgListFailed   = "Error fetching registrations"
	MsgUpdateFailed = "Error updating registration"
	MsgExportQueued = "Export queued"
)

// Jobs enqueues background work triggered by the registration API.
type Jobs interface {
	EnqueueStatusNotification(ctx context.Context, payload queue.StatusNotificationPayload) error
	EnqueueExport(ctx context.Context, payload queue.ExportPayload) (string, error)
}

// Events receives review feed events.
type Events interface {
	Publish(event string, payload interface{})
}

// Review feed event names.
const (
	EventCreated       = "registration_created"
	EventStatusChanged = "registration_status"
)

// UpdateStatusRequest is the body for PATCH /api/registration/:id.
type UpdateStatusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	store  Store
	jobs   Jobs
	events Events
	logger *zap.Logger
}

// NewHandler creates a registrations handler. jobs may be nil when no queue is configured.
func NewHandler(store Store, jobs Jobs, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, jobs: jobs, logger: logger}
}

// SetEvents sets the review feed that is told about new registrations and status changes.
func (h *Handler) SetEvents(events Events) {
	h.events = events
}

func (h *Handler) publish(event string, reg *models.Registration) {
	if h.events != nil {
		h.events.Publish(event, reg)
	}
}

// Create handles POST /api/registration.
func (h *Handler) Create(c *gin.Context) {
	var form models.RegistrationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, MsgCreateFailed, "invalid request: "+err.Error())
		return
	}
	reg, err := FromForm(form)
	if err != nil {
		response.BadRequest(c, MsgCreateFailed, err.Error())
		return
	}
	if err := h.store.Create(c.Request.Context(), reg); err != nil {
		var ce *ConstraintError
		if errors.As(err, &ce) {
			h.logger.Info("registration rejected", zap.String("field", ce.Field), zap.Error(err))
			response.BadRequest(c, MsgCreateFailed, err.Error())
			return
		}
		h.logger.Error("create registration failed", zap.Error(err))
		response.Internal(c, MsgCreateFailed, "failed to save registration")
		return
	}
	h.logger.Info("registration created", zap.String("registration_id", reg.ID), zap.String("branch", reg.Branch))
	h.publish(EventCreated, reg)
	response.Created(c, MsgCreated, reg)
}

// List handles GET /api/registration.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, MsgListFailed, err.Error())
		return
	}
	if list == nil {
		list = []models.Registration{}
	}
	response.OK(c, list)
}

// UpdateStatus handles PATCH /api/registration/:id. Every failure is reported as 400.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, MsgUpdateFailed, "invalid request: "+err.Error())
		return
	}
	reg, err := h.store.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		var ce *ConstraintError
		if !errors.As(err, &ce) && !errors.Is(err, ErrNotFound) {
			h.logger.Error("update registration status failed", zap.String("registration_id", id), zap.Error(err))
		}
		response.BadRequest(c, MsgUpdateFailed, err.Error())
		return
	}
	h.logger.Info("registration status updated", zap.String("registration_id", id), zap.String("status", string(reg.Status)))
	h.publish(EventStatusChanged, reg)

	if h.jobs != nil {
		payload := queue.StatusNotificationPayload{
			RegistrationID: reg.ID,
			FullName:       reg.FullName,
			RecipientEmail: reg.Email,
			Status:         string(reg.Status),
		}
		if err := h.jobs.EnqueueStatusNotification(c.Request.Context(), payload); err != nil {
			h.logger.Warn("enqueue status notification failed", zap.String("registration_id", reg.ID), zap.Error(err))
		}
	}
	response.OK(c, reg)
}

// Export handles POST /api/registration/export: queues a CSV export of all registrations.
func (h *Handler) Export(c *gin.Context) {
	if h.jobs == nil {
		response.ServiceUnavailable(c, "background jobs are not configured")
		return
	}
	jobID, err := h.jobs.EnqueueExport(c.Request.Context(), queue.ExportPayload{RequestedBy: c.GetString(middleware.ContextSubject)})
	if err != nil {
		h.logger.Error("enqueue export failed", zap.Error(err))
		response.Internal(c, "Export failed", "failed to queue export")
		return
	}
	response.Accepted(c, MsgExportQueued, gin.H{"jobId": jobID})
}
