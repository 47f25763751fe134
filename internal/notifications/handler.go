package notifications

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/middleware"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/queue"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/response"
)

// Broadcaster pushes a notification to connected WebSocket clients.
type Broadcaster interface {
	BroadcastCampusEvent(event string, payload interface{})
}

// CreateRequest is the body for POST /notifications.
type CreateRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body"`
	Audience string `json:"audience" binding:"omitempty,oneof=all students faculty"`
}

// Handler handles notification HTTP endpoints. Creating a notification
// persists it, pushes it to live WebSocket clients, and enqueues a dispatch
// job for offline delivery.
type Handler struct {
	repo   *Repository
	hub    Broadcaster
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates a notification handler. hub and q may be nil.
func NewHandler(repo *Repository, hub Broadcaster, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, hub: hub, queue: q, logger: logger}
}

// Create handles POST /notifications (faculty or admin).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	audience := req.Audience
	if audience == "" {
		audience = "all"
	}
	n := &models.Notification{
		Title:     req.Title,
		Body:      req.Body,
		Audience:  audience,
		CreatedBy: &userID,
	}
	if err := h.repo.Create(c.Request.Context(), n); err != nil {
		response.Internal(c, "failed to create notification")
		return
	}

	if h.hub != nil {
		h.hub.BroadcastCampusEvent("notification", n)
	}
	if h.queue != nil {
		err := h.queue.EnqueueNotificationDispatch(c.Request.Context(), queue.NotificationDispatchPayload{
			NotificationID: n.ID,
			Audience:       n.Audience,
		})
		if err != nil {
			h.logger.Warn("failed to enqueue notification dispatch", zap.Error(err), zap.String("notification_id", n.ID.String()))
		}
	}
	response.Created(c, n)
}

// List handles GET /notifications. Results are scoped to the caller's role.
func (h *Handler) List(c *gin.Context) {
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	list, err := h.repo.List(c.Request.Context(), role, limit)
	if err != nil {
		response.Internal(c, "failed to list notifications")
		return
	}
	response.OK(c, list)
}
