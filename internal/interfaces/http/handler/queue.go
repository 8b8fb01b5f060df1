package handler

import (
	"github.com/gin-gonic/gin"
	appqueue "github.com/klinika/backend/internal/application/queue"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
)

// QueueHandler handles the patient visit queue
type QueueHandler struct {
	BaseHandler
	queueService *appqueue.QueueService
}

// NewQueueHandler creates a new QueueHandler
func NewQueueHandler(queueService *appqueue.QueueService) *QueueHandler {
	return &QueueHandler{queueService: queueService}
}

// Enqueue registers a patient visit. The cashier must be open.
func (h *QueueHandler) Enqueue(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req appqueue.EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.queueService.Enqueue(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// List returns a day's queue entries in one status
func (h *QueueHandler) List(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var filter appqueue.QueueListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.queueService.ListByStatus(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// Counts returns today's queue totals per status
func (h *QueueHandler) Counts(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	counts, err := h.queueService.TodayCounts(c.Request.Context(), clinicID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, counts)
}

// StartConsultation claims a waiting entry for the authenticated doctor
func (h *QueueHandler) StartConsultation(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	doctorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid queue ID")
		return
	}

	entry, err := h.queueService.StartConsultation(c.Request.Context(), clinicID, id, doctorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Cancel withdraws a waiting entry before consultation starts
func (h *QueueHandler) Cancel(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid queue ID")
		return
	}

	if err := h.queueService.Cancel(c.Request.Context(), clinicID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers queue routes
func (h *QueueHandler) RegisterRoutes(rg *gin.RouterGroup) {
	queues := rg.Group("/queues")
	{
		queues.POST("", middleware.RequirePermission("queue:create"), h.Enqueue)
		queues.GET("", middleware.RequirePermission("queue:read"), h.List)
		queues.GET("/counts", middleware.RequirePermission("queue:read"), h.Counts)
		queues.POST("/:id/consult", middleware.RequirePermission("queue:consult"), h.StartConsultation)
		queues.DELETE("/:id", middleware.RequirePermission("queue:delete"), h.Cancel)
	}
}
