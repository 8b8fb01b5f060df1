package handler

import (
	"github.com/gin-gonic/gin"
	apprecord "github.com/klinika/backend/internal/application/record"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
)

// RecordHandler handles consultations and medical record history
type RecordHandler struct {
	BaseHandler
	consultationService *apprecord.ConsultationService
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(consultationService *apprecord.ConsultationService) *RecordHandler {
	return &RecordHandler{consultationService: consultationService}
}

// SubmitAssessment closes a consultation: it writes the medical record,
// opens the bill and sends the patient to payment
func (h *RecordHandler) SubmitAssessment(c *gin.Context) {
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

	var req apprecord.SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.consultationService.SubmitAssessment(c.Request.Context(), clinicID, doctorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID returns one medical record
func (h *RecordHandler) GetByID(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	record, err := h.consultationService.GetByID(c.Request.Context(), clinicID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// History returns a patient's medical records, newest first
func (h *RecordHandler) History(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	patientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.consultationService.History(c.Request.Context(), clinicID, patientID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// ForQueue returns the record written during a visit
func (h *RecordHandler) ForQueue(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	queueID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid queue ID")
		return
	}

	record, err := h.consultationService.ForQueue(c.Request.Context(), clinicID, queueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// RegisterRoutes registers consultation and record routes
func (h *RecordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	records := rg.Group("/records")
	{
		records.POST("/assessments", middleware.RequirePermission("assessment:create"), h.SubmitAssessment)
		records.GET("/:id", middleware.RequirePermission("record:read"), h.GetByID)
		records.GET("/patients/:id", middleware.RequirePermission("record:read"), h.History)
		records.GET("/queues/:id", middleware.RequirePermission("record:read"), h.ForQueue)
	}
}
