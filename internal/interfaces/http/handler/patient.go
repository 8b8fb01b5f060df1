package handler

import (
	"github.com/gin-gonic/gin"
	apppatient "github.com/klinika/backend/internal/application/patient"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
)

// PatientHandler handles patient registration and master data
type PatientHandler struct {
	BaseHandler
	patientService *apppatient.PatientService
}

// NewPatientHandler creates a new PatientHandler
func NewPatientHandler(patientService *apppatient.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// Register creates a patient with a fresh medical record number
func (h *PatientHandler) Register(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req apppatient.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	patient, err := h.patientService.Register(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, patient)
}

// GetByID returns one patient
func (h *PatientHandler) GetByID(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	patient, err := h.patientService.GetByID(c.Request.Context(), clinicID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, patient)
}

// List returns the clinic's patients, searching name and NIK
func (h *PatientHandler) List(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var filter apppatient.PatientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.patientService.List(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Update changes a patient's profile
func (h *PatientHandler) Update(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	var req apppatient.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	patient, err := h.patientService.Update(c.Request.Context(), clinicID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, patient)
}

// Delete removes a patient
func (h *PatientHandler) Delete(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	if err := h.patientService.Delete(c.Request.Context(), clinicID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers patient routes
func (h *PatientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	patients := rg.Group("/patients")
	{
		patients.POST("", middleware.RequirePermission("patient:create"), h.Register)
		patients.GET("", middleware.RequirePermission("patient:read"), h.List)
		patients.GET("/:id", middleware.RequirePermission("patient:read"), h.GetByID)
		patients.PUT("/:id", middleware.RequirePermission("patient:update"), h.Update)
		patients.DELETE("/:id", middleware.RequirePermission("patient:delete"), h.Delete)
	}
}
