package handler

import (
	"github.com/gin-gonic/gin"
	appclinic "github.com/klinika/backend/internal/application/clinic"
	"github.com/klinika/backend/internal/domain/identity"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
)

// ClinicHandler handles platform-level clinic administration.
// Only the platform administrator reaches these endpoints.
type ClinicHandler struct {
	BaseHandler
	clinicService *appclinic.ClinicService
}

// NewClinicHandler creates a new ClinicHandler
func NewClinicHandler(clinicService *appclinic.ClinicService) *ClinicHandler {
	return &ClinicHandler{clinicService: clinicService}
}

// Create registers a new clinic together with its first administrator account
func (h *ClinicHandler) Create(c *gin.Context) {
	var req appclinic.CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	clinic, err := h.clinicService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, clinic)
}

// GetByID returns one clinic
func (h *ClinicHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid clinic ID")
		return
	}

	clinic, err := h.clinicService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, clinic)
}

// List returns all clinics with pagination
func (h *ClinicHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.clinicService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Update changes a clinic's profile and fees
func (h *ClinicHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid clinic ID")
		return
	}

	var req appclinic.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	clinic, err := h.clinicService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, clinic)
}

// Delete removes a clinic
func (h *ClinicHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid clinic ID")
		return
	}

	if err := h.clinicService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers clinic administration routes
func (h *ClinicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clinics := rg.Group("/clinics")
	clinics.Use(requireRole(identity.RoleAdmin))
	{
		clinics.POST("", h.Create)
		clinics.GET("", h.List)
		clinics.GET("/:id", h.GetByID)
		clinics.PUT("/:id", h.Update)
		clinics.DELETE("/:id", h.Delete)
	}
}

// requireRole gates a route group on an exact role
func requireRole(role identity.RoleCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.GetJWTClaims(c)
		if claims == nil || claims.Role != string(role) {
			c.AbortWithStatusJSON(403, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FORBIDDEN",
					"message": "You do not have permission to perform this action",
				},
			})
			return
		}
		c.Next()
	}
}
