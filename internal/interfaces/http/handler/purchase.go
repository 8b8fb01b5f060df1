package handler

import (
	"github.com/gin-gonic/gin"
	apppurchasing "github.com/klinika/backend/internal/application/purchasing"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
)

// PurchaseHandler handles drug purchases from partnered factories
type PurchaseHandler struct {
	BaseHandler
	purchaseService *apppurchasing.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *apppurchasing.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create books a purchase invoice and receives one stock lot per line
func (h *PurchaseHandler) Create(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req apppurchasing.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, purchase)
}

// GetByID returns one purchase with its items
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}

	purchase, err := h.purchaseService.GetByID(c.Request.Context(), clinicID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchase)
}

// List returns the clinic's purchases with pagination
func (h *PurchaseHandler) List(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var filter apppurchasing.PurchaseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.purchaseService.List(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// RegisterRoutes registers purchase routes
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchases")
	{
		purchases.POST("", middleware.RequirePermission("purchase:create"), h.Create)
		purchases.GET("", middleware.RequirePermission("purchase:read"), h.List)
		purchases.GET("/:id", middleware.RequirePermission("purchase:read"), h.GetByID)
	}
}
