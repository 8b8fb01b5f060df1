package handler

import (
	"github.com/gin-gonic/gin"
	apppharmacy "github.com/klinika/backend/internal/application/pharmacy"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
)

// DrugHandler handles the drug catalog: drugs, categories, units and
// partnered factories.
type DrugHandler struct {
	BaseHandler
	catalogService *apppharmacy.CatalogService
}

// NewDrugHandler creates a new DrugHandler
func NewDrugHandler(catalogService *apppharmacy.CatalogService) *DrugHandler {
	return &DrugHandler{catalogService: catalogService}
}

// CreateDrug adds a drug to the catalog
func (h *DrugHandler) CreateDrug(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req apppharmacy.CreateDrugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	drug, err := h.catalogService.CreateDrug(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, drug)
}

// GetDrug returns one drug
func (h *DrugHandler) GetDrug(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid drug ID")
		return
	}

	drug, err := h.catalogService.GetDrug(c.Request.Context(), clinicID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, drug)
}

// ListDrugs returns the catalog with pagination
func (h *DrugHandler) ListDrugs(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var filter apppharmacy.DrugListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.ListDrugs(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// UpdateDrug changes a drug's details and prices
func (h *DrugHandler) UpdateDrug(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid drug ID")
		return
	}

	var req apppharmacy.UpdateDrugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	drug, err := h.catalogService.UpdateDrug(c.Request.Context(), clinicID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, drug)
}

// DeleteDrug removes a drug without remaining stock
func (h *DrugHandler) DeleteDrug(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid drug ID")
		return
	}

	if err := h.catalogService.DeleteDrug(c.Request.Context(), clinicID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateCategory adds a drug category
func (h *DrugHandler) CreateCategory(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req apppharmacy.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// ListCategories returns drug categories with pagination
func (h *DrugHandler) ListCategories(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.ListCategories(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// RenameCategory renames a drug category
func (h *DrugHandler) RenameCategory(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	var req apppharmacy.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.catalogService.RenameCategory(c.Request.Context(), clinicID, id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// DeleteCategory removes a drug category
func (h *DrugHandler) DeleteCategory(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), clinicID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateUnit adds a drug unit
func (h *DrugHandler) CreateUnit(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req apppharmacy.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.catalogService.CreateUnit(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, unit)
}

// ListUnits returns the clinic's drug units
func (h *DrugHandler) ListUnits(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	units, err := h.catalogService.ListUnits(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, units)
}

// DeleteUnit removes a drug unit
func (h *DrugHandler) DeleteUnit(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	if err := h.catalogService.DeleteUnit(c.Request.Context(), clinicID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PartnerFactory partners the clinic with a drug factory, creating the
// factory master record when it does not exist yet
func (h *DrugHandler) PartnerFactory(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req apppharmacy.CreateFactoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	factory, err := h.catalogService.PartnerFactory(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, factory)
}

// ListFactories returns the clinic's partnered factories
func (h *DrugHandler) ListFactories(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.ListFactories(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// UnpartnerFactory removes a factory partnership
func (h *DrugHandler) UnpartnerFactory(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid factory ID")
		return
	}

	if err := h.catalogService.UnpartnerFactory(c.Request.Context(), clinicID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers drug catalog routes
func (h *DrugHandler) RegisterRoutes(rg *gin.RouterGroup) {
	drugs := rg.Group("/drugs")
	{
		drugs.POST("", middleware.RequirePermission("drug:create"), h.CreateDrug)
		drugs.GET("", middleware.RequirePermission("drug:read"), h.ListDrugs)
		drugs.GET("/:id", middleware.RequirePermission("drug:read"), h.GetDrug)
		drugs.PUT("/:id", middleware.RequirePermission("drug:update"), h.UpdateDrug)
		drugs.DELETE("/:id", middleware.RequirePermission("drug:delete"), h.DeleteDrug)
	}

	categories := rg.Group("/drug-categories")
	{
		categories.POST("", middleware.RequirePermission("category:create"), h.CreateCategory)
		categories.GET("", middleware.RequirePermission("category:read"), h.ListCategories)
		categories.PUT("/:id", middleware.RequirePermission("category:update"), h.RenameCategory)
		categories.DELETE("/:id", middleware.RequirePermission("category:delete"), h.DeleteCategory)
	}

	units := rg.Group("/drug-units")
	{
		units.POST("", middleware.RequirePermission("unit:create"), h.CreateUnit)
		units.GET("", middleware.RequirePermission("unit:read"), h.ListUnits)
		units.DELETE("/:id", middleware.RequirePermission("unit:delete"), h.DeleteUnit)
	}

	factories := rg.Group("/drug-factories")
	{
		factories.POST("", middleware.RequirePermission("factory:create"), h.PartnerFactory)
		factories.GET("", middleware.RequirePermission("factory:read"), h.ListFactories)
		factories.DELETE("/:id", middleware.RequirePermission("factory:delete"), h.UnpartnerFactory)
	}
}
