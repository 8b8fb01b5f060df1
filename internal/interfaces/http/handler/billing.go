package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appbilling "github.com/klinika/backend/internal/application/billing"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
)

// BillingHandler handles the payment desk: bills, payment, drug pick-up
// and invoice printing.
type BillingHandler struct {
	BaseHandler
	billingService *appbilling.BillingService
	actionService  *appbilling.ActionService
	invoiceService *appbilling.InvoiceService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(
	billingService *appbilling.BillingService,
	actionService *appbilling.ActionService,
	invoiceService *appbilling.InvoiceService,
) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		actionService:  actionService,
		invoiceService: invoiceService,
	}
}

// GetByID returns one bill with its carts
func (h *BillingHandler) GetByID(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	bill, err := h.billingService.GetByID(c.Request.Context(), clinicID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// GetByQueue returns the bill attached to a queue entry
func (h *BillingHandler) GetByQueue(c *gin.Context) {
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

	bill, err := h.billingService.GetByQueue(c.Request.Context(), clinicID, queueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// ListUnpaid returns bills waiting at the payment desk
func (h *BillingHandler) ListUnpaid(c *gin.Context) {
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

	bills, err := h.billingService.ListUnpaid(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bills)
}

// ListForPickup returns paid bills whose drugs await collection
func (h *BillingHandler) ListForPickup(c *gin.Context) {
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

	bills, err := h.billingService.ListForPickup(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bills)
}

// List returns the clinic's bills with pagination
func (h *BillingHandler) List(c *gin.Context) {
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

	result, err := h.billingService.List(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// AddDrugCart adds a drug line to an unpaid bill
func (h *BillingHandler) AddDrugCart(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req appbilling.AddDrugCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billingService.AddDrugCart(c.Request.Context(), clinicID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// AddActionCart adds a procedure line to an unpaid bill
func (h *BillingHandler) AddActionCart(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req appbilling.AddActionCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billingService.AddActionCart(c.Request.Context(), clinicID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// UpdateDrugCart changes a drug line's quantity
func (h *BillingHandler) UpdateDrugCart(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}

	var req appbilling.UpdateCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billingService.UpdateDrugCartQuantity(c.Request.Context(), clinicID, id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// RemoveDrugCart deletes a drug line from an unpaid bill
func (h *BillingHandler) RemoveDrugCart(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}

	bill, err := h.billingService.RemoveDrugCart(c.Request.Context(), clinicID, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// RemoveActionCart deletes a procedure line from an unpaid bill
func (h *BillingHandler) RemoveActionCart(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}

	bill, err := h.billingService.RemoveActionCart(c.Request.Context(), clinicID, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Pay settles a bill: stock is dispensed, the invoice number assigned,
// the queue advanced and the cashier balance updated
func (h *BillingHandler) Pay(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	bill, err := h.billingService.Pay(c.Request.Context(), clinicID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Pickup records that the patient collected the drugs
func (h *BillingHandler) Pickup(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	bill, err := h.billingService.Pickup(c.Request.Context(), clinicID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Invoice renders a paid bill's invoice as an A5 PDF
func (h *BillingHandler) Invoice(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	pdf, err := h.invoiceService.RenderPDF(c.Request.Context(), clinicID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename=invoice.pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// CreateAction adds a billable procedure to the catalog
func (h *BillingHandler) CreateAction(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req appbilling.CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	action, err := h.actionService.Create(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, action)
}

// ListActions returns the procedure catalog with pagination
func (h *BillingHandler) ListActions(c *gin.Context) {
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

	result, err := h.actionService.List(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// UpdateAction renames or reprices a procedure
func (h *BillingHandler) UpdateAction(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid action ID")
		return
	}

	var req appbilling.CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	action, err := h.actionService.Update(c.Request.Context(), clinicID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, action)
}

// DeleteAction removes a procedure from the catalog
func (h *BillingHandler) DeleteAction(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid action ID")
		return
	}

	if err := h.actionService.Delete(c.Request.Context(), clinicID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.GET("", middleware.RequirePermission("transaction:read"), h.List)
		transactions.GET("/unpaid", middleware.RequirePermission("transaction:read"), h.ListUnpaid)
		transactions.GET("/pickup", middleware.RequirePermission("transaction:read"), h.ListForPickup)
		transactions.GET("/queues/:id", middleware.RequirePermission("transaction:read"), h.GetByQueue)
		transactions.GET("/:id", middleware.RequirePermission("transaction:read"), h.GetByID)
		transactions.POST("/:id/drug-carts", middleware.RequirePermission("transaction:cart"), h.AddDrugCart)
		transactions.PUT("/:id/drug-carts/:itemId", middleware.RequirePermission("transaction:cart"), h.UpdateDrugCart)
		transactions.DELETE("/:id/drug-carts/:itemId", middleware.RequirePermission("transaction:cart"), h.RemoveDrugCart)
		transactions.POST("/:id/action-carts", middleware.RequirePermission("transaction:cart"), h.AddActionCart)
		transactions.DELETE("/:id/action-carts/:itemId", middleware.RequirePermission("transaction:cart"), h.RemoveActionCart)
		transactions.POST("/:id/pay", middleware.RequirePermission("transaction:pay"), h.Pay)
		transactions.POST("/:id/pickup", middleware.RequirePermission("transaction:pickup"), h.Pickup)
		transactions.GET("/:id/invoice", middleware.RequirePermission("transaction:read"), h.Invoice)
	}

	actions := rg.Group("/actions")
	{
		actions.POST("", middleware.RequirePermission("action:create"), h.CreateAction)
		actions.GET("", middleware.RequirePermission("action:read"), h.ListActions)
		actions.PUT("/:id", middleware.RequirePermission("action:update"), h.UpdateAction)
		actions.DELETE("/:id", middleware.RequirePermission("action:delete"), h.DeleteAction)
	}
}
