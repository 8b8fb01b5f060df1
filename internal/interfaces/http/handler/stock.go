package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apppharmacy "github.com/klinika/backend/internal/application/pharmacy"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
)

// StockHandler handles the stock ledger: lot receipts, depletion and
// expiry watching.
type StockHandler struct {
	BaseHandler
	ledgerService *apppharmacy.StockLedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledgerService *apppharmacy.StockLedgerService) *StockHandler {
	return &StockHandler{ledgerService: ledgerService}
}

// ReceiveLot books a delivered batch into stock
func (h *StockHandler) ReceiveLot(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req apppharmacy.ReceiveLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lot, err := h.ledgerService.ReceiveLot(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, lot)
}

// Deplete dispenses stock from the oldest lots first
func (h *StockHandler) Deplete(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req apppharmacy.DepleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledgerService.Deplete(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Lots lists a drug's stock lots
func (h *StockHandler) Lots(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	drugID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid drug ID")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lots, err := h.ledgerService.Lots(c.Request.Context(), clinicID, drugID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lots)
}

// ExpiringLots lists lots that still hold stock and expire within the
// given number of days (default 30)
func (h *StockHandler) ExpiringLots(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "Invalid days parameter")
			return
		}
		days = parsed
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lots, err := h.ledgerService.ExpiringLots(c.Request.Context(), clinicID, time.Duration(days)*24*time.Hour, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lots)
}

// RegisterRoutes registers stock ledger routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stocks := rg.Group("/stocks")
	{
		stocks.POST("/receive", middleware.RequirePermission("purchase:create"), h.ReceiveLot)
		stocks.POST("/deplete", middleware.RequirePermission("transaction:pay"), h.Deplete)
		stocks.GET("/drugs/:id/lots", middleware.RequirePermission("stock:read"), h.Lots)
		stocks.GET("/expiring", middleware.RequirePermission("stock:read"), h.ExpiringLots)
	}
}
