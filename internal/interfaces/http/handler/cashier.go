package handler

import (
	"github.com/gin-gonic/gin"
	appclinic "github.com/klinika/backend/internal/application/clinic"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
)

// CashierHandler handles the clinic's cashier drawer and daily reports
type CashierHandler struct {
	BaseHandler
	cashierService *appclinic.CashierService
	reportService  *appclinic.ReportService
}

// NewCashierHandler creates a new CashierHandler
func NewCashierHandler(cashierService *appclinic.CashierService, reportService *appclinic.ReportService) *CashierHandler {
	return &CashierHandler{
		cashierService: cashierService,
		reportService:  reportService,
	}
}

// Status reports whether the cashier is open and its running balance
func (h *CashierHandler) Status(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	status, err := h.cashierService.Status(c.Request.Context(), clinicID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// Open opens the cashier with an opening balance
func (h *CashierHandler) Open(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appclinic.OpenCashierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	status, err := h.cashierService.Open(c.Request.Context(), clinicID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// Close closes the cashier and returns the ended session
func (h *CashierHandler) Close(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	session, err := h.cashierService.Close(c.Request.Context(), clinicID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Sessions lists past cashier sessions
func (h *CashierHandler) Sessions(c *gin.Context) {
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

	result, err := h.cashierService.Sessions(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// DailyReport summarizes one day of clinic activity
func (h *CashierHandler) DailyReport(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	report, err := h.reportService.Daily(c.Request.Context(), clinicID, c.Query("date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// RegisterRoutes registers cashier and report routes
func (h *CashierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cashier := rg.Group("/cashier")
	{
		cashier.GET("/status", middleware.RequirePermission("cashier:read"), h.Status)
		cashier.POST("/open", middleware.RequirePermission("cashier:open"), h.Open)
		cashier.POST("/close", middleware.RequirePermission("cashier:close"), h.Close)
		cashier.GET("/sessions", middleware.RequirePermission("cashier:read"), h.Sessions)
	}

	rg.GET("/reports/daily", middleware.RequirePermission("report:read"), h.DailyReport)
}
