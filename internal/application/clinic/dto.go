package clinic

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/shopspring/decimal"
)

// CreateClinicRequest creates a clinic together with its administrator account
type CreateClinicRequest struct {
	Name          string          `json:"name" binding:"required"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	OutpatientFee decimal.Decimal `json:"outpatient_fee"`
	SellingFee    decimal.Decimal `json:"selling_fee"`

	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
	AdminFullName string `json:"admin_full_name" binding:"required"`
}

// UpdateClinicRequest updates a clinic's profile and fee settings
type UpdateClinicRequest struct {
	Name          string          `json:"name" binding:"required"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	OutpatientFee decimal.Decimal `json:"outpatient_fee"`
	SellingFee    decimal.Decimal `json:"selling_fee"`
}

// ClinicResponse represents a clinic in API responses
type ClinicResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	OutpatientFee  decimal.Decimal `json:"outpatient_fee"`
	SellingFee     decimal.Decimal `json:"selling_fee"`
	CashierOpen    bool            `json:"cashier_open"`
	CashierBalance decimal.Decimal `json:"cashier_balance"`
	OpenedAt       *time.Time      `json:"opened_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// OpenCashierRequest opens the cashier with an opening balance
type OpenCashierRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CashierStatusResponse reports the cashier state
type CashierStatusResponse struct {
	Open    bool            `json:"open"`
	Balance decimal.Decimal `json:"balance"`
	OpenedAt *time.Time     `json:"opened_at,omitempty"`
	OpenedBy *uuid.UUID     `json:"opened_by,omitempty"`
}

// CashierSessionResponse is one closed cashier session
type CashierSessionResponse struct {
	ID             uuid.UUID       `json:"id"`
	OpenedBy       uuid.UUID       `json:"opened_by"`
	ClosedBy       uuid.UUID       `json:"closed_by"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Revenue        decimal.Decimal `json:"revenue"`
	OpenedAt       time.Time       `json:"opened_at"`
	ClosedAt       time.Time       `json:"closed_at"`
}

// DailyReportResponse aggregates one day of clinic activity
type DailyReportResponse struct {
	Date             string          `json:"date"`
	PatientCount     int64           `json:"patient_count"`
	TransactionsPaid int64           `json:"transactions_paid"`
	SellingRevenue   decimal.Decimal `json:"selling_revenue"`
	PurchaseSpend    decimal.Decimal `json:"purchase_spend"`
}

// ToClinicResponse maps a clinic aggregate to its API representation
func ToClinicResponse(c *clinic.Clinic) ClinicResponse {
	return ClinicResponse{
		ID:             c.ID,
		Name:           c.Name,
		Phone:          c.Phone,
		Address:        c.Address,
		OutpatientFee:  c.OutpatientFee,
		SellingFee:     c.SellingFee,
		CashierOpen:    c.CashierOpen,
		CashierBalance: c.CashierBalance,
		OpenedAt:       c.OpenedAt,
		CreatedAt:      c.CreatedAt,
	}
}

// ToCashierSessionResponse maps a cashier session
func ToCashierSessionResponse(s *clinic.CashierSession) CashierSessionResponse {
	return CashierSessionResponse{
		ID:             s.ID,
		OpenedBy:       s.OpenedBy,
		ClosedBy:       s.ClosedBy,
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		Revenue:        s.Revenue(),
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
	}
}
