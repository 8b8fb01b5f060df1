package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/purchasing"
	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest books an invoice of drugs bought from a factory
type CreatePurchaseRequest struct {
	FactoryID uuid.UUID             `json:"factory_id" binding:"required"`
	Items     []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseItemRequest is one drug line on the invoice
type PurchaseItemRequest struct {
	DrugID      uuid.UUID       `json:"drug_id" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	TotalPrice  decimal.Decimal `json:"total_price" binding:"required"`
	ExpiredDate time.Time       `json:"expired_date" binding:"required"`
}

// PurchaseListFilter filters the purchase history
type PurchaseListFilter struct {
	Search    string     `form:"search"`
	FactoryID *uuid.UUID `form:"factory_id"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseItemResponse is one drug line with its booked batch
type PurchaseItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	DrugID      uuid.UUID       `json:"drug_id"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	ExpiredDate time.Time       `json:"expired_date"`
	BatchNumber string          `json:"batch_number,omitempty"`
}

// PurchaseResponse represents a purchase invoice in API responses
type PurchaseResponse struct {
	ID            uuid.UUID              `json:"id"`
	InvoiceNumber string                 `json:"invoice_number"`
	FactoryID     uuid.UUID              `json:"factory_id"`
	FactoryName   string                 `json:"factory_name"`
	FactoryEmail  string                 `json:"factory_email,omitempty"`
	FactoryPhone  string                 `json:"factory_phone,omitempty"`
	TotalPrice    decimal.Decimal        `json:"total_price"`
	Items         []PurchaseItemResponse `json:"items"`
	CreatedAt     time.Time              `json:"created_at"`
}

// ToPurchaseResponse maps a purchase aggregate to its API representation
func ToPurchaseResponse(p *purchasing.PurchaseTransaction) PurchaseResponse {
	items := make([]PurchaseItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = PurchaseItemResponse{
			ID:          item.ID,
			DrugID:      item.DrugID,
			Quantity:    item.Quantity,
			TotalPrice:  item.TotalPrice,
			ExpiredDate: item.ExpiredDate,
		}
	}
	return PurchaseResponse{
		ID:            p.ID,
		InvoiceNumber: p.InvoiceNumber,
		FactoryID:     p.FactoryID,
		FactoryName:   p.FactoryName,
		FactoryEmail:  p.FactoryEmail,
		FactoryPhone:  p.FactoryPhone,
		TotalPrice:    p.TotalPrice,
		Items:         items,
		CreatedAt:     p.CreatedAt,
	}
}

// ToPurchaseResponses maps a slice of purchases
func ToPurchaseResponses(purchases []purchasing.PurchaseTransaction) []PurchaseResponse {
	responses := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = ToPurchaseResponse(&purchases[i])
	}
	return responses
}
