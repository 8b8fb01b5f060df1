package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// AddDrugCartRequest adds a drug line to an unpaid bill
type AddDrugCartRequest struct {
	DrugID   uuid.UUID `json:"drug_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// AddActionCartRequest adds a procedure line to an unpaid bill
type AddActionCartRequest struct {
	ActionID uuid.UUID `json:"action_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// UpdateCartQuantityRequest changes a drug line's quantity
type UpdateCartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// DrugCartResponse is one drug line on a bill
type DrugCartResponse struct {
	ID         uuid.UUID       `json:"id"`
	DrugID     uuid.UUID       `json:"drug_id"`
	DrugName   string          `json:"drug_name"`
	UnitName   string          `json:"unit_name,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// ActionCartResponse is one procedure line on a bill
type ActionCartResponse struct {
	ID         uuid.UUID       `json:"id"`
	ActionID   uuid.UUID       `json:"action_id"`
	ActionName string          `json:"action_name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// TransactionResponse represents a bill in API responses
type TransactionResponse struct {
	ID                 uuid.UUID            `json:"id"`
	InvoiceNumber      string               `json:"invoice_number,omitempty"`
	RegistrationNumber string               `json:"registration_number"`
	PatientID          uuid.UUID            `json:"patient_id"`
	QueueID            uuid.UUID            `json:"queue_id"`
	RecordID           *uuid.UUID           `json:"record_id,omitempty"`
	OutpatientFee      decimal.Decimal      `json:"outpatient_fee"`
	TotalPrice         decimal.Decimal      `json:"total_price"`
	Paid               bool                 `json:"paid"`
	PaidAt             *time.Time           `json:"paid_at,omitempty"`
	PickedUp           bool                 `json:"picked_up"`
	DrugCarts          []DrugCartResponse   `json:"drug_carts"`
	ActionCarts        []ActionCartResponse `json:"action_carts"`
	CreatedAt          time.Time            `json:"created_at"`
}

// CreateActionRequest adds a billable procedure to the clinic
type CreateActionRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

// ActionResponse represents a billable procedure
type ActionResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToTransactionResponse maps a bill aggregate to its API representation
func ToTransactionResponse(t *billing.SellingTransaction) TransactionResponse {
	drugCarts := make([]DrugCartResponse, len(t.DrugCarts))
	for i, item := range t.DrugCarts {
		drugCarts[i] = DrugCartResponse{
			ID:         item.ID,
			DrugID:     item.DrugID,
			DrugName:   item.DrugName,
			UnitName:   item.UnitName,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		}
	}
	actionCarts := make([]ActionCartResponse, len(t.ActionCarts))
	for i, item := range t.ActionCarts {
		actionCarts[i] = ActionCartResponse{
			ID:         item.ID,
			ActionID:   item.ActionID,
			ActionName: item.ActionName,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		}
	}
	return TransactionResponse{
		ID:                 t.ID,
		InvoiceNumber:      t.InvoiceNumber,
		RegistrationNumber: t.RegistrationNumber,
		PatientID:          t.PatientID,
		QueueID:            t.QueueID,
		RecordID:           t.RecordID,
		OutpatientFee:      t.OutpatientFee,
		TotalPrice:         t.TotalPrice,
		Paid:               t.Paid,
		PaidAt:             t.PaidAt,
		PickedUp:           t.PickedUp,
		DrugCarts:          drugCarts,
		ActionCarts:        actionCarts,
		CreatedAt:          t.CreatedAt,
	}
}

// ToTransactionResponses maps a slice of bills
func ToTransactionResponses(transactions []billing.SellingTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = ToTransactionResponse(&transactions[i])
	}
	return responses
}
