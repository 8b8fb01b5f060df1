package pharmacy

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/shopspring/decimal"
)

// CreateDrugRequest adds a drug to the clinic's catalog
type CreateDrugRequest struct {
	Name          string          `json:"name" binding:"required"`
	GenericName   string          `json:"generic_name"`
	Composition   string          `json:"composition"`
	Dose          string          `json:"dose"`
	CategoryID    uuid.UUID       `json:"category_id" binding:"required"`
	FactoryID     uuid.UUID       `json:"factory_id" binding:"required"`
	UnitID        uuid.UUID       `json:"unit_id" binding:"required"`
	Shelve        string          `json:"shelve"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
}

// UpdateDrugRequest updates a drug's catalog fields and prices
type UpdateDrugRequest struct {
	Name          string          `json:"name" binding:"required"`
	GenericName   string          `json:"generic_name"`
	Composition   string          `json:"composition"`
	Dose          string          `json:"dose"`
	CategoryID    uuid.UUID       `json:"category_id" binding:"required"`
	FactoryID     uuid.UUID       `json:"factory_id" binding:"required"`
	UnitID        uuid.UUID       `json:"unit_id" binding:"required"`
	Shelve        string          `json:"shelve"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
}

// DrugListFilter filters the drug catalog
type DrugListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DrugResponse represents a drug in API responses
type DrugResponse struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"number"`
	Name          string          `json:"name"`
	GenericName   string          `json:"generic_name,omitempty"`
	Composition   string          `json:"composition,omitempty"`
	Dose          string          `json:"dose,omitempty"`
	CategoryID    uuid.UUID       `json:"category_id"`
	FactoryID     uuid.UUID       `json:"factory_id"`
	UnitID        uuid.UUID       `json:"unit_id"`
	Shelve        string          `json:"shelve,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	TotalStock    int             `json:"total_stock"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateCategoryRequest adds a drug category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryResponse represents a drug category
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUnitRequest adds a dispensing unit
type CreateUnitRequest struct {
	Name string `json:"name" binding:"required"`
}

// UnitResponse represents a dispensing unit
type UnitResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateFactoryRequest partners the clinic with a factory, creating the
// factory record when it does not exist yet
type CreateFactoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// FactoryResponse represents a drug factory
type FactoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReceiveLotRequest books a received batch of a drug into stock
type ReceiveLotRequest struct {
	DrugID         uuid.UUID `json:"drug_id" binding:"required"`
	PurchaseItemID uuid.UUID `json:"purchase_item_id" binding:"required"`
	Quantity       int       `json:"quantity" binding:"required,min=1"`
	ExpiredDate    time.Time `json:"expired_date" binding:"required"`
}

// StockLotResponse represents a stock lot in API responses
type StockLotResponse struct {
	ID             uuid.UUID `json:"id"`
	DrugID         uuid.UUID `json:"drug_id"`
	PurchaseItemID uuid.UUID `json:"purchase_item_id"`
	BatchNumber    string    `json:"batch_number"`
	ExpiredDate    time.Time `json:"expired_date"`
	TotalQuantity  int       `json:"total_quantity"`
	ActiveQuantity int       `json:"active_quantity"`
	SoldQuantity   int       `json:"sold_quantity"`
	CreatedAt      time.Time `json:"created_at"`
}

// DepleteRequest dispenses a quantity of a drug from stock
type DepleteRequest struct {
	DrugID   uuid.UUID `json:"drug_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// LotDepletionResponse reports how much one lot gave up
type LotDepletionResponse struct {
	LotID           uuid.UUID `json:"lot_id"`
	BatchNumber     string    `json:"batch_number"`
	Taken           int       `json:"taken"`
	RemainingActive int       `json:"remaining_active"`
	FullyConsumed   bool      `json:"fully_consumed"`
}

// DepletionResponse is the outcome of a stock depletion
type DepletionResponse struct {
	DrugID        uuid.UUID              `json:"drug_id"`
	Requested     int                    `json:"requested"`
	TotalDepleted int                    `json:"total_depleted"`
	Depletions    []LotDepletionResponse `json:"depletions"`
}

// ToDrugResponse maps a drug aggregate to its API representation
func ToDrugResponse(d *pharmacy.Drug) DrugResponse {
	return DrugResponse{
		ID:            d.ID,
		Number:        d.Number,
		Name:          d.Name,
		GenericName:   d.GenericName,
		Composition:   d.Composition,
		Dose:          d.Dose,
		CategoryID:    d.CategoryID,
		FactoryID:     d.FactoryID,
		UnitID:        d.UnitID,
		Shelve:        d.Shelve,
		PurchasePrice: d.PurchasePrice,
		SellingPrice:  d.SellingPrice,
		TotalStock:    d.TotalStock,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDrugResponses maps a slice of drugs
func ToDrugResponses(drugs []pharmacy.Drug) []DrugResponse {
	responses := make([]DrugResponse, len(drugs))
	for i := range drugs {
		responses[i] = ToDrugResponse(&drugs[i])
	}
	return responses
}

// ToStockLotResponse maps a stock lot to its API representation
func ToStockLotResponse(lot *pharmacy.StockLot) StockLotResponse {
	return StockLotResponse{
		ID:             lot.ID,
		DrugID:         lot.DrugID,
		PurchaseItemID: lot.PurchaseItemID,
		BatchNumber:    lot.BatchNumber,
		ExpiredDate:    lot.ExpiredDate,
		TotalQuantity:  lot.TotalQuantity,
		ActiveQuantity: lot.ActiveQuantity,
		SoldQuantity:   lot.SoldQuantity,
		CreatedAt:      lot.CreatedAt,
	}
}

// ToDepletionResponse maps a ledger depletion result
func ToDepletionResponse(drugID uuid.UUID, requested int, result *pharmacy.DepletionResult) DepletionResponse {
	depletions := make([]LotDepletionResponse, len(result.Depletions))
	for i, d := range result.Depletions {
		depletions[i] = LotDepletionResponse{
			LotID:           d.LotID,
			BatchNumber:     d.BatchNumber,
			Taken:           d.Taken,
			RemainingActive: d.RemainingActive,
			FullyConsumed:   d.FullyConsumed,
		}
	}
	return DepletionResponse{
		DrugID:        drugID,
		Requested:     requested,
		TotalDepleted: result.TotalDepleted,
		Depletions:    depletions,
	}
}
