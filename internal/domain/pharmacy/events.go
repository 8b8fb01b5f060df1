package pharmacy

import (
	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeDrug = "Drug"

// Event type constants
const (
	EventTypeStockLotReceived = "StockLotReceived"
	EventTypeStockDepleted    = "StockDepleted"
)

// StockLotReceivedEvent is raised when a purchased lot is added to the ledger
type StockLotReceivedEvent struct {
	shared.BaseDomainEvent
	DrugID      uuid.UUID `json:"drug_id"`
	LotID       uuid.UUID `json:"lot_id"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int       `json:"quantity"`
}

// NewStockLotReceivedEvent creates a new StockLotReceivedEvent
func NewStockLotReceivedEvent(drug *Drug, lot *StockLot) *StockLotReceivedEvent {
	return &StockLotReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLotReceived, AggregateTypeDrug, drug.ID, drug.ClinicID),
		DrugID:          drug.ID,
		LotID:           lot.ID,
		BatchNumber:     lot.BatchNumber,
		Quantity:        lot.TotalQuantity,
	}
}

// EventType returns the event type name
func (e *StockLotReceivedEvent) EventType() string {
	return EventTypeStockLotReceived
}

// StockDepletedEvent is raised when stock is dispensed against a sale
type StockDepletedEvent struct {
	shared.BaseDomainEvent
	DrugID        uuid.UUID `json:"drug_id"`
	Requested     int       `json:"requested"`
	TotalDepleted int       `json:"total_depleted"`
	LotsTouched   int       `json:"lots_touched"`
}

// NewStockDepletedEvent creates a new StockDepletedEvent
func NewStockDepletedEvent(drug *Drug, requested int, result *DepletionResult) *StockDepletedEvent {
	return &StockDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDepleted, AggregateTypeDrug, drug.ID, drug.ClinicID),
		DrugID:          drug.ID,
		Requested:       requested,
		TotalDepleted:   result.TotalDepleted,
		LotsTouched:     len(result.Depletions),
	}
}

// EventType returns the event type name
func (e *StockDepletedEvent) EventType() string {
	return EventTypeStockDepleted
}
