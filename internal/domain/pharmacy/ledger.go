package pharmacy

import (
	"sort"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// LotDepletion records how much was taken from a single lot
type LotDepletion struct {
	LotID           uuid.UUID
	BatchNumber     string
	Taken           int
	RemainingActive int
	FullyConsumed   bool
}

// DepletionResult is the outcome of depleting stock across a drug's lots
type DepletionResult struct {
	Depletions     []LotDepletion
	TotalDepleted  int
	Remaining      int
	FullyFulfilled bool
}

// DepleteLots dispenses the requested quantity across the given lots in
// receipt order (oldest CreatedAt first), regardless of expiry. Each lot
// gives up min(ActiveQuantity, remaining) and the lots are mutated in place.
//
// Callers gate on the drug's aggregate stock before depleting. If the lots
// cannot cover the request the result reports the shortfall instead of
// failing, so a drifted aggregate cannot strand a sale halfway.
func DepleteLots(requested int, lots []*StockLot) (*DepletionResult, error) {
	if requested <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	ordered := make([]*StockLot, 0, len(lots))
	for _, lot := range lots {
		if lot.HasActiveStock() {
			ordered = append(ordered, lot)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	result := &DepletionResult{
		Depletions: make([]LotDepletion, 0, len(ordered)),
	}

	remaining := requested
	for _, lot := range ordered {
		if remaining == 0 {
			break
		}
		taken := lot.Deplete(remaining)
		if taken == 0 {
			continue
		}
		remaining -= taken
		result.Depletions = append(result.Depletions, LotDepletion{
			LotID:           lot.ID,
			BatchNumber:     lot.BatchNumber,
			Taken:           taken,
			RemainingActive: lot.ActiveQuantity,
			FullyConsumed:   lot.ActiveQuantity == 0,
		})
	}

	result.TotalDepleted = requested - remaining
	result.Remaining = remaining
	result.FullyFulfilled = remaining == 0
	return result, nil
}

// ActiveQuantitySum returns the total active quantity across lots
func ActiveQuantitySum(lots []*StockLot) int {
	sum := 0
	for _, lot := range lots {
		sum += lot.ActiveQuantity
	}
	return sum
}
