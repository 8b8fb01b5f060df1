package pharmacy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockLot(t *testing.T) {
	clinicID := uuid.New()
	drugID := uuid.New()
	purchaseItemID := uuid.New()
	expiry := time.Now().AddDate(1, 0, 0)

	t.Run("creates lot with full quantity active", func(t *testing.T) {
		lot, err := NewStockLot(clinicID, drugID, purchaseItemID, 10, expiry)
		require.NoError(t, err)

		assert.Equal(t, 10, lot.TotalQuantity)
		assert.Equal(t, 10, lot.ActiveQuantity)
		assert.Equal(t, 0, lot.SoldQuantity)
		assert.Equal(t, drugID, lot.DrugID)
		assert.Equal(t, purchaseItemID, lot.PurchaseItemID)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewStockLot(clinicID, drugID, purchaseItemID, 0, expiry)
		assert.Error(t, err)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewStockLot(clinicID, drugID, purchaseItemID, -5, expiry)
		assert.Error(t, err)
	})
}

func TestStockLot_Deplete(t *testing.T) {
	expiry := time.Now().AddDate(1, 0, 0)

	t.Run("takes requested quantity when available", func(t *testing.T) {
		lot, err := NewStockLot(uuid.New(), uuid.New(), uuid.New(), 10, expiry)
		require.NoError(t, err)

		taken := lot.Deplete(4)

		assert.Equal(t, 4, taken)
		assert.Equal(t, 6, lot.ActiveQuantity)
		assert.Equal(t, 4, lot.SoldQuantity)
		assert.Equal(t, lot.TotalQuantity, lot.ActiveQuantity+lot.SoldQuantity)
	})

	t.Run("takes only active quantity when request exceeds it", func(t *testing.T) {
		lot, err := NewStockLot(uuid.New(), uuid.New(), uuid.New(), 3, expiry)
		require.NoError(t, err)

		taken := lot.Deplete(10)

		assert.Equal(t, 3, taken)
		assert.Equal(t, 0, lot.ActiveQuantity)
		assert.Equal(t, 3, lot.SoldQuantity)
		assert.False(t, lot.HasActiveStock())
	})

	t.Run("total quantity never changes across depletions", func(t *testing.T) {
		lot, err := NewStockLot(uuid.New(), uuid.New(), uuid.New(), 20, expiry)
		require.NoError(t, err)

		lot.Deplete(7)
		lot.Deplete(5)
		lot.Deplete(100)

		assert.Equal(t, 20, lot.TotalQuantity)
		assert.Equal(t, lot.TotalQuantity, lot.ActiveQuantity+lot.SoldQuantity)
		assert.Equal(t, 0, lot.ActiveQuantity)
		assert.Equal(t, 20, lot.SoldQuantity)
	})

	t.Run("returns zero for empty lot", func(t *testing.T) {
		lot, err := NewStockLot(uuid.New(), uuid.New(), uuid.New(), 2, expiry)
		require.NoError(t, err)
		lot.Deplete(2)

		assert.Equal(t, 0, lot.Deplete(1))
	})

	t.Run("returns zero for non-positive request", func(t *testing.T) {
		lot, err := NewStockLot(uuid.New(), uuid.New(), uuid.New(), 2, expiry)
		require.NoError(t, err)

		assert.Equal(t, 0, lot.Deplete(0))
		assert.Equal(t, 0, lot.Deplete(-3))
		assert.Equal(t, 2, lot.ActiveQuantity)
	})
}

func TestFormatBatchNumber(t *testing.T) {
	t.Run("uses unpadded date parts", func(t *testing.T) {
		received := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, "BN2026357", FormatBatchNumber(received, 7))
	})

	t.Run("double digit month and day", func(t *testing.T) {
		received := time.Date(2026, time.November, 21, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, "BN20261121123", FormatBatchNumber(received, 123))
	})
}

func TestStockLot_Expiry(t *testing.T) {
	t.Run("expired lot", func(t *testing.T) {
		lot, err := NewStockLot(uuid.New(), uuid.New(), uuid.New(), 5, time.Now().AddDate(0, 0, -1))
		require.NoError(t, err)
		assert.True(t, lot.IsExpired())
	})

	t.Run("lot expiring soon", func(t *testing.T) {
		lot, err := NewStockLot(uuid.New(), uuid.New(), uuid.New(), 5, time.Now().AddDate(0, 0, 10))
		require.NoError(t, err)
		assert.False(t, lot.IsExpired())
		assert.True(t, lot.WillExpireWithin(30*24*time.Hour))
		assert.False(t, lot.WillExpireWithin(24*time.Hour))
	})
}
