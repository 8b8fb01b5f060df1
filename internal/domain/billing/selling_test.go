package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(t *testing.T) *SellingTransaction {
	t.Helper()
	tx, err := NewSellingTransaction(uuid.New(), uuid.New(), uuid.New(), "REG/20260901/0042", decimal.NewFromInt(25000))
	require.NoError(t, err)
	return tx
}

func TestNewSellingTransaction(t *testing.T) {
	t.Run("opens unpaid with outpatient fee charged", func(t *testing.T) {
		tx := newTestTransaction(t)

		assert.False(t, tx.Paid)
		assert.False(t, tx.PickedUp)
		assert.Empty(t, tx.InvoiceNumber)
		assert.True(t, tx.TotalPrice.Equal(decimal.NewFromInt(25000)))
	})

	t.Run("requires registration number", func(t *testing.T) {
		_, err := NewSellingTransaction(uuid.New(), uuid.New(), uuid.New(), "", decimal.Zero)
		assert.Error(t, err)
	})
}

func TestSellingTransaction_Carts(t *testing.T) {
	t.Run("drug and action lines accumulate the total", func(t *testing.T) {
		tx := newTestTransaction(t)

		_, err := tx.AddDrugCart(uuid.New(), "Paracetamol 500mg", "tablet", decimal.NewFromInt(800), 10)
		require.NoError(t, err)
		_, err = tx.AddActionCart(uuid.New(), "Wound care", decimal.NewFromInt(50000), 1)
		require.NoError(t, err)

		// 25000 fee + 8000 drugs + 50000 action
		assert.True(t, tx.TotalPrice.Equal(decimal.NewFromInt(83000)))
	})

	t.Run("removing a line subtracts its total", func(t *testing.T) {
		tx := newTestTransaction(t)
		item, err := tx.AddDrugCart(uuid.New(), "Paracetamol 500mg", "tablet", decimal.NewFromInt(800), 10)
		require.NoError(t, err)

		require.NoError(t, tx.RemoveDrugCart(item.ID))

		assert.Empty(t, tx.DrugCarts)
		assert.True(t, tx.TotalPrice.Equal(decimal.NewFromInt(25000)))
	})

	t.Run("updating quantity reprices the line", func(t *testing.T) {
		tx := newTestTransaction(t)
		item, err := tx.AddDrugCart(uuid.New(), "Amoxicillin", "capsule", decimal.NewFromInt(1000), 5)
		require.NoError(t, err)

		require.NoError(t, tx.UpdateDrugCartQuantity(item.ID, 8))

		assert.Equal(t, 8, tx.DrugCarts[0].Quantity)
		assert.True(t, tx.DrugCarts[0].TotalPrice.Equal(decimal.NewFromInt(8000)))
		assert.True(t, tx.TotalPrice.Equal(decimal.NewFromInt(33000)))
	})

	t.Run("removing unknown line fails", func(t *testing.T) {
		tx := newTestTransaction(t)
		assert.Error(t, tx.RemoveDrugCart(uuid.New()))
		assert.Error(t, tx.RemoveActionCart(uuid.New()))
	})

	t.Run("paid bill is frozen", func(t *testing.T) {
		tx := newTestTransaction(t)
		item, err := tx.AddDrugCart(uuid.New(), "Paracetamol 500mg", "tablet", decimal.NewFromInt(800), 2)
		require.NoError(t, err)
		require.NoError(t, tx.MarkPaid(1))

		_, err = tx.AddDrugCart(uuid.New(), "X", "", decimal.Zero, 1)
		assert.Error(t, err)
		assert.Error(t, tx.RemoveDrugCart(item.ID))
		assert.Error(t, tx.UpdateDrugCartQuantity(item.ID, 5))
	})
}

func TestSellingTransaction_Payment(t *testing.T) {
	t.Run("paying assigns the invoice number", func(t *testing.T) {
		tx := newTestTransaction(t)
		require.NoError(t, tx.MarkPaid(7))

		assert.True(t, tx.Paid)
		require.NotNil(t, tx.PaidAt)
		assert.Equal(t, FormatInvoiceNumber(*tx.PaidAt, 7), tx.InvoiceNumber)
	})

	t.Run("cannot pay twice", func(t *testing.T) {
		tx := newTestTransaction(t)
		require.NoError(t, tx.MarkPaid(1))
		assert.Error(t, tx.MarkPaid(2))
	})

	t.Run("pickup requires payment", func(t *testing.T) {
		tx := newTestTransaction(t)
		assert.Error(t, tx.MarkPickedUp())

		require.NoError(t, tx.MarkPaid(1))
		require.NoError(t, tx.MarkPickedUp())
		assert.Error(t, tx.MarkPickedUp())
	})
}

func TestNewAction(t *testing.T) {
	t.Run("creates procedure", func(t *testing.T) {
		a, err := NewAction(uuid.New(), "Injection", decimal.NewFromInt(35000))
		require.NoError(t, err)
		assert.Equal(t, "Injection", a.Name)
	})

	t.Run("rejects empty name and negative price", func(t *testing.T) {
		_, err := NewAction(uuid.New(), "", decimal.Zero)
		assert.Error(t, err)
		_, err = NewAction(uuid.New(), "Injection", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestBillingFormatInvoiceNumber(t *testing.T) {
	day := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV/20260901/3", FormatInvoiceNumber(day, 3))
}
