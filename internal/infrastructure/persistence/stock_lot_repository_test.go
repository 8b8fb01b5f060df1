package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockStockLotRepository(t *testing.T) (*GormStockLotRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormStockLotRepository(gormDB), mock, mockDB
}

func TestGormStockLotRepository_FindActiveByDrug(t *testing.T) {
	t.Run("returns lots in receipt order", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLotRepository(t)
		defer mockDB.Close()

		clinicID := uuid.New()
		drugID := uuid.New()
		older := time.Now().Add(-48 * time.Hour)
		newer := time.Now().Add(-2 * time.Hour)

		rows := sqlmock.NewRows([]string{
			"id", "clinic_id", "drug_id", "batch_number", "total_quantity", "active_quantity", "sold_quantity", "created_at",
		}).
			AddRow(uuid.New(), clinicID, drugID, "BN2026811", 10, 4, 6, older).
			AddRow(uuid.New(), clinicID, drugID, "BN2026901", 5, 5, 0, newer)

		mock.ExpectQuery(`SELECT \* FROM "stock_lots" WHERE clinic_id = \$1 AND drug_id = \$2 AND active_quantity > 0 ORDER BY created_at ASC`).
			WithArgs(clinicID, drugID).
			WillReturnRows(rows)

		lots, err := repo.FindActiveByDrug(context.Background(), clinicID, drugID)

		require.NoError(t, err)
		require.Len(t, lots, 2)
		assert.Equal(t, "BN2026811", lots[0].BatchNumber)
		assert.Equal(t, "BN2026901", lots[1].BatchNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when nothing active", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLotRepository(t)
		defer mockDB.Close()

		clinicID := uuid.New()
		drugID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_lots"`).
			WithArgs(clinicID, drugID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		lots, err := repo.FindActiveByDrug(context.Background(), clinicID, drugID)

		require.NoError(t, err)
		assert.Empty(t, lots)
	})
}

func TestGormStockLotRepository_NextBatchSequence(t *testing.T) {
	now := time.Now()
	prefix := fmt.Sprintf("BN%d%d%d", now.Year(), int(now.Month()), now.Day())

	t.Run("returns 1 for the first batch of the day", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLotRepository(t)
		defer mockDB.Close()

		clinicID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_lots" WHERE clinic_id = \$1 AND batch_number LIKE \$2`).
			WithArgs(clinicID, prefix+"%", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		seq, err := repo.NextBatchSequence(context.Background(), clinicID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), seq)
	})

	t.Run("increments today's highest sequence", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLotRepository(t)
		defer mockDB.Close()

		clinicID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "clinic_id", "batch_number"}).
			AddRow(uuid.New(), clinicID, prefix+"7")

		mock.ExpectQuery(`SELECT \* FROM "stock_lots" WHERE clinic_id = \$1 AND batch_number LIKE \$2`).
			WithArgs(clinicID, prefix+"%", 1).
			WillReturnRows(rows)

		seq, err := repo.NextBatchSequence(context.Background(), clinicID)

		require.NoError(t, err)
		assert.Equal(t, int64(8), seq)
	})
}

func TestGormStockLotRepository_SumActiveByDrug(t *testing.T) {
	repo, mock, mockDB := newMockStockLotRepository(t)
	defer mockDB.Close()

	clinicID := uuid.New()
	drugID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(active_quantity\), 0\) FROM "stock_lots" WHERE clinic_id = \$1 AND drug_id = \$2`).
		WithArgs(clinicID, drugID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(17))

	sum, err := repo.SumActiveByDrug(context.Background(), clinicID, drugID)

	require.NoError(t, err)
	assert.Equal(t, int64(17), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}
