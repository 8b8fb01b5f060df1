package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/shared"
)

// newMockDB creates a GORM DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockDrugRepository(t *testing.T) (*GormDrugRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormDrugRepository(gormDB), mock, mockDB
}

func TestGormDrugRepository_FindByIDForClinic(t *testing.T) {
	t.Run("finds existing drug", func(t *testing.T) {
		repo, mock, mockDB := newMockDrugRepository(t)
		defer mockDB.Close()

		drugID := uuid.New()
		clinicID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "clinic_id", "number", "name", "generic_name", "total_stock", "selling_price", "version",
		}).AddRow(
			drugID, clinicID, "OBT1", "Paracetamol 500mg", "Paracetamol", 42, decimal.NewFromInt(5000), 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "drugs" WHERE clinic_id = \$1 AND id = \$2`).
			WithArgs(clinicID, drugID, 1).
			WillReturnRows(rows)

		drug, err := repo.FindByIDForClinic(context.Background(), clinicID, drugID)

		require.NoError(t, err)
		assert.Equal(t, drugID, drug.ID)
		assert.Equal(t, "OBT1", drug.Number)
		assert.Equal(t, 42, drug.TotalStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing drug", func(t *testing.T) {
		repo, mock, mockDB := newMockDrugRepository(t)
		defer mockDB.Close()

		clinicID := uuid.New()
		drugID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "drugs" WHERE clinic_id = \$1 AND id = \$2`).
			WithArgs(clinicID, drugID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		drug, err := repo.FindByIDForClinic(context.Background(), clinicID, drugID)

		assert.Nil(t, drug)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormDrugRepository_SaveWithLock(t *testing.T) {
	t.Run("updates stock when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockDrugRepository(t)
		defer mockDB.Close()

		drug := &pharmacy.Drug{TotalStock: 15}
		drug.ID = uuid.New()
		drug.Version = 3

		mock.ExpectExec(`UPDATE "drugs" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), drug)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails when another transaction won", func(t *testing.T) {
		repo, mock, mockDB := newMockDrugRepository(t)
		defer mockDB.Close()

		drug := &pharmacy.Drug{TotalStock: 15}
		drug.ID = uuid.New()
		drug.Version = 3

		mock.ExpectExec(`UPDATE "drugs" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), drug)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_FAILED", domainErr.Code)
	})
}

func TestGormDrugRepository_NextNumberSequence(t *testing.T) {
	t.Run("returns 1 when no drugs exist", func(t *testing.T) {
		repo, mock, mockDB := newMockDrugRepository(t)
		defer mockDB.Close()

		clinicID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "drugs" WHERE clinic_id = \$1 AND number LIKE \$2`).
			WithArgs(clinicID, "OBT%", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		seq, err := repo.NextNumberSequence(context.Background(), clinicID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), seq)
	})

	t.Run("increments past the highest number", func(t *testing.T) {
		repo, mock, mockDB := newMockDrugRepository(t)
		defer mockDB.Close()

		clinicID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "clinic_id", "number"}).
			AddRow(uuid.New(), clinicID, "OBT12")

		mock.ExpectQuery(`SELECT \* FROM "drugs" WHERE clinic_id = \$1 AND number LIKE \$2`).
			WithArgs(clinicID, "OBT%", 1).
			WillReturnRows(rows)

		seq, err := repo.NextNumberSequence(context.Background(), clinicID)

		require.NoError(t, err)
		assert.Equal(t, int64(13), seq)
	})
}

func TestGormDrugRepository_ImplementsInterface(t *testing.T) {
	repo, _, mockDB := newMockDrugRepository(t)
	defer mockDB.Close()

	var _ pharmacy.DrugRepository = repo
	assert.NotNil(t, repo)
}
