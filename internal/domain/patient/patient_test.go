package patient

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPatient(t *testing.T) {
	clinicID := uuid.New()
	birth := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)

	t.Run("registers patient as ready", func(t *testing.T) {
		p, err := NewPatient(clinicID, FormatRecordNumber(7), "3201011506900001", "Budi Santoso", GenderMale, "Bandung", birth, "0812", "Jl. Anggrek 5", "", "Engineer")
		require.NoError(t, err)

		assert.Equal(t, "RM000007", p.RecordNumber)
		assert.True(t, p.Ready)
		assert.Equal(t, clinicID, p.ClinicID)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		_, err := NewPatient(clinicID, "RM000001", "123", "", GenderMale, "", birth, "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects missing NIK", func(t *testing.T) {
		_, err := NewPatient(clinicID, "RM000001", "", "Budi", GenderMale, "", birth, "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown gender", func(t *testing.T) {
		_, err := NewPatient(clinicID, "RM000001", "123", "Budi", Gender("other"), "", birth, "", "", "", "")
		assert.Error(t, err)
	})
}

func TestFormatRecordNumber(t *testing.T) {
	assert.Equal(t, "RM000001", FormatRecordNumber(1))
	assert.Equal(t, "RM012345", FormatRecordNumber(12345))
	assert.Equal(t, "RM1234567", FormatRecordNumber(1234567))
}

func TestPatient_Age(t *testing.T) {
	birth := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	p, err := NewPatient(uuid.New(), "RM000001", "123", "Budi", GenderMale, "", birth, "", "", "", "")
	require.NoError(t, err)

	assert.Equal(t, 35, p.Age(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 36, p.Age(time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)))
}

func TestPatient_Readiness(t *testing.T) {
	p, err := NewPatient(uuid.New(), "RM000001", "123", "Budi", GenderMale, "", time.Now(), "", "", "", "")
	require.NoError(t, err)

	p.MarkBusy()
	assert.False(t, p.Ready)
	p.MarkReady()
	assert.True(t, p.Ready)
}
