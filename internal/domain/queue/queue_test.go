package queue

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_Lifecycle(t *testing.T) {
	doctorID := uuid.New()

	t.Run("full walk through the statuses", func(t *testing.T) {
		q := NewQueue(uuid.New(), uuid.New(), FormatRegistrationNumber(time.Now()))
		assert.Equal(t, StatusConsultWait, q.Status)
		assert.Nil(t, q.DoctorID)

		require.NoError(t, q.StartConsultation(doctorID))
		assert.Equal(t, StatusConsulting, q.Status)
		require.NotNil(t, q.DoctorID)
		assert.Equal(t, doctorID, *q.DoctorID)

		require.NoError(t, q.SendToPayment())
		assert.Equal(t, StatusPayment, q.Status)

		require.NoError(t, q.SendToPickup())
		assert.Equal(t, StatusDrugPickUp, q.Status)

		require.NoError(t, q.Finish())
		assert.Equal(t, StatusDone, q.Status)
	})

	t.Run("payment can finish directly when nothing to pick up", func(t *testing.T) {
		q := NewQueue(uuid.New(), uuid.New(), FormatRegistrationNumber(time.Now()))
		require.NoError(t, q.StartConsultation(doctorID))
		require.NoError(t, q.SendToPayment())

		require.NoError(t, q.Finish())
		assert.Equal(t, StatusDone, q.Status)
	})

	t.Run("cannot skip ahead", func(t *testing.T) {
		q := NewQueue(uuid.New(), uuid.New(), FormatRegistrationNumber(time.Now()))

		assert.Error(t, q.SendToPayment())
		assert.Error(t, q.SendToPickup())
		assert.Error(t, q.Finish())
	})

	t.Run("cannot move backwards or repeat", func(t *testing.T) {
		q := NewQueue(uuid.New(), uuid.New(), FormatRegistrationNumber(time.Now()))
		require.NoError(t, q.StartConsultation(doctorID))

		assert.Error(t, q.StartConsultation(doctorID))
	})

	t.Run("cancellable only while waiting", func(t *testing.T) {
		q := NewQueue(uuid.New(), uuid.New(), FormatRegistrationNumber(time.Now()))
		assert.True(t, q.CanCancel())

		require.NoError(t, q.StartConsultation(doctorID))
		assert.False(t, q.CanCancel())
	})
}

func TestFormatRegistrationNumber(t *testing.T) {
	day := time.Date(2026, time.September, 1, 9, 30, 0, 0, time.UTC)
	number := FormatRegistrationNumber(day)

	assert.True(t, strings.HasPrefix(number, "REG/20260901/"))
	parts := strings.Split(number, "/")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 4)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusConsultWait.CanTransitionTo(StatusConsulting))
	assert.True(t, StatusPayment.CanTransitionTo(StatusDone))
	assert.False(t, StatusDone.CanTransitionTo(StatusConsultWait))
	assert.False(t, StatusConsulting.CanTransitionTo(StatusDrugPickUp))
}
