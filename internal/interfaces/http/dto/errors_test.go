package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	t.Run("maps known codes", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
		assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(ErrCodeTokenExpired))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInsufficientStock))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeConcurrencyConflict))
	})

	t.Run("treats unknown codes as business rule violations", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("DRUG_HAS_STOCK"))
	})
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeCashierClosed, NormalizeErrorCode("CASHIER_CLOSED"))
	assert.Equal(t, ErrCodeConcurrencyConflict, NormalizeErrorCode("OPTIMISTIC_LOCK_FAILED"))
	assert.Equal(t, "WRONG_DOCTOR", NormalizeErrorCode("WRONG_DOCTOR"))
}
