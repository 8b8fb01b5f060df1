package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// DrugSortFields contains allowed sort fields for drugs
var DrugSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"number":         true,
	"name":           true,
	"generic_name":   true,
	"shelve":         true,
	"purchase_price": true,
	"selling_price":  true,
	"total_stock":    true,
}

// StockLotSortFields contains allowed sort fields for stock lots
var StockLotSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"batch_number":    true,
	"expired_date":    true,
	"total_quantity":  true,
	"active_quantity": true,
	"sold_quantity":   true,
}

// PatientSortFields contains allowed sort fields for patients
var PatientSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"record_number": true,
	"nik":           true,
	"full_name":     true,
	"birth_date":    true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"full_name":     true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// PurchaseSortFields contains allowed sort fields for purchase transactions
var PurchaseSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"factory_name":   true,
	"total_price":    true,
}

// SellingSortFields contains allowed sort fields for selling transactions
var SellingSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"invoice_number":      true,
	"registration_number": true,
	"total_price":         true,
	"paid":                true,
	"paid_at":             true,
}
