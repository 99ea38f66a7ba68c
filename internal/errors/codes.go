// Package errors provides structured error handling for the storefront.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Storage and catalog I/O errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryStorage indicates durable storage and catalog file errors.
	CategoryStorage Category = "STORAGE"
	// CategoryValidation indicates input or catalog validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Storage errors (200-299)
	ErrCodeStorageUnavailable = "ERR_201_STORAGE_UNAVAILABLE"
	ErrCodeStorageWrite       = "ERR_202_STORAGE_WRITE"
	ErrCodeStorageCorrupt     = "ERR_203_STORAGE_CORRUPT"
	ErrCodeCatalogRead        = "ERR_204_CATALOG_READ"

	// Validation errors (400-499)
	ErrCodeInvalidInput     = "ERR_401_INVALID_INPUT"
	ErrCodeCatalogInvalid   = "ERR_402_CATALOG_INVALID"
	ErrCodeItemNotFound     = "ERR_403_ITEM_NOT_FOUND"
	ErrCodeInvalidSelection = "ERR_404_INVALID_SELECTION"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "201" from "ERR_201_STORAGE_UNAVAILABLE"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryStorage
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
// Storage failures degrade the session but never stop it.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeCatalogInvalid, ErrCodeCatalogRead:
		return SeverityFatal
	case ErrCodeStorageUnavailable, ErrCodeStorageWrite, ErrCodeStorageCorrupt:
		return SeverityWarning
	default:
		return SeverityError
	}
}
