package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain errors carry their own codes
// (see shared.DomainError) and are passed through unchanged.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Authentication
	ErrCodeUnauthorized:          http.StatusUnauthorized,
	"INVALID_CREDENTIALS":        http.StatusUnauthorized,
	"TOKEN_EXPIRED":              http.StatusUnauthorized,
	"TOKEN_INVALID":              http.StatusUnauthorized,
	"TOKEN_REVOKED":              http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":          http.StatusUnauthorized,
	"ACCOUNT_LOCKED":             http.StatusLocked,
	"ACCOUNT_PERMANENTLY_LOCKED": http.StatusForbidden,

	// Authorization
	ErrCodeForbidden:     http.StatusForbidden,
	"CANNOT_MODIFY_SELF": http.StatusForbidden,

	// Missing resources
	ErrCodeNotFound:           http.StatusNotFound,
	"PRODUCT_NOT_FOUND":       http.StatusNotFound,
	"VARIANT_NOT_FOUND":       http.StatusNotFound,
	"CART_ITEM_NOT_FOUND":     http.StatusNotFound,
	"WISHLIST_ITEM_NOT_FOUND": http.StatusNotFound,

	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"STORAGE_UNAVAILABLE":  http.StatusServiceUnavailable,
	"ORDER_TOTAL_MISMATCH": http.StatusInternalServerError,

	// Business rules are reported as bad requests
	"INSUFFICIENT_STOCK":    http.StatusBadRequest,
	"ALREADY_EXISTS":        http.StatusBadRequest,
	"ALREADY_REVIEWED":      http.StatusBadRequest,
	"USERNAME_TAKEN":        http.StatusBadRequest,
	"EMAIL_TAKEN":           http.StatusBadRequest,
	"BRAND_IN_USE":          http.StatusBadRequest,
	"CATEGORY_HAS_CHILDREN": http.StatusBadRequest,
	"CATEGORY_HAS_PRODUCTS": http.StatusBadRequest,
	"MAX_DEPTH_EXCEEDED":    http.StatusBadRequest,
	"EMPTY_CART":            http.StatusBadRequest,
	"EMPTY_ORDER":           http.StatusBadRequest,
	"EMPTY_FILE":            http.StatusBadRequest,
	"INVALID_STATE":         http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes missing from the table are classified by shape: *_NOT_FOUND is 404,
// INVALID_* is 400, anything else is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
