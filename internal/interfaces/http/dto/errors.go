package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeUnavailable is used when a product or size cannot be purchased
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
	// ErrCodeEmptyCart is used when checkout is attempted on an empty cart
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodePaymentUnavailable is used when the payment provider cannot be reached
	ErrCodePaymentUnavailable = "ERR_PAYMENT_UNAVAILABLE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "ERR_VALIDATION"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeBusinessRule: http.StatusUnprocessableEntity,
	ErrCodeUnavailable:  http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:    http.StatusUnprocessableEntity,

	// The provider will recover; signal a retryable upstream failure
	ErrCodePaymentUnavailable: http.StatusBadGateway,

	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":          ErrCodeNotFound,
	"USER_NOT_FOUND":     ErrCodeNotFound,
	"ADDRESS_NOT_FOUND":  ErrCodeNotFound,
	"STORE_NOT_FOUND":    ErrCodeNotFound,
	"CATEGORY_NOT_FOUND": ErrCodeNotFound,
	"PRODUCT_NOT_FOUND":  ErrCodeNotFound,
	"REVIEW_NOT_FOUND":   ErrCodeNotFound,
	"ORDER_NOT_FOUND":    ErrCodeNotFound,
	"LINE_NOT_FOUND":     ErrCodeNotFound,

	"EMAIL_TAKEN":        ErrCodeAlreadyExists,
	"STORE_NAME_TAKEN":   ErrCodeAlreadyExists,
	"PRODUCT_NAME_TAKEN": ErrCodeAlreadyExists,
	"ALREADY_REVIEWED":   ErrCodeAlreadyExists,
	"ALREADY_VENDOR":     ErrCodeConflict,

	"INVALID_CREDENTIALS": ErrCodeUnauthorized,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"FORBIDDEN":           ErrCodeForbidden,

	"PRODUCT_UNAVAILABLE": ErrCodeUnavailable,
	"SIZE_UNAVAILABLE":    ErrCodeUnavailable,
	"EMPTY_CART":          ErrCodeEmptyCart,
	"PAYMENT_UNAVAILABLE": ErrCodePaymentUnavailable,
	"IMAGE_NOT_UPLOADED":  ErrCodeBusinessRule,

	"INTERNAL_ERROR": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unmapped INVALID_* codes are validation failures; anything else
// unmapped passes through as a business rule violation.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	if len(code) > 8 && code[:8] == "INVALID_" {
		return ErrCodeValidation
	}
	return ErrCodeBusinessRule
}
