package dto

import (
	"net/http"
	"strings"

	"github.com/studyreuse/backend/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain codes pass through
// unchanged.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInvalidID        = "INVALID_ID"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
	ErrCodeRouteNotFound    = "ROUTE_NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

var codeStatus = map[string]int{
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeInvalidID:        http.StatusBadRequest,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeUnavailable:      http.StatusServiceUnavailable,
	ErrCodeRouteNotFound:    http.StatusNotFound,
	ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,

	shared.CodeInvalidInput:        http.StatusBadRequest,
	shared.CodeUnauthorized:        http.StatusUnauthorized,
	shared.CodeForbidden:           http.StatusForbidden,
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeAlreadyExists:       http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodeInvalidState:        http.StatusUnprocessableEntity,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ITEM_NOT_AVAILABLE":  http.StatusUnprocessableEntity,
	"IMAGE_NOT_UPLOADED":  http.StatusUnprocessableEntity,
	"RECEIPT_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus maps an error code to its status. Token failures are 401 and
// any other unknown code is treated as a rule violation (400).
func GetHTTPStatus(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "TOKEN_") {
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}
