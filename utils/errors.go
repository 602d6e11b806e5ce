package utils

import "net/http"

// Error kinds surfaced to clients. These strings are part of the API
// contract.
const (
	CodeAuthInvalid    = "AUTH_INVALID"
	CodeAuthInactive   = "AUTH_INACTIVE"
	CodeAuthUnverified = "AUTH_UNVERIFIED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeValidation     = "VALIDATION"

	CodeSlotUnavailable      = "SLOT_UNAVAILABLE"
	CodeInsufficientCapacity = "INSUFFICIENT_CAPACITY"
	CodeTableHeld            = "TABLE_HELD"
	CodeTableNotInShop       = "TABLE_NOT_IN_SHOP"
	CodeShopClosed           = "SHOP_CLOSED"
	CodeAlreadyClaimed       = "ALREADY_CLAIMED"
	CodeIllegalTransition    = "ILLEGAL_TRANSITION"
	CodeStale                = "STALE"

	CodeGatewayUnavailable = "GATEWAY_UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

// AppError carries an enumerated error kind alongside a human message.
type AppError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Status int    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Detail
}

func NewAppError(status int, code, detail string) *AppError {
	return &AppError{Code: code, Detail: detail, Status: status}
}

// DomainError builds a 400 error for the booking/payment/transition
// failure kinds.
func DomainError(code, detail string) *AppError {
	return NewAppError(http.StatusBadRequest, code, detail)
}

func NotFoundError(detail string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, detail)
}

func ForbiddenError(detail string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, detail)
}

func ConflictError(detail string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, detail)
}

func ValidationError(detail string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeValidation, detail)
}

func AuthError(code, detail string) *AppError {
	status := http.StatusUnauthorized
	if code == CodeAuthInactive || code == CodeAuthUnverified {
		status = http.StatusForbidden
	}
	return NewAppError(status, code, detail)
}

func GatewayError(detail string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, CodeGatewayUnavailable, detail)
}

// codeForStatus gives plain errors a sensible kind based on the HTTP
// status the handler chose.
func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return CodeAuthInvalid
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusServiceUnavailable:
		return CodeGatewayUnavailable
	default:
		return CodeInternal
	}
}
