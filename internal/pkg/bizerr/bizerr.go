// Package bizerr defines business errors that carry a stable code and are
// rendered to API clients by the HTTP error handler.
package bizerr

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	CodeBadRequest              ErrorCode = "COMMON_BAD_REQUEST"
	CodeNotFound                ErrorCode = "COMMON_NOT_FOUND"
	CodeValidation              ErrorCode = "COMMON_VALIDATION"
	CodeInternal                ErrorCode = "COMMON_INTERNAL_SERVER_ERROR"
	CodeTenantNotFound          ErrorCode = "TENANT_NOT_FOUND"
	CodeStoragePlanNotFound     ErrorCode = "STORAGE_PLAN_NOT_FOUND"
	CodeWebhookInvalidSignature ErrorCode = "BILLING_WEBHOOK_INVALID_SIGNATURE"
)

var defaultMessages = map[ErrorCode]string{
	CodeBadRequest:              "Bad request",
	CodeNotFound:                "Resource not found",
	CodeValidation:              "Validation failed",
	CodeInternal:                "Internal server error",
	CodeTenantNotFound:          "Tenant not found",
	CodeStoragePlanNotFound:     "Storage plan not found",
	CodeWebhookInvalidSignature: "Invalid webhook signature",
}

// Error is a business exception with a stable code and a human readable message.
type Error struct {
	Code    ErrorCode
	Message string
}

// New creates a business error. The first non-empty message overrides the
// code's default message.
func New(code ErrorCode, message ...string) *Error {
	msg := defaultMessages[code]
	for _, m := range message {
		if m != "" {
			msg = m
			break
		}
	}
	return &Error{Code: code, Message: msg}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

// HTTPStatus maps the error code to the HTTP status used by the API layer.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound, CodeTenantNotFound, CodeStoragePlanNotFound:
		return http.StatusNotFound
	case CodeWebhookInvalidSignature:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// As returns the business error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// HasCode reports whether err wraps a business error with the given code.
func HasCode(err error, code ErrorCode) bool {
	be, ok := As(err)
	return ok && be.Code == code
}
