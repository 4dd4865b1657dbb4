package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrForbidden          = &AppError{http.StatusForbidden, "FORBIDDEN", "You do not have access to this resource"}
	ErrAdminRequired      = &AppError{http.StatusForbidden, "ADMIN_REQUIRED", "Admin privileges required"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInsufficientBalance   = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", "Token balance is insufficient for this action"}
	ErrInvalidAdjustment     = &AppError{http.StatusUnprocessableEntity, "INVALID_ADJUSTMENT", "Adjustment was rejected"}
	ErrEmailTaken            = &AppError{http.StatusConflict, "EMAIL_ALREADY_REGISTERED", "Email is already registered"}
	ErrInvalidCategory       = &AppError{http.StatusBadRequest, "INVALID_CATEGORY", "Invalid observation category"}
	ErrInvalidTier           = &AppError{http.StatusBadRequest, "INVALID_TIER", "Invalid account tier"}
	ErrVersionConflict       = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
	ErrTransactionTimeout    = &AppError{http.StatusGatewayTimeout, "TRANSACTION_TIMEOUT", "The operation timed out and was rolled back"}
	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
