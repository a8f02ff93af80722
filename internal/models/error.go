package models

import "net/http"

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrRateLimited      = "RATE_LIMIT_EXCEEDED"

	// Authorization broker errors
	ErrInvalidClient            = "INVALID_CLIENT"
	ErrInvalidRedirectURI       = "INVALID_REDIRECT_URI"
	ErrInvalidClientCredentials = "INVALID_CLIENT_CREDENTIALS"
	ErrSubscriptionInactive     = "SUBSCRIPTION_INACTIVE"
	ErrInvalidCode              = "INVALID_CODE"
	ErrCodeAlreadyUsed          = "CODE_ALREADY_USED"
	ErrCodeExpired              = "CODE_EXPIRED"
	ErrCodeValidationFailed     = "CODE_VALIDATION_FAILED"
	ErrInvalidRefreshToken      = "INVALID_REFRESH_TOKEN"
	ErrInvalidAccessToken       = "INVALID_ACCESS_TOKEN"
	ErrTokenExpired             = "TOKEN_EXPIRED"
	ErrInactiveAccount          = "INACTIVE_ACCOUNT"
	ErrInvalidScope             = "INVALID_SCOPE"

	// Wallet errors
	ErrInvalidAmount       = "INVALID_AMOUNT"
	ErrWalletNotFound      = "WALLET_NOT_FOUND"
	ErrWalletLocked        = "WALLET_LOCKED"
	ErrInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrInvalidTransfer     = "INVALID_TRANSFER"

	// Gift errors
	ErrInvalidRecipient     = "INVALID_RECIPIENT"
	ErrInvalidQuantity      = "INVALID_QUANTITY"
	ErrGiftNotFound         = "GIFT_NOT_FOUND"
	ErrGiftNotAvailable     = "GIFT_NOT_AVAILABLE"
	ErrInsufficientQuantity = "INSUFFICIENT_QUANTITY"

	// Payment errors
	ErrPaymentNotFound  = "PAYMENT_NOT_FOUND"
	ErrDuplicatePayment = "DUPLICATE_PAYMENT"

	// OAuth wire errors (maintain RFC 6749 compatibility)
	ErrOAuthInvalidRequest       = "invalid_request"
	ErrOAuthInvalidClient        = "invalid_client"
	ErrOAuthInvalidGrant         = "invalid_grant"
	ErrOAuthUnauthorizedClient   = "unauthorized_client"
	ErrOAuthUnsupportedGrantType = "unsupported_grant_type"
	ErrOAuthInvalidScope         = "invalid_scope"
)

// ServiceError is the error value returned by the service layer. It carries
// the machine code, the HTTP status the controller should surface, and
// optional structured details (e.g. required vs. available balance).
type ServiceError struct {
	Code    string
	Status  int
	Message string
	Details map[string]interface{}
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a ServiceError with the given status, code and message
func NewServiceError(status int, code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Status:  status,
		Message: message,
	}
}

// WithDetails attaches structured details to the error and returns it
func (e *ServiceError) WithDetails(details map[string]interface{}) *ServiceError {
	e.Details = details
	return e
}

// APIError converts the service error into the wire representation
func (e *ServiceError) APIError() APIError {
	return APIError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// AsServiceError extracts a *ServiceError from err, falling back to a
// generic 500 so controllers never leak raw database errors to clients.
func AsServiceError(err error) *ServiceError {
	if svcErr, ok := err.(*ServiceError); ok {
		return svcErr
	}
	return NewServiceError(http.StatusInternalServerError, ErrInternalServer, "internal server error")
}

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// OAuth2Error represents an OAuth2 error response (RFC 6749)
type OAuth2Error struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorURI         string `json:"error_uri,omitempty"`
}

// NewOAuth2Error creates a new OAuth2 error response
func NewOAuth2Error(error, description string) OAuth2Error {
	return OAuth2Error{
		Error:            error,
		ErrorDescription: description,
	}
}
