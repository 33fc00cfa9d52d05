package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrClientNotFound is returned when a client is not found.
	ErrClientNotFound = errors.New("client not found")
	// ErrServiceNotFound is returned when a service is not found.
	ErrServiceNotFound = errors.New("service not found")
	// ErrPaymentNotFound is returned when a payment is not found.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrProjectNotFound is returned when a project is not found.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTaskNotFound is returned when a task is not found.
	ErrTaskNotFound = errors.New("task not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrAttachmentNotFound is returned when an attachment is not found.
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrMissingClient is returned when a payment is created without a client.
	ErrMissingClient = errors.New("client is required")
	// ErrMissingService is returned when a payment is created without a service.
	ErrMissingService = errors.New("service is required")
	// ErrMissingDueDate is returned when a payment is created without a due date.
	ErrMissingDueDate = errors.New("due date is required")
	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrAlreadyPaid is returned when marking an already paid payment as paid.
	ErrAlreadyPaid = errors.New("payment is already paid")
	// ErrPaymentConflict is returned when a conditional status update matched
	// no row, meaning a concurrent writer changed the payment first.
	ErrPaymentConflict = errors.New("payment was modified concurrently")

	// ErrEmailNotFound is returned on login when no user has the given email.
	ErrEmailNotFound = errors.New("email not found")
	// ErrWrongPassword is returned on login when the password does not match.
	ErrWrongPassword = errors.New("wrong password")
	// ErrAccountInactive is returned on login when the account is inactive or
	// its invitation is still pending.
	ErrAccountInactive = errors.New("account is pending approval or inactive")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidResetToken covers invalid, expired and already-used reset
	// tokens. Deliberately one message for all three.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrClientNotFound),
		errors.Is(err, ErrServiceNotFound),
		errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, ErrProjectNotFound),
		errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrAttachmentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrMissingClient),
		errors.Is(err, ErrMissingService),
		errors.Is(err, ErrMissingDueDate),
		errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrAlreadyPaid):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_PAID")
	case errors.Is(err, ErrPaymentConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrEmailNotFound):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "EMAIL_NOT_FOUND")
	case errors.Is(err, ErrWrongPassword):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "WRONG_PASSWORD")
	case errors.Is(err, ErrAccountInactive):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_INACTIVE")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidResetToken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_RESET_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
