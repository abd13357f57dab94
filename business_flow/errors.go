// Package businessflow contains the core business logic and use cases for ordering and authentication workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Customer-related errors
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrPhoneAlreadyExists = errors.New("phone number already exists")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Verification code errors
	ErrVerificationNotFound       = errors.New("no verification code found")
	ErrCodeMismatch               = errors.New("verification code does not match")
	ErrCodeExpired                = errors.New("verification code has expired")
	ErrInvalidVerificationPurpose = errors.New("invalid verification purpose")
	ErrNotificationDeliveryFailed = errors.New("verification code could not be delivered")
	ErrResendCooldownActive       = errors.New("a code was sent recently, wait before requesting another")
	ErrStorageUnavailable         = errors.New("storage unavailable")
	ErrCacheNotAvailable          = errors.New("cache not available")

	// Catalog errors
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not available")
	ErrInsufficientStock = errors.New("insufficient stock")

	// Order errors
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderAccessDenied       = errors.New("order access denied")
	ErrOrderEmpty              = errors.New("order must contain at least one item")
	ErrTooManyOrderItems       = errors.New("order has too many items")
	ErrOrderBelowMinimum       = errors.New("order total is below the minimum order amount")
	ErrOrderingDisabled        = errors.New("ordering is currently disabled")
	ErrOrderNotCancelable      = errors.New("order can no longer be canceled")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	// Admin errors
	ErrAdminNotFound     = errors.New("admin not found")
	ErrAdminInactive     = errors.New("admin account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidCaptcha    = errors.New("captcha validation failed")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsCustomerNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsPhoneAlreadyExists(err error) bool {
	return errors.Is(err, ErrPhoneAlreadyExists)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsVerificationNotFound(err error) bool {
	return errors.Is(err, ErrVerificationNotFound)
}

func IsCodeMismatch(err error) bool {
	return errors.Is(err, ErrCodeMismatch)
}

func IsCodeExpired(err error) bool {
	return errors.Is(err, ErrCodeExpired)
}

func IsInvalidVerificationPurpose(err error) bool {
	return errors.Is(err, ErrInvalidVerificationPurpose)
}

func IsNotificationDeliveryFailed(err error) bool {
	return errors.Is(err, ErrNotificationDeliveryFailed)
}

func IsResendCooldownActive(err error) bool {
	return errors.Is(err, ErrResendCooldownActive)
}

func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}

func IsProductNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

func IsProductInactive(err error) bool {
	return errors.Is(err, ErrProductInactive)
}

func IsInsufficientStock(err error) bool {
	return errors.Is(err, ErrInsufficientStock)
}

func IsOrderNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

func IsOrderAccessDenied(err error) bool {
	return errors.Is(err, ErrOrderAccessDenied)
}

func IsOrderEmpty(err error) bool {
	return errors.Is(err, ErrOrderEmpty)
}

func IsTooManyOrderItems(err error) bool {
	return errors.Is(err, ErrTooManyOrderItems)
}

func IsOrderBelowMinimum(err error) bool {
	return errors.Is(err, ErrOrderBelowMinimum)
}

func IsOrderingDisabled(err error) bool {
	return errors.Is(err, ErrOrderingDisabled)
}

func IsOrderNotCancelable(err error) bool {
	return errors.Is(err, ErrOrderNotCancelable)
}

func IsInvalidStatusTransition(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

func IsInvalidCaptcha(err error) bool {
	return errors.Is(err, ErrInvalidCaptcha)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}
