// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	businessflow "github.com/shirfam/shirfam-backend/business_flow"
	"github.com/shirfam/shirfam-backend/utils"
)

// newValidator builds a validator with the custom rules the request DTOs use
func newValidator() *validator.Validate {
	v := validator.New()

	// Letters and spaces only, for person and company names
	_ = v.RegisterValidation("alpha_space", func(fl validator.FieldLevel) bool {
		for _, char := range fl.Field().String() {
			if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || char == ' ') {
				return false
			}
		}
		return true
	})

	// Iranian mobile number in any accepted spelling
	_ = v.RegisterValidation("phone_format", func(fl validator.FieldLevel) bool {
		_, err := utils.NormalizePhone(fl.Field().String())
		return err == nil
	})

	_ = v.RegisterValidation("numeric", func(fl validator.FieldLevel) bool {
		for _, char := range fl.Field().String() {
			if char < '0' || char > '9' {
				return false
			}
		}
		return true
	})

	return v
}

// validationErrors flattens validator output into user-facing messages
func validationErrors(err error) []string {
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		messages = append(messages, getValidationErrorMessage(fieldErr))
	}
	return messages
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "len":
		return err.Field() + " must be exactly " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "alpha_space":
		return err.Field() + " must contain only letters and spaces"
	case "phone_format":
		return "Phone number must be an Iranian mobile number"
	case "numeric":
		return err.Field() + " must contain only numbers"
	case "uuid4":
		return err.Field() + " must be a valid UUID"
	case "datetime":
		return err.Field() + " must be a date in YYYY-MM-DD format"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// requestContext creates a context with request-scoped values for observability and timeout.
// The caller does not cancel it explicitly; the timeout bounds the request.
func requestContext(c fiber.Ctx, endpoint string) context.Context {
	return requestContextWithTimeout(c, endpoint, 30*time.Second)
}

func requestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}

// clientMetadata captures the caller's network identity for audit logging
func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
}
