// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/app/services"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

func unauthorized(c fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: code},
	})
}

// extractBearerToken pulls the token out of the Authorization header
func extractBearerToken(c fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("MISSING_AUTHORIZATION_HEADER")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("INVALID_AUTHORIZATION_FORMAT")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", errors.New("MISSING_ACCESS_TOKEN")
	}
	return token, nil
}

func tokenErrorCode(err error) (code, message string) {
	switch {
	case errors.Is(err, services.ErrTokenExpired):
		return "TOKEN_EXPIRED", "Access token has expired"
	case errors.Is(err, services.ErrTokenInvalid):
		return "TOKEN_INVALID", "Invalid access token"
	case errors.Is(err, services.ErrTokenRevoked):
		return "TOKEN_REVOKED", "Access token has been revoked"
	default:
		return "TOKEN_VALIDATION_FAILED", "Token validation failed"
	}
}

// Authenticate is the middleware function that validates customer JWT tokens
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, err := extractBearerToken(c)
		if err != nil {
			return unauthorized(c, err.Error(), "Authorization header is missing or malformed")
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			code, message := tokenErrorCode(err)
			return unauthorized(c, code, message)
		}

		// Store user information in context for downstream handlers
		c.Locals("customer_id", claims.CustomerID)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// AdminAuthenticate validates JWT tokens and sets admin-specific context values
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, err := extractBearerToken(c)
		if err != nil {
			return unauthorized(c, err.Error(), "Authorization header is missing or malformed")
		}

		adminClaims, err := m.tokenService.ValidateAdminToken(token)
		if err != nil {
			code, message := tokenErrorCode(err)
			return unauthorized(c, code, message)
		}

		c.Locals("admin_id", adminClaims.AdminID)
		c.Locals("token_id", adminClaims.TokenID)
		c.Locals("token_claims", adminClaims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// OptionalAuth validates JWT tokens if present but does not require them
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, err := extractBearerToken(c)
		if err != nil {
			return c.Next()
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			return c.Next()
		}

		c.Locals("customer_id", claims.CustomerID)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// GetCustomerIDFromContext extracts customer ID from the request context
func GetCustomerIDFromContext(c fiber.Ctx) (uint, bool) {
	customerID, ok := c.Locals("customer_id").(uint)
	return customerID, ok
}

// GetAdminIDFromContext extracts admin ID from the request context
func GetAdminIDFromContext(c fiber.Ctx) (uint, bool) {
	adminID, ok := c.Locals("admin_id").(uint)
	return adminID, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}
