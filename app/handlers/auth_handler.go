// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/app/middleware"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
	"github.com/shirfam/shirfam-backend/models"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	SignupRequestCode(c fiber.Ctx) error
	SignupVerify(c fiber.Ctx) error
	LoginRequestCode(c fiber.Ctx) error
	LoginVerify(c fiber.Ctx) error
	ResendCode(c fiber.Ctx) error
	RefreshToken(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	signupFlow businessflow.SignupFlow
	loginFlow  businessflow.LoginFlow
	validator  *validator.Validate
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(signupFlow businessflow.SignupFlow, loginFlow businessflow.LoginFlow) *AuthHandler {
	return &AuthHandler{
		signupFlow: signupFlow,
		loginFlow:  loginFlow,
		validator:  newValidator(),
	}
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SignupRequestCode starts a signup by sending a verification code
// @Summary Request Signup Code
// @Description Submit the signup form; a 4-digit verification code is sent by SMS
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.SignupCodeRequest true "Signup form data"
// @Success 200 {object} dto.APIResponse{data=dto.CodeIssueResponse} "Verification code sent"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Phone or email already registered"
// @Failure 429 {object} dto.APIResponse "Resend cooldown active"
// @Failure 502 {object} dto.APIResponse "Code delivery failed"
// @Router /api/v1/auth/signup/request-code [post]
func (h *AuthHandler) SignupRequestCode(c fiber.Ctx) error {
	var req dto.SignupCodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.signupFlow.RequestCode(requestContext(c, "/api/v1/auth/signup/request-code"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsPhoneAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Phone number already registered", "PHONE_EXISTS", nil)
		}
		if businessflow.IsEmailAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Email already registered", "EMAIL_EXISTS", nil)
		}
		if businessflow.IsResendCooldownActive(err) {
			return h.ErrorResponse(c, fiber.StatusTooManyRequests, "Please wait before requesting another code", "RESEND_COOLDOWN", nil)
		}
		if businessflow.IsNotificationDeliveryFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Verification code could not be delivered", "CODE_DELIVERY_FAILED", nil)
		}

		log.Println("Signup code request failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Signup failed", "SIGNUP_FAILED", nil)
	}

	middleware.RecordVerificationCodeIssued("signup")
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// SignupVerify completes a signup with the verification code
// @Summary Verify Signup Code
// @Description Verify the signup code; on success the account is created and tokens are issued
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.VerifyCodeRequest true "Verification data"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Signup completed"
// @Failure 400 {object} dto.APIResponse "Invalid or expired code"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/signup/verify [post]
func (h *AuthHandler) SignupVerify(c fiber.Ctx) error {
	var req dto.VerifyCodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.signupFlow.VerifyCode(requestContext(c, "/api/v1/auth/signup/verify"), &req, clientMetadata(c))
	if err != nil {
		if resp := h.verificationErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Signup verification failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Signup verification failed", "SIGNUP_VERIFICATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// LoginRequestCode starts a login by sending a verification code
// @Summary Request Login Code
// @Description Send a 4-digit login code to a registered phone number
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginCodeRequest true "Login request data"
// @Success 200 {object} dto.APIResponse{data=dto.CodeIssueResponse} "Login code sent"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Failure 429 {object} dto.APIResponse "Resend cooldown active"
// @Failure 502 {object} dto.APIResponse "Code delivery failed"
// @Router /api/v1/auth/login/request-code [post]
func (h *AuthHandler) LoginRequestCode(c fiber.Ctx) error {
	var req dto.LoginCodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.loginFlow.RequestCode(requestContext(c, "/api/v1/auth/login/request-code"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}
		if businessflow.IsResendCooldownActive(err) {
			return h.ErrorResponse(c, fiber.StatusTooManyRequests, "Please wait before requesting another code", "RESEND_COOLDOWN", nil)
		}
		if businessflow.IsNotificationDeliveryFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Login code could not be delivered", "CODE_DELIVERY_FAILED", nil)
		}

		log.Println("Login code request failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	middleware.RecordVerificationCodeIssued("login")
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// LoginVerify completes a login with the verification code
// @Summary Verify Login Code
// @Description Verify the login code and issue session tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.VerifyCodeRequest true "Verification data"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Invalid or expired code"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/login/verify [post]
func (h *AuthHandler) LoginVerify(c fiber.Ctx) error {
	var req dto.VerifyCodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.loginFlow.VerifyCode(requestContext(c, "/api/v1/auth/login/verify"), &req, clientMetadata(c))
	if err != nil {
		if resp := h.verificationErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Login verification failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login verification failed", "LOGIN_VERIFICATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ResendCode re-sends a pending verification code
// @Summary Resend Verification Code
// @Description Replace the pending code for a (phone, purpose) pair and re-send it
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.ResendCodeRequest true "Resend request"
// @Success 200 {object} dto.APIResponse{data=dto.CodeIssueResponse} "Code resent"
// @Failure 400 {object} dto.APIResponse "No pending verification"
// @Failure 429 {object} dto.APIResponse "Resend cooldown active"
// @Failure 502 {object} dto.APIResponse "Code delivery failed"
// @Router /api/v1/auth/resend-code [post]
func (h *AuthHandler) ResendCode(c fiber.Ctx) error {
	var req dto.ResendCodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	// The purpose picks the pair to refresh; signup and login codes are
	// independent records for the same phone
	var result *dto.CodeIssueResponse
	var err error
	switch req.Purpose {
	case models.VerificationPurposeSignup:
		result, err = h.signupFlow.ResendCode(requestContext(c, "/api/v1/auth/resend-code"), &req, clientMetadata(c))
	case models.VerificationPurposeLogin:
		result, err = h.loginFlow.ResendCode(requestContext(c, "/api/v1/auth/resend-code"), &req, clientMetadata(c))
	default:
		err = businessflow.NewBusinessError("INVALID_PURPOSE", "Invalid verification purpose", businessflow.ErrInvalidVerificationPurpose)
	}
	if err != nil {
		if businessflow.IsVerificationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "No pending verification for this phone", "NO_PENDING_VERIFICATION", nil)
		}
		if businessflow.IsInvalidVerificationPurpose(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid verification purpose", "INVALID_PURPOSE", nil)
		}
		if businessflow.IsResendCooldownActive(err) {
			return h.ErrorResponse(c, fiber.StatusTooManyRequests, "Please wait before requesting another code", "RESEND_COOLDOWN", nil)
		}
		if businessflow.IsNotificationDeliveryFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Verification code could not be delivered", "CODE_DELIVERY_FAILED", nil)
		}

		log.Println("Resend code failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resend code", "RESEND_CODE_FAILED", nil)
	}

	middleware.RecordVerificationCodeIssued(req.Purpose)
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// RefreshToken issues a new session from a refresh token
// @Summary Refresh Token
// @Description Exchange a refresh token for a fresh session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Session refreshed"
// @Failure 401 {object} dto.APIResponse "Invalid refresh token"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.loginFlow.RefreshToken(requestContext(c, "/api/v1/auth/refresh"), &req, clientMetadata(c))
	if err != nil {
		log.Println("Token refresh failed", err)
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", "INVALID_REFRESH_TOKEN", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Logout ends the current session
// @Summary Logout
// @Description Expire the current session token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out"
// @Failure 401 {object} dto.APIResponse "Authentication required"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok || customerID == 0 {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	sessionToken := ""
	if authHeader := c.Get("Authorization"); len(authHeader) > 7 {
		sessionToken = authHeader[7:] // strip "Bearer "
	}

	err := h.loginFlow.Logout(requestContext(c, "/api/v1/auth/logout"), customerID, sessionToken, clientMetadata(c))
	if err != nil {
		log.Println("Logout failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Logged out successfully", nil)
}

// Health handles health check requests
// @Summary Health Check
// @Description Check the health status of the API
// @Tags Health
// @Produce json
// @Success 200 {object} dto.APIResponse "Service is healthy"
// @Router /api/v1/health [get]
func (h *AuthHandler) Health(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Service is healthy", fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// verificationErrorResponse maps the shared verification failures. Returns nil
// when the error is not a verification error.
func (h *AuthHandler) verificationErrorResponse(c fiber.Ctx, err error) error {
	switch {
	case businessflow.IsVerificationNotFound(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "No pending verification for this phone", "NO_PENDING_VERIFICATION", nil)
	case businessflow.IsCodeExpired(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Verification code has expired", "CODE_EXPIRED", nil)
	case businessflow.IsCodeMismatch(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Incorrect verification code", "CODE_MISMATCH", nil)
	case businessflow.IsCustomerNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
	case businessflow.IsAccountInactive(err):
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
	case businessflow.IsPhoneAlreadyExists(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Phone number already registered", "PHONE_EXISTS", nil)
	case businessflow.IsEmailAlreadyExists(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Email already registered", "EMAIL_EXISTS", nil)
	default:
		return nil
	}
}
