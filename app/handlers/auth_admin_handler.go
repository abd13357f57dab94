package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
)

// AuthAdminHandlerInterface defines the contract for admin authentication handlers
type AuthAdminHandlerInterface interface {
	CaptchaInit(c fiber.Ctx) error
	Login(c fiber.Ctx) error
}

// AuthAdminHandler handles admin authentication HTTP requests
type AuthAdminHandler struct {
	flow      businessflow.AdminAuthFlow
	validator *validator.Validate
}

// NewAuthAdminHandler creates a new admin authentication handler
func NewAuthAdminHandler(flow businessflow.AdminAuthFlow) *AuthAdminHandler {
	return &AuthAdminHandler{flow: flow, validator: newValidator()}
}

func (h *AuthAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CaptchaInit generates a rotate captcha challenge for the admin login form
// @Summary Admin Captcha Init
// @Description Generate a rotate captcha challenge; the UI sends back the rotation angle with the login form
// @Tags Admin Authentication
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminCaptchaInitResponse} "Captcha challenge created"
// @Failure 500 {object} dto.APIResponse "Captcha generation failed"
// @Router /api/v1/admin/auth/captcha [get]
func (h *AuthAdminHandler) CaptchaInit(c fiber.Ctx) error {
	result, err := h.flow.InitCaptcha(requestContext(c, "/api/v1/admin/auth/captcha"))
	if err != nil {
		log.Println("Admin captcha init failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Captcha generation failed", "CAPTCHA_INIT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Captcha challenge created", result)
}

// Login verifies captcha plus credentials and issues admin tokens
// @Summary Admin Login
// @Description Authenticate an admin with captcha, username and password
// @Tags Admin Authentication
// @Accept json
// @Produce json
// @Param request body dto.AdminCaptchaVerifyRequest true "Login data with captcha answer"
// @Success 200 {object} dto.APIResponse{data=dto.AdminLoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Captcha validation failed"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /api/v1/admin/auth/login [post]
func (h *AuthAdminHandler) Login(c fiber.Ctx) error {
	var req dto.AdminCaptchaVerifyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.flow.Verify(requestContext(c, "/api/v1/admin/auth/login"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidCaptcha(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Captcha validation failed", "CAPTCHA_INVALID", nil)
		}
		// Credential failures share one response so usernames cannot be probed
		if businessflow.IsAdminNotFound(err) || businessflow.IsIncorrectPassword(err) || businessflow.IsAdminInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS", nil)
		}

		log.Println("Admin login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Admin login failed", "ADMIN_LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}
