package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
)

// PlatformSettingsHandlerInterface defines the contract for platform settings handlers
type PlatformSettingsHandlerInterface interface {
	GetSettings(c fiber.Ctx) error
	UpdateSettings(c fiber.Ctx) error
}

// PlatformSettingsHandler handles shop settings HTTP requests
type PlatformSettingsHandler struct {
	flow      businessflow.PlatformSettingsFlow
	validator *validator.Validate
}

// NewPlatformSettingsHandler creates a new platform settings handler
func NewPlatformSettingsHandler(flow businessflow.PlatformSettingsFlow) *PlatformSettingsHandler {
	return &PlatformSettingsHandler{flow: flow, validator: newValidator()}
}

func (h *PlatformSettingsHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PlatformSettingsHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetSettings returns the current shop settings
// @Summary Get Shop Settings
// @Description Read the shop name, ordering toggle, minimum order amount and delivery fee
// @Tags Settings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.PlatformSettingsResponse} "Settings retrieved"
// @Router /api/v1/settings [get]
func (h *PlatformSettingsHandler) GetSettings(c fiber.Ctx) error {
	result, err := h.flow.GetSettings(requestContext(c, "/api/v1/settings"))
	if err != nil {
		log.Println("Settings read failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Settings read failed", "SETTINGS_READ_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Settings retrieved", result)
}

// UpdateSettings replaces the shop settings
// @Summary Admin Update Shop Settings
// @Description Update the shop settings; disabling ordering rejects new orders immediately
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.UpdatePlatformSettingsRequest true "New settings"
// @Success 200 {object} dto.APIResponse{data=dto.PlatformSettingsResponse} "Settings updated"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Security BearerAuth
// @Router /api/v1/admin/settings [put]
func (h *PlatformSettingsHandler) UpdateSettings(c fiber.Ctx) error {
	var req dto.UpdatePlatformSettingsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.flow.UpdateSettings(requestContext(c, "/api/v1/admin/settings"), &req, clientMetadata(c))
	if err != nil {
		log.Println("Settings update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Settings update failed", "SETTINGS_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Settings updated", result)
}
