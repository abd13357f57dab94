package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
)

type ProfileHandlerInterface interface {
	GetProfile(c fiber.Ctx) error
	UpdateProfile(c fiber.Ctx) error
}

type ProfileHandler struct {
	flow      businessflow.ProfileFlow
	validator *validator.Validate
}

func NewProfileHandler(flow businessflow.ProfileFlow) *ProfileHandler {
	return &ProfileHandler{flow: flow, validator: newValidator()}
}

func (h *ProfileHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ProfileHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetProfile returns the authenticated customer's profile
// @Summary Get profile
// @Description Retrieve the authenticated customer's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CustomerDTO} "Profile retrieved successfully"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(c fiber.Ctx) error {
	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	customer, err := h.flow.GetProfile(requestContext(c, "/api/v1/profile"), customerID)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		log.Println("Get profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get profile", "GET_PROFILE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Profile retrieved successfully", customer)
}

// UpdateProfile edits the authenticated customer's profile
// @Summary Update profile
// @Description Update name, company and delivery address; phone and email are fixed
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.CustomerDTO} "Profile updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/profile [put]
func (h *ProfileHandler) UpdateProfile(c fiber.Ctx) error {
	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	customer, err := h.flow.UpdateProfile(requestContext(c, "/api/v1/profile"), customerID, &req)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}
		log.Println("Update profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update profile", "UPDATE_PROFILE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Profile updated successfully", customer)
}
