package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
)

// OrderAdminHandlerInterface defines the contract for admin order handlers
type OrderAdminHandlerInterface interface {
	ListOrders(c fiber.Ctx) error
	UpdateOrderStatus(c fiber.Ctx) error
	OrderStats(c fiber.Ctx) error
	ExportOrders(c fiber.Ctx) error
}

// OrderAdminHandler handles admin order management HTTP requests
type OrderAdminHandler struct {
	flow      businessflow.AdminOrderFlow
	validator *validator.Validate
}

// NewOrderAdminHandler creates a new admin order handler
func NewOrderAdminHandler(flow businessflow.AdminOrderFlow) *OrderAdminHandler {
	return &OrderAdminHandler{flow: flow, validator: newValidator()}
}

func (h *OrderAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *OrderAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListOrders returns a filtered, paginated order listing across all customers
// @Summary Admin List Orders
// @Description List orders filtered by status, customer phone and creation date range
// @Tags Admin Orders
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Param status query string false "Order status filter" Enums(pending, confirmed, shipped, delivered, canceled)
// @Param phone query string false "Customer phone filter"
// @Param start_date query string false "Creation date lower bound (YYYY-MM-DD, inclusive)"
// @Param end_date query string false "Creation date upper bound (YYYY-MM-DD, inclusive)"
// @Success 200 {object} dto.APIResponse{data=dto.AdminListOrdersResponse} "Orders retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid filter"
// @Security BearerAuth
// @Router /api/v1/admin/orders [get]
func (h *OrderAdminHandler) ListOrders(c fiber.Ctx) error {
	var req dto.AdminListOrdersRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.flow.ListOrders(requestContext(c, "/api/v1/admin/orders"), &req)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date must not be after end date", "INVALID_DATE_RANGE", nil)
		}

		log.Println("Admin order listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order listing failed", "ORDER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Orders retrieved", result)
}

// UpdateOrderStatus moves an order along its status lifecycle
// @Summary Admin Update Order Status
// @Description Transition an order to a new status; canceling restores product stock
// @Tags Admin Orders
// @Accept json
// @Produce json
// @Param uuid path string true "Order UUID"
// @Param request body dto.AdminUpdateOrderStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.AdminOrderDTO} "Order status updated"
// @Failure 400 {object} dto.APIResponse "Invalid status transition"
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Security BearerAuth
// @Router /api/v1/admin/orders/{uuid}/status [put]
func (h *OrderAdminHandler) UpdateOrderStatus(c fiber.Ctx) error {
	orderUUID := c.Params("uuid")
	if orderUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Order UUID is required", "INVALID_REQUEST", nil)
	}

	var req dto.AdminUpdateOrderStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.flow.UpdateOrderStatus(requestContext(c, "/api/v1/admin/orders/:uuid/status"), orderUUID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsOrderNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Order not found", "ORDER_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidStatusTransition(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status transition", "INVALID_STATUS_TRANSITION", nil)
		}

		log.Println("Admin order status update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order status update failed", "ORDER_STATUS_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Order status updated", result)
}

// OrderStats aggregates daily order counts and revenue over a date range
// @Summary Admin Order Stats
// @Description Daily order counts, revenue and cancellations between two dates (both inclusive)
// @Tags Admin Orders
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.AdminOrderStatsResponse} "Stats retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid date range"
// @Security BearerAuth
// @Router /api/v1/admin/orders/stats [get]
func (h *OrderAdminHandler) OrderStats(c fiber.Ctx) error {
	var req dto.AdminOrderStatsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.flow.OrderStats(requestContext(c, "/api/v1/admin/orders/stats"), &req)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date must not be after end date", "INVALID_DATE_RANGE", nil)
		}

		log.Println("Admin order stats failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order stats failed", "ORDER_STATS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Stats retrieved", result)
}

// ExportOrders streams the filtered order listing as an Excel workbook
// @Summary Admin Export Orders
// @Description Export orders matching the listing filters as an .xlsx download
// @Tags Admin Orders
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Order status filter" Enums(pending, confirmed, shipped, delivered, canceled)
// @Param phone query string false "Customer phone filter"
// @Param start_date query string false "Creation date lower bound (YYYY-MM-DD, inclusive)"
// @Param end_date query string false "Creation date upper bound (YYYY-MM-DD, inclusive)"
// @Success 200 {file} binary "Excel workbook"
// @Failure 400 {object} dto.APIResponse "Invalid filter"
// @Security BearerAuth
// @Router /api/v1/admin/orders/export [get]
func (h *OrderAdminHandler) ExportOrders(c fiber.Ctx) error {
	var req dto.AdminListOrdersRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	filename, content, err := h.flow.ExportOrdersExcel(requestContext(c, "/api/v1/admin/orders/export"), &req)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date must not be after end date", "INVALID_DATE_RANGE", nil)
		}

		log.Println("Admin order export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order export failed", "ORDER_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}
