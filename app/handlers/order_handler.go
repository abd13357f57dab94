package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/app/middleware"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
)

// OrderHandlerInterface defines the contract for customer order handlers
type OrderHandlerInterface interface {
	PlaceOrder(c fiber.Ctx) error
	ListOrders(c fiber.Ctx) error
	GetOrder(c fiber.Ctx) error
	CancelOrder(c fiber.Ctx) error
}

// OrderHandler handles customer order HTTP requests
type OrderHandler struct {
	flow      businessflow.OrderFlow
	validator *validator.Validate
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(flow businessflow.OrderFlow) *OrderHandler {
	return &OrderHandler{flow: flow, validator: newValidator()}
}

func (h *OrderHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *OrderHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// PlaceOrder creates a new order for the authenticated customer
// @Summary Place Order
// @Description Place an order; stock is reserved and a daily order number is issued
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PlaceOrderRequest true "Order items"
// @Success 201 {object} dto.APIResponse{data=dto.PlaceOrderResponse} "Order placed"
// @Failure 400 {object} dto.APIResponse "Validation error or ordering disabled"
// @Failure 409 {object} dto.APIResponse "Insufficient stock"
// @Failure 503 {object} dto.APIResponse "Order numbering unavailable"
// @Router /api/v1/orders [post]
func (h *OrderHandler) PlaceOrder(c fiber.Ctx) error {
	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	var req dto.PlaceOrderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.flow.PlaceOrder(requestContext(c, "/api/v1/orders"), customerID, &req, clientMetadata(c))
	if err != nil {
		middleware.RecordOrderPlaced("rejected")
		switch {
		case businessflow.IsOrderingDisabled(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Ordering is currently disabled", "ORDERING_DISABLED", nil)
		case businessflow.IsOrderEmpty(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Order has no items", "ORDER_EMPTY", nil)
		case businessflow.IsTooManyOrderItems(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Too many order items", "TOO_MANY_ITEMS", nil)
		case businessflow.IsOrderBelowMinimum(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Order total is below the minimum amount", "ORDER_BELOW_MINIMUM", nil)
		case businessflow.IsProductNotFound(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Product not found", "PRODUCT_NOT_FOUND", nil)
		case businessflow.IsProductInactive(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Product is not available", "PRODUCT_INACTIVE", nil)
		case businessflow.IsInsufficientStock(err):
			return h.ErrorResponse(c, fiber.StatusConflict, "Insufficient stock", "INSUFFICIENT_STOCK", nil)
		case businessflow.IsAccountInactive(err):
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		case businessflow.IsStorageUnavailable(err):
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Order could not be numbered, please retry", "ORDER_NUMBERING_UNAVAILABLE", nil)
		}

		log.Println("Order placement failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order placement failed", "ORDER_PLACEMENT_FAILED", nil)
	}

	middleware.RecordOrderPlaced("placed")
	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// ListOrders returns the authenticated customer's order history
// @Summary List Orders
// @Description List the customer's orders, newest first
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListOrdersResponse} "Orders retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c fiber.Ctx) error {
	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	var req dto.ListOrdersRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.flow.ListOrders(requestContext(c, "/api/v1/orders"), customerID, &req)
	if err != nil {
		log.Println("Order listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order listing failed", "ORDER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Orders retrieved successfully", result)
}

// GetOrder returns one of the authenticated customer's orders
// @Summary Get Order
// @Description Retrieve a single order by UUID
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Order UUID"
// @Success 200 {object} dto.APIResponse{data=dto.OrderDTO} "Order retrieved"
// @Failure 403 {object} dto.APIResponse "Order belongs to another customer"
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Router /api/v1/orders/{uuid} [get]
func (h *OrderHandler) GetOrder(c fiber.Ctx) error {
	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	orderUUID := c.Params("uuid")
	if orderUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Order UUID is required", "INVALID_REQUEST", nil)
	}

	order, err := h.flow.GetOrder(requestContext(c, "/api/v1/orders/:uuid"), customerID, orderUUID)
	if err != nil {
		if businessflow.IsOrderNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Order not found", "ORDER_NOT_FOUND", nil)
		}
		if businessflow.IsOrderAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Order access denied", "ORDER_ACCESS_DENIED", nil)
		}
		log.Println("Order lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order lookup failed", "ORDER_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Order retrieved successfully", order)
}

// CancelOrder cancels one of the authenticated customer's orders
// @Summary Cancel Order
// @Description Cancel a pending or confirmed order; reserved stock is returned
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Order UUID"
// @Success 200 {object} dto.APIResponse{data=dto.OrderDTO} "Order canceled"
// @Failure 400 {object} dto.APIResponse "Order cannot be canceled"
// @Failure 403 {object} dto.APIResponse "Order belongs to another customer"
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Router /api/v1/orders/{uuid}/cancel [post]
func (h *OrderHandler) CancelOrder(c fiber.Ctx) error {
	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	orderUUID := c.Params("uuid")
	if orderUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Order UUID is required", "INVALID_REQUEST", nil)
	}

	order, err := h.flow.CancelOrder(requestContext(c, "/api/v1/orders/:uuid/cancel"), customerID, orderUUID, clientMetadata(c))
	if err != nil {
		if businessflow.IsOrderNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Order not found", "ORDER_NOT_FOUND", nil)
		}
		if businessflow.IsOrderAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Order access denied", "ORDER_ACCESS_DENIED", nil)
		}
		if businessflow.IsOrderNotCancelable(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Order can no longer be canceled", "ORDER_NOT_CANCELABLE", nil)
		}
		log.Println("Order cancellation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order cancellation failed", "ORDER_CANCEL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Order canceled successfully", order)
}
