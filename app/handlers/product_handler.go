package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
)

// ProductHandlerInterface defines the contract for the public catalog handlers
type ProductHandlerInterface interface {
	ListProducts(c fiber.Ctx) error
	GetProduct(c fiber.Ctx) error
	ProductImage(c fiber.Ctx) error
}

// ProductHandler handles public catalog HTTP requests
type ProductHandler struct {
	flow      businessflow.ProductFlow
	validator *validator.Validate
}

// NewProductHandler creates a new product handler
func NewProductHandler(flow businessflow.ProductFlow) *ProductHandler {
	return &ProductHandler{flow: flow, validator: newValidator()}
}

func (h *ProductHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ProductHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListProducts lists the active catalog
// @Summary List Products
// @Description List active catalog products with pagination
// @Tags Catalog
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListProductsResponse} "Products retrieved"
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(c fiber.Ctx) error {
	var req dto.ListProductsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.flow.ListProducts(requestContext(c, "/api/v1/products"), &req)
	if err != nil {
		log.Println("Product listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product listing failed", "PRODUCT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Products retrieved successfully", result)
}

// GetProduct returns one catalog product
// @Summary Get Product
// @Description Retrieve a single catalog product by UUID
// @Tags Catalog
// @Produce json
// @Param uuid path string true "Product UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ProductDTO} "Product retrieved"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Router /api/v1/products/{uuid} [get]
func (h *ProductHandler) GetProduct(c fiber.Ctx) error {
	productUUID := c.Params("uuid")
	if productUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Product UUID is required", "INVALID_REQUEST", nil)
	}

	product, err := h.flow.GetProduct(requestContext(c, "/api/v1/products/:uuid"), productUUID)
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		}
		log.Println("Product lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product lookup failed", "PRODUCT_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product retrieved successfully", product)
}

// ProductImage serves a product's image
// @Summary Product Image
// @Description Serve the stored image for a catalog product
// @Tags Catalog
// @Produce image/jpeg
// @Param uuid path string true "Product UUID"
// @Success 200 {string} string "Binary image"
// @Failure 404 {object} dto.APIResponse "Product image not found"
// @Router /api/v1/products/{uuid}/image [get]
func (h *ProductHandler) ProductImage(c fiber.Ctx) error {
	productUUID := c.Params("uuid")
	if productUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Product UUID is required", "INVALID_REQUEST", nil)
	}

	filename, contentType, data, err := h.flow.ProductImage(requestContext(c, "/api/v1/products/:uuid/image"), productUUID)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Product image not found", "PRODUCT_IMAGE_NOT_FOUND", nil)
	}

	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", `inline; filename="`+filename+`"`)
	return c.Send(data)
}
