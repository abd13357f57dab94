package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
)

// ProductAdminHandlerInterface defines the contract for admin catalog management
type ProductAdminHandlerInterface interface {
	CreateProduct(c fiber.Ctx) error
	UpdateProduct(c fiber.Ctx) error
	DeactivateProduct(c fiber.Ctx) error
	UploadProductImage(c fiber.Ctx) error
}

// ProductAdminHandler handles admin catalog HTTP requests
type ProductAdminHandler struct {
	flow      businessflow.ProductFlow
	validator *validator.Validate
}

// NewProductAdminHandler creates a new admin product handler
func NewProductAdminHandler(flow businessflow.ProductFlow) *ProductAdminHandler {
	return &ProductAdminHandler{flow: flow, validator: newValidator()}
}

func (h *ProductAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ProductAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateProduct adds a catalog product
// @Summary Create Product
// @Description Add a new catalog product
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProductRequest true "Product data"
// @Success 201 {object} dto.APIResponse{data=dto.ProductDTO} "Product created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/admin/products [post]
func (h *ProductAdminHandler) CreateProduct(c fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	product, err := h.flow.CreateProduct(requestContext(c, "/api/v1/admin/products"), &req)
	if err != nil {
		log.Println("Product creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product creation failed", "PRODUCT_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Product created successfully", product)
}

// UpdateProduct edits a catalog product
// @Summary Update Product
// @Description Edit fields of an existing catalog product
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Product UUID"
// @Param request body dto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ProductDTO} "Product updated"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Router /api/v1/admin/products/{uuid} [put]
func (h *ProductAdminHandler) UpdateProduct(c fiber.Ctx) error {
	productUUID := c.Params("uuid")
	if productUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Product UUID is required", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateProductRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	product, err := h.flow.UpdateProduct(requestContext(c, "/api/v1/admin/products/:uuid"), productUUID, &req)
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		}
		log.Println("Product update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product update failed", "PRODUCT_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product updated successfully", product)
}

// DeactivateProduct removes a product from the catalog
// @Summary Deactivate Product
// @Description Hide a product from the public catalog; existing orders keep their snapshots
// @Tags Admin Catalog
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Product UUID"
// @Success 200 {object} dto.APIResponse "Product deactivated"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Router /api/v1/admin/products/{uuid} [delete]
func (h *ProductAdminHandler) DeactivateProduct(c fiber.Ctx) error {
	productUUID := c.Params("uuid")
	if productUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Product UUID is required", "INVALID_REQUEST", nil)
	}

	err := h.flow.DeactivateProduct(requestContext(c, "/api/v1/admin/products/:uuid"), productUUID)
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		}
		log.Println("Product deactivation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product deactivation failed", "PRODUCT_DEACTIVATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product deactivated successfully", nil)
}

// UploadProductImage attaches an image to a product
// @Summary Upload Product Image
// @Description Upload a product image; it is re-encoded and resized before storage
// @Tags Admin Catalog
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Product UUID"
// @Param file formData file true "Image file (jpg, jpeg, png, webp)"
// @Success 200 {object} dto.APIResponse{data=dto.ProductDTO} "Image uploaded"
// @Failure 400 {object} dto.APIResponse "Invalid file"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Router /api/v1/admin/products/{uuid}/image [post]
func (h *ProductAdminHandler) UploadProductImage(c fiber.Ctx) error {
	productUUID := c.Params("uuid")
	if productUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Product UUID is required", "INVALID_REQUEST", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "file is required", "INVALID_FILE", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}
	defer file.Close()

	product, err := h.flow.UploadProductImage(requestContext(c, "/api/v1/admin/products/:uuid/image"),
		productUUID, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		if businessflow.IsProductNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "INVALID_FILE", "INVALID_FILE_TYPE", "FILE_TOO_LARGE", "INVALID_REQUEST":
				return h.ErrorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, nil)
			}
		}
		log.Println("Product image upload failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product image upload failed", "PRODUCT_IMAGE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product image uploaded successfully", product)
}
