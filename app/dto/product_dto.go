// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// ProductDTO represents catalog product data for API responses
type ProductDTO struct {
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Unit        string    `json:"unit"`
	UnitPrice   uint64    `json:"unit_price"` // Toman
	Stock       int64     `json:"stock"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsActive    *bool     `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductRequest represents an admin request to add a catalog product
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Unit        string  `json:"unit" validate:"required,oneof=bottle pack kg"`
	UnitPrice   uint64  `json:"unit_price" validate:"required,gt=0"`
	Stock       int64   `json:"stock" validate:"gte=0"`
}

// UpdateProductRequest represents an admin request to edit a catalog product
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Unit        *string `json:"unit,omitempty" validate:"omitempty,oneof=bottle pack kg"`
	UnitPrice   *uint64 `json:"unit_price,omitempty" validate:"omitempty,gt=0"`
	Stock       *int64  `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ListProductsRequest represents catalog listing with pagination
type ListProductsRequest struct {
	Page     int `json:"page" query:"page" validate:"omitempty,gte=1"`
	PageSize int `json:"page_size" query:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ListProductsResponse represents a paginated product listing
type ListProductsResponse struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}
