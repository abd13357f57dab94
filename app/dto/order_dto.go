// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// OrderItemRequest is one line of a new order
type OrderItemRequest struct {
	ProductUUID string `json:"product_uuid" validate:"required,uuid4"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderRequest represents a customer placing a new order
type PlaceOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
	Note  *string            `json:"note,omitempty" validate:"omitempty,max=500"`
}

// OrderItemDTO represents one order line for API responses
type OrderItemDTO struct {
	ProductUUID string `json:"product_uuid"`
	ProductName string `json:"product_name"`
	Unit        string `json:"unit"`
	UnitPrice   uint64 `json:"unit_price"` // Toman, snapshot at placement
	Quantity    int64  `json:"quantity"`
	LineTotal   uint64 `json:"line_total"`
}

// OrderDTO represents order data for API responses
type OrderDTO struct {
	UUID            string         `json:"uuid"`
	OrderNumber     string         `json:"order_number"`
	Status          string         `json:"status"`
	DeliveryAddress string         `json:"delivery_address"`
	Note            *string        `json:"note,omitempty"`
	TotalAmount     uint64         `json:"total_amount"` // Toman
	Items           []OrderItemDTO `json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
	DeliveredAt     *time.Time     `json:"delivered_at,omitempty"`
	CanceledAt      *time.Time     `json:"canceled_at,omitempty"`
}

// PlaceOrderResponse represents the response after an order is placed
type PlaceOrderResponse struct {
	Message string   `json:"message"`
	Order   OrderDTO `json:"order"`
}

// ListOrdersRequest represents order history listing with pagination
type ListOrdersRequest struct {
	Page     int `json:"page" query:"page" validate:"omitempty,gte=1"`
	PageSize int `json:"page_size" query:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ListOrdersResponse represents a paginated order listing
type ListOrdersResponse struct {
	Orders   []OrderDTO `json:"orders"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}
