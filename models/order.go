package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// Valid checks if the status is valid.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether s may move to next. Delivered and canceled
// are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusConfirmed || next == OrderStatusCanceled
	case OrderStatusConfirmed:
		return next == OrderStatusShipped || next == OrderStatusCanceled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for OrderStatus.
func (s *OrderStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for OrderStatus.
func (s OrderStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid OrderStatus: %s", s)
	}
	return string(s), nil
}

type Order struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_orders_uuid" json:"uuid"`

	// OrderNumber is <SITE><YYMMDD>-<NNN>, unique for the system lifetime
	// because (day key, sequence) pairs never repeat.
	OrderNumber string `gorm:"size:20;not null;uniqueIndex:uk_orders_order_number" json:"order_number"`

	CustomerID uint     `gorm:"not null;index:idx_orders_customer_id" json:"customer_id"`
	Customer   Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`

	Status OrderStatus `gorm:"size:16;not null;default:'pending';index:idx_orders_status" json:"status"`

	// Delivery address snapshot taken from the customer profile at placement
	DeliveryAddress string  `gorm:"size:500;not null" json:"delivery_address"`
	Note            *string `gorm:"size:500" json:"note,omitempty"`

	TotalAmount uint64 `gorm:"not null" json:"total_amount"` // Toman

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_orders_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index:idx_order_items_order_id" json:"order_id"`
	ProductID uint    `gorm:"not null;index:idx_order_items_product_id" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`

	// Unit price snapshot at placement time; later catalog edits must not
	// change past orders.
	UnitPrice uint64 `gorm:"not null" json:"unit_price"`
	Quantity  int64  `gorm:"not null" json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderFilter represents filter criteria for order queries
type OrderFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	OrderNumber   *string
	CustomerID    *uint
	Status        *OrderStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// OrderDailyStat is one row of the admin stats aggregation.
type OrderDailyStat struct {
	Day       string `json:"day"`
	Count     int64  `json:"count"`
	Revenue   uint64 `json:"revenue"`
	Canceled  int64  `json:"canceled"`
	Delivered int64  `json:"delivered"`
}

func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCanceled
}
