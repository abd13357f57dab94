package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_products_uuid" json:"uuid"`

	Name        string  `gorm:"size:120;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Unit        string  `gorm:"size:16;not null" json:"unit"`
	UnitPrice   uint64  `gorm:"not null" json:"unit_price"` // Toman per unit
	Stock       int64   `gorm:"not null;default:0" json:"stock"`
	ImagePath   *string `gorm:"size:500" json:"-"`

	IsActive *bool `gorm:"default:true;index:idx_products_is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Product unit constants
const (
	ProductUnitBottle = "bottle"
	ProductUnitPack   = "pack"
	ProductUnitKilo   = "kg"
)

func ValidProductUnit(u string) bool {
	switch u {
	case ProductUnitBottle, ProductUnitPack, ProductUnitKilo:
		return true
	default:
		return false
	}
}

// ProductFilter represents filter criteria for product queries
type ProductFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Name          *string
	Unit          *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
