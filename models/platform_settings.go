package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/shirfam/shirfam-backend/utils"
)

// PlatformSettings is the single-row shop configuration edited from the admin
// back-office.
type PlatformSettings struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ShopName        string `gorm:"size:120;not null" json:"shop_name"`
	OrderingEnabled *bool  `gorm:"default:true" json:"ordering_enabled"`
	MinOrderAmount  uint64 `gorm:"not null;default:0" json:"min_order_amount"` // Toman
	DeliveryFee     uint64 `gorm:"not null;default:0" json:"delivery_fee"`     // Toman
	SupportPhone    string `gorm:"size:20" json:"support_phone"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PlatformSettings) TableName() string { return "platform_settings" }

// BeforeCreate ensures timestamps are set.
func (p *PlatformSettings) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// PlatformSettingsFilter represents filter criteria for settings queries.
type PlatformSettingsFilter struct {
	ID *uint
}
