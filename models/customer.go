// Package models contains domain entities and business models for the ordering system
package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_customers_uuid" json:"uuid"`

	// Phone is stored in the canonical +98XXXXXXXXXX form; every lookup must
	// normalize first.
	Phone string `gorm:"size:15;not null;uniqueIndex:uk_customers_phone" json:"phone"`
	Email string `gorm:"size:255;not null;uniqueIndex:uk_customers_email" json:"email"`

	FirstName   string  `gorm:"size:255;not null" json:"first_name"`
	LastName    string  `gorm:"size:255;not null" json:"last_name"`
	CompanyName *string `gorm:"size:120" json:"company_name,omitempty"`
	Address     string  `gorm:"size:500;not null" json:"address"`

	IsActive *bool `gorm:"default:true;index:idx_customers_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_customers_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_customers_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	Orders    []Order           `gorm:"foreignKey:CustomerID" json:"-"`
	Sessions  []CustomerSession `gorm:"foreignKey:CustomerID" json:"-"`
	AuditLogs []AuditLog        `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	Phone          *string
	Email          *string
	CompanyName    *string
	IsActive       *bool
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
	LastLoginAfter *time.Time
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

func (c *Customer) IsCompany() bool {
	return c.CompanyName != nil && *c.CompanyName != ""
}
