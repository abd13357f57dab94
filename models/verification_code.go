package models

import (
	"time"
)

// VerificationCode is a short-lived single-use code bound to a (phone, purpose)
// pair. The signup payload captured at issuance travels with the record and is
// returned on successful verification, where it becomes the source of truth for
// account creation.
type VerificationCode struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Phone   string `gorm:"size:15;not null;index:idx_verification_codes_pair,priority:1" json:"phone"`
	Purpose string `gorm:"size:16;not null;index:idx_verification_codes_pair,priority:2" json:"purpose"`
	Code    string `gorm:"size:4;not null" json:"-"` // Never serialize the code

	// Payload captured at issuance, carried through to account creation
	Email       string  `gorm:"size:255;not null" json:"email"`
	FirstName   string  `gorm:"size:255" json:"first_name"`
	LastName    string  `gorm:"size:255" json:"last_name"`
	CompanyName *string `gorm:"size:120" json:"company_name,omitempty"`
	Address     string  `gorm:"size:500" json:"address"`

	ExpiresAt time.Time `gorm:"not null;index:idx_verification_codes_expires_at" json:"expires_at"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

// Verification purpose constants
const (
	VerificationPurposeSignup = "signup"
	VerificationPurposeLogin  = "login"
)

// VerificationCodeFilter represents filter criteria for verification code queries
type VerificationCodeFilter struct {
	ID            *uint
	Phone         *string
	Purpose       *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
}

func (v *VerificationCode) IsExpired() bool {
	return time.Now().UTC().After(v.ExpiresAt)
}

func ValidVerificationPurpose(p string) bool {
	return p == VerificationPurposeSignup || p == VerificationPurposeLogin
}
