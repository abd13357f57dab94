package models

import (
	"time"
)

type AuditLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   *uint     `gorm:"index:idx_audit_customer_id" json:"customer_id,omitempty"`
	Customer     *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Action       string    `gorm:"size:64;not null;index:idx_audit_action" json:"action"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string   `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string   `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string   `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Success      *bool     `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionSignupCodeIssued   = "signup_code_issued"
	AuditActionSignupCodeResent   = "signup_code_resent"
	AuditActionSignupCompleted    = "signup_completed"
	AuditActionSignupFailed       = "signup_failed"
	AuditActionLoginCodeIssued    = "login_code_issued"
	AuditActionLoginCodeResent    = "login_code_resent"
	AuditActionLoginSuccessful    = "login_successful"
	AuditActionLoginFailed        = "login_failed"
	AuditActionLogout             = "logout"
	AuditActionSessionCreated     = "session_created"
	AuditActionCodeDeliveryFailed = "code_delivery_failed"
	AuditActionOrderPlaced        = "order_placed"
	AuditActionOrderCanceled      = "order_canceled"
	AuditActionOrderStatusChanged = "order_status_changed"
	AuditActionSettingsUpdated    = "settings_updated"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	CustomerID    *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
