// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// SignupCodeRequest carries the full signup form. The profile fields are held
// with the issued code and only become a customer account after verification.
type SignupCodeRequest struct {
	Phone       string  `json:"phone" validate:"required,phone_format"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	FirstName   string  `json:"first_name" validate:"required,max=255,alpha_space"`
	LastName    string  `json:"last_name" validate:"required,max=255,alpha_space"`
	CompanyName *string `json:"company_name,omitempty" validate:"omitempty,max=60"`
	Address     string  `json:"address" validate:"required,max=500"`
}

// LoginCodeRequest asks for a login code for an existing account
type LoginCodeRequest struct {
	Phone string `json:"phone" validate:"required,phone_format"`
}

// ResendCodeRequest asks for a fresh code for a pending verification
type ResendCodeRequest struct {
	Phone   string `json:"phone" validate:"required,phone_format"`
	Purpose string `json:"purpose" validate:"required,oneof=signup login"`
}

// CodeIssueResponse represents the response after a verification code is sent
type CodeIssueResponse struct {
	Message   string `json:"message"`
	CodeSent  bool   `json:"code_sent"`
	Target    string `json:"target"` // Phone number (masked for security)
	ExpiresIn int    `json:"expires_in"`
}

// VerifyCodeRequest carries the 4-digit code entered by the customer
type VerifyCodeRequest struct {
	Phone string `json:"phone" validate:"required,phone_format"`
	Code  string `json:"code" validate:"required,len=4,numeric"`
}

// AuthResponse represents the response after successful verification
type AuthResponse struct {
	Message      string      `json:"message"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	Customer     CustomerDTO `json:"customer"`
	Session      SessionDTO  `json:"session"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CustomerDTO represents customer data for API responses
type CustomerDTO struct {
	ID          uint       `json:"id"`
	UUID        string     `json:"uuid"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	CompanyName *string    `json:"company_name,omitempty"`
	Address     string     `json:"address"`
	IsActive    *bool      `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// SessionDTO represents session token data for API responses
type SessionDTO struct {
	SessionToken string `json:"session_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	CreatedAt    string `json:"created_at"`
}

// UpdateProfileRequest carries editable customer profile fields
type UpdateProfileRequest struct {
	FirstName   string  `json:"first_name" validate:"required,max=255,alpha_space"`
	LastName    string  `json:"last_name" validate:"required,max=255,alpha_space"`
	CompanyName *string `json:"company_name,omitempty" validate:"omitempty,max=60"`
	Address     string  `json:"address" validate:"required,max=500"`
}

// ErrorResponse represents API error responses
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"` // Field-specific validation errors
}

// SuccessResponse represents generic success responses
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
