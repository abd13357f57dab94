package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (86400 seconds = 24 hours)
	AccessTokenTTLSeconds = 86400

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour

	// VerificationCodeExpiry is the time-to-live for verification codes (30 minutes)
	VerificationCodeExpiry = 30 * time.Minute

	// VerificationCodeExpirySeconds is the time-to-live for verification codes in seconds
	VerificationCodeExpirySeconds = 1800

	// VerificationResendCooldown is the minimum gap between two code dispatches for one phone
	VerificationResendCooldown = 90 * time.Second
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Ordering constants
const (
	// DefaultSiteCode prefixes day keys and order numbers
	DefaultSiteCode = "SF"

	TomanCurrency = "TMN"

	// MaxOrderItems caps the number of lines per order
	MaxOrderItems = 50
)
