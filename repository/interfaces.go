// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/shirfam/shirfam-backend/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CustomerRepository defines operations for customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByPhone(ctx context.Context, phone string) (*models.Customer, error)
	ByEmail(ctx context.Context, email string) (*models.Customer, error)
	ByUUID(ctx context.Context, uuid string) (*models.Customer, error)
	UpdateProfile(ctx context.Context, customerID uint, firstName, lastName, address string, companyName *string) error
	UpdateLastLogin(ctx context.Context, customerID uint, at time.Time) error
}

// VerificationCodeRepository manages the lifecycle of pending verification
// codes: at most one live record per (phone, purpose) pair.
type VerificationCodeRepository interface {
	ByPair(ctx context.Context, phone, purpose string) (*models.VerificationCode, error)
	ReplacePending(ctx context.Context, code *models.VerificationCode) error
	RefreshPending(ctx context.Context, id uint, code string, expiresAt time.Time) error
	DeletePending(ctx context.Context, phone, purpose string) error
	Count(ctx context.Context, filter models.VerificationCodeFilter) (int64, error)
}

// OrderCounterRepository issues per-day sequence values.
type OrderCounterRepository interface {
	// NextInSequence atomically increments (creating on first use) the counter
	// for dayKey and returns the new value. The increment is a single
	// statement against the store; no value is consumed if it fails.
	NextInSequence(ctx context.Context, dayKey string) (int64, error)
	ByDayKey(ctx context.Context, dayKey string) (*models.OrderCounter, error)
}

// CustomerSessionRepository defines operations for customer sessions
type CustomerSessionRepository interface {
	Repository[models.CustomerSession, models.CustomerSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.CustomerSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.CustomerSession, error)
	ListActiveSessionsByCustomer(ctx context.Context, customerID uint) ([]*models.CustomerSession, error)
	ExpireSession(ctx context.Context, sessionID uint) error
	ExpireAllCustomerSessions(ctx context.Context, customerID uint) error
}

// ProductRepository defines operations for the catalog
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Product, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Deactivate(ctx context.Context, productID uint) error
	AdjustStock(ctx context.Context, productID uint, delta int64) error
}

// OrderRepository defines operations for orders
type OrderRepository interface {
	Repository[models.Order, models.OrderFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Order, error)
	ByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus, at time.Time) error
	DailyStats(ctx context.Context, from, to time.Time) ([]*models.OrderDailyStat, error)
}

// AdminRepository defines operations for back-office admins
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error
}

// PlatformSettingsRepository defines operations for the single-row shop settings
type PlatformSettingsRepository interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
	Upsert(ctx context.Context, settings *models.PlatformSettings) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}
