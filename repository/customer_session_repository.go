// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/utils"
)

// CustomerSessionRepositoryImpl implements CustomerSessionRepository interface
type CustomerSessionRepositoryImpl struct {
	*BaseRepository[models.CustomerSession, models.CustomerSessionFilter]
}

// NewCustomerSessionRepository creates a new customer session repository
func NewCustomerSessionRepository(db *gorm.DB) CustomerSessionRepository {
	return &CustomerSessionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CustomerSession, models.CustomerSessionFilter](db),
	}
}

// BySessionToken retrieves a session by its access token
func (r *CustomerSessionRepositoryImpl) BySessionToken(ctx context.Context, token string) (*models.CustomerSession, error) {
	db := r.getDB(ctx)

	var session models.CustomerSession
	err := db.Where("session_token = ?", token).Last(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}

	return &session, nil
}

// ByRefreshToken retrieves a session by its refresh token
func (r *CustomerSessionRepositoryImpl) ByRefreshToken(ctx context.Context, token string) (*models.CustomerSession, error) {
	db := r.getDB(ctx)

	var session models.CustomerSession
	err := db.Where("refresh_token = ?", token).Last(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by refresh token: %w", err)
	}

	return &session, nil
}

// ListActiveSessionsByCustomer retrieves all active, non-expired sessions for a customer
func (r *CustomerSessionRepositoryImpl) ListActiveSessionsByCustomer(ctx context.Context, customerID uint) ([]*models.CustomerSession, error) {
	db := r.getDB(ctx)

	var sessions []*models.CustomerSession
	err := db.Where("customer_id = ? AND is_active = ? AND expires_at > ?",
		customerID, true, utils.UTCNow()).
		Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}

	return sessions, nil
}

// ExpireSession marks a single session inactive
func (r *CustomerSessionRepositoryImpl) ExpireSession(ctx context.Context, sessionID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.CustomerSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"is_active":  false,
			"expires_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to expire session: %w", err)
	}

	return nil
}

// ExpireAllCustomerSessions marks every active session of a customer inactive
func (r *CustomerSessionRepositoryImpl) ExpireAllCustomerSessions(ctx context.Context, customerID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.CustomerSession{}).
		Where("customer_id = ? AND is_active = ?", customerID, true).
		Updates(map[string]any{
			"is_active":  false,
			"expires_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to expire customer sessions: %w", err)
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *CustomerSessionRepositoryImpl) applyFilter(query *gorm.DB, filter models.CustomerSessionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CorrelationID != nil {
		query = query.Where("correlation_id = ?", *filter.CorrelationID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IPAddress != nil {
		query = query.Where("ip_address = ?", *filter.IPAddress)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	if filter.ExpiresAfter != nil {
		query = query.Where("expires_at > ?", *filter.ExpiresAfter)
	}
	if filter.ExpiresBefore != nil {
		query = query.Where("expires_at < ?", *filter.ExpiresBefore)
	}
	if filter.IsExpired != nil && *filter.IsExpired {
		query = query.Where("expires_at <= ?", utils.UTCNow())
	}
	return query
}

// ByFilter retrieves sessions based on filter criteria
func (r *CustomerSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerSessionFilter, orderBy string, limit, offset int) ([]*models.CustomerSession, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CustomerSession{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var sessions []*models.CustomerSession
	err := query.Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions by filter: %w", err)
	}

	return sessions, nil
}

// Count returns the number of sessions matching the filter
func (r *CustomerSessionRepositoryImpl) Count(ctx context.Context, filter models.CustomerSessionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CustomerSession{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}

// Exists checks if any session matching the filter exists
func (r *CustomerSessionRepositoryImpl) Exists(ctx context.Context, filter models.CustomerSessionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
