// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/utils"
)

// VerificationCodeRepositoryImpl implements VerificationCodeRepository interface
type VerificationCodeRepositoryImpl struct {
	*BaseRepository[models.VerificationCode, models.VerificationCodeFilter]
}

// NewVerificationCodeRepository creates a new verification code repository
func NewVerificationCodeRepository(db *gorm.DB) VerificationCodeRepository {
	return &VerificationCodeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.VerificationCode, models.VerificationCodeFilter](db),
	}
}

// ByPair retrieves the pending code for a (phone, purpose) pair, nil when absent
func (r *VerificationCodeRepositoryImpl) ByPair(ctx context.Context, phone, purpose string) (*models.VerificationCode, error) {
	db := r.getDB(ctx)

	var code models.VerificationCode
	err := db.Where("phone = ? AND purpose = ?", phone, purpose).
		Order("id DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find verification code: %w", err)
	}

	return &code, nil
}

// ReplacePending deletes any prior code for the pair and inserts the new one,
// keeping at most one live code per (phone, purpose). Both statements run in
// the same transaction; under concurrent issues the last writer wins, which is
// acceptable because exactly one code stays live either way.
func (r *VerificationCodeRepositoryImpl) ReplacePending(ctx context.Context, code *models.VerificationCode) error {
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

	err = db.Where("phone = ? AND purpose = ?", code.Phone, code.Purpose).
		Delete(&models.VerificationCode{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete prior verification codes: %w", err)
	}

	if code.CreatedAt.IsZero() {
		code.CreatedAt = utils.UTCNow()
	}
	err = db.Create(code).Error
	if err != nil {
		return fmt.Errorf("failed to save verification code: %w", err)
	}

	return nil
}

// RefreshPending replaces the code and expiry of an existing pending record in
// place (resend path); the old code never matches afterwards.
func (r *VerificationCodeRepositoryImpl) RefreshPending(ctx context.Context, id uint, code string, expiresAt time.Time) error {
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

	result := db.Model(&models.VerificationCode{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"code":       code,
			"expires_at": expiresAt,
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to refresh verification code: %w", result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = fmt.Errorf("verification code %d no longer exists", id)
		return err
	}

	return nil
}

// DeletePending removes the code for a pair (consumption and lazy expiry)
func (r *VerificationCodeRepositoryImpl) DeletePending(ctx context.Context, phone, purpose string) error {
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

	err = db.Where("phone = ? AND purpose = ?", phone, purpose).
		Delete(&models.VerificationCode{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete verification code: %w", err)
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *VerificationCodeRepositoryImpl) applyFilter(query *gorm.DB, filter models.VerificationCodeFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Phone != nil {
		query = query.Where("phone = ?", *filter.Phone)
	}
	if filter.Purpose != nil {
		query = query.Where("purpose = ?", *filter.Purpose)
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
	return query
}

// Count returns the number of verification codes matching the filter
func (r *VerificationCodeRepositoryImpl) Count(ctx context.Context, filter models.VerificationCodeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.VerificationCode{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count verification codes: %w", err)
	}

	return count, nil
}
