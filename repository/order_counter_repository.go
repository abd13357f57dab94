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

// OrderCounterRepositoryImpl implements OrderCounterRepository interface
type OrderCounterRepositoryImpl struct {
	*BaseRepository[models.OrderCounter, struct{}]
}

// NewOrderCounterRepository creates a new order counter repository
func NewOrderCounterRepository(db *gorm.DB) OrderCounterRepository {
	return &OrderCounterRepositoryImpl{
		BaseRepository: NewBaseRepository[models.OrderCounter, struct{}](db),
	}
}

// NextInSequence hands out the next integer for dayKey. The upsert is a single
// statement, so two concurrent callers can never observe the same value; the
// row is created with count = 1 on the first issuance of a day.
func (r *OrderCounterRepositoryImpl) NextInSequence(ctx context.Context, dayKey string) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Raw(`
		INSERT INTO order_counters (day_key, count, updated_at)
		VALUES (?, 1, ?)
		ON CONFLICT (day_key)
		DO UPDATE SET count = order_counters.count + 1, updated_at = EXCLUDED.updated_at
		RETURNING count`,
		dayKey, utils.UTCNow(),
	).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter for day %s: %w", dayKey, err)
	}

	return count, nil
}

// ByDayKey retrieves the counter row for a day, nil when no issuance happened yet
func (r *OrderCounterRepositoryImpl) ByDayKey(ctx context.Context, dayKey string) (*models.OrderCounter, error) {
	db := r.getDB(ctx)

	var counter models.OrderCounter
	err := db.Where("day_key = ?", dayKey).First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find counter for day %s: %w", dayKey, err)
	}

	return &counter, nil
}
