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

// PlatformSettingsRepositoryImpl implements PlatformSettingsRepository interface
type PlatformSettingsRepositoryImpl struct {
	*BaseRepository[models.PlatformSettings, models.PlatformSettingsFilter]
}

// NewPlatformSettingsRepository creates a new platform settings repository
func NewPlatformSettingsRepository(db *gorm.DB) PlatformSettingsRepository {
	return &PlatformSettingsRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PlatformSettings, models.PlatformSettingsFilter](db),
	}
}

// Get returns the shop settings row, or nil when none has been saved yet.
func (r *PlatformSettingsRepositoryImpl) Get(ctx context.Context) (*models.PlatformSettings, error) {
	db := r.getDB(ctx)

	var settings models.PlatformSettings
	err := db.Order("id ASC").First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load platform settings: %w", err)
	}

	return &settings, nil
}

// Upsert creates the settings row on first save and updates it afterwards.
func (r *PlatformSettingsRepositoryImpl) Upsert(ctx context.Context, settings *models.PlatformSettings) error {
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

	var existing models.PlatformSettings
	err = db.Order("id ASC").First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load platform settings: %w", err)
		}
		err = db.Create(settings).Error
		if err != nil {
			return fmt.Errorf("failed to create platform settings: %w", err)
		}
		return nil
	}

	settings.ID = existing.ID
	settings.CreatedAt = existing.CreatedAt
	settings.UpdatedAt = utils.UTCNow()
	err = db.Model(&models.PlatformSettings{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"shop_name":        settings.ShopName,
			"ordering_enabled": settings.OrderingEnabled,
			"min_order_amount": settings.MinOrderAmount,
			"delivery_fee":     settings.DeliveryFee,
			"support_phone":    settings.SupportPhone,
			"updated_at":       settings.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update platform settings: %w", err)
	}

	return nil
}
