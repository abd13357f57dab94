// Package businessflow contains the core business logic and use cases for platform configuration
package businessflow

import (
	"context"
	"time"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	"github.com/shirfam/shirfam-backend/utils"
)

// PlatformSettingsFlow exposes the single-row shop configuration
type PlatformSettingsFlow interface {
	GetSettings(ctx context.Context) (*dto.PlatformSettingsResponse, error)
	UpdateSettings(ctx context.Context, req *dto.UpdatePlatformSettingsRequest, metadata *ClientMetadata) (*dto.PlatformSettingsResponse, error)
}

// PlatformSettingsFlowImpl implements the platform settings flow
type PlatformSettingsFlowImpl struct {
	settingsRepo repository.PlatformSettingsRepository
	auditRepo    repository.AuditLogRepository
}

// NewPlatformSettingsFlow creates a new platform settings flow instance
func NewPlatformSettingsFlow(settingsRepo repository.PlatformSettingsRepository, auditRepo repository.AuditLogRepository) PlatformSettingsFlow {
	return &PlatformSettingsFlowImpl{
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
	}
}

// GetSettings returns the current settings, falling back to defaults when the
// row has never been written.
func (f *PlatformSettingsFlowImpl) GetSettings(ctx context.Context) (*dto.PlatformSettingsResponse, error) {
	settings, err := f.settingsRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("SETTINGS_FETCH_FAILED", "Failed to fetch settings", err)
	}
	if settings == nil {
		settings = &models.PlatformSettings{
			ShopName:        "Shirfam",
			OrderingEnabled: utils.ToPtr(true),
		}
	}

	return &dto.PlatformSettingsResponse{
		Message:  "Settings retrieved successfully",
		Settings: toPlatformSettingsDTO(settings),
	}, nil
}

// UpdateSettings writes the settings row and records an audit entry
func (f *PlatformSettingsFlowImpl) UpdateSettings(ctx context.Context, req *dto.UpdatePlatformSettingsRequest, metadata *ClientMetadata) (*dto.PlatformSettingsResponse, error) {
	settings := &models.PlatformSettings{
		ShopName:        req.ShopName,
		OrderingEnabled: req.OrderingEnabled,
		MinOrderAmount:  req.MinOrderAmount,
		DeliveryFee:     req.DeliveryFee,
		SupportPhone:    req.SupportPhone,
		UpdatedAt:       utils.UTCNow(),
	}

	if err := f.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, NewBusinessError("SETTINGS_UPDATE_FAILED", "Failed to update settings", err)
	}

	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionSettingsUpdated, "Platform settings updated", true, nil, metadata)

	return &dto.PlatformSettingsResponse{
		Message:  "Settings updated successfully",
		Settings: toPlatformSettingsDTO(settings),
	}, nil
}

func toPlatformSettingsDTO(settings *models.PlatformSettings) dto.PlatformSettingsDTO {
	return dto.PlatformSettingsDTO{
		ShopName:        settings.ShopName,
		OrderingEnabled: settings.OrderingEnabled,
		MinOrderAmount:  settings.MinOrderAmount,
		DeliveryFee:     settings.DeliveryFee,
		SupportPhone:    settings.SupportPhone,
		UpdatedAt:       settings.UpdatedAt.Format(time.RFC3339),
	}
}
