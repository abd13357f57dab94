// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	uuidlib "github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/utils"
)

// ProductRepositoryImpl implements ProductRepository interface
type ProductRepositoryImpl struct {
	*BaseRepository[models.Product, models.ProductFilter]
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Product, models.ProductFilter](db),
	}
}

// ByUUID retrieves a product by UUID
func (r *ProductRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Product, error) {
	parsed, err := uuidlib.Parse(uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid product uuid: %w", err)
	}

	db := r.getDB(ctx)

	var product models.Product
	err = db.Where("uuid = ?", parsed).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by uuid: %w", err)
	}

	return &product, nil
}

// ListActive retrieves active products for the public catalog
func (r *ProductRepositoryImpl) ListActive(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	filter := models.ProductFilter{IsActive: utils.ToPtr(true)}
	return r.ByFilter(ctx, filter, "name ASC", limit, offset)
}

// Update persists the editable fields of a product
func (r *ProductRepositoryImpl) Update(ctx context.Context, product *models.Product) error {
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

	err = db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"unit":        product.Unit,
			"unit_price":  product.UnitPrice,
			"stock":       product.Stock,
			"image_path":  product.ImagePath,
			"is_active":   product.IsActive,
			"updated_at":  utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// Deactivate hides a product from the catalog without deleting order history
func (r *ProductRepositoryImpl) Deactivate(ctx context.Context, productID uint) error {
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

	err = db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	return nil
}

// AdjustStock moves stock by delta, refusing to go below zero. The guard and
// the update are one statement so concurrent orders cannot oversell.
func (r *ProductRepositoryImpl) AdjustStock(ctx context.Context, productID uint, delta int64) error {
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

	result := db.Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to adjust stock: %w", result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = fmt.Errorf("insufficient stock for product %d", productID)
		return err
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ProductRepositoryImpl) applyFilter(query *gorm.DB, filter models.ProductFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		query = query.Where("name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.Unit != nil {
		query = query.Where("unit = ?", *filter.Unit)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves products based on filter criteria
func (r *ProductRepositoryImpl) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Product{}), filter)

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

	var products []*models.Product
	err := query.Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products by filter: %w", err)
	}

	return products, nil
}

// Count returns the number of products matching the filter
func (r *ProductRepositoryImpl) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Product{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// Exists checks if any product matching the filter exists
func (r *ProductRepositoryImpl) Exists(ctx context.Context, filter models.ProductFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
