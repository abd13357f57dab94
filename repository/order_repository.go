// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuidlib "github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/utils"
)

// OrderRepositoryImpl implements OrderRepository interface
type OrderRepositoryImpl struct {
	*BaseRepository[models.Order, models.OrderFilter]
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Order, models.OrderFilter](db),
	}
}

// ByUUID retrieves an order by UUID, items and customer preloaded
func (r *OrderRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Order, error) {
	parsed, err := uuidlib.Parse(uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid order uuid: %w", err)
	}

	db := r.getDB(ctx)

	var order models.Order
	err = db.Preload("Items").Preload("Items.Product").Preload("Customer").
		Where("uuid = ?", parsed).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by uuid: %w", err)
	}

	return &order, nil
}

// ByOrderNumber retrieves an order by its human-readable number
func (r *OrderRepositoryImpl) ByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	db := r.getDB(ctx)

	var order models.Order
	err := db.Preload("Items").Preload("Items.Product").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by order number: %w", err)
	}

	return &order, nil
}

// ListByCustomer retrieves a customer's orders, newest first
func (r *OrderRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Order, error) {
	db := r.getDB(ctx)

	query := db.Preload("Items").Preload("Items.Product").
		Where("customer_id = ?", customerID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var orders []*models.Order
	err := query.Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by customer: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves an order to a new status, stamping the terminal
// timestamp when the new status is delivered or canceled.
func (r *OrderRepositoryImpl) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus, at time.Time) error {
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

	updates := map[string]any{
		"status":     status,
		"updated_at": utils.UTCNow(),
	}
	switch status {
	case models.OrderStatusDelivered:
		updates["delivered_at"] = at
	case models.OrderStatusCanceled:
		updates["canceled_at"] = at
	}

	result := db.Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		err = fmt.Errorf("failed to update order status: %w", result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = fmt.Errorf("order %d not found", orderID)
		return err
	}

	return nil
}

// DailyStats aggregates order counts and revenue per day over [from, to).
// Canceled orders are counted separately and excluded from revenue.
func (r *OrderRepositoryImpl) DailyStats(ctx context.Context, from, to time.Time) ([]*models.OrderDailyStat, error) {
	db := r.getDB(ctx)

	var stats []*models.OrderDailyStat
	err := db.Raw(`
		SELECT
			to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day,
			COUNT(*) AS count,
			COALESCE(SUM(total_amount) FILTER (WHERE status <> 'canceled'), 0) AS revenue,
			COUNT(*) FILTER (WHERE status = 'canceled') AS canceled,
			COUNT(*) FILTER (WHERE status = 'delivered') AS delivered
		FROM orders
		WHERE created_at >= ? AND created_at < ?
		GROUP BY 1
		ORDER BY 1 ASC`, from.UTC(), to.UTC()).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily order stats: %w", err)
	}

	return stats, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *OrderRepositoryImpl) applyFilter(query *gorm.DB, filter models.OrderFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.OrderNumber != nil {
		query = query.Where("order_number = ?", *filter.OrderNumber)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	// Date bounds form a half-open window [CreatedAfter, CreatedBefore)
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves orders based on filter criteria
func (r *OrderRepositoryImpl) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.Order, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Order{}), filter).
		Preload("Items").Preload("Customer")

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var orders []*models.Order
	err := query.Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orders by filter: %w", err)
	}

	return orders, nil
}

// Count returns the number of orders matching the filter
func (r *OrderRepositoryImpl) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Order{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

// Exists checks if any order matching the filter exists
func (r *OrderRepositoryImpl) Exists(ctx context.Context, filter models.OrderFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
