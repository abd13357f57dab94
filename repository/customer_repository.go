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

// CustomerRepositoryImpl implements CustomerRepository interface
type CustomerRepositoryImpl struct {
	*BaseRepository[models.Customer, models.CustomerFilter]
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &CustomerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Customer, models.CustomerFilter](db),
	}
}

// ByPhone retrieves a customer by normalized phone number
func (r *CustomerRepositoryImpl) ByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	filter := models.CustomerFilter{Phone: &phone}
	customers, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by phone: %w", err)
	}

	if len(customers) == 0 {
		return nil, nil
	}

	return customers[0], nil
}

// ByEmail retrieves a customer by email address
func (r *CustomerRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Customer, error) {
	filter := models.CustomerFilter{Email: &email}
	customers, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}

	if len(customers) == 0 {
		return nil, nil
	}

	return customers[0], nil
}

// ByUUID retrieves a customer by UUID
func (r *CustomerRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Customer, error) {
	parsed, err := uuidlib.Parse(uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid customer uuid: %w", err)
	}

	db := r.getDB(ctx)

	var customer models.Customer
	err = db.Where("uuid = ?", parsed).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer by uuid: %w", err)
	}

	return &customer, nil
}

// UpdateProfile updates the editable profile fields of a customer
func (r *CustomerRepositoryImpl) UpdateProfile(ctx context.Context, customerID uint, firstName, lastName, address string, companyName *string) error {
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

	err = db.Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"first_name":   firstName,
			"last_name":    lastName,
			"address":      address,
			"company_name": companyName,
			"updated_at":   utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update customer profile: %w", err)
	}

	return nil
}

// UpdateLastLogin stamps the last successful login time
func (r *CustomerRepositoryImpl) UpdateLastLogin(ctx context.Context, customerID uint, at time.Time) error {
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

	err = db.Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"last_login_at": at,
			"updated_at":    utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *CustomerRepositoryImpl) applyFilter(query *gorm.DB, filter models.CustomerFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Phone != nil {
		query = query.Where("phone = ?", *filter.Phone)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.CompanyName != nil {
		query = query.Where("company_name = ?", *filter.CompanyName)
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
	if filter.LastLoginAfter != nil {
		query = query.Where("last_login_at > ?", *filter.LastLoginAfter)
	}
	return query
}

// ByFilter retrieves customers based on filter criteria
func (r *CustomerRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerFilter, orderBy string, limit, offset int) ([]*models.Customer, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Customer{}), filter)

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

	var customers []*models.Customer
	err := query.Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find customers by filter: %w", err)
	}

	return customers, nil
}

// Count returns the number of customers matching the filter
func (r *CustomerRepositoryImpl) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Customer{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return count, nil
}

// Exists checks if any customer matching the filter exists
func (r *CustomerRepositoryImpl) Exists(ctx context.Context, filter models.CustomerFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
