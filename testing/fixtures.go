// Package testing provides test utilities and database setup for testing the ordering system
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// RandomPhone returns a unique canonical Iranian mobile number
func RandomPhone() string {
	return fmt.Sprintf("+989%09d", mrand.Intn(900000000)+100000000)
}

// CreateTestCustomer creates an active customer with a random phone and email
func (tf *TestFixtures) CreateTestCustomer() (*models.Customer, error) {
	phone := RandomPhone()

	customer := &models.Customer{
		UUID:      uuid.New(),
		Phone:     phone,
		Email:     fmt.Sprintf("customer.%s@example.com", phone[4:]),
		FirstName: "Sara",
		LastName:  "Ahmadi",
		Address:   "12 Milk Street, Tehran",
		IsActive:  utils.ToPtr(true),
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}

	return customer, nil
}

// CreateInactiveCustomer creates a customer that cannot log in or order
func (tf *TestFixtures) CreateInactiveCustomer() (*models.Customer, error) {
	customer, err := tf.CreateTestCustomer()
	if err != nil {
		return nil, err
	}

	customer.IsActive = utils.ToPtr(false)
	if err := tf.DB.DB.Save(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate test customer: %w", err)
	}

	return customer, nil
}

// CreateTestProduct creates an active catalog product
func (tf *TestFixtures) CreateTestProduct(name string, unitPrice uint64, stock int64) (*models.Product, error) {
	product := &models.Product{
		UUID:      uuid.New(),
		Name:      name,
		Unit:      models.ProductUnitBottle,
		UnitPrice: unitPrice,
		Stock:     stock,
		IsActive:  utils.ToPtr(true),
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}

	return product, nil
}

// CreateTestVerificationCode creates a pending code for a (phone, purpose) pair
func (tf *TestFixtures) CreateTestVerificationCode(phone, purpose, code string) (*models.VerificationCode, error) {
	record := &models.VerificationCode{
		Phone:     phone,
		Purpose:   purpose,
		Code:      code,
		Email:     fmt.Sprintf("pending.%s@example.com", phone[4:]),
		FirstName: "Sara",
		LastName:  "Ahmadi",
		Address:   "12 Milk Street, Tehran",
		ExpiresAt: utils.UTCNow().Add(30 * time.Minute),
		CreatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create test verification code: %w", err)
	}

	return record, nil
}

// CreateExpiredVerificationCode creates a code whose deadline has already passed
func (tf *TestFixtures) CreateExpiredVerificationCode(phone, purpose, code string) (*models.VerificationCode, error) {
	record, err := tf.CreateTestVerificationCode(phone, purpose, code)
	if err != nil {
		return nil, err
	}

	record.ExpiresAt = utils.UTCNow().Add(-1 * time.Hour)
	if err := tf.DB.DB.Save(record).Error; err != nil {
		return nil, fmt.Errorf("failed to expire test verification code: %w", err)
	}

	return record, nil
}

// GenerateSecureToken returns a random URL-safe token for session fixtures
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates an active customer session
func (tf *TestFixtures) CreateTestSession(customerID uint) (*models.CustomerSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.CustomerSession{
		CorrelationID: uuid.New(),
		CustomerID:    customerID,
		SessionToken:  sessionToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     utils.UTCNow().Add(24 * time.Hour),
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}

// CreateTestOrder creates an order with a single item for the given product
func (tf *TestFixtures) CreateTestOrder(customer *models.Customer, product *models.Product, quantity int64, orderNumber string) (*models.Order, error) {
	order := &models.Order{
		UUID:            uuid.New(),
		OrderNumber:     orderNumber,
		CustomerID:      customer.ID,
		Status:          models.OrderStatusPending,
		DeliveryAddress: customer.Address,
		TotalAmount:     product.UnitPrice * uint64(quantity),
		Items: []models.OrderItem{
			{
				ProductID: product.ID,
				UnitPrice: product.UnitPrice,
				Quantity:  quantity,
			},
		},
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create test order: %w", err)
	}

	return order, nil
}

// CreateTestAdmin creates an admin account with a bcrypt-hashed password
func (tf *TestFixtures) CreateTestAdmin(username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}

	return admin, nil
}

// InsertDefaultSettings seeds the platform settings row
func (tf *TestFixtures) InsertDefaultSettings(orderingEnabled bool, minOrderAmount uint64) (*models.PlatformSettings, error) {
	settings := &models.PlatformSettings{
		ShopName:        "Shirfam",
		OrderingEnabled: utils.ToPtr(orderingEnabled),
		MinOrderAmount:  minOrderAmount,
	}

	if err := tf.DB.DB.Create(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to insert platform settings: %w", err)
	}

	return settings, nil
}
