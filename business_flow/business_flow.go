// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/app/services"
	"github.com/shirfam/shirfam-backend/config"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	DeviceInfo map[string]string `json:"device_info,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceInfo: make(map[string]string),
		Additional: make(map[string]string),
	}
}

// AddDeviceInfo adds device information to the metadata
func (cm *ClientMetadata) AddDeviceInfo(key, value string) {
	if cm.DeviceInfo == nil {
		cm.DeviceInfo = make(map[string]string)
	}
	cm.DeviceInfo[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// GenerateVerificationCode returns a uniformly distributed 4-digit code using crypto/rand
func GenerateVerificationCode() (string, error) {
	max := big.NewInt(9999)
	min := big.NewInt(1000)

	// rand.Int draws from [0, bound), so the bound is max-min+1 to keep 9999 reachable
	bound := new(big.Int).Add(new(big.Int).Sub(max, min), big.NewInt(1))
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%04d", new(big.Int).Add(n, min).Int64()), nil
}

// deliverVerificationCode sends the plaintext code to the customer by SMS and
// by email. It runs inside the issuing transaction, so a failed delivery on
// either channel rolls the pending code back.
func deliverVerificationCode(ctx context.Context, svc services.NotificationService, phone, email, message string) error {
	if err := svc.SendSMS(ctx, phone, message); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationDeliveryFailed, err)
	}
	if err := svc.SendEmail(ctx, email, "Shirfam verification code", message); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationDeliveryFailed, err)
	}
	return nil
}

// redisKey prefixes a cache key per the configured environment
func redisKey(cfg config.CacheConfig, key string) string {
	return fmt.Sprintf("%s:%s", cfg.KeyPrefix, key)
}

// getCustomer loads a customer by ID, mapping absence to ErrCustomerNotFound
func getCustomer(ctx context.Context, repo repository.CustomerRepository, customerID uint) (*models.Customer, error) {
	customer, err := repo.ByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// ToCustomerDTO converts a customer model to CustomerDTO for API responses
func ToCustomerDTO(customer models.Customer) dto.CustomerDTO {
	return dto.CustomerDTO{
		ID:          customer.ID,
		UUID:        customer.UUID.String(),
		Phone:       customer.Phone,
		Email:       customer.Email,
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		CompanyName: customer.CompanyName,
		Address:     customer.Address,
		IsActive:    customer.IsActive,
		CreatedAt:   customer.CreatedAt,
		LastLoginAt: customer.LastLoginAt,
	}
}

func ToSessionDTO(session models.CustomerSession) dto.SessionDTO {
	refreshToken := ""
	if session.RefreshToken != nil {
		refreshToken = *session.RefreshToken
	}
	return dto.SessionDTO{
		SessionToken: session.SessionToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(time.Until(session.ExpiresAt).Seconds()),
		TokenType:    "Bearer",
		CreatedAt:    session.CreatedAt.Format(time.RFC3339),
	}
}

// ToProductDTO converts a product model to ProductDTO for API responses
func ToProductDTO(product models.Product) dto.ProductDTO {
	return dto.ProductDTO{
		UUID:        product.UUID.String(),
		Name:        product.Name,
		Description: product.Description,
		Unit:        product.Unit,
		UnitPrice:   product.UnitPrice,
		Stock:       product.Stock,
		ImageURL:    product.ImagePath,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
	}
}

// ToOrderDTO converts an order model with preloaded items to OrderDTO
func ToOrderDTO(order models.Order) dto.OrderDTO {
	items := make([]dto.OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemDTO{
			ProductUUID: item.Product.UUID.String(),
			ProductName: item.Product.Name,
			Unit:        item.Product.Unit,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.UnitPrice * uint64(item.Quantity),
		})
	}

	return dto.OrderDTO{
		UUID:            order.UUID.String(),
		OrderNumber:     order.OrderNumber,
		Status:          string(order.Status),
		DeliveryAddress: order.DeliveryAddress,
		Note:            order.Note,
		TotalAmount:     order.TotalAmount,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		DeliveredAt:     order.DeliveredAt,
		CanceledAt:      order.CanceledAt,
	}
}

// ToAdminOrderDTO extends the customer order view with buyer identity
func ToAdminOrderDTO(order models.Order) dto.AdminOrderDTO {
	return dto.AdminOrderDTO{
		OrderDTO:      ToOrderDTO(order),
		CustomerPhone: order.Customer.Phone,
		CustomerName:  order.Customer.FullName(),
	}
}

// OrderNumber formats a human-readable order number from a day key and a
// sequence value, e.g. SF250901-007.
func OrderNumber(dayKey string, seq int64) string {
	return fmt.Sprintf("%s-%03d", dayKey, seq)
}
