// Package businessflow contains the core business logic and use cases for ordering workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/config"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	"github.com/shirfam/shirfam-backend/utils"
)

// OrderFlow handles order placement and the customer's order history
type OrderFlow interface {
	PlaceOrder(ctx context.Context, customerID uint, req *dto.PlaceOrderRequest, metadata *ClientMetadata) (*dto.PlaceOrderResponse, error)
	ListOrders(ctx context.Context, customerID uint, req *dto.ListOrdersRequest) (*dto.ListOrdersResponse, error)
	GetOrder(ctx context.Context, customerID uint, orderUUID string) (*dto.OrderDTO, error)
	CancelOrder(ctx context.Context, customerID uint, orderUUID string, metadata *ClientMetadata) (*dto.OrderDTO, error)
}

// OrderFlowImpl implements the order business flow
type OrderFlowImpl struct {
	orderRepo    repository.OrderRepository
	counterRepo  repository.OrderCounterRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	settingsRepo repository.PlatformSettingsRepository
	auditRepo    repository.AuditLogRepository
	ordersConfig config.OrdersConfig
	db           *gorm.DB
}

// NewOrderFlow creates a new order flow instance
func NewOrderFlow(
	orderRepo repository.OrderRepository,
	counterRepo repository.OrderCounterRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	settingsRepo repository.PlatformSettingsRepository,
	auditRepo repository.AuditLogRepository,
	ordersConfig config.OrdersConfig,
	db *gorm.DB,
) OrderFlow {
	return &OrderFlowImpl{
		orderRepo:    orderRepo,
		counterRepo:  counterRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		ordersConfig: ordersConfig,
		db:           db,
	}
}

// PlaceOrder creates an order with a fresh per-day sequence number. The
// counter increment runs inside the order transaction: if anything after it
// fails the whole placement rolls back, and the next placement simply draws a
// higher value (gaps are acceptable, duplicates are not).
func (f *OrderFlowImpl) PlaceOrder(ctx context.Context, customerID uint, req *dto.PlaceOrderRequest, metadata *ClientMetadata) (*dto.PlaceOrderResponse, error) {
	customer, err := getCustomer(ctx, f.customerRepo, customerID)
	if err != nil {
		return nil, NewBusinessError("ORDER_VALIDATION_FAILED", "Order validation failed", err)
	}
	if !utils.IsTrue(customer.IsActive) {
		return nil, NewBusinessError("ORDER_VALIDATION_FAILED", "Order validation failed", ErrAccountInactive)
	}

	if len(req.Items) == 0 {
		return nil, NewBusinessError("ORDER_VALIDATION_FAILED", "Order validation failed", ErrOrderEmpty)
	}
	if len(req.Items) > utils.MaxOrderItems {
		return nil, NewBusinessError("ORDER_VALIDATION_FAILED", "Order validation failed", ErrTooManyOrderItems)
	}

	settings, err := f.settingsRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("ORDER_VALIDATION_FAILED", "Order validation failed", err)
	}
	if settings != nil && !utils.IsTrue(settings.OrderingEnabled) {
		return nil, NewBusinessError("ORDERING_DISABLED", "Ordering is currently disabled", ErrOrderingDisabled)
	}

	var order *models.Order

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		items, total, err := f.buildOrderItems(txCtx, req.Items)
		if err != nil {
			return err
		}

		if settings != nil && total < settings.MinOrderAmount {
			return ErrOrderBelowMinimum
		}

		dayKey := utils.DayKey(f.ordersConfig.SiteCode, utils.UTCNow())
		seq, err := f.counterRepo.NextInSequence(txCtx, dayKey)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}

		order = &models.Order{
			UUID:            uuid.New(),
			OrderNumber:     OrderNumber(dayKey, seq),
			CustomerID:      customer.ID,
			Status:          models.OrderStatusPending,
			DeliveryAddress: customer.Address,
			Note:            req.Note,
			TotalAmount:     total,
			Items:           items,
		}

		return f.orderRepo.Save(txCtx, order)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Order placement failed: %s", err.Error())
		_ = createAuditLog(ctx, f.auditRepo, customer, models.AuditActionOrderPlaced, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("ORDER_PLACEMENT_FAILED", "Order placement failed", err)
	}

	msg := fmt.Sprintf("Order placed: %s", order.OrderNumber)
	_ = createAuditLog(ctx, f.auditRepo, customer, models.AuditActionOrderPlaced, msg, true, nil, metadata)

	// Reload with product details for the response
	placed, err := f.orderRepo.ByUUID(ctx, order.UUID.String())
	if err != nil || placed == nil {
		placed = order
	}

	orderDTO := ToOrderDTO(*placed)
	return &dto.PlaceOrderResponse{
		Message: fmt.Sprintf("Order %s placed successfully", order.OrderNumber),
		Order:   orderDTO,
	}, nil
}

// ListOrders returns the customer's order history, newest first
func (f *OrderFlowImpl) ListOrders(ctx context.Context, customerID uint, req *dto.ListOrdersRequest) (*dto.ListOrdersResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("ORDER_LIST_FAILED", "Order listing failed", err)
	}

	orders, err := f.orderRepo.ListByCustomer(ctx, customerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("ORDER_LIST_FAILED", "Order listing failed", err)
	}

	total, err := f.orderRepo.Count(ctx, models.OrderFilter{CustomerID: &customerID})
	if err != nil {
		return nil, NewBusinessError("ORDER_LIST_FAILED", "Order listing failed", err)
	}

	dtos := make([]dto.OrderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, ToOrderDTO(*order))
	}

	return &dto.ListOrdersResponse{
		Orders:   dtos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetOrder returns one order, refusing access to other customers' orders
func (f *OrderFlowImpl) GetOrder(ctx context.Context, customerID uint, orderUUID string) (*dto.OrderDTO, error) {
	order, err := f.orderRepo.ByUUID(ctx, orderUUID)
	if err != nil {
		return nil, NewBusinessError("ORDER_LOOKUP_FAILED", "Order lookup failed", err)
	}
	if order == nil {
		return nil, NewBusinessError("ORDER_NOT_FOUND", "Order not found", ErrOrderNotFound)
	}
	if order.CustomerID != customerID {
		return nil, NewBusinessError("ORDER_ACCESS_DENIED", "Order access denied", ErrOrderAccessDenied)
	}

	orderDTO := ToOrderDTO(*order)
	return &orderDTO, nil
}

// CancelOrder cancels a still-pending order and returns its stock
func (f *OrderFlowImpl) CancelOrder(ctx context.Context, customerID uint, orderUUID string, metadata *ClientMetadata) (*dto.OrderDTO, error) {
	order, err := f.orderRepo.ByUUID(ctx, orderUUID)
	if err != nil {
		return nil, NewBusinessError("ORDER_CANCEL_FAILED", "Order cancellation failed", err)
	}
	if order == nil {
		return nil, NewBusinessError("ORDER_NOT_FOUND", "Order not found", ErrOrderNotFound)
	}
	if order.CustomerID != customerID {
		return nil, NewBusinessError("ORDER_ACCESS_DENIED", "Order access denied", ErrOrderAccessDenied)
	}
	// Customers may only cancel orders that have not been accepted yet; later
	// states are the back office's call
	if order.Status != models.OrderStatusPending {
		return nil, NewBusinessError("ORDER_CANCEL_FAILED", "Order cancellation failed", ErrOrderNotCancelable)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.orderRepo.UpdateStatus(txCtx, order.ID, models.OrderStatusCanceled, utils.UTCNow()); err != nil {
			return err
		}

		// Return reserved stock
		for _, item := range order.Items {
			if err := f.productRepo.AdjustStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, NewBusinessError("ORDER_CANCEL_FAILED", "Order cancellation failed", err)
	}

	customer, _ := f.customerRepo.ByID(ctx, customerID)
	msg := fmt.Sprintf("Order canceled: %s", order.OrderNumber)
	_ = createAuditLog(ctx, f.auditRepo, customer, models.AuditActionOrderCanceled, msg, true, nil, metadata)

	canceled, err := f.orderRepo.ByUUID(ctx, orderUUID)
	if err != nil || canceled == nil {
		canceled = order
		canceled.Status = models.OrderStatusCanceled
	}

	orderDTO := ToOrderDTO(*canceled)
	return &orderDTO, nil
}

// buildOrderItems resolves products, reserves stock and prices the order
func (f *OrderFlowImpl) buildOrderItems(ctx context.Context, reqItems []dto.OrderItemRequest) ([]models.OrderItem, uint64, error) {
	items := make([]models.OrderItem, 0, len(reqItems))
	var total uint64

	for _, reqItem := range reqItems {
		product, err := f.productRepo.ByUUID(ctx, reqItem.ProductUUID)
		if err != nil {
			return nil, 0, err
		}
		if product == nil {
			return nil, 0, ErrProductNotFound
		}
		if !utils.IsTrue(product.IsActive) {
			return nil, 0, ErrProductInactive
		}

		if err := f.productRepo.AdjustStock(ctx, product.ID, -reqItem.Quantity); err != nil {
			return nil, 0, ErrInsufficientStock
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			UnitPrice: product.UnitPrice,
			Quantity:  reqItem.Quantity,
		})
		total += product.UnitPrice * uint64(reqItem.Quantity)
	}

	return items, total, nil
}

// normalizePagination applies defaults and bounds to page parameters
func normalizePagination(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return 0, 0, ErrInvalidPageSize
	}
	return page, pageSize, nil
}
