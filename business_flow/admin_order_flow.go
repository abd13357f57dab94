// Package businessflow contains the core business logic and use cases for ordering workflows
package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	"github.com/shirfam/shirfam-backend/utils"
)

// AdminOrderFlow is the back-office view over orders: listing with filters,
// status management, daily stats and spreadsheet export.
type AdminOrderFlow interface {
	ListOrders(ctx context.Context, req *dto.AdminListOrdersRequest) (*dto.AdminListOrdersResponse, error)
	UpdateOrderStatus(ctx context.Context, orderUUID string, req *dto.AdminUpdateOrderStatusRequest, metadata *ClientMetadata) (*dto.AdminOrderDTO, error)
	OrderStats(ctx context.Context, req *dto.AdminOrderStatsRequest) (*dto.AdminOrderStatsResponse, error)
	ExportOrdersExcel(ctx context.Context, req *dto.AdminListOrdersRequest) (string, []byte, error)
}

// AdminOrderFlowImpl implements the admin order flow
type AdminOrderFlowImpl struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewAdminOrderFlow creates a new admin order flow instance
func NewAdminOrderFlow(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) AdminOrderFlow {
	return &AdminOrderFlowImpl{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// ListOrders returns orders across all customers, newest first
func (f *AdminOrderFlowImpl) ListOrders(ctx context.Context, req *dto.AdminListOrdersRequest) (*dto.AdminListOrdersResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("ORDER_LIST_FAILED", "Order listing failed", err)
	}

	filter, empty, err := f.buildOrderFilter(ctx, req)
	if err != nil {
		return nil, NewBusinessError("ORDER_LIST_FAILED", "Order listing failed", err)
	}
	if empty {
		return &dto.AdminListOrdersResponse{
			Orders:   []dto.AdminOrderDTO{},
			Total:    0,
			Page:     page,
			PageSize: pageSize,
		}, nil
	}

	orders, err := f.orderRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("ORDER_LIST_FAILED", "Order listing failed", err)
	}

	total, err := f.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("ORDER_LIST_FAILED", "Order listing failed", err)
	}

	dtos := make([]dto.AdminOrderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, ToAdminOrderDTO(*order))
	}

	return &dto.AdminListOrdersResponse{
		Orders:   dtos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Canceling returns the
// reserved stock in the same transaction as the status change.
func (f *AdminOrderFlowImpl) UpdateOrderStatus(ctx context.Context, orderUUID string, req *dto.AdminUpdateOrderStatusRequest, metadata *ClientMetadata) (*dto.AdminOrderDTO, error) {
	next := models.OrderStatus(req.Status)
	if !next.Valid() {
		return nil, NewBusinessError("ORDER_STATUS_UPDATE_FAILED", "Order status update failed", ErrInvalidStatusTransition)
	}

	order, err := f.orderRepo.ByUUID(ctx, orderUUID)
	if err != nil {
		return nil, NewBusinessError("ORDER_STATUS_UPDATE_FAILED", "Order status update failed", err)
	}
	if order == nil {
		return nil, NewBusinessError("ORDER_NOT_FOUND", "Order not found", ErrOrderNotFound)
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, NewBusinessError("ORDER_STATUS_UPDATE_FAILED",
			fmt.Sprintf("Order cannot move from %s to %s", order.Status, next), ErrInvalidStatusTransition)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.orderRepo.UpdateStatus(txCtx, order.ID, next, utils.UTCNow()); err != nil {
			return err
		}

		if next == models.OrderStatusCanceled {
			for _, item := range order.Items {
				if err := f.productRepo.AdjustStock(txCtx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		return nil
	})

	if err != nil {
		return nil, NewBusinessError("ORDER_STATUS_UPDATE_FAILED", "Order status update failed", err)
	}

	customer, _ := f.customerRepo.ByID(ctx, order.CustomerID)
	msg := fmt.Sprintf("Order %s: %s -> %s", order.OrderNumber, order.Status, next)
	_ = createAuditLog(ctx, f.auditRepo, customer, models.AuditActionOrderStatusChanged, msg, true, nil, metadata)

	updated, err := f.orderRepo.ByUUID(ctx, orderUUID)
	if err != nil || updated == nil {
		updated = order
		updated.Status = next
	}

	adminDTO := ToAdminOrderDTO(*updated)
	return &adminDTO, nil
}

// OrderStats aggregates per-day order counts and revenue over an inclusive
// date range. Revenue excludes canceled orders.
func (f *AdminOrderFlowImpl) OrderStats(ctx context.Context, req *dto.AdminOrderStatsRequest) (*dto.AdminOrderStatsResponse, error) {
	from, err := parseStatDate(req.StartDate)
	if err != nil {
		return nil, NewBusinessError("ORDER_STATS_FAILED", "Invalid start date", err)
	}
	end, err := parseStatDate(req.EndDate)
	if err != nil {
		return nil, NewBusinessError("ORDER_STATS_FAILED", "Invalid end date", err)
	}
	if from.After(end) {
		return nil, NewBusinessError("ORDER_STATS_FAILED", "Start date is after end date", ErrStartDateAfterEndDate)
	}

	// End date is inclusive; the repository window is half-open.
	to := end.AddDate(0, 0, 1)

	stats, err := f.orderRepo.DailyStats(ctx, from, to)
	if err != nil {
		return nil, NewBusinessError("ORDER_STATS_FAILED", "Order stats aggregation failed", err)
	}

	resp := &dto.AdminOrderStatsResponse{
		Days: make([]dto.AdminOrderDailyStatDTO, 0, len(stats)),
	}
	for _, st := range stats {
		resp.Days = append(resp.Days, dto.AdminOrderDailyStatDTO{
			Day:       st.Day,
			Count:     st.Count,
			Revenue:   st.Revenue,
			Canceled:  st.Canceled,
			Delivered: st.Delivered,
		})
		resp.TotalOrders += st.Count
		resp.TotalRevenue += st.Revenue
		resp.TotalCanceled += st.Canceled
	}

	return resp, nil
}

// ExportOrdersExcel writes the filtered order list into a workbook and
// returns the filename plus the file contents.
func (f *AdminOrderFlowImpl) ExportOrdersExcel(ctx context.Context, req *dto.AdminListOrdersRequest) (string, []byte, error) {
	filter, empty, err := f.buildOrderFilter(ctx, req)
	if err != nil {
		return "", nil, NewBusinessError("ORDER_EXPORT_FAILED", "Order export failed", err)
	}

	var orders []*models.Order
	if !empty {
		orders, err = f.orderRepo.ByFilter(ctx, filter, "created_at ASC", 0, 0)
		if err != nil {
			return "", nil, NewBusinessError("ORDER_EXPORT_FAILED", "Order export failed", err)
		}
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "orders"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"order_number", "status", "customer_phone", "customer_name", "total_amount", "items", "delivery_address", "note", "created_at", "delivered_at", "canceled_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, order := range orders {
		note := ""
		if order.Note != nil {
			note = *order.Note
		}
		deliveredAt := ""
		if order.DeliveredAt != nil {
			deliveredAt = order.DeliveredAt.UTC().Format(time.RFC3339)
		}
		canceledAt := ""
		if order.CanceledAt != nil {
			canceledAt = order.CanceledAt.UTC().Format(time.RFC3339)
		}

		itemCount := int64(0)
		for _, item := range order.Items {
			itemCount += item.Quantity
		}

		record := []string{
			order.OrderNumber,
			string(order.Status),
			order.Customer.Phone,
			order.Customer.FirstName + " " + order.Customer.LastName,
			strconv.FormatUint(order.TotalAmount, 10),
			strconv.FormatInt(itemCount, 10),
			order.DeliveryAddress,
			note,
			order.CreatedAt.UTC().Format(time.RFC3339),
			deliveredAt,
			canceledAt,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("ORDER_EXPORT_FAILED", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("orders_%s.xlsx", utils.UTCNow().Format("20060102_150405"))
	return filename, buf.Bytes(), nil
}

// buildOrderFilter translates list-request parameters into a repository
// filter. The second return value is true when the phone filter matches no
// customer, meaning the result set is known to be empty.
func (f *AdminOrderFlowImpl) buildOrderFilter(ctx context.Context, req *dto.AdminListOrdersRequest) (models.OrderFilter, bool, error) {
	var filter models.OrderFilter

	if req.Status != nil && *req.Status != "" {
		status := models.OrderStatus(*req.Status)
		if !status.Valid() {
			return filter, false, fmt.Errorf("invalid order status: %s", *req.Status)
		}
		filter.Status = &status
	}

	if req.OrderNumber != nil && *req.OrderNumber != "" {
		filter.OrderNumber = req.OrderNumber
	}

	if req.Phone != nil && *req.Phone != "" {
		phone, err := utils.NormalizePhone(*req.Phone)
		if err != nil {
			return filter, false, err
		}
		customer, err := f.customerRepo.ByPhone(ctx, phone)
		if err != nil {
			return filter, false, err
		}
		if customer == nil {
			return filter, true, nil
		}
		filter.CustomerID = &customer.ID
	}

	if req.StartDate != nil && *req.StartDate != "" {
		from, err := parseStatDate(*req.StartDate)
		if err != nil {
			return filter, false, err
		}
		filter.CreatedAfter = &from
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := parseStatDate(*req.EndDate)
		if err != nil {
			return filter, false, err
		}
		to := end.AddDate(0, 0, 1)
		filter.CreatedBefore = &to
	}
	if filter.CreatedAfter != nil && filter.CreatedBefore != nil && filter.CreatedAfter.After(*filter.CreatedBefore) {
		return filter, false, ErrStartDateAfterEndDate
	}

	return filter, false, nil
}

// parseStatDate parses a YYYY-MM-DD date as midnight UTC
func parseStatDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}
