package tests

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	testingutil "github.com/shirfam/shirfam-backend/testing"
	"github.com/shirfam/shirfam-backend/utils"
)

type adminOrderTestEnv struct {
	flow        businessflow.AdminOrderFlow
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func newAdminOrderTestEnv(testDB *testingutil.TestDB) *adminOrderTestEnv {
	orderRepo := repository.NewOrderRepository(testDB.DB)
	productRepo := repository.NewProductRepository(testDB.DB)
	customerRepo := repository.NewCustomerRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)

	flow := businessflow.NewAdminOrderFlow(orderRepo, productRepo, customerRepo, auditRepo, testDB.DB)

	return &adminOrderTestEnv{
		flow:        flow,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func TestAdminListOrders(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newAdminOrderTestEnv(testDB)
		ctx := context.Background()

		customerA, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)
		customerB, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)
		product, err := fixtures.CreateTestProduct("Whole Milk 1L", 45000, 100)
		require.NoError(t, err)

		dayKey := utils.DayKey("SF", utils.UTCNow())
		orderA, err := fixtures.CreateTestOrder(customerA, product, 2, businessflow.OrderNumber(dayKey, 1))
		require.NoError(t, err)
		orderB, err := fixtures.CreateTestOrder(customerB, product, 1, businessflow.OrderNumber(dayKey, 2))
		require.NoError(t, err)
		require.NoError(t, env.orderRepo.UpdateStatus(ctx, orderB.ID, models.OrderStatusConfirmed, utils.UTCNow()))

		t.Run("ListsAcrossCustomers", func(t *testing.T) {
			result, err := env.flow.ListOrders(ctx, &dto.AdminListOrdersRequest{})
			require.NoError(t, err)
			assert.Equal(t, int64(2), result.Total)
			require.Len(t, result.Orders, 2)
			assert.NotEmpty(t, result.Orders[0].CustomerPhone)
			assert.NotEmpty(t, result.Orders[0].CustomerName)
		})

		t.Run("FilterByStatus", func(t *testing.T) {
			status := string(models.OrderStatusConfirmed)
			result, err := env.flow.ListOrders(ctx, &dto.AdminListOrdersRequest{Status: &status})
			require.NoError(t, err)
			require.Len(t, result.Orders, 1)
			assert.Equal(t, orderB.OrderNumber, result.Orders[0].OrderNumber)
		})

		t.Run("FilterByPhone", func(t *testing.T) {
			result, err := env.flow.ListOrders(ctx, &dto.AdminListOrdersRequest{Phone: &customerA.Phone})
			require.NoError(t, err)
			require.Len(t, result.Orders, 1)
			assert.Equal(t, orderA.OrderNumber, result.Orders[0].OrderNumber)
		})

		t.Run("FilterByOrderNumber", func(t *testing.T) {
			result, err := env.flow.ListOrders(ctx, &dto.AdminListOrdersRequest{OrderNumber: &orderB.OrderNumber})
			require.NoError(t, err)
			require.Len(t, result.Orders, 1)
			assert.Equal(t, orderB.OrderNumber, result.Orders[0].OrderNumber)
			assert.Equal(t, customerB.Phone, result.Orders[0].CustomerPhone)
		})

		t.Run("FilterByUnknownPhone", func(t *testing.T) {
			unknown := testingutil.RandomPhone()
			result, err := env.flow.ListOrders(ctx, &dto.AdminListOrdersRequest{Phone: &unknown})
			require.NoError(t, err)
			assert.Equal(t, int64(0), result.Total)
			assert.Empty(t, result.Orders)
		})

		t.Run("InvalidDateRange", func(t *testing.T) {
			start := "2026-02-01"
			end := "2026-01-01"
			_, err := env.flow.ListOrders(ctx, &dto.AdminListOrdersRequest{StartDate: &start, EndDate: &end})
			require.Error(t, err)
			assert.True(t, businessflow.IsStartDateAfterEndDate(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newAdminOrderTestEnv(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		newOrder := func(t *testing.T, stock int64) (*models.Order, *models.Product) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Yogurt 900g", 60000, stock)
			require.NoError(t, err)
			dayKey := utils.DayKey("SF", utils.UTCNow())
			order, err := fixtures.CreateTestOrder(customer, product, 2, businessflow.OrderNumber(dayKey, 1))
			require.NoError(t, err)
			return order, product
		}

		t.Run("WalksTheLifecycle", func(t *testing.T) {
			order, _ := newOrder(t, 10)

			for _, next := range []string{"confirmed", "shipped", "delivered"} {
				result, err := env.flow.UpdateOrderStatus(ctx, order.UUID.String(),
					&dto.AdminUpdateOrderStatusRequest{Status: next}, metadata)
				require.NoError(t, err)
				assert.Equal(t, next, result.Status)
			}

			updated, err := env.orderRepo.ByUUID(ctx, order.UUID.String())
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusDelivered, updated.Status)
			assert.NotNil(t, updated.DeliveredAt)
			assert.True(t, updated.IsTerminal())
		})

		t.Run("RejectsSkippedStep", func(t *testing.T) {
			order, _ := newOrder(t, 10)

			_, err := env.flow.UpdateOrderStatus(ctx, order.UUID.String(),
				&dto.AdminUpdateOrderStatusRequest{Status: "delivered"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidStatusTransition(err))
		})

		t.Run("CancellationReturnsStock", func(t *testing.T) {
			order, product := newOrder(t, 10)

			result, err := env.flow.UpdateOrderStatus(ctx, order.UUID.String(),
				&dto.AdminUpdateOrderStatusRequest{Status: "canceled"}, metadata)
			require.NoError(t, err)
			assert.Equal(t, string(models.OrderStatusCanceled), result.Status)

			restocked, err := env.productRepo.ByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(12), restocked.Stock)
		})

		t.Run("UnknownOrder", func(t *testing.T) {
			_, err := env.flow.UpdateOrderStatus(ctx, "00000000-0000-4000-8000-000000000000",
				&dto.AdminUpdateOrderStatusRequest{Status: "confirmed"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsOrderNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminOrderStats(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newAdminOrderTestEnv(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		customer, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)
		product, err := fixtures.CreateTestProduct("Whole Milk 1L", 45000, 100)
		require.NoError(t, err)

		dayKey := utils.DayKey("SF", utils.UTCNow())
		_, err = fixtures.CreateTestOrder(customer, product, 2, businessflow.OrderNumber(dayKey, 1))
		require.NoError(t, err)
		canceled, err := fixtures.CreateTestOrder(customer, product, 1, businessflow.OrderNumber(dayKey, 2))
		require.NoError(t, err)
		_, err = env.flow.UpdateOrderStatus(ctx, canceled.UUID.String(),
			&dto.AdminUpdateOrderStatusRequest{Status: "canceled"}, metadata)
		require.NoError(t, err)

		today := utils.UTCNow().Format("2006-01-02")

		t.Run("AggregatesTheDay", func(t *testing.T) {
			result, err := env.flow.OrderStats(ctx, &dto.AdminOrderStatsRequest{StartDate: today, EndDate: today})
			require.NoError(t, err)
			assert.Equal(t, int64(2), result.TotalOrders)
			assert.Equal(t, int64(1), result.TotalCanceled)
			// Revenue excludes the canceled order
			assert.Equal(t, uint64(2*45000), result.TotalRevenue)
			require.Len(t, result.Days, 1)
			assert.Equal(t, today, result.Days[0].Day)
		})

		t.Run("InvertedRange", func(t *testing.T) {
			_, err := env.flow.OrderStats(ctx, &dto.AdminOrderStatsRequest{
				StartDate: "2026-02-01",
				EndDate:   "2026-01-01",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsStartDateAfterEndDate(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminExportOrders(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newAdminOrderTestEnv(testDB)
		ctx := context.Background()

		customer, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)
		product, err := fixtures.CreateTestProduct("Whole Milk 1L", 45000, 100)
		require.NoError(t, err)
		dayKey := utils.DayKey("SF", utils.UTCNow())
		_, err = fixtures.CreateTestOrder(customer, product, 2, businessflow.OrderNumber(dayKey, 1))
		require.NoError(t, err)

		filename, content, err := env.flow.ExportOrdersExcel(ctx, &dto.AdminListOrdersRequest{})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(filename, ".xlsx"))
		require.NotEmpty(t, content)

		// xlsx files are zip archives
		assert.True(t, bytes.HasPrefix(content, []byte("PK")))

		return nil
	})
	require.NoError(t, err)
}

func TestAdminLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		adminRepo := repository.NewAdminRepository(testDB.DB)
		ctx := context.Background()

		admin, err := fixtures.CreateTestAdmin("back-office", "s3cret-Password")
		require.NoError(t, err)

		t.Run("PasswordHashRoundTrip", func(t *testing.T) {
			stored, err := adminRepo.ByUsername(ctx, admin.Username)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.NoError(t, businessflow.CheckAdminPassword(stored.PasswordHash, "s3cret-Password"))
			assert.Error(t, businessflow.CheckAdminPassword(stored.PasswordHash, "wrong-password"))
		})

		t.Run("UnknownUsername", func(t *testing.T) {
			stored, err := adminRepo.ByUsername(ctx, "nobody")
			require.NoError(t, err)
			assert.Nil(t, stored)
		})

		return nil
	})
	require.NoError(t, err)
}
