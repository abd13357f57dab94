package tests

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
	"github.com/shirfam/shirfam-backend/config"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	testingutil "github.com/shirfam/shirfam-backend/testing"
	"github.com/shirfam/shirfam-backend/utils"
)

type orderTestEnv struct {
	flow        businessflow.OrderFlow
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	counterRepo repository.OrderCounterRepository
}

func newOrderTestEnv(testDB *testingutil.TestDB) *orderTestEnv {
	orderRepo := repository.NewOrderRepository(testDB.DB)
	counterRepo := repository.NewOrderCounterRepository(testDB.DB)
	productRepo := repository.NewProductRepository(testDB.DB)
	customerRepo := repository.NewCustomerRepository(testDB.DB)
	settingsRepo := repository.NewPlatformSettingsRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)

	flow := businessflow.NewOrderFlow(
		orderRepo,
		counterRepo,
		productRepo,
		customerRepo,
		settingsRepo,
		auditRepo,
		config.OrdersConfig{SiteCode: "SF"},
		testDB.DB,
	)

	return &orderTestEnv{
		flow:        flow,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		counterRepo: counterRepo,
	}
}

func orderOf(product *models.Product, quantity int64) *dto.PlaceOrderRequest {
	return &dto.PlaceOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductUUID: product.UUID.String(), Quantity: quantity},
		},
	}
}

func TestPlaceOrder(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newOrderTestEnv(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("SuccessfulPlacement", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Whole Milk 1L", 45000, 100)
			require.NoError(t, err)

			result, err := env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 3), metadata)
			require.NoError(t, err)
			require.NotNil(t, result)

			dayKey := utils.DayKey("SF", utils.UTCNow())
			assert.Equal(t, businessflow.OrderNumber(dayKey, 1), result.Order.OrderNumber)
			assert.Equal(t, string(models.OrderStatusPending), result.Order.Status)
			assert.Equal(t, uint64(3*45000), result.Order.TotalAmount)
			assert.Equal(t, customer.Address, result.Order.DeliveryAddress)
			require.Len(t, result.Order.Items, 1)
			assert.Equal(t, uint64(45000), result.Order.Items[0].UnitPrice)

			// Stock was reserved at placement
			reloaded, err := env.productRepo.ByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(97), reloaded.Stock)

			// The order is retrievable by its day-scoped number
			byNumber, err := env.orderRepo.ByOrderNumber(ctx, result.Order.OrderNumber)
			require.NoError(t, err)
			require.NotNil(t, byNumber)
			assert.Equal(t, customer.ID, byNumber.CustomerID)
		})

		t.Run("SequenceAdvancesPerOrder", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Yogurt 900g", 60000, 50)
			require.NoError(t, err)

			first, err := env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 1), metadata)
			require.NoError(t, err)
			second, err := env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 1), metadata)
			require.NoError(t, err)

			dayKey := utils.DayKey("SF", utils.UTCNow())
			counter, err := env.counterRepo.ByDayKey(ctx, dayKey)
			require.NoError(t, err)
			require.NotNil(t, counter)

			assert.Equal(t, businessflow.OrderNumber(dayKey, counter.Count-1), first.Order.OrderNumber)
			assert.Equal(t, businessflow.OrderNumber(dayKey, counter.Count), second.Order.OrderNumber)
			assert.NotEqual(t, first.Order.OrderNumber, second.Order.OrderNumber)
		})

		t.Run("OversellRollsBackEverything", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Butter 250g", 80000, 2)
			require.NoError(t, err)

			before, err := env.orderRepo.Count(ctx, models.OrderFilter{CustomerID: &customer.ID})
			require.NoError(t, err)

			_, err = env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 5), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInsufficientStock(err))

			// Neither the order nor the stock reservation was kept
			after, err := env.orderRepo.Count(ctx, models.OrderFilter{CustomerID: &customer.ID})
			require.NoError(t, err)
			assert.Equal(t, before, after)

			reloaded, err := env.productRepo.ByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), reloaded.Stock)
		})

		t.Run("InactiveProduct", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Cream 200g", 55000, 10)
			require.NoError(t, err)
			require.NoError(t, env.productRepo.Deactivate(ctx, product.ID))

			_, err = env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 1), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsProductInactive(err))
		})

		t.Run("UnknownProduct", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			req := &dto.PlaceOrderRequest{
				Items: []dto.OrderItemRequest{
					{ProductUUID: "00000000-0000-4000-8000-000000000000", Quantity: 1},
				},
			}
			_, err = env.flow.PlaceOrder(ctx, customer.ID, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsProductNotFound(err))
		})

		t.Run("InactiveCustomer", func(t *testing.T) {
			customer, err := fixtures.CreateInactiveCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Cheese 400g", 120000, 10)
			require.NoError(t, err)

			_, err = env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 1), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPlaceOrderPlatformRules(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newOrderTestEnv(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("OrderingDisabled", func(t *testing.T) {
			_, err := fixtures.InsertDefaultSettings(false, 0)
			require.NoError(t, err)

			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Whole Milk 1L", 45000, 100)
			require.NoError(t, err)

			_, err = env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 1), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsOrderingDisabled(err))
		})

		t.Run("BelowMinimumAmount", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := fixtures.InsertDefaultSettings(true, 200000)
			require.NoError(t, err)

			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Whole Milk 1L", 45000, 100)
			require.NoError(t, err)

			_, err = env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 2), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsOrderBelowMinimum(err))

			// The stock reservation rolled back with the order
			reloaded, err := env.productRepo.ByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(100), reloaded.Stock)

			// Enough lines clear the minimum
			result, err := env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 5), metadata)
			require.NoError(t, err)
			assert.Equal(t, uint64(5*45000), result.Order.TotalAmount)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListAndGetOrders(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newOrderTestEnv(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		customer, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)
		product, err := fixtures.CreateTestProduct("Whole Milk 1L", 45000, 100)
		require.NoError(t, err)

		var placed []*dto.PlaceOrderResponse
		for i := 0; i < 3; i++ {
			result, err := env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 1), metadata)
			require.NoError(t, err)
			placed = append(placed, result)
		}

		t.Run("ListNewestFirst", func(t *testing.T) {
			result, err := env.flow.ListOrders(ctx, customer.ID, &dto.ListOrdersRequest{Page: 1, PageSize: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(3), result.Total)
			require.Len(t, result.Orders, 2)
			assert.Equal(t, placed[2].Order.OrderNumber, result.Orders[0].OrderNumber)
		})

		t.Run("ListDefaultsPagination", func(t *testing.T) {
			result, err := env.flow.ListOrders(ctx, customer.ID, &dto.ListOrdersRequest{})
			require.NoError(t, err)
			assert.Equal(t, 1, result.Page)
			assert.Equal(t, 20, result.PageSize)
			assert.Len(t, result.Orders, 3)
		})

		t.Run("GetOwnOrder", func(t *testing.T) {
			result, err := env.flow.GetOrder(ctx, customer.ID, placed[0].Order.UUID)
			require.NoError(t, err)
			assert.Equal(t, placed[0].Order.OrderNumber, result.OrderNumber)
		})

		t.Run("GetForeignOrderDenied", func(t *testing.T) {
			other, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = env.flow.GetOrder(ctx, other.ID, placed[0].Order.UUID)
			require.Error(t, err)
			assert.True(t, businessflow.IsOrderAccessDenied(err))
		})

		t.Run("GetUnknownOrder", func(t *testing.T) {
			_, err := env.flow.GetOrder(ctx, customer.ID, "00000000-0000-4000-8000-000000000000")
			require.Error(t, err)
			assert.True(t, businessflow.IsOrderNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCancelOrder(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newOrderTestEnv(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("CancelReturnsStock", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Whole Milk 1L", 45000, 10)
			require.NoError(t, err)

			placed, err := env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 4), metadata)
			require.NoError(t, err)

			reserved, err := env.productRepo.ByID(ctx, product.ID)
			require.NoError(t, err)
			require.Equal(t, int64(6), reserved.Stock)

			result, err := env.flow.CancelOrder(ctx, customer.ID, placed.Order.UUID, metadata)
			require.NoError(t, err)
			assert.Equal(t, string(models.OrderStatusCanceled), result.Status)
			assert.NotNil(t, result.CanceledAt)

			restocked, err := env.productRepo.ByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(10), restocked.Stock)
		})

		t.Run("ConfirmedOrderNotCancelable", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Cream 200g", 55000, 10)
			require.NoError(t, err)

			placed, err := env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 2), metadata)
			require.NoError(t, err)

			order, err := env.orderRepo.ByUUID(ctx, placed.Order.UUID)
			require.NoError(t, err)
			require.NoError(t, env.orderRepo.UpdateStatus(ctx, order.ID, models.OrderStatusConfirmed, utils.UTCNow()))

			// Once the back office accepts an order, the customer can no
			// longer cancel it themselves
			_, err = env.flow.CancelOrder(ctx, customer.ID, placed.Order.UUID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsOrderNotCancelable(err))

			reserved, err := env.productRepo.ByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(8), reserved.Stock)
		})

		t.Run("ShippedOrderNotCancelable", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Yogurt 900g", 60000, 10)
			require.NoError(t, err)

			placed, err := env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 1), metadata)
			require.NoError(t, err)

			order, err := env.orderRepo.ByUUID(ctx, placed.Order.UUID)
			require.NoError(t, err)
			require.NoError(t, env.orderRepo.UpdateStatus(ctx, order.ID, models.OrderStatusConfirmed, utils.UTCNow()))
			require.NoError(t, env.orderRepo.UpdateStatus(ctx, order.ID, models.OrderStatusShipped, utils.UTCNow()))

			_, err = env.flow.CancelOrder(ctx, customer.ID, placed.Order.UUID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsOrderNotCancelable(err))
		})

		t.Run("ForeignOrderDenied", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			other, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct("Butter 250g", 80000, 10)
			require.NoError(t, err)

			placed, err := env.flow.PlaceOrder(ctx, customer.ID, orderOf(product, 1), metadata)
			require.NoError(t, err)

			_, err = env.flow.CancelOrder(ctx, other.ID, placed.Order.UUID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsOrderAccessDenied(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestOrderCounterConcurrency(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		counterRepo := repository.NewOrderCounterRepository(testDB.DB)
		ctx := context.Background()
		dayKey := utils.DayKey("SF", utils.UTCNow())

		const workers = 20
		results := make(chan int64, workers)
		errs := make(chan error, workers)

		for i := 0; i < workers; i++ {
			go func() {
				seq, err := counterRepo.NextInSequence(ctx, dayKey)
				if err != nil {
					errs <- err
					return
				}
				results <- seq
			}()
		}

		seen := make(map[int64]bool, workers)
		for i := 0; i < workers; i++ {
			select {
			case err := <-errs:
				t.Fatalf("counter increment failed: %v", err)
			case seq := <-results:
				assert.False(t, seen[seq], fmt.Sprintf("sequence value %d issued twice", seq))
				seen[seq] = true
			}
		}

		// All values within the day's window, none skipped
		for seq := int64(1); seq <= workers; seq++ {
			assert.True(t, seen[seq], fmt.Sprintf("sequence value %d missing", seq))
		}

		t.Run("IndependentDays", func(t *testing.T) {
			otherDay := utils.DayKey("SF", utils.UTCNow().AddDate(0, 0, 1))
			seq, err := counterRepo.NextInSequence(ctx, otherDay)
			require.NoError(t, err)
			assert.Equal(t, int64(1), seq)
		})

		return nil
	})
	require.NoError(t, err)
}
