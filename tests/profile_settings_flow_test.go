package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
	"github.com/shirfam/shirfam-backend/repository"
	testingutil "github.com/shirfam/shirfam-backend/testing"
	"github.com/shirfam/shirfam-backend/utils"
)

func TestProfileFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		customerRepo := repository.NewCustomerRepository(testDB.DB)
		flow := businessflow.NewProfileFlow(customerRepo)
		ctx := context.Background()

		customer, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)

		t.Run("GetProfile", func(t *testing.T) {
			profile, err := flow.GetProfile(ctx, customer.ID)
			require.NoError(t, err)
			assert.Equal(t, customer.Phone, profile.Phone)
			assert.Equal(t, customer.Email, profile.Email)
		})

		t.Run("UpdateProfile", func(t *testing.T) {
			company := "Shirfam Dairy Co"
			updated, err := flow.UpdateProfile(ctx, customer.ID, &dto.UpdateProfileRequest{
				FirstName:   "Reza",
				LastName:    "Karimi",
				CompanyName: &company,
				Address:     "45 Dairy Road, Karaj",
			})
			require.NoError(t, err)
			assert.Equal(t, "Reza", updated.FirstName)
			assert.Equal(t, "45 Dairy Road, Karaj", updated.Address)
			require.NotNil(t, updated.CompanyName)
			assert.Equal(t, company, *updated.CompanyName)

			// Phone and email are not editable through the profile
			assert.Equal(t, customer.Phone, updated.Phone)
			assert.Equal(t, customer.Email, updated.Email)
		})

		t.Run("UnknownCustomer", func(t *testing.T) {
			_, err := flow.GetProfile(ctx, 999999)
			require.Error(t, err)
			assert.True(t, businessflow.IsCustomerNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPlatformSettingsFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		settingsRepo := repository.NewPlatformSettingsRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		flow := businessflow.NewPlatformSettingsFlow(settingsRepo, auditRepo)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("DefaultsWhenUnset", func(t *testing.T) {
			result, err := flow.GetSettings(ctx)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(result.Settings.OrderingEnabled))
		})

		t.Run("UpdateThenRead", func(t *testing.T) {
			_, err := flow.UpdateSettings(ctx, &dto.UpdatePlatformSettingsRequest{
				ShopName:        "Shirfam",
				OrderingEnabled: utils.ToPtr(false),
				MinOrderAmount:  150000,
				DeliveryFee:     25000,
				SupportPhone:    "+982144556677",
			}, metadata)
			require.NoError(t, err)

			result, err := flow.GetSettings(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Shirfam", result.Settings.ShopName)
			assert.False(t, utils.IsTrue(result.Settings.OrderingEnabled))
			assert.Equal(t, uint64(150000), result.Settings.MinOrderAmount)
			assert.Equal(t, uint64(25000), result.Settings.DeliveryFee)
		})

		t.Run("UpsertKeepsSingleRow", func(t *testing.T) {
			_, err := flow.UpdateSettings(ctx, &dto.UpdatePlatformSettingsRequest{
				ShopName:        "Shirfam Shop",
				OrderingEnabled: utils.ToPtr(true),
				MinOrderAmount:  100000,
			}, metadata)
			require.NoError(t, err)

			settings, err := settingsRepo.Get(ctx)
			require.NoError(t, err)
			require.NotNil(t, settings)
			assert.Equal(t, "Shirfam Shop", settings.ShopName)
		})

		return nil
	})
	require.NoError(t, err)
}
