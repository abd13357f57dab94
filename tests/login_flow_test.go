package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/app/services"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
	"github.com/shirfam/shirfam-backend/config"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	testingutil "github.com/shirfam/shirfam-backend/testing"
)

type loginTestEnv struct {
	flow             businessflow.LoginFlow
	mockSMS          *services.MockSMSService
	mockEmail        *services.MockEmailProvider
	verificationRepo repository.VerificationCodeRepository
	sessionRepo      repository.CustomerSessionRepository
}

func newLoginTestEnv(t *testing.T, testDB *testingutil.TestDB) *loginTestEnv {
	customerRepo := repository.NewCustomerRepository(testDB.DB)
	verificationRepo := repository.NewVerificationCodeRepository(testDB.DB)
	sessionRepo := repository.NewCustomerSessionRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)

	tokenService, err := services.NewTokenService(
		1*time.Hour, 24*time.Hour, "test-issuer", "test-audience", false, "", "", "test-secret-key")
	require.NoError(t, err)

	mockSMS := services.NewMockSMSService()
	mockEmail := services.NewMockEmailProvider()
	notificationService := services.NewNotificationService(mockSMS, mockEmail)

	flow := businessflow.NewLoginFlow(
		customerRepo,
		verificationRepo,
		sessionRepo,
		auditRepo,
		tokenService,
		notificationService,
		&config.CacheConfig{},
		nil,
		testDB.DB,
	)

	return &loginTestEnv{
		flow:             flow,
		mockSMS:          mockSMS,
		mockEmail:        mockEmail,
		verificationRepo: verificationRepo,
		sessionRepo:      sessionRepo,
	}
}

// loginAs walks the full request-then-verify path for an existing customer.
func (env *loginTestEnv) loginAs(t *testing.T, ctx context.Context, phone string, metadata *businessflow.ClientMetadata) *dto.AuthResponse {
	_, err := env.flow.RequestCode(ctx, &dto.LoginCodeRequest{Phone: phone}, metadata)
	require.NoError(t, err)

	record, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeLogin)
	require.NoError(t, err)
	require.NotNil(t, record)

	result, err := env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: phone, Code: record.Code}, metadata)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestLoginRequestCode(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newLoginTestEnv(t, testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("IssuesCodeForExistingAccount", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			result, err := env.flow.RequestCode(ctx, &dto.LoginCodeRequest{Phone: customer.Phone}, metadata)
			require.NoError(t, err)
			assert.True(t, result.CodeSent)
			assert.Contains(t, result.Target, "****")

			record, err := env.verificationRepo.ByPair(ctx, customer.Phone, models.VerificationPurposeLogin)
			require.NoError(t, err)
			require.NotNil(t, record)
			assert.Len(t, record.Code, 4)

			messages := env.mockSMS.GetSentMessages()
			require.Len(t, messages, 1)
			assert.Equal(t, customer.Phone, messages[0].Recipient)

			// The code also goes out to the account's email address
			require.Len(t, env.mockEmail.SentEmails, 1)
			assert.Equal(t, customer.Email, env.mockEmail.SentEmails[0].Recipient)
			assert.Contains(t, env.mockEmail.SentEmails[0].Message, record.Code)
		})

		t.Run("UnknownPhone", func(t *testing.T) {
			_, err := env.flow.RequestCode(ctx, &dto.LoginCodeRequest{Phone: testingutil.RandomPhone()}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCustomerNotFound(err))
		})

		t.Run("InactiveAccount", func(t *testing.T) {
			customer, err := fixtures.CreateInactiveCustomer()
			require.NoError(t, err)

			_, err = env.flow.RequestCode(ctx, &dto.LoginCodeRequest{Phone: customer.Phone}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		t.Run("DeliveryFailureKeepsNothing", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			env.mockSMS.FailNext = true
			_, err = env.flow.RequestCode(ctx, &dto.LoginCodeRequest{Phone: customer.Phone}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNotificationDeliveryFailed(err))

			record, err := env.verificationRepo.ByPair(ctx, customer.Phone, models.VerificationPurposeLogin)
			require.NoError(t, err)
			assert.Nil(t, record)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLoginResendCode(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newLoginTestEnv(t, testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("RefreshesPendingCode", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = env.flow.RequestCode(ctx, &dto.LoginCodeRequest{Phone: customer.Phone}, metadata)
			require.NoError(t, err)

			before, err := env.verificationRepo.ByPair(ctx, customer.Phone, models.VerificationPurposeLogin)
			require.NoError(t, err)
			require.NotNil(t, before)

			result, err := env.flow.ResendCode(ctx, &dto.ResendCodeRequest{Phone: customer.Phone, Purpose: models.VerificationPurposeLogin}, metadata)
			require.NoError(t, err)
			assert.True(t, result.CodeSent)

			after, err := env.verificationRepo.ByPair(ctx, customer.Phone, models.VerificationPurposeLogin)
			require.NoError(t, err)
			require.NotNil(t, after)
			assert.Equal(t, before.ID, after.ID)
			assert.False(t, after.IsExpired())

			// The resent code goes out on both channels
			messages := env.mockSMS.GetSentMessages()
			require.Len(t, messages, 2)
			assert.Contains(t, messages[1].Message, after.Code)
			require.Len(t, env.mockEmail.SentEmails, 2)
			assert.Contains(t, env.mockEmail.SentEmails[1].Message, after.Code)

			// The refreshed code still verifies
			verified, err := env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: customer.Phone, Code: after.Code}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, verified.Token)
		})

		t.Run("NothingPendingToResend", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = env.flow.ResendCode(ctx, &dto.ResendCodeRequest{Phone: customer.Phone, Purpose: models.VerificationPurposeLogin}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsVerificationNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLoginVerifyCode(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newLoginTestEnv(t, testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("SuccessfulLogin", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			result := env.loginAs(t, ctx, customer.Phone, metadata)
			assert.NotEmpty(t, result.Token)
			assert.NotEmpty(t, result.RefreshToken)
			assert.Equal(t, customer.Phone, result.Customer.Phone)

			session, err := env.sessionRepo.BySessionToken(ctx, result.Token)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.Equal(t, customer.ID, session.CustomerID)

			// The login code was consumed
			record, err := env.verificationRepo.ByPair(ctx, customer.Phone, models.VerificationPurposeLogin)
			require.NoError(t, err)
			assert.Nil(t, record)
		})

		t.Run("MismatchedCode", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = env.flow.RequestCode(ctx, &dto.LoginCodeRequest{Phone: customer.Phone}, metadata)
			require.NoError(t, err)

			_, err = env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: customer.Phone, Code: "0000"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCodeMismatch(err))
		})

		t.Run("ExpiredCodeIsDiscarded", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = fixtures.CreateExpiredVerificationCode(customer.Phone, models.VerificationPurposeLogin, "4321")
			require.NoError(t, err)

			_, err = env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: customer.Phone, Code: "4321"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCodeExpired(err))

			record, err := env.verificationRepo.ByPair(ctx, customer.Phone, models.VerificationPurposeLogin)
			require.NoError(t, err)
			assert.Nil(t, record)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRefreshTokenAndLogout(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newLoginTestEnv(t, testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("RefreshRotatesSession", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			login := env.loginAs(t, ctx, customer.Phone, metadata)

			refreshed, err := env.flow.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken}, metadata)
			require.NoError(t, err)
			require.NotNil(t, refreshed)
			assert.NotEmpty(t, refreshed.Token)
			assert.NotEqual(t, login.Token, refreshed.Token)

			session, err := env.sessionRepo.BySessionToken(ctx, refreshed.Token)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.Equal(t, customer.ID, session.CustomerID)
		})

		t.Run("RefreshWithUnknownToken", func(t *testing.T) {
			_, err := env.flow.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "no-such-token"}, metadata)
			require.Error(t, err)
		})

		t.Run("LogoutClosesSession", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			login := env.loginAs(t, ctx, customer.Phone, metadata)

			err = env.flow.Logout(ctx, customer.ID, login.Token, metadata)
			require.NoError(t, err)

			sessions, err := env.sessionRepo.ListActiveSessionsByCustomer(ctx, customer.ID)
			require.NoError(t, err)
			for _, s := range sessions {
				assert.NotEqual(t, login.Token, s.SessionToken)
			}
		})

		return nil
	})
	require.NoError(t, err)
}
