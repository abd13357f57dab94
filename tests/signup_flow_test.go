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
	"github.com/shirfam/shirfam-backend/utils"
)

// signupTestEnv wires a signup flow against the test database with a mock SMS
// service so tests can inspect and fail deliveries.
type signupTestEnv struct {
	flow             businessflow.SignupFlow
	mockSMS          *services.MockSMSService
	mockEmail        *services.MockEmailProvider
	customerRepo     repository.CustomerRepository
	verificationRepo repository.VerificationCodeRepository
	sessionRepo      repository.CustomerSessionRepository
}

func newSignupTestEnv(t *testing.T, testDB *testingutil.TestDB) *signupTestEnv {
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

	flow := businessflow.NewSignupFlow(
		customerRepo,
		verificationRepo,
		sessionRepo,
		auditRepo,
		tokenService,
		notificationService,
		&config.CacheConfig{},
		nil, // no redis in tests, cooldown checks are skipped
		testDB.DB,
	)

	return &signupTestEnv{
		flow:             flow,
		mockSMS:          mockSMS,
		mockEmail:        mockEmail,
		customerRepo:     customerRepo,
		verificationRepo: verificationRepo,
		sessionRepo:      sessionRepo,
	}
}

func signupRequest(phone string) *dto.SignupCodeRequest {
	return &dto.SignupCodeRequest{
		Phone:     phone,
		Email:     phone[1:] + "@example.com",
		FirstName: "Sara",
		LastName:  "Ahmadi",
		Address:   "12 Milk Street, Tehran",
	}
}

func TestSignupRequestCode(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newSignupTestEnv(t, testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("SuccessfulIssuance", func(t *testing.T) {
			phone := testingutil.RandomPhone()

			result, err := env.flow.RequestCode(ctx, signupRequest(phone), metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.CodeSent)
			assert.Contains(t, result.Target, "****")
			assert.Equal(t, utils.VerificationCodeExpirySeconds, result.ExpiresIn)

			record, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
			require.NoError(t, err)
			require.NotNil(t, record)
			assert.Len(t, record.Code, 4)
			assert.False(t, record.IsExpired())

			// The signup form is parked with the code
			assert.Equal(t, "Sara", record.FirstName)
			assert.Equal(t, "12 Milk Street, Tehran", record.Address)

			messages := env.mockSMS.GetSentMessages()
			require.Len(t, messages, 1)
			assert.Equal(t, phone, messages[0].Recipient)
			assert.Contains(t, messages[0].Message, record.Code)

			// The same plaintext code also goes out by email
			require.Len(t, env.mockEmail.SentEmails, 1)
			assert.Equal(t, phone[1:]+"@example.com", env.mockEmail.SentEmails[0].Recipient)
			assert.Contains(t, env.mockEmail.SentEmails[0].Message, record.Code)
		})

		t.Run("ReplacesPreviousPendingCode", func(t *testing.T) {
			env.mockSMS.ClearSentMessages()
			phone := testingutil.RandomPhone()

			_, err := env.flow.RequestCode(ctx, signupRequest(phone), metadata)
			require.NoError(t, err)
			first, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
			require.NoError(t, err)
			require.NotNil(t, first)

			_, err = env.flow.RequestCode(ctx, signupRequest(phone), metadata)
			require.NoError(t, err)

			count, err := env.verificationRepo.Count(ctx, models.VerificationCodeFilter{Phone: &phone})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			second, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
			require.NoError(t, err)
			require.NotNil(t, second)
			if first.Code != second.Code {
				// The replaced code no longer verifies
				_, err = env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: phone, Code: first.Code}, metadata)
				require.Error(t, err)
				assert.True(t, businessflow.IsCodeMismatch(err))
			}
		})

		t.Run("RejectsExistingPhone", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = env.flow.RequestCode(ctx, signupRequest(customer.Phone), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPhoneAlreadyExists(err))
		})

		t.Run("RejectsExistingEmail", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			req := signupRequest(testingutil.RandomPhone())
			req.Email = customer.Email

			_, err = env.flow.RequestCode(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		t.Run("DeliveryFailureKeepsNothing", func(t *testing.T) {
			phone := testingutil.RandomPhone()
			env.mockSMS.FailNext = true

			_, err := env.flow.RequestCode(ctx, signupRequest(phone), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNotificationDeliveryFailed(err))

			// The code insert rolled back with the failed delivery
			record, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
			require.NoError(t, err)
			assert.Nil(t, record)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSignupVerifyCode(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		env := newSignupTestEnv(t, testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("SuccessfulVerification", func(t *testing.T) {
			phone := testingutil.RandomPhone()
			_, err := env.flow.RequestCode(ctx, signupRequest(phone), metadata)
			require.NoError(t, err)

			record, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
			require.NoError(t, err)
			require.NotNil(t, record)

			result, err := env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: phone, Code: record.Code}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, result.Token)
			assert.NotEmpty(t, result.RefreshToken)
			assert.Equal(t, phone, result.Customer.Phone)

			// Account exists and is active
			customer, err := env.customerRepo.ByPhone(ctx, phone)
			require.NoError(t, err)
			require.NotNil(t, customer)
			assert.True(t, utils.IsTrue(customer.IsActive))
			assert.NotNil(t, customer.LastLoginAt)

			// A session was opened for the new account
			session, err := env.sessionRepo.BySessionToken(ctx, result.Token)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.Equal(t, customer.ID, session.CustomerID)
		})

		t.Run("CodeIsSingleUse", func(t *testing.T) {
			phone := testingutil.RandomPhone()
			_, err := env.flow.RequestCode(ctx, signupRequest(phone), metadata)
			require.NoError(t, err)

			record, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
			require.NoError(t, err)

			_, err = env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: phone, Code: record.Code}, metadata)
			require.NoError(t, err)

			// The code was consumed, a replay finds nothing
			_, err = env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: phone, Code: record.Code}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsVerificationNotFound(err))
		})

		t.Run("MismatchedCodeStaysPending", func(t *testing.T) {
			phone := testingutil.RandomPhone()
			_, err := env.flow.RequestCode(ctx, signupRequest(phone), metadata)
			require.NoError(t, err)

			_, err = env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: phone, Code: "0000"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCodeMismatch(err))

			// The customer may retry with the right code
			record, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
			require.NoError(t, err)
			require.NotNil(t, record)

			_, err = env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: phone, Code: record.Code}, metadata)
			require.NoError(t, err)
		})

		t.Run("ExpiredCodeIsDiscardedOnSight", func(t *testing.T) {
			phone := testingutil.RandomPhone()
			_, err := fixtures.CreateExpiredVerificationCode(phone, models.VerificationPurposeSignup, "1234")
			require.NoError(t, err)

			_, err = env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: phone, Code: "1234"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCodeExpired(err))

			// The deletion survives the failed verification
			record, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
			require.NoError(t, err)
			assert.Nil(t, record)

			// No account was created
			customer, err := env.customerRepo.ByPhone(ctx, phone)
			require.NoError(t, err)
			assert.Nil(t, customer)
		})

		t.Run("NoPendingCode", func(t *testing.T) {
			_, err := env.flow.VerifyCode(ctx, &dto.VerifyCodeRequest{Phone: testingutil.RandomPhone(), Code: "1234"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsVerificationNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSignupResendCode(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newSignupTestEnv(t, testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")
		ctx := context.Background()

		t.Run("ReplacesCodeKeepsForm", func(t *testing.T) {
			phone := testingutil.RandomPhone()
			req := signupRequest(phone)
			req.FirstName = "Niloofar"

			_, err := env.flow.RequestCode(ctx, req, metadata)
			require.NoError(t, err)

			before, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
			require.NoError(t, err)
			require.NotNil(t, before)

			_, err = env.flow.ResendCode(ctx, &dto.ResendCodeRequest{
				Phone:   phone,
				Purpose: models.VerificationPurposeSignup,
			}, metadata)
			require.NoError(t, err)

			after, err := env.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
			require.NoError(t, err)
			require.NotNil(t, after)
			assert.Equal(t, before.ID, after.ID)
			assert.True(t, after.ExpiresAt.After(before.ExpiresAt) || after.ExpiresAt.Equal(before.ExpiresAt))

			// The parked form rides along unchanged
			assert.Equal(t, "Niloofar", after.FirstName)

			// The fresh code went out by SMS
			messages := env.mockSMS.GetSentMessages()
			require.NotEmpty(t, messages)
			assert.Contains(t, messages[len(messages)-1].Message, after.Code)
		})

		t.Run("NothingPendingToResend", func(t *testing.T) {
			_, err := env.flow.ResendCode(ctx, &dto.ResendCodeRequest{
				Phone:   testingutil.RandomPhone(),
				Purpose: models.VerificationPurposeSignup,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsVerificationNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
