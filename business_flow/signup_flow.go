// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/app/services"
	"github.com/shirfam/shirfam-backend/config"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	"github.com/shirfam/shirfam-backend/utils"
)

// SignupFlow handles the complete signup business logic. Accounts are only
// created after the phone number is proven: the signup form is parked with the
// verification code and becomes a customer on successful verification.
type SignupFlow interface {
	RequestCode(ctx context.Context, req *dto.SignupCodeRequest, metadata *ClientMetadata) (*dto.CodeIssueResponse, error)
	VerifyCode(ctx context.Context, req *dto.VerifyCodeRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	ResendCode(ctx context.Context, req *dto.ResendCodeRequest, metadata *ClientMetadata) (*dto.CodeIssueResponse, error)
}

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	customerRepo     repository.CustomerRepository
	verificationRepo repository.VerificationCodeRepository
	sessionRepo      repository.CustomerSessionRepository
	auditRepo        repository.AuditLogRepository
	tokenService     services.TokenService
	notificationSvc  services.NotificationService
	cacheConfig      *config.CacheConfig
	rc               *redis.Client
	db               *gorm.DB
}

// NewSignupFlow creates a new signup flow instance
func NewSignupFlow(
	customerRepo repository.CustomerRepository,
	verificationRepo repository.VerificationCodeRepository,
	sessionRepo repository.CustomerSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	notificationSvc services.NotificationService,
	cacheConfig *config.CacheConfig,
	rc *redis.Client,
	db *gorm.DB,
) SignupFlow {
	return &SignupFlowImpl{
		customerRepo:     customerRepo,
		verificationRepo: verificationRepo,
		sessionRepo:      sessionRepo,
		auditRepo:        auditRepo,
		tokenService:     tokenService,
		notificationSvc:  notificationSvc,
		cacheConfig:      cacheConfig,
		rc:               rc,
		db:               db,
	}
}

// RequestCode validates the signup form, issues a 4-digit code for the
// (phone, signup) pair and delivers it by SMS and email. The code insert and
// the dispatch share one transaction: if delivery fails nothing is kept, so a
// later verify cannot succeed against a code the customer never received.
func (s *SignupFlowImpl) RequestCode(ctx context.Context, req *dto.SignupCodeRequest, metadata *ClientMetadata) (*dto.CodeIssueResponse, error) {
	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		return nil, NewBusinessError("SIGNUP_VALIDATION_FAILED", "Signup validation failed", err)
	}

	if err := s.validateSignupRequest(ctx, phone, req.Email); err != nil {
		return nil, NewBusinessError("SIGNUP_VALIDATION_FAILED", "Signup validation failed", err)
	}

	if err := s.checkResendCooldown(ctx, phone, models.VerificationPurposeSignup); err != nil {
		return nil, NewBusinessError("SIGNUP_CODE_THROTTLED", "Code request throttled", err)
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, NewBusinessError("SIGNUP_CODE_GENERATION_FAILED", "Failed to generate verification code", err)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		record := &models.VerificationCode{
			Phone:       phone,
			Purpose:     models.VerificationPurposeSignup,
			Code:        code,
			Email:       req.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			CompanyName: req.CompanyName,
			Address:     req.Address,
			ExpiresAt:   utils.UTCNow().Add(utils.VerificationCodeExpiry),
		}

		// Replacing any previous pending code keeps at most one live code per pair
		if err := s.verificationRepo.ReplacePending(txCtx, record); err != nil {
			return err
		}

		message := fmt.Sprintf("Your Shirfam verification code is: %s", code)
		return deliverVerificationCode(txCtx, s.notificationSvc, phone, req.Email, message)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Signup code issuance failed: %s", err.Error())
		_ = s.createAuditLog(ctx, nil, models.AuditActionCodeDeliveryFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("SIGNUP_CODE_FAILED", "Signup code could not be sent", err)
	}

	msg := fmt.Sprintf("Signup code issued for %s", utils.MaskPhone(phone))
	_ = s.createAuditLog(ctx, nil, models.AuditActionSignupCodeIssued, msg, true, nil, metadata)
	s.markResendCooldown(ctx, phone, models.VerificationPurposeSignup)

	return &dto.CodeIssueResponse{
		Message:   "Verification code sent to your phone number.",
		CodeSent:  true,
		Target:    utils.MaskPhone(phone),
		ExpiresIn: utils.VerificationCodeExpirySeconds,
	}, nil
}

// VerifyCode checks the submitted code and, on success, creates the customer
// account from the parked signup form and opens a session. A matching code is
// consumed; an expired one is discarded on sight; a mismatching one stays so
// the customer may retry.
func (s *SignupFlowImpl) VerifyCode(ctx context.Context, req *dto.VerifyCodeRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		return nil, NewBusinessError("SIGNUP_VERIFICATION_FAILED", "Signup verification failed", err)
	}

	record, err := s.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
	if err != nil {
		return nil, NewBusinessError("SIGNUP_VERIFICATION_FAILED", "Signup verification failed", err)
	}
	if record == nil {
		return nil, NewBusinessError("SIGNUP_VERIFICATION_FAILED", "Signup verification failed", ErrVerificationNotFound)
	}

	if record.IsExpired() {
		// Expired codes are deleted when touched; the deletion must survive
		// the failed verification, so it runs outside the success transaction
		_ = s.verificationRepo.DeletePending(ctx, phone, models.VerificationPurposeSignup)
		return nil, NewBusinessError("SIGNUP_CODE_EXPIRED", "Verification code expired", ErrCodeExpired)
	}

	if record.Code != req.Code {
		errMsg := fmt.Sprintf("Signup verification failed for %s: code mismatch", utils.MaskPhone(phone))
		_ = s.createAuditLog(ctx, nil, models.AuditActionSignupFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("SIGNUP_CODE_MISMATCH", "Verification code does not match", ErrCodeMismatch)
	}

	var customer *models.Customer
	var tokens struct {
		access  string
		refresh string
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		// Consume the code first so it is single-use
		if err := s.verificationRepo.DeletePending(txCtx, phone, models.VerificationPurposeSignup); err != nil {
			return err
		}

		var err error
		customer, err = s.createCustomer(txCtx, record)
		if err != nil {
			return err
		}

		tokens.access, tokens.refresh, err = s.tokenService.GenerateTokens(customer.ID)
		if err != nil {
			return err
		}

		if err := createSession(txCtx, s.sessionRepo, customer.ID, tokens.access, tokens.refresh, metadata); err != nil {
			return err
		}

		return s.customerRepo.UpdateLastLogin(txCtx, customer.ID, utils.UTCNow())
	})

	if err != nil {
		errMsg := fmt.Sprintf("Signup completion failed: %s", err.Error())
		_ = s.createAuditLog(ctx, customer, models.AuditActionSignupFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	msg := fmt.Sprintf("Signup completed successfully: %d", customer.ID)
	_ = s.createAuditLog(ctx, customer, models.AuditActionSignupCompleted, msg, true, nil, metadata)

	session := models.CustomerSession{
		SessionToken: tokens.access,
		RefreshToken: &tokens.refresh,
		CreatedAt:    utils.UTCNow(),
		ExpiresAt:    utils.UTCNow().Add(utils.SessionTimeout),
	}

	return &dto.AuthResponse{
		Message:      "Signup completed successfully!",
		Token:        tokens.access,
		RefreshToken: tokens.refresh,
		Customer:     ToCustomerDTO(*customer),
		Session:      ToSessionDTO(session),
	}, nil
}

// ResendCode replaces the pending code for the pair with a fresh one and a
// fresh expiry, keeping the parked signup form intact.
func (s *SignupFlowImpl) ResendCode(ctx context.Context, req *dto.ResendCodeRequest, metadata *ClientMetadata) (*dto.CodeIssueResponse, error) {
	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		return nil, NewBusinessError("SIGNUP_RESEND_FAILED", "Resend code failed", err)
	}

	record, err := s.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeSignup)
	if err != nil {
		return nil, NewBusinessError("SIGNUP_RESEND_FAILED", "Resend code failed", err)
	}
	if record == nil {
		return nil, NewBusinessError("SIGNUP_RESEND_FAILED", "Resend code failed", ErrVerificationNotFound)
	}

	if err := s.checkResendCooldown(ctx, phone, models.VerificationPurposeSignup); err != nil {
		return nil, NewBusinessError("SIGNUP_CODE_THROTTLED", "Code request throttled", err)
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, NewBusinessError("SIGNUP_CODE_GENERATION_FAILED", "Failed to generate verification code", err)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.verificationRepo.RefreshPending(txCtx, record.ID, code, utils.UTCNow().Add(utils.VerificationCodeExpiry)); err != nil {
			return err
		}

		message := fmt.Sprintf("Your Shirfam verification code is: %s", code)
		return deliverVerificationCode(txCtx, s.notificationSvc, phone, record.Email, message)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Signup code resend failed: %s", err.Error())
		_ = s.createAuditLog(ctx, nil, models.AuditActionCodeDeliveryFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("SIGNUP_RESEND_FAILED", "Resend code failed", err)
	}

	msg := fmt.Sprintf("Signup code resent for %s", utils.MaskPhone(phone))
	_ = s.createAuditLog(ctx, nil, models.AuditActionSignupCodeResent, msg, true, nil, metadata)
	s.markResendCooldown(ctx, phone, models.VerificationPurposeSignup)

	return &dto.CodeIssueResponse{
		Message:   "Verification code resent to your phone number.",
		CodeSent:  true,
		Target:    utils.MaskPhone(phone),
		ExpiresIn: utils.VerificationCodeExpirySeconds,
	}, nil
}

// Private helper methods

func (s *SignupFlowImpl) validateSignupRequest(ctx context.Context, phone, email string) error {
	existingCustomer, err := s.customerRepo.ByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if existingCustomer != nil {
		return ErrPhoneAlreadyExists
	}

	existingCustomer, err = s.customerRepo.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existingCustomer != nil {
		return ErrEmailAlreadyExists
	}

	return nil
}

func (s *SignupFlowImpl) createCustomer(ctx context.Context, record *models.VerificationCode) (*models.Customer, error) {
	customer := &models.Customer{
		UUID:        uuid.New(),
		Phone:       record.Phone,
		Email:       record.Email,
		FirstName:   record.FirstName,
		LastName:    record.LastName,
		CompanyName: record.CompanyName,
		Address:     record.Address,
		IsActive:    utils.ToPtr(true),
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

func (s *SignupFlowImpl) checkResendCooldown(ctx context.Context, phone, purpose string) error {
	if s.rc == nil {
		return nil
	}

	key := redisKey(*s.cacheConfig, fmt.Sprintf("verification_cooldown:%s:%s", purpose, phone))
	_, err := s.rc.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		// The cooldown is a throttle, not a correctness guarantee; a cache
		// outage must not block signups
		return nil
	}

	return ErrResendCooldownActive
}

func (s *SignupFlowImpl) markResendCooldown(ctx context.Context, phone, purpose string) {
	if s.rc == nil {
		return
	}

	key := redisKey(*s.cacheConfig, fmt.Sprintf("verification_cooldown:%s:%s", purpose, phone))
	_ = s.rc.Set(ctx, key, "1", utils.VerificationResendCooldown).Err()
}

func (s *SignupFlowImpl) createAuditLog(ctx context.Context, customer *models.Customer, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	return createAuditLog(ctx, s.auditRepo, customer, action, description, success, errorMsg, metadata)
}

// createSession persists a session row for freshly issued tokens
func createSession(ctx context.Context, sessionRepo repository.CustomerSessionRepository, customerID uint, accessToken, refreshToken string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.CustomerSession{
		CorrelationID: uuid.New(),
		CustomerID:    customerID,
		SessionToken:  accessToken,
		RefreshToken:  &refreshToken,
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
		IsActive:      utils.ToPtr(true),
		ExpiresAt:     time.Now().Add(utils.SessionTimeout),
	}

	return sessionRepo.Save(ctx, session)
}

// createAuditLog writes a best-effort audit row; callers ignore its error
func createAuditLog(ctx context.Context, auditRepo repository.AuditLogRepository, customer *models.Customer, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	var customerID *uint
	if customer != nil {
		customerID = &customer.ID
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		CustomerID:   customerID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}

	// Extract request ID from context if available
	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return auditRepo.Save(ctx, audit)
}
