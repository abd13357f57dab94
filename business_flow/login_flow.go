// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/app/services"
	"github.com/shirfam/shirfam-backend/config"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	"github.com/shirfam/shirfam-backend/utils"
)

// LoginFlow handles passwordless login for existing customers: a code is sent
// to the account phone and exchanged for a session.
type LoginFlow interface {
	RequestCode(ctx context.Context, req *dto.LoginCodeRequest, metadata *ClientMetadata) (*dto.CodeIssueResponse, error)
	ResendCode(ctx context.Context, req *dto.ResendCodeRequest, metadata *ClientMetadata) (*dto.CodeIssueResponse, error)
	VerifyCode(ctx context.Context, req *dto.VerifyCodeRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Logout(ctx context.Context, customerID uint, sessionToken string, metadata *ClientMetadata) error
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
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

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	customerRepo repository.CustomerRepository,
	verificationRepo repository.VerificationCodeRepository,
	sessionRepo repository.CustomerSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	notificationSvc services.NotificationService,
	cacheConfig *config.CacheConfig,
	rc *redis.Client,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
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

// RequestCode issues a login code for an existing active account. Like the
// signup path, the code insert and the SMS share a transaction.
func (lf *LoginFlowImpl) RequestCode(ctx context.Context, req *dto.LoginCodeRequest, metadata *ClientMetadata) (*dto.CodeIssueResponse, error) {
	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", err)
	}

	customer, err := lf.customerRepo.ByPhone(ctx, phone)
	if err != nil {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", err)
	}
	if customer == nil {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", ErrCustomerNotFound)
	}
	if !utils.IsTrue(customer.IsActive) {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", ErrAccountInactive)
	}

	if err := lf.checkResendCooldown(ctx, phone); err != nil {
		return nil, NewBusinessError("LOGIN_CODE_THROTTLED", "Code request throttled", err)
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, NewBusinessError("LOGIN_CODE_GENERATION_FAILED", "Failed to generate verification code", err)
	}

	err = repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		record := &models.VerificationCode{
			Phone:     phone,
			Purpose:   models.VerificationPurposeLogin,
			Code:      code,
			Email:     customer.Email,
			ExpiresAt: utils.UTCNow().Add(utils.VerificationCodeExpiry),
		}

		if err := lf.verificationRepo.ReplacePending(txCtx, record); err != nil {
			return err
		}

		message := fmt.Sprintf("Your Shirfam login code is: %s", code)
		return deliverVerificationCode(txCtx, lf.notificationSvc, phone, customer.Email, message)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login code issuance failed: %s", err.Error())
		_ = createAuditLog(ctx, lf.auditRepo, customer, models.AuditActionCodeDeliveryFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_CODE_FAILED", "Login code could not be sent", err)
	}

	msg := fmt.Sprintf("Login code issued for %s", utils.MaskPhone(phone))
	_ = createAuditLog(ctx, lf.auditRepo, customer, models.AuditActionLoginCodeIssued, msg, true, nil, metadata)
	lf.markResendCooldown(ctx, phone)

	return &dto.CodeIssueResponse{
		Message:   "Login code sent to your phone number.",
		CodeSent:  true,
		Target:    utils.MaskPhone(phone),
		ExpiresIn: utils.VerificationCodeExpirySeconds,
	}, nil
}

// ResendCode replaces the pending login code for the phone with a fresh one
// and a fresh expiry.
func (lf *LoginFlowImpl) ResendCode(ctx context.Context, req *dto.ResendCodeRequest, metadata *ClientMetadata) (*dto.CodeIssueResponse, error) {
	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		return nil, NewBusinessError("LOGIN_RESEND_FAILED", "Resend code failed", err)
	}

	record, err := lf.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeLogin)
	if err != nil {
		return nil, NewBusinessError("LOGIN_RESEND_FAILED", "Resend code failed", err)
	}
	if record == nil {
		return nil, NewBusinessError("LOGIN_RESEND_FAILED", "Resend code failed", ErrVerificationNotFound)
	}

	if err := lf.checkResendCooldown(ctx, phone); err != nil {
		return nil, NewBusinessError("LOGIN_CODE_THROTTLED", "Code request throttled", err)
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, NewBusinessError("LOGIN_CODE_GENERATION_FAILED", "Failed to generate verification code", err)
	}

	err = repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		if err := lf.verificationRepo.RefreshPending(txCtx, record.ID, code, utils.UTCNow().Add(utils.VerificationCodeExpiry)); err != nil {
			return err
		}

		message := fmt.Sprintf("Your Shirfam login code is: %s", code)
		return deliverVerificationCode(txCtx, lf.notificationSvc, phone, record.Email, message)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login code resend failed: %s", err.Error())
		_ = createAuditLog(ctx, lf.auditRepo, nil, models.AuditActionCodeDeliveryFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_RESEND_FAILED", "Resend code failed", err)
	}

	msg := fmt.Sprintf("Login code resent for %s", utils.MaskPhone(phone))
	_ = createAuditLog(ctx, lf.auditRepo, nil, models.AuditActionLoginCodeResent, msg, true, nil, metadata)
	lf.markResendCooldown(ctx, phone)

	return &dto.CodeIssueResponse{
		Message:   "Login code resent to your phone number.",
		CodeSent:  true,
		Target:    utils.MaskPhone(phone),
		ExpiresIn: utils.VerificationCodeExpirySeconds,
	}, nil
}

// VerifyCode exchanges a valid login code for a fresh session
func (lf *LoginFlowImpl) VerifyCode(ctx context.Context, req *dto.VerifyCodeRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		return nil, NewBusinessError("LOGIN_VERIFICATION_FAILED", "Login verification failed", err)
	}

	customer, err := lf.customerRepo.ByPhone(ctx, phone)
	if err != nil {
		return nil, NewBusinessError("LOGIN_VERIFICATION_FAILED", "Login verification failed", err)
	}
	if customer == nil {
		return nil, NewBusinessError("LOGIN_VERIFICATION_FAILED", "Login verification failed", ErrCustomerNotFound)
	}
	if !utils.IsTrue(customer.IsActive) {
		return nil, NewBusinessError("LOGIN_VERIFICATION_FAILED", "Login verification failed", ErrAccountInactive)
	}

	record, err := lf.verificationRepo.ByPair(ctx, phone, models.VerificationPurposeLogin)
	if err != nil {
		return nil, NewBusinessError("LOGIN_VERIFICATION_FAILED", "Login verification failed", err)
	}
	if record == nil {
		return nil, NewBusinessError("LOGIN_VERIFICATION_FAILED", "Login verification failed", ErrVerificationNotFound)
	}

	if record.IsExpired() {
		_ = lf.verificationRepo.DeletePending(ctx, phone, models.VerificationPurposeLogin)
		return nil, NewBusinessError("LOGIN_CODE_EXPIRED", "Login code expired", ErrCodeExpired)
	}

	if record.Code != req.Code {
		errMsg := fmt.Sprintf("Login verification failed for %s: code mismatch", utils.MaskPhone(phone))
		_ = createAuditLog(ctx, lf.auditRepo, customer, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_CODE_MISMATCH", "Login code does not match", ErrCodeMismatch)
	}

	var tokens struct {
		access  string
		refresh string
	}

	err = repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		if err := lf.verificationRepo.DeletePending(txCtx, phone, models.VerificationPurposeLogin); err != nil {
			return err
		}

		var err error
		tokens.access, tokens.refresh, err = lf.tokenService.GenerateTokens(customer.ID)
		if err != nil {
			return err
		}

		if err := createSession(txCtx, lf.sessionRepo, customer.ID, tokens.access, tokens.refresh, metadata); err != nil {
			return err
		}

		return lf.customerRepo.UpdateLastLogin(txCtx, customer.ID, utils.UTCNow())
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		_ = createAuditLog(ctx, lf.auditRepo, customer, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("Login successful: %d", customer.ID)
	_ = createAuditLog(ctx, lf.auditRepo, customer, models.AuditActionLoginSuccessful, msg, true, nil, metadata)

	session := models.CustomerSession{
		SessionToken: tokens.access,
		RefreshToken: &tokens.refresh,
		CreatedAt:    utils.UTCNow(),
		ExpiresAt:    utils.UTCNow().Add(utils.SessionTimeout),
	}

	return &dto.AuthResponse{
		Message:      "Login successful!",
		Token:        tokens.access,
		RefreshToken: tokens.refresh,
		Customer:     ToCustomerDTO(*customer),
		Session:      ToSessionDTO(session),
	}, nil
}

// RefreshToken rotates the session tokens using a valid refresh token
func (lf *LoginFlowImpl) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	session, err := lf.sessionRepo.ByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}
	if session == nil || !session.IsValid() {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", services.ErrTokenInvalid)
	}

	customer, err := getCustomer(ctx, lf.customerRepo, session.CustomerID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}
	if !utils.IsTrue(customer.IsActive) {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", ErrAccountInactive)
	}

	var tokens struct {
		access  string
		refresh string
	}

	err = repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		var err error
		tokens.access, tokens.refresh, err = lf.tokenService.RefreshToken(req.RefreshToken)
		if err != nil {
			return err
		}

		// The old session is retired; the new tokens get their own row
		if err := lf.sessionRepo.ExpireSession(txCtx, session.ID); err != nil {
			return err
		}

		return createSession(txCtx, lf.sessionRepo, customer.ID, tokens.access, tokens.refresh, metadata)
	})

	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}

	newSession := models.CustomerSession{
		SessionToken: tokens.access,
		RefreshToken: &tokens.refresh,
		CreatedAt:    utils.UTCNow(),
		ExpiresAt:    utils.UTCNow().Add(utils.SessionTimeout),
	}

	return &dto.AuthResponse{
		Message:      "Token refreshed",
		Token:        tokens.access,
		RefreshToken: tokens.refresh,
		Customer:     ToCustomerDTO(*customer),
		Session:      ToSessionDTO(newSession),
	}, nil
}

// Logout retires the active session for the presented token
func (lf *LoginFlowImpl) Logout(ctx context.Context, customerID uint, sessionToken string, metadata *ClientMetadata) error {
	session, err := lf.sessionRepo.BySessionToken(ctx, sessionToken)
	if err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}
	if session == nil || session.CustomerID != customerID {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", services.ErrTokenInvalid)
	}

	if err := lf.sessionRepo.ExpireSession(ctx, session.ID); err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}

	customer, _ := lf.customerRepo.ByID(ctx, customerID)
	msg := fmt.Sprintf("Logout: %d", customerID)
	_ = createAuditLog(ctx, lf.auditRepo, customer, models.AuditActionLogout, msg, true, nil, metadata)

	return nil
}

func (lf *LoginFlowImpl) checkResendCooldown(ctx context.Context, phone string) error {
	if lf.rc == nil {
		return nil
	}

	key := redisKey(*lf.cacheConfig, fmt.Sprintf("verification_cooldown:%s:%s", models.VerificationPurposeLogin, phone))
	_, err := lf.rc.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return nil
	}

	return ErrResendCooldownActive
}

func (lf *LoginFlowImpl) markResendCooldown(ctx context.Context, phone string) {
	if lf.rc == nil {
		return
	}

	key := redisKey(*lf.cacheConfig, fmt.Sprintf("verification_cooldown:%s:%s", models.VerificationPurposeLogin, phone))
	_ = lf.rc.Set(ctx, key, "1", utils.VerificationResendCooldown).Err()
}
