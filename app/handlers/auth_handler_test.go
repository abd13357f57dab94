package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
)

// stubSignupFlow records calls so tests can assert which flow a handler picked.
type stubSignupFlow struct {
	resendCalls int
}

func (s *stubSignupFlow) RequestCode(ctx context.Context, req *dto.SignupCodeRequest, metadata *businessflow.ClientMetadata) (*dto.CodeIssueResponse, error) {
	return &dto.CodeIssueResponse{CodeSent: true}, nil
}

func (s *stubSignupFlow) VerifyCode(ctx context.Context, req *dto.VerifyCodeRequest, metadata *businessflow.ClientMetadata) (*dto.AuthResponse, error) {
	return &dto.AuthResponse{}, nil
}

func (s *stubSignupFlow) ResendCode(ctx context.Context, req *dto.ResendCodeRequest, metadata *businessflow.ClientMetadata) (*dto.CodeIssueResponse, error) {
	s.resendCalls++
	return &dto.CodeIssueResponse{Message: "signup code resent", CodeSent: true}, nil
}

type stubLoginFlow struct {
	resendCalls int
}

func (s *stubLoginFlow) RequestCode(ctx context.Context, req *dto.LoginCodeRequest, metadata *businessflow.ClientMetadata) (*dto.CodeIssueResponse, error) {
	return &dto.CodeIssueResponse{CodeSent: true}, nil
}

func (s *stubLoginFlow) ResendCode(ctx context.Context, req *dto.ResendCodeRequest, metadata *businessflow.ClientMetadata) (*dto.CodeIssueResponse, error) {
	s.resendCalls++
	return &dto.CodeIssueResponse{Message: "login code resent", CodeSent: true}, nil
}

func (s *stubLoginFlow) VerifyCode(ctx context.Context, req *dto.VerifyCodeRequest, metadata *businessflow.ClientMetadata) (*dto.AuthResponse, error) {
	return &dto.AuthResponse{}, nil
}

func (s *stubLoginFlow) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *businessflow.ClientMetadata) (*dto.AuthResponse, error) {
	return &dto.AuthResponse{}, nil
}

func (s *stubLoginFlow) Logout(ctx context.Context, customerID uint, sessionToken string, metadata *businessflow.ClientMetadata) error {
	return nil
}

func resendCodeApp() (*fiber.App, *stubSignupFlow, *stubLoginFlow) {
	signup := &stubSignupFlow{}
	login := &stubLoginFlow{}
	handler := NewAuthHandler(signup, login)

	app := fiber.New()
	app.Post("/api/v1/auth/resend-code", handler.ResendCode)
	return app, signup, login
}

func postResendCode(t *testing.T, app *fiber.App, purpose string) *dto.APIResponse {
	body, err := json.Marshal(dto.ResendCodeRequest{Phone: "+989123456789", Purpose: purpose})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/auth/resend-code", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var apiResp dto.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiResp))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return &apiResp
}

func TestResendCodeRoutesByPurpose(t *testing.T) {
	t.Run("LoginPurposeReachesLoginFlow", func(t *testing.T) {
		app, signup, login := resendCodeApp()

		apiResp := postResendCode(t, app, "login")
		assert.True(t, apiResp.Success)
		assert.Equal(t, "login code resent", apiResp.Message)
		assert.Equal(t, 1, login.resendCalls)
		assert.Equal(t, 0, signup.resendCalls)
	})

	t.Run("SignupPurposeReachesSignupFlow", func(t *testing.T) {
		app, signup, login := resendCodeApp()

		apiResp := postResendCode(t, app, "signup")
		assert.True(t, apiResp.Success)
		assert.Equal(t, "signup code resent", apiResp.Message)
		assert.Equal(t, 1, signup.resendCalls)
		assert.Equal(t, 0, login.resendCalls)
	})

	t.Run("UnknownPurposeIsRejected", func(t *testing.T) {
		app, signup, login := resendCodeApp()

		body, err := json.Marshal(dto.ResendCodeRequest{Phone: "+989123456789", Purpose: "password-reset"})
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/api/v1/auth/resend-code", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, 0, signup.resendCalls)
		assert.Equal(t, 0, login.resendCalls)
	})
}
