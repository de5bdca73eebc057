package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facegate/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// MockAccountService is a mock implementation of AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Profile(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) SecurityReport(ctx context.Context, accountID int64) ([]domain.LoginRecord, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoginRecord), args.Error(1)
}

func (m *MockAccountService) UpdateFaceRequest(ctx context.Context, sessionID string, accountID int64, image []byte) error {
	args := m.Called(ctx, sessionID, accountID, image)
	return args.Error(0)
}

func (m *MockAccountService) UpdateFaceConfirm(ctx context.Context, sessionID string, accountID int64, code string) error {
	args := m.Called(ctx, sessionID, accountID, code)
	return args.Error(0)
}

func (m *MockAccountService) DeleteAccountRequest(ctx context.Context, sessionID string, accountID int64) error {
	args := m.Called(ctx, sessionID, accountID)
	return args.Error(0)
}

func (m *MockAccountService) DeleteAccountConfirm(ctx context.Context, sessionID string, accountID int64, code string) error {
	args := m.Called(ctx, sessionID, accountID, code)
	return args.Error(0)
}

// Helper to create a test app with an authenticated session
func createAuthedApp(register func(app *fiber.App), sessionID string, accountID int64) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})

	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalSessionID, sessionID)
		c.Locals(middleware.LocalAccountID, accountID)
		return c.Next()
	})

	register(app)
	return app
}

func TestAccountHandler_Me(t *testing.T) {
	svc := &MockAccountService{}
	h := NewAccountHandler(svc, middleware.NewSessionStore(), testLogger())
	app := createAuthedApp(func(app *fiber.App) { app.Get("/me", h.Me) }, "sess-1", 42)

	now := time.Now()
	svc.On("Profile", mock.Anything, int64(42)).Return(&domain.Account{
		ID:        42,
		Name:      "Ana Souza",
		Email:     "ana@example.com",
		CreatedAt: now,
	}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out ProfileResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, "ana@example.com", out.Email)
	assert.Nil(t, out.LastLoginAt)
}

func TestAccountHandler_SecurityReport(t *testing.T) {
	svc := &MockAccountService{}
	h := NewAccountHandler(svc, middleware.NewSessionStore(), testLogger())
	app := createAuthedApp(func(app *fiber.App) { app.Get("/me/security-report", h.SecurityReport) }, "sess-1", 42)

	similarity := 0.91
	svc.On("SecurityReport", mock.Anything, int64(42)).Return([]domain.LoginRecord{
		{AttemptedAt: time.Now(), Success: true, Similarity: &similarity, IP: "203.0.113.9"},
		{AttemptedAt: time.Now().Add(-time.Hour), Success: false, FailureReason: "face_mismatch"},
	}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/me/security-report", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out SecurityReportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Attempts, 2)
	assert.True(t, out.Attempts[0].Success)
	assert.Equal(t, "face_mismatch", out.Attempts[1].FailureReason)
}

func TestAccountHandler_UpdateFace(t *testing.T) {
	t.Run("request mails a code", func(t *testing.T) {
		svc := &MockAccountService{}
		h := NewAccountHandler(svc, middleware.NewSessionStore(), testLogger())
		app := createAuthedApp(func(app *fiber.App) { app.Post("/me/face/update-request", h.UpdateFaceRequest) }, "sess-1", 42)

		svc.On("UpdateFaceRequest", mock.Anything, "sess-1", int64(42), mock.Anything).Return(nil)

		body, contentType, err := createMultipartBody(nil, make([]byte, 5000), "image/jpeg")
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/me/face/update-request", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("confirm with wrong code", func(t *testing.T) {
		svc := &MockAccountService{}
		h := NewAccountHandler(svc, middleware.NewSessionStore(), testLogger())
		app := createAuthedApp(func(app *fiber.App) { app.Post("/me/face/update-confirm", h.UpdateFaceConfirm) }, "sess-1", 42)

		svc.On("UpdateFaceConfirm", mock.Anything, "sess-1", int64(42), "654321").
			Return(domain.ErrOTPMismatch)

		req := httptest.NewRequest("POST", "/me/face/update-confirm",
			strings.NewReader(`{"code":"654321"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, "OTP_MISMATCH", errorCode(t, resp.Body))
	})
}

func TestAccountHandler_Delete(t *testing.T) {
	t.Run("confirm ends every session for the account", func(t *testing.T) {
		svc := &MockAccountService{}
		sessions := middleware.NewSessionStore()
		sessions.Bind("sess-1", 42)
		sessions.Bind("sess-2", 42)
		h := NewAccountHandler(svc, sessions, testLogger())
		app := createAuthedApp(func(app *fiber.App) { app.Post("/me/delete-confirm", h.DeleteConfirm) }, "sess-1", 42)

		svc.On("DeleteAccountConfirm", mock.Anything, "sess-1", int64(42), "123456").Return(nil)

		req := httptest.NewRequest("POST", "/me/delete-confirm",
			strings.NewReader(`{"code":"123456"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		_, ok := sessions.Lookup("sess-1")
		assert.False(t, ok)
		_, ok = sessions.Lookup("sess-2")
		assert.False(t, ok)
	})
}
