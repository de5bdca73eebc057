package handler

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/service"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AuthService is the orchestrator surface the auth endpoints need.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.Account, error)
	Activate(ctx context.Context, accountID int64, code string) error
	Login(ctx context.Context, sessionID, email string, image []byte, ip, userAgent string) error
	VerifyLoginOTP(ctx context.Context, sessionID, code, ip, userAgent string) (*domain.Account, error)
}

// AuthHandler handles sign-up, activation and the two-step login.
type AuthHandler struct {
	service  AuthService
	sessions *middleware.SessionStore
	logger   *slog.Logger
}

func NewAuthHandler(service AuthService, sessions *middleware.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

type RegisterResponse struct {
	AccountID int64  `json:"account_id"`
	Message   string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ActivateRequest struct {
	AccountID int64  `json:"account_id"`
	Code      string `json:"code"`
}

type VerifyOTPRequest struct {
	Code string `json:"code"`
}

// Register POST /v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return err
	}

	account, err := h.service.Register(c.Context(), service.RegisterInput{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: c.FormValue("password"),
		Image:    imageBytes,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		AccountID: account.ID,
		Message:   "Account created. Check your email for the activation code.",
	})
}

// Activate POST /v1/auth/activate
func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	var req ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.AccountID == 0 || req.Code == "" {
		return domain.ErrValidationFailed
	}

	if err := h.service.Activate(c.Context(), req.AccountID, req.Code); err != nil {
		return err
	}

	return c.JSON(MessageResponse{Message: "Account activated. You can now sign in."})
}

// Login POST /v1/auth/login - step one: face match, then a code by mail.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	email := strings.TrimSpace(c.FormValue("email"))
	if email == "" {
		return domain.ErrValidationFailed
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return err
	}

	if err := h.service.Login(c.Context(), sessionID, email, imageBytes, c.IP(), c.Get("User-Agent")); err != nil {
		return err
	}

	return c.JSON(MessageResponse{Message: "Face matched. Check your email for the confirmation code."})
}

// VerifyOTP POST /v1/auth/login/verify-otp - step two: consume the code and
// bind the account to the session.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.Code == "" {
		return domain.ErrValidationFailed
	}

	account, err := h.service.VerifyLoginOTP(c.Context(), sessionID, req.Code, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return err
	}

	h.sessions.Bind(sessionID, account.ID)

	return c.JSON(MessageResponse{Message: "Signed in."})
}

// Logout POST /v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	h.sessions.Clear(sessionID)

	return c.JSON(MessageResponse{Message: "Signed out."})
}

func extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	if file.Size > maxImageSize || file.Size == 0 {
		return nil, domain.ErrInvalidImage
	}

	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}
