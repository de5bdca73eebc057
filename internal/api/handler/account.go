package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// AccountService is the orchestrator surface the authenticated endpoints need.
type AccountService interface {
	Profile(ctx context.Context, accountID int64) (*domain.Account, error)
	SecurityReport(ctx context.Context, accountID int64) ([]domain.LoginRecord, error)
	UpdateFaceRequest(ctx context.Context, sessionID string, accountID int64, image []byte) error
	UpdateFaceConfirm(ctx context.Context, sessionID string, accountID int64, code string) error
	DeleteAccountRequest(ctx context.Context, sessionID string, accountID int64) error
	DeleteAccountConfirm(ctx context.Context, sessionID string, accountID int64, code string) error
}

// AccountHandler serves the session-holder's own account: profile, security
// report, face update and deletion.
type AccountHandler struct {
	service  AccountService
	sessions *middleware.SessionStore
	logger   *slog.Logger
}

func NewAccountHandler(service AccountService, sessions *middleware.SessionStore, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

type ProfileResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type LoginRecordResponse struct {
	AttemptedAt   time.Time `json:"attempted_at"`
	Success       bool      `json:"success"`
	Similarity    *float64  `json:"similarity,omitempty"`
	IP            string    `json:"ip,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

type SecurityReportResponse struct {
	Attempts []LoginRecordResponse `json:"attempts"`
}

type ConfirmRequest struct {
	Code string `json:"code"`
}

// Me GET /v1/me
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	accountID, err := middleware.GetAccountID(c)
	if err != nil {
		return err
	}

	account, err := h.service.Profile(c.Context(), accountID)
	if err != nil {
		return err
	}

	return c.JSON(ProfileResponse{
		ID:          account.ID,
		Name:        account.Name,
		Email:       account.Email,
		CreatedAt:   account.CreatedAt,
		LastLoginAt: account.LastLoginAt,
	})
}

// SecurityReport GET /v1/me/security-report
func (h *AccountHandler) SecurityReport(c *fiber.Ctx) error {
	accountID, err := middleware.GetAccountID(c)
	if err != nil {
		return err
	}

	records, err := h.service.SecurityReport(c.Context(), accountID)
	if err != nil {
		return err
	}

	attempts := make([]LoginRecordResponse, 0, len(records))
	for _, rec := range records {
		attempts = append(attempts, LoginRecordResponse{
			AttemptedAt:   rec.AttemptedAt,
			Success:       rec.Success,
			Similarity:    rec.Similarity,
			IP:            rec.IP,
			UserAgent:     rec.UserAgent,
			FailureReason: rec.FailureReason,
		})
	}

	return c.JSON(SecurityReportResponse{Attempts: attempts})
}

// UpdateFaceRequest POST /v1/me/face/update-request
func (h *AccountHandler) UpdateFaceRequest(c *fiber.Ctx) error {
	sessionID, accountID, err := sessionAndAccount(c)
	if err != nil {
		return err
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return err
	}

	if err := h.service.UpdateFaceRequest(c.Context(), sessionID, accountID, imageBytes); err != nil {
		return err
	}

	return c.JSON(MessageResponse{Message: "Check your email for the confirmation code."})
}

// UpdateFaceConfirm POST /v1/me/face/update-confirm
func (h *AccountHandler) UpdateFaceConfirm(c *fiber.Ctx) error {
	sessionID, accountID, err := sessionAndAccount(c)
	if err != nil {
		return err
	}

	var req ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.Code == "" {
		return domain.ErrValidationFailed
	}

	if err := h.service.UpdateFaceConfirm(c.Context(), sessionID, accountID, req.Code); err != nil {
		return err
	}

	return c.JSON(MessageResponse{Message: "Face updated."})
}

// DeleteRequest POST /v1/me/delete-request
func (h *AccountHandler) DeleteRequest(c *fiber.Ctx) error {
	sessionID, accountID, err := sessionAndAccount(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAccountRequest(c.Context(), sessionID, accountID); err != nil {
		return err
	}

	return c.JSON(MessageResponse{Message: "Check your email for the confirmation code."})
}

// DeleteConfirm POST /v1/me/delete-confirm
func (h *AccountHandler) DeleteConfirm(c *fiber.Ctx) error {
	sessionID, accountID, err := sessionAndAccount(c)
	if err != nil {
		return err
	}

	var req ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.Code == "" {
		return domain.ErrValidationFailed
	}

	if err := h.service.DeleteAccountConfirm(c.Context(), sessionID, accountID, req.Code); err != nil {
		return err
	}

	h.sessions.ClearAccount(accountID)

	return c.JSON(MessageResponse{Message: "Account deleted."})
}

func sessionAndAccount(c *fiber.Ctx) (string, int64, error) {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return "", 0, err
	}
	accountID, err := middleware.GetAccountID(c)
	if err != nil {
		return "", 0, err
	}
	return sessionID, accountID, nil
}
