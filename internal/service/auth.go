package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/saturnino-fabrica-de-software/facegate/internal/challenge"
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/face"
	"github.com/saturnino-fabrica-de-software/facegate/internal/mailer"
	"github.com/saturnino-fabrica-de-software/facegate/internal/otp"
	"github.com/saturnino-fabrica-de-software/facegate/internal/photostore"
	"github.com/saturnino-fabrica-de-software/facegate/internal/repository"
)

const (
	failureNoFace     = "no_face_detected"
	failureMismatch   = "face_mismatch"
	failureNoFaceData = "no_face_data"
)

// AuthService orchestrates the sign-up, activation, login, face-update and
// deletion flows. Handlers stay thin; every business rule lives here.
type AuthService struct {
	accounts   repository.AccountRepositoryInterface
	history    repository.LoginHistoryRepositoryInterface
	extractor  *face.Extractor
	scorer     *face.Scorer
	registry   *face.Registry
	challenges *challenge.Manager
	mail       mailer.Sender
	photos     photostore.PhotoStore
	otpTTL     time.Duration
	logger     *slog.Logger
	validate   *validator.Validate
}

func NewAuthService(
	accounts repository.AccountRepositoryInterface,
	history repository.LoginHistoryRepositoryInterface,
	extractor *face.Extractor,
	scorer *face.Scorer,
	registry *face.Registry,
	challenges *challenge.Manager,
	mail mailer.Sender,
	photos photostore.PhotoStore,
	otpTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		accounts:   accounts,
		history:    history,
		extractor:  extractor,
		scorer:     scorer,
		registry:   registry,
		challenges: challenges,
		mail:       mail,
		photos:     photos,
		otpTTL:     otpTTL,
		logger:     logger,
		validate:   validator.New(),
	}
}

type RegisterInput struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email,max=120"`
	Password string `validate:"required,min=8,max=128"`
	Image    []byte `validate:"required"`
}

// Register creates an unverified account with the activation code held on the
// row, after checking that the submitted face is not already enrolled. A stale
// unverified record under the same email is torn down first so the address can
// be reused.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrInternal.WithError(err)
	}
	if existing != nil {
		if existing.IsVerified {
			return nil, domain.ErrEmailExists
		}
		// Abandoned sign-up under this address. Remove it and start over.
		if err := s.removeAccount(ctx, existing.ID); err != nil {
			return nil, domain.ErrInternal.WithError(err)
		}
	}

	embedding, err := s.extractor.Extract(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	unique, conflictID, err := s.registry.IsUnique(ctx, embedding)
	if err != nil {
		return nil, err
	}
	if !unique {
		s.logger.Info("face already enrolled",
			slog.Int64("conflict_account_id", conflictID),
		)
		return nil, domain.ErrFaceExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}

	code, err := otp.Generate()
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}
	otpHash, err := otp.Hash(code)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}

	photoPath, err := s.photos.Save(ctx, in.Image, photostore.ObjectName(email))
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}

	expiresAt := time.Now().Add(s.otpTTL)
	account := &domain.Account{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(passwordHash),
		Embedding:    embedding,
		PhotoPath:    photoPath,
		OTPHash:      otpHash,
		OTPExpiresAt: &expiresAt,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		s.deletePhoto(ctx, photoPath)
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, domain.ErrEmailExists
		}
		return nil, domain.ErrInternal.WithError(err)
	}

	if err := s.mail.SendActivationOTP(account.Email, account.Name, code); err != nil {
		// The account is unusable without its activation code. Undo.
		if derr := s.removeAccount(ctx, account.ID); derr != nil {
			s.logger.Error("failed to undo registration after mail failure",
				slog.Int64("account_id", account.ID),
				slog.Any("error", derr),
			)
		}
		return nil, domain.ErrEmailDelivery.WithError(err)
	}

	s.logger.Info("account registered",
		slog.Int64("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return account, nil
}

// Activate consumes the row-held activation code and marks the account
// verified. Wrong codes leave the code in place so the user can retry until
// it expires.
func (s *AuthService) Activate(ctx context.Context, accountID int64, code string) error {
	if !otp.ValidFormat(code) {
		return domain.ErrOTPMismatch
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsVerified {
		return domain.ErrAlreadyVerified
	}
	if account.OTPHash == "" || !account.OTPValid(time.Now()) {
		return domain.ErrOTPExpired
	}
	if !otp.Verify(code, account.OTPHash) {
		return domain.ErrOTPMismatch
	}

	if err := s.accounts.Activate(ctx, account.ID); err != nil {
		return domain.ErrInternal.WithError(err)
	}

	s.logger.Info("account activated", slog.Int64("account_id", account.ID))
	return nil
}

// Login runs the first step of sign-in: match the submitted face against the
// account's enrolled embedding, then issue a login-confirmation code by mail.
// The session is not authenticated until VerifyLoginOTP consumes the code.
func (s *AuthService) Login(ctx context.Context, sessionID, email string, image []byte, ip, userAgent string) error {
	account, err := s.accounts.GetVerifiedByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.ErrNoVerifiedAccount
	}
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}
	if len(account.Embedding) == 0 {
		s.recordAttempt(ctx, account.ID, false, nil, ip, userAgent, failureNoFaceData)
		return domain.ErrNoFaceData
	}

	embedding, err := s.extractor.Extract(ctx, image)
	if errors.Is(err, domain.ErrNoFaceDetected) {
		s.recordAttempt(ctx, account.ID, false, nil, ip, userAgent, failureNoFace)
		return err
	}
	if err != nil {
		return err
	}

	match, similarity := s.scorer.IsMatch(account.Embedding, embedding)
	if !match {
		s.recordAttempt(ctx, account.ID, false, &similarity, ip, userAgent, failureMismatch)
		return domain.ErrFaceMismatch
	}

	code, err := s.challenges.Start(sessionID, domain.FlowLogin, domain.ChallengePayload{
		AccountID:  account.ID,
		Similarity: similarity,
	})
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	if err := s.mail.SendLoginOTP(account.Email, account.Name, code); err != nil {
		s.challenges.Cancel(sessionID, domain.FlowLogin)
		return domain.ErrEmailDelivery.WithError(err)
	}

	s.logger.Info("login challenge issued",
		slog.Int64("account_id", account.ID),
		slog.Float64("similarity", similarity),
	)

	return nil
}

// VerifyLoginOTP finishes sign-in: it consumes the pending login challenge,
// records the successful attempt, stamps last_login and fires the login-alert
// mail. Returns the account for the caller to bind to the session.
func (s *AuthService) VerifyLoginOTP(ctx context.Context, sessionID, code, ip, userAgent string) (*domain.Account, error) {
	if !otp.ValidFormat(code) {
		return nil, domain.ErrOTPMismatch
	}

	payload, err := s.challenges.Verify(sessionID, domain.FlowLogin, code)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, payload.AccountID)
	if err != nil {
		return nil, err
	}

	lastLogin := account.LastLoginAt
	now := time.Now()

	s.recordAttempt(ctx, account.ID, true, &payload.Similarity, ip, userAgent, "")
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn("failed to stamp last login",
			slog.Int64("account_id", account.ID),
			slog.Any("error", err),
		)
	} else {
		account.LastLoginAt = &now
	}

	if err := s.mail.SendLoginAlert(account.Email, account.Name, lastLogin, payload.Similarity); err != nil {
		s.logger.Warn("login alert not delivered",
			slog.Int64("account_id", account.ID),
			slog.Any("error", err),
		)
	}

	s.logger.Info("login completed", slog.Int64("account_id", account.ID))
	return account, nil
}

// LoginDirect is the single-factor variant: a face match signs the session in
// immediately, with no mailed confirmation code. Kept for deployments without
// an SMTP relay; the two-step flow is the default product path.
func (s *AuthService) LoginDirect(ctx context.Context, email string, image []byte, ip, userAgent string) (*domain.Account, float64, error) {
	account, err := s.accounts.GetVerifiedByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, 0, domain.ErrNoVerifiedAccount
	}
	if err != nil {
		return nil, 0, domain.ErrInternal.WithError(err)
	}
	if len(account.Embedding) == 0 {
		s.recordAttempt(ctx, account.ID, false, nil, ip, userAgent, failureNoFaceData)
		return nil, 0, domain.ErrNoFaceData
	}

	embedding, err := s.extractor.Extract(ctx, image)
	if errors.Is(err, domain.ErrNoFaceDetected) {
		s.recordAttempt(ctx, account.ID, false, nil, ip, userAgent, failureNoFace)
		return nil, 0, err
	}
	if err != nil {
		return nil, 0, err
	}

	match, similarity := s.scorer.IsMatch(account.Embedding, embedding)
	if !match {
		s.recordAttempt(ctx, account.ID, false, &similarity, ip, userAgent, failureMismatch)
		return nil, 0, domain.ErrFaceMismatch
	}

	now := time.Now()
	s.recordAttempt(ctx, account.ID, true, &similarity, ip, userAgent, "")
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn("failed to stamp last login",
			slog.Int64("account_id", account.ID),
			slog.Any("error", err),
		)
	}

	return account, similarity, nil
}

// UpdateFaceRequest validates the candidate photo and opens a confirmation
// challenge carrying the raw image. Nothing is persisted until the code is
// verified.
func (s *AuthService) UpdateFaceRequest(ctx context.Context, sessionID string, accountID int64, image []byte) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if _, err := s.extractor.Extract(ctx, image); err != nil {
		return err
	}

	code, err := s.challenges.Start(sessionID, domain.FlowFaceUpdate, domain.ChallengePayload{
		AccountID: account.ID,
		Image:     image,
	})
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	if err := s.mail.SendFaceUpdateOTP(account.Email, account.Name, code); err != nil {
		s.challenges.Cancel(sessionID, domain.FlowFaceUpdate)
		return domain.ErrEmailDelivery.WithError(err)
	}

	return nil
}

// UpdateFaceConfirm consumes the face-update challenge, re-extracts the
// embedding from the image held in the payload and swaps embedding and photo.
// The old photo is removed best-effort once the row points at the new one.
func (s *AuthService) UpdateFaceConfirm(ctx context.Context, sessionID string, accountID int64, code string) error {
	if !otp.ValidFormat(code) {
		return domain.ErrOTPMismatch
	}

	payload, err := s.challenges.Verify(sessionID, domain.FlowFaceUpdate, code)
	if err != nil {
		return err
	}
	if payload.AccountID != accountID {
		return domain.ErrNoChallenge
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	embedding, err := s.extractor.Extract(ctx, payload.Image)
	if err != nil {
		return err
	}

	newPath, err := s.photos.Save(ctx, payload.Image, photostore.ObjectName(account.Email))
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	if err := s.accounts.UpdateFace(ctx, account.ID, embedding, newPath); err != nil {
		s.deletePhoto(ctx, newPath)
		return domain.ErrInternal.WithError(err)
	}

	s.deletePhoto(ctx, account.PhotoPath)

	s.logger.Info("face updated", slog.Int64("account_id", account.ID))
	return nil
}

// DeleteAccountRequest opens a deletion challenge and mails its code.
func (s *AuthService) DeleteAccountRequest(ctx context.Context, sessionID string, accountID int64) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	code, err := s.challenges.Start(sessionID, domain.FlowDeletion, domain.ChallengePayload{
		AccountID: account.ID,
	})
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	if err := s.mail.SendDeletionOTP(account.Email, account.Name, code); err != nil {
		s.challenges.Cancel(sessionID, domain.FlowDeletion)
		return domain.ErrEmailDelivery.WithError(err)
	}

	return nil
}

// DeleteAccountConfirm consumes the deletion challenge and removes the
// account. History rows cascade with the row; photo removal and the farewell
// mail are best-effort and never roll the deletion back.
func (s *AuthService) DeleteAccountConfirm(ctx context.Context, sessionID string, accountID int64, code string) error {
	if !otp.ValidFormat(code) {
		return domain.ErrOTPMismatch
	}

	payload, err := s.challenges.Verify(sessionID, domain.FlowDeletion, code)
	if err != nil {
		return err
	}
	if payload.AccountID != accountID {
		return domain.ErrNoChallenge
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	photoPath, err := s.accounts.Delete(ctx, account.ID)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	s.deletePhoto(ctx, photoPath)

	if err := s.mail.SendAccountDeleted(account.Email, account.Name); err != nil {
		s.logger.Warn("deletion notice not delivered",
			slog.String("email", account.Email),
			slog.Any("error", err),
		)
	}

	s.logger.Info("account deleted", slog.Int64("account_id", account.ID))
	return nil
}

// Profile returns the account bound to an authenticated session.
func (s *AuthService) Profile(ctx context.Context, accountID int64) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, accountID)
}

// SecurityReport lists the most recent login attempts, newest first.
func (s *AuthService) SecurityReport(ctx context.Context, accountID int64) ([]domain.LoginRecord, error) {
	records, err := s.history.ListByAccount(ctx, accountID, repository.DefaultHistoryLimit)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}
	if records == nil {
		records = []domain.LoginRecord{}
	}
	return records, nil
}

// removeAccount deletes the row and its photo. Used for stale-unverified
// teardown and registration compensations.
func (s *AuthService) removeAccount(ctx context.Context, accountID int64) error {
	photoPath, err := s.accounts.Delete(ctx, accountID)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}
	s.deletePhoto(ctx, photoPath)
	return nil
}

func (s *AuthService) deletePhoto(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.photos.Delete(ctx, path); err != nil {
		s.logger.Warn("photo cleanup failed",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
}

// recordAttempt writes a login-history row. History is observability, not
// control flow, so failures are logged and swallowed.
func (s *AuthService) recordAttempt(ctx context.Context, accountID int64, success bool, similarity *float64, ip, userAgent, reason string) {
	rec := &domain.LoginRecord{
		AccountID:     accountID,
		Success:       success,
		Similarity:    similarity,
		IP:            ip,
		UserAgent:     userAgent,
		FailureReason: reason,
	}
	if err := s.history.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to record login attempt",
			slog.Int64("account_id", accountID),
			slog.Any("error", err),
		)
	}
}
