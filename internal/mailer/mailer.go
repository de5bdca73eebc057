// Package mailer delivers the transactional mail the auth flows depend on:
// activation codes, login codes and alerts, deletion codes, and the final
// deletion notice. Delivery failures are returned to the caller, who decides
// whether they abort the flow (activation) or are best-effort (alerts).
package mailer

import (
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"
)

// Sender is the boundary the orchestrator depends on; the SMTP Mailer is
// the production implementation.
type Sender interface {
	SendActivationOTP(to, name, code string) error
	SendLoginOTP(to, name, code string) error
	SendLoginAlert(to, name string, lastLogin *time.Time, similarity float64) error
	SendFaceUpdateOTP(to, name, code string) error
	SendDeletionOTP(to, name, code string) error
	SendAccountDeleted(to, name string) error
}

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends templated mail over SMTP via gomail.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

var _ Sender = (*Mailer)(nil)

func New(cfg Config, logger *slog.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (m *Mailer) send(to, subject, htmlBody, textBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Warn("email delivery failed",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.Any("error", err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

// SendActivationOTP mails the account-activation code issued at sign-up.
func (m *Mailer) SendActivationOTP(to, name, code string) error {
	html, text := renderOTP(name, code, "Verify your account",
		"Use this code to activate your Facegate account. It expires in 10 minutes.")
	return m.send(to, "Verify Your Account - Facegate", html, text)
}

// SendLoginOTP mails the second-factor code after a successful face match.
func (m *Mailer) SendLoginOTP(to, name, code string) error {
	html, text := renderOTP(name, code, "Confirm your login",
		"Your face matched. Enter this code to finish signing in. It expires in 10 minutes.")
	return m.send(to, "Confirm Your Login - Facegate", html, text)
}

// SendLoginAlert notifies the account holder of a completed login.
func (m *Mailer) SendLoginAlert(to, name string, lastLogin *time.Time, similarity float64) error {
	html, text := renderLoginAlert(name, lastLogin, similarity)
	return m.send(to, "New Login To Your Account - Facegate", html, text)
}

// SendFaceUpdateOTP mails the code confirming a face re-enrollment request.
func (m *Mailer) SendFaceUpdateOTP(to, name, code string) error {
	html, text := renderOTP(name, code, "Confirm your new photo",
		"You asked to update your enrolled face photo. Enter this code to confirm. It expires in 10 minutes.")
	return m.send(to, "Confirm Face Update - Facegate", html, text)
}

// SendDeletionOTP mails the code confirming an account-deletion request.
func (m *Mailer) SendDeletionOTP(to, name, code string) error {
	html, text := renderOTP(name, code, "Confirm account deletion",
		"You asked us to delete your account. Enter this code to confirm. It expires in 10 minutes. If this wasn't you, change your password immediately.")
	return m.send(to, "Confirm Account Deletion - Facegate", html, text)
}

// SendAccountDeleted sends the final notice after the account row is gone.
func (m *Mailer) SendAccountDeleted(to, name string) error {
	html, text := renderAccountDeleted(name)
	return m.send(to, "Your Account Has Been Deleted - Facegate", html, text)
}
