package domain

import (
	"time"
)

// EmbeddingDim is the fixed dimensionality of every stored face embedding
// (Facenet512). All providers must produce vectors of this length.
const EmbeddingDim = 512

// Account is a registered user. Unverified accounts are provisional: they
// carry the activation OTP material on the row and are swept after the
// configured window if never activated.
type Account struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Embedding    []float64  `json:"-"`
	PhotoPath    string     `json:"-"`
	IsVerified   bool       `json:"is_verified"`
	OTPHash      string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// OTPValid reports whether the row-held activation OTP is still inside its
// expiry window.
func (a *Account) OTPValid(now time.Time) bool {
	if a.OTPExpiresAt == nil {
		return false
	}
	return now.Before(*a.OTPExpiresAt)
}

// LoginRecord is one append-only login-history entry. Rows are owned by the
// account and cascade-deleted with it.
type LoginRecord struct {
	ID            int64     `json:"id"`
	AccountID     int64     `json:"-"`
	AttemptedAt   time.Time `json:"attempted_at"`
	Success       bool      `json:"success"`
	Similarity    *float64  `json:"similarity,omitempty"`
	IP            string    `json:"ip,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
}
