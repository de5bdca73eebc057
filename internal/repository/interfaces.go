package repository

import (
	"context"
	"time"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// AccountRepositoryInterface defines operations for account data access
type AccountRepositoryInterface interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetVerifiedByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListVerifiedWithEmbedding(ctx context.Context) ([]domain.Account, error)
	Activate(ctx context.Context, id int64) error
	UpdateFace(ctx context.Context, id int64, embedding []float64, photoPath string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) (string, error)
	ListStaleUnverified(ctx context.Context, cutoff time.Time) ([]domain.Account, error)
	DeleteIfStale(ctx context.Context, id int64, cutoff time.Time) (bool, error)
}

// LoginHistoryRepositoryInterface defines operations for login history data access
type LoginHistoryRepositoryInterface interface {
	Record(ctx context.Context, rec *domain.LoginRecord) error
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]domain.LoginRecord, error)
}
