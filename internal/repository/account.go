package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

const accountColumns = `id, name, email, password_hash, embedding, photo_path, is_verified, otp_hash, otp_expires_at, created_at, last_login_at`

type AccountRepository struct {
	pool PgxPool
}

func NewAccountRepository(pool PgxPool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (name, email, password_hash, embedding, photo_path, is_verified, otp_hash, otp_expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.PasswordHash,
		toVector(account.Embedding),
		nullableString(account.PhotoPath),
		account.IsVerified,
		nullableString(account.OTPHash),
		account.OTPExpiresAt,
	).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, query, "get account by id", id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.getOne(ctx, query, "get account by email", email)
}

// GetVerifiedByEmail resolves only activated accounts. Unverified rows are
// invisible to login and pending-flow lookups.
func (r *AccountRepository) GetVerifiedByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 AND is_verified = TRUE`
	return r.getOne(ctx, query, "get verified account by email", email)
}

func (r *AccountRepository) getOne(ctx context.Context, query, op string, arg any) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return account, nil
}

// ListVerifiedWithEmbedding returns enrolled identities in ascending id
// order. The uniqueness scan depends on that ordering to report the oldest
// conflicting account deterministically.
func (r *AccountRepository) ListVerifiedWithEmbedding(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE is_verified = TRUE AND embedding IS NOT NULL
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list verified accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("list verified accounts: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list verified accounts: %w", err)
	}

	return accounts, nil
}

// Activate marks the account verified and clears the row-held OTP material.
func (r *AccountRepository) Activate(ctx context.Context, id int64) error {
	query := `
		UPDATE accounts
		SET is_verified = TRUE, otp_hash = NULL, otp_expires_at = NULL
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("activate account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) UpdateFace(ctx context.Context, id int64, embedding []float64, photoPath string) error {
	query := `
		UPDATE accounts
		SET embedding = $2, photo_path = $3
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, toVector(embedding), nullableString(photoPath))
	if err != nil {
		return fmt.Errorf("update face: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE accounts SET last_login_at = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes the account row and returns the stored photo path so the
// caller can clean up the object after the row is gone. Login history rows
// cascade.
func (r *AccountRepository) Delete(ctx context.Context, id int64) (string, error) {
	query := `DELETE FROM accounts WHERE id = $1 RETURNING photo_path`

	var photoPath *string
	err := r.pool.QueryRow(ctx, query, id).Scan(&photoPath)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete account: %w", err)
	}

	return derefString(photoPath), nil
}

func (r *AccountRepository) ListStaleUnverified(ctx context.Context, cutoff time.Time) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE is_verified = FALSE AND created_at < $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale unverified: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("list stale unverified: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stale unverified: %w", err)
	}

	return accounts, nil
}

// DeleteIfStale removes the account only if it is still unverified and still
// older than the cutoff at delete time. The re-check inside the transaction
// protects an account that activated between the sweep's listing and its
// delete.
func (r *AccountRepository) DeleteIfStale(ctx context.Context, id int64, cutoff time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("delete if stale: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var stillStale bool
	err = tx.QueryRow(ctx,
		`SELECT is_verified = FALSE AND created_at < $2 FROM accounts WHERE id = $1 FOR UPDATE`,
		id, cutoff,
	).Scan(&stillStale)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete if stale: check: %w", err)
	}
	if !stillStale {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return false, fmt.Errorf("delete if stale: delete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("delete if stale: commit: %w", err)
	}

	return true, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var embedding *pgvector.Vector
	var photoPath, otpHash *string

	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&embedding,
		&photoPath,
		&account.IsVerified,
		&otpHash,
		&account.OTPExpiresAt,
		&account.CreatedAt,
		&account.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	account.Embedding = fromVector(embedding)
	account.PhotoPath = derefString(photoPath)
	account.OTPHash = derefString(otpHash)

	return &account, nil
}
