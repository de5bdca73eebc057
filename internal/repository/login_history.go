package repository

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// DefaultHistoryLimit caps security-report listings.
const DefaultHistoryLimit = 50

type LoginHistoryRepository struct {
	pool PgxPool
}

func NewLoginHistoryRepository(pool PgxPool) *LoginHistoryRepository {
	return &LoginHistoryRepository{pool: pool}
}

func (r *LoginHistoryRepository) Record(ctx context.Context, rec *domain.LoginRecord) error {
	query := `
		INSERT INTO login_history (account_id, attempted_at, success, similarity, ip, user_agent, failure_reason)
		VALUES ($1, NOW(), $2, $3, $4, $5, $6)
		RETURNING id, attempted_at
	`

	err := r.pool.QueryRow(ctx, query,
		rec.AccountID,
		rec.Success,
		rec.Similarity,
		nullableString(rec.IP),
		nullableString(rec.UserAgent),
		nullableString(rec.FailureReason),
	).Scan(&rec.ID, &rec.AttemptedAt)

	if err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}

	return nil
}

func (r *LoginHistoryRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]domain.LoginRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, account_id, attempted_at, success, similarity, ip, user_agent, failure_reason
		FROM login_history
		WHERE account_id = $1
		ORDER BY attempted_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list login history: %w", err)
	}
	defer rows.Close()

	var records []domain.LoginRecord
	for rows.Next() {
		var rec domain.LoginRecord
		var ip, userAgent, failureReason *string

		err := rows.Scan(
			&rec.ID,
			&rec.AccountID,
			&rec.AttemptedAt,
			&rec.Success,
			&rec.Similarity,
			&ip,
			&userAgent,
			&failureReason,
		)
		if err != nil {
			return nil, fmt.Errorf("list login history: %w", err)
		}

		rec.IP = derefString(ip)
		rec.UserAgent = derefString(userAgent)
		rec.FailureReason = derefString(failureReason)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list login history: %w", err)
	}

	return records, nil
}
