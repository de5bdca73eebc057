package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// AccountRepository Tests

func TestAccountRepository_Create(t *testing.T) {
	now := time.Now()
	expires := now.Add(10 * time.Minute)

	tests := []struct {
		name      string
		account   *domain.Account
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful creation",
			account: &domain.Account{
				Name:         "Ana Souza",
				Email:        "ana@example.com",
				PasswordHash: "$2a$10$hash",
				Embedding:    []float64{0.1, 0.2, 0.3},
				PhotoPath:    "photos/ana.jpg",
				OTPHash:      "$2a$10$otp",
				OTPExpiresAt: &expires,
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now)
				mock.ExpectQuery(`INSERT INTO accounts`).
					WithArgs(
						"Ana Souza",
						"ana@example.com",
						"$2a$10$hash",
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						false,
						pgxmock.AnyArg(),
						&expires,
					).
					WillReturnRows(rows)
			},
			wantErr: nil,
		},
		{
			name: "duplicate email",
			account: &domain.Account{
				Name:         "Ana Souza",
				Email:        "ana@example.com",
				PasswordHash: "$2a$10$hash",
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO accounts`).
					WithArgs(
						"Ana Souza",
						"ana@example.com",
						"$2a$10$hash",
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						false,
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
					).
					WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "accounts_email_key" (SQLSTATE 23505)`))
			},
			wantErr: domain.ErrEmailExists,
		},
		{
			name: "database error",
			account: &domain.Account{
				Name:         "Ana Souza",
				Email:        "ana@example.com",
				PasswordHash: "$2a$10$hash",
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO accounts`).
					WithArgs(
						"Ana Souza",
						"ana@example.com",
						"$2a$10$hash",
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						false,
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
					).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("create account: connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewAccountRepository(mock)
			err = repo.Create(context.Background(), tt.account)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrEmailExists) {
					assert.ErrorIs(t, err, domain.ErrEmailExists)
				} else {
					assert.Contains(t, err.Error(), "create account")
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), tt.account.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_GetVerifiedByEmail(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		email     string
		mockSetup func(mock pgxmock.PgxPoolIface)
		want      *domain.Account
		wantErr   error
	}{
		{
			name:  "successful retrieval with embedding",
			email: "ana@example.com",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				embedding := pgvector.NewVector([]float32{0.1, 0.2, 0.3})
				photoPath := "photos/ana.jpg"
				rows := pgxmock.NewRows([]string{
					"id", "name", "email", "password_hash", "embedding", "photo_path",
					"is_verified", "otp_hash", "otp_expires_at", "created_at", "last_login_at",
				}).AddRow(
					int64(7),
					"Ana Souza",
					"ana@example.com",
					"$2a$10$hash",
					&embedding,
					&photoPath,
					true,
					nil,
					nil,
					now,
					nil,
				)

				mock.ExpectQuery(`SELECT .+ FROM accounts WHERE email = \$1 AND is_verified = TRUE`).
					WithArgs("ana@example.com").
					WillReturnRows(rows)
			},
			want: &domain.Account{
				ID:           7,
				Name:         "Ana Souza",
				Email:        "ana@example.com",
				PasswordHash: "$2a$10$hash",
				PhotoPath:    "photos/ana.jpg",
				IsVerified:   true,
				CreatedAt:    now,
			},
			wantErr: nil,
		},
		{
			name:  "account not found",
			email: "ghost@example.com",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM accounts WHERE email = \$1 AND is_verified = TRUE`).
					WithArgs("ghost@example.com").
					WillReturnError(pgx.ErrNoRows)
			},
			want:    nil,
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:  "database error",
			email: "err@example.com",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM accounts WHERE email = \$1 AND is_verified = TRUE`).
					WithArgs("err@example.com").
					WillReturnError(errors.New("timeout"))
			},
			want:    nil,
			wantErr: errors.New("get verified account by email: timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewAccountRepository(mock)
			got, err := repo.GetVerifiedByEmail(context.Background(), tt.email)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrAccountNotFound) {
					assert.ErrorIs(t, err, domain.ErrAccountNotFound)
				} else {
					assert.Contains(t, err.Error(), "get verified account by email")
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.want.ID, got.ID)
				assert.Equal(t, tt.want.Email, got.Email)
				assert.Equal(t, tt.want.PhotoPath, got.PhotoPath)
				assert.True(t, got.IsVerified)
				assert.Len(t, got.Embedding, 3)
				assert.InDelta(t, 0.1, got.Embedding[0], 1e-6)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_ListVerifiedWithEmbedding(t *testing.T) {
	now := time.Now()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	first := pgvector.NewVector([]float32{0.1, 0.2})
	second := pgvector.NewVector([]float32{0.3, 0.4})
	rows := pgxmock.NewRows([]string{
		"id", "name", "email", "password_hash", "embedding", "photo_path",
		"is_verified", "otp_hash", "otp_expires_at", "created_at", "last_login_at",
	}).
		AddRow(int64(1), "First", "first@example.com", "h1", &first, nil, true, nil, nil, now, nil).
		AddRow(int64(2), "Second", "second@example.com", "h2", &second, nil, true, nil, nil, now, nil)

	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE is_verified = TRUE AND embedding IS NOT NULL ORDER BY id ASC`).
		WillReturnRows(rows)

	repo := NewAccountRepository(mock)
	got, err := repo.ListVerifiedWithEmbedding(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Len(t, got[0].Embedding, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Activate(t *testing.T) {
	tests := []struct {
		name      string
		id        int64
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful activation",
			id:   7,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE accounts SET is_verified = TRUE, otp_hash = NULL, otp_expires_at = NULL WHERE id = \$1`).
					WithArgs(int64(7)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			wantErr: nil,
		},
		{
			name: "account not found",
			id:   99,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE accounts SET is_verified = TRUE, otp_hash = NULL, otp_expires_at = NULL WHERE id = \$1`).
					WithArgs(int64(99)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewAccountRepository(mock)
			err = repo.Activate(context.Background(), tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_Delete(t *testing.T) {
	tests := []struct {
		name      string
		id        int64
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantPath  string
		wantErr   error
	}{
		{
			name: "delete returns photo path",
			id:   7,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				photoPath := "photos/ana.jpg"
				rows := pgxmock.NewRows([]string{"photo_path"}).AddRow(&photoPath)
				mock.ExpectQuery(`DELETE FROM accounts WHERE id = \$1 RETURNING photo_path`).
					WithArgs(int64(7)).
					WillReturnRows(rows)
			},
			wantPath: "photos/ana.jpg",
			wantErr:  nil,
		},
		{
			name: "delete with no photo",
			id:   8,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"photo_path"}).AddRow(nil)
				mock.ExpectQuery(`DELETE FROM accounts WHERE id = \$1 RETURNING photo_path`).
					WithArgs(int64(8)).
					WillReturnRows(rows)
			},
			wantPath: "",
			wantErr:  nil,
		},
		{
			name: "account not found",
			id:   99,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`DELETE FROM accounts WHERE id = \$1 RETURNING photo_path`).
					WithArgs(int64(99)).
					WillReturnError(pgx.ErrNoRows)
			},
			wantPath: "",
			wantErr:  domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewAccountRepository(mock)
			path, err := repo.Delete(context.Background(), tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPath, path)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_DeleteIfStale(t *testing.T) {
	cutoff := time.Now().Add(-time.Hour)

	tests := []struct {
		name        string
		id          int64
		mockSetup   func(mock pgxmock.PgxPoolIface)
		wantDeleted bool
	}{
		{
			name: "stale row is deleted",
			id:   7,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT is_verified = FALSE AND created_at < \$2 FROM accounts WHERE id = \$1 FOR UPDATE`).
					WithArgs(int64(7), cutoff).
					WillReturnRows(pgxmock.NewRows([]string{"stale"}).AddRow(true))
				mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
					WithArgs(int64(7)).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectCommit()
			},
			wantDeleted: true,
		},
		{
			name: "activated in the meantime is kept",
			id:   8,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT is_verified = FALSE AND created_at < \$2 FROM accounts WHERE id = \$1 FOR UPDATE`).
					WithArgs(int64(8), cutoff).
					WillReturnRows(pgxmock.NewRows([]string{"stale"}).AddRow(false))
				mock.ExpectRollback()
			},
			wantDeleted: false,
		},
		{
			name: "row already gone",
			id:   9,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT is_verified = FALSE AND created_at < \$2 FROM accounts WHERE id = \$1 FOR UPDATE`).
					WithArgs(int64(9), cutoff).
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectRollback()
			},
			wantDeleted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewAccountRepository(mock)
			deleted, err := repo.DeleteIfStale(context.Background(), tt.id, cutoff)

			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, deleted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// LoginHistoryRepository Tests

func TestLoginHistoryRepository_Record(t *testing.T) {
	now := time.Now()
	similarity := 0.91

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "attempted_at"}).AddRow(int64(42), now)
	mock.ExpectQuery(`INSERT INTO login_history`).
		WithArgs(int64(7), true, &similarity, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(rows)

	repo := NewLoginHistoryRepository(mock)
	rec := &domain.LoginRecord{
		AccountID:  7,
		Success:    true,
		Similarity: &similarity,
		IP:         "203.0.113.9",
		UserAgent:  "Mozilla/5.0",
	}
	err = repo.Record(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginHistoryRepository_ListByAccount(t *testing.T) {
	now := time.Now()
	similarity := 0.87

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ip := "203.0.113.9"
	reason := "face_mismatch"
	rows := pgxmock.NewRows([]string{
		"id", "account_id", "attempted_at", "success", "similarity", "ip", "user_agent", "failure_reason",
	}).
		AddRow(int64(2), int64(7), now, false, &similarity, &ip, nil, &reason).
		AddRow(int64(1), int64(7), now.Add(-time.Minute), true, &similarity, &ip, nil, nil)

	mock.ExpectQuery(`SELECT id, account_id, attempted_at, success, similarity, ip, user_agent, failure_reason FROM login_history WHERE account_id = \$1 ORDER BY attempted_at DESC LIMIT \$2`).
		WithArgs(int64(7), 50).
		WillReturnRows(rows)

	repo := NewLoginHistoryRepository(mock)
	got, err := repo.ListByAccount(context.Background(), 7, 0)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.False(t, got[0].Success)
	assert.Equal(t, "face_mismatch", got[0].FailureReason)
	assert.True(t, got[1].Success)
	assert.Equal(t, "", got[1].FailureReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}
