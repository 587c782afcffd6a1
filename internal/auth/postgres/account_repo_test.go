// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
)

func newTestAccount(t *testing.T) *auth.Account {
	t.Helper()
	return &auth.Account{
		ID:           ulid.Make(),
		Email:        "a@b.com",
		PasswordHash: "$argon2id$digest",
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface, account *auth.Account)
		checkErr  func(t *testing.T, err error)
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface, account *auth.Account) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(account.ID.String(), account.Email, account.PasswordHash, account.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			checkErr: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "unique violation maps to ErrDuplicateEmail",
			setupMock: func(mock pgxmock.PgxPoolIface, account *auth.Account) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(account.ID.String(), account.Email, account.PasswordHash, account.CreatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
			},
		},
		{
			name: "other database errors pass through wrapped",
			setupMock: func(mock pgxmock.PgxPoolIface, account *auth.Account) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(account.ID.String(), account.Email, account.PasswordHash, account.CreatedAt).
					WillReturnError(errors.New("connection refused"))
			},
			checkErr: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.NotErrorIs(t, err, auth.ErrDuplicateEmail)
				assert.Contains(t, err.Error(), "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			account := newTestAccount(t)
			tt.setupMock(mock, account)

			repo := NewAccountRepository(mock)
			tt.checkErr(t, repo.Create(ctx, account))

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored account", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := newTestAccount(t)
		rows := pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(account.ID.String(), account.Email, account.PasswordHash, account.CreatedAt)
		mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
			WithArgs("a@b.com").
			WillReturnRows(rows)

		repo := NewAccountRepository(mock)
		got, err := repo.GetByEmail(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, account.Email, got.Email)
		assert.Equal(t, account.PasswordHash, got.PasswordHash)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
			WithArgs("missing@b.com").
			WillReturnError(pgx.ErrNoRows)

		repo := NewAccountRepository(mock)
		_, err = repo.GetByEmail(ctx, "missing@b.com")
		assert.ErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt id in storage is an error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("not-a-ulid", "a@b.com", "digest", time.Now())
		mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
			WithArgs("a@b.com").
			WillReturnRows(rows)

		repo := NewAccountRepository(mock)
		_, err = repo.GetByEmail(ctx, "a@b.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error passes through wrapped", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
			WithArgs("a@b.com").
			WillReturnError(errors.New("connection refused"))

		repo := NewAccountRepository(mock)
		_, err = repo.GetByEmail(ctx, "a@b.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
