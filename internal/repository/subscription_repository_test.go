package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"prepdeck/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRepository_HasActive(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXSubscriptionRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Active", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
			WithArgs("user1", "exam1", now).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		has, err := repo.HasActive(ctx, "user1", "exam1", now)
		assert.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("NoneActive", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
			WithArgs("user2", "exam1", now).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		has, err := repo.HasActive(ctx, "user2", "exam1", now)
		assert.NoError(t, err)
		assert.False(t, has)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_GetActive(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXSubscriptionRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		expiresAt := now.Add(30 * 24 * time.Hour)
		rows := sqlmock.NewRows([]string{"id", "user_id", "exam_id", "starts_at", "expires_at", "is_active", "created_at"}).
			AddRow("sub1", "user1", "exam1", now.Add(-24*time.Hour), expiresAt, true, now.Add(-24*time.Hour))
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY expires_at DESC`)).
			WithArgs("user1", "exam1", now).
			WillReturnRows(rows)

		sub, err := repo.GetActive(ctx, "user1", "exam1", now)
		assert.NoError(t, err)
		require.NotNil(t, sub)
		assert.True(t, sub.Grants(now))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY expires_at DESC`)).
			WithArgs("user2", "exam1", now).
			WillReturnError(sql.ErrNoRows)

		sub, err := repo.GetActive(ctx, "user2", "exam1", now)
		assert.NoError(t, err)
		assert.Nil(t, sub)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubscriptionRepository_ExtendExpiry(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXSubscriptionRepository(db)
	ctx := context.Background()
	newExpiry := time.Now().Add(60 * 24 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions SET expires_at = $2 WHERE id = $1`)).
			WithArgs("sub1", newExpiry).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.ExtendExpiry(ctx, "sub1", newExpiry))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions SET expires_at = $2 WHERE id = $1`)).
			WithArgs("missing", newExpiry).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ExtendExpiry(ctx, "missing", newExpiry)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
