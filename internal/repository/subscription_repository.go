package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prepdeck/internal/domain"
	"prepdeck/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxSubscriptionRepository implements domain.SubscriptionRepository using sqlx.
type sqlxSubscriptionRepository struct {
	db *sqlx.DB
}

// NewSQLXSubscriptionRepository creates a new instance of sqlxSubscriptionRepository.
func NewSQLXSubscriptionRepository(db *sqlx.DB) domain.SubscriptionRepository {
	return &sqlxSubscriptionRepository{db: db}
}

func toDomainSubscription(m *models.Subscription) *domain.Subscription {
	if m == nil {
		return nil
	}
	return &domain.Subscription{
		ID:        m.ID,
		UserID:    m.UserID,
		ExamID:    m.ExamID,
		StartsAt:  m.StartsAt,
		ExpiresAt: m.ExpiresAt,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

const subscriptionColumns = `id, user_id, exam_id, starts_at, expires_at, is_active, created_at`

// HasActive reports whether any row grants the user access to the exam now.
func (r *sqlxSubscriptionRepository) HasActive(ctx context.Context, userID, examID string, now time.Time) (bool, error) {
	executor := GetExecutor(ctx, r.db)
	var exists bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM subscriptions
	            WHERE user_id = $1 AND exam_id = $2 AND is_active = TRUE AND expires_at > $3
	          )`
	if err := executor.GetContext(ctx, &exists, query, userID, examID, now); err != nil {
		return false, fmt.Errorf("failed to check active subscription: %w", err)
	}
	return exists, nil
}

// GetActive returns the granting row with the latest expiry, or nil, nil.
func (r *sqlxSubscriptionRepository) GetActive(ctx context.Context, userID, examID string, now time.Time) (*domain.Subscription, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.Subscription
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
	          WHERE user_id = $1 AND exam_id = $2 AND is_active = TRUE AND expires_at > $3
	          ORDER BY expires_at DESC
	          LIMIT 1`
	if err := executor.GetContext(ctx, &m, query, userID, examID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return toDomainSubscription(&m), nil
}

// ListByUser returns every subscription row for the user, newest first.
func (r *sqlxSubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.Subscription
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
	          WHERE user_id = $1
	          ORDER BY created_at DESC`
	if err := executor.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	subs := make([]*domain.Subscription, len(rows))
	for i := range rows {
		subs[i] = toDomainSubscription(&rows[i])
	}
	return subs, nil
}

// Save inserts a new subscription row.
func (r *sqlxSubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	executor := GetExecutor(ctx, r.db)
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	query := `INSERT INTO subscriptions (id, user_id, exam_id, starts_at, expires_at, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := executor.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.ExamID, sub.StartsAt, sub.ExpiresAt, sub.IsActive, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

// ExtendExpiry moves an existing row's expires_at forward.
func (r *sqlxSubscriptionRepository) ExtendExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx,
		`UPDATE subscriptions SET expires_at = $2 WHERE id = $1`, id, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to extend subscription: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFoundError("subscription not found")
	}
	return nil
}

// Deactivate turns a row off without deleting its history.
func (r *sqlxSubscriptionRepository) Deactivate(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx,
		`UPDATE subscriptions SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFoundError("subscription not found")
	}
	return nil
}
