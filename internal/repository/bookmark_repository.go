package repository

import (
	"context"
	"fmt"
	"time"

	"prepdeck/internal/domain"

	"github.com/jmoiron/sqlx"
)

// sqlxBookmarkRepository implements domain.BookmarkRepository using sqlx.
type sqlxBookmarkRepository struct {
	db *sqlx.DB
}

// NewSQLXBookmarkRepository creates a new instance of sqlxBookmarkRepository.
func NewSQLXBookmarkRepository(db *sqlx.DB) domain.BookmarkRepository {
	return &sqlxBookmarkRepository{db: db}
}

// ListQuestionIDs returns the IDs of the user's bookmarked questions,
// newest first.
func (r *sqlxBookmarkRepository) ListQuestionIDs(ctx context.Context, userID string) ([]string, error) {
	executor := GetExecutor(ctx, r.db)
	var ids []string
	query := `SELECT question_id FROM bookmarks WHERE user_id = $1 ORDER BY created_at DESC`
	if err := executor.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return ids, nil
}

// Exists reports whether the user has bookmarked the question.
func (r *sqlxBookmarkRepository) Exists(ctx context.Context, userID, questionID string) (bool, error) {
	executor := GetExecutor(ctx, r.db)
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND question_id = $2)`
	if err := executor.GetContext(ctx, &exists, query, userID, questionID); err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return exists, nil
}

// Save inserts a bookmark. Re-bookmarking an already saved question is a
// no-op via the unique (user_id, question_id) index.
func (r *sqlxBookmarkRepository) Save(ctx context.Context, bookmark *domain.Bookmark) error {
	executor := GetExecutor(ctx, r.db)
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now()
	}
	query := `INSERT INTO bookmarks (id, user_id, question_id, created_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, question_id) DO NOTHING`
	if _, err := executor.ExecContext(ctx, query, bookmark.ID, bookmark.UserID, bookmark.QuestionID, bookmark.CreatedAt); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

// Delete removes a bookmark. Deleting a missing bookmark is not an error.
func (r *sqlxBookmarkRepository) Delete(ctx context.Context, userID, questionID string) error {
	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND question_id = $2`, userID, questionID); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}
