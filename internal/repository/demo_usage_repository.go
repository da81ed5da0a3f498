package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prepdeck/internal/domain"
	"prepdeck/internal/repository/models"
	"prepdeck/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxDemoUsageRepository implements domain.DemoUsageRepository using sqlx.
type sqlxDemoUsageRepository struct {
	db *sqlx.DB
}

// NewSQLXDemoUsageRepository creates a new instance of sqlxDemoUsageRepository.
func NewSQLXDemoUsageRepository(db *sqlx.DB) domain.DemoUsageRepository {
	return &sqlxDemoUsageRepository{db: db}
}

func toDomainDemoUsage(m *models.DemoUsage) *domain.DemoUsage {
	if m == nil {
		return nil
	}
	return &domain.DemoUsage{
		ID:                 m.ID,
		UserID:             m.UserID,
		ExamID:             m.ExamID,
		DemoCompleted:      m.DemoCompleted,
		QuestionsAttempted: m.QuestionsAttempted,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// Get retrieves the demo usage row for (user, exam). Returns nil, nil when
// the trial has never been attempted.
func (r *sqlxDemoUsageRepository) Get(ctx context.Context, userID, examID string) (*domain.DemoUsage, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.DemoUsage
	query := `SELECT id, user_id, exam_id, demo_completed, questions_attempted, created_at, updated_at
	          FROM demo_usage WHERE user_id = $1 AND exam_id = $2`
	if err := executor.GetContext(ctx, &m, query, userID, examID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get demo usage: %w", err)
	}
	return toDomainDemoUsage(&m), nil
}

// MarkCompleted records that the user has consumed the demo for the exam.
// The upsert rides the unique (user_id, exam_id) index, so concurrent calls
// and repeats converge on a single completed row.
func (r *sqlxDemoUsageRepository) MarkCompleted(ctx context.Context, userID, examID string, questionsAttempted int) error {
	executor := GetExecutor(ctx, r.db)
	now := time.Now()
	query := `INSERT INTO demo_usage (id, user_id, exam_id, demo_completed, questions_attempted, created_at, updated_at)
	          VALUES ($1, $2, $3, TRUE, $4, $5, $5)
	          ON CONFLICT (user_id, exam_id) DO UPDATE SET
	            demo_completed = TRUE,
	            questions_attempted = EXCLUDED.questions_attempted,
	            updated_at = EXCLUDED.updated_at`
	_, err := executor.ExecContext(ctx, query, util.NewULID(), userID, examID, questionsAttempted, now)
	if err != nil {
		return fmt.Errorf("failed to mark demo completed: %w", err)
	}
	return nil
}

// Delete removes the row, restoring never-attempted semantics. Deleting a
// missing row is not an error.
func (r *sqlxDemoUsageRepository) Delete(ctx context.Context, userID, examID string) error {
	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, `DELETE FROM demo_usage WHERE user_id = $1 AND exam_id = $2`, userID, examID); err != nil {
		return fmt.Errorf("failed to delete demo usage: %w", err)
	}
	return nil
}
