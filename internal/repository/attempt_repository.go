package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"prepdeck/internal/domain"
	"prepdeck/internal/repository/models"
	"prepdeck/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxAttemptRepository implements domain.AttemptRepository using sqlx.
// Attempt rows live in the tests table, their fixed question lists in
// test_questions.
type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates a new instance of sqlxAttemptRepository.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func toDomainAttempt(m *models.Test) *domain.Attempt {
	if m == nil {
		return nil
	}
	return &domain.Attempt{
		ID:               m.ID,
		UserID:           m.UserID,
		ExamID:           m.ExamID,
		ContentNodeID:    util.NullStringToPtr(m.ContentNodeID),
		IsMock:           m.IsMock,
		TotalQuestions:   m.TotalQuestions,
		CorrectAnswers:   m.CorrectAnswers,
		StartedAt:        m.StartedAt,
		CompletedAt:      util.NullTimeToPtr(m.CompletedAt),
		TimeLimitSeconds: util.NullInt64ToIntPtr(m.TimeLimitSeconds),
		TimeTakenSeconds: util.NullInt64ToIntPtr(m.TimeTakenSeconds),
	}
}

func toDomainAttemptQuestion(m *models.TestQuestion) *domain.AttemptQuestion {
	if m == nil {
		return nil
	}
	return &domain.AttemptQuestion{
		ID:             m.ID,
		AttemptID:      m.TestID,
		QuestionID:     m.QuestionID,
		OrderIndex:     m.OrderIndex,
		SelectedOption: util.NullInt64ToIntPtr(m.SelectedOption),
		IsCorrect:      util.NullBoolToPtr(m.IsCorrect),
		AnsweredAt:     util.NullTimeToPtr(m.AnsweredAt),
	}
}

const attemptColumns = `id, user_id, exam_id, content_node_id, is_mock, total_questions, correct_answers, started_at, completed_at, time_limit_seconds, time_taken_seconds`

// CreateWithQuestions persists the attempt and its fixed question list in a
// single transaction. Nothing is started if any insert fails.
func (r *sqlxAttemptRepository) CreateWithQuestions(ctx context.Context, attempt *domain.Attempt, questions []*domain.AttemptQuestion) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if attempt.StartedAt.IsZero() {
		attempt.StartedAt = time.Now()
	}

	var contentNodeID sql.NullString
	if attempt.ContentNodeID != nil {
		contentNodeID = util.StringToNullString(*attempt.ContentNodeID)
	}

	insertAttempt := `INSERT INTO tests (id, user_id, exam_id, content_node_id, is_mock, total_questions, correct_answers, started_at, time_limit_seconds)
	                  VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)`
	if _, err := tx.ExecContext(ctx, insertAttempt,
		attempt.ID, attempt.UserID, attempt.ExamID, contentNodeID, attempt.IsMock,
		attempt.TotalQuestions, attempt.StartedAt, util.IntPtrToNullInt64(attempt.TimeLimitSeconds)); err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}

	if len(questions) > 0 {
		valueClauses := make([]string, 0, len(questions))
		args := make([]interface{}, 0, len(questions)*4)
		for i, q := range questions {
			base := i * 4
			valueClauses = append(valueClauses, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
			args = append(args, q.ID, attempt.ID, q.QuestionID, q.OrderIndex)
		}
		insertQuestions := `INSERT INTO test_questions (id, test_id, question_id, order_index) VALUES ` +
			strings.Join(valueClauses, ", ")
		if _, err := tx.ExecContext(ctx, insertQuestions, args...); err != nil {
			return fmt.Errorf("failed to insert attempt questions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit attempt creation: %w", err)
	}
	return nil
}

// GetByID retrieves an attempt. Returns nil, nil when no row matches.
func (r *sqlxAttemptRepository) GetByID(ctx context.Context, id string) (*domain.Attempt, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.Test
	query := `SELECT ` + attemptColumns + ` FROM tests WHERE id = $1`
	if err := executor.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attempt by id: %w", err)
	}
	return toDomainAttempt(&m), nil
}

// GetInProgressPractice returns the newest unfinished practice attempt for
// (user, exam), or nil, nil.
func (r *sqlxAttemptRepository) GetInProgressPractice(ctx context.Context, userID, examID string) (*domain.Attempt, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.Test
	query := `SELECT ` + attemptColumns + ` FROM tests
	          WHERE user_id = $1 AND exam_id = $2 AND is_mock = FALSE AND completed_at IS NULL
	          ORDER BY started_at DESC
	          LIMIT 1`
	if err := executor.GetContext(ctx, &m, query, userID, examID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get in-progress attempt: %w", err)
	}
	return toDomainAttempt(&m), nil
}

// GetQuestions returns the attempt's fixed question list in order.
func (r *sqlxAttemptRepository) GetQuestions(ctx context.Context, attemptID string) ([]*domain.AttemptQuestion, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.TestQuestion
	query := `SELECT id, test_id, question_id, order_index, selected_option, is_correct, answered_at
	          FROM test_questions
	          WHERE test_id = $1
	          ORDER BY order_index`
	if err := executor.SelectContext(ctx, &rows, query, attemptID); err != nil {
		return nil, fmt.Errorf("failed to get attempt questions: %w", err)
	}
	questions := make([]*domain.AttemptQuestion, len(rows))
	for i := range rows {
		questions[i] = toDomainAttemptQuestion(&rows[i])
	}
	return questions, nil
}

// RecordAnswer overwrites the selection for one attempt question.
func (r *sqlxAttemptRepository) RecordAnswer(ctx context.Context, attemptID, questionID string, selectedOption int, isCorrect bool, answeredAt time.Time) error {
	executor := GetExecutor(ctx, r.db)
	query := `UPDATE test_questions SET
	            selected_option = $3,
	            is_correct = $4,
	            answered_at = $5
	          WHERE test_id = $1 AND question_id = $2`
	result, err := executor.ExecContext(ctx, query, attemptID, questionID, selectedOption, isCorrect, answeredAt)
	if err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewQuestionNotFoundError(questionID)
	}
	return nil
}

// Complete finalizes the attempt at most once. The update is conditional on
// completed_at still being NULL, so a concurrent duplicate sees zero rows
// affected and returns false.
func (r *sqlxAttemptRepository) Complete(ctx context.Context, attemptID string, correctAnswers int, completedAt time.Time, timeTakenSeconds *int) (bool, error) {
	executor := GetExecutor(ctx, r.db)
	query := `UPDATE tests SET
	            correct_answers = $2,
	            completed_at = $3,
	            time_taken_seconds = $4
	          WHERE id = $1 AND completed_at IS NULL`
	result, err := executor.ExecContext(ctx, query, attemptID, correctAnswers, completedAt, util.IntPtrToNullInt64(timeTakenSeconds))
	if err != nil {
		return false, fmt.Errorf("failed to complete attempt: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// ListByUser returns the user's attempts newest first, with the total count
// for pagination.
func (r *sqlxAttemptRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Attempt, int, error) {
	executor := GetExecutor(ctx, r.db)

	var total int
	if err := executor.GetContext(ctx, &total, `SELECT COUNT(*) FROM tests WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count attempts: %w", err)
	}

	var rows []models.Test
	query := `SELECT ` + attemptColumns + ` FROM tests
	          WHERE user_id = $1
	          ORDER BY started_at DESC
	          LIMIT $2 OFFSET $3`
	if err := executor.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}

	attempts := make([]*domain.Attempt, len(rows))
	for i := range rows {
		attempts[i] = toDomainAttempt(&rows[i])
	}
	return attempts, total, nil
}
