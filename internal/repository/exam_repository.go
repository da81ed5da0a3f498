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

// sqlxExamRepository implements domain.ExamRepository using sqlx.
type sqlxExamRepository struct {
	db *sqlx.DB
}

// NewSQLXExamRepository creates a new instance of sqlxExamRepository.
func NewSQLXExamRepository(db *sqlx.DB) domain.ExamRepository {
	return &sqlxExamRepository{db: db}
}

func toDomainExam(m *models.Exam) *domain.Exam {
	if m == nil {
		return nil
	}
	return &domain.Exam{
		ID:                 m.ID,
		Slug:               m.Slug,
		Title:              m.Title,
		Description:        m.Description.String,
		ImageURL:           m.ImageURL.String,
		DemoQuestionsLimit: util.NullInt64ToIntPtr(m.DemoQuestionsLimit),
		IsActive:           m.IsActive,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func fromDomainExam(e *domain.Exam) *models.Exam {
	if e == nil {
		return nil
	}
	return &models.Exam{
		ID:                 e.ID,
		Slug:               e.Slug,
		Title:              e.Title,
		Description:        util.StringToNullString(e.Description),
		ImageURL:           util.StringToNullString(e.ImageURL),
		DemoQuestionsLimit: util.IntPtrToNullInt64(e.DemoQuestionsLimit),
		IsActive:           e.IsActive,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

const examColumns = `id, slug, title, description, image_url, demo_questions_limit, is_active, created_at, updated_at`

// GetByID retrieves an exam by its ID. Returns nil, nil when no row matches.
func (r *sqlxExamRepository) GetByID(ctx context.Context, id string) (*domain.Exam, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.Exam
	query := `SELECT ` + examColumns + ` FROM exams WHERE id = $1`
	if err := executor.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exam by id: %w", err)
	}
	return toDomainExam(&m), nil
}

// GetBySlug retrieves an exam by its URL slug. Returns nil, nil when no row matches.
func (r *sqlxExamRepository) GetBySlug(ctx context.Context, slug string) (*domain.Exam, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.Exam
	query := `SELECT ` + examColumns + ` FROM exams WHERE slug = $1`
	if err := executor.GetContext(ctx, &m, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exam by slug: %w", err)
	}
	return toDomainExam(&m), nil
}

// ListActive returns all active exams ordered by title.
func (r *sqlxExamRepository) ListActive(ctx context.Context) ([]*domain.Exam, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.Exam
	query := `SELECT ` + examColumns + ` FROM exams WHERE is_active = TRUE ORDER BY title`
	if err := executor.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list active exams: %w", err)
	}
	exams := make([]*domain.Exam, len(rows))
	for i := range rows {
		exams[i] = toDomainExam(&rows[i])
	}
	return exams, nil
}

// Save inserts a new exam.
func (r *sqlxExamRepository) Save(ctx context.Context, exam *domain.Exam) error {
	executor := GetExecutor(ctx, r.db)
	m := fromDomainExam(exam)
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	query := `INSERT INTO exams (id, slug, title, description, image_url, demo_questions_limit, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := executor.ExecContext(ctx, query,
		m.ID, m.Slug, m.Title, m.Description, m.ImageURL, m.DemoQuestionsLimit, m.IsActive, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save exam: %w", err)
	}
	return nil
}

// Update persists changes to an existing exam.
func (r *sqlxExamRepository) Update(ctx context.Context, exam *domain.Exam) error {
	executor := GetExecutor(ctx, r.db)
	m := fromDomainExam(exam)
	m.UpdatedAt = time.Now()

	query := `UPDATE exams SET
	            slug = $2,
	            title = $3,
	            description = $4,
	            image_url = $5,
	            demo_questions_limit = $6,
	            is_active = $7,
	            updated_at = $8
	          WHERE id = $1`
	result, err := executor.ExecContext(ctx, query,
		m.ID, m.Slug, m.Title, m.Description, m.ImageURL, m.DemoQuestionsLimit, m.IsActive, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update exam: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewExamNotFoundError(exam.ID)
	}
	return nil
}
