package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"prepdeck/internal/domain"
	"prepdeck/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a new sqlx.DB instance and sqlmock for repository testing.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

var examTestColumns = []string{"id", "slug", "title", "description", "image_url", "demo_questions_limit", "is_active", "created_at", "updated_at"}

func TestToDomainExam(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	m := &models.Exam{
		ID:                 "exam1",
		Slug:               "neet-pg",
		Title:              "NEET PG",
		Description:        sql.NullString{String: "Postgraduate medical entrance", Valid: true},
		DemoQuestionsLimit: sql.NullInt64{Int64: 5, Valid: true},
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	e := toDomainExam(m)
	require.NotNil(t, e)
	assert.Equal(t, m.ID, e.ID)
	assert.Equal(t, m.Slug, e.Slug)
	assert.Equal(t, m.Description.String, e.Description)
	require.NotNil(t, e.DemoQuestionsLimit)
	assert.Equal(t, 5, *e.DemoQuestionsLimit)

	// NULL limit maps to nil so the default kicks in downstream.
	m.DemoQuestionsLimit = sql.NullInt64{}
	e = toDomainExam(m)
	assert.Nil(t, e.DemoQuestionsLimit)
	assert.Equal(t, domain.DefaultDemoQuestionsLimit, e.DemoLimit())

	assert.Nil(t, toDomainExam(nil))
}

func TestExamRepository_GetBySlug(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXExamRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows(examTestColumns).
			AddRow("exam1", "neet-pg", "NEET PG", nil, nil, 5, true, now, now)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM exams WHERE slug = $1`)).
			WithArgs("neet-pg").
			WillReturnRows(rows)

		exam, err := repo.GetBySlug(ctx, "neet-pg")
		assert.NoError(t, err)
		require.NotNil(t, exam)
		assert.Equal(t, "exam1", exam.ID)
		assert.Equal(t, 5, exam.DemoLimit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM exams WHERE slug = $1`)).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		exam, err := repo.GetBySlug(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, exam)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExamRepository_ListActive(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXExamRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(examTestColumns).
		AddRow("exam1", "neet-pg", "NEET PG", nil, nil, nil, true, now, now).
		AddRow("exam2", "upsc-cse", "UPSC CSE", nil, nil, 20, true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM exams WHERE is_active = TRUE`)).
		WillReturnRows(rows)

	exams, err := repo.ListActive(context.Background())
	assert.NoError(t, err)
	require.Len(t, exams, 2)
	assert.Equal(t, domain.DefaultDemoQuestionsLimit, exams[0].DemoLimit())
	assert.Equal(t, 20, exams[1].DemoLimit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepository_Update_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXExamRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE exams SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Exam{ID: "missing", Slug: "x", Title: "X"})
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeExamNotFound, domainErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
