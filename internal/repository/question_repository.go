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

// sqlxQuestionRepository implements domain.QuestionRepository using sqlx.
//
// All read paths except GetAnswerKey select the redacted column set: the
// correct_option column never leaves this file on a public query.
type sqlxQuestionRepository struct {
	db *sqlx.DB
}

// NewSQLXQuestionRepository creates a new instance of sqlxQuestionRepository.
func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestionPublic(m *models.QuestionPublic) *domain.QuestionPublic {
	if m == nil {
		return nil
	}
	return &domain.QuestionPublic{
		ID:            m.ID,
		ContentNodeID: m.ContentNodeID,
		Text:          m.Text,
		Options:       [4]string{m.Option1, m.Option2, m.Option3, m.Option4},
		Explanation:   m.Explanation.String,
		Difficulty:    m.Difficulty.String,
		Year:          util.NullInt64ToIntPtr(m.Year),
		Source:        m.Source.String,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	return &models.Question{
		ID:            q.ID,
		ContentNodeID: q.ContentNodeID,
		Text:          q.Text,
		Option1:       q.Options[0],
		Option2:       q.Options[1],
		Option3:       q.Options[2],
		Option4:       q.Options[3],
		CorrectOption: q.CorrectOption,
		Explanation:   util.StringToNullString(q.Explanation),
		Difficulty:    util.StringToNullString(q.Difficulty),
		Year:          util.IntPtrToNullInt64(q.Year),
		Source:        util.StringToNullString(q.Source),
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

// publicQuestionColumns is the redacted projection: everything except
// correct_option.
const publicQuestionColumns = `q.id, q.content_node_id, q.text1, q.option1, q.option2, q.option3, q.option4, q.explanation, q.difficulty, q.year, q.source`

// SampleByExam returns up to limit questions for the exam in storage-side
// random order. A non-nil nodeID restricts the pool to that node's subtree.
func (r *sqlxQuestionRepository) SampleByExam(ctx context.Context, examID string, nodeID *string, limit int) ([]*domain.QuestionPublic, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.QuestionPublic
	var err error

	if nodeID != nil {
		// Recursive walk from the node so TRACK or SUBJECT selections pull
		// questions from every descendant topic.
		query := `WITH RECURSIVE subtree AS (
		            SELECT id FROM content_nodes WHERE id = $2 AND exam_id = $1
		            UNION ALL
		            SELECT c.id FROM content_nodes c JOIN subtree s ON c.parent_id = s.id
		          )
		          SELECT ` + publicQuestionColumns + `
		          FROM questions q
		          JOIN subtree s ON q.content_node_id = s.id
		          ORDER BY random()
		          LIMIT $3`
		err = executor.SelectContext(ctx, &rows, query, examID, *nodeID, limit)
	} else {
		query := `SELECT ` + publicQuestionColumns + `
		          FROM questions q
		          JOIN content_nodes c ON q.content_node_id = c.id
		          WHERE c.exam_id = $1
		          ORDER BY random()
		          LIMIT $2`
		err = executor.SelectContext(ctx, &rows, query, examID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}

	questions := make([]*domain.QuestionPublic, len(rows))
	for i := range rows {
		questions[i] = toDomainQuestionPublic(&rows[i])
	}
	return questions, nil
}

// GetPublicByIDs returns the redacted projection for the given question IDs.
// Order of the result is unspecified; callers reorder by their own index.
func (r *sqlxQuestionRepository) GetPublicByIDs(ctx context.Context, ids []string) ([]*domain.QuestionPublic, error) {
	if len(ids) == 0 {
		return []*domain.QuestionPublic{}, nil
	}
	executor := GetExecutor(ctx, r.db)

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	var rows []models.QuestionPublic
	query := `SELECT ` + publicQuestionColumns + ` FROM questions q WHERE q.id IN (` + strings.Join(placeholders, ", ") + `)`
	if err := executor.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get questions by ids: %w", err)
	}

	questions := make([]*domain.QuestionPublic, len(rows))
	for i := range rows {
		questions[i] = toDomainQuestionPublic(&rows[i])
	}
	return questions, nil
}

// GetAnswerKey loads the correct option and explanation for one question.
// This is the only read path that touches correct_option; it feeds the
// server-side grader and nothing else.
func (r *sqlxQuestionRepository) GetAnswerKey(ctx context.Context, questionID string) (*domain.AnswerKey, error) {
	executor := GetExecutor(ctx, r.db)
	var row struct {
		CorrectOption int            `db:"correct_option"`
		Explanation   sql.NullString `db:"explanation"`
	}
	query := `SELECT correct_option, explanation FROM questions WHERE id = $1`
	if err := executor.GetContext(ctx, &row, query, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuestionNotFoundError(questionID)
		}
		return nil, fmt.Errorf("failed to get answer key: %w", err)
	}
	return &domain.AnswerKey{
		QuestionID:    questionID,
		CorrectOption: row.CorrectOption,
		Explanation:   row.Explanation.String,
	}, nil
}

// CountByExam returns the number of questions attached to an exam's tree.
func (r *sqlxQuestionRepository) CountByExam(ctx context.Context, examID string) (int, error) {
	executor := GetExecutor(ctx, r.db)
	var count int
	query := `SELECT COUNT(*) FROM questions q
	          JOIN content_nodes c ON q.content_node_id = c.id
	          WHERE c.exam_id = $1`
	if err := executor.GetContext(ctx, &count, query, examID); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// Save inserts a new question.
func (r *sqlxQuestionRepository) Save(ctx context.Context, question *domain.Question) error {
	executor := GetExecutor(ctx, r.db)
	m := fromDomainQuestion(question)
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	query := `INSERT INTO questions (id, content_node_id, text1, option1, option2, option3, option4, correct_option, explanation, difficulty, year, source, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := executor.ExecContext(ctx, query,
		m.ID, m.ContentNodeID, m.Text, m.Option1, m.Option2, m.Option3, m.Option4,
		m.CorrectOption, m.Explanation, m.Difficulty, m.Year, m.Source, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

// SaveBatch inserts questions in one multi-row statement. Callers wrap this
// in a transaction when the batch must be all-or-nothing.
func (r *sqlxQuestionRepository) SaveBatch(ctx context.Context, questions []*domain.Question) error {
	if len(questions) == 0 {
		return nil
	}
	executor := GetExecutor(ctx, r.db)
	now := time.Now()

	valueClauses := make([]string, 0, len(questions))
	args := make([]interface{}, 0, len(questions)*14)
	for i, q := range questions {
		m := fromDomainQuestion(q)
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		m.UpdatedAt = now

		base := i * 14
		valueClauses = append(valueClauses, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13, base+14))
		args = append(args,
			m.ID, m.ContentNodeID, m.Text, m.Option1, m.Option2, m.Option3, m.Option4,
			m.CorrectOption, m.Explanation, m.Difficulty, m.Year, m.Source, m.CreatedAt, m.UpdatedAt)
	}

	query := `INSERT INTO questions (id, content_node_id, text1, option1, option2, option3, option4, correct_option, explanation, difficulty, year, source, created_at, updated_at) VALUES ` +
		strings.Join(valueClauses, ", ")
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save question batch: %w", err)
	}
	return nil
}
