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

// sqlxContentNodeRepository implements domain.ContentNodeRepository using sqlx.
type sqlxContentNodeRepository struct {
	db *sqlx.DB
}

// NewSQLXContentNodeRepository creates a new instance of sqlxContentNodeRepository.
func NewSQLXContentNodeRepository(db *sqlx.DB) domain.ContentNodeRepository {
	return &sqlxContentNodeRepository{db: db}
}

func toDomainContentNode(m *models.ContentNode) *domain.ContentNode {
	if m == nil {
		return nil
	}
	nodeType, _ := domain.ParseNodeType(m.NodeType)
	return &domain.ContentNode{
		ID:                 m.ID,
		ExamID:             m.ExamID,
		ParentID:           util.NullStringToPtr(m.ParentID),
		NodeType:           nodeType,
		Title:              m.Title,
		OrderIndex:         m.OrderIndex,
		DemoQuestionsLimit: util.NullInt64ToIntPtr(m.DemoQuestionsLimit),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func fromDomainContentNode(n *domain.ContentNode) *models.ContentNode {
	if n == nil {
		return nil
	}
	var parentID sql.NullString
	if n.ParentID != nil {
		parentID = util.StringToNullString(*n.ParentID)
	}
	return &models.ContentNode{
		ID:                 n.ID,
		ExamID:             n.ExamID,
		ParentID:           parentID,
		NodeType:           string(n.NodeType),
		Title:              n.Title,
		OrderIndex:         n.OrderIndex,
		DemoQuestionsLimit: util.IntPtrToNullInt64(n.DemoQuestionsLimit),
		CreatedAt:          n.CreatedAt,
		UpdatedAt:          n.UpdatedAt,
	}
}

const contentNodeColumns = `id, exam_id, parent_id, node_type, title, order_index, demo_questions_limit, created_at, updated_at`

// GetByID retrieves a content node by its ID. Returns nil, nil when no row matches.
func (r *sqlxContentNodeRepository) GetByID(ctx context.Context, id string) (*domain.ContentNode, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.ContentNode
	query := `SELECT ` + contentNodeColumns + ` FROM content_nodes WHERE id = $1`
	if err := executor.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content node by id: %w", err)
	}
	return toDomainContentNode(&m), nil
}

// ListByExam returns every node of an exam's tree, parents before children,
// siblings in display order.
func (r *sqlxContentNodeRepository) ListByExam(ctx context.Context, examID string) ([]*domain.ContentNode, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.ContentNode
	query := `SELECT ` + contentNodeColumns + ` FROM content_nodes
	          WHERE exam_id = $1
	          ORDER BY parent_id NULLS FIRST, order_index, title`
	if err := executor.SelectContext(ctx, &rows, query, examID); err != nil {
		return nil, fmt.Errorf("failed to list content nodes by exam: %w", err)
	}
	nodes := make([]*domain.ContentNode, len(rows))
	for i := range rows {
		nodes[i] = toDomainContentNode(&rows[i])
	}
	return nodes, nil
}

// ListChildren returns the direct children of a node in display order.
func (r *sqlxContentNodeRepository) ListChildren(ctx context.Context, parentID string) ([]*domain.ContentNode, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.ContentNode
	query := `SELECT ` + contentNodeColumns + ` FROM content_nodes
	          WHERE parent_id = $1
	          ORDER BY order_index, title`
	if err := executor.SelectContext(ctx, &rows, query, parentID); err != nil {
		return nil, fmt.Errorf("failed to list content node children: %w", err)
	}
	nodes := make([]*domain.ContentNode, len(rows))
	for i := range rows {
		nodes[i] = toDomainContentNode(&rows[i])
	}
	return nodes, nil
}

// Save inserts a new content node.
func (r *sqlxContentNodeRepository) Save(ctx context.Context, node *domain.ContentNode) error {
	executor := GetExecutor(ctx, r.db)
	m := fromDomainContentNode(node)
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	query := `INSERT INTO content_nodes (id, exam_id, parent_id, node_type, title, order_index, demo_questions_limit, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := executor.ExecContext(ctx, query,
		m.ID, m.ExamID, m.ParentID, m.NodeType, m.Title, m.OrderIndex, m.DemoQuestionsLimit, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save content node: %w", err)
	}
	return nil
}

// Update persists changes to an existing content node.
func (r *sqlxContentNodeRepository) Update(ctx context.Context, node *domain.ContentNode) error {
	executor := GetExecutor(ctx, r.db)
	m := fromDomainContentNode(node)
	m.UpdatedAt = time.Now()

	query := `UPDATE content_nodes SET
	            parent_id = $2,
	            node_type = $3,
	            title = $4,
	            order_index = $5,
	            demo_questions_limit = $6,
	            updated_at = $7
	          WHERE id = $1`
	result, err := executor.ExecContext(ctx, query,
		m.ID, m.ParentID, m.NodeType, m.Title, m.OrderIndex, m.DemoQuestionsLimit, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update content node: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewError(domain.CodeNodeNotFound, "content node not found", nil)
	}
	return nil
}

// Delete removes a content node. Descendant nodes and their questions are
// removed by ON DELETE CASCADE foreign keys.
func (r *sqlxContentNodeRepository) Delete(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM content_nodes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content node: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewError(domain.CodeNodeNotFound, "content node not found", nil)
	}
	return nil
}
