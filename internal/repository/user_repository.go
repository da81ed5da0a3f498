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

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:                m.ID,
		GoogleID:          m.GoogleID,
		Email:             m.Email,
		Name:              m.Name.String,
		ProfilePictureURL: m.ProfilePictureURL.String,
		Role:              m.Role,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		DeletedAt:         util.NullTimeToPtr(m.DeletedAt),
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	var deletedAt sql.NullTime
	if u.DeletedAt != nil {
		deletedAt = util.TimeToNullTime(*u.DeletedAt)
	}
	return &models.User{
		ID:                u.ID,
		GoogleID:          u.GoogleID,
		Email:             u.Email,
		Name:              util.StringToNullString(u.Name),
		ProfilePictureURL: util.StringToNullString(u.ProfilePictureURL),
		Role:              u.Role,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
		DeletedAt:         deletedAt,
	}
}

const userColumns = `id, google_id, email, name, profile_picture_url, role, created_at, updated_at, deleted_at`

// CreateUser inserts a new user.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	executor := GetExecutor(ctx, r.db)
	m := fromDomainUser(user)
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	if m.Role == "" {
		m.Role = domain.RoleUser
	}

	query := `INSERT INTO users (id, google_id, email, name, profile_picture_url, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := executor.ExecContext(ctx, query,
		m.ID, m.GoogleID, m.Email, m.Name, m.ProfilePictureURL, m.Role, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByGoogleID retrieves a user by their Google ID. Returns nil, nil
// when no row matches.
func (r *sqlxUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1 AND deleted_at IS NULL`
	if err := executor.GetContext(ctx, &m, query, googleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by google_id: %w", err)
	}
	return toDomainUser(&m), nil
}

// GetUserByID retrieves a user by their internal ID. Returns nil, nil when
// no row matches.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	if err := executor.GetContext(ctx, &m, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return toDomainUser(&m), nil
}

// UpdateUser updates an existing user's profile fields.
func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	executor := GetExecutor(ctx, r.db)
	m := fromDomainUser(user)
	m.UpdatedAt = time.Now()

	query := `UPDATE users SET
	            email = $2,
	            name = $3,
	            profile_picture_url = $4,
	            role = $5,
	            updated_at = $6
	          WHERE id = $1 AND deleted_at IS NULL`
	result, err := executor.ExecContext(ctx, query,
		m.ID, m.Email, m.Name, m.ProfilePictureURL, m.Role, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFoundError("user not found")
	}
	return nil
}
