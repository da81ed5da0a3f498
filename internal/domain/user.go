package domain

import (
	"context"
	"time"
)

// Role names stored on user rows.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a domain user object. Identity comes from the external
// provider; only the opaque user ID flows into access and attempt logic.
type User struct {
	ID                string
	GoogleID          string
	Email             string
	Name              string
	ProfilePictureURL string
	Role              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// NewUser creates a new User instance
func NewUser(googleID, email string) *User {
	now := time.Now()
	return &User{
		GoogleID:  googleID,
		Email:     email,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the user
func (u *User) Validate() error {
	if u.GoogleID == "" {
		return NewInvalidInputError("google_id is required")
	}
	if u.Email == "" {
		return NewInvalidInputError("email is required")
	}
	return nil
}

// IsAdmin reports whether the user may perform administrative operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Bookmark marks one question saved by a user.
type Bookmark struct {
	ID         string
	UserID     string
	QuestionID string
	CreatedAt  time.Time
}

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByGoogleID(ctx context.Context, googleID string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
}

// BookmarkRepository defines the interface for bookmark persistence.
type BookmarkRepository interface {
	ListQuestionIDs(ctx context.Context, userID string) ([]string, error)
	Exists(ctx context.Context, userID, questionID string) (bool, error)
	Save(ctx context.Context, bookmark *Bookmark) error
	Delete(ctx context.Context, userID, questionID string) error
}
