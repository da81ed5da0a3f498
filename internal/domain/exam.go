package domain

import (
	"context"
	"time"
)

// DefaultDemoQuestionsLimit applies when neither the exam nor a content node
// carries an explicit demo_questions_limit.
const DefaultDemoQuestionsLimit = 10

// Exam represents a single exam offering in the catalog.
type Exam struct {
	ID                 string
	Slug               string
	Title              string
	Description        string
	ImageURL           string
	DemoQuestionsLimit *int
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewExam creates a new Exam instance
func NewExam(slug, title, description string) *Exam {
	now := time.Now()
	return &Exam{
		Slug:        slug,
		Title:       title,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate validates the exam
func (e *Exam) Validate() error {
	if e.Slug == "" {
		return NewInvalidInputError("slug is required")
	}
	if e.Title == "" {
		return NewInvalidInputError("title is required")
	}
	if e.DemoQuestionsLimit != nil && *e.DemoQuestionsLimit < 0 {
		return NewInvalidInputError("demo questions limit must not be negative")
	}
	return nil
}

// DemoLimit resolves the exam-level demo limit, falling back to the default.
func (e *Exam) DemoLimit() int {
	if e.DemoQuestionsLimit != nil {
		return *e.DemoQuestionsLimit
	}
	return DefaultDemoQuestionsLimit
}

// ExamRepository defines the persistence port for exams.
type ExamRepository interface {
	GetByID(ctx context.Context, id string) (*Exam, error)
	GetBySlug(ctx context.Context, slug string) (*Exam, error)
	ListActive(ctx context.Context) ([]*Exam, error)
	Save(ctx context.Context, exam *Exam) error
	Update(ctx context.Context, exam *Exam) error
}
