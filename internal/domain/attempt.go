package domain

import (
	"context"
	"time"
)

// AttemptState is the lifecycle state of an attempt.
type AttemptState string

const (
	AttemptCreated    AttemptState = "CREATED"
	AttemptInProgress AttemptState = "IN_PROGRESS"
	AttemptCompleted  AttemptState = "COMPLETED"
)

// Attempt is one practice or mock-test session. Its question list is fixed
// at creation; resuming replays the same ordered list.
type Attempt struct {
	ID               string
	UserID           string
	ExamID           string
	ContentNodeID    *string
	IsMock           bool
	TotalQuestions   int
	CorrectAnswers   int
	StartedAt        time.Time
	CompletedAt      *time.Time
	TimeLimitSeconds *int
	TimeTakenSeconds *int
}

// State derives the lifecycle state from the stored fields. answered is the
// number of questions with a recorded selection.
func (a *Attempt) State(answered int) AttemptState {
	if a.CompletedAt != nil {
		return AttemptCompleted
	}
	if answered > 0 {
		return AttemptInProgress
	}
	return AttemptCreated
}

// Validate validates the attempt
func (a *Attempt) Validate() error {
	if a.UserID == "" {
		return NewInvalidInputError("user ID is required")
	}
	if a.ExamID == "" {
		return NewInvalidInputError("exam ID is required")
	}
	if a.TotalQuestions <= 0 {
		return NewInvalidInputError("attempt needs at least one question")
	}
	return nil
}

// AttemptQuestion fixes one question's position within an attempt and
// records the answer outcome. OrderIndex values are contiguous
// 0..TotalQuestions-1 and unique within the attempt. Re-answering
// overwrites SelectedOption; it is not append-only.
type AttemptQuestion struct {
	ID             string
	AttemptID      string
	QuestionID     string
	OrderIndex     int
	SelectedOption *int
	IsCorrect      *bool
	AnsweredAt     *time.Time
}

// Answered reports whether a selection has been recorded.
func (aq *AttemptQuestion) Answered() bool {
	return aq.SelectedOption != nil
}

// ResumeCursor computes the question index to position at when resuming:
// one past the highest answered index, clamped to the last question.
func ResumeCursor(questions []*AttemptQuestion) int {
	last := -1
	for _, q := range questions {
		if q.Answered() && q.OrderIndex > last {
			last = q.OrderIndex
		}
	}
	cursor := last + 1
	if total := len(questions); cursor > total-1 {
		cursor = total - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// AttemptRepository defines the persistence port for attempts and their
// fixed question lists.
type AttemptRepository interface {
	// CreateWithQuestions persists the attempt and one row per question in a
	// single transaction. If it fails, the session is not started.
	CreateWithQuestions(ctx context.Context, attempt *Attempt, questions []*AttemptQuestion) error
	GetByID(ctx context.Context, id string) (*Attempt, error)
	// GetInProgressPractice returns the newest practice attempt for
	// (user, exam) with completed_at unset, or nil.
	GetInProgressPractice(ctx context.Context, userID, examID string) (*Attempt, error)
	GetQuestions(ctx context.Context, attemptID string) ([]*AttemptQuestion, error)
	// RecordAnswer overwrites the selection for one attempt question.
	RecordAnswer(ctx context.Context, attemptID, questionID string, selectedOption int, isCorrect bool, answeredAt time.Time) error
	// Complete finalizes the attempt at most once: the update is conditional
	// on completed_at still being NULL. Returns false when already completed.
	Complete(ctx context.Context, attemptID string, correctAnswers int, completedAt time.Time, timeTakenSeconds *int) (bool, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Attempt, int, error)
}
