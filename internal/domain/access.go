package domain

import (
	"context"
	"time"
)

// DemoUsage records whether a user has consumed the one-time free trial for
// an exam. At most one row exists per (user, exam); absence means the trial
// has never been attempted. Tracking is exam-level only.
type DemoUsage struct {
	ID                 string
	UserID             string
	ExamID             string
	DemoCompleted      bool
	QuestionsAttempted int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Subscription is a time-bounded grant of full access to one exam. Multiple
// historical rows may exist per (user, exam); access needs any one row that
// is active and unexpired.
type Subscription struct {
	ID        string
	UserID    string
	ExamID    string
	StartsAt  time.Time
	ExpiresAt time.Time
	IsActive  bool
	CreatedAt time.Time
}

// Grants reports whether this row grants access at the given instant.
func (s *Subscription) Grants(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}

// AccessDecision is the verdict of the access engine for one
// (user, exam[, chapter]) triple. CanAccess=false is a normal outcome,
// not an error: the caller renders a subscribe prompt.
type AccessDecision struct {
	HasSubscription bool `json:"has_subscription"`
	DemoCompleted   bool `json:"demo_completed"`
	DemoLimit       int  `json:"demo_limit"`
	CanAccess       bool `json:"can_access"`
}

// DemoUsageRepository defines the persistence port for demo usage rows.
type DemoUsageRepository interface {
	Get(ctx context.Context, userID, examID string) (*DemoUsage, error)
	// MarkCompleted inserts the row with demo_completed=true or flips an
	// existing row to completed. Repeated calls leave the same state.
	MarkCompleted(ctx context.Context, userID, examID string, questionsAttempted int) error
	// Delete removes the row, restoring never-attempted semantics.
	Delete(ctx context.Context, userID, examID string) error
}

// SubscriptionRepository defines the persistence port for subscriptions.
type SubscriptionRepository interface {
	HasActive(ctx context.Context, userID, examID string, now time.Time) (bool, error)
	GetActive(ctx context.Context, userID, examID string, now time.Time) (*Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]*Subscription, error)
	Save(ctx context.Context, sub *Subscription) error
	// ExtendExpiry moves an existing row's expires_at forward.
	ExtendExpiry(ctx context.Context, id string, expiresAt time.Time) error
	Deactivate(ctx context.Context, id string) error
}
