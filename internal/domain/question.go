package domain

import (
	"context"
	"time"
)

// Difficulty levels for questions.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether s is a recognized difficulty level.
func ValidDifficulty(s string) bool {
	return s == DifficultyEasy || s == DifficultyMedium || s == DifficultyHard
}

// Question is the full question record including the answer key.
// It must never cross the API boundary; handlers only ever see the
// redacted projection produced by Public().
type Question struct {
	ID            string
	ContentNodeID string
	Text          string
	Options       [4]string
	CorrectOption int
	Explanation   string
	Difficulty    string
	Year          *int
	Source        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewQuestion creates a new Question instance
func NewQuestion(contentNodeID, text string, options [4]string, correctOption int) *Question {
	now := time.Now()
	return &Question{
		ContentNodeID: contentNodeID,
		Text:          text,
		Options:       options,
		CorrectOption: correctOption,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.ContentNodeID == "" {
		return NewInvalidInputError("content node ID is required")
	}
	if q.Text == "" {
		return NewInvalidInputError("question text is required")
	}
	for i, opt := range q.Options {
		if opt == "" {
			return NewInvalidInputError("option " + string(rune('1'+i)) + " is required")
		}
	}
	if q.CorrectOption < 1 || q.CorrectOption > 4 {
		return NewInvalidInputError("correct option must be between 1 and 4")
	}
	if q.Difficulty != "" && !ValidDifficulty(q.Difficulty) {
		return NewInvalidInputError("difficulty must be easy, medium or hard")
	}
	return nil
}

// QuestionPublic is the redacted projection of a question: every field
// except the correct option.
type QuestionPublic struct {
	ID            string
	ContentNodeID string
	Text          string
	Options       [4]string
	Explanation   string
	Difficulty    string
	Year          *int
	Source        string
}

// Public returns the redacted projection of q.
func (q *Question) Public() *QuestionPublic {
	return &QuestionPublic{
		ID:            q.ID,
		ContentNodeID: q.ContentNodeID,
		Text:          q.Text,
		Options:       q.Options,
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		Year:          q.Year,
		Source:        q.Source,
	}
}

// AnswerKey is the minimal record needed to grade one submission. Only the
// check-answer path may load it.
type AnswerKey struct {
	QuestionID    string
	CorrectOption int
	Explanation   string
}

// AnswerResult is the outcome of grading a submitted option. The correct
// option is revealed unconditionally once an answer has been submitted.
type AnswerResult struct {
	IsCorrect     bool
	CorrectOption int
	Explanation   string
}

// QuestionRepository defines the persistence port for questions. Read paths
// return the redacted projection; GetAnswerKey is the single exception and
// feeds only the server-side grader.
type QuestionRepository interface {
	// SampleByExam returns up to limit questions for the exam in storage-side
	// random order. A non-nil nodeID restricts the pool to that node.
	SampleByExam(ctx context.Context, examID string, nodeID *string, limit int) ([]*QuestionPublic, error)
	GetPublicByIDs(ctx context.Context, ids []string) ([]*QuestionPublic, error)
	GetAnswerKey(ctx context.Context, questionID string) (*AnswerKey, error)
	CountByExam(ctx context.Context, examID string) (int, error)
	Save(ctx context.Context, question *Question) error
	SaveBatch(ctx context.Context, questions []*Question) error
}
