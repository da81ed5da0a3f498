package models

import (
	"database/sql"
	"time"
)

// Exam is the exams table row.
type Exam struct {
	ID                 string         `db:"id"`
	Slug               string         `db:"slug"`
	Title              string         `db:"title"`
	Description        sql.NullString `db:"description"`
	ImageURL           sql.NullString `db:"image_url"`
	DemoQuestionsLimit sql.NullInt64  `db:"demo_questions_limit"`
	IsActive           bool           `db:"is_active"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

// ContentNode is the content_nodes table row. Deleting a node cascades to
// its children and their questions via foreign keys.
type ContentNode struct {
	ID                 string         `db:"id"`
	ExamID             string         `db:"exam_id"`
	ParentID           sql.NullString `db:"parent_id"`
	NodeType           string         `db:"node_type"`
	Title              string         `db:"title"`
	OrderIndex         int            `db:"order_index"`
	DemoQuestionsLimit sql.NullInt64  `db:"demo_questions_limit"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

// Question is the questions table row. correct_option lives only here; the
// public read paths select every column except it.
type Question struct {
	ID            string         `db:"id"`
	ContentNodeID string         `db:"content_node_id"`
	Text          string         `db:"text1"`
	Option1       string         `db:"option1"`
	Option2       string         `db:"option2"`
	Option3       string         `db:"option3"`
	Option4       string         `db:"option4"`
	CorrectOption int            `db:"correct_option"`
	Explanation   sql.NullString `db:"explanation"`
	Difficulty    sql.NullString `db:"difficulty"`
	Year          sql.NullInt64  `db:"year"`
	Source        sql.NullString `db:"source"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// QuestionPublic is the redacted projection row: questions minus
// correct_option.
type QuestionPublic struct {
	ID            string         `db:"id"`
	ContentNodeID string         `db:"content_node_id"`
	Text          string         `db:"text1"`
	Option1       string         `db:"option1"`
	Option2       string         `db:"option2"`
	Option3       string         `db:"option3"`
	Option4       string         `db:"option4"`
	Explanation   sql.NullString `db:"explanation"`
	Difficulty    sql.NullString `db:"difficulty"`
	Year          sql.NullInt64  `db:"year"`
	Source        sql.NullString `db:"source"`
}

// DemoUsage is the demo_usage table row; unique on (user_id, exam_id).
type DemoUsage struct {
	ID                 string    `db:"id"`
	UserID             string    `db:"user_id"`
	ExamID             string    `db:"exam_id"`
	DemoCompleted      bool      `db:"demo_completed"`
	QuestionsAttempted int       `db:"questions_attempted"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// Subscription is the subscriptions table row.
type Subscription struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ExamID    string    `db:"exam_id"`
	StartsAt  time.Time `db:"starts_at"`
	ExpiresAt time.Time `db:"expires_at"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Test is the tests table row (one attempt).
type Test struct {
	ID               string         `db:"id"`
	UserID           string         `db:"user_id"`
	ExamID           string         `db:"exam_id"`
	ContentNodeID    sql.NullString `db:"content_node_id"`
	IsMock           bool           `db:"is_mock"`
	TotalQuestions   int            `db:"total_questions"`
	CorrectAnswers   int            `db:"correct_answers"`
	StartedAt        time.Time      `db:"started_at"`
	CompletedAt      sql.NullTime   `db:"completed_at"`
	TimeLimitSeconds sql.NullInt64  `db:"time_limit_seconds"`
	TimeTakenSeconds sql.NullInt64  `db:"time_taken_seconds"`
}

// TestQuestion is the test_questions table row; order_index is unique per
// test and fixed at creation.
type TestQuestion struct {
	ID             string         `db:"id"`
	TestID         string         `db:"test_id"`
	QuestionID     string         `db:"question_id"`
	OrderIndex     int            `db:"order_index"`
	SelectedOption sql.NullInt64  `db:"selected_option"`
	IsCorrect      sql.NullBool   `db:"is_correct"`
	AnsweredAt     sql.NullTime   `db:"answered_at"`
}

// Bookmark is the bookmarks table row; unique on (user_id, question_id).
type Bookmark struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	QuestionID string    `db:"question_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// User is the users table row.
type User struct {
	ID                string         `db:"id"`
	GoogleID          string         `db:"google_id"`
	Email             string         `db:"email"`
	Name              sql.NullString `db:"name"`
	ProfilePictureURL sql.NullString `db:"profile_picture_url"`
	Role              string         `db:"role"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
	DeletedAt         sql.NullTime   `db:"deleted_at"`
}
