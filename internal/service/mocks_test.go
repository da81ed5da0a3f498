package service

import (
	"context"
	"time"

	"prepdeck/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockExamRepository ---
type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) GetByID(ctx context.Context, id string) (*domain.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exam), args.Error(1)
}

func (m *MockExamRepository) GetBySlug(ctx context.Context, slug string) (*domain.Exam, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exam), args.Error(1)
}

func (m *MockExamRepository) ListActive(ctx context.Context) ([]*domain.Exam, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Exam), args.Error(1)
}

func (m *MockExamRepository) Save(ctx context.Context, exam *domain.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) Update(ctx context.Context, exam *domain.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

// --- MockContentNodeRepository ---
type MockContentNodeRepository struct {
	mock.Mock
}

func (m *MockContentNodeRepository) GetByID(ctx context.Context, id string) (*domain.ContentNode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentNode), args.Error(1)
}

func (m *MockContentNodeRepository) ListByExam(ctx context.Context, examID string) ([]*domain.ContentNode, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentNode), args.Error(1)
}

func (m *MockContentNodeRepository) ListChildren(ctx context.Context, parentID string) ([]*domain.ContentNode, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentNode), args.Error(1)
}

func (m *MockContentNodeRepository) Save(ctx context.Context, node *domain.ContentNode) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockContentNodeRepository) Update(ctx context.Context, node *domain.ContentNode) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockContentNodeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) SampleByExam(ctx context.Context, examID string, nodeID *string, limit int) ([]*domain.QuestionPublic, error) {
	args := m.Called(ctx, examID, nodeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuestionPublic), args.Error(1)
}

func (m *MockQuestionRepository) GetPublicByIDs(ctx context.Context, ids []string) ([]*domain.QuestionPublic, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuestionPublic), args.Error(1)
}

func (m *MockQuestionRepository) GetAnswerKey(ctx context.Context, questionID string) (*domain.AnswerKey, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnswerKey), args.Error(1)
}

func (m *MockQuestionRepository) CountByExam(ctx context.Context, examID string) (int, error) {
	args := m.Called(ctx, examID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) Save(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) SaveBatch(ctx context.Context, questions []*domain.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

// --- MockDemoUsageRepository ---
type MockDemoUsageRepository struct {
	mock.Mock
}

func (m *MockDemoUsageRepository) Get(ctx context.Context, userID, examID string) (*domain.DemoUsage, error) {
	args := m.Called(ctx, userID, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemoUsage), args.Error(1)
}

func (m *MockDemoUsageRepository) MarkCompleted(ctx context.Context, userID, examID string, questionsAttempted int) error {
	args := m.Called(ctx, userID, examID, questionsAttempted)
	return args.Error(0)
}

func (m *MockDemoUsageRepository) Delete(ctx context.Context, userID, examID string) error {
	args := m.Called(ctx, userID, examID)
	return args.Error(0)
}

// --- MockSubscriptionRepository ---
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) HasActive(ctx context.Context, userID, examID string, now time.Time) (bool, error) {
	args := m.Called(ctx, userID, examID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) GetActive(ctx context.Context, userID, examID string, now time.Time) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, examID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) ExtendExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	args := m.Called(ctx, id, expiresAt)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockAttemptRepository ---
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) CreateWithQuestions(ctx context.Context, attempt *domain.Attempt, questions []*domain.AttemptQuestion) error {
	args := m.Called(ctx, attempt, questions)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id string) (*domain.Attempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) GetInProgressPractice(ctx context.Context, userID, examID string) (*domain.Attempt, error) {
	args := m.Called(ctx, userID, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) GetQuestions(ctx context.Context, attemptID string) ([]*domain.AttemptQuestion, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AttemptQuestion), args.Error(1)
}

func (m *MockAttemptRepository) RecordAnswer(ctx context.Context, attemptID, questionID string, selectedOption int, isCorrect bool, answeredAt time.Time) error {
	args := m.Called(ctx, attemptID, questionID, selectedOption, isCorrect, answeredAt)
	return args.Error(0)
}

func (m *MockAttemptRepository) Complete(ctx context.Context, attemptID string, correctAnswers int, completedAt time.Time, timeTakenSeconds *int) (bool, error) {
	args := m.Called(ctx, attemptID, correctAnswers, completedAt, timeTakenSeconds)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Attempt, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Attempt), args.Int(1), args.Error(2)
}

// --- MockBookmarkRepository ---
type MockBookmarkRepository struct {
	mock.Mock
}

func (m *MockBookmarkRepository) ListQuestionIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookmarkRepository) Exists(ctx context.Context, userID, questionID string) (bool, error) {
	args := m.Called(ctx, userID, questionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookmarkRepository) Save(ctx context.Context, bookmark *domain.Bookmark) error {
	args := m.Called(ctx, bookmark)
	return args.Error(0)
}

func (m *MockBookmarkRepository) Delete(ctx context.Context, userID, questionID string) error {
	args := m.Called(ctx, userID, questionID)
	return args.Error(0)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockTransactionManager ---
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// --- MockAccessService ---
type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) CheckAccess(ctx context.Context, userID, examID string, nodeID *string) (*domain.AccessDecision, error) {
	args := m.Called(ctx, userID, examID, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessDecision), args.Error(1)
}

func (m *MockAccessService) MarkDemoComplete(ctx context.Context, userID, examID string) error {
	args := m.Called(ctx, userID, examID)
	return args.Error(0)
}

func (m *MockAccessService) ResetDemo(ctx context.Context, userID, examID string) error {
	args := m.Called(ctx, userID, examID)
	return args.Error(0)
}

func (m *MockAccessService) QuestionLimit(decision *domain.AccessDecision, requested int) int {
	args := m.Called(decision, requested)
	return args.Int(0)
}

func (m *MockAccessService) MockTimeLimit(decision *domain.AccessDecision, requested time.Duration) time.Duration {
	args := m.Called(decision, requested)
	return args.Get(0).(time.Duration)
}
