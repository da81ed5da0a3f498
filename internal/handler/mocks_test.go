package handler_test

import (
	"context"
	"io"
	"time"

	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
)

// Manual function-field mocks for the service interfaces the handlers use.

type MockExamService struct {
	ListExamsFunc         func(ctx context.Context) ([]*dto.ExamResponse, error)
	GetExamBySlugFunc     func(ctx context.Context, slug string) (*dto.ExamResponse, error)
	GetContentTreeFunc    func(ctx context.Context, examID string) ([]*dto.ContentNodeResponse, error)
	CreateExamFunc        func(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error)
	UpdateExamFunc        func(ctx context.Context, examID string, req *dto.UpdateExamRequest) error
	CreateContentNodeFunc func(ctx context.Context, req *dto.CreateContentNodeRequest) (*dto.ContentNodeResponse, error)
	DeleteContentNodeFunc func(ctx context.Context, nodeID string) error
}

func (m *MockExamService) ListExams(ctx context.Context) ([]*dto.ExamResponse, error) {
	if m.ListExamsFunc != nil {
		return m.ListExamsFunc(ctx)
	}
	panic("MockExamService.ListExamsFunc not implemented")
}

func (m *MockExamService) GetExamBySlug(ctx context.Context, slug string) (*dto.ExamResponse, error) {
	if m.GetExamBySlugFunc != nil {
		return m.GetExamBySlugFunc(ctx, slug)
	}
	panic("MockExamService.GetExamBySlugFunc not implemented")
}

func (m *MockExamService) GetContentTree(ctx context.Context, examID string) ([]*dto.ContentNodeResponse, error) {
	if m.GetContentTreeFunc != nil {
		return m.GetContentTreeFunc(ctx, examID)
	}
	panic("MockExamService.GetContentTreeFunc not implemented")
}

func (m *MockExamService) CreateExam(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	if m.CreateExamFunc != nil {
		return m.CreateExamFunc(ctx, req)
	}
	panic("MockExamService.CreateExamFunc not implemented")
}

func (m *MockExamService) UpdateExam(ctx context.Context, examID string, req *dto.UpdateExamRequest) error {
	if m.UpdateExamFunc != nil {
		return m.UpdateExamFunc(ctx, examID, req)
	}
	panic("MockExamService.UpdateExamFunc not implemented")
}

func (m *MockExamService) CreateContentNode(ctx context.Context, req *dto.CreateContentNodeRequest) (*dto.ContentNodeResponse, error) {
	if m.CreateContentNodeFunc != nil {
		return m.CreateContentNodeFunc(ctx, req)
	}
	panic("MockExamService.CreateContentNodeFunc not implemented")
}

func (m *MockExamService) DeleteContentNode(ctx context.Context, nodeID string) error {
	if m.DeleteContentNodeFunc != nil {
		return m.DeleteContentNodeFunc(ctx, nodeID)
	}
	panic("MockExamService.DeleteContentNodeFunc not implemented")
}

type MockAccessService struct {
	CheckAccessFunc      func(ctx context.Context, userID, examID string, nodeID *string) (*domain.AccessDecision, error)
	MarkDemoCompleteFunc func(ctx context.Context, userID, examID string) error
	ResetDemoFunc        func(ctx context.Context, userID, examID string) error
	QuestionLimitFunc    func(decision *domain.AccessDecision, requested int) int
	MockTimeLimitFunc    func(decision *domain.AccessDecision, requested time.Duration) time.Duration
}

func (m *MockAccessService) CheckAccess(ctx context.Context, userID, examID string, nodeID *string) (*domain.AccessDecision, error) {
	if m.CheckAccessFunc != nil {
		return m.CheckAccessFunc(ctx, userID, examID, nodeID)
	}
	panic("MockAccessService.CheckAccessFunc not implemented")
}

func (m *MockAccessService) MarkDemoComplete(ctx context.Context, userID, examID string) error {
	if m.MarkDemoCompleteFunc != nil {
		return m.MarkDemoCompleteFunc(ctx, userID, examID)
	}
	panic("MockAccessService.MarkDemoCompleteFunc not implemented")
}

func (m *MockAccessService) ResetDemo(ctx context.Context, userID, examID string) error {
	if m.ResetDemoFunc != nil {
		return m.ResetDemoFunc(ctx, userID, examID)
	}
	panic("MockAccessService.ResetDemoFunc not implemented")
}

func (m *MockAccessService) QuestionLimit(decision *domain.AccessDecision, requested int) int {
	if m.QuestionLimitFunc != nil {
		return m.QuestionLimitFunc(decision, requested)
	}
	panic("MockAccessService.QuestionLimitFunc not implemented")
}

func (m *MockAccessService) MockTimeLimit(decision *domain.AccessDecision, requested time.Duration) time.Duration {
	if m.MockTimeLimitFunc != nil {
		return m.MockTimeLimitFunc(decision, requested)
	}
	panic("MockAccessService.MockTimeLimitFunc not implemented")
}

type MockAttemptService struct {
	StartPracticeFunc func(ctx context.Context, userID string, req *dto.StartAttemptRequest) (*dto.AttemptResponse, error)
	StartMockFunc     func(ctx context.Context, userID string, req *dto.StartMockRequest) (*dto.AttemptResponse, error)
	GetAttemptFunc    func(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error)
	CompleteFunc      func(ctx context.Context, userID, attemptID string, req *dto.CompleteAttemptRequest) (*dto.AttemptSummaryResponse, error)
	ListAttemptsFunc  func(ctx context.Context, userID string, limit, offset int) (*dto.AttemptListResponse, error)
}

func (m *MockAttemptService) StartPractice(ctx context.Context, userID string, req *dto.StartAttemptRequest) (*dto.AttemptResponse, error) {
	if m.StartPracticeFunc != nil {
		return m.StartPracticeFunc(ctx, userID, req)
	}
	panic("MockAttemptService.StartPracticeFunc not implemented")
}

func (m *MockAttemptService) StartMock(ctx context.Context, userID string, req *dto.StartMockRequest) (*dto.AttemptResponse, error) {
	if m.StartMockFunc != nil {
		return m.StartMockFunc(ctx, userID, req)
	}
	panic("MockAttemptService.StartMockFunc not implemented")
}

func (m *MockAttemptService) GetAttempt(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error) {
	if m.GetAttemptFunc != nil {
		return m.GetAttemptFunc(ctx, userID, attemptID)
	}
	panic("MockAttemptService.GetAttemptFunc not implemented")
}

func (m *MockAttemptService) Complete(ctx context.Context, userID, attemptID string, req *dto.CompleteAttemptRequest) (*dto.AttemptSummaryResponse, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, userID, attemptID, req)
	}
	panic("MockAttemptService.CompleteFunc not implemented")
}

func (m *MockAttemptService) ListAttempts(ctx context.Context, userID string, limit, offset int) (*dto.AttemptListResponse, error) {
	if m.ListAttemptsFunc != nil {
		return m.ListAttemptsFunc(ctx, userID, limit, offset)
	}
	panic("MockAttemptService.ListAttemptsFunc not implemented")
}

type MockQuestionService struct {
	CheckAnswerFunc    func(ctx context.Context, userID string, req *dto.CheckAnswerRequest) (*dto.CheckAnswerResponse, error)
	GetPublicByIDsFunc func(ctx context.Context, ids []string) ([]*dto.QuestionResponse, error)
}

func (m *MockQuestionService) CheckAnswer(ctx context.Context, userID string, req *dto.CheckAnswerRequest) (*dto.CheckAnswerResponse, error) {
	if m.CheckAnswerFunc != nil {
		return m.CheckAnswerFunc(ctx, userID, req)
	}
	panic("MockQuestionService.CheckAnswerFunc not implemented")
}

func (m *MockQuestionService) GetPublicByIDs(ctx context.Context, ids []string) ([]*dto.QuestionResponse, error) {
	if m.GetPublicByIDsFunc != nil {
		return m.GetPublicByIDsFunc(ctx, ids)
	}
	panic("MockQuestionService.GetPublicByIDsFunc not implemented")
}

type MockSubscriptionService struct {
	GrantFunc       func(ctx context.Context, req *dto.GrantSubscriptionRequest) (*dto.SubscriptionResponse, error)
	ListForUserFunc func(ctx context.Context, userID string) ([]*dto.SubscriptionResponse, error)
	RevokeFunc      func(ctx context.Context, subscriptionID string) error
}

func (m *MockSubscriptionService) Grant(ctx context.Context, req *dto.GrantSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if m.GrantFunc != nil {
		return m.GrantFunc(ctx, req)
	}
	panic("MockSubscriptionService.GrantFunc not implemented")
}

func (m *MockSubscriptionService) ListForUser(ctx context.Context, userID string) ([]*dto.SubscriptionResponse, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID)
	}
	panic("MockSubscriptionService.ListForUserFunc not implemented")
}

func (m *MockSubscriptionService) Revoke(ctx context.Context, subscriptionID string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, subscriptionID)
	}
	panic("MockSubscriptionService.RevokeFunc not implemented")
}

type MockImportService struct {
	ImportCSVFunc func(ctx context.Context, contentNodeID string, r io.Reader) (*dto.ImportQuestionsResponse, error)
}

func (m *MockImportService) ImportCSV(ctx context.Context, contentNodeID string, r io.Reader) (*dto.ImportQuestionsResponse, error) {
	if m.ImportCSVFunc != nil {
		return m.ImportCSVFunc(ctx, contentNodeID, r)
	}
	panic("MockImportService.ImportCSVFunc not implemented")
}

type MockUserService struct {
	GetUserProfileFunc func(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	ToggleBookmarkFunc func(ctx context.Context, userID, questionID string) (bool, error)
	ListBookmarksFunc  func(ctx context.Context, userID string) (*dto.BookmarksResponse, error)
}

func (m *MockUserService) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	panic("MockUserService.GetUserProfileFunc not implemented")
}

func (m *MockUserService) ToggleBookmark(ctx context.Context, userID, questionID string) (bool, error) {
	if m.ToggleBookmarkFunc != nil {
		return m.ToggleBookmarkFunc(ctx, userID, questionID)
	}
	panic("MockUserService.ToggleBookmarkFunc not implemented")
}

func (m *MockUserService) ListBookmarks(ctx context.Context, userID string) (*dto.BookmarksResponse, error) {
	if m.ListBookmarksFunc != nil {
		return m.ListBookmarksFunc(ctx, userID)
	}
	panic("MockUserService.ListBookmarksFunc not implemented")
}
