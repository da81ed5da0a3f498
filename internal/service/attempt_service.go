package service

import (
	"context"
	"time"

	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
	"prepdeck/internal/logger"
	"prepdeck/internal/util"

	"go.uber.org/zap"
)

// AttemptService drives the session lifecycle: Created -> InProgress ->
// Completed. A session's question list is fixed at creation; resuming
// replays the same ordered list and positions the user one past their last
// answered question.
type AttemptService interface {
	// StartPractice resumes the newest unfinished practice session for
	// (user, exam) if one exists, otherwise samples questions and starts a
	// new one. The demo is not consumed by starting.
	StartPractice(ctx context.Context, userID string, req *dto.StartAttemptRequest) (*dto.AttemptResponse, error)
	// StartMock starts a timed mock test. Mocks never resume.
	StartMock(ctx context.Context, userID string, req *dto.StartMockRequest) (*dto.AttemptResponse, error)
	GetAttempt(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error)
	// Complete finalizes the attempt exactly once and, for unsubscribed
	// users, consumes the demo for the exam.
	Complete(ctx context.Context, userID, attemptID string, req *dto.CompleteAttemptRequest) (*dto.AttemptSummaryResponse, error)
	ListAttempts(ctx context.Context, userID string, limit, offset int) (*dto.AttemptListResponse, error)
}

type attemptService struct {
	attemptRepo  domain.AttemptRepository
	questionRepo domain.QuestionRepository
	access       AccessService
}

// NewAttemptService creates a new instance of attemptService.
func NewAttemptService(
	attemptRepo domain.AttemptRepository,
	questionRepo domain.QuestionRepository,
	access AccessService,
) AttemptService {
	return &attemptService{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		access:       access,
	}
}

func attemptState(attempt *domain.Attempt, questions []*domain.AttemptQuestion) domain.AttemptState {
	answered := 0
	for _, q := range questions {
		if q.Answered() {
			answered++
		}
	}
	return attempt.State(answered)
}

func toAttemptResponse(attempt *domain.Attempt, questions []*domain.AttemptQuestion) *dto.AttemptResponse {
	resp := &dto.AttemptResponse{
		ID:               attempt.ID,
		ExamID:           attempt.ExamID,
		IsMock:           attempt.IsMock,
		State:            string(attemptState(attempt, questions)),
		TotalQuestions:   attempt.TotalQuestions,
		CorrectAnswers:   attempt.CorrectAnswers,
		StartedAt:        attempt.StartedAt.Format(time.RFC3339),
		TimeLimitSeconds: attempt.TimeLimitSeconds,
		TimeTakenSeconds: attempt.TimeTakenSeconds,
		ResumeIndex:      domain.ResumeCursor(questions),
	}
	if attempt.ContentNodeID != nil {
		resp.ContentNodeID = *attempt.ContentNodeID
	}
	if attempt.CompletedAt != nil {
		resp.CompletedAt = attempt.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

func toAttemptSummary(attempt *domain.Attempt) *dto.AttemptSummaryResponse {
	summary := &dto.AttemptSummaryResponse{
		ID:             attempt.ID,
		ExamID:         attempt.ExamID,
		IsMock:         attempt.IsMock,
		TotalQuestions: attempt.TotalQuestions,
		CorrectAnswers: attempt.CorrectAnswers,
		StartedAt:      attempt.StartedAt.Format(time.RFC3339),
	}
	if attempt.CompletedAt != nil {
		summary.State = string(domain.AttemptCompleted)
		summary.CompletedAt = attempt.CompletedAt.Format(time.RFC3339)
	} else {
		summary.State = string(domain.AttemptInProgress)
	}
	return summary
}

// attachQuestions loads the redacted question bodies for the attempt's fixed
// list and orders them by the attempt's own indices.
func (s *attemptService) attachQuestions(ctx context.Context, resp *dto.AttemptResponse, questions []*domain.AttemptQuestion) error {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.QuestionID
	}
	loaded, err := s.questionRepo.GetPublicByIDs(ctx, ids)
	if err != nil {
		return domain.NewInternalError("failed to load attempt questions", err)
	}
	byID := make(map[string]*domain.QuestionPublic, len(loaded))
	for _, q := range loaded {
		byID[q.ID] = q
	}
	resp.Questions = make([]*dto.QuestionResponse, 0, len(questions))
	for _, aq := range questions {
		if q, ok := byID[aq.QuestionID]; ok {
			resp.Questions = append(resp.Questions, toQuestionResponse(q))
		}
	}
	return nil
}

// StartPractice implements AttemptService.
func (s *attemptService) StartPractice(ctx context.Context, userID string, req *dto.StartAttemptRequest) (*dto.AttemptResponse, error) {
	var nodeID *string
	if req.ContentNodeID != "" {
		nodeID = &req.ContentNodeID
	}

	decision, err := s.access.CheckAccess(ctx, userID, req.ExamID, nodeID)
	if err != nil {
		return nil, err
	}
	if !decision.CanAccess {
		return nil, domain.NewError(domain.CodeForbidden, "demo already used; subscription required", nil)
	}

	// Resume an unfinished session rather than burning a fresh sample.
	existing, err := s.attemptRepo.GetInProgressPractice(ctx, userID, req.ExamID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up in-progress attempt", err)
	}
	if existing != nil {
		questions, err := s.attemptRepo.GetQuestions(ctx, existing.ID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load attempt questions", err)
		}
		resp := toAttemptResponse(existing, questions)
		resp.Resumed = true
		if err := s.attachQuestions(ctx, resp, questions); err != nil {
			return nil, err
		}
		logger.Get().Info("practice attempt resumed",
			zap.String("attemptID", existing.ID),
			zap.String("userID", userID),
			zap.Int("resumeIndex", resp.ResumeIndex))
		return resp, nil
	}

	limit := s.access.QuestionLimit(decision, 0)
	sampled, err := s.questionRepo.SampleByExam(ctx, req.ExamID, nodeID, limit)
	if err != nil {
		return nil, domain.NewInternalError("failed to sample questions", err)
	}
	if len(sampled) == 0 {
		return nil, domain.NewNotFoundError("no questions available for this selection")
	}

	attempt := &domain.Attempt{
		ID:             util.NewULID(),
		UserID:         userID,
		ExamID:         req.ExamID,
		ContentNodeID:  nodeID,
		IsMock:         false,
		TotalQuestions: len(sampled),
		StartedAt:      time.Now(),
	}
	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	attemptQuestions := make([]*domain.AttemptQuestion, len(sampled))
	for i, q := range sampled {
		attemptQuestions[i] = &domain.AttemptQuestion{
			ID:         util.NewULID(),
			AttemptID:  attempt.ID,
			QuestionID: q.ID,
			OrderIndex: i,
		}
	}

	if err := s.attemptRepo.CreateWithQuestions(ctx, attempt, attemptQuestions); err != nil {
		return nil, domain.NewInternalError("failed to create attempt", err)
	}

	resp := toAttemptResponse(attempt, attemptQuestions)
	resp.Questions = make([]*dto.QuestionResponse, len(sampled))
	for i, q := range sampled {
		resp.Questions[i] = toQuestionResponse(q)
	}
	logger.Get().Info("practice attempt started",
		zap.String("attemptID", attempt.ID),
		zap.String("userID", userID),
		zap.String("examID", req.ExamID),
		zap.Int("questions", len(sampled)))
	return resp, nil
}

// StartMock implements AttemptService.
func (s *attemptService) StartMock(ctx context.Context, userID string, req *dto.StartMockRequest) (*dto.AttemptResponse, error) {
	decision, err := s.access.CheckAccess(ctx, userID, req.ExamID, nil)
	if err != nil {
		return nil, err
	}
	if !decision.CanAccess {
		return nil, domain.NewError(domain.CodeForbidden, "demo already used; subscription required", nil)
	}

	limit := s.access.QuestionLimit(decision, req.TotalQuestions)
	timeLimit := s.access.MockTimeLimit(decision, time.Duration(req.TimeLimitSeconds)*time.Second)

	sampled, err := s.questionRepo.SampleByExam(ctx, req.ExamID, nil, limit)
	if err != nil {
		return nil, domain.NewInternalError("failed to sample questions", err)
	}
	if len(sampled) == 0 {
		return nil, domain.NewNotFoundError("no questions available for this exam")
	}

	timeLimitSeconds := int(timeLimit.Seconds())
	attempt := &domain.Attempt{
		ID:               util.NewULID(),
		UserID:           userID,
		ExamID:           req.ExamID,
		IsMock:           true,
		TotalQuestions:   len(sampled),
		StartedAt:        time.Now(),
		TimeLimitSeconds: &timeLimitSeconds,
	}
	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	attemptQuestions := make([]*domain.AttemptQuestion, len(sampled))
	for i, q := range sampled {
		attemptQuestions[i] = &domain.AttemptQuestion{
			ID:         util.NewULID(),
			AttemptID:  attempt.ID,
			QuestionID: q.ID,
			OrderIndex: i,
		}
	}

	if err := s.attemptRepo.CreateWithQuestions(ctx, attempt, attemptQuestions); err != nil {
		return nil, domain.NewInternalError("failed to create mock attempt", err)
	}

	resp := toAttemptResponse(attempt, attemptQuestions)
	resp.Questions = make([]*dto.QuestionResponse, len(sampled))
	for i, q := range sampled {
		resp.Questions[i] = toQuestionResponse(q)
	}
	logger.Get().Info("mock attempt started",
		zap.String("attemptID", attempt.ID),
		zap.String("userID", userID),
		zap.String("examID", req.ExamID),
		zap.Int("questions", len(sampled)),
		zap.Int("timeLimitSeconds", timeLimitSeconds))
	return resp, nil
}

// GetAttempt implements AttemptService.
func (s *attemptService) GetAttempt(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempt", err)
	}
	if attempt == nil || attempt.UserID != userID {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}
	questions, err := s.attemptRepo.GetQuestions(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempt questions", err)
	}
	resp := toAttemptResponse(attempt, questions)
	if err := s.attachQuestions(ctx, resp, questions); err != nil {
		return nil, err
	}
	return resp, nil
}

// Complete implements AttemptService. The score is recomputed from the
// recorded answers, never taken from the client.
func (s *attemptService) Complete(ctx context.Context, userID, attemptID string, req *dto.CompleteAttemptRequest) (*dto.AttemptSummaryResponse, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempt", err)
	}
	if attempt == nil || attempt.UserID != userID {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}
	if attempt.CompletedAt != nil {
		return nil, domain.NewAttemptCompletedError(attemptID)
	}

	questions, err := s.attemptRepo.GetQuestions(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempt questions", err)
	}
	correct := 0
	for _, q := range questions {
		if q.IsCorrect != nil && *q.IsCorrect {
			correct++
		}
	}

	completedAt := time.Now()
	done, err := s.attemptRepo.Complete(ctx, attemptID, correct, completedAt, req.TimeTakenSeconds)
	if err != nil {
		return nil, domain.NewInternalError("failed to complete attempt", err)
	}
	if !done {
		// Lost the race against a concurrent completion.
		return nil, domain.NewAttemptCompletedError(attemptID)
	}

	// Finishing a session on the free tier consumes the demo. Subscribers
	// keep unlimited sessions.
	decision, err := s.access.CheckAccess(ctx, userID, attempt.ExamID, nil)
	if err != nil {
		logger.Get().Error("failed to check access after completion",
			zap.Error(err), zap.String("attemptID", attemptID))
	} else if !decision.HasSubscription {
		if err := s.access.MarkDemoComplete(ctx, userID, attempt.ExamID); err != nil {
			logger.Get().Error("failed to mark demo complete",
				zap.Error(err), zap.String("attemptID", attemptID))
		}
	}

	attempt.CorrectAnswers = correct
	attempt.CompletedAt = &completedAt
	attempt.TimeTakenSeconds = req.TimeTakenSeconds
	logger.Get().Info("attempt completed",
		zap.String("attemptID", attemptID),
		zap.String("userID", userID),
		zap.Int("correct", correct),
		zap.Int("total", attempt.TotalQuestions))
	return toAttemptSummary(attempt), nil
}

// ListAttempts implements AttemptService.
func (s *attemptService) ListAttempts(ctx context.Context, userID string, limit, offset int) (*dto.AttemptListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	attempts, total, err := s.attemptRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, domain.NewInternalError("failed to list attempts", err)
	}
	summaries := make([]*dto.AttemptSummaryResponse, len(attempts))
	for i, attempt := range attempts {
		summaries[i] = toAttemptSummary(attempt)
	}
	return &dto.AttemptListResponse{
		Attempts: summaries,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}
