package service

import (
	"context"
	"time"

	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
)

// QuestionService grades submitted answers and loads redacted questions.
// Grading happens strictly server-side; the answer key never reaches the
// client except inside a CheckAnswerResponse after a submission.
type QuestionService interface {
	// CheckAnswer grades one submitted option against the stored key and
	// records the outcome on the attempt. Re-answering overwrites the
	// previous selection.
	CheckAnswer(ctx context.Context, userID string, req *dto.CheckAnswerRequest) (*dto.CheckAnswerResponse, error)
	GetPublicByIDs(ctx context.Context, ids []string) ([]*dto.QuestionResponse, error)
}

type questionService struct {
	questionRepo domain.QuestionRepository
	attemptRepo  domain.AttemptRepository
}

// NewQuestionService creates a new instance of questionService.
func NewQuestionService(questionRepo domain.QuestionRepository, attemptRepo domain.AttemptRepository) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
	}
}

func toQuestionResponse(q *domain.QuestionPublic) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		ID:            q.ID,
		ContentNodeID: q.ContentNodeID,
		Text:          q.Text,
		Options:       q.Options,
		Difficulty:    q.Difficulty,
		Year:          q.Year,
		Source:        q.Source,
	}
}

// CheckAnswer implements QuestionService.
func (s *questionService) CheckAnswer(ctx context.Context, userID string, req *dto.CheckAnswerRequest) (*dto.CheckAnswerResponse, error) {
	if req.SelectedOption < 1 || req.SelectedOption > 4 {
		return nil, domain.NewInvalidOptionError(req.SelectedOption)
	}

	attempt, err := s.attemptRepo.GetByID(ctx, req.AttemptID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempt", err)
	}
	if attempt == nil || attempt.UserID != userID {
		return nil, domain.NewAttemptNotFoundError(req.AttemptID)
	}
	if attempt.CompletedAt != nil {
		return nil, domain.NewAttemptCompletedError(req.AttemptID)
	}

	key, err := s.questionRepo.GetAnswerKey(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}

	isCorrect := req.SelectedOption == key.CorrectOption
	if err := s.attemptRepo.RecordAnswer(ctx, req.AttemptID, req.QuestionID, req.SelectedOption, isCorrect, time.Now()); err != nil {
		return nil, err
	}

	// Once an answer is in, the correct option and explanation are revealed
	// unconditionally.
	return &dto.CheckAnswerResponse{
		IsCorrect:     isCorrect,
		CorrectOption: key.CorrectOption,
		Explanation:   key.Explanation,
	}, nil
}

// GetPublicByIDs implements QuestionService.
func (s *questionService) GetPublicByIDs(ctx context.Context, ids []string) ([]*dto.QuestionResponse, error) {
	questions, err := s.questionRepo.GetPublicByIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}
	responses := make([]*dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, toQuestionResponse(q))
	}
	return responses, nil
}
