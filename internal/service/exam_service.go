package service

import (
	"context"

	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
	"prepdeck/internal/logger"
	"prepdeck/internal/util"

	"go.uber.org/zap"
)

// ExamService exposes the exam catalog and the per-exam content tree.
type ExamService interface {
	ListExams(ctx context.Context) ([]*dto.ExamResponse, error)
	GetExamBySlug(ctx context.Context, slug string) (*dto.ExamResponse, error)
	// GetContentTree returns the exam's full topic tree with children nested
	// under their parents, siblings in display order.
	GetContentTree(ctx context.Context, examID string) ([]*dto.ContentNodeResponse, error)
	CreateExam(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error)
	UpdateExam(ctx context.Context, examID string, req *dto.UpdateExamRequest) error
	CreateContentNode(ctx context.Context, req *dto.CreateContentNodeRequest) (*dto.ContentNodeResponse, error)
	DeleteContentNode(ctx context.Context, nodeID string) error
}

type examService struct {
	examRepo     domain.ExamRepository
	nodeRepo     domain.ContentNodeRepository
	questionRepo domain.QuestionRepository
}

// NewExamService creates a new instance of examService.
func NewExamService(
	examRepo domain.ExamRepository,
	nodeRepo domain.ContentNodeRepository,
	questionRepo domain.QuestionRepository,
) ExamService {
	return &examService{
		examRepo:     examRepo,
		nodeRepo:     nodeRepo,
		questionRepo: questionRepo,
	}
}

func toExamResponse(exam *domain.Exam) *dto.ExamResponse {
	return &dto.ExamResponse{
		ID:                 exam.ID,
		Slug:               exam.Slug,
		Title:              exam.Title,
		Description:        exam.Description,
		ImageURL:           exam.ImageURL,
		DemoQuestionsLimit: exam.DemoLimit(),
	}
}

func toContentNodeResponse(node *domain.ContentNode) *dto.ContentNodeResponse {
	resp := &dto.ContentNodeResponse{
		ID:                 node.ID,
		ExamID:             node.ExamID,
		NodeType:           string(node.NodeType),
		Title:              node.Title,
		OrderIndex:         node.OrderIndex,
		DemoQuestionsLimit: node.DemoQuestionsLimit,
	}
	if node.ParentID != nil {
		resp.ParentID = *node.ParentID
	}
	return resp
}

// ListExams implements ExamService.
func (s *examService) ListExams(ctx context.Context) ([]*dto.ExamResponse, error) {
	exams, err := s.examRepo.ListActive(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list exams", err)
	}
	responses := make([]*dto.ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, toExamResponse(exam))
	}
	return responses, nil
}

// GetExamBySlug implements ExamService.
func (s *examService) GetExamBySlug(ctx context.Context, slug string) (*dto.ExamResponse, error) {
	exam, err := s.examRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, domain.NewInternalError("failed to get exam", err)
	}
	if exam == nil || !exam.IsActive {
		return nil, domain.NewExamNotFoundError(slug)
	}
	resp := toExamResponse(exam)
	if count, err := s.questionRepo.CountByExam(ctx, exam.ID); err == nil {
		resp.QuestionCount = count
	} else {
		logger.Get().Warn("failed to count questions for exam", zap.String("examID", exam.ID), zap.Error(err))
	}
	return resp, nil
}

// GetContentTree implements ExamService. The repository returns parents
// before children, so a single pass can attach every node to its parent.
func (s *examService) GetContentTree(ctx context.Context, examID string) ([]*dto.ContentNodeResponse, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get exam", err)
	}
	if exam == nil {
		return nil, domain.NewExamNotFoundError(examID)
	}

	nodes, err := s.nodeRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list content nodes", err)
	}

	byID := make(map[string]*dto.ContentNodeResponse, len(nodes))
	roots := make([]*dto.ContentNodeResponse, 0)
	for _, node := range nodes {
		byID[node.ID] = toContentNodeResponse(node)
	}
	for _, node := range nodes {
		resp := byID[node.ID]
		if node.ParentID == nil {
			roots = append(roots, resp)
			continue
		}
		if parent, ok := byID[*node.ParentID]; ok {
			parent.Children = append(parent.Children, resp)
		} else {
			// Orphaned by a concurrent delete; surface it at the root
			// rather than dropping it silently.
			roots = append(roots, resp)
		}
	}
	return roots, nil
}

// CreateExam implements ExamService.
func (s *examService) CreateExam(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	existing, err := s.examRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, domain.NewInternalError("failed to check slug", err)
	}
	if existing != nil {
		return nil, domain.NewInvalidInputError("slug already in use: " + req.Slug)
	}

	exam := domain.NewExam(req.Slug, req.Title, req.Description)
	exam.ID = util.NewULID()
	exam.ImageURL = req.ImageURL
	exam.DemoQuestionsLimit = req.DemoQuestionsLimit
	if err := exam.Validate(); err != nil {
		return nil, err
	}
	if err := s.examRepo.Save(ctx, exam); err != nil {
		return nil, domain.NewInternalError("failed to save exam", err)
	}
	logger.Get().Info("exam created", zap.String("examID", exam.ID), zap.String("slug", exam.Slug))
	return toExamResponse(exam), nil
}

// UpdateExam implements ExamService.
func (s *examService) UpdateExam(ctx context.Context, examID string, req *dto.UpdateExamRequest) error {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return domain.NewInternalError("failed to get exam", err)
	}
	if exam == nil {
		return domain.NewExamNotFoundError(examID)
	}

	if req.Title != "" {
		exam.Title = req.Title
	}
	if req.Description != "" {
		exam.Description = req.Description
	}
	if req.ImageURL != "" {
		exam.ImageURL = req.ImageURL
	}
	if req.DemoQuestionsLimit != nil {
		exam.DemoQuestionsLimit = req.DemoQuestionsLimit
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}
	if err := exam.Validate(); err != nil {
		return err
	}
	if err := s.examRepo.Update(ctx, exam); err != nil {
		return domain.NewInternalError("failed to update exam", err)
	}
	return nil
}

// CreateContentNode implements ExamService. Roots must be TRACK nodes;
// child types are fixed by the parent's level.
func (s *examService) CreateContentNode(ctx context.Context, req *dto.CreateContentNodeRequest) (*dto.ContentNodeResponse, error) {
	exam, err := s.examRepo.GetByID(ctx, req.ExamID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get exam", err)
	}
	if exam == nil {
		return nil, domain.NewExamNotFoundError(req.ExamID)
	}

	nodeType, ok := domain.ParseNodeType(req.NodeType)
	if !ok {
		return nil, domain.NewInvalidInputError("node type must be one of TRACK, SUBJECT, CHAPTER, TOPIC")
	}

	var parentID *string
	if req.ParentID != "" {
		parent, err := s.nodeRepo.GetByID(ctx, req.ParentID)
		if err != nil {
			return nil, domain.NewInternalError("failed to get parent node", err)
		}
		if parent == nil || parent.ExamID != req.ExamID {
			return nil, domain.NewError(domain.CodeNodeNotFound, "parent node not found in exam", nil)
		}
		node := domain.NewContentNode(req.ExamID, &parent.ID, nodeType, req.Title, req.OrderIndex)
		if err := node.ValidateChildOf(parent); err != nil {
			return nil, err
		}
		parentID = &parent.ID
	} else if nodeType != domain.NodeTypeTrack {
		return nil, domain.NewInvalidInputError("root nodes must be TRACK")
	}

	node := domain.NewContentNode(req.ExamID, parentID, nodeType, req.Title, req.OrderIndex)
	node.ID = util.NewULID()
	node.DemoQuestionsLimit = req.DemoQuestionsLimit
	if err := node.Validate(); err != nil {
		return nil, err
	}
	if err := s.nodeRepo.Save(ctx, node); err != nil {
		return nil, domain.NewInternalError("failed to save content node", err)
	}
	return toContentNodeResponse(node), nil
}

// DeleteContentNode implements ExamService. Descendants and their questions
// cascade at the storage layer.
func (s *examService) DeleteContentNode(ctx context.Context, nodeID string) error {
	node, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return domain.NewInternalError("failed to get content node", err)
	}
	if node == nil {
		return domain.NewError(domain.CodeNodeNotFound, "content node not found", nil)
	}
	if err := s.nodeRepo.Delete(ctx, nodeID); err != nil {
		return domain.NewInternalError("failed to delete content node", err)
	}
	logger.Get().Info("content node deleted", zap.String("nodeID", nodeID), zap.String("examID", node.ExamID))
	return nil
}
