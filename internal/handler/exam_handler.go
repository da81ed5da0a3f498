package handler

import (
	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
	"prepdeck/internal/logger"
	"prepdeck/internal/middleware"
	"prepdeck/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ExamHandler serves the public exam catalog, topic trees and the access
// decision endpoint.
type ExamHandler struct {
	examService   service.ExamService
	accessService service.AccessService
}

// NewExamHandler creates a new ExamHandler instance
func NewExamHandler(examService service.ExamService, accessService service.AccessService) *ExamHandler {
	return &ExamHandler{
		examService:   examService,
		accessService: accessService,
	}
}

// ListExams godoc
// @Summary List exams
// @Description Returns all active exams in the catalog
// @Tags exams
// @Produce json
// @Success 200 {array} dto.ExamResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /exams [get]
func (h *ExamHandler) ListExams(c *fiber.Ctx) error {
	exams, err := h.examService.ListExams(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(exams)
}

// GetExamBySlug godoc
// @Summary Get an exam by slug
// @Description Returns one exam's catalog entry
// @Tags exams
// @Produce json
// @Param slug path string true "Exam slug"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{slug} [get]
func (h *ExamHandler) GetExamBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return domain.NewInvalidInputError("slug is required")
	}
	exam, err := h.examService.GetExamBySlug(c.Context(), slug)
	if err != nil {
		return err
	}
	return c.JSON(exam)
}

// GetContentTree godoc
// @Summary Get an exam's topic tree
// @Description Returns the full TRACK/SUBJECT/CHAPTER/TOPIC tree, children nested under parents
// @Tags exams
// @Produce json
// @Param examId path string true "Exam ID"
// @Success 200 {array} dto.ContentNodeResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{examId}/tree [get]
func (h *ExamHandler) GetContentTree(c *fiber.Ctx) error {
	examID := c.Params("examId")
	if examID == "" {
		return domain.NewInvalidInputError("exam id is required")
	}
	tree, err := h.examService.GetContentTree(c.Context(), examID)
	if err != nil {
		return err
	}
	return c.JSON(tree)
}

// CheckAccess godoc
// @Summary Check exam access for the current user
// @Description Computes the access decision for the requesting user; browsing never consumes the demo
// @Tags access
// @Security ApiKeyAuth
// @Produce json
// @Param examId path string true "Exam ID"
// @Param node_id query string false "Optional content node ID for node-scoped demo limits"
// @Success 200 {object} dto.AccessDecisionResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{examId}/access [get]
func (h *ExamHandler) CheckAccess(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return domain.NewUnauthorizedError("user not found in context")
	}
	examID := c.Params("examId")
	if examID == "" {
		return domain.NewInvalidInputError("exam id is required")
	}

	var nodeID *string
	if nodeQuery := c.Query("node_id"); nodeQuery != "" {
		nodeID = &nodeQuery
	}

	decision, err := h.accessService.CheckAccess(c.Context(), userID, examID, nodeID)
	if err != nil {
		return err
	}

	resp := dto.AccessDecisionResponse{
		ExamID:          examID,
		HasSubscription: decision.HasSubscription,
		DemoCompleted:   decision.DemoCompleted,
		DemoLimit:       decision.DemoLimit,
		CanAccess:       decision.CanAccess,
	}
	if nodeID != nil {
		resp.ContentNodeID = *nodeID
	}
	return c.JSON(resp)
}

// MarkDemoComplete godoc
// @Summary Mark the current user's demo as consumed
// @Description Records demo completion for an exam. Idempotent; repeated calls keep the completed state.
// @Tags access
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.MarkDemoCompleteRequest true "Exam to mark"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /access/demo-complete [post]
func (h *ExamHandler) MarkDemoComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return domain.NewUnauthorizedError("user not found in context")
	}

	var req dto.MarkDemoCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.ExamID == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("exam_id")}
	}

	if err := h.accessService.MarkDemoComplete(c.Context(), userID, req.ExamID); err != nil {
		return err
	}

	logger.Get().Info("Demo marked complete",
		zap.String("userID", userID),
		zap.String("examID", req.ExamID))
	return c.JSON(dto.MessageResponse{Message: "demo marked complete"})
}
