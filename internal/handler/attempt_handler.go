package handler

import (
	"strconv"

	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
	"prepdeck/internal/logger"
	"prepdeck/internal/middleware"
	"prepdeck/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AttemptHandler serves the practice/mock session lifecycle.
type AttemptHandler struct {
	attemptService  service.AttemptService
	questionService service.QuestionService
}

// NewAttemptHandler creates a new AttemptHandler instance
func NewAttemptHandler(attemptService service.AttemptService, questionService service.QuestionService) *AttemptHandler {
	return &AttemptHandler{
		attemptService:  attemptService,
		questionService: questionService,
	}
}

func requireUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return "", domain.NewUnauthorizedError("user not found in context")
	}
	return userID, nil
}

// StartPractice godoc
// @Summary Start or resume a practice session
// @Description Resumes the newest unfinished practice session for the exam, or samples questions and starts a new one. Starting never consumes the demo.
// @Tags attempts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.StartAttemptRequest true "Exam and optional content node"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse "Demo already used and no subscription"
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts/practice [post]
func (h *AttemptHandler) StartPractice(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.StartAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.ExamID == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("exam_id")}
	}

	resp, err := h.attemptService.StartPractice(c.Context(), userID, &req)
	if err != nil {
		return err
	}

	logger.Get().Info("Practice session started",
		zap.String("userID", userID),
		zap.String("examID", req.ExamID),
		zap.String("attemptID", resp.ID),
		zap.Bool("resumed", resp.Resumed))
	return c.JSON(resp)
}

// StartMock godoc
// @Summary Start a timed mock test
// @Description Starts a new mock test. Mock tests never resume; question count and time limit are clamped for demo users.
// @Tags attempts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.StartMockRequest true "Mock test parameters"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /attempts/mock [post]
func (h *AttemptHandler) StartMock(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.StartMockRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.ExamID == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("exam_id")}
	}

	resp, err := h.attemptService.StartMock(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetAttempt godoc
// @Summary Get one attempt
// @Description Returns the attempt with its questions and resume cursor. Only the owner can read it.
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts/{attemptId} [get]
func (h *AttemptHandler) GetAttempt(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	attemptID := c.Params("attemptId")
	if attemptID == "" {
		return domain.NewInvalidInputError("attempt id is required")
	}

	resp, err := h.attemptService.GetAttempt(c.Context(), userID, attemptID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CheckAnswer godoc
// @Summary Check an answer within an attempt
// @Description Grades the selected option, records it on the attempt and reveals the answer key
// @Tags attempts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CheckAnswerRequest true "Answer details"
// @Success 200 {object} dto.CheckAnswerResponse
// @Failure 400 {object} middleware.ErrorResponse "Selected option out of range"
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Attempt already completed"
// @Router /attempts/check [post]
func (h *AttemptHandler) CheckAnswer(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.CheckAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	var fieldErrs domain.ValidationErrors
	if req.AttemptID == "" {
		fieldErrs = append(fieldErrs, domain.NewMissingFieldError("attempt_id"))
	}
	if req.QuestionID == "" {
		fieldErrs = append(fieldErrs, domain.NewMissingFieldError("question_id"))
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	resp, err := h.questionService.CheckAnswer(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Complete godoc
// @Summary Complete an attempt
// @Description Finalizes the attempt exactly once, recomputes the score server-side and, for unsubscribed users, consumes the demo for the exam
// @Tags attempts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Param request body dto.CompleteAttemptRequest false "Completion details"
// @Success 200 {object} dto.AttemptSummaryResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Attempt already completed"
// @Router /attempts/{attemptId}/complete [post]
func (h *AttemptHandler) Complete(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	attemptID := c.Params("attemptId")
	if attemptID == "" {
		return domain.NewInvalidInputError("attempt id is required")
	}

	var req dto.CompleteAttemptRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("invalid request body")
		}
	}

	resp, err := h.attemptService.Complete(c.Context(), userID, attemptID, &req)
	if err != nil {
		return err
	}

	logger.Get().Info("Attempt completed",
		zap.String("userID", userID),
		zap.String("attemptID", attemptID),
		zap.Int("correct", resp.CorrectAnswers),
		zap.Int("total", resp.TotalQuestions))
	return c.JSON(resp)
}

// ListAttempts godoc
// @Summary List the current user's attempts
// @Description Returns a paginated attempt history, newest first
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Number of items per page (default 20)"
// @Param offset query int false "Offset into the result set"
// @Success 200 {object} dto.AttemptListResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /attempts [get]
func (h *AttemptHandler) ListAttempts(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	resp, err := h.attemptService.ListAttempts(c.Context(), userID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
