package handler

import (
	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
	"prepdeck/internal/logger"
	"prepdeck/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHandler serves catalog management, subscription grants and question
// imports. Every route is behind the admin middleware.
type AdminHandler struct {
	examService         service.ExamService
	subscriptionService service.SubscriptionService
	accessService       service.AccessService
	importService       service.ImportService
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(
	examService service.ExamService,
	subscriptionService service.SubscriptionService,
	accessService service.AccessService,
	importService service.ImportService,
) *AdminHandler {
	return &AdminHandler{
		examService:         examService,
		subscriptionService: subscriptionService,
		accessService:       accessService,
		importService:       importService,
	}
}

// CreateExam godoc
// @Summary Create an exam
// @Description Adds a new exam to the catalog. The slug must be unique.
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateExamRequest true "Exam details"
// @Success 201 {object} dto.ExamResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /admin/exams [post]
func (h *AdminHandler) CreateExam(c *fiber.Ctx) error {
	var req dto.CreateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	var fieldErrs domain.ValidationErrors
	if req.Slug == "" {
		fieldErrs = append(fieldErrs, domain.NewMissingFieldError("slug"))
	}
	if req.Title == "" {
		fieldErrs = append(fieldErrs, domain.NewMissingFieldError("title"))
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	resp, err := h.examService.CreateExam(c.Context(), &req)
	if err != nil {
		return err
	}

	logger.Get().Info("Exam created", zap.String("examID", resp.ID), zap.String("slug", resp.Slug))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateExam godoc
// @Summary Update an exam
// @Description Updates catalog fields of an existing exam, including active state and demo limit
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param examId path string true "Exam ID"
// @Param request body dto.UpdateExamRequest true "Fields to update"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/exams/{examId} [put]
func (h *AdminHandler) UpdateExam(c *fiber.Ctx) error {
	examID := c.Params("examId")
	if examID == "" {
		return domain.NewInvalidInputError("exam id is required")
	}

	var req dto.UpdateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	if err := h.examService.UpdateExam(c.Context(), examID, &req); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "exam updated"})
}

// CreateContentNode godoc
// @Summary Add a content tree node
// @Description Adds a TRACK, SUBJECT, CHAPTER or TOPIC node to an exam's tree. Roots must be TRACKs and each level must nest under its proper parent type.
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateContentNodeRequest true "Node details"
// @Success 201 {object} dto.ContentNodeResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/nodes [post]
func (h *AdminHandler) CreateContentNode(c *fiber.Ctx) error {
	var req dto.CreateContentNodeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	var fieldErrs domain.ValidationErrors
	if req.ExamID == "" {
		fieldErrs = append(fieldErrs, domain.NewMissingFieldError("exam_id"))
	}
	if req.NodeType == "" {
		fieldErrs = append(fieldErrs, domain.NewMissingFieldError("node_type"))
	}
	if req.Title == "" {
		fieldErrs = append(fieldErrs, domain.NewMissingFieldError("title"))
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	resp, err := h.examService.CreateContentNode(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// DeleteContentNode godoc
// @Summary Delete a content tree node
// @Description Removes the node and its entire subtree
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param nodeId path string true "Content node ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/nodes/{nodeId} [delete]
func (h *AdminHandler) DeleteContentNode(c *fiber.Ctx) error {
	nodeID := c.Params("nodeId")
	if nodeID == "" {
		return domain.NewInvalidInputError("node id is required")
	}

	if err := h.examService.DeleteContentNode(c.Context(), nodeID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "content node deleted"})
}

// GrantSubscription godoc
// @Summary Grant a subscription
// @Description Gives a user N days of access to an exam. Granting while a subscription is still active extends its expiry instead of stacking a second row.
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.GrantSubscriptionRequest true "Grant details"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/subscriptions [post]
func (h *AdminHandler) GrantSubscription(c *fiber.Ctx) error {
	var req dto.GrantSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	var fieldErrs domain.ValidationErrors
	if req.UserID == "" {
		fieldErrs = append(fieldErrs, domain.NewMissingFieldError("user_id"))
	}
	if req.ExamID == "" {
		fieldErrs = append(fieldErrs, domain.NewMissingFieldError("exam_id"))
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	resp, err := h.subscriptionService.Grant(c.Context(), &req)
	if err != nil {
		return err
	}

	logger.Get().Info("Subscription granted",
		zap.String("userID", req.UserID),
		zap.String("examID", req.ExamID),
		zap.Int("durationDays", req.DurationDays))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// RevokeSubscription godoc
// @Summary Revoke a subscription
// @Description Deactivates a subscription row immediately
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param subscriptionId path string true "Subscription ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/subscriptions/{subscriptionId} [delete]
func (h *AdminHandler) RevokeSubscription(c *fiber.Ctx) error {
	subscriptionID := c.Params("subscriptionId")
	if subscriptionID == "" {
		return domain.NewInvalidInputError("subscription id is required")
	}

	if err := h.subscriptionService.Revoke(c.Context(), subscriptionID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "subscription revoked"})
}

// ResetDemo godoc
// @Summary Reset a user's demo
// @Description Removes the user's demo usage row for an exam, restoring the never-attempted state
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param userId path string true "User ID"
// @Param examId path string true "Exam ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/users/{userId}/exams/{examId}/demo [delete]
func (h *AdminHandler) ResetDemo(c *fiber.Ctx) error {
	userID := c.Params("userId")
	examID := c.Params("examId")
	if userID == "" || examID == "" {
		return domain.NewInvalidInputError("user id and exam id are required")
	}

	if err := h.accessService.ResetDemo(c.Context(), userID, examID); err != nil {
		return err
	}

	logger.Get().Info("Demo reset", zap.String("userID", userID), zap.String("examID", examID))
	return c.JSON(dto.MessageResponse{Message: "demo reset"})
}

// ImportQuestions godoc
// @Summary Import questions from CSV
// @Description Uploads a CSV of questions into a content node. Rows are validated individually; valid rows are inserted in one transaction, invalid rows are reported back with line numbers.
// @Tags admin
// @Security ApiKeyAuth
// @Accept mpfd
// @Produce json
// @Param nodeId path string true "Content node ID"
// @Param file formData file true "CSV file with columns text1,option1..option4,correct_option[,explanation,difficulty,year,source]"
// @Success 200 {object} dto.ImportQuestionsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/nodes/{nodeId}/questions/import [post]
func (h *AdminHandler) ImportQuestions(c *fiber.Ctx) error {
	nodeID := c.Params("nodeId")
	if nodeID == "" {
		return domain.NewInvalidInputError("node id is required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.NewInvalidInputError("csv file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInternalError("failed to open uploaded file", err)
	}
	defer file.Close()

	resp, err := h.importService.ImportCSV(c.Context(), nodeID, file)
	if err != nil {
		return err
	}

	logger.Get().Info("Question import finished",
		zap.String("nodeID", nodeID),
		zap.Int("imported", resp.Imported),
		zap.Int("rejected", resp.Rejected))
	return c.JSON(resp)
}
