package handler

import (
	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
	"prepdeck/internal/logger"
	"prepdeck/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler serves profile, bookmark and subscription lookups for the
// authenticated user.
type UserHandler struct {
	userService         service.UserService
	subscriptionService service.SubscriptionService
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(userService service.UserService, subscriptionService service.SubscriptionService) *UserHandler {
	return &UserHandler{
		userService:         userService,
		subscriptionService: subscriptionService,
	}
}

// GetMyProfile godoc
// @Summary Get My Profile
// @Description Retrieves the profile information of the logged-in user.
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.GetUserProfile(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// ToggleBookmark godoc
// @Summary Toggle a bookmark
// @Description Bookmarks the question if unbookmarked, removes the bookmark otherwise
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.BookmarkRequest true "Question to toggle"
// @Success 200 {object} map[string]bool "Contains 'bookmarked'"
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/me/bookmarks [post]
func (h *UserHandler) ToggleBookmark(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.BookmarkRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.QuestionID == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("question_id")}
	}

	bookmarked, err := h.userService.ToggleBookmark(c.Context(), userID, req.QuestionID)
	if err != nil {
		return err
	}

	logger.Get().Info("Bookmark toggled",
		zap.String("userID", userID),
		zap.String("questionID", req.QuestionID),
		zap.Bool("bookmarked", bookmarked))
	return c.JSON(fiber.Map{"bookmarked": bookmarked})
}

// ListBookmarks godoc
// @Summary List bookmarked questions
// @Description Returns the user's bookmarked questions, newest bookmark first
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.BookmarksResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/bookmarks [get]
func (h *UserHandler) ListBookmarks(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.userService.ListBookmarks(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListMySubscriptions godoc
// @Summary List the current user's subscriptions
// @Description Returns all subscription rows for the user, active and expired
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.SubscriptionResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/subscriptions [get]
func (h *UserHandler) ListMySubscriptions(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	subs, err := h.subscriptionService.ListForUser(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(subs)
}
