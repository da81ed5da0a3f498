package service

import (
	"context"

	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
	"prepdeck/internal/util"
)

// UserService exposes profile and bookmark operations.
type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	// ToggleBookmark saves the question if unbookmarked, removes it
	// otherwise. Returns the new bookmarked state.
	ToggleBookmark(ctx context.Context, userID, questionID string) (bool, error)
	ListBookmarks(ctx context.Context, userID string) (*dto.BookmarksResponse, error)
}

type userService struct {
	userRepo     domain.UserRepository
	bookmarkRepo domain.BookmarkRepository
	questionRepo domain.QuestionRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(
	userRepo domain.UserRepository,
	bookmarkRepo domain.BookmarkRepository,
	questionRepo domain.QuestionRepository,
) UserService {
	return &userService{
		userRepo:     userRepo,
		bookmarkRepo: bookmarkRepo,
		questionRepo: questionRepo,
	}
}

// GetUserProfile implements UserService.
func (s *userService) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}
	return &dto.UserProfileResponse{
		ID:                user.ID,
		Email:             user.Email,
		Name:              user.Name,
		ProfilePictureURL: user.ProfilePictureURL,
		Role:              user.Role,
	}, nil
}

// ToggleBookmark implements UserService.
func (s *userService) ToggleBookmark(ctx context.Context, userID, questionID string) (bool, error) {
	exists, err := s.bookmarkRepo.Exists(ctx, userID, questionID)
	if err != nil {
		return false, domain.NewInternalError("failed to check bookmark", err)
	}
	if exists {
		if err := s.bookmarkRepo.Delete(ctx, userID, questionID); err != nil {
			return false, domain.NewInternalError("failed to remove bookmark", err)
		}
		return false, nil
	}

	// Verify the question exists before saving; a dangling bookmark would
	// surface as a hole in the list.
	if _, err := s.questionRepo.GetAnswerKey(ctx, questionID); err != nil {
		return false, err
	}
	bookmark := &domain.Bookmark{
		ID:         util.NewULID(),
		UserID:     userID,
		QuestionID: questionID,
	}
	if err := s.bookmarkRepo.Save(ctx, bookmark); err != nil {
		return false, domain.NewInternalError("failed to save bookmark", err)
	}
	return true, nil
}

// ListBookmarks implements UserService.
func (s *userService) ListBookmarks(ctx context.Context, userID string) (*dto.BookmarksResponse, error) {
	ids, err := s.bookmarkRepo.ListQuestionIDs(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list bookmarks", err)
	}
	questions, err := s.questionRepo.GetPublicByIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewInternalError("failed to load bookmarked questions", err)
	}

	byID := make(map[string]*domain.QuestionPublic, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	responses := make([]*dto.QuestionResponse, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			resp := toQuestionResponse(q)
			resp.Bookmarked = true
			responses = append(responses, resp)
		}
	}
	return &dto.BookmarksResponse{Questions: responses}, nil
}
