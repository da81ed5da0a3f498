package service

import (
	"context"
	"testing"

	"prepdeck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetUserProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockBookmarkRepository), new(MockQuestionRepository))

		userRepo.On("GetUserByID", ctx, "user1").Return(&domain.User{
			ID:    "user1",
			Email: "test@example.com",
			Name:  "Test User",
			Role:  domain.RoleUser,
		}, nil)

		profile, err := svc.GetUserProfile(ctx, "user1")
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", profile.Email)
		assert.Equal(t, domain.RoleUser, profile.Role)
	})

	t.Run("NotFound", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockBookmarkRepository), new(MockQuestionRepository))

		userRepo.On("GetUserByID", ctx, "ghost").Return(nil, nil)
		_, err := svc.GetUserProfile(ctx, "ghost")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	})
}

func TestUserService_ToggleBookmark(t *testing.T) {
	ctx := context.Background()

	t.Run("AddWhenMissing", func(t *testing.T) {
		bookmarkRepo := new(MockBookmarkRepository)
		questionRepo := new(MockQuestionRepository)
		svc := NewUserService(new(MockUserRepository), bookmarkRepo, questionRepo)

		bookmarkRepo.On("Exists", ctx, "user1", "q1").Return(false, nil)
		questionRepo.On("GetAnswerKey", ctx, "q1").Return(&domain.AnswerKey{QuestionID: "q1", CorrectOption: 1}, nil)
		bookmarkRepo.On("Save", ctx, mock.AnythingOfType("*domain.Bookmark")).Return(nil)

		bookmarked, err := svc.ToggleBookmark(ctx, "user1", "q1")
		require.NoError(t, err)
		assert.True(t, bookmarked)
	})

	t.Run("RemoveWhenPresent", func(t *testing.T) {
		bookmarkRepo := new(MockBookmarkRepository)
		svc := NewUserService(new(MockUserRepository), bookmarkRepo, new(MockQuestionRepository))

		bookmarkRepo.On("Exists", ctx, "user1", "q1").Return(true, nil)
		bookmarkRepo.On("Delete", ctx, "user1", "q1").Return(nil)

		bookmarked, err := svc.ToggleBookmark(ctx, "user1", "q1")
		require.NoError(t, err)
		assert.False(t, bookmarked)
	})

	t.Run("UnknownQuestion", func(t *testing.T) {
		bookmarkRepo := new(MockBookmarkRepository)
		questionRepo := new(MockQuestionRepository)
		svc := NewUserService(new(MockUserRepository), bookmarkRepo, questionRepo)

		bookmarkRepo.On("Exists", ctx, "user1", "ghost").Return(false, nil)
		questionRepo.On("GetAnswerKey", ctx, "ghost").Return(nil, domain.NewQuestionNotFoundError("ghost"))

		_, err := svc.ToggleBookmark(ctx, "user1", "ghost")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeQuestionNotFound, domainErr.Code)
		bookmarkRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUserService_ListBookmarks(t *testing.T) {
	ctx := context.Background()
	bookmarkRepo := new(MockBookmarkRepository)
	questionRepo := new(MockQuestionRepository)
	svc := NewUserService(new(MockUserRepository), bookmarkRepo, questionRepo)

	bookmarkRepo.On("ListQuestionIDs", ctx, "user1").Return([]string{"q2", "q1"}, nil)
	questionRepo.On("GetPublicByIDs", ctx, []string{"q2", "q1"}).Return([]*domain.QuestionPublic{
		{ID: "q1", Text: "first"},
		{ID: "q2", Text: "second"},
	}, nil)

	resp, err := svc.ListBookmarks(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
	// Bookmark order (newest first) is preserved regardless of load order.
	assert.Equal(t, "q2", resp.Questions[0].ID)
	assert.Equal(t, "q1", resp.Questions[1].ID)
	assert.True(t, resp.Questions[0].Bookmarked)
}
