package service

import (
	"context"
	"time"

	"prepdeck/internal/cache"
	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
	"prepdeck/internal/logger"
	"prepdeck/internal/util"

	"go.uber.org/zap"
)

// SubscriptionService manages the subscription ledger. Rows are historical:
// grants insert or extend, revokes deactivate, nothing is deleted.
type SubscriptionService interface {
	// Grant gives the user duration days of access to the exam. A renewal
	// while a row is still active extends that row's expiry instead of
	// stacking a second one.
	Grant(ctx context.Context, req *dto.GrantSubscriptionRequest) (*dto.SubscriptionResponse, error)
	ListForUser(ctx context.Context, userID string) ([]*dto.SubscriptionResponse, error)
	Revoke(ctx context.Context, subscriptionID string) error
}

type subscriptionService struct {
	subRepo  domain.SubscriptionRepository
	examRepo domain.ExamRepository
	cache    domain.Cache
}

// NewSubscriptionService creates a new instance of subscriptionService.
func NewSubscriptionService(subRepo domain.SubscriptionRepository, examRepo domain.ExamRepository, cacheClient domain.Cache) SubscriptionService {
	return &subscriptionService{
		subRepo:  subRepo,
		examRepo: examRepo,
		cache:    cacheClient,
	}
}

func toSubscriptionResponse(sub *domain.Subscription) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		ID:        sub.ID,
		ExamID:    sub.ExamID,
		StartsAt:  sub.StartsAt.Format(time.RFC3339),
		ExpiresAt: sub.ExpiresAt.Format(time.RFC3339),
		IsActive:  sub.IsActive,
	}
}

// Grant implements SubscriptionService.
func (s *subscriptionService) Grant(ctx context.Context, req *dto.GrantSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if req.DurationDays <= 0 {
		return nil, domain.NewInvalidInputError("duration must be at least one day")
	}

	exam, err := s.examRepo.GetByID(ctx, req.ExamID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	if exam == nil {
		return nil, domain.NewExamNotFoundError(req.ExamID)
	}

	now := time.Now()
	duration := time.Duration(req.DurationDays) * 24 * time.Hour

	active, err := s.subRepo.GetActive(ctx, req.UserID, req.ExamID, now)
	if err != nil {
		return nil, domain.NewInternalError("failed to check existing subscription", err)
	}
	if active != nil {
		// Renewal: extend the remaining time instead of opening a second row.
		newExpiry := active.ExpiresAt.Add(duration)
		if err := s.subRepo.ExtendExpiry(ctx, active.ID, newExpiry); err != nil {
			return nil, domain.NewInternalError("failed to extend subscription", err)
		}
		active.ExpiresAt = newExpiry
		s.invalidateDecision(ctx, req.UserID, req.ExamID)
		logger.Get().Info("subscription extended",
			zap.String("subscriptionID", active.ID),
			zap.String("userID", req.UserID),
			zap.Time("expiresAt", newExpiry))
		return toSubscriptionResponse(active), nil
	}

	sub := &domain.Subscription{
		ID:        util.NewULID(),
		UserID:    req.UserID,
		ExamID:    req.ExamID,
		StartsAt:  now,
		ExpiresAt: now.Add(duration),
		IsActive:  true,
		CreatedAt: now,
	}
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, domain.NewInternalError("failed to save subscription", err)
	}
	s.invalidateDecision(ctx, req.UserID, req.ExamID)
	logger.Get().Info("subscription granted",
		zap.String("subscriptionID", sub.ID),
		zap.String("userID", req.UserID),
		zap.String("examID", req.ExamID),
		zap.Time("expiresAt", sub.ExpiresAt))
	return toSubscriptionResponse(sub), nil
}

// ListForUser implements SubscriptionService.
func (s *subscriptionService) ListForUser(ctx context.Context, userID string) ([]*dto.SubscriptionResponse, error) {
	subs, err := s.subRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list subscriptions", err)
	}
	responses := make([]*dto.SubscriptionResponse, len(subs))
	for i, sub := range subs {
		responses[i] = toSubscriptionResponse(sub)
	}
	return responses, nil
}

// Revoke implements SubscriptionService. The access decision cache is left
// to expire via TTL; revocation becomes effective within that window.
func (s *subscriptionService) Revoke(ctx context.Context, subscriptionID string) error {
	if err := s.subRepo.Deactivate(ctx, subscriptionID); err != nil {
		return err
	}
	logger.Get().Info("subscription revoked", zap.String("subscriptionID", subscriptionID))
	return nil
}

// invalidateDecision drops the cached access decision so a fresh grant is
// visible immediately.
func (s *subscriptionService) invalidateDecision(ctx context.Context, userID, examID string) {
	if s.cache == nil {
		return
	}
	cacheKey := cache.GenerateCacheKey("access", "decision", userID, examID)
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		logger.Get().Error("SubscriptionService: cache invalidation failed",
			zap.Error(err), zap.String("cacheKey", cacheKey))
	}
}
