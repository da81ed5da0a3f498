package service

import (
	"context"
	"encoding/json"
	"time"

	"prepdeck/internal/cache"
	"prepdeck/internal/config"
	"prepdeck/internal/domain"
	"prepdeck/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AccessService is the access decision engine. It answers one question:
// may this user see questions for this exam right now?
//
// The rule is deliberately small: a user can access an exam if they hold an
// active subscription, or if they have not yet consumed the one-time demo.
// Absence of a demo_usage row means the demo has never been attempted.
type AccessService interface {
	// CheckAccess computes the decision for (user, exam[, node]). It is
	// read-only; browsing never consumes the demo. A missing or inactive
	// exam fails closed with a not-found error.
	CheckAccess(ctx context.Context, userID, examID string, nodeID *string) (*domain.AccessDecision, error)
	// MarkDemoComplete records that the user has consumed the demo for the
	// exam. Idempotent: repeats and concurrent calls converge on one
	// completed row.
	MarkDemoComplete(ctx context.Context, userID, examID string) error
	// ResetDemo removes the user's demo usage row, restoring the
	// never-attempted state. Admin-only at the HTTP layer.
	ResetDemo(ctx context.Context, userID, examID string) error
	// QuestionLimit clamps how many questions a session may draw, given the
	// decision already computed for the user.
	QuestionLimit(decision *domain.AccessDecision, requested int) int
	// MockTimeLimit clamps a mock-test time limit for unsubscribed users.
	MockTimeLimit(decision *domain.AccessDecision, requested time.Duration) time.Duration
}

type accessService struct {
	examRepo domain.ExamRepository
	nodeRepo domain.ContentNodeRepository
	demoRepo domain.DemoUsageRepository
	subRepo  domain.SubscriptionRepository
	cache    domain.Cache
	cfg      *config.AccessConfig
	group    singleflight.Group
}

// NewAccessService creates a new instance of accessService.
func NewAccessService(
	examRepo domain.ExamRepository,
	nodeRepo domain.ContentNodeRepository,
	demoRepo domain.DemoUsageRepository,
	subRepo domain.SubscriptionRepository,
	cacheClient domain.Cache,
	cfg *config.AccessConfig,
) AccessService {
	return &accessService{
		examRepo: examRepo,
		nodeRepo: nodeRepo,
		demoRepo: demoRepo,
		subRepo:  subRepo,
		cache:    cacheClient,
		cfg:      cfg,
	}
}

func (s *accessService) decisionCacheKey(userID, examID string, nodeID *string) string {
	if nodeID != nil {
		return cache.GenerateCacheKey("access", "decision", userID, examID, *nodeID)
	}
	return cache.GenerateCacheKey("access", "decision", userID, examID)
}

// CheckAccess implements AccessService.
func (s *accessService) CheckAccess(ctx context.Context, userID, examID string, nodeID *string) (*domain.AccessDecision, error) {
	cacheKey := s.decisionCacheKey(userID, examID, nodeID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var decision domain.AccessDecision
			if err := json.Unmarshal([]byte(cached), &decision); err == nil {
				return &decision, nil
			}
			logger.Get().Warn("AccessService: corrupt cached decision, recomputing",
				zap.String("cacheKey", cacheKey))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Error("AccessService: cache read failed", zap.Error(err), zap.String("cacheKey", cacheKey))
		}
	}

	// Concurrent checks for the same triple share one computation.
	v, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		return s.computeDecision(ctx, userID, examID, nodeID)
	})
	if err != nil {
		return nil, err
	}
	decision := v.(*domain.AccessDecision)

	if s.cache != nil {
		if payload, err := json.Marshal(decision); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(payload), s.cfg.DecisionCacheTTL); err != nil {
				logger.Get().Error("AccessService: cache write failed", zap.Error(err), zap.String("cacheKey", cacheKey))
			}
		}
	}

	return decision, nil
}

func (s *accessService) computeDecision(ctx context.Context, userID, examID string, nodeID *string) (*domain.AccessDecision, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	// A decision cannot be computed without exam settings; fail closed
	// rather than defaulting anything.
	if exam == nil || !exam.IsActive {
		return nil, domain.NewExamNotFoundError(examID)
	}

	demoLimit := exam.DemoLimit()
	if nodeID != nil {
		node, err := s.nodeRepo.GetByID(ctx, *nodeID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load content node", err)
		}
		// An unknown node falls back to the exam-level limit; it does not
		// block access.
		if node != nil && node.ExamID == examID && node.DemoQuestionsLimit != nil {
			demoLimit = *node.DemoQuestionsLimit
		}
	}

	hasSubscription, err := s.subRepo.HasActive(ctx, userID, examID, time.Now())
	if err != nil {
		return nil, domain.NewInternalError("failed to check subscription", err)
	}

	demoCompleted := false
	usage, err := s.demoRepo.Get(ctx, userID, examID)
	if err != nil {
		return nil, domain.NewInternalError("failed to check demo usage", err)
	}
	if usage != nil {
		demoCompleted = usage.DemoCompleted
	}

	return &domain.AccessDecision{
		HasSubscription: hasSubscription,
		DemoCompleted:   demoCompleted,
		DemoLimit:       demoLimit,
		CanAccess:       hasSubscription || !demoCompleted,
	}, nil
}

// MarkDemoComplete implements AccessService.
func (s *accessService) MarkDemoComplete(ctx context.Context, userID, examID string) error {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return domain.NewInternalError("failed to load exam", err)
	}
	if exam == nil {
		return domain.NewExamNotFoundError(examID)
	}

	if err := s.demoRepo.MarkCompleted(ctx, userID, examID, exam.DemoLimit()); err != nil {
		return domain.NewInternalError("failed to mark demo complete", err)
	}

	s.invalidateDecision(ctx, userID, examID)
	return nil
}

// ResetDemo implements AccessService.
func (s *accessService) ResetDemo(ctx context.Context, userID, examID string) error {
	if err := s.demoRepo.Delete(ctx, userID, examID); err != nil {
		return domain.NewInternalError("failed to reset demo", err)
	}
	s.invalidateDecision(ctx, userID, examID)
	logger.Get().Info("demo usage reset",
		zap.String("userID", userID),
		zap.String("examID", examID))
	return nil
}

// invalidateDecision drops the exam-level cached decision. Node-scoped keys
// are left to expire via TTL; the TTL bounds their staleness.
func (s *accessService) invalidateDecision(ctx context.Context, userID, examID string) {
	if s.cache == nil {
		return
	}
	cacheKey := s.decisionCacheKey(userID, examID, nil)
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		logger.Get().Error("AccessService: cache invalidation failed",
			zap.Error(err), zap.String("cacheKey", cacheKey))
	}
}

// QuestionLimit implements AccessService.
func (s *accessService) QuestionLimit(decision *domain.AccessDecision, requested int) int {
	max := decision.DemoLimit
	if decision.HasSubscription {
		max = s.cfg.MaxQuestionsSubscribed
	}
	if requested <= 0 || requested > max {
		return max
	}
	return requested
}

// MockTimeLimit implements AccessService.
func (s *accessService) MockTimeLimit(decision *domain.AccessDecision, requested time.Duration) time.Duration {
	if decision.HasSubscription {
		return requested
	}
	if requested <= 0 || requested > s.cfg.MaxMockDurationDemo {
		return s.cfg.MaxMockDurationDemo
	}
	return requested
}
