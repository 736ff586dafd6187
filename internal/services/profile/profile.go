// Package profile loads user profiles and keeps their persisted trial
// flags in sync with the recomputed entitlement state.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kweid-platfrom/frontend-sub005/internal/entitlement"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
	"github.com/kweid-platfrom/frontend-sub005/internal/metrics"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// UserRepository describes the storage the service reads profiles from
// and writes recomputed trial flags to.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ListMemberships(ctx context.Context, userUID string) ([]models.OrgMembership, error)
	UpdateTrialStatus(ctx context.Context, userUID string, isActive bool, daysRemaining int) error
}

// Cache describes the profile cache.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service loads profiles and evaluates entitlements against the injected
// clock.
type Service struct {
	repo     UserRepository
	cache    Cache
	log      *slog.Logger
	cacheTTL time.Duration
	now      func() time.Time

	// synced tracks uids whose trial flags were already written back in
	// this process session, making the write at-most-once per uid.
	synced sync.Map
}

// New creates a profile Service using the real clock.
func New(repo UserRepository, cache Cache, log *slog.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		log:      log,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// GetProfile returns the profile of a user, from cache when possible.
func (s *Service) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	var cached *models.UserProfile
	cacheKey := fmt.Sprintf("profile:%s", uid)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("profile cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	user, err := s.repo.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	memberships, err := s.repo.ListMemberships(ctx, uid)
	if err != nil {
		return nil, err
	}

	p := &models.UserProfile{
		UID:                user.UID,
		AccountType:        user.AccountType,
		OrganizationID:     user.OrganizationID,
		Memberships:        memberships,
		SubscriptionType:   user.SubscriptionType,
		SubscriptionStatus: user.SubscriptionStatus,
		TrialStartDate:     user.TrialStartDate,
		TrialEndDate:       user.TrialEndDate,
		IsTrialActive:      user.IsTrialActive,
		TrialDaysRemaining: user.TrialDaysRemaining,
	}

	if err := s.cache.Set(cacheKey, p, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", cacheKey), sl.Err(err))
	}
	return p, nil
}

// Evaluate loads the profile and derives its current capabilities. When
// the persisted trial flags turn out stale, the recomputed values are
// written back at most once per uid per process session.
func (s *Service) Evaluate(ctx context.Context, uid string) (entitlement.Capabilities, *models.UserProfile, error) {
	p, err := s.GetProfile(ctx, uid)
	if err != nil {
		return entitlement.Capabilities{}, nil, err
	}

	caps := entitlement.Evaluate(p, s.now())
	s.syncTrial(ctx, p, caps)
	return caps, p, nil
}

// syncTrial persists recomputed trial flags when they differ from the
// stored ones. Failures are logged, not returned: the evaluation result
// is already correct and the write is only a cache refresh.
func (s *Service) syncTrial(ctx context.Context, p *models.UserProfile, caps entitlement.Capabilities) {
	delta, changed := entitlement.TrialDelta(p, caps)
	if !changed {
		return
	}
	if _, loaded := s.synced.LoadOrStore(p.UID, struct{}{}); loaded {
		return
	}

	if err := s.repo.UpdateTrialStatus(ctx, p.UID, delta.IsTrialActive, delta.TrialDaysRemaining); err != nil {
		s.log.Warn("trial status write-back failed", slog.String("uid", p.UID), sl.Err(err))
		return
	}
	metrics.TrialWritebacks.Inc()
	if err := s.cache.Invalidate(fmt.Sprintf("profile:%s", p.UID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("uid", p.UID), sl.Err(err))
	}
	s.log.Info("trial status synced",
		slog.String("uid", p.UID),
		slog.Bool("is_trial_active", delta.IsTrialActive),
		slog.Int("trial_days_remaining", delta.TrialDaysRemaining))
}
