// Package suite contains the business logic for test suites: guarded
// creation against the subscription limit and authorized reads, updates
// and deletes through the access layer.
package suite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kweid-platfrom/frontend-sub005/internal/access"
	"github.com/kweid-platfrom/frontend-sub005/internal/entitlement"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
	"github.com/kweid-platfrom/frontend-sub005/internal/metrics"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// Sentinel errors surfaced to handlers.
var (
	ErrNotFound          = errors.New("suite not found")
	ErrSuiteLimitReached = errors.New("suite limit reached for the current plan")
)

// SuiteRepository describes the suite storage contract.
type SuiteRepository interface {
	CreateSuite(ctx context.Context, suite models.Suite) (string, error)
	GetSuite(ctx context.Context, id string) (*models.Suite, error)
	ListSuitesForUser(ctx context.Context, userUID string, orgIDs []string, limit, offset int) ([]*models.Suite, error)
	CountOwnedSuites(ctx context.Context, userUID string) (int, error)
	UpdateSuiteName(ctx context.Context, id, name string) (int, error)
	DeleteSuite(ctx context.Context, id string) (int, error)
}

// ProfileProvider loads profiles and evaluated capabilities for callers.
type ProfileProvider interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	Evaluate(ctx context.Context, uid string) (entitlement.Capabilities, *models.UserProfile, error)
}

// Cache describes the suite cache.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service implements suite business logic with caching.
type Service struct {
	repo     SuiteRepository
	cache    Cache
	profiles ProfileProvider
	log      *slog.Logger
	cacheTTL time.Duration
}

// New creates a suite Service.
func New(repo SuiteRepository, cache Cache, profiles ProfileProvider, log *slog.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		profiles: profiles,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

// Create creates a suite for the caller after the authoritative
// entitlement check. The UI-side affordance check is advisory only; this
// one runs against the live suite count right before the write.
func (s *Service) Create(ctx context.Context, ident *models.Identity, req models.DummySuite) (*models.Suite, error) {
	caps, prof, err := s.profiles.Evaluate(ctx, ident.UID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountOwnedSuites(ctx, ident.UID)
	if err != nil {
		return nil, err
	}
	if !entitlement.CanCreateSuite(prof, &caps, count) {
		metrics.SuiteLimitRejections.Inc()
		return nil, ErrSuiteLimitReached
	}

	suite := models.Suite{
		ID:          uuid.NewString(),
		Name:        req.Name,
		OwnerID:     ident.UID,
		AccountType: req.AccountType,
		AccessControl: &models.AccessControl{
			OwnerID: ident.UID,
		},
		CreatedAt: time.Now().UTC(),
	}
	// For organization suites the organization is the nominal owner; the
	// creator keeps admin access through the admins list.
	if req.AccountType == models.AccountOrganization && req.OrganizationID != "" {
		suite.OwnerID = req.OrganizationID
		suite.OrganizationID = &req.OrganizationID
		suite.AccessControl.OwnerID = req.OrganizationID
		suite.AccessControl.Admins = []string{ident.UID}
	}

	id, err := s.repo.CreateSuite(ctx, suite)
	if err != nil {
		return nil, err
	}
	suite.ID = id
	s.log.Info("created new suite", slog.String("id", id), slog.String("owner", suite.OwnerID))

	cacheKey := fmt.Sprintf("suite:%s", id)
	if err := s.cache.Set(cacheKey, suite, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache suite", slog.String("key", cacheKey), sl.Err(err))
	}

	return &suite, nil
}

// Get returns a suite after authorizing the view action for the caller.
func (s *Service) Get(ctx context.Context, ident *models.Identity, id string) (*models.Suite, error) {
	suite, err := s.loadSuite(ctx, id)
	if err != nil {
		return nil, err
	}
	if suite == nil {
		return nil, ErrNotFound
	}

	prof, err := s.profiles.GetProfile(ctx, ident.UID)
	if err != nil {
		return nil, err
	}

	dec := access.Authorize(access.Context{User: ident, Profile: prof}, suite, "view")
	if !dec.Allowed {
		metrics.AuthorizationDenied.WithLabelValues(string(dec.Code)).Inc()
		return nil, &access.GuardError{Code: dec.Code, Message: dec.Message, Decision: dec}
	}
	return suite, nil
}

// List returns the suites visible to the caller.
func (s *Service) List(ctx context.Context, ident *models.Identity, limit, offset int) ([]*models.Suite, error) {
	prof, err := s.profiles.GetProfile(ctx, ident.UID)
	if err != nil {
		return nil, err
	}
	var orgIDs []string
	for _, m := range prof.Memberships {
		if m.Status == "active" {
			orgIDs = append(orgIDs, m.OrgID)
		}
	}
	return s.repo.ListSuitesForUser(ctx, ident.UID, orgIDs, limit, offset)
}

// Update renames a suite when the caller holds edit permission.
func (s *Service) Update(ctx context.Context, ident *models.Identity, id, name string) (int, error) {
	suite, err := s.loadSuite(ctx, id)
	if err != nil {
		return 0, err
	}
	if suite == nil {
		return 0, ErrNotFound
	}

	prof, err := s.profiles.GetProfile(ctx, ident.UID)
	if err != nil {
		return 0, err
	}

	var updated int
	gerr := access.ExecuteIfAllowed(access.Context{User: ident, Profile: prof}, suite, "edit", func() error {
		n, err := s.repo.UpdateSuiteName(ctx, id, name)
		updated = n
		return err
	})
	if gerr != nil {
		metrics.AuthorizationDenied.WithLabelValues(string(gerr.Code)).Inc()
		return 0, gerr
	}

	s.invalidate(id)
	s.log.Info("updated suite", slog.String("id", id))
	return updated, nil
}

// Delete removes a suite when the caller holds admin permission.
func (s *Service) Delete(ctx context.Context, ident *models.Identity, id string) (int, error) {
	suite, err := s.loadSuite(ctx, id)
	if err != nil {
		return 0, err
	}
	if suite == nil {
		return 0, ErrNotFound
	}

	prof, err := s.profiles.GetProfile(ctx, ident.UID)
	if err != nil {
		return 0, err
	}

	var deleted int
	gerr := access.ExecuteIfAllowed(access.Context{User: ident, Profile: prof}, suite, "delete", func() error {
		n, err := s.repo.DeleteSuite(ctx, id)
		deleted = n
		return err
	})
	if gerr != nil {
		metrics.AuthorizationDenied.WithLabelValues(string(gerr.Code)).Inc()
		return 0, gerr
	}

	s.invalidate(id)
	s.log.Info("deleted suite", slog.String("id", id))
	return deleted, nil
}

// CheckAccess returns the full authorization decision for a caller and
// action on a suite, for diagnostic display.
func (s *Service) CheckAccess(ctx context.Context, ident *models.Identity, id, action string) (access.Decision, error) {
	suite, err := s.loadSuite(ctx, id)
	if err != nil {
		return access.Decision{}, err
	}

	prof, err := s.profiles.GetProfile(ctx, ident.UID)
	if err != nil {
		return access.Decision{}, err
	}

	dec := access.Authorize(access.Context{User: ident, Profile: prof}, suite, action)
	if !dec.Allowed {
		metrics.AuthorizationDenied.WithLabelValues(string(dec.Code)).Inc()
	}
	return dec, nil
}

// loadSuite reads a suite from cache or storage. A nil result with nil
// error means the suite does not exist.
func (s *Service) loadSuite(ctx context.Context, id string) (*models.Suite, error) {
	var result *models.Suite
	cacheKey := fmt.Sprintf("suite:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("suite cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetSuite(ctx, id)
	if err != nil {
		return nil, err
	}
	if result != nil {
		if err := s.cache.Set(cacheKey, result, s.cacheTTL); err != nil {
			s.log.Warn("failed to cache suite", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return result, nil
}

func (s *Service) invalidate(id string) {
	cacheKey := fmt.Sprintf("suite:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate suite cache", slog.String("key", cacheKey), sl.Err(err))
	}
}
