// Package member contains the business logic for suite membership:
// invitations, permission matrix changes and member removal, all gated
// through the access layer.
package member

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kweid-platfrom/frontend-sub005/internal/access"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/rabbitmq"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
	"github.com/kweid-platfrom/frontend-sub005/internal/metrics"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
	suitesvc "github.com/kweid-platfrom/frontend-sub005/internal/services/suite"
)

// InviteMessage is the notification payload published when a user is
// invited to a suite.
type InviteMessage struct {
	SuiteID   string `json:"suite_id"`
	SuiteName string `json:"suite_name"`
	InviterID string `json:"inviter_id"`
	UserUID   string `json:"user_uid"`
	Email     string `json:"email"`
	Level     string `json:"level"`
}

// SuiteRepository is the slice of suite storage this service mutates.
type SuiteRepository interface {
	GetSuite(ctx context.Context, id string) (*models.Suite, error)
	UpdateAccessControl(ctx context.Context, id string, ac models.AccessControl) error
}

// ProfileProvider loads the inviter's profile for authorization.
type ProfileProvider interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
}

// Publisher publishes notification messages.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Cache invalidates cached suites after access control changes.
type Cache interface {
	Invalidate(key string) error
}

// Service implements membership operations on suites.
type Service struct {
	repo      SuiteRepository
	cache     Cache
	profiles  ProfileProvider
	publisher Publisher
	log       *slog.Logger
}

// New creates a member Service.
func New(repo SuiteRepository, cache Cache, profiles ProfileProvider, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		profiles:  profiles,
		publisher: publisher,
		log:       log,
	}
}

// Invite adds a user to a suite at the given level and publishes an
// invitation notification. Requires the invite action (admin).
func (s *Service) Invite(ctx context.Context, ident *models.Identity, suiteID string, req models.DummyInvite) error {
	suite, prof, err := s.load(ctx, ident, suiteID)
	if err != nil {
		return err
	}

	gerr := access.ExecuteIfAllowed(access.Context{User: ident, Profile: prof}, suite, "invite", func() error {
		ac := *suite.AccessControl
		if !ac.HasMember(req.UserUID) {
			ac.Members = append(ac.Members, req.UserUID)
		}
		if ac.PermissionsMatrix == nil {
			ac.PermissionsMatrix = map[string]string{}
		}
		ac.PermissionsMatrix[req.UserUID] = req.Level
		return s.repo.UpdateAccessControl(ctx, suiteID, ac)
	})
	if gerr != nil {
		metrics.AuthorizationDenied.WithLabelValues(string(gerr.Code)).Inc()
		return gerr
	}

	s.invalidate(suiteID)
	msg := InviteMessage{
		SuiteID:   suiteID,
		SuiteName: suite.Name,
		InviterID: ident.UID,
		UserUID:   req.UserUID,
		Email:     req.Email,
		Level:     req.Level,
	}
	if err := s.publisher.Publish(rabbitmq.RoutingInvite, msg); err != nil {
		// The membership change is already durable; the email can be
		// resent, so a publish failure is not fatal.
		s.log.Warn("failed to publish invite notification", slog.String("suite_id", suiteID), sl.Err(err))
	}

	s.log.Info("invited member to suite",
		slog.String("suite_id", suiteID),
		slog.String("user_uid", req.UserUID),
		slog.String("level", req.Level))
	return nil
}

// UpdateRole sets the matrix level of a member. Requires manage (admin).
func (s *Service) UpdateRole(ctx context.Context, ident *models.Identity, suiteID, userUID, level string) error {
	suite, prof, err := s.load(ctx, ident, suiteID)
	if err != nil {
		return err
	}

	gerr := access.ExecuteIfAllowed(access.Context{User: ident, Profile: prof}, suite, "manage", func() error {
		ac := *suite.AccessControl
		if ac.PermissionsMatrix == nil {
			ac.PermissionsMatrix = map[string]string{}
		}
		ac.PermissionsMatrix[userUID] = level
		return s.repo.UpdateAccessControl(ctx, suiteID, ac)
	})
	if gerr != nil {
		metrics.AuthorizationDenied.WithLabelValues(string(gerr.Code)).Inc()
		return gerr
	}

	s.invalidate(suiteID)
	s.log.Info("updated member role",
		slog.String("suite_id", suiteID),
		slog.String("user_uid", userUID),
		slog.String("level", level))
	return nil
}

// Remove deletes a member from the suite's lists and matrix. Requires
// manage (admin).
func (s *Service) Remove(ctx context.Context, ident *models.Identity, suiteID, userUID string) error {
	suite, prof, err := s.load(ctx, ident, suiteID)
	if err != nil {
		return err
	}

	gerr := access.ExecuteIfAllowed(access.Context{User: ident, Profile: prof}, suite, "manage", func() error {
		ac := *suite.AccessControl
		ac.Members = without(ac.Members, userUID)
		ac.Admins = without(ac.Admins, userUID)
		if ac.PermissionsMatrix != nil {
			delete(ac.PermissionsMatrix, userUID)
		}
		return s.repo.UpdateAccessControl(ctx, suiteID, ac)
	})
	if gerr != nil {
		metrics.AuthorizationDenied.WithLabelValues(string(gerr.Code)).Inc()
		return gerr
	}

	s.invalidate(suiteID)
	s.log.Info("removed member from suite",
		slog.String("suite_id", suiteID),
		slog.String("user_uid", userUID))
	return nil
}

func (s *Service) load(ctx context.Context, ident *models.Identity, suiteID string) (*models.Suite, *models.UserProfile, error) {
	suite, err := s.repo.GetSuite(ctx, suiteID)
	if err != nil {
		return nil, nil, err
	}
	if suite == nil {
		return nil, nil, suitesvc.ErrNotFound
	}
	if suite.AccessControl == nil {
		suite.AccessControl = &models.AccessControl{OwnerID: suite.OwnerID}
	}
	prof, err := s.profiles.GetProfile(ctx, ident.UID)
	if err != nil {
		return nil, nil, err
	}
	return suite, prof, nil
}

// without returns the list with every occurrence of v removed.
func without(list []string, v string) []string {
	var out []string
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}

func (s *Service) invalidate(id string) {
	cacheKey := fmt.Sprintf("suite:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate suite cache", slog.String("key", cacheKey), sl.Err(err))
	}
}
