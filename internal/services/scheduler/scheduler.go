// Package scheduler finds users whose trial expires today and publishes
// expiry notifications.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/kweid-platfrom/frontend-sub005/internal/lib/rabbitmq"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// TrialExpiryMessage is the notification payload for an expiring trial.
type TrialExpiryMessage struct {
	UserUID  string `json:"user_uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TrialRepository describes the storage the scheduler reads from and
// writes expired trial flags to.
type TrialRepository interface {
	FindTrialsExpiringToday(ctx context.Context) ([]*models.User, error)
	UpdateTrialStatus(ctx context.Context, userUID string, isActive bool, daysRemaining int) error
}

// Publisher publishes notification messages.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service is the trial expiry scheduler.
type Service struct {
	repo      TrialRepository
	publisher Publisher
	log       *slog.Logger
}

// New creates a scheduler Service.
func New(repo TrialRepository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// WatchExpiringTrials runs the expiry sweep once at startup and then
// every 24 hours until the context is cancelled.
func (s *Service) WatchExpiringTrials(ctx context.Context) {
	s.SweepExpiringTrials(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepExpiringTrials(ctx)
		}
	}
}

// SweepExpiringTrials marks today's expiring trials inactive and
// publishes a notification for each affected user.
func (s *Service) SweepExpiringTrials(ctx context.Context) {
	s.log.Info("starting sweep for trials expiring today")
	users, err := s.repo.FindTrialsExpiringToday(ctx)
	if err != nil {
		s.log.Error("failed to find expiring trials", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expiring trials found")
		return
	}
	s.log.Info("found expiring trials", "count", len(users))

	for _, user := range users {
		if err := s.repo.UpdateTrialStatus(ctx, user.UID, false, 0); err != nil {
			s.log.Error("failed to mark trial expired", slog.String("uid", user.UID), sl.Err(err))
			continue
		}
		msg := TrialExpiryMessage{
			UserUID:  user.UID,
			Email:    user.Email,
			Username: user.Username,
		}
		if err := s.publisher.Publish(rabbitmq.RoutingTrialExpiry, msg); err != nil {
			s.log.Error("failed to publish trial expiry message", slog.String("uid", user.UID), sl.Err(err))
		}
	}
}
