// Package auth contains registration, login and token validation.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/kweid-platfrom/frontend-sub005/internal/entitlement"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/jwt"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/password"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// ErrInvalidCredentials is returned when the password check fails.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository describes the user storage contract the service needs.
type UserRepository interface {
	// RegisterUser stores a new user and returns the generated uid.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername returns a user by username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service handles registration, login and JWT validation.
type Service struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	trialDays int
}

// New creates an auth Service. trialDays is the length of the trial
// started at registration.
func New(users UserRepository, jwtMaker jwt.Maker, trialDays int) *Service {
	return &Service{
		users:     users,
		jwtMaker:  jwtMaker,
		trialDays: trialDays,
	}
}

// Register creates a user with a hashed password and starts their trial.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	trialStart := time.Now().UTC()
	trialEnd := trialStart.AddDate(0, 0, s.trialDays)
	user := models.User{
		Email:              email,
		Username:           username,
		PasswordHash:       hashed,
		AccountType:        models.AccountIndividual,
		SubscriptionType:   entitlement.TierTrial,
		SubscriptionStatus: "active",
		TrialStartDate:     &trialStart,
		TrialEndDate:       &trialEnd,
		IsTrialActive:      true,
		TrialDaysRemaining: s.trialDays,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login checks the password and issues a JWT for the user.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(user.UID, user.Username, user.EmailVerified)
}

// ValidateToken parses a JWT and returns the caller's identity.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.Identity, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.Identity{
		UID:           claims.UserUID,
		Username:      claims.Username,
		EmailVerified: claims.EmailVerified,
	}, nil
}
