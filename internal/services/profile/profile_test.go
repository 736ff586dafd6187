package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kweid-platfrom/frontend-sub005/internal/entitlement"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ListMemberships(ctx context.Context, userUID string) ([]models.OrgMembership, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrgMembership), args.Error(1)
}

func (m *RepoMock) UpdateTrialStatus(ctx context.Context, userUID string, isActive bool, daysRemaining int) error {
	return m.Called(ctx, userUID, isActive, daysRemaining).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newService(repo *RepoMock, cache *CacheMock) *Service {
	svc := New(repo, cache, NewNoopLogger(), 5*time.Minute)
	svc.now = func() time.Time { return testNow }
	return svc
}

func expiredTrialUser() *models.User {
	end := testNow.Add(-48 * time.Hour)
	return &models.User{
		UID:                "user-1",
		Email:              "u@example.com",
		Username:           "testuser",
		AccountType:        models.AccountIndividual,
		SubscriptionType:   entitlement.TierTrial,
		SubscriptionStatus: "active",
		TrialEndDate:       &end,
		IsTrialActive:      true, // stale
		TrialDaysRemaining: 12,   // stale
	}
}

func TestProfile_GetProfile_CacheMiss(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	user := expiredTrialUser()
	memberships := []models.OrgMembership{{OrgID: "org-1", Role: "member", Status: "active"}}

	cache.On("Get", "profile:user-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetUser", mock.Anything, "user-1").Return(user, nil).Once()
	repo.On("ListMemberships", mock.Anything, "user-1").Return(memberships, nil).Once()
	cache.On("Set", "profile:user-1", mock.Anything, 5*time.Minute).Return(nil).Once()

	svc := newService(repo, cache)
	p, err := svc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UID)
	assert.Equal(t, memberships, p.Memberships)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestProfile_Evaluate_WritesBackStaleTrialOnce(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	user := expiredTrialUser()

	cache.On("Get", "profile:user-1", mock.Anything).Return(false, nil)
	repo.On("GetUser", mock.Anything, "user-1").Return(user, nil)
	repo.On("ListMemberships", mock.Anything, "user-1").Return([]models.OrgMembership{}, nil)
	cache.On("Set", "profile:user-1", mock.Anything, 5*time.Minute).Return(nil)
	repo.On("UpdateTrialStatus", mock.Anything, "user-1", false, 0).Return(nil).Once()
	cache.On("Invalidate", "profile:user-1").Return(nil).Once()

	svc := newService(repo, cache)

	caps, _, err := svc.Evaluate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, caps.IsTrialActive)
	assert.Zero(t, caps.TrialDaysRemaining)

	// Second evaluation of the same uid must not write again.
	_, _, err = svc.Evaluate(context.Background(), "user-1")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "UpdateTrialStatus", 1)
}

func TestProfile_Evaluate_NoWriteWhenFlagsFresh(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	end := testNow.Add(72 * time.Hour)
	user := &models.User{
		UID:                "user-2",
		SubscriptionType:   entitlement.TierTrial,
		TrialEndDate:       &end,
		IsTrialActive:      true,
		TrialDaysRemaining: 3,
	}

	cache.On("Get", "profile:user-2", mock.Anything).Return(false, nil).Once()
	repo.On("GetUser", mock.Anything, "user-2").Return(user, nil).Once()
	repo.On("ListMemberships", mock.Anything, "user-2").Return([]models.OrgMembership{}, nil).Once()
	cache.On("Set", "profile:user-2", mock.Anything, 5*time.Minute).Return(nil).Once()

	svc := newService(repo, cache)
	caps, _, err := svc.Evaluate(context.Background(), "user-2")
	require.NoError(t, err)
	assert.True(t, caps.IsTrialActive)
	assert.Equal(t, 3, caps.TrialDaysRemaining)
	repo.AssertNotCalled(t, "UpdateTrialStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProfile_Evaluate_WriteBackFailureIsNotFatal(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	user := expiredTrialUser()

	cache.On("Get", "profile:user-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetUser", mock.Anything, "user-1").Return(user, nil).Once()
	repo.On("ListMemberships", mock.Anything, "user-1").Return([]models.OrgMembership{}, nil).Once()
	cache.On("Set", "profile:user-1", mock.Anything, 5*time.Minute).Return(nil).Once()
	repo.On("UpdateTrialStatus", mock.Anything, "user-1", false, 0).
		Return(errors.New("db down")).Once()

	svc := newService(repo, cache)
	caps, _, err := svc.Evaluate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, caps.IsTrialActive)
}

func TestProfile_Evaluate_ConcurrentCallersWriteAtMostOnceEach(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	user := expiredTrialUser()

	cache.On("Get", "profile:user-1", mock.Anything).Return(false, nil)
	repo.On("GetUser", mock.Anything, "user-1").Return(user, nil)
	repo.On("ListMemberships", mock.Anything, "user-1").Return([]models.OrgMembership{}, nil)
	cache.On("Set", "profile:user-1", mock.Anything, 5*time.Minute).Return(nil)
	repo.On("UpdateTrialStatus", mock.Anything, "user-1", false, 0).Return(nil)
	cache.On("Invalidate", "profile:user-1").Return(nil)

	svc := newService(repo, cache)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Evaluate(context.Background(), "user-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// The session guard makes the write at-most-once per uid.
	calls := 0
	for _, call := range repo.Calls {
		if call.Method == "UpdateTrialStatus" {
			calls++
		}
	}
	assert.Equal(t, 1, calls)
}
