package suite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kweid-platfrom/frontend-sub005/internal/access"
	"github.com/kweid-platfrom/frontend-sub005/internal/entitlement"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSuite(ctx context.Context, suite models.Suite) (string, error) {
	args := m.Called(ctx, suite)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetSuite(ctx context.Context, id string) (*models.Suite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suite), args.Error(1)
}

func (m *RepoMock) ListSuitesForUser(ctx context.Context, userUID string, orgIDs []string, limit, offset int) ([]*models.Suite, error) {
	args := m.Called(ctx, userUID, orgIDs, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Suite), args.Error(1)
}

func (m *RepoMock) CountOwnedSuites(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) UpdateSuiteName(ctx context.Context, id, name string) (int, error) {
	args := m.Called(ctx, id, name)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) DeleteSuite(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
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

type ProfilesMock struct{ mock.Mock }

func (m *ProfilesMock) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *ProfilesMock) Evaluate(ctx context.Context, uid string) (entitlement.Capabilities, *models.UserProfile, error) {
	args := m.Called(ctx, uid)
	var prof *models.UserProfile
	if args.Get(1) != nil {
		prof = args.Get(1).(*models.UserProfile)
	}
	return args.Get(0).(entitlement.Capabilities), prof, args.Error(2)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(repo *RepoMock, cache *CacheMock, profiles *ProfilesMock) *Service {
	return New(repo, cache, profiles, NewNoopLogger(), time.Hour)
}

func TestSuite_Create(t *testing.T) {
	ident := &models.Identity{UID: "user-1", Username: "testuser"}
	prof := &models.UserProfile{UID: "user-1", SubscriptionType: entitlement.TierIndividual}
	caps := entitlement.Capabilities{
		SubscriptionType: entitlement.TierIndividual,
		Limits:           entitlement.Limits{Suites: 3},
	}
	req := models.DummySuite{Name: "Regression", AccountType: models.AccountIndividual}

	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock, cache *CacheMock, profiles *ProfilesMock)
		wantErr    error
	}{
		{
			name: "success under limit",
			setupMocks: func(repo *RepoMock, cache *CacheMock, profiles *ProfilesMock) {
				profiles.On("Evaluate", mock.Anything, "user-1").Return(caps, prof, nil).Once()
				repo.On("CountOwnedSuites", mock.Anything, "user-1").Return(1, nil).Once()
				repo.On("CreateSuite", mock.Anything, mock.Anything).Return("suite-42", nil).Once()
				cache.On("Set", "suite:suite-42", mock.Anything, time.Hour).Return(nil).Once()
			},
		},
		{
			name: "limit reached",
			setupMocks: func(repo *RepoMock, cache *CacheMock, profiles *ProfilesMock) {
				profiles.On("Evaluate", mock.Anything, "user-1").Return(caps, prof, nil).Once()
				repo.On("CountOwnedSuites", mock.Anything, "user-1").Return(3, nil).Once()
			},
			wantErr: ErrSuiteLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			profiles := new(ProfilesMock)
			tt.setupMocks(repo, cache, profiles)
			svc := newService(repo, cache, profiles)

			got, err := svc.Create(context.Background(), ident, req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "suite-42", got.ID)
				assert.Equal(t, "user-1", got.OwnerID)
				assert.Equal(t, "user-1", got.AccessControl.OwnerID)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			profiles.AssertExpectations(t)
		})
	}
}

func TestSuite_Create_OrganizationOwner(t *testing.T) {
	ident := &models.Identity{UID: "user-1"}
	prof := &models.UserProfile{UID: "user-1", SubscriptionType: entitlement.TierTeam}
	caps := entitlement.Capabilities{Limits: entitlement.Limits{Suites: 10}}

	repo := new(RepoMock)
	cache := new(CacheMock)
	profiles := new(ProfilesMock)
	profiles.On("Evaluate", mock.Anything, "user-1").Return(caps, prof, nil).Once()
	repo.On("CountOwnedSuites", mock.Anything, "user-1").Return(0, nil).Once()
	repo.On("CreateSuite", mock.Anything, mock.MatchedBy(func(s models.Suite) bool {
		return s.OwnerID == "org-7" &&
			s.AccessControl.OwnerID == "org-7" &&
			s.AccessControl.HasAdmin("user-1")
	})).Return("suite-1", nil).Once()
	cache.On("Set", "suite:suite-1", mock.Anything, time.Hour).Return(nil).Once()

	svc := newService(repo, cache, profiles)
	got, err := svc.Create(context.Background(), ident, models.DummySuite{
		Name:           "Org suite",
		AccountType:    models.AccountOrganization,
		OrganizationID: "org-7",
	})
	require.NoError(t, err)
	assert.Equal(t, "org-7", got.OwnerID)
	repo.AssertExpectations(t)
}

func TestSuite_Get(t *testing.T) {
	ident := &models.Identity{UID: "stranger"}
	owned := &models.Suite{
		ID:            "suite-1",
		Name:          "Smoke",
		OwnerID:       "someone-else",
		AccessControl: &models.AccessControl{OwnerID: "someone-else"},
	}

	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock, cache *CacheMock, profiles *ProfilesMock)
		wantErr    error
		wantCode   access.Code
	}{
		{
			name: "not found",
			setupMocks: func(repo *RepoMock, cache *CacheMock, profiles *ProfilesMock) {
				cache.On("Get", "suite:suite-1", mock.Anything).Return(false, nil).Once()
				repo.On("GetSuite", mock.Anything, "suite-1").Return(nil, nil).Once()
			},
			wantErr: ErrNotFound,
		},
		{
			name: "denied for non member",
			setupMocks: func(repo *RepoMock, cache *CacheMock, profiles *ProfilesMock) {
				cache.On("Get", "suite:suite-1", mock.Anything).Return(false, nil).Once()
				repo.On("GetSuite", mock.Anything, "suite-1").Return(owned, nil).Once()
				cache.On("Set", "suite:suite-1", owned, time.Hour).Return(nil).Once()
				profiles.On("GetProfile", mock.Anything, "stranger").
					Return(&models.UserProfile{UID: "stranger"}, nil).Once()
			},
			wantCode: access.CodeAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			profiles := new(ProfilesMock)
			tt.setupMocks(repo, cache, profiles)
			svc := newService(repo, cache, profiles)

			_, err := svc.Get(context.Background(), ident, "suite-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				var gerr *access.GuardError
				require.ErrorAs(t, err, &gerr)
				assert.Equal(t, tt.wantCode, gerr.Code)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSuite_Get_OwnerAllowed(t *testing.T) {
	ident := &models.Identity{UID: "owner-1"}
	s := &models.Suite{
		ID:            "suite-1",
		OwnerID:       "owner-1",
		AccessControl: &models.AccessControl{OwnerID: "owner-1"},
	}

	repo := new(RepoMock)
	cache := new(CacheMock)
	profiles := new(ProfilesMock)
	cache.On("Get", "suite:suite-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetSuite", mock.Anything, "suite-1").Return(s, nil).Once()
	cache.On("Set", "suite:suite-1", s, time.Hour).Return(nil).Once()
	profiles.On("GetProfile", mock.Anything, "owner-1").
		Return(&models.UserProfile{UID: "owner-1"}, nil).Once()

	svc := newService(repo, cache, profiles)
	got, err := svc.Get(context.Background(), ident, "suite-1")
	require.NoError(t, err)
	assert.Equal(t, "suite-1", got.ID)
}

func TestSuite_Update(t *testing.T) {
	s := &models.Suite{
		ID:      "suite-1",
		OwnerID: "owner-1",
		AccessControl: &models.AccessControl{
			OwnerID:           "owner-1",
			PermissionsMatrix: map[string]string{"viewer-1": "read"},
		},
	}

	tests := []struct {
		name     string
		uid      string
		wantN    int
		wantCode access.Code
		setup    func(repo *RepoMock, cache *CacheMock)
	}{
		{
			name:  "owner can rename",
			uid:   "owner-1",
			wantN: 1,
			setup: func(repo *RepoMock, cache *CacheMock) {
				repo.On("UpdateSuiteName", mock.Anything, "suite-1", "Renamed").Return(1, nil).Once()
				cache.On("Invalidate", "suite:suite-1").Return(nil).Once()
			},
		},
		{
			name:     "viewer cannot rename",
			uid:      "viewer-1",
			wantCode: access.CodeInsufficientPermission,
			setup:    func(repo *RepoMock, cache *CacheMock) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			profiles := new(ProfilesMock)
			cache.On("Get", "suite:suite-1", mock.Anything).Return(false, nil).Once()
			repo.On("GetSuite", mock.Anything, "suite-1").Return(s, nil).Once()
			cache.On("Set", "suite:suite-1", s, time.Hour).Return(nil).Once()
			profiles.On("GetProfile", mock.Anything, tt.uid).
				Return(&models.UserProfile{UID: tt.uid}, nil).Once()
			tt.setup(repo, cache)

			svc := newService(repo, cache, profiles)
			n, err := svc.Update(context.Background(), &models.Identity{UID: tt.uid}, "suite-1", "Renamed")
			if tt.wantCode != "" {
				var gerr *access.GuardError
				require.ErrorAs(t, err, &gerr)
				assert.Equal(t, tt.wantCode, gerr.Code)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantN, n)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestSuite_Delete_RequiresAdmin(t *testing.T) {
	s := &models.Suite{
		ID:      "suite-1",
		OwnerID: "owner-1",
		AccessControl: &models.AccessControl{
			OwnerID:           "owner-1",
			PermissionsMatrix: map[string]string{"editor-1": "write"},
		},
	}

	repo := new(RepoMock)
	cache := new(CacheMock)
	profiles := new(ProfilesMock)
	cache.On("Get", "suite:suite-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetSuite", mock.Anything, "suite-1").Return(s, nil).Once()
	cache.On("Set", "suite:suite-1", s, time.Hour).Return(nil).Once()
	profiles.On("GetProfile", mock.Anything, "editor-1").
		Return(&models.UserProfile{UID: "editor-1"}, nil).Once()

	svc := newService(repo, cache, profiles)
	_, err := svc.Delete(context.Background(), &models.Identity{UID: "editor-1"}, "suite-1")

	var gerr *access.GuardError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, access.CodeInsufficientPermission, gerr.Code)
	repo.AssertNotCalled(t, "DeleteSuite", mock.Anything, mock.Anything)
}

func TestSuite_List_FiltersInactiveMemberships(t *testing.T) {
	prof := &models.UserProfile{
		UID: "user-1",
		Memberships: []models.OrgMembership{
			{OrgID: "org-active", Role: "member", Status: "active"},
			{OrgID: "org-pending", Role: "member", Status: "pending"},
		},
	}

	repo := new(RepoMock)
	cache := new(CacheMock)
	profiles := new(ProfilesMock)
	profiles.On("GetProfile", mock.Anything, "user-1").Return(prof, nil).Once()
	repo.On("ListSuitesForUser", mock.Anything, "user-1", []string{"org-active"}, 20, 0).
		Return([]*models.Suite{{ID: "suite-1"}}, nil).Once()

	svc := newService(repo, cache, profiles)
	got, err := svc.List(context.Background(), &models.Identity{UID: "user-1"}, 20, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestSuite_CheckAccess_UnknownSuiteStillDecides(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	profiles := new(ProfilesMock)
	cache.On("Get", "suite:ghost", mock.Anything).Return(false, nil).Once()
	repo.On("GetSuite", mock.Anything, "ghost").Return(nil, nil).Once()
	profiles.On("GetProfile", mock.Anything, "user-1").
		Return(&models.UserProfile{UID: "user-1"}, nil).Once()

	svc := newService(repo, cache, profiles)
	dec, err := svc.CheckAccess(context.Background(), &models.Identity{UID: "user-1"}, "ghost", "view")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, access.CodeNoSuiteSelected, dec.Code)
}

func TestSuite_Get_RepoError(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	profiles := new(ProfilesMock)
	cache.On("Get", "suite:suite-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetSuite", mock.Anything, "suite-1").Return(nil, errors.New("db down")).Once()

	svc := newService(repo, cache, profiles)
	_, err := svc.Get(context.Background(), &models.Identity{UID: "user-1"}, "suite-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
