package status

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kweid-platfrom/frontend-sub005/internal/entitlement"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/middlewarectx"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Evaluate(ctx context.Context, uid string) (entitlement.Capabilities, *models.UserProfile, error) {
	args := m.Called(ctx, uid)
	var prof *models.UserProfile
	if args.Get(1) != nil {
		prof = args.Get(1).(*models.UserProfile)
	}
	return args.Get(0).(entitlement.Capabilities), prof, args.Error(2)
}

type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) CountOwnedSuites(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ident := &models.Identity{UID: "user-1"}
	prof := &models.UserProfile{UID: "user-1", SubscriptionType: entitlement.TierIndividual}

	tests := []struct {
		name           string
		setupMocks     func(*MockService, *MockCounter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "under limit can create",
			setupMocks: func(s *MockService, c *MockCounter) {
				s.On("Evaluate", mock.Anything, "user-1").Return(entitlement.Capabilities{
					SubscriptionType: entitlement.TierIndividual,
					Limits:           entitlement.Limits{Suites: 3},
				}, prof, nil)
				c.On("CountOwnedSuites", mock.Anything, "user-1").Return(1, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"can_create_suite":true`,
		},
		{
			name: "at limit cannot create",
			setupMocks: func(s *MockService, c *MockCounter) {
				s.On("Evaluate", mock.Anything, "user-1").Return(entitlement.Capabilities{
					SubscriptionType: entitlement.TierIndividual,
					Limits:           entitlement.Limits{Suites: 3},
				}, prof, nil)
				c.On("CountOwnedSuites", mock.Anything, "user-1").Return(3, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"can_create_suite":false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockCounter := new(MockCounter)
			tt.setupMocks(mockService, mockCounter)

			handler := New(logger, mockService, mockCounter)

			req := httptest.NewRequest(http.MethodGet, "/entitlements", nil)
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, ident))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
			mockCounter.AssertExpectations(t)
		})
	}
}

func TestStatusHandler_Unauthenticated(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	handler := New(logger, new(MockService), new(MockCounter))

	req := httptest.NewRequest(http.MethodGet, "/entitlements", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
