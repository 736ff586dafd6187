package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"USER_NOT_AUTHENTICATED", http.StatusUnauthorized},
		{"NO_SUITE_SELECTED", http.StatusBadRequest},
		{"INVALID_SUITE_ID", http.StatusBadRequest},
		{"MISSING_PARAMETERS", http.StatusBadRequest},
		{"LOADING", http.StatusServiceUnavailable},
		{"EXECUTION_ERROR", http.StatusInternalServerError},
		{"ACCESS_DENIED", http.StatusForbidden},
		{"INSUFFICIENT_PERMISSION_FOR_ACTION", http.StatusForbidden},
		{"INSUFFICIENT_ORG_PERMISSION", http.StatusForbidden},
		{"MEMBER_READ_ONLY", http.StatusForbidden},
		{"SOMETHING_NEW", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GuardStatus(tt.code))
		})
	}
}

func TestDenied_CarriesCode(t *testing.T) {
	resp := Denied("ACCESS_DENIED", "you do not have access to this test suite")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "ACCESS_DENIED", resp.Code)
	assert.Equal(t, "you do not have access to this test suite", resp.Error)
}

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"healthy": true})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}
