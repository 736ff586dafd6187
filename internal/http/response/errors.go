package response

import "net/http"

// GuardStatus maps an authorization reason code to an HTTP status.
// Unknown codes map to 403 since they are denial reasons.
func GuardStatus(code string) int {
	switch code {
	case "USER_NOT_AUTHENTICATED":
		return http.StatusUnauthorized
	case "NO_SUITE_SELECTED", "INVALID_SUITE_ID", "MISSING_PARAMETERS":
		return http.StatusBadRequest
	case "LOADING":
		return http.StatusServiceUnavailable
	case "EXECUTION_ERROR":
		return http.StatusInternalServerError
	default:
		return http.StatusForbidden
	}
}
