package access

// Source identifies which resolution rule produced a permission level.
type Source string

// Resolution sources, in the order the resolver checks them. The three
// no-access sources are distinct so callers can tell malformed input
// apart from an authenticated but unauthorized user.
const (
	SourceOwner                = Source("OWNER")
	SourceAdminList            = Source("ADMIN_LIST")
	SourceMatrix               = Source("MATRIX")
	SourceOrgMembership        = Source("ORG_MEMBERSHIP")
	SourceMemberList           = Source("MEMBER_LIST")
	SourceDenied               = Source("DENIED")
	SourceMissingParameters    = Source("MISSING_PARAMETERS")
	SourceMissingAccessControl = Source("MISSING_ACCESS_CONTROL")
)

// Code is a machine-readable denial or failure reason returned to callers.
type Code string

// Reason codes. Validation and authorization failures are values, never
// errors; only a guarded callback failure produces CodeExecutionError.
const (
	CodeNoSuiteSelected        = Code("NO_SUITE_SELECTED")
	CodeUserNotAuthenticated   = Code("USER_NOT_AUTHENTICATED")
	CodeInvalidSuiteID         = Code("INVALID_SUITE_ID")
	CodeMissingParameters      = Code("MISSING_PARAMETERS")
	CodeAccessDenied           = Code("ACCESS_DENIED")
	CodeInsufficientPermission = Code("INSUFFICIENT_PERMISSION_FOR_ACTION")
	CodeInsufficientOrgRole    = Code("INSUFFICIENT_ORG_PERMISSION")
	CodeMemberReadOnly         = Code("MEMBER_READ_ONLY")
	CodeLoading                = Code("LOADING")
	CodeExecutionError         = Code("EXECUTION_ERROR")
)

var messages = map[Code]string{
	CodeNoSuiteSelected:        "no test suite selected",
	CodeUserNotAuthenticated:   "you must be signed in to do this",
	CodeInvalidSuiteID:         "the selected test suite is invalid",
	CodeMissingParameters:      "permission check is missing required parameters",
	CodeAccessDenied:           "you do not have access to this test suite",
	CodeInsufficientPermission: "you do not have sufficient permission for this action",
	CodeInsufficientOrgRole:    "your organization role does not allow this action",
	CodeMemberReadOnly:         "members have read-only access to this test suite",
	CodeLoading:                "access information is still loading, try again",
	CodeExecutionError:         "the operation failed unexpectedly",
}

// Message returns the fixed human-readable message for a reason code.
// Unknown codes fall back to a generic denial message.
func Message(code Code) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "the action could not be completed"
}
