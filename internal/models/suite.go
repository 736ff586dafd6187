package models

import "time"

// Account types for suites.
const (
	AccountIndividual   = "individual"
	AccountOrganization = "organization"
)

// AccessControl is the per-suite access document. The suite owner always
// has admin access even when absent from Admins or the matrix.
type AccessControl struct {
	OwnerID           string            `json:"owner_id"`
	Admins            []string          `json:"admins,omitempty"`
	Members           []string          `json:"members,omitempty"`
	PermissionsMatrix map[string]string `json:"permissions_matrix,omitempty"` // uid -> read|write|admin
}

// HasAdmin reports whether uid is in the admins list.
func (ac *AccessControl) HasAdmin(uid string) bool {
	if ac == nil {
		return false
	}
	for _, a := range ac.Admins {
		if a == uid {
			return true
		}
	}
	return false
}

// HasMember reports whether uid is in the members list.
func (ac *AccessControl) HasMember(uid string) bool {
	if ac == nil {
		return false
	}
	for _, m := range ac.Members {
		if m == uid {
			return true
		}
	}
	return false
}

// Suite is a tenant-scoped container of testing assets (bugs, test cases,
// recordings). For organization suites the organization id is the nominal
// owner.
type Suite struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	OwnerID        string         `json:"owner_id"`
	AccountType    string         `json:"account_type"` // individual or organization
	OrganizationID *string        `json:"organization_id,omitempty"`
	AccessControl  *AccessControl `json:"access_control"`
	CreatedAt      time.Time      `json:"created_at"`
}

// DummySuite carries suite fields from a JSON request before conversion
// into a Suite.
type DummySuite struct {
	Name           string `json:"name" validate:"required"`
	AccountType    string `json:"account_type" validate:"required,oneof=individual organization"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// DummyInvite carries a member invitation from a JSON request.
type DummyInvite struct {
	UserUID string `json:"user_uid" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Level   string `json:"level" validate:"required,oneof=read write admin"`
}

// DummyRoleUpdate carries a permission matrix update from a JSON request.
type DummyRoleUpdate struct {
	Level string `json:"level" validate:"required,oneof=read write admin"`
}
