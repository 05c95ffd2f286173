package bitbucket

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Permission is a Bitbucket permission level
type Permission int

const (
	// PermissionNone means no permission filter
	PermissionNone Permission = iota
	PermissionLicensedUser
	PermissionProjectView
	PermissionProjectRead
	PermissionProjectWrite
	PermissionProjectAdmin
	PermissionProjectCreate
	PermissionRepoRead
	PermissionRepoWrite
	PermissionRepoAdmin
	PermissionAdmin
	PermissionSysAdmin
)

var permissionNames = map[Permission]string{
	PermissionLicensedUser:  "LICENSED_USER",
	PermissionProjectView:   "PROJECT_VIEW",
	PermissionProjectRead:   "PROJECT_READ",
	PermissionProjectWrite:  "PROJECT_WRITE",
	PermissionProjectAdmin:  "PROJECT_ADMIN",
	PermissionProjectCreate: "PROJECT_CREATE",
	PermissionRepoRead:      "REPO_READ",
	PermissionRepoWrite:     "REPO_WRITE",
	PermissionRepoAdmin:     "REPO_ADMIN",
	PermissionAdmin:         "ADMIN",
	PermissionSysAdmin:      "SYS_ADMIN",
}

// String returns the wire name of the permission, empty for PermissionNone
func (p Permission) String() string {
	return permissionNames[p]
}

// ParsePermission parses a wire name such as "REPO_READ", case insensitively
func ParsePermission(s string) (Permission, error) {
	if s == "" {
		return PermissionNone, nil
	}
	upper := strings.ToUpper(s)
	for p, name := range permissionNames {
		if name == upper {
			return p, nil
		}
	}
	return PermissionNone, fmt.Errorf("unknown permission: %s", s)
}

// param returns p for a query string or nil when unset
func (p Permission) param() any {
	if p == PermissionNone {
		return nil
	}
	return p
}

// Roles is a participant's role on a pull request
type Roles int

const (
	RoleUnknown Roles = iota
	RoleAuthor
	RoleReviewer
	RoleParticipant
)

// String returns the wire name of the role
func (r Roles) String() string {
	switch r {
	case RoleAuthor:
		return "AUTHOR"
	case RoleReviewer:
		return "REVIEWER"
	case RoleParticipant:
		return "PARTICIPANT"
	default:
		return ""
	}
}

// ParseRole parses a wire name such as "REVIEWER", case insensitively
func ParseRole(s string) (Roles, error) {
	switch strings.ToUpper(s) {
	case "":
		return RoleUnknown, nil
	case "AUTHOR":
		return RoleAuthor, nil
	case "REVIEWER":
		return RoleReviewer, nil
	case "PARTICIPANT":
		return RoleParticipant, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role: %s", s)
	}
}

// MarshalJSON encodes the role by name
func (r Roles) MarshalJSON() ([]byte, error) {
	if r == RoleUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a role name
func (r *Roles) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*r = RoleUnknown
		return nil
	}
	role, err := ParseRole(*s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

func (r Roles) param() any {
	if r == RoleUnknown {
		return nil
	}
	return r
}

// PullRequestState is the state of a pull request
type PullRequestState string

const (
	PullRequestStateOpen     PullRequestState = "OPEN"
	PullRequestStateMerged   PullRequestState = "MERGED"
	PullRequestStateDeclined PullRequestState = "DECLINED"
	// PullRequestStateAll is only valid as a list filter
	PullRequestStateAll PullRequestState = "ALL"
)

// Visibility filters repositories by public access
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)
