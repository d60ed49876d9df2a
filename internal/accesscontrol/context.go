package accesscontrol

import "github.com/spec-kit/inquiry-service/internal/domain"

// PermissionWildcard marks the universal permission set held by superusers.
const PermissionWildcard = "*"

// ActorContext is the effective identity an operation runs as. It is built
// fresh per request and never cached, because role, department and
// active-status can change between calls.
type ActorContext struct {
	UserID         string
	Role           domain.Role
	Permissions    map[string]struct{}
	StaffProfileID *string
	DepartmentID   *string
	// DepartmentViewAll mirrors the CanViewAllDepartments flag of the
	// actor's department record.
	DepartmentViewAll bool
}

// Has reports whether the actor holds the permission key. The wildcard
// satisfies every key, including restricted system permissions.
func (a ActorContext) Has(key string) bool {
	if _, ok := a.Permissions[PermissionWildcard]; ok {
		return true
	}
	_, ok := a.Permissions[key]
	return ok
}

// HasAny reports whether the actor holds at least one of the keys.
func (a ActorContext) HasAny(keys ...string) bool {
	for _, key := range keys {
		if a.Has(key) {
			return true
		}
	}
	return false
}

// IsBypass reports whether the actor's role satisfies scope checks through
// elevation instead of department or assignment matching.
func (a ActorContext) IsBypass() bool {
	return a.Role == domain.RoleSuperuser || a.Role == domain.RoleAdmin
}

// IsStaff reports whether the actor carries an active staff profile.
func (a ActorContext) IsStaff() bool {
	return a.StaffProfileID != nil
}

func permissionSet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}
