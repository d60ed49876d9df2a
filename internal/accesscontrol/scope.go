package accesscontrol

import (
	"github.com/spec-kit/inquiry-service/pkg/apperrors"
)

// InquiryScope is the storage-filter predicate a view operation runs under.
// Exactly one of the id fields is meaningful depending on Type.
type InquiryScope struct {
	Type           ScopeType
	UserID         string
	StaffProfileID string
	DepartmentID   string
	// ViewAllDepartments widens a DEPARTMENT scope to every department
	// (granted via the department record, not a permission key).
	ViewAllDepartments bool
}

// ResolveViewScope determines the scope an actor's view-class capability
// grants. Priority is evaluated top-down; the first match wins.
func ResolveViewScope(actor ActorContext) (ScopeType, error) {
	switch {
	case actor.IsBypass():
		return ScopeGlobal, nil
	case actor.HasAny(DepartmentQueueViewKeys()...):
		return ScopeDepartment, nil
	case actor.Has(PermDeptInquiriesView):
		return ScopeAssignedOnly, nil
	case actor.Has(PermInquiriesView):
		return ScopeSelfOnly, nil
	default:
		return "", apperrors.NewForbidden("no inquiry view capability")
	}
}

// BuildInquiryScope resolves the scope and binds the actor identifiers the
// repository filter needs. DEPARTMENT and ASSIGNED_ONLY scopes require an
// active staff profile.
func BuildInquiryScope(actor ActorContext) (InquiryScope, error) {
	scopeType, err := ResolveViewScope(actor)
	if err != nil {
		return InquiryScope{}, err
	}
	scope := InquiryScope{Type: scopeType, UserID: actor.UserID}
	switch scopeType {
	case ScopeGlobal:
		// no filter
	case ScopeDepartment:
		if actor.StaffProfileID == nil || actor.DepartmentID == nil {
			return InquiryScope{}, apperrors.NewForbidden("department scope requires an active staff profile")
		}
		scope.StaffProfileID = *actor.StaffProfileID
		scope.DepartmentID = *actor.DepartmentID
		scope.ViewAllDepartments = actor.DepartmentViewAll
	case ScopeAssignedOnly:
		if actor.StaffProfileID == nil {
			return InquiryScope{}, apperrors.NewForbidden("assigned scope requires an active staff profile")
		}
		scope.StaffProfileID = *actor.StaffProfileID
	case ScopeSelfOnly:
		// filter on the requesting identity
	}
	return scope, nil
}
