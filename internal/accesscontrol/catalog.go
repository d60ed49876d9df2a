// Package accesscontrol maps authenticated identities to effective
// permission sets and visibility scopes. The permission catalog is an
// immutable in-memory value fixed at build time; callers treat unknown keys
// as simply absent from the effective set.
package accesscontrol

// ScopeType is the breadth of data a permission grants access to.
type ScopeType string

const (
	ScopeGlobal       ScopeType = "GLOBAL"
	ScopeDepartment   ScopeType = "DEPARTMENT"
	ScopeAssignedOnly ScopeType = "ASSIGNED_ONLY"
	ScopeSelfOnly     ScopeType = "SELF_ONLY"
)

// CrossDepartmentAccess governs whether a department's staff may see
// inquiries beyond ordinary department-scope rules.
type CrossDepartmentAccess string

const (
	CrossDepartmentNone     CrossDepartmentAccess = "none"
	CrossDepartmentReadOnly CrossDepartmentAccess = "read_only"
	CrossDepartmentManaged  CrossDepartmentAccess = "managed"
)

// PermissionDefinition describes one catalog entry.
type PermissionDefinition struct {
	Key          string
	DefaultScope ScopeType
	Description  string
}

// Base permissions held by every authenticated identity.
const (
	PermInquiriesCreate = "inquiries.create"
	PermInquiriesView   = "inquiries.view"
)

// Narrow staff grants: departmental membership but only assigned inquiries.
const (
	PermDeptInquiriesView  = "department.inquiries.view"
	PermDeptInquiriesReply = "department.inquiries.reply"
)

// Template management.
const (
	PermTemplatesView   = "inquiries.templates.view"
	PermTemplatesManage = "inquiries.templates.manage"
)

// Restricted system permissions. These require the superuser role
// specifically; the elevated admin role never receives them.
const (
	PermSystemImpersonate     = "system.impersonate"
	PermSystemPermissions     = "system.permissions.manage"
	PermSystemAccountsDisable = "system.accounts.disable"
)

// departmentPrefixes are the department queue namespaces known to the
// catalog. Each prefix carries view/reply/assign/escalate/manage keys.
var departmentPrefixes = []string{"support", "finance", "marketing", "hr"}

var queueActions = []struct {
	action string
	scope  ScopeType
	desc   string
}{
	{"view", ScopeDepartment, "read the department inquiry queue"},
	{"reply", ScopeDepartment, "reply to inquiries in the department queue"},
	{"assign", ScopeDepartment, "assign department inquiries to staff"},
	{"escalate", ScopeDepartment, "escalate department inquiries to another department"},
	{"manage", ScopeDepartment, "full management of department inquiries"},
}

var staticDefinitions = []PermissionDefinition{
	{PermInquiriesCreate, ScopeSelfOnly, "file a new inquiry"},
	{PermInquiriesView, ScopeSelfOnly, "view own inquiries"},
	{PermDeptInquiriesView, ScopeAssignedOnly, "view inquiries assigned to the holder"},
	{PermDeptInquiriesReply, ScopeAssignedOnly, "reply to inquiries assigned to the holder"},
	{PermTemplatesView, ScopeGlobal, "list quick-reply templates"},
	{PermTemplatesManage, ScopeGlobal, "create, edit and delete quick-reply templates"},
	{"inquiries.export", ScopeDepartment, "export inquiry data for reporting"},
	{"staff.profiles.view", ScopeDepartment, "view staff profiles"},
	{"staff.profiles.manage", ScopeGlobal, "manage staff profiles"},
	{"departments.view", ScopeGlobal, "view department records"},
	{"departments.manage", ScopeGlobal, "manage department records"},
	{"payouts.request", ScopeSelfOnly, "request a staff payout"},
	{"payouts.approve", ScopeDepartment, "approve a staff payout"},
	{"staff.roles.request", ScopeSelfOnly, "request a role change"},
	{"staff.roles.approve", ScopeGlobal, "approve a role change"},
	{"staff.reviews.submit", ScopeDepartment, "submit a performance review"},
	{"staff.reviews.approve", ScopeDepartment, "approve a performance review"},
	{"notifications.broadcast", ScopeGlobal, "broadcast announcements to staff"},
	{PermSystemImpersonate, ScopeGlobal, "impersonate another identity"},
	{PermSystemPermissions, ScopeGlobal, "modify role and permission grants"},
	{PermSystemAccountsDisable, ScopeGlobal, "disable identity accounts"},
}

var restrictedSystemPermissions = map[string]struct{}{
	PermSystemImpersonate:     {},
	PermSystemPermissions:     {},
	PermSystemAccountsDisable: {},
}

var crossDepartmentPolicy = map[string]CrossDepartmentAccess{
	"support":   CrossDepartmentReadOnly,
	"finance":   CrossDepartmentNone,
	"marketing": CrossDepartmentNone,
	"hr":        CrossDepartmentManaged,
}

var definitions []PermissionDefinition

func init() {
	definitions = append(definitions, staticDefinitions...)
	for _, prefix := range departmentPrefixes {
		for _, qa := range queueActions {
			definitions = append(definitions, PermissionDefinition{
				Key:          prefix + ".inquiries." + qa.action,
				DefaultScope: qa.scope,
				Description:  prefix + ": " + qa.desc,
			})
		}
	}
}

// ListPermissions returns every catalog entry. The returned slice is a copy.
func ListPermissions() []PermissionDefinition {
	out := make([]PermissionDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// AllKeys returns every permission key in the catalog.
func AllKeys() []string {
	keys := make([]string, 0, len(definitions))
	for _, def := range definitions {
		keys = append(keys, def.Key)
	}
	return keys
}

// IsRestrictedSystemPermission reports whether the key sits on the hard
// deny-list that role elevation never bypasses.
func IsRestrictedSystemPermission(key string) bool {
	_, ok := restrictedSystemPermissions[key]
	return ok
}

// CrossDepartmentAccessFor returns the cross-department policy for a
// department prefix. Unknown prefixes default to none.
func CrossDepartmentAccessFor(prefix string) CrossDepartmentAccess {
	if access, ok := crossDepartmentPolicy[prefix]; ok {
		return access
	}
	return CrossDepartmentNone
}

// DepartmentQueueViewKeys returns the queue-level view keys
// (e.g. support.inquiries.view), which resolve to DEPARTMENT scope.
func DepartmentQueueViewKeys() []string {
	return queueKeys("view")
}

// ReplyClassKeys are the permissions that allow posting a staff reply. The
// narrow department.inquiries.reply key is included but additionally
// requires the inquiry to be assigned to the holder.
func ReplyClassKeys() []string {
	return append(queueKeys("reply", "manage"), PermDeptInquiriesReply)
}

// AssignClassKeys allow assigning inquiries to staff.
func AssignClassKeys() []string {
	return queueKeys("assign", "manage")
}

// EscalateClassKeys allow moving an inquiry to another department.
func EscalateClassKeys() []string {
	return queueKeys("escalate", "manage")
}

// StaffActionKeys is the union of reply, assign, escalate and manage class
// keys; holding any of them marks the actor as operating in a staff
// capacity.
func StaffActionKeys() []string {
	keys := queueKeys("reply", "assign", "escalate", "manage")
	return append(keys, PermDeptInquiriesReply)
}

func queueKeys(actions ...string) []string {
	keys := make([]string, 0, len(actions)*len(departmentPrefixes))
	for _, prefix := range departmentPrefixes {
		for _, action := range actions {
			keys = append(keys, prefix+".inquiries."+action)
		}
	}
	return keys
}
