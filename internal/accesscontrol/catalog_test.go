package accesscontrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogKeysUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for _, key := range AllKeys() {
		_, dup := seen[key]
		require.False(t, dup, "duplicate catalog key %s", key)
		seen[key] = struct{}{}
	}
}

func TestCatalogContainsDepartmentQueues(t *testing.T) {
	keys := make(map[string]struct{})
	for _, key := range AllKeys() {
		keys[key] = struct{}{}
	}
	for _, prefix := range []string{"support", "finance", "marketing", "hr"} {
		for _, action := range []string{"view", "reply", "assign", "escalate", "manage"} {
			_, ok := keys[prefix+".inquiries."+action]
			assert.True(t, ok, "missing %s.inquiries.%s", prefix, action)
		}
	}
}

func TestRestrictedSystemPermissions(t *testing.T) {
	assert.True(t, IsRestrictedSystemPermission(PermSystemImpersonate))
	assert.True(t, IsRestrictedSystemPermission(PermSystemPermissions))
	assert.True(t, IsRestrictedSystemPermission(PermSystemAccountsDisable))
	assert.False(t, IsRestrictedSystemPermission(PermInquiriesView))
	assert.False(t, IsRestrictedSystemPermission("support.inquiries.manage"))
}

func TestCrossDepartmentAccessFor(t *testing.T) {
	assert.Equal(t, CrossDepartmentReadOnly, CrossDepartmentAccessFor("support"))
	assert.Equal(t, CrossDepartmentNone, CrossDepartmentAccessFor("finance"))
	assert.Equal(t, CrossDepartmentNone, CrossDepartmentAccessFor("marketing"))
	assert.Equal(t, CrossDepartmentManaged, CrossDepartmentAccessFor("hr"))
	assert.Equal(t, CrossDepartmentNone, CrossDepartmentAccessFor("unknown"))
}

func TestListPermissionsReturnsCopy(t *testing.T) {
	first := ListPermissions()
	require.NotEmpty(t, first)
	first[0].Key = "mutated"
	assert.NotEqual(t, "mutated", ListPermissions()[0].Key)
}

func TestReplyClassIncludesNarrowKey(t *testing.T) {
	assert.Contains(t, ReplyClassKeys(), PermDeptInquiriesReply)
	assert.Contains(t, ReplyClassKeys(), "support.inquiries.reply")
	assert.Contains(t, ReplyClassKeys(), "hr.inquiries.manage")
	assert.NotContains(t, AssignClassKeys(), PermDeptInquiriesReply)
}
