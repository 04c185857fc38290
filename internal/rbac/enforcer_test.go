package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnforcer_RoleInheritance(t *testing.T) {
	e, err := NewEnforcer()
	assert.NoError(t, err)

	cases := []struct {
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{RoleEmployee, "time_entries", "punch", true},
		{RoleEmployee, "time_entries", "read", true},
		{RoleEmployee, "time_entries", "write", false},
		{RoleEmployee, "users", "read", false},
		{RoleEmployee, "exports", "read", false},

		// Admin inherits employee permissions and adds management.
		{RoleAdmin, "time_entries", "punch", true},
		{RoleAdmin, "time_entries", "write", true},
		{RoleAdmin, "users", "write", true},
		{RoleAdmin, "exports", "read", true},
		{RoleAdmin, "companies", "read", true},
		{RoleAdmin, "companies", "write", false},

		// Super admin inherits everything and owns companies.
		{RoleSuperAdmin, "companies", "write", true},
		{RoleSuperAdmin, "time_entries", "punch", true},
		{RoleSuperAdmin, "users", "read", true},

		{"UNKNOWN_ROLE", "time_entries", "read", false},
	}

	for _, tc := range cases {
		allowed, err := e.Enforce(tc.role, tc.resource, tc.action)
		assert.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "%s %s:%s", tc.role, tc.resource, tc.action)
	}
}
