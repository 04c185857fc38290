package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Role names are fixed; there is no per-company role editing.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleEmployee   = "EMPLOYEE"
)

//go:generate mockgen -source=enforcer.go -destination=mock/enforcer_mock.go -package=mock
type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

type enforcer struct {
	e *casbin.Enforcer
}

// NewEnforcer builds the in-memory policy set. Employees can punch the
// clock and read their own data; admins manage everything within their
// company; super admins additionally manage companies.
func NewEnforcer() (Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := [][]string{
		{RoleEmployee, "time_entries", "punch"},
		{RoleEmployee, "time_entries", "read"},
		{RoleEmployee, "schedules", "read"},
		{RoleEmployee, "announcements", "read"},
		{RoleEmployee, "departments", "read"},
		{RoleEmployee, "positions", "read"},

		{RoleAdmin, "time_entries", "write"},
		{RoleAdmin, "users", "read"},
		{RoleAdmin, "users", "write"},
		{RoleAdmin, "schedules", "write"},
		{RoleAdmin, "departments", "write"},
		{RoleAdmin, "positions", "write"},
		{RoleAdmin, "announcements", "write"},
		{RoleAdmin, "exports", "read"},
		{RoleAdmin, "companies", "read"},

		{RoleSuperAdmin, "companies", "write"},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	groupings := [][]string{
		{RoleAdmin, RoleEmployee},
		{RoleSuperAdmin, RoleAdmin},
	}
	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &enforcer{e: e}, nil
}

func (s *enforcer) Enforce(role, resource, action string) (bool, error) {
	return s.e.Enforce(role, resource, action)
}
