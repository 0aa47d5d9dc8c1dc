package services

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleMember = "role:member"
	RoleStaff  = "role:staff"

	ActionRead  = "read"
	ActionWrite = "write"

	ObjectProjects  = "projects"
	ObjectServices  = "services"
	ObjectEmployees = "employees"
	ObjectProducts  = "products"
	ObjectInvoices  = "invoices"
	ObjectExpenses  = "expenses"
	ObjectFinance   = "finance"
	ObjectSettings  = "settings"
	ObjectUsers     = "users"
	ObjectProfile   = "profile"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// RBACService decides whether an authenticated user may perform an action on a resource.
type RBACService interface {
	Authorize(isStaff bool, object, action string) (bool, error)
}

type rbacService struct {
	enforcer *casbin.SyncedEnforcer
}

func NewRBACService() (RBACService, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return &rbacService{enforcer: enforcer}, nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Members read everything shared and manage their own profile
		{RoleMember, ObjectProjects, ActionRead},
		{RoleMember, ObjectServices, ActionRead},
		{RoleMember, ObjectEmployees, ActionRead},
		{RoleMember, ObjectProducts, ActionRead},
		{RoleMember, ObjectInvoices, ActionRead},
		{RoleMember, ObjectExpenses, ActionRead},
		{RoleMember, ObjectFinance, ActionRead},
		{RoleMember, ObjectSettings, ActionRead},
		{RoleMember, ObjectProfile, "*"},

		// Staff may do anything
		{RoleStaff, "*", "*"},
	}
	if _, err := enforcer.AddPolicies(policies); err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicy(RoleStaff, RoleMember); err != nil {
		return fmt.Errorf("seed role links: %w", err)
	}
	return nil
}

func (s *rbacService) Authorize(isStaff bool, object, action string) (bool, error) {
	subject := RoleMember
	if isStaff {
		subject = RoleStaff
	}
	return s.enforcer.Enforce(subject, object, action)
}
