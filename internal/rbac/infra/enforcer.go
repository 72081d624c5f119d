package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `[request_definition]
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

// Resources and actions guarded by the enforcer.
const (
	ResourceEmployee  = "employee"
	ResourceBalance   = "balance"
	ResourceLeave     = "leave"
	ResourceLeaveType = "leave_type"
	ResourceRBAC      = "rbac"

	ActionRead    = "read"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionManage  = "manage"
)

var defaultPolicies = [][]string{
	{"employee", ResourceEmployee, ActionRead},
	{"employee", ResourceBalance, ActionRead},
	{"employee", ResourceLeaveType, ActionRead},
	{"employee", ResourceLeave, ActionRead},
	{"employee", ResourceLeave, ActionCreate},
	{"employee", ResourceLeave, ActionUpdate},
	{"employee", ResourceLeave, ActionDelete},

	{"admin", ResourceEmployee, ActionCreate},
	{"admin", ResourceEmployee, ActionUpdate},
	{"admin", ResourceEmployee, ActionDelete},
	{"admin", ResourceBalance, ActionCreate},
	{"admin", ResourceLeave, ActionApprove},
	{"admin", ResourceRBAC, ActionManage},
}

// NewEnforcer builds an in-memory enforcer where admin inherits every
// employee permission.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicies(defaultPolicies); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicy("admin", "employee"); err != nil {
		return nil, err
	}

	return e, nil
}
