// Package policy 访问策略: 判断操作者能否对某类资源执行某个动作,
// 并为列表/详情查询生成可见范围过滤器
package policy

import (
	"itam-go/internal/apperr"
)

// Action 操作类型
type Action string

const (
	ActionList      Action = "list"
	ActionView      Action = "view"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionActivate  Action = "activate"
	ActionAssign    Action = "assign"
	ActionInstall   Action = "install"
	ActionUninstall Action = "uninstall"
)

// Resource 资源类型
type Resource string

const (
	ResourceDepartment   Resource = "department"
	ResourceUser         Resource = "user"
	ResourceDevice       Resource = "device"
	ResourceIntervention Resource = "intervention"
	ResourceSupplier     Resource = "supplier"
	ResourceSoftware     Resource = "software"
	ResourceAudit        Resource = "audit"
)

var crudActions = []Action{ActionList, ActionView, ActionCreate, ActionUpdate, ActionDelete}

// Policy 单个资源类型的授权规则
type Policy interface {
	Can(actor *Actor, action Action) bool
}

// Gate 授权入口, 每种资源注册一个 Policy
type Gate struct {
	policies map[Resource]Policy
}

// NewGate 创建空的 Gate
func NewGate() *Gate {
	return &Gate{policies: make(map[Resource]Policy)}
}

// Register 为资源类型注册策略, 已存在时覆盖
func (g *Gate) Register(resource Resource, p Policy) {
	g.policies[resource] = p
}

// Authorize 检查授权
// 操作者缺失、未激活或邮箱未验证返回 Unauthorized;
// 策略拒绝或资源未注册策略返回 Forbidden
func (g *Gate) Authorize(actor *Actor, action Action, resource Resource) error {
	if !actor.Authenticated() {
		return apperr.Unauthorized("authentication required")
	}
	p, ok := g.policies[resource]
	if !ok || !p.Can(actor, action) {
		return apperr.Forbidden("you do not have permission to perform this action")
	}
	return nil
}

// Can 返回 bool 形式的 Authorize
func (g *Gate) Can(actor *Actor, action Action, resource Resource) bool {
	return g.Authorize(actor, action, resource) == nil
}

// ActionPolicy 按动作白名单授权, 部分动作仅限管理员
type ActionPolicy struct {
	allowed   map[Action]bool
	staffOnly map[Action]bool
}

// NewActionPolicy 创建动作策略
func NewActionPolicy(allowed []Action, staffOnly ...Action) *ActionPolicy {
	p := &ActionPolicy{
		allowed:   make(map[Action]bool, len(allowed)+len(staffOnly)),
		staffOnly: make(map[Action]bool, len(staffOnly)),
	}
	for _, a := range allowed {
		p.allowed[a] = true
	}
	for _, a := range staffOnly {
		p.allowed[a] = true
		p.staffOnly[a] = true
	}
	return p
}

// Can 实现 Policy
func (p *ActionPolicy) Can(actor *Actor, action Action) bool {
	if !p.allowed[action] {
		return false
	}
	if p.staffOnly[action] {
		return actor.IsStaff
	}
	return true
}

// StaffPolicy 所有动作仅限管理员
type StaffPolicy struct{}

// Can 实现 Policy
func (StaffPolicy) Can(actor *Actor, _ Action) bool {
	return actor.IsStaff
}

// DefaultGate 注册本系统全部资源策略
func DefaultGate() *Gate {
	g := NewGate()
	g.Register(ResourceDepartment, NewActionPolicy(crudActions))
	g.Register(ResourceSupplier, NewActionPolicy(crudActions))
	g.Register(ResourceUser, NewActionPolicy(
		[]Action{ActionList, ActionView},
		ActionCreate, ActionUpdate, ActionDelete, ActionActivate,
	))
	g.Register(ResourceDevice, NewActionPolicy(crudActions, ActionAssign))
	g.Register(ResourceIntervention, NewActionPolicy(crudActions))
	g.Register(ResourceSoftware, NewActionPolicy(crudActions, ActionInstall, ActionUninstall))
	g.Register(ResourceAudit, StaffPolicy{})
	return g
}
