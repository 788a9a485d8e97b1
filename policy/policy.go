// Package policy 提供资源授权策略注册表，以及从服务提供者中读取策略映射
package policy

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
)

// 策略相关错误
var (
	// ErrPolicyNotFound 表示找不到请求的策略
	ErrPolicyNotFound = errors.New("找不到策略")

	// ErrPermissionDenied 表示没有执行操作的权限
	ErrPermissionDenied = errors.New("没有执行该操作的权限")
)

// Subject 表示被授权的主体
type Subject interface {
	// GetAuthIdentifier 返回主体的唯一标识符
	GetAuthIdentifier() string

	// GetRoles 返回主体拥有的角色列表
	GetRoles() []string
}

// Handler 是策略处理函数类型
type Handler func(ctx context.Context, user Subject, resource interface{}) bool

// Policy 定义资源策略接口
type Policy interface {
	// Check 检查主体是否可以对资源执行操作
	Check(ctx context.Context, user Subject, resource interface{}, action string) bool
}

// BasePolicy 提供策略的基本实现
type BasePolicy struct {
	// 允许的动作
	actions map[string]Handler

	// 动作别名
	aliases map[string]string
}

// NewBasePolicy 创建新的基本策略
func NewBasePolicy() *BasePolicy {
	return &BasePolicy{
		actions: make(map[string]Handler),
		aliases: make(map[string]string),
	}
}

// Action 注册可对资源执行的操作及其处理函数
func (p *BasePolicy) Action(action string, handler Handler) *BasePolicy {
	p.actions[strings.ToLower(action)] = handler
	return p
}

// Alias 注册操作的别名
func (p *BasePolicy) Alias(action, alias string) *BasePolicy {
	p.aliases[strings.ToLower(alias)] = strings.ToLower(action)
	return p
}

// Check 检查主体是否对资源有执行操作的权限
func (p *BasePolicy) Check(ctx context.Context, user Subject, resource interface{}, action string) bool {
	action = strings.ToLower(action)
	if main, ok := p.aliases[action]; ok {
		action = main
	}

	handler, ok := p.actions[action]
	if !ok {
		return false
	}
	return handler(ctx, user, resource)
}

// Roles 返回要求主体拥有任一角色的处理函数
func Roles(roles ...string) Handler {
	return func(_ context.Context, user Subject, _ interface{}) bool {
		if user == nil {
			return false
		}
		for _, have := range user.GetRoles() {
			for _, want := range roles {
				if have == want {
					return true
				}
			}
		}
		return false
	}
}

// Gate 资源类型到策略的注册表
type Gate struct {
	// 资源类名到策略的映射
	policies map[string]Policy

	// 互斥锁
	mu sync.RWMutex
}

// NewGate 创建策略注册表
func NewGate() *Gate {
	return &Gate{policies: make(map[string]Policy)}
}

// Register 为资源类型注册策略，resource可以是类型的零值或指针
func (g *Gate) Register(resource interface{}, policy Policy) *Gate {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.policies[ClassName(reflect.TypeOf(resource))] = policy
	return g
}

// PolicyFor 获取资源对应的策略
func (g *Gate) PolicyFor(resource interface{}) (Policy, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	policy, ok := g.policies[ClassName(reflect.TypeOf(resource))]
	if !ok {
		return nil, ErrPolicyNotFound
	}
	return policy, nil
}

// Allows 检查主体是否可以对资源执行操作
func (g *Gate) Allows(ctx context.Context, user Subject, action string, resource interface{}) bool {
	policy, err := g.PolicyFor(resource)
	if err != nil {
		return false
	}
	return policy.Check(ctx, user, resource, action)
}

// Authorize 检查授权并返回错误
func (g *Gate) Authorize(ctx context.Context, user Subject, action string, resource interface{}) error {
	if !g.Allows(ctx, user, action, resource) {
		return ErrPermissionDenied
	}
	return nil
}

// ClassName 返回类型的完整名称，形如 pkgpath.Type
func ClassName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
