// Package routes 读取应用路由表，并解析路由背后的控制器
package routes

import (
	"strings"
)

// 用于区分路由类型的中间件名称
const (
	// WebMiddleware web路由组
	WebMiddleware = "web"
	// APIMiddleware api路由组
	APIMiddleware = "api"
)

// Route 表示一条已注册的路由
type Route struct {
	// HTTP方法集合
	Methods []string `json:"methods"`
	// URI模式
	URI string `json:"uri"`
	// 路由名称（可选）
	Name string `json:"name,omitempty"`
	// 动作标识，如 example.com/app/controllers.PostController@Index
	Action string `json:"action"`
	// 中间件名称，按注册顺序
	Middleware []string `json:"middleware"`
}

// Table 路由表
type Table interface {
	// Routes 返回所有已注册的路由
	Routes() []Route
}

// HasMiddleware 检查路由是否包含指定中间件
func (r Route) HasMiddleware(name string) bool {
	for _, m := range r.Middleware {
		if m == name {
			return true
		}
	}
	return false
}

// IsWeb 是否为web路由
func (r Route) IsWeb() bool {
	return r.HasMiddleware(WebMiddleware)
}

// IsAPI 是否为api路由
func (r Route) IsAPI() bool {
	return r.HasMiddleware(APIMiddleware)
}

// Gather 返回带有web或api中间件的路由，其余路由（控制台、内部路由等）被丢弃
func Gather(table Table) []Route {
	if table == nil {
		return []Route{}
	}

	routes := make([]Route, 0)
	for _, route := range table.Routes() {
		if !route.IsWeb() && !route.IsAPI() {
			continue
		}
		routes = append(routes, route)
	}
	return routes
}

// ControllerAction 将 Class@method 形式的动作拆分为类名和方法名
func ControllerAction(action string) (class, method string, ok bool) {
	i := strings.LastIndex(action, "@")
	if i <= 0 || i == len(action)-1 {
		return "", "", false
	}
	return action[:i], action[i+1:], true
}
