package routes

import (
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// Middleware 带名称的中间件，Handler 可以为空，此时仅作为路由标签
type Middleware struct {
	Name    string
	Handler gin.HandlerFunc
}

// Tag 创建只有名称的中间件，如 web、api
func Tag(name string) Middleware {
	return Middleware{Name: name}
}

// Named 创建带处理函数的中间件
func Named(name string, handler gin.HandlerFunc) Middleware {
	return Middleware{Name: name, Handler: handler}
}

// Entry 记录的一条路由
type Entry struct {
	methods    []string
	path       string
	name       string
	middleware []string
}

// Name 设置路由名称
func (e *Entry) Name(name string) *Entry {
	e.name = name
	return e
}

// Recorder 包装gin引擎，在注册路由的同时记录方法、名称和中间件名称
type Recorder struct {
	engine  *gin.Engine
	entries []*Entry
	mu      sync.RWMutex
}

// RouterGroup 记录器的路由组
type RouterGroup struct {
	recorder   *Recorder
	group      *gin.RouterGroup
	prefix     string
	middleware []string
}

// NewRecorder 创建路由记录器，engine 为空时创建新的gin引擎
func NewRecorder(engine *gin.Engine) *Recorder {
	if engine == nil {
		engine = gin.New()
	}
	return &Recorder{
		engine:  engine,
		entries: make([]*Entry, 0),
	}
}

// Engine 返回底层gin引擎
func (r *Recorder) Engine() *gin.Engine {
	return r.engine
}

// Group 创建路由组
func (r *Recorder) Group(prefix string, middleware ...Middleware) *RouterGroup {
	root := &RouterGroup{
		recorder: r,
		group:    &r.engine.RouterGroup,
		prefix:   "/",
	}
	return root.Group(prefix, middleware...)
}

// Handle 在根路由上注册
func (r *Recorder) Handle(method, relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	return r.Match([]string{method}, relativePath, handler, middleware...)
}

// Match 在根路由上为多个方法注册同一处理器
func (r *Recorder) Match(methods []string, relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	root := &RouterGroup{
		recorder: r,
		group:    &r.engine.RouterGroup,
		prefix:   "/",
	}
	return root.Match(methods, relativePath, handler, middleware...)
}

// GET 在根路由上注册GET请求
func (r *Recorder) GET(relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	return r.Handle(http.MethodGet, relativePath, handler, middleware...)
}

// POST 在根路由上注册POST请求
func (r *Recorder) POST(relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	return r.Handle(http.MethodPost, relativePath, handler, middleware...)
}

// Group 创建子路由组
func (g *RouterGroup) Group(prefix string, middleware ...Middleware) *RouterGroup {
	handlers, names := split(middleware)
	return &RouterGroup{
		recorder:   g.recorder,
		group:      g.group.Group(prefix, handlers...),
		prefix:     joinPath(g.prefix, prefix),
		middleware: append(append([]string{}, g.middleware...), names...),
	}
}

// Handle 注册单个方法的路由
func (g *RouterGroup) Handle(method, relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	return g.Match([]string{method}, relativePath, handler, middleware...)
}

// Match 为多个方法注册同一处理器，在文档中只记为一条路由
func (g *RouterGroup) Match(methods []string, relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	handlers, names := split(middleware)
	handlers = append(handlers, handler)

	for _, method := range methods {
		g.group.Handle(strings.ToUpper(method), relativePath, handlers...)
	}

	upper := make([]string, len(methods))
	for i, m := range methods {
		upper[i] = strings.ToUpper(m)
	}

	entry := &Entry{
		methods:    upper,
		path:       joinPath(g.prefix, relativePath),
		middleware: append(append([]string{}, g.middleware...), names...),
	}

	g.recorder.mu.Lock()
	g.recorder.entries = append(g.recorder.entries, entry)
	g.recorder.mu.Unlock()

	return entry
}

// GET 注册GET请求
func (g *RouterGroup) GET(relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	return g.Handle(http.MethodGet, relativePath, handler, middleware...)
}

// POST 注册POST请求
func (g *RouterGroup) POST(relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	return g.Handle(http.MethodPost, relativePath, handler, middleware...)
}

// PUT 注册PUT请求
func (g *RouterGroup) PUT(relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	return g.Handle(http.MethodPut, relativePath, handler, middleware...)
}

// PATCH 注册PATCH请求
func (g *RouterGroup) PATCH(relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	return g.Handle(http.MethodPatch, relativePath, handler, middleware...)
}

// DELETE 注册DELETE请求
func (g *RouterGroup) DELETE(relativePath string, handler gin.HandlerFunc, middleware ...Middleware) *Entry {
	return g.Handle(http.MethodDelete, relativePath, handler, middleware...)
}

// Routes 实现 Table 接口。动作标识取自gin路由表记录的处理器名称
func (r *Recorder) Routes() []Route {
	handlers := make(map[string]string)
	for _, info := range r.engine.Routes() {
		handlers[info.Method+" "+info.Path] = info.Handler
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]Route, 0, len(r.entries))
	for _, e := range r.entries {
		action := ""
		if len(e.methods) > 0 {
			action = ParseAction(handlers[e.methods[0]+" "+e.path])
		}
		routes = append(routes, Route{
			Methods:    append([]string{}, e.methods...),
			URI:        e.path,
			Name:       e.name,
			Action:     action,
			Middleware: append([]string{}, e.middleware...),
		})
	}
	return routes
}

// split 拆分中间件的处理函数和名称
func split(middleware []Middleware) ([]gin.HandlerFunc, []string) {
	handlers := make([]gin.HandlerFunc, 0, len(middleware))
	names := make([]string, 0, len(middleware))
	for _, m := range middleware {
		if m.Handler != nil {
			handlers = append(handlers, m.Handler)
		}
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return handlers, names
}

// joinPath 与gin拼接路由组路径的规则保持一致
func joinPath(absolute, relative string) string {
	if relative == "" {
		return absolute
	}
	final := path.Join(absolute, relative)
	if strings.HasSuffix(relative, "/") && !strings.HasSuffix(final, "/") {
		return final + "/"
	}
	return final
}
