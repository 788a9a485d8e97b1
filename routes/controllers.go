package routes

import (
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// DefaultControllerNamespace 控制器所在包的约定名称
const DefaultControllerNamespace = "controllers"

// Method 控制器的公开方法
type Method struct {
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
}

// Controller 控制器及其方法和路由
type Controller struct {
	// 完整类名
	Class string `json:"class"`
	// 公开方法，不含从嵌入字段继承的方法
	Methods []Method `json:"methods"`
	// 指向该控制器的路由
	Routes []Route `json:"routes"`
}

// Controllers 控制器注册表，注册后的控制器才能被反射
type Controllers struct {
	types map[string]reflect.Type
	mu    sync.RWMutex
}

// NewControllers 创建控制器注册表
func NewControllers(controllers ...interface{}) *Controllers {
	c := &Controllers{types: make(map[string]reflect.Type)}
	for _, ctrl := range controllers {
		c.Register(ctrl)
	}
	return c
}

// Register 注册控制器实例或类型
func (c *Controllers) Register(controller interface{}) {
	t := reflect.TypeOf(controller)
	if t == nil {
		return
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return
	}

	c.mu.Lock()
	c.types[ClassName(t)] = t
	c.mu.Unlock()
}

// Lookup 按完整类名查找控制器类型
func (c *Controllers) Lookup(class string) (reflect.Type, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[class]
	return t, ok
}

// ClassName 返回类型的完整类名 pkgpath.Name
func ClassName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// InNamespace 检查类所在的包是否位于控制器命名空间下
func InNamespace(class, namespace string) bool {
	if namespace == "" {
		return true
	}
	i := strings.LastIndex(class, ".")
	if i < 0 {
		return false
	}
	pkg := class[:i]
	return pkg == namespace ||
		strings.HasPrefix(pkg, namespace+"/") ||
		strings.HasSuffix(pkg, "/"+namespace) ||
		strings.Contains(pkg, "/"+namespace+"/")
}

// GatherControllers 按类汇总路由指向的控制器，每个类只反射一次。
// 无法解析、不在命名空间下或未注册的动作被静默跳过
func GatherControllers(routes []Route, registry *Controllers, namespace string) map[string]*Controller {
	controllers := make(map[string]*Controller)

	for _, route := range routes {
		class, _, ok := ControllerAction(route.Action)
		if !ok {
			continue
		}
		if !InNamespace(class, namespace) {
			continue
		}
		t, ok := registry.Lookup(class)
		if !ok {
			continue
		}

		controller, exists := controllers[class]
		if !exists {
			controller = &Controller{
				Class:   class,
				Methods: publicMethods(t),
				Routes:  make([]Route, 0),
			}
			controllers[class] = controller
		}
		controller.Routes = append(controller.Routes, route)
	}

	return controllers
}

// SortedClasses 返回排序后的控制器类名
func SortedClasses(controllers map[string]*Controller) []string {
	classes := make([]string, 0, len(controllers))
	for class := range controllers {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// publicMethods 列出类型自身声明的公开方法（包括指针接收者），覆盖嵌入字段的同名方法也保留
func publicMethods(t reflect.Type) []Method {
	inherited := embeddedMethods(t)

	ptr := reflect.PtrTo(t)
	methods := make([]Method, 0, ptr.NumMethod())
	for i := 0; i < ptr.NumMethod(); i++ {
		m := ptr.Method(i)
		if inherited[m.Name] && !declares(t, m) {
			continue
		}
		methods = append(methods, Method{Name: m.Name, Visibility: "public"})
	}
	return methods
}

// embeddedMethods 收集嵌入字段提供的方法名，这些方法视为继承
func embeddedMethods(t reflect.Type) map[string]bool {
	names := make(map[string]bool)
	if t.Kind() != reflect.Struct {
		return names
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() != reflect.Ptr && ft.Kind() != reflect.Interface {
			ft = reflect.PtrTo(ft)
		}
		for j := 0; j < ft.NumMethod(); j++ {
			names[ft.Method(j).Name] = true
		}
	}
	return names
}

// declares 判断方法是否由类型自身声明。提升的方法和值接收者的指针包装都由编译器生成
func declares(t reflect.Type, m reflect.Method) bool {
	if !generated(m.Func) {
		return true
	}
	if vm, ok := t.MethodByName(m.Name); ok && !generated(vm.Func) {
		return true
	}
	return false
}

// generated 判断函数是否为编译器生成的包装
func generated(fn reflect.Value) bool {
	pc := fn.Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return false
	}
	file, _ := f.FileLine(f.Entry())
	return file == "<autogenerated>"
}
