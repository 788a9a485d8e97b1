package routes

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// ClosureAction 匿名函数处理器的动作标识
const ClosureAction = "Closure"

// closureSuffix 匹配编译器为闭包生成的名称后缀，如 func1
var closureSuffix = regexp.MustCompile(`^func\d+$`)

// FunctionName 返回函数的运行时名称，与gin记录处理器名称的方式一致
func FunctionName(fn interface{}) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return ""
}

// ParseAction 将运行时函数名规范化为动作标识
//
//	example.com/app/controllers.(*PostController).Index-fm -> example.com/app/controllers.PostController@Index
//	example.com/app/routes.home                           -> example.com/app/routes.home
//	main.main.func1                                        -> Closure
func ParseAction(name string) string {
	name = strings.TrimSuffix(name, "-fm")
	if name == "" {
		return ""
	}

	pkgPath := ""
	rest := name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		pkgPath = name[:i+1]
		rest = name[i+1:]
	}

	parts := strings.Split(rest, ".")
	if closureSuffix.MatchString(parts[len(parts)-1]) {
		return ClosureAction
	}

	switch len(parts) {
	case 3:
		receiver := strings.TrimSuffix(strings.TrimPrefix(parts[1], "(*"), ")")
		return pkgPath + parts[0] + "." + receiver + "@" + parts[2]
	default:
		return name
	}
}
