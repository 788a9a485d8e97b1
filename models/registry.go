package models

import (
	"path"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Registry 模型注册表。Go无法按名称加载类型，只有注册过的模型才被视为可加载
type Registry struct {
	types map[string]reflect.Type
	mu    sync.RWMutex
}

// NewRegistry 创建模型注册表
func NewRegistry(models ...interface{}) *Registry {
	r := &Registry{types: make(map[string]reflect.Type)}
	for _, m := range models {
		r.Register(m)
	}
	return r
}

// Register 注册模型实例或指针
func (r *Registry) Register(model interface{}) {
	t := reflect.TypeOf(model)
	if t == nil {
		return
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return
	}

	r.mu.Lock()
	r.types[ClassName(t)] = t
	r.mu.Unlock()
}

// Len 返回已注册的模型数量
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Lookup 按包名和类型名查找模型。多个包同名时优先选择包路径以 dir 结尾的那个
func (r *Registry) Lookup(pkgName, typeName, dir string) (reflect.Type, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := make([]string, 0, 1)
	for class, t := range r.types {
		if t.Name() != typeName || path.Base(t.PkgPath()) != pkgName {
			continue
		}
		candidates = append(candidates, class)
	}
	if len(candidates) == 0 {
		return nil, false
	}

	sort.Strings(candidates)
	dir = strings.Trim(filepathToSlash(dir), "/")
	for _, class := range candidates {
		t := r.types[class]
		if dir != "" && strings.HasSuffix(t.PkgPath(), dir) {
			return t, true
		}
	}
	return r.types[candidates[0]], true
}

// ClassName 返回类型的完整类名 pkgpath.Name
func ClassName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
