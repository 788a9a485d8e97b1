package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/zzliekkas/autodoc/relation"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// 默认配置
const (
	// DefaultNamespace 源文件没有包声明时使用的命名空间
	DefaultNamespace = "app"
)

// DefaultPaths 约定的模型目录，前者不存在时退回到后者
var DefaultPaths = []string{"app/models", "app"}

var (
	// ErrNotModel 类型不是gorm模型
	ErrNotModel = errors.New("不是有效的模型")

	packagePattern = regexp.MustCompile(`(?m)^package\s+(\w+)`)
	typePattern    = regexp.MustCompile(`(?m)^type\s+(\w+)\s+struct\b`)
	groupPattern   = regexp.MustCompile(`(?ms)^type\s*\((.*?)^\)`)
	memberPattern  = regexp.MustCompile(`(?m)^\t(\w+)\s+struct\b`)

	deletedAtType = reflect.TypeOf(gorm.DeletedAt{})
)

// Reader 模型读取器
type Reader struct {
	fs       afero.Fs
	root     string
	paths    []string
	registry *Registry
	namer    schema.Namer
	logger   logrus.FieldLogger
	cache    *sync.Map
}

// ReaderOption 读取器选项
type ReaderOption func(*Reader)

// WithPaths 设置候选模型目录
func WithPaths(paths ...string) ReaderOption {
	return func(r *Reader) {
		if len(paths) > 0 {
			r.paths = paths
		}
	}
}

// WithNamer 设置命名策略，通常取自 gorm.Config.NamingStrategy
func WithNamer(namer schema.Namer) ReaderOption {
	return func(r *Reader) {
		if namer != nil {
			r.namer = namer
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger logrus.FieldLogger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader 创建模型读取器
func NewReader(fs afero.Fs, root string, registry *Registry, options ...ReaderOption) *Reader {
	r := &Reader{
		fs:       fs,
		root:     root,
		paths:    DefaultPaths,
		registry: registry,
		namer:    schema.NamingStrategy{},
		logger:   logrus.StandardLogger(),
		cache:    &sync.Map{},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Gather 扫描模型目录并返回按类名索引的模型
func (r *Reader) Gather(ctx context.Context) map[string]*Model {
	models := make(map[string]*Model)

	dir, ok := r.modelDir()
	if !ok {
		r.logger.Warnf("未找到模型目录: %v", r.paths)
		return models
	}

	err := afero.Walk(r.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() || filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		for _, m := range r.readFile(path) {
			models[m.Class] = m
		}
		return nil
	})
	if err != nil {
		r.logger.Warnf("扫描模型目录失败: %v", err)
	}

	return models
}

// modelDir 返回第一个存在的模型目录
func (r *Reader) modelDir() (string, bool) {
	for _, p := range r.paths {
		dir := filepath.Join(r.root, p)
		if ok, _ := afero.IsDir(r.fs, dir); ok {
			return dir, true
		}
	}
	return "", false
}

// readFile 读取单个源文件中声明的模型
func (r *Reader) readFile(path string) []*Model {
	contents, err := afero.ReadFile(r.fs, path)
	if err != nil {
		r.logger.Debugf("读取模型文件失败 %s: %v", path, err)
		return nil
	}

	namespace, types := Declarations(string(contents))
	rel, _ := filepath.Rel(r.root, filepath.Dir(path))

	models := make([]*Model, 0, len(types))
	for _, name := range types {
		t, ok := r.registry.Lookup(namespace, name, rel)
		if !ok {
			continue
		}
		m, err := r.Inspect(t)
		if err != nil {
			r.logger.Debugf("跳过模型 %s.%s: %v", namespace, name, err)
			continue
		}
		m.File = path
		models = append(models, m)
	}
	return models
}

// Declarations 通过轻量的模式匹配提取包名和结构体类型名
func Declarations(source string) (namespace string, types []string) {
	namespace = DefaultNamespace
	if m := packagePattern.FindStringSubmatch(source); m != nil {
		namespace = strings.TrimSpace(m[1])
	}

	// 按出现位置合并单独声明和 type ( ... ) 分组中的结构体
	found := make(map[int]string)
	for _, m := range typePattern.FindAllStringSubmatchIndex(source, -1) {
		found[m[2]] = source[m[2]:m[3]]
	}
	for _, g := range groupPattern.FindAllStringSubmatchIndex(source, -1) {
		block := source[g[2]:g[3]]
		for _, m := range memberPattern.FindAllStringSubmatchIndex(block, -1) {
			found[g[2]+m[2]] = block[m[2]:m[3]]
		}
	}

	offsets := make([]int, 0, len(found))
	for offset := range found {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)
	for _, offset := range offsets {
		types = append(types, found[offset])
	}
	return namespace, types
}

// Inspect 实例化模型类型并读取其配置。任何失败（包括panic）都返回错误
func (r *Reader) Inspect(t reflect.Type) (m *Model, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			m, err = nil, fmt.Errorf("%w: %v", ErrNotModel, rec)
		}
	}()

	if t.Kind() != reflect.Struct {
		return nil, ErrNotModel
	}

	instance := reflect.New(t).Interface()
	sch, err := schema.Parse(instance, r.cache, r.namer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotModel, err)
	}
	if sch.PrioritizedPrimaryField == nil && len(sch.PrimaryFields) == 0 {
		return nil, fmt.Errorf("%w: 缺少主键", ErrNotModel)
	}

	m = &Model{
		Class:         ClassName(t),
		Table:         sch.Table,
		PrimaryKey:    primaryKey(sch),
		Fillable:      fillable(sch),
		Casts:         casts(sch),
		Relationships: relationships(sch),
	}

	if f, ok := instance.(FillableModel); ok {
		m.Fillable = append([]string{}, f.Fillable()...)
	}
	if c, ok := instance.(CastsModel); ok {
		for attr, typ := range c.Casts() {
			m.Casts[attr] = typ
		}
	}
	if rm, ok := instance.(RelationsModel); ok {
		declared, callErr := safeRelations(rm)
		if callErr != nil {
			r.logger.Debugf("读取 %s 的声明关系失败: %v", m.Class, callErr)
		} else {
			m.Relationships = mergeRelations(m.Relationships, declared)
		}
	}

	return m, nil
}

// primaryKey 返回主键列名
func primaryKey(sch *schema.Schema) string {
	if sch.PrioritizedPrimaryField != nil {
		return sch.PrioritizedPrimaryField.DBName
	}
	return sch.PrimaryFields[0].DBName
}

// fillable 推导可批量赋值的列：可创建且可更新，不含主键、自动时间戳和软删除列
func fillable(sch *schema.Schema) []string {
	fields := make([]string, 0)
	for _, f := range sch.Fields {
		if f.DBName == "" || f.DataType == "" {
			continue
		}
		if f.PrimaryKey || !f.Creatable || !f.Updatable {
			continue
		}
		if f.AutoCreateTime != 0 || f.AutoUpdateTime != 0 || f.FieldType == deletedAtType {
			continue
		}
		fields = append(fields, f.DBName)
	}
	return fields
}

// casts 推导属性类型转换
func casts(sch *schema.Schema) map[string]string {
	result := make(map[string]string)
	for _, f := range sch.Fields {
		if f.DBName == "" || f.DataType == "" {
			continue
		}
		switch {
		case f.PrimaryKey:
			result[f.DBName] = "int"
		case f.TagSettings["SERIALIZER"] != "":
			result[f.DBName] = strings.ToLower(f.TagSettings["SERIALIZER"])
		case f.DataType == schema.Bool:
			result[f.DBName] = "boolean"
		case f.DataType == schema.Time && f.AutoCreateTime == 0 && f.AutoUpdateTime == 0 && f.FieldType != deletedAtType:
			result[f.DBName] = "datetime"
		}
	}
	return result
}

// relationships 按字段声明顺序读取gorm解析出的关联
func relationships(sch *schema.Schema) []relation.Relation {
	rels := make([]relation.Relation, 0)
	for _, f := range sch.Fields {
		rel, ok := sch.Relationships.Relations[f.Name]
		if !ok {
			continue
		}
		rels = append(rels, describe(rel))
	}
	return rels
}

// describe 将gorm关联分类为关系类型
func describe(rel *schema.Relationship) relation.Relation {
	r := relation.Relation{Method: rel.Name}
	if rel.FieldSchema != nil {
		r.Related = ClassName(rel.FieldSchema.ModelType)
	}

	switch rel.Type {
	case schema.HasOne:
		r.Kind = relation.HasOne
		if rel.Polymorphic != nil {
			r.Kind = relation.Kind("MorphOne")
		}
	case schema.HasMany:
		r.Kind = relation.HasMany
		if rel.Polymorphic != nil {
			r.Kind = relation.MorphMany
		}
	case schema.BelongsTo:
		r.Kind = relation.BelongsTo
	case schema.Many2Many:
		r.Kind = relation.BelongsToMany
		return r
	default:
		r.Kind = relation.Kind(rel.Type)
	}

	for _, ref := range rel.References {
		if ref.PrimaryKey == nil || ref.ForeignKey == nil {
			continue
		}
		r.ForeignKey = ref.ForeignKey.DBName
		if ref.OwnPrimaryKey {
			r.LocalKey = ref.PrimaryKey.DBName
		}
		break
	}
	return r
}

// safeRelations 在隔离边界内读取显式声明的关系
func safeRelations(m RelationsModel) (rels []relation.Relation, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	return m.Relations(), nil
}

// mergeRelations 显式声明的关系替换同名推导关系，其余追加
func mergeRelations(derived, declared []relation.Relation) []relation.Relation {
	index := make(map[string]int, len(derived))
	for i, r := range derived {
		index[r.Method] = i
	}
	for _, r := range declared {
		if i, ok := index[r.Method]; ok {
			derived[i] = r
			continue
		}
		index[r.Method] = len(derived)
		derived = append(derived, r)
	}
	return derived
}
