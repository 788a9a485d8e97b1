// Package models 扫描模型源码目录，识别gorm模型并提取表名、可批量赋值字段、类型转换和关系
package models

import (
	"sort"

	"github.com/zzliekkas/autodoc/relation"
)

// Model 模型文档信息
type Model struct {
	// 完整类名 pkgpath.Name
	Class string `json:"class"`
	// 源文件路径
	File string `json:"file,omitempty"`
	// 数据表名
	Table string `json:"table"`
	// 主键列
	PrimaryKey string `json:"primary_key"`
	// 可批量赋值的字段
	Fillable []string `json:"fillable"`
	// 属性类型转换
	Casts map[string]string `json:"casts"`
	// 关系
	Relationships []relation.Relation `json:"relationships"`
}

// Name 返回模型短名
func (m *Model) Name() string {
	return relation.ShortName(m.Class)
}

// FillableModel 可声明可批量赋值字段的模型
type FillableModel interface {
	Fillable() []string
}

// CastsModel 可声明属性类型转换的模型
type CastsModel interface {
	Casts() map[string]string
}

// RelationsModel 可显式声明关系的模型，声明的关系会覆盖同名的推导关系
type RelationsModel interface {
	Relations() []relation.Relation
}

// SortedClasses 返回排序后的模型类名，保证多次生成的结果一致
func SortedClasses(models map[string]*Model) []string {
	classes := make([]string, 0, len(models))
	for class := range models {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// CountWithRelationships 统计至少有一个关系的模型数量
func CountWithRelationships(models map[string]*Model) int {
	count := 0
	for _, m := range models {
		if len(m.Relationships) > 0 {
			count++
		}
	}
	return count
}
