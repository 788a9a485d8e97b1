// Package schema 从数据库读取表和列的元数据，并合并模型关系
package schema

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/zzliekkas/autodoc/models"
	"github.com/zzliekkas/autodoc/relation"
	"gorm.io/gorm"
)

// Column 数据列
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Primary  bool   `json:"primary"`
	Unique   bool   `json:"unique"`
}

// Summary 合并到数据表上的关系摘要
type Summary struct {
	Type         relation.Kind `json:"type"`
	Method       string        `json:"method"`
	RelatedTable string        `json:"related_table"`
	LocalKey     string        `json:"local_key,omitempty"`
	ForeignKey   string        `json:"foreign_key,omitempty"`
}

// Table 数据表
type Table struct {
	Name          string    `json:"name"`
	Columns       []Column  `json:"columns"`
	Relationships []Summary `json:"relationships"`
}

// Read 列出所有表及其列。任何连接或查询错误都会被记录并返回空结果
func Read(ctx context.Context, db *gorm.DB, logger logrus.FieldLogger) map[string]*Table {
	tables := make(map[string]*Table)
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if db == nil {
		logger.Warn("未配置数据库连接，跳过数据库结构")
		return tables
	}

	migrator := db.WithContext(ctx).Migrator()
	names, err := migrator.GetTables()
	if err != nil {
		logger.Errorf("获取数据库结构失败: %v", err)
		return make(map[string]*Table)
	}

	for _, name := range names {
		columnTypes, err := migrator.ColumnTypes(name)
		if err != nil {
			logger.Errorf("获取数据库结构失败: %v", err)
			return make(map[string]*Table)
		}

		table := &Table{
			Name:          name,
			Columns:       make([]Column, 0, len(columnTypes)),
			Relationships: make([]Summary, 0),
		}
		for _, ct := range columnTypes {
			table.Columns = append(table.Columns, describe(ct))
		}
		tables[name] = table
	}

	return tables
}

// describe 将gorm列类型转换为列描述
func describe(ct gorm.ColumnType) Column {
	col := Column{Name: ct.Name(), Type: ct.DatabaseTypeName()}
	if full, ok := ct.ColumnType(); ok && full != "" {
		col.Type = full
	}
	if nullable, ok := ct.Nullable(); ok {
		col.Nullable = nullable
	}
	if primary, ok := ct.PrimaryKey(); ok {
		col.Primary = primary
	}
	if unique, ok := ct.Unique(); ok {
		col.Unique = unique && !col.Primary
	}
	return col
}

// Merge 将模型关系追加到模型对应的数据表上，每个关系只追加一次
func Merge(tables map[string]*Table, gathered map[string]*models.Model) {
	for _, class := range models.SortedClasses(gathered) {
		m := gathered[class]
		table, ok := tables[m.Table]
		if m.Table == "" || !ok {
			continue
		}

		for _, rel := range m.Relationships {
			summary := Summary{
				Type:         rel.Kind,
				Method:       rel.Method,
				RelatedTable: relation.ShortName(rel.Related),
				LocalKey:     rel.LocalKey,
				ForeignKey:   rel.ForeignKey,
			}
			if contains(table.Relationships, summary) {
				continue
			}
			table.Relationships = append(table.Relationships, summary)
		}
	}
}

// SortedNames 返回排序后的表名
func SortedNames(tables map[string]*Table) []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contains(summaries []Summary, s Summary) bool {
	for _, existing := range summaries {
		if existing.Method == s.Method && existing.Type == s.Type && existing.RelatedTable == s.RelatedTable {
			return true
		}
	}
	return false
}
