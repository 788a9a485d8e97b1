// Package migrations 列出迁移文件，推断目标表并关联执行批次
package migrations

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/zzliekkas/autodoc/db"
	"gorm.io/gorm"
)

// DefaultDir 迁移文件目录，相对于项目根目录
const DefaultDir = "database/migrations"

// 占位值
const (
	UnknownTable = "unknown"
	UnknownBatch = "N/A"
)

// Migration 迁移文件描述
type Migration struct {
	File  string `json:"migration"`
	Batch string `json:"batch"`
	Table string `json:"table"`
}

var tablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`create_(\w+)_table`),
	regexp.MustCompile(`add_.+_to_(\w+)_table`),
	regexp.MustCompile(`update_(\w+)_table`),
}

var extensions = map[string]bool{".go": true, ".sql": true}

// ExtractTable 从迁移文件名推断目标表，依次尝试create、add...to、update三种命名
func ExtractTable(name string) string {
	for _, pattern := range tablePatterns {
		if m := pattern.FindStringSubmatch(name); m != nil {
			return m[1]
		}
	}
	return UnknownTable
}

// Gather 列出目录下的迁移文件（不递归），按文件名排序。目录不存在时返回空列表
func Gather(fs afero.Fs, dir string) []Migration {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return []Migration{}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		if !extensions[filepath.Ext(entry.Name())] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		migrations = append(migrations, Migration{
			File:  name,
			Batch: UnknownBatch,
			Table: ExtractTable(name),
		})
	}
	return migrations
}

// AttachBatches 根据迁移表中的记录填充批次号，匹配文件名去掉扩展名后的ID或名称
func AttachBatches(ctx context.Context, conn *gorm.DB, migrations []Migration, logger logrus.FieldLogger) {
	if conn == nil || len(migrations) == 0 {
		return
	}

	records, err := db.RanMigrations(ctx, conn)
	if err != nil {
		if logger != nil {
			logger.Warnf("读取迁移批次失败: %v", err)
		}
		return
	}

	batches := make(map[string]int, len(records)*2)
	for _, record := range records {
		batches[record.ID] = record.Batch
		if record.Name != "" {
			if _, exists := batches[record.Name]; !exists {
				batches[record.Name] = record.Batch
			}
		}
	}

	for i := range migrations {
		stem := strings.TrimSuffix(migrations[i].File, filepath.Ext(migrations[i].File))
		if batch, ok := batches[stem]; ok {
			migrations[i].Batch = strconv.Itoa(batch)
		}
	}
}
