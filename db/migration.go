package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MigrationTable 迁移表名
const MigrationTable = "migrations"

// MigrationRecord 迁移记录
type MigrationRecord struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Batch     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName 表名
func (MigrationRecord) TableName() string {
	return MigrationTable
}

// RanMigrations 返回已执行的迁移记录。迁移表不存在时返回空结果
func RanMigrations(ctx context.Context, conn *gorm.DB) ([]MigrationRecord, error) {
	if conn == nil {
		return nil, nil
	}

	tx := conn.WithContext(ctx)
	if !tx.Migrator().HasTable(&MigrationRecord{}) {
		return nil, nil
	}

	var records []MigrationRecord
	if err := tx.Order("batch asc, id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("查询迁移记录失败: %w", err)
	}
	return records, nil
}
