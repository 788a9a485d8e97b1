package migrations

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zzliekkas/autodoc/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestExtractTable(t *testing.T) {
	cases := map[string]string{
		"2024_01_01_000000_create_users_table.go":        "users",
		"20240102000000_add_status_to_orders_table.sql":  "orders",
		"20240103000000_update_posts_table.go":           "posts",
		"20240104000000_create_post_tags_table.go":       "post_tags",
		"20240105000000_seed_initial_data.go":            UnknownTable,
		"20240106000000_add_index_to_comments_table.sql": "comments",
	}
	for name, want := range cases {
		assert.Equal(t, want, ExtractTable(name), name)
	}
}

func TestGather(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"20240102000000_create_posts_table.go",
		"20240101000000_create_users_table.go",
		"20240103000000_add_status_to_posts_table.sql",
		"20240101000000_create_users_table_test.go",
		"README.md",
		"nested/20240104000000_create_tags_table.go",
	} {
		require.NoError(t, afero.WriteFile(fs, "database/migrations/"+name, []byte("package migrations\n"), 0644))
	}

	got := Gather(fs, DefaultDir)
	assert.Equal(t, []Migration{
		{File: "20240101000000_create_users_table.go", Batch: UnknownBatch, Table: "users"},
		{File: "20240102000000_create_posts_table.go", Batch: UnknownBatch, Table: "posts"},
		{File: "20240103000000_add_status_to_posts_table.sql", Batch: UnknownBatch, Table: "posts"},
	}, got)

	missing := Gather(fs, "database/absent")
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestAttachBatches(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, conn.AutoMigrate(&db.MigrationRecord{}))
	require.NoError(t, conn.Create(&[]db.MigrationRecord{
		{ID: "20240101000000_create_users_table", Name: "create_users_table", Batch: 1, CreatedAt: time.Now()},
		{ID: "20240102", Name: "20240102000000_create_posts_table", Batch: 2, CreatedAt: time.Now()},
	}).Error)

	list := []Migration{
		{File: "20240101000000_create_users_table.go", Batch: UnknownBatch, Table: "users"},
		{File: "20240102000000_create_posts_table.go", Batch: UnknownBatch, Table: "posts"},
		{File: "20240103000000_create_tags_table.sql", Batch: UnknownBatch, Table: "tags"},
	}

	log, _ := test.NewNullLogger()
	AttachBatches(context.Background(), conn, list, log)

	assert.Equal(t, "1", list[0].Batch)
	assert.Equal(t, "2", list[1].Batch, "也可以按名称匹配")
	assert.Equal(t, UnknownBatch, list[2].Batch, "未执行的迁移保持N/A")
}

func TestAttachBatchesWithoutDatabase(t *testing.T) {
	list := []Migration{{File: "x_create_a_table.go", Batch: UnknownBatch, Table: "a"}}
	AttachBatches(context.Background(), nil, list, nil)
	assert.Equal(t, UnknownBatch, list[0].Batch)
}
