package db

import (
	"context"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zzliekkas/autodoc/config"
)

func TestFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Set("database.default", "mysql")
	cfg.Set("database.connections.mysql", map[string]interface{}{
		"driver":   "mysql",
		"host":     "127.0.0.1",
		"database": "blog",
		"username": "root",
		"password": "secret",
	})
	cfg.Set("database.connections.local", map[string]interface{}{
		"driver":   "sqlite3",
		"database": "storage/app.db",
	})

	c, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mysql", c.Name)
	assert.Equal(t, MySQL, c.Driver)
	assert.Equal(t, 3306, c.Port, "未配置端口时使用默认值")
	assert.Equal(t, "utf8mb4", c.Charset)
	assert.Equal(t, "blog", c.Database)

	cfg.Set("database.default", "local")
	c, err = FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, SQLite, c.Driver, "sqlite3应该归一为sqlite")

	cfg.Set("database.default", "missing")
	_, err = FromConfig(cfg)
	assert.ErrorIs(t, err, ErrDatabaseNotFound)

	_, err = FromConfig(config.NewConfig())
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestDSN(t *testing.T) {
	c := Config{
		Driver:   MySQL,
		Host:     "db.local",
		Port:     3307,
		Database: "blog",
		Username: "root",
		Password: "secret",
		Charset:  "utf8mb4",
		TimeZone: "UTC",
	}
	dsn, err := c.DSN()
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "root", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "db.local:3307", parsed.Addr)
	assert.Equal(t, "blog", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, time.UTC, parsed.Loc)

	c = Config{Driver: PostgreSQL, Host: "pg", Port: 5432, Username: "u", Password: "p", Database: "d", SSLMode: "disable", TimeZone: "UTC"}
	dsn, err = c.DSN()
	require.NoError(t, err)
	assert.Equal(t, "host=pg port=5432 user=u password=p dbname=d sslmode=disable TimeZone=UTC", dsn)

	_, err = Config{Driver: "oracle"}.DSN()
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestMaskDSN(t *testing.T) {
	masked := MaskDSN(MySQL, "root:secret@tcp(127.0.0.1:3306)/blog?parseTime=true")
	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "******")
	assert.Contains(t, masked, "/blog")

	masked = MaskDSN(PostgreSQL, "host=pg user=u password=hunter2 dbname=d")
	assert.Equal(t, "host=pg user=u password=****** dbname=d", masked)

	assert.Equal(t, "storage/app.db", MaskDSN(SQLite, "storage/app.db"))
}

func TestOpenAndRanMigrations(t *testing.T) {
	log, _ := test.NewNullLogger()
	conn, err := Open(Config{Driver: SQLite, Database: ":memory:"}, log)
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	ctx := context.Background()
	records, err := RanMigrations(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, records, "迁移表不存在时返回空结果")

	require.NoError(t, conn.AutoMigrate(&MigrationRecord{}))
	now := time.Now()
	require.NoError(t, conn.Create(&[]MigrationRecord{
		{ID: "20240102000000_create_posts_table", Name: "create_posts_table", Batch: 2, CreatedAt: now},
		{ID: "20240101000000_create_users_table", Name: "create_users_table", Batch: 1, CreatedAt: now},
	}).Error)

	records, err = RanMigrations(ctx, conn)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "20240101000000_create_users_table", records[0].ID)
	assert.Equal(t, 2, records[1].Batch)

	records, err = RanMigrations(ctx, nil)
	assert.NoError(t, err)
	assert.Nil(t, records)
}
