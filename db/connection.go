// Package db 提供数据库连接配置和迁移记录
package db

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/zzliekkas/autodoc/config"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 数据库驱动类型常量
const (
	// MySQL 数据库
	MySQL = "mysql"
	// PostgreSQL 数据库
	PostgreSQL = "postgres"
	// SQLite 数据库
	SQLite = "sqlite"
)

// 定义错误类型
var (
	// ErrUnsupportedDriver 不支持的驱动类型错误
	ErrUnsupportedDriver = errors.New("不支持的数据库驱动类型")
	// ErrInvalidConfiguration 无效的数据库配置
	ErrInvalidConfiguration = errors.New("无效的数据库配置")
	// ErrDatabaseNotFound 未找到指定的数据库
	ErrDatabaseNotFound = errors.New("未找到指定的数据库连接")
	// ErrConnectionFailed 数据库连接失败
	ErrConnectionFailed = errors.New("数据库连接失败")
)

// Config 数据库配置
type Config struct {
	// 连接名称
	Name string `mapstructure:"-" json:"name"`

	// 驱动类型：mysql, postgres, sqlite
	Driver string `mapstructure:"driver" json:"driver"`

	// 连接信息
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	Database string `mapstructure:"database" json:"database"`
	Username string `mapstructure:"username" json:"username"`
	Password string `mapstructure:"password" json:"-"`

	// 其他连接参数
	Charset  string `mapstructure:"charset" json:"charset"`
	SSLMode  string `mapstructure:"sslmode" json:"sslmode"`
	TimeZone string `mapstructure:"timezone" json:"timezone"`

	// 日志配置
	LogLevel      logger.LogLevel `mapstructure:"log_level" json:"log_level"`
	SlowThreshold time.Duration   `mapstructure:"slow_threshold" json:"slow_threshold"`
}

// FromConfig 读取database.default指向的连接配置
func FromConfig(cfg *config.Config) (Config, error) {
	name := cfg.GetString("database.default")
	if name == "" {
		return Config{}, fmt.Errorf("%w: 未设置database.default", ErrDatabaseNotFound)
	}

	key := "database.connections." + name
	if !cfg.Has(key) {
		return Config{}, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}

	c := Config{
		Port:     3306,
		Charset:  "utf8mb4",
		SSLMode:  "disable",
		TimeZone: "Local",
		LogLevel: logger.Silent,
	}
	if err := cfg.Unmarshal(key, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	c.Name = name
	c.Driver = normalizeDriver(c.Driver)

	if c.Driver == "" {
		return c, ErrInvalidConfiguration
	}
	return c, nil
}

// normalizeDriver 统一驱动名称
func normalizeDriver(driver string) string {
	switch driver {
	case "sqlite3":
		return SQLite
	case "pgsql", "postgresql":
		return PostgreSQL
	default:
		return driver
	}
}

// DSN 根据配置生成连接字符串
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case MySQL:
		mc := mysql.NewConfig()
		mc.User = c.Username
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		mc.DBName = c.Database
		mc.ParseTime = true
		if c.Charset != "" {
			mc.Params = map[string]string{"charset": c.Charset}
		}
		if loc, err := time.LoadLocation(c.TimeZone); err == nil {
			mc.Loc = loc
		}
		return mc.FormatDSN(), nil

	case PostgreSQL:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			c.Host,
			c.Port,
			c.Username,
			c.Password,
			c.Database,
			c.SSLMode,
			c.TimeZone,
		), nil

	case SQLite:
		return c.Database, nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDriver, c.Driver)
	}
}

// Open 根据配置建立数据库连接，SQL日志写入logger
func Open(c Config, log logrus.FieldLogger) (*gorm.DB, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch c.Driver {
	case MySQL:
		dialector = mysqldriver.Open(dsn)
	case PostgreSQL:
		dialector = postgres.Open(dsn)
	case SQLite:
		dialector = sqlite.Open(dsn)
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             c.SlowThreshold,
			LogLevel:                  c.LogLevel,
			IgnoreRecordNotFoundError: true,
		}),
	}

	conn, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectionFailed, MaskDSN(c.Driver, dsn), err)
	}
	return conn, nil
}

var passwordParam = regexp.MustCompile(`(password=)\S+`)

// MaskDSN 隐藏连接字符串中的密码
func MaskDSN(driver, dsn string) string {
	switch driver {
	case MySQL:
		mc, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "******"
		}
		if mc.Passwd != "" {
			mc.Passwd = "******"
		}
		return mc.FormatDSN()
	case PostgreSQL:
		return passwordParam.ReplaceAllString(dsn, "${1}******")
	default:
		return dsn
	}
}
