// Package config 提供基于viper的配置管理以及文档生成器的配置项
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// ErrConfigNotFound 配置文件不存在
var ErrConfigNotFound = errors.New("配置文件未找到")

// Config 表示配置管理器
type Config struct {
	// viper实例
	viper *viper.Viper

	// 配置文件路径
	configPath string

	// 配置文件名
	configName string

	// 配置文件类型
	configType string

	// 显式指定的配置文件
	configFile string

	// 环境
	env string

	// 是否已加载
	loaded bool

	// 锁
	mu sync.RWMutex
}

// 配置选项函数
type ConfigOption func(*Config)

// NewConfig 创建一个新的配置管理器
func NewConfig(options ...ConfigOption) *Config {
	cfg := &Config{
		viper:      viper.New(),
		configPath: "./config",
		configName: "app",
		configType: "yaml",
		env:        os.Getenv("FLOW_APP_ENV"),
	}

	for _, opt := range options {
		opt(cfg)
	}

	return cfg
}

// WithConfigPath 设置配置文件路径
func WithConfigPath(path string) ConfigOption {
	return func(c *Config) {
		c.configPath = path
	}
}

// WithConfigName 设置配置文件名
func WithConfigName(name string) ConfigOption {
	return func(c *Config) {
		c.configName = name
	}
}

// WithConfigType 设置配置文件类型
func WithConfigType(configType string) ConfigOption {
	return func(c *Config) {
		c.configType = configType
	}
}

// WithConfigFile 直接指定配置文件，优先于路径和文件名
func WithConfigFile(file string) ConfigOption {
	return func(c *Config) {
		c.configFile = file
	}
}

// WithEnvironment 设置环境
func WithEnvironment(env string) ConfigOption {
	return func(c *Config) {
		c.env = env
	}
}

// Load 加载配置文件。文件不存在时返回ErrConfigNotFound，已设置的默认值和环境变量仍然可用
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 环境变量前缀，如FLOW_APP_NAME
	c.viper.SetEnvPrefix("FLOW")
	c.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.viper.AutomaticEnv()

	if c.configFile != "" {
		if _, err := os.Stat(c.configFile); err != nil {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, c.configFile)
		}
		c.viper.SetConfigFile(c.configFile)
	} else {
		c.viper.AddConfigPath(c.configPath)
		c.viper.SetConfigName(c.configName)
		c.viper.SetConfigType(c.configType)

		// 优先加载特定环境的配置文件
		if c.env != "" {
			envConfigName := fmt.Sprintf("%s.%s", c.configName, c.env)
			envConfigPath := filepath.Join(c.configPath, fmt.Sprintf("%s.%s", envConfigName, c.configType))
			if _, err := os.Stat(envConfigPath); err == nil {
				c.viper.SetConfigName(envConfigName)
			}
		}
	}

	if err := c.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w: %v", ErrConfigNotFound, err)
		}
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	c.loaded = true
	return nil
}

// ConfigFileUsed 返回实际加载的配置文件
func (c *Config) ConfigFileUsed() string {
	return c.viper.ConfigFileUsed()
}

// Get 获取指定键的配置值
func (c *Config) Get(key string) interface{} {
	if c == nil || c.viper == nil {
		return nil
	}
	return c.viper.Get(key)
}

// GetString 获取字符串配置值
func (c *Config) GetString(key string) string {
	if c == nil || c.viper == nil {
		return ""
	}
	return c.viper.GetString(key)
}

// GetBool 获取布尔配置值
func (c *Config) GetBool(key string) bool {
	if c == nil || c.viper == nil {
		return false
	}
	return c.viper.GetBool(key)
}

// GetDuration 获取时间间隔配置值
func (c *Config) GetDuration(key string) time.Duration {
	if c == nil || c.viper == nil {
		return 0
	}
	return c.viper.GetDuration(key)
}

// GetStringMap 获取字符串映射配置值
func (c *Config) GetStringMap(key string) map[string]interface{} {
	if c == nil || c.viper == nil {
		return map[string]interface{}{}
	}
	return c.viper.GetStringMap(key)
}

// Unmarshal 将配置解析到结构体
func (c *Config) Unmarshal(key string, rawVal interface{}, opts ...viper.DecoderConfigOption) error {
	if c == nil || c.viper == nil {
		return fmt.Errorf("配置未初始化")
	}
	return c.viper.UnmarshalKey(key, rawVal, opts...)
}

// SetDefault 设置默认值
func (c *Config) SetDefault(key string, value interface{}) {
	c.viper.SetDefault(key, value)
}

// Set 设置配置值
func (c *Config) Set(key string, value interface{}) {
	if c.viper == nil {
		c.viper = viper.New()
	}
	c.viper.Set(key, value)
}

// Has 检查是否存在指定键
func (c *Config) Has(key string) bool {
	if c == nil || c.viper == nil {
		return false
	}
	return c.viper.IsSet(key)
}

// AllSettings 获取所有配置
func (c *Config) AllSettings() map[string]interface{} {
	if c == nil || c.viper == nil {
		return map[string]interface{}{}
	}
	return c.viper.AllSettings()
}

// IsLoaded 检查配置是否已加载
func (c *Config) IsLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// MergeFile 将另一个配置文件合并到当前配置，同名键以该文件为准
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.viper.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
	if err := c.viper.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("合并配置文件失败: %w", err)
	}
	c.loaded = true
	return nil
}
