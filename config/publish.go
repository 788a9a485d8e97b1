package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrConfigExists 配置文件已存在
var ErrConfigExists = errors.New("配置文件已存在")

// WriteDefaults 将默认的autodoc配置写入YAML文件，文件已存在且未指定force时返回ErrConfigExists
func WriteDefaults(fs afero.Fs, path string, force bool) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return fmt.Errorf("检查配置文件失败: %w", err)
	}
	if exists && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	out, err := yaml.Marshal(map[string]Settings{SettingsKey: DefaultSettings()})
	if err != nil {
		return fmt.Errorf("序列化默认配置失败: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}
	return afero.WriteFile(fs, path, out, 0644)
}
