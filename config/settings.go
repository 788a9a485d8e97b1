package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/zzliekkas/autodoc/validation"
)

// SettingsKey 文档生成器配置所在的键
const SettingsKey = "autodoc"

// SettingsFile 发布的配置文件名，与应用配置放在同一目录
const SettingsFile = "autodoc.yaml"

// 默认值
const (
	DefaultOutputDir         = "docs"
	DefaultControllerNS      = "controllers"
	DefaultPlantUMLJar       = "resources/bin/plantuml.jar"
	DefaultBundledJava       = "resources/bin/jre/bin/java"
	DefaultDiagramTimeout    = 2 * time.Minute
	DefaultScreenshotTimeout = 30 * time.Second
	DefaultPDFTimeout        = time.Minute
)

// ErrInvalidSettings 配置项校验失败
var ErrInvalidSettings = errors.New("无效的文档生成配置")

// ScreenshotTarget 截图目标
type ScreenshotTarget struct {
	URL   string `mapstructure:"url" yaml:"url" json:"url" validate:"required,pageurl"`
	Label string `mapstructure:"label" yaml:"label,omitempty" json:"label"`
}

// S3Settings 产物上传配置
type S3Settings struct {
	Bucket         string `mapstructure:"bucket" yaml:"bucket" json:"bucket"`
	Region         string `mapstructure:"region" yaml:"region" json:"region" validate:"required_with=Bucket"`
	Prefix         string `mapstructure:"prefix" yaml:"prefix" json:"prefix" validate:"omitempty,s3prefix"`
	Endpoint       string `mapstructure:"endpoint" yaml:"endpoint,omitempty" json:"endpoint" validate:"omitempty,url"`
	AccessKey      string `mapstructure:"access_key" yaml:"access_key,omitempty" json:"access_key"`
	SecretKey      string `mapstructure:"secret_key" yaml:"secret_key,omitempty" json:"-"`
	ForcePathStyle bool   `mapstructure:"force_path_style" yaml:"force_path_style,omitempty" json:"force_path_style"`
}

// PublishSettings 发布配置
type PublishSettings struct {
	S3 S3Settings `mapstructure:"s3" yaml:"s3" json:"s3"`
}

// Settings 文档生成器配置
type Settings struct {
	OutputPath          string             `mapstructure:"output_path" yaml:"output_path" json:"output_path" validate:"required"`
	TakeScreenshots     bool               `mapstructure:"take_screenshots" yaml:"take_screenshots" json:"take_screenshots"`
	ScreenshotURLs      []ScreenshotTarget `mapstructure:"screenshot_urls" yaml:"screenshot_urls" json:"screenshot_urls" validate:"dive"`
	ControllerNamespace string             `mapstructure:"controller_namespace" yaml:"controller_namespace" json:"controller_namespace" validate:"required"`
	ModelPaths          []string           `mapstructure:"model_paths" yaml:"model_paths" json:"model_paths" validate:"min=1,dive,required"`
	LOCPaths            []string           `mapstructure:"loc_paths" yaml:"loc_paths" json:"loc_paths"`
	PlantUMLJar         string             `mapstructure:"plantuml_jar" yaml:"plantuml_jar" json:"plantuml_jar" validate:"required,jarfile"`
	JavaBin             string             `mapstructure:"java_bin" yaml:"java_bin,omitempty" json:"java_bin"`
	ChromePath          string             `mapstructure:"chrome_path" yaml:"chrome_path,omitempty" json:"chrome_path"`
	DiagramTimeout      time.Duration      `mapstructure:"diagram_timeout" yaml:"diagram_timeout" json:"diagram_timeout" validate:"gt=0"`
	ScreenshotTimeout   time.Duration      `mapstructure:"screenshot_timeout" yaml:"screenshot_timeout" json:"screenshot_timeout" validate:"gt=0"`
	PDFTimeout          time.Duration      `mapstructure:"pdf_timeout" yaml:"pdf_timeout" json:"pdf_timeout" validate:"gt=0"`
	Publish             PublishSettings    `mapstructure:"publish" yaml:"publish" json:"publish"`
}

// DefaultSettings 返回默认配置，路径相对于项目根目录
func DefaultSettings() Settings {
	return Settings{
		OutputPath:          DefaultOutputDir,
		ScreenshotURLs:      []ScreenshotTarget{},
		ControllerNamespace: DefaultControllerNS,
		ModelPaths:          []string{"app/models", "app"},
		LOCPaths: []string{
			"app/http",
			"app/models",
			"routes",
			"database/factories",
			"database/migrations",
			"database/seeders",
			"resources",
			"public/css",
			"public/js",
			"tests",
		},
		PlantUMLJar:       DefaultPlantUMLJar,
		DiagramTimeout:    DefaultDiagramTimeout,
		ScreenshotTimeout: DefaultScreenshotTimeout,
		PDFTimeout:        DefaultPDFTimeout,
	}
}

// LoadSettings 读取autodoc配置，覆盖默认值并校验。相对路径以root为基准
func LoadSettings(cfg *Config, root string) (Settings, error) {
	settings := DefaultSettings()
	if cfg != nil && cfg.Has(SettingsKey) {
		if err := cfg.Unmarshal(SettingsKey, &settings); err != nil {
			return settings, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
	}

	settings.OutputPath = resolve(root, settings.OutputPath)
	settings.PlantUMLJar = resolve(root, settings.PlantUMLJar)
	if settings.JavaBin != "" && strings.ContainsRune(settings.JavaBin, filepath.Separator) {
		settings.JavaBin = resolve(root, settings.JavaBin)
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Validate 校验配置项，错误信息为中文
func (s Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(validation.TranslateError(err), "; "))
	}
	return nil
}

// Publishing 是否配置了产物上传
func (s Settings) Publishing() bool {
	return s.Publish.S3.Bucket != ""
}

func resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}
