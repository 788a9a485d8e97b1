// Package autodoc 为基于gin和gorm的应用生成项目文档：路由、控制器、模型、
// 数据库结构、迁移、配置和授权策略，输出HTML/PDF文档和实体关系图
package autodoc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zzliekkas/autodoc/config"
	"github.com/zzliekkas/autodoc/diagram"
	"github.com/zzliekkas/autodoc/publish"
	"github.com/zzliekkas/autodoc/report"
	"github.com/zzliekkas/autodoc/screenshot"
)

// Version 版本信息
const Version = "1.0.0"

// DiagramRenderer 将PlantUML描述文件渲染为图片，返回图片路径
type DiagramRenderer interface {
	Render(ctx context.Context, source string) (string, error)
}

// Generator 文档生成器
type Generator struct {
	settings config.Settings
	sources  Sources
	logger   logrus.FieldLogger

	screenshots bool
	chromePath  string
	pdf         report.PDFConverter
	capturer    screenshot.Capturer
	renderer    DiagramRenderer
	uploader    publish.Uploader
	now         func() time.Time
}

// Option 生成器选项
type Option func(*Generator)

// WithLogger 设置日志记录器
func WithLogger(logger logrus.FieldLogger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithScreenshots 无论配置如何都截取页面
func WithScreenshots(enabled bool) Option {
	return func(g *Generator) {
		g.screenshots = enabled
	}
}

// WithBrowser 指定无头浏览器路径，用于PDF转换和截图
func WithBrowser(execPath string) Option {
	return func(g *Generator) {
		g.chromePath = execPath
	}
}

// WithPDFConverter 替换HTML到PDF的转换器
func WithPDFConverter(converter report.PDFConverter) Option {
	return func(g *Generator) {
		g.pdf = converter
	}
}

// WithCapturer 替换截图器，设置后不再检测浏览器
func WithCapturer(capturer screenshot.Capturer) Option {
	return func(g *Generator) {
		g.capturer = capturer
	}
}

// WithRenderer 替换实体关系图渲染器
func WithRenderer(renderer DiagramRenderer) Option {
	return func(g *Generator) {
		g.renderer = renderer
	}
}

// WithUploader 替换产物上传器，设置后即使未配置存储桶也会上传
func WithUploader(uploader publish.Uploader) Option {
	return func(g *Generator) {
		g.uploader = uploader
	}
}

// WithClock 设置文档生成时间的来源
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New 创建文档生成器
func New(settings config.Settings, sources Sources, options ...Option) *Generator {
	g := &Generator{
		settings:   settings,
		sources:    sources.withDefaults(),
		logger:     logrus.StandardLogger(),
		chromePath: settings.ChromePath,
		now:        time.Now,
	}
	for _, opt := range options {
		opt(g)
	}

	if g.renderer == nil {
		g.renderer = diagram.NewRenderer(settings.PlantUMLJar,
			diagram.WithJava(settings.JavaBin),
			diagram.WithBundledJava(filepath.Join(g.sources.Root, config.DefaultBundledJava)),
			diagram.WithTimeout(settings.DiagramTimeout),
		)
	}
	if g.pdf == nil {
		g.pdf = report.NewChromePDF(g.chromePath, settings.PDFTimeout)
	}
	return g
}

// Settings 返回生成器使用的配置
func (g *Generator) Settings() config.Settings {
	return g.settings
}

// LoadConfig 加载配置。path可以是目录（读取其中的app配置）或文件。
// 同目录下发布的autodoc.yaml会合并进来
func LoadConfig(path string) (*config.Config, error) {
	var dirPath, configName string
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		dirPath = path
		configName = "app"
	} else {
		dirPath = filepath.Dir(path)
		baseName := filepath.Base(path)
		configName = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	}

	cfg := config.NewConfig(
		config.WithConfigPath(dirPath),
		config.WithConfigName(configName),
	)
	loadErr := cfg.Load()
	if err := cfg.MergeFile(filepath.Join(dirPath, config.SettingsFile)); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return cfg, err
	}
	if loadErr != nil {
		return cfg, fmt.Errorf("加载配置文件失败: %w", loadErr)
	}
	return cfg, nil
}

// NewLogger 创建文本格式的日志记录器
func NewLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
