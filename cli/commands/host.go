package commands

import (
	"errors"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/zzliekkas/autodoc"
	"github.com/zzliekkas/autodoc/cli"
	"github.com/zzliekkas/autodoc/config"
	"github.com/zzliekkas/autodoc/db"
	"go.uber.org/dig"
)

// Host 宿主应用提供给命令的协作者
type Host struct {
	// Container 宿主应用的依赖注入容器，为空时只使用能从配置构建的协作者
	Container *dig.Container
	// Logger 日志记录器，为空时按--debug创建
	Logger *logrus.Logger
	// Options 追加到文档生成器的选项
	Options []autodoc.Option
}

// environment 命令运行时解析出的配置和协作者
type environment struct {
	cfg      *config.Config
	settings config.Settings
	sources  autodoc.Sources
	logger   *logrus.Logger
	closeDB  func()
}

// addCommonFlags 添加配置、根目录和调试标志
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "config", "配置文件或配置目录，相对于项目根目录")
	cmd.Flags().StringP("root", "r", ".", "项目根目录")
	cmd.Flags().Bool("debug", false, "输出调试日志")
}

// prepare 加载配置并解析协作者。容器中已有配置且未指定--config时直接使用容器中的配置
func (h Host) prepare(cmd *cobra.Command, needDB bool) (*environment, error) {
	configPath, _ := cmd.Flags().GetString("config")
	root, _ := cmd.Flags().GetString("root")
	debug, _ := cmd.Flags().GetBool("debug")

	logger := h.Logger
	if logger == nil {
		logger = autodoc.NewLogger(debug)
	}

	sources, err := autodoc.SourcesFromContainer(h.Container, root)
	if err != nil {
		return nil, err
	}

	cfg := sources.Config
	if cfg == nil || cmd.Flags().Changed("config") {
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(root, configPath)
		}
		loaded, err := autodoc.LoadConfig(configPath)
		if err != nil {
			if !errors.Is(err, config.ErrConfigNotFound) {
				return nil, err
			}
			cli.PrintWarning("未找到配置文件，使用默认配置: %s", configPath)
		}
		cfg = loaded
		sources.Config = cfg
	}

	settings, err := config.LoadSettings(cfg, root)
	if err != nil {
		return nil, err
	}

	env := &environment{
		cfg:      cfg,
		settings: settings,
		sources:  sources,
		logger:   logger,
		closeDB:  func() {},
	}
	if needDB && sources.DB == nil {
		env.openDatabase()
	}
	return env, nil
}

// openDatabase 按配置连接数据库，失败时只提示，数据库相关内容为空
func (e *environment) openDatabase() {
	dbConfig, err := db.FromConfig(e.cfg)
	if err != nil {
		e.logger.Debugf("未配置数据库: %v", err)
		return
	}

	conn, err := db.Open(dbConfig, e.logger)
	if err != nil {
		cli.PrintWarning("连接数据库失败，跳过数据库结构: %v", err)
		return
	}

	e.sources.DB = conn
	e.closeDB = func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
