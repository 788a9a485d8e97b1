package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/zzliekkas/autodoc"
	"github.com/zzliekkas/autodoc/cli/banner"
)

// 控制台输出，测试时可替换
var (
	Output    io.Writer = color.Output
	ErrOutput io.Writer = color.Error
)

// App 表示CLI应用程序
type App struct {
	// 应用名称
	Name string

	// 应用版本
	Version string

	// 应用描述
	Description string

	// 根命令
	rootCmd *cobra.Command

	// 命令集合
	commands []*cobra.Command
}

// NewApp 创建一个新的CLI应用程序
func NewApp(name, version, description string) *App {
	app := &App{
		Name:        name,
		Version:     version,
		Description: description,
		commands:    make([]*cobra.Command, 0),
	}

	app.rootCmd = &cobra.Command{
		Use:           app.Name,
		Short:         app.Description,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	return app
}

// AddCommand 添加一个命令到应用程序
func (a *App) AddCommand(cmd *cobra.Command) {
	a.commands = append(a.commands, cmd)
	a.rootCmd.AddCommand(cmd)
}

// Commands 返回已添加的命令
func (a *App) Commands() []*cobra.Command {
	return a.commands
}

// Root 返回根命令，宿主应用可将其挂到自己的命令树上
func (a *App) Root() *cobra.Command {
	return a.rootCmd
}

// Run 打印标志后运行，收到中断信号时取消正在执行的命令
func (a *App) Run() error {
	// FLOW_BANNER_SIZE=none 时不显示标志
	if size := os.Getenv("FLOW_BANNER_SIZE"); size != "none" {
		banner.PrintWithSize(a.Version, a.Description, size)
	}

	// 处理不同的可执行文件名
	executable := filepath.Base(os.Args[0])
	if strings.HasPrefix(a.rootCmd.Use, "autodoc") && executable != "autodoc" {
		a.rootCmd.Use = executable
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.rootCmd.ExecuteContext(ctx); err != nil {
		PrintError("%v", err)
		return err
	}
	return nil
}

// Execute 以指定参数运行命令，不打印标志
func (a *App) Execute(ctx context.Context, args ...string) error {
	a.rootCmd.SetArgs(args)
	return a.rootCmd.ExecuteContext(ctx)
}

// NewAutodocCLI 创建默认的文档生成命令行工具
func NewAutodocCLI() *App {
	return NewApp("autodoc", autodoc.Version, "项目文档生成工具")
}

// PrintError 打印错误信息
func PrintError(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(ErrOutput, "Error: "+format+"\n", args...)
}

// PrintSuccess 打印成功信息
func PrintSuccess(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(Output, "✓ "+format+"\n", args...)
}

// PrintInfo 打印信息
func PrintInfo(format string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(Output, "→ "+format+"\n", args...)
}

// PrintWarning 打印警告信息
func PrintWarning(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(Output, "⚠ "+format+"\n", args...)
}
