package main

import (
	"os"

	"github.com/zzliekkas/autodoc/cli"
	"github.com/zzliekkas/autodoc/cli/commands"
)

func main() {
	app := cli.NewAutodocCLI()

	// 独立运行时没有宿主容器，只能读取配置、数据库和项目文件
	commands.RegisterCommands(app, commands.Host{})

	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
