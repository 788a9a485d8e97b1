package commands

import "github.com/zzliekkas/autodoc/cli"

// RegisterCommands 将所有命令注册到CLI应用
func RegisterCommands(app *cli.App, host Host) {
	// 文档命令
	app.AddCommand(NewGenerateCommand(host))
	app.AddCommand(NewPublishConfigCommand())

	// 配置命令
	app.AddCommand(NewConfigCommand(host))

	// 数据库结构命令
	app.AddCommand(NewSchemaCommand(host))

	// 路由命令
	app.AddCommand(NewRoutesCommand(host))
}
