package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zzliekkas/autodoc"
	"github.com/zzliekkas/autodoc/cli"
)

// NewGenerateCommand 创建文档生成命令
func NewGenerateCommand(host Host) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "autodoc:generate",
		Aliases: []string{"docs", "generate"},
		Short:   "生成项目文档",
		Long:    `读取路由、控制器、模型、数据库结构、迁移、配置和授权策略，生成HTML/PDF文档和实体关系图。`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return host.generate(cmd)
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().Bool("screenshots", false, "截取配置中的页面")

	return cmd
}

// generate 生成文档的实现
func (h Host) generate(cmd *cobra.Command) error {
	env, err := h.prepare(cmd, true)
	if err != nil {
		return err
	}
	defer env.closeDB()

	screenshots, _ := cmd.Flags().GetBool("screenshots")
	options := []autodoc.Option{
		autodoc.WithLogger(env.logger),
		autodoc.WithScreenshots(screenshots),
	}
	options = append(options, h.Options...)

	cli.PrintInfo("正在生成文档: %s", env.settings.OutputPath)
	res, err := autodoc.New(env.settings, env.sources, options...).Generate(cmd.Context())
	if err != nil {
		return fmt.Errorf("生成文档失败: %w", err)
	}

	for _, w := range res.Warnings {
		cli.PrintWarning("%v", w)
	}
	if res.DiagramImage != "" {
		cli.PrintSuccess("实体关系图: %s", res.DiagramImage)
	}
	for _, s := range res.Screenshots {
		if s.Err == nil {
			cli.PrintSuccess("截图: %s", s.File)
		}
	}
	if len(res.Published) > 0 {
		cli.PrintSuccess("已上传%d个文件", len(res.Published))
	}
	cli.PrintSuccess("文档已生成: %s", res.PDF)
	return nil
}
