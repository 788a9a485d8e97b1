package commands

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/zzliekkas/autodoc/cli"
	"github.com/zzliekkas/autodoc/config"
)

// NewPublishConfigCommand 创建发布默认配置的命令
func NewPublishConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autodoc:publish-config",
		Short: "发布默认的文档生成配置",
		Long:  `将默认的autodoc配置写入配置目录，生成命令会自动合并该文件。`,
		Args:  cobra.NoArgs,
		RunE:  publishConfig,
	}

	cmd.Flags().StringP("path", "p", filepath.Join("config", config.SettingsFile), "配置文件路径")
	cmd.Flags().BoolP("force", "f", false, "覆盖已存在的配置文件")

	return cmd
}

// publishConfig 发布配置的实现
func publishConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")
	force, _ := cmd.Flags().GetBool("force")

	if err := config.WriteDefaults(afero.NewOsFs(), path, force); err != nil {
		return err
	}
	cli.PrintSuccess("已发布配置文件: %s", path)
	return nil
}
