package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zzliekkas/autodoc/cli"
	"github.com/zzliekkas/autodoc/config"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand 创建配置查看命令
func NewConfigCommand(host Host) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "autodoc:config",
		Aliases: []string{"autodoc:settings"},
		Short:   "显示生效的文档生成配置",
		Long:    `合并默认值、配置文件和环境变量后，显示文档生成器实际使用的配置，以及文档中记录的应用配置快照。`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return host.showConfig(cmd)
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().BoolP("snapshot", "s", false, "只显示写入文档的应用配置快照")

	return cmd
}

// showConfig 显示配置的实现
func (h Host) showConfig(cmd *cobra.Command) error {
	env, err := h.prepare(cmd, false)
	if err != nil {
		return err
	}

	var value interface{} = map[string]config.Settings{config.SettingsKey: maskSecrets(env.settings)}
	if snapshot, _ := cmd.Flags().GetBool("snapshot"); snapshot {
		value = config.Snapshot(env.cfg)
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if used := env.cfg.ConfigFileUsed(); used != "" {
		cli.PrintInfo("配置文件: %s", used)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// maskSecrets 隐藏密钥
func maskSecrets(s config.Settings) config.Settings {
	if s.Publish.S3.SecretKey != "" {
		s.Publish.S3.SecretKey = "******"
	}
	return s
}
