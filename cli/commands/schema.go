package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zzliekkas/autodoc/cli"
	"github.com/zzliekkas/autodoc/db"
	"github.com/zzliekkas/autodoc/schema"
)

// NewSchemaCommand 创建数据库结构预览命令
func NewSchemaCommand(host Host) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "autodoc:schema",
		Aliases: []string{"db:schema"},
		Short:   "预览数据库结构",
		Long:    `读取当前数据库连接中的数据表和字段，即文档中数据库结构预览部分的内容。`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return host.showSchema(cmd)
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().BoolP("verbose", "v", false, "显示每个字段的类型")

	return cmd
}

// showSchema 显示数据库结构的实现
func (h Host) showSchema(cmd *cobra.Command) error {
	env, err := h.prepare(cmd, true)
	if err != nil {
		return err
	}
	defer env.closeDB()

	if env.sources.DB == nil {
		cli.PrintWarning("未配置数据库连接")
		return nil
	}
	if dbConfig, err := db.FromConfig(env.cfg); err == nil {
		if dsn, err := dbConfig.DSN(); err == nil {
			cli.PrintInfo("数据库: %s", db.MaskDSN(dbConfig.Driver, dsn))
		}
	}

	tables := schema.Read(cmd.Context(), env.sources.DB, env.logger)
	if len(tables) == 0 {
		cli.PrintInfo("没有找到数据表")
		return nil
	}
	cli.PrintSuccess("找到 %d 个数据表", len(tables))

	verbose, _ := cmd.Flags().GetBool("verbose")
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintln(w, "TABLE\tCOLUMNS")
	fmt.Fprintln(w, "-----\t-------")
	for _, name := range schema.SortedNames(tables) {
		columns := make([]string, 0, len(tables[name].Columns))
		for _, c := range tables[name].Columns {
			if verbose {
				columns = append(columns, c.Name+" "+c.Type)
			} else {
				columns = append(columns, c.Name)
			}
		}
		fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(columns, ", "))
	}
	return w.Flush()
}
