package commands

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zzliekkas/autodoc"
	"github.com/zzliekkas/autodoc/cli"
	"github.com/zzliekkas/autodoc/routes"
)

// NewRoutesCommand 创建路由列表命令
func NewRoutesCommand(host Host) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "routes",
		Aliases: []string{"route", "route:list"},
		Short:   "显示所有注册的路由",
		Long:    `显示宿主应用中注册的路由，包括HTTP方法、URL路径、名称、处理器和中间件信息。`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return host.listRoutes(cmd)
		},
	}

	// 添加命令行标志
	cmd.Flags().StringP("method", "m", "", "按HTTP方法筛选 (GET, POST, PUT, DELETE等)")
	cmd.Flags().StringP("path", "p", "", "按路径筛选 (支持部分匹配)")
	cmd.Flags().BoolP("verbose", "v", false, "显示详细信息，包括中间件")
	cmd.Flags().BoolP("reverse", "r", false, "反向排序")
	cmd.Flags().BoolP("documented", "d", false, "只显示会写入文档的web和api路由")

	return cmd
}

// listRoutes 列出所有路由
func (h Host) listRoutes(cmd *cobra.Command) error {
	methodFilter, _ := cmd.Flags().GetString("method")
	pathFilter, _ := cmd.Flags().GetString("path")
	verbose, _ := cmd.Flags().GetBool("verbose")
	reverse, _ := cmd.Flags().GetBool("reverse")
	documented, _ := cmd.Flags().GetBool("documented")

	sources, err := autodoc.SourcesFromContainer(h.Container, ".")
	if err != nil {
		return err
	}
	if sources.Routes == nil {
		cli.PrintWarning("宿主应用没有提供路由表")
		return nil
	}

	all := sources.Routes.Routes()
	if documented {
		all = routes.Gather(sources.Routes)
	}

	// 筛选路由
	var filtered []routes.Route
	for _, route := range all {
		if methodFilter != "" && !hasMethod(route, methodFilter) {
			continue
		}
		if pathFilter != "" && !strings.Contains(strings.ToLower(route.URI), strings.ToLower(pathFilter)) {
			continue
		}
		filtered = append(filtered, route)
	}

	// 排序
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].URI == filtered[j].URI {
			return strings.Join(filtered[i].Methods, "|") < strings.Join(filtered[j].Methods, "|")
		}
		result := filtered[i].URI < filtered[j].URI
		if reverse {
			return !result
		}
		return result
	})

	if len(filtered) == 0 {
		cli.PrintInfo("没有找到匹配的路由")
		return nil
	}

	cli.PrintSuccess("找到 %d 个路由", len(filtered))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME\tHANDLER")
	fmt.Fprintln(w, "------\t----\t----\t-------")

	for _, route := range filtered {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", strings.Join(route.Methods, "|"), route.URI, route.Name, route.Action)

		if verbose && len(route.Middleware) > 0 {
			fmt.Fprintf(w, "\t└── 中间件: %s\n", strings.Join(route.Middleware, ", "))
		}
	}
	return w.Flush()
}

func hasMethod(route routes.Route, method string) bool {
	for _, m := range route.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}
