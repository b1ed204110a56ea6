package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/content-organizer/app"
	"github.com/moyu-x/content-organizer/config"
	"github.com/moyu-x/content-organizer/internal"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "查看运行历史",
	Long: `不带参数时列出最近的运行记录，给出运行 ID 时输出该次运行的完整计划。
历史数据库路径来自 --history 或配置项 history.path，未配置时使用 ` + internal.DefaultHistoryPath,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := config.Get().History.Path
	if path == "" {
		path = internal.DefaultHistoryPath
	}

	if len(args) == 0 {
		return app.ListHistory(cmd.OutOrStdout(), path, historyLimit)
	}
	return app.ShowRun(cmd.OutOrStdout(), path, args[0], historyFormat)
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "最多列出的运行记录数，0 表示全部")
	historyCmd.Flags().StringVar(&historyFormat, "format", app.FormatJSON, "计划输出格式 (json|yaml)")
}
