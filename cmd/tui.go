package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/moyu-x/content-organizer/app"
	"github.com/moyu-x/content-organizer/config"
	"github.com/moyu-x/content-organizer/pkg/logger"
	"github.com/moyu-x/content-organizer/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [target]",
	Short: "启动交互式终端界面",
	Long: `启动交互式终端界面，在界面中输入目标目录并切换运行选项。
界面运行期间日志只写入 --log-file 指定的文件。`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

// initTUILogger 界面运行时日志不能写到终端
func initTUILogger(cfg *config.Config) error {
	if cfg.Logging.File == "" {
		logger.InitWithWriter(cfg.Logging.Level, io.Discard)
		return nil
	}

	file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	logger.InitWithWriter(cfg.Logging.Level, file)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	defaults := baseOptions(cfg)
	if len(args) > 0 {
		defaults.Target = args[0]
	}

	return tui.Run(tui.Config{
		Defaults: defaults,
		OnComplete: func(result tui.RunResult) {
			app.RecordHistory(cfg.History.Path, result.Options, result.StartedAt, result.Report, result.Err)
		},
	})
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
