package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/moyu-x/content-organizer/app"
	"github.com/moyu-x/content-organizer/config"
	"github.com/moyu-x/content-organizer/pkg/hasher"
	"github.com/moyu-x/content-organizer/pkg/logger"
	"github.com/moyu-x/content-organizer/pkg/organizer"
)

var (
	cfgFile       string
	applyChanges  bool
	dryRun        bool
	jsonOutput    bool
	format        string
	includeHidden bool
)

// rootCmd 直接执行时整理 target 目录
var rootCmd = &cobra.Command{
	Use:   "content-organizer <target>",
	Short: "按内容整理目录中的文件",
	Long: `Content Organizer 是一个命令行工具，按文件类型和文本内容整理目录。

主要功能:
- 递归扫描目标目录，跳过隐藏文件和受保护的系统目录
- 按扩展名和 MIME 类型分类，文本文件按关键词识别主题
- 计算内容哈希检测重复文件
- 图片、视频、音频按 年/月 归档
- 默认只生成计划，使用 --apply 才会移动文件`,
	Args:              cobra.ExactArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: initialize,
	RunE:              runOrganize,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// initialize 加载配置并初始化日志，所有子命令共用
func initialize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if cmd.Flags().Changed("include-hidden") {
		cfg.Scanner.SkipHidden = !includeHidden
	}

	if cmd.Name() == "tui" {
		return initTUILogger(cfg)
	}
	return logger.Init(cfg.Logging.Level, cfg.Logging.File)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	outputFormat := format
	if outputFormat == "" && jsonOutput {
		outputFormat = app.FormatJSON
	}

	opts := baseOptions(cfg)
	opts.Target = args[0]
	opts.Apply = applyChanges
	opts.DryRun = dryRun

	_, err := app.RunOrganize(&app.OrganizeOptions{
		Organizer:   opts,
		Format:      outputFormat,
		HistoryPath: cfg.History.Path,
		Out:         cmd.OutOrStdout(),
	})
	return err
}

// baseOptions 把配置转换为整理参数，不含目标目录和运行模式
func baseOptions(cfg *config.Config) organizer.Options {
	return organizer.Options{
		RemoveDuplicates: cfg.Output.RemoveDuplicates,
		RootName:         cfg.Output.RootName,
		IncludeHidden:    !cfg.Scanner.SkipHidden,
		Protected:        cfg.Scanner.Protected,
		Exclude:          cfg.Scanner.Exclude,
		Workers:          cfg.Performance.Workers,
		Algorithm:        hasher.Algorithm(cfg.Hashing.Algorithm),
		ExifDates:        cfg.Planner.ExifDates,
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVar(&applyChanges, "apply", false, "执行计划并移动文件，不加此参数时只预览")
	flags.BoolVar(&dryRun, "dry-run", false, "强制只预览，即使同时给出 --apply")
	flags.BoolVar(&jsonOutput, "json", false, "在汇总之后以 JSON 输出完整计划")
	flags.StringVar(&format, "format", "", "完整计划的输出格式 (json|yaml)")
	flags.BoolVar(&includeHidden, "include-hidden", false, "扫描以 . 开头的文件和目录")
	flags.String("root-name", organizer.DefaultRootName, "输出目录名称，位于目标目录之下")
	flags.Bool("remove-duplicates", false, "把重复文件移动到 Duplicates 目录，而不是留在原处")
	flags.StringSlice("exclude", nil, "排除匹配的路径，相对目标目录的 glob 模式，可重复")
	flags.Int("workers", 1, "并发计算哈希的线程数，大于 1 时启用")
	flags.String("hash", string(hasher.SHA256), "哈希算法 (sha256|xxhash)")
	flags.Bool("exif-dates", false, "图片优先使用 EXIF 拍摄时间归档")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&cfgFile, "config", "", "配置文件路径 (默认 $HOME/.content-organizer/config.yaml)")
	persistent.String("history", "", "运行历史数据库路径，为空时不记录")
	persistent.String("log-level", "info", "日志级别 (trace|debug|info|warn|error)")
	persistent.String("log-file", "", "日志文件路径")

	bindings := map[string]string{
		"output.root_name":         "root-name",
		"output.remove_duplicates": "remove-duplicates",
		"scanner.exclude":          "exclude",
		"performance.workers":      "workers",
		"hashing.algorithm":        "hash",
		"planner.exif_dates":       "exif-dates",
	}
	for key, name := range bindings {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(name)))
	}

	persistentBindings := map[string]string{
		"history.path":  "history",
		"logging.level": "log-level",
		"logging.file":  "log-file",
	}
	for key, name := range persistentBindings {
		cobra.CheckErr(viper.BindPFlag(key, persistent.Lookup(name)))
	}
}
