package app

import (
	"fmt"
	"io"
	"time"

	"github.com/moyu-x/content-organizer/pkg/logger"
	"github.com/moyu-x/content-organizer/pkg/organizer"
	"github.com/moyu-x/content-organizer/pkg/plan"
)

// 计划输出格式
const (
	FormatNone = ""
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type OrganizeOptions struct {
	Organizer organizer.Options
	// Format 非空时在汇总之后输出完整计划
	Format string
	// HistoryPath 为空时不记录运行历史
	HistoryPath string
	Out         io.Writer
}

// RunOrganize 运行一次整理，向 Out 输出进度，并按需记录历史和输出计划
func RunOrganize(opts *OrganizeOptions, options ...organizer.Option) (*plan.Report, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	logger.Get().Debug().
		Str("target", opts.Organizer.Target).
		Bool("apply", opts.Organizer.Apply).
		Bool("dry_run", opts.Organizer.DryRun).
		Bool("remove_duplicates", opts.Organizer.RemoveDuplicates).
		Str("hash", string(opts.Organizer.Algorithm)).
		Int("workers", opts.Organizer.Workers).
		Msg("加载配置完成")

	options = append([]organizer.Option{organizer.WithSink(organizer.NewConsoleSink(opts.Out))}, options...)

	started := time.Now()
	report, err := organizer.New(opts.Organizer, options...).Run()
	RecordHistory(opts.HistoryPath, opts.Organizer, started, report, err)
	if err != nil {
		return report, err
	}

	if err := WriteReport(opts.Out, report, opts.Format); err != nil {
		return report, err
	}
	return report, nil
}

// ValidateFormat 检查计划输出格式
func ValidateFormat(format string) error {
	switch format {
	case FormatNone, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("不支持的输出格式: %s", format)
	}
}

// WriteReport 按格式输出完整计划，format 为空时不输出
func WriteReport(w io.Writer, report *plan.Report, format string) error {
	var (
		text  string
		title string
		err   error
	)
	switch format {
	case FormatNone:
		return nil
	case FormatJSON:
		title = "计划 (JSON):"
		text, err = report.JSON()
	case FormatYAML:
		title = "计划 (YAML):"
		text, err = report.YAML()
	default:
		return fmt.Errorf("不支持的输出格式: %s", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s\n%s\n", title, text)
	return nil
}
