package app

import (
	"fmt"
	"io"
	"time"

	"github.com/moyu-x/content-organizer/pkg/database"
	"github.com/moyu-x/content-organizer/pkg/logger"
	"github.com/moyu-x/content-organizer/pkg/organizer"
	"github.com/moyu-x/content-organizer/pkg/plan"
)

// RecordHistory 把一次运行写入历史数据库，path 为空时什么都不做。写入失败只记录日志
func RecordHistory(path string, opts organizer.Options, started time.Time, report *plan.Report, runErr error) {
	if path == "" {
		return
	}

	db, err := database.NewDatabase(path)
	if err != nil {
		logger.Get().Warn().Err(err).Str("path", path).Msg("打开历史数据库失败，跳过记录")
		return
	}
	defer db.Close()

	id, err := db.SaveRun(database.RunInfo{
		Target:           opts.Target,
		Applied:          opts.Apply && !opts.DryRun,
		RemoveDuplicates: opts.RemoveDuplicates,
		StartedAt:        started,
		FinishedAt:       time.Now(),
		Err:              runErr,
	}, report)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("记录运行历史失败")
		return
	}
	logger.Get().Info().Str("run", id).Msg("运行历史已记录")
}

// ListHistory 输出最近的运行记录
func ListHistory(w io.Writer, path string, limit int) error {
	db, err := database.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("打开历史数据库失败: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "暂无运行记录")
		return nil
	}

	for _, run := range runs {
		mode := "预览"
		if run.Applied {
			mode = "执行"
		}
		status := "成功"
		if run.Error != "" {
			status = "失败: " + run.Error
		}
		fmt.Fprintf(w, "%s  %s  %s  文件 %d  重复 %d  %s  %s\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			mode,
			run.Files,
			run.Duplicates,
			run.Target,
			status,
		)
	}
	return nil
}

// ShowRun 按格式输出某次运行的完整计划
func ShowRun(w io.Writer, path, runID, format string) error {
	if format == FormatNone {
		format = FormatJSON
	}
	if err := ValidateFormat(format); err != nil {
		return err
	}

	db, err := database.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("打开历史数据库失败: %w", err)
	}
	defer db.Close()

	report, err := db.LoadReport(runID)
	if err != nil {
		return fmt.Errorf("读取运行记录 %s 失败: %w", runID, err)
	}

	var text string
	if format == FormatYAML {
		text, err = report.YAML()
	} else {
		text, err = report.JSON()
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(w, text)
	return nil
}
