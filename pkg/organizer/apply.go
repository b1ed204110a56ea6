package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/moyu-x/content-organizer/pkg/logger"
	"github.com/moyu-x/content-organizer/pkg/plan"
)

// apply 按计划顺序移动文件，遇到第一个错误即停止，已完成的移动保留
func (o *Organizer) apply(report *plan.Report) error {
	o.sink.ApplyStarted()

	for _, item := range report.Files {
		if item.IsDuplicate && !o.opts.RemoveDuplicates {
			o.sink.SkippingDuplicate(item.Source, item.DuplicateOf)
			continue
		}

		if err := o.fs.MkdirAll(filepath.Dir(item.Destination), 0755); err != nil {
			return fmt.Errorf("创建目录失败 %s: %w", filepath.Dir(item.Destination), err)
		}

		if item.IsDuplicate {
			o.sink.RelocatingDuplicate(item.Source, item.Destination)
		} else {
			o.sink.Moving(item.Source, item.Destination)
		}

		if err := o.moveFile(item.Source, item.Destination); err != nil {
			return fmt.Errorf("移动文件失败 %s: %w", item.Source, err)
		}
	}

	o.sink.Done()
	return nil
}

// moveFile 优先使用 rename，失败时（例如跨卷）复制后删除源文件
func (o *Organizer) moveFile(src, dst string) error {
	exists, err := afero.Exists(o.fs, dst)
	if err != nil {
		return fmt.Errorf("检查目标文件失败: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}

	err = o.fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	logger.Get().Debug().
		Err(err).
		Str("source", src).
		Str("destination", dst).
		Msg("直接重命名失败，尝试复制后删除")

	if err := o.copyFile(src, dst); err != nil {
		return err
	}
	if err := o.fs.Remove(src); err != nil {
		return fmt.Errorf("删除原文件失败: %w", err)
	}
	return nil
}

func (o *Organizer) copyFile(src, dst string) error {
	sourceFile, err := o.fs.Open(src)
	if err != nil {
		return fmt.Errorf("打开源文件失败: %w", err)
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return fmt.Errorf("读取源文件信息失败: %w", err)
	}

	destFile, err := o.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("创建目标文件失败: %w", err)
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		o.fs.Remove(dst)
		return fmt.Errorf("复制文件内容失败: %w", err)
	}
	if err := destFile.Close(); err != nil {
		return fmt.Errorf("写入目标文件失败: %w", err)
	}
	return nil
}
