package organizer

import (
	"fmt"
	"io"

	"github.com/moyu-x/content-organizer/pkg/plan"
)

// Sink 接收一次运行中面向用户的进度事件
type Sink interface {
	ScanStarted(target string)
	Summary(summary []plan.CategoryCount)
	ApplyStarted()
	Moving(source, destination string)
	RelocatingDuplicate(source, destination string)
	SkippingDuplicate(source, duplicateOf string)
	DryRun()
	Done()
}

// ConsoleSink 将事件逐行写入 writer
type ConsoleSink struct {
	w io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) ScanStarted(target string) {
	fmt.Fprintf(s.w, "正在扫描 %s ...\n", target)
}

func (s *ConsoleSink) Summary(summary []plan.CategoryCount) {
	fmt.Fprintln(s.w, "\n汇总:")
	for _, item := range summary {
		fmt.Fprintf(s.w, "  %s: %d\n", item.Category, item.Count)
	}
}

func (s *ConsoleSink) ApplyStarted() {
	fmt.Fprintln(s.w, "正在执行计划 ...")
}

func (s *ConsoleSink) Moving(source, destination string) {
	fmt.Fprintf(s.w, "移动 %s -> %s\n", source, destination)
}

func (s *ConsoleSink) RelocatingDuplicate(source, destination string) {
	fmt.Fprintf(s.w, "重复文件移至 %s: %s\n", destination, source)
}

func (s *ConsoleSink) SkippingDuplicate(source, duplicateOf string) {
	fmt.Fprintf(s.w, "跳过重复文件: %s 与 %s 相同\n", source, duplicateOf)
}

func (s *ConsoleSink) DryRun() {
	fmt.Fprintln(s.w, "仅预览，未移动任何文件。使用 --apply 执行移动。")
}

func (s *ConsoleSink) Done() {
	fmt.Fprintln(s.w, "完成。")
}

// discardSink 未设置 Sink 时使用
type discardSink struct{}

func (discardSink) ScanStarted(string)                 {}
func (discardSink) Summary([]plan.CategoryCount)       {}
func (discardSink) ApplyStarted()                      {}
func (discardSink) Moving(string, string)              {}
func (discardSink) RelocatingDuplicate(string, string) {}
func (discardSink) SkippingDuplicate(string, string)   {}
func (discardSink) DryRun()                            {}
func (discardSink) Done()                              {}
