package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/content-organizer/pkg/plan"
)

// programSink 把整理过程中的事件转换为 tea 消息，由 waitForEvent 逐个取出
// done 关闭后界面不再读取，事件直接丢弃
type programSink struct {
	events chan<- tea.Msg
	done   <-chan struct{}
}

func (s programSink) send(msg tea.Msg) {
	select {
	case s.events <- msg:
	case <-s.done:
	}
}

func (s programSink) ScanStarted(target string) {
	s.send(scanStartedMsg{target: target})
}

func (s programSink) Summary(summary []plan.CategoryCount) {
	s.send(summaryMsg{summary: summary})
}

func (s programSink) ApplyStarted() {
	s.send(applyStartedMsg{})
}

func (s programSink) Moving(source, destination string) {
	s.send(fileMsg{kind: fileMoved, source: source, destination: destination})
}

func (s programSink) RelocatingDuplicate(source, destination string) {
	s.send(fileMsg{kind: fileRelocated, source: source, destination: destination})
}

func (s programSink) SkippingDuplicate(source, duplicateOf string) {
	s.send(fileMsg{kind: fileSkipped, source: source, destination: duplicateOf})
}

func (s programSink) DryRun() {
	s.send(dryRunMsg{})
}

func (s programSink) Done() {
	s.send(doneMsg{})
}
