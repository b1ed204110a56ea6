package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/content-organizer/pkg/logger"
	"github.com/moyu-x/content-organizer/pkg/organizer"
)

// eventBufferSize 事件通道缓冲，整理协程不必等待界面刷新
const eventBufferSize = 64

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopRun()
			return m, tea.Quit
		}

		switch m.state {
		case StateConfig:
			if cmd, handled := m.updateConfigPhase(msg); handled {
				return m, cmd
			}
		case StateComplete:
			return m.updateCompletePhase(msg)
		}

	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case scanStartedMsg:
		m.target = msg.target
		return m, waitForEvent(m.events)

	case summaryMsg:
		m.summary = msg.summary
		m.total = 0
		for _, item := range msg.summary {
			m.total += item.Count
		}
		return m, waitForEvent(m.events)

	case applyStartedMsg:
		m.state = StateApplying
		return m, waitForEvent(m.events)

	case fileMsg:
		m.processed++
		m.currentFile = msg.source
		switch msg.kind {
		case fileMoved:
			m.moved++
		case fileRelocated:
			m.relocated++
		case fileSkipped:
			m.skipped++
		}
		return m, waitForEvent(m.events)

	case dryRunMsg:
		m.dryRun = true
		return m, waitForEvent(m.events)

	case doneMsg:
		return m, waitForEvent(m.events)

	case runCompleteMsg:
		m.state = StateComplete
		m.endTime = time.Now()
		m.report = msg.result.Report
		m.err = msg.result.Err
		m.events = nil
		m.logFinalStats()
		if m.cfg.OnComplete != nil {
			m.cfg.OnComplete(msg.result)
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == StateScanning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == StateConfig {
		var cmd tea.Cmd
		if m.focus == FocusTarget {
			m.targetInput, cmd = m.targetInput.Update(msg)
		} else {
			m.optionList, cmd = m.optionList.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

// updateConfigPhase 处理配置阶段的按键，返回是否已处理
func (m *model) updateConfigPhase(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		m.nextFocus()
		m.updateFocusState()
		return nil, true

	case "enter":
		if m.focus == FocusTarget {
			return m.startRun(), true
		}
		m.setToggle(m.optionList.Index())
		return nil, true

	case " ":
		if m.focus == FocusOptions {
			m.setToggle(m.optionList.Index())
			return nil, true
		}
	}
	return nil, false
}

func (m *model) updateCompletePhase(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.reset()
		return m, nil
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) nextFocus() {
	switch m.focus {
	case FocusTarget:
		m.focus = FocusOptions
	case FocusOptions:
		m.focus = FocusTarget
	}
}

func (m *model) updateFocusState() {
	if m.focus == FocusTarget {
		m.targetInput.Focus()
	} else {
		m.targetInput.Blur()
	}

	m.optionList.KeyMap.CursorUp.SetEnabled(m.focus == FocusOptions)
	m.optionList.KeyMap.CursorDown.SetEnabled(m.focus == FocusOptions)
}

func (m *model) handleResize(msg tea.WindowSizeMsg) {
	width := msg.Width

	m.targetInput.Width = width - 10
	m.optionList.SetWidth(width - 4)
	m.progressBar.Width = width - 10
}

// reset 回到配置阶段，保留目录和选项
func (m *model) reset() {
	m.state = StateConfig
	m.summary = nil
	m.total = 0
	m.processed = 0
	m.moved = 0
	m.relocated = 0
	m.skipped = 0
	m.dryRun = false
	m.currentFile = ""
	m.report = nil
	m.err = nil
	m.updateFocusState()
}

// startRun 在独立协程中运行整理，事件通过通道送回界面
func (m *model) startRun() tea.Cmd {
	target := strings.TrimSpace(m.targetInput.Value())
	if target == "" {
		return nil
	}

	opts := m.opts
	opts.Target = target
	m.opts.Target = target
	m.target = target
	m.state = StateScanning
	m.startTime = time.Now()
	m.events = make(chan tea.Msg, eventBufferSize)
	m.done = make(chan struct{})

	logger.Get().Info().Str("target", target).Bool("apply", opts.Apply).Msg("开始整理")

	return tea.Batch(
		m.spinner.Tick,
		runOrganizer(opts, m.events, m.done),
		waitForEvent(m.events),
	)
}

func runOrganizer(opts organizer.Options, events chan tea.Msg, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		started := time.Now()
		sink := programSink{events: events, done: done}
		o := organizer.New(opts, organizer.WithSink(sink))
		report, err := o.Run()

		sink.send(runCompleteMsg{result: RunResult{
			Options:   opts,
			StartedAt: started,
			Report:    report,
			Err:       err,
		}})
		close(events)
		return nil
	}
}

// stopRun 通知整理协程界面已退出，之后的事件不再阻塞
func (m *model) stopRun() {
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
}

// waitForEvent 取出下一条事件，通道关闭后不再产生消息
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *model) renderStats() string {
	var b strings.Builder
	b.WriteString("📊 实时统计：\n\n")
	b.WriteString(fmt.Sprintf("  计划文件数：  %d\n", m.total))
	b.WriteString(fmt.Sprintf("  已处理：      %d / %d\n", m.processed, m.total))
	b.WriteString(fmt.Sprintf("  已移动：      %d 个文件\n", m.moved))
	b.WriteString(fmt.Sprintf("  移出重复：    %d 个文件\n", m.relocated))
	b.WriteString(fmt.Sprintf("  跳过重复：    %d 个文件\n", m.skipped))
	return b.String()
}

func (m *model) renderSummary() string {
	var b strings.Builder
	b.WriteString("📁 分类汇总：\n\n")
	if len(m.summary) == 0 {
		b.WriteString("  没有找到需要整理的文件\n")
	}
	for _, item := range m.summary {
		b.WriteString(fmt.Sprintf("  • %-24s %d\n", item.Category, item.Count))
	}
	return b.String()
}

func (m *model) renderFinalStats() string {
	var b strings.Builder
	b.WriteString(m.renderSummary())
	b.WriteString("\n")

	duplicates := 0
	if m.report != nil {
		duplicates = m.report.Duplicates()
	}
	b.WriteString(fmt.Sprintf("  • 计划文件数：  %d 个\n", m.total))
	b.WriteString(fmt.Sprintf("  • 重复文件：    %d 个\n", duplicates))
	if !m.dryRun {
		b.WriteString(fmt.Sprintf("    ├─ 已移动：    %d 个\n", m.moved))
		b.WriteString(fmt.Sprintf("    ├─ 移出重复：  %d 个\n", m.relocated))
		b.WriteString(fmt.Sprintf("    └─ 跳过重复：  %d 个\n", m.skipped))
	}
	b.WriteString(fmt.Sprintf("  • 总耗时：      %s\n", m.endTime.Sub(m.startTime).Round(time.Millisecond)))
	return b.String()
}

func (m *model) logFinalStats() {
	event := logger.Get().Info()
	if m.err != nil {
		event = logger.Get().Error().Err(m.err)
	}
	event.
		Str("target", m.target).
		Int("files", m.total).
		Int("moved", m.moved).
		Int("relocated", m.relocated).
		Int("skipped", m.skipped).
		Bool("dry_run", m.dryRun).
		Dur("duration", m.endTime.Sub(m.startTime)).
		Msg("整理结束")
}
