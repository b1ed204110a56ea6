package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	switch m.state {
	case StateConfig:
		return m.configView()
	case StateScanning:
		return m.scanningView()
	case StateApplying:
		return m.applyingView()
	case StateComplete:
		return m.completeView()
	default:
		return "未知状态"
	}
}

func (m *model) configView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🗂  内容整理工具") + "\n\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n\n")

	b.WriteString(labelStyle.Render("1. 输入要整理的目录：") + "\n")
	if m.focus == FocusTarget {
		b.WriteString(focusedStyle.Render(m.targetInput.View()) + "\n\n")
	} else {
		b.WriteString(normalStyle.Render(m.targetInput.View()) + "\n\n")
	}

	b.WriteString(labelStyle.Render("2. 选择运行选项：") + "\n")
	if m.focus == FocusOptions {
		b.WriteString(focusedStyle.Render(m.optionList.View()) + "\n\n")
	} else {
		b.WriteString(normalStyle.Render(m.optionList.View()) + "\n\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("操作提示：") + "\n")
	b.WriteString("  • Tab 键切换焦点\n")
	b.WriteString("  • 在目录输入框按 Enter 开始整理\n")
	b.WriteString("  • 在选项列表按 Enter 或空格切换选项\n")
	b.WriteString("  • Ctrl+C 退出程序\n")

	return lipgloss.NewStyle().
		Padding(1).
		Render(b.String())
}

func (m *model) scanningView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔍 正在扫描并生成计划...") + "\n\n")
	b.WriteString(m.spinner.View() + " 正在遍历目录、识别内容并计算哈希...\n")
	b.WriteString("  目标目录: " + filePathStyle.Render(m.target))

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) applyingView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔄 正在移动文件...") + "\n\n")

	b.WriteString(labelStyle.Render("处理进度：") + "\n")
	b.WriteString(m.progressBar.ViewAs(m.percent()) + "\n\n")

	b.WriteString(statsBoxStyle.Render(
		m.renderStats(),
	) + "\n\n")

	b.WriteString(labelStyle.Render("当前文件：") + "\n")
	b.WriteString(filePathStyle.Render(m.currentFile) + "\n\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) completeView() string {
	var b strings.Builder

	switch {
	case m.err != nil:
		b.WriteString(errorTitleStyle.Render("❌ 整理失败") + "\n\n")
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n\n")
	case m.dryRun:
		b.WriteString(successTitleStyle.Render("📝 计划已生成（仅预览，未移动文件）") + "\n\n")
	default:
		b.WriteString(successTitleStyle.Render("✅ 整理完成！") + "\n\n")
	}

	if m.report != nil {
		b.WriteString(statsBoxStyle.Render(
			m.renderFinalStats(),
		) + "\n\n")
		b.WriteString("  输出目录: " + filePathStyle.Render(m.report.Root) + "\n\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("按 Enter 返回设置，q 或 Ctrl+C 退出") + "\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.processed) / float64(m.total)
}
