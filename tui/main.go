package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/content-organizer/pkg/logger"
	"github.com/moyu-x/content-organizer/pkg/organizer"
	"github.com/moyu-x/content-organizer/pkg/plan"
)

// RunResult 一次在界面中发起的整理
type RunResult struct {
	Options   organizer.Options
	StartedAt time.Time
	Report    *plan.Report
	Err       error
}

type Config struct {
	// Defaults 来自配置文件和命令行的初始参数，界面中可切换部分开关
	Defaults organizer.Options
	// OnComplete 每次运行结束后调用，用于记录历史，可为空
	OnComplete func(RunResult)
}

type teaModel struct {
	m *model
}

func (tm teaModel) Init() tea.Cmd {
	return tm.m.Init()
}

func (tm teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := tm.m.Update(msg)
	return tm, cmd
}

func (tm teaModel) View() string {
	return tm.m.View()
}

func Run(cfg Config) error {
	logger.Get().Info().Msg("启动 TUI 界面")

	m := initialModel(cfg)
	p := tea.NewProgram(teaModel{m: &m}, tea.WithAltScreen())

	_, err := p.Run()
	if err != nil {
		logger.Get().Error().Err(err).Msg("TUI 运行错误")
	} else {
		logger.Get().Info().Msg("TUI 正常退出")
	}

	return err
}
