package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/content-organizer/pkg/organizer"
	"github.com/moyu-x/content-organizer/pkg/plan"
)

type State int

const (
	StateConfig State = iota
	StateScanning
	StateApplying
	StateComplete
)

type Focus int

const (
	FocusTarget Focus = iota
	FocusOptions
)

// toggle 界面中可切换的布尔参数
type toggle int

const (
	toggleApply toggle = iota
	toggleRemoveDuplicates
	toggleIncludeHidden
	toggleExifDates
)

type model struct {
	state State
	focus Focus
	cfg   Config
	opts  organizer.Options

	events    chan tea.Msg
	done      chan struct{}
	startTime time.Time
	endTime   time.Time

	target    string
	summary   []plan.CategoryCount
	total     int
	processed int
	moved     int
	relocated int
	skipped   int
	dryRun    bool

	currentFile string
	report      *plan.Report
	err         error

	targetInput textinput.Model
	optionList  list.Model
	progressBar progress.Model
	spinner     spinner.Model
}

func initialModel(cfg Config) model {
	targetInput := textinput.New()
	targetInput.Placeholder = "请输入要整理的目录（例如：~/Downloads）"
	targetInput.Prompt = "> "
	targetInput.PromptStyle = focusedPromptStyle
	targetInput.TextStyle = textStyle
	targetInput.SetValue(cfg.Defaults.Target)
	targetInput.Focus()

	opts := cfg.Defaults
	optionList := list.New(optionItems(opts), list.NewDefaultDelegate(), 0, 12)
	optionList.Title = "运行选项"
	optionList.SetShowStatusBar(false)
	optionList.SetFilteringEnabled(false)
	optionList.SetShowHelp(false)
	optionList.Styles.Title = titleStyle
	optionList.Styles.TitleBar = titleStyle

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.PercentageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Width(4)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := model{
		state:       StateConfig,
		focus:       FocusTarget,
		cfg:         cfg,
		opts:        opts,
		targetInput: targetInput,
		optionList:  optionList,
		progressBar: progressBar,
		spinner:     s,
	}
	m.updateFocusState()
	return m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

type optionItem struct {
	toggle  toggle
	title   string
	desc    string
	enabled bool
}

func (o optionItem) Title() string {
	mark := "[ ]"
	if o.enabled {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s", mark, o.title)
}

func (o optionItem) Description() string { return o.desc }
func (o optionItem) FilterValue() string { return o.title }

func optionItems(opts organizer.Options) []list.Item {
	return []list.Item{
		optionItem{toggle: toggleApply, title: "执行移动", desc: "关闭时只生成计划，不移动任何文件", enabled: opts.Apply},
		optionItem{toggle: toggleRemoveDuplicates, title: "移出重复文件", desc: "把重复文件移动到 Duplicates 目录", enabled: opts.RemoveDuplicates},
		optionItem{toggle: toggleIncludeHidden, title: "包含隐藏文件", desc: "扫描以 . 开头的文件和目录", enabled: opts.IncludeHidden},
		optionItem{toggle: toggleExifDates, title: "使用 EXIF 日期", desc: "图片按拍摄时间归档", enabled: opts.ExifDates},
	}
}

// setToggle 切换一个选项并刷新列表项
func (m *model) setToggle(index int) {
	item, ok := m.optionList.Items()[index].(optionItem)
	if !ok {
		return
	}
	item.enabled = !item.enabled

	switch item.toggle {
	case toggleApply:
		m.opts.Apply = item.enabled
	case toggleRemoveDuplicates:
		m.opts.RemoveDuplicates = item.enabled
	case toggleIncludeHidden:
		m.opts.IncludeHidden = item.enabled
	case toggleExifDates:
		m.opts.ExifDates = item.enabled
	}
	m.optionList.SetItem(index, item)
}
