package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/content-organizer/pkg/organizer"
)

// drive 在当前协程中运行整理，并把所有事件交给 model 处理
func drive(t *testing.T, m *model, opts organizer.Options) {
	t.Helper()

	m.state = StateScanning
	m.events = make(chan tea.Msg, eventBufferSize)
	m.done = make(chan struct{})
	run := runOrganizer(opts, m.events, m.done)
	go run()

	next := waitForEvent(m.events)
	for next != nil {
		msg := next()
		if msg == nil {
			break
		}
		_, cmd := m.Update(msg)
		if _, ok := msg.(runCompleteMsg); ok {
			return
		}
		next = cmd
	}
	t.Fatal("run finished without a completion message")
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}
	return root
}

func TestModel_ToggleOptions(t *testing.T) {
	m := initialModel(Config{Defaults: organizer.Options{ExifDates: true}})
	m.focus = FocusOptions
	m.updateFocusState()

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.opts.Apply {
		t.Error("Expected enter to enable apply")
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.opts.Apply {
		t.Error("Expected space to disable apply again")
	}

	m.setToggle(int(toggleExifDates))
	if m.opts.ExifDates {
		t.Error("Expected exif dates to be toggled off")
	}
	item := m.optionList.Items()[toggleExifDates].(optionItem)
	if item.enabled || item.Title() != "[ ] 使用 EXIF 日期" {
		t.Errorf("Unexpected item after toggle: %+v", item)
	}
}

func TestModel_TabSwitchesFocus(t *testing.T) {
	m := initialModel(Config{})
	if m.focus != FocusTarget {
		t.Fatalf("Expected initial focus on target")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != FocusOptions || m.targetInput.Focused() {
		t.Error("Expected focus to move to options")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != FocusTarget || !m.targetInput.Focused() {
		t.Error("Expected focus to return to target")
	}
}

func TestModel_EmptyTargetDoesNotStart(t *testing.T) {
	m := initialModel(Config{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.state != StateConfig {
		t.Error("Expected no run without a target")
	}
}

func TestModel_DryRun(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.pdf":   "same",
		"b.pdf":   "same",
		"pic.png": "png",
	})

	var results []RunResult
	m := initialModel(Config{OnComplete: func(r RunResult) { results = append(results, r) }})
	drive(t, &m, organizer.Options{Target: root})

	if m.state != StateComplete || !m.dryRun || m.err != nil {
		t.Fatalf("Unexpected state: state=%v dryRun=%v err=%v", m.state, m.dryRun, m.err)
	}
	if m.total != 3 || m.processed != 0 {
		t.Errorf("Expected 3 planned and 0 processed, got %d and %d", m.total, m.processed)
	}
	if _, err := os.Stat(filepath.Join(root, "a.pdf")); err != nil {
		t.Error("Dry run should not move files")
	}
	if len(results) != 1 || results[0].Report == nil {
		t.Fatalf("Expected one completion callback with a report, got %+v", results)
	}
}

func TestModel_Apply(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.pdf": "same",
		"b.pdf": "same",
		"c.pdf": "other",
	})

	m := initialModel(Config{})
	drive(t, &m, organizer.Options{Target: root, Apply: true, RemoveDuplicates: true})

	if m.err != nil {
		t.Fatalf("Unexpected error: %v", m.err)
	}
	if m.moved != 2 || m.relocated != 1 || m.skipped != 0 {
		t.Errorf("Unexpected counters: moved=%d relocated=%d skipped=%d", m.moved, m.relocated, m.skipped)
	}
	if m.percent() != 1 {
		t.Errorf("Expected full progress, got %f", m.percent())
	}
	if _, err := os.Stat(filepath.Join(root, "Organized", "Duplicates", "b.pdf")); err != nil {
		t.Errorf("Expected duplicate to be relocated: %v", err)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateConfig || m.total != 0 || m.report != nil {
		t.Error("Expected enter to reset to config state")
	}
}

func TestModel_RejectedTarget(t *testing.T) {
	m := initialModel(Config{})
	drive(t, &m, organizer.Options{Target: filepath.Join(t.TempDir(), "missing")})

	if m.err == nil {
		t.Fatal("Expected error for missing target")
	}
	if m.report != nil {
		t.Error("Expected no report for rejected target")
	}
	if view := m.View(); view == "" {
		t.Error("Expected complete view to render")
	}
}

func TestRunOrganizer_ReturnsAfterStop(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < eventBufferSize*2; i++ {
		files[filepath.Join("docs", string(rune('a'+i%26))+strings.Repeat("x", i/26)+".pdf")] = strings.Repeat("z", i)
	}
	root := writeTree(t, files)

	m := initialModel(Config{})
	m.events = make(chan tea.Msg)
	m.done = make(chan struct{})
	done := m.done
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.done != nil {
		t.Fatal("Expected ctrl+c to release the run")
	}

	finished := make(chan struct{})
	go func() {
		runOrganizer(organizer.Options{Target: root, Apply: true}, make(chan tea.Msg), done)()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(10 * time.Second):
		t.Fatal("Organizer blocked on events nobody reads")
	}
}
