package tui

import "github.com/moyu-x/content-organizer/pkg/plan"

type scanStartedMsg struct {
	target string
}

type summaryMsg struct {
	summary []plan.CategoryCount
}

type applyStartedMsg struct{}

type fileKind int

const (
	fileMoved fileKind = iota
	fileRelocated
	fileSkipped
)

type fileMsg struct {
	kind        fileKind
	source      string
	destination string
}

type dryRunMsg struct{}

type doneMsg struct{}

type runCompleteMsg struct {
	result RunResult
}
