package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moyu-x/content-organizer/pkg/organizer"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_DryRunYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.md"), []byte("lecture notes for the course"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	output, err := execute(t, root, "--format", "yaml", "--root-name", "Sorted")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{
		"Documents/Education: 1",
		"计划 (YAML):",
		"root: " + filepath.Join(root, "Sorted"),
		"theme: Education",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "notes.md")); err != nil {
		t.Error("Dry run should not move files")
	}
}

func TestRootCommand_RejectsCriticalTarget(t *testing.T) {
	_, err := execute(t, "/etc", "--format", "")
	if !errors.Is(err, organizer.ErrCriticalTarget) {
		t.Errorf("Expected ErrCriticalTarget, got %v", err)
	}
}

func TestRootCommand_RequiresTarget(t *testing.T) {
	if _, err := execute(t); err == nil {
		t.Error("Expected error without target")
	}
}
