package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
)

func createFiles(t *testing.T, root string, files []string) {
	t.Helper()
	for _, file := range files {
		fullPath := filepath.Join(root, file)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte("test content"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
}

func collect(w *FileWalker, root string) []string {
	var visited []string
	for path := range w.Files(root) {
		rel, _ := filepath.Rel(root, path)
		visited = append(visited, filepath.ToSlash(rel))
	}
	sort.Strings(visited)
	return visited
}

func TestFileWalker_Files(t *testing.T) {
	tempDir := t.TempDir()

	testFiles := []string{
		"file1.txt",
		"file2.txt",
		".hidden_file",
		"subdir/file3.txt",
		".hidden_dir/file4.txt",
	}
	createFiles(t, tempDir, testFiles)

	walker := NewFileWalker(afero.NewOsFs())
	visited := collect(walker, tempDir)

	if len(visited) != len(testFiles) {
		t.Errorf("Expected %d files, got %d: %v", len(testFiles), len(visited), visited)
	}
}

func TestFileWalker_SkipHidden(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, []string{
		"visible.txt",
		".hidden_file",
		".hidden_dir/inner.txt",
		"sub/.secret",
		"sub/kept.txt",
	})

	walker := NewFileWalker(afero.NewOsFs())
	walker.SkipHidden = true

	expected := []string{"sub/kept.txt", "visible.txt"}
	visited := collect(walker, tempDir)
	if fmt.Sprint(visited) != fmt.Sprint(expected) {
		t.Errorf("Expected %v, got %v", expected, visited)
	}
}

func TestFileWalker_ProtectedDirsArePruned(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, []string{
		"Library/Caches/cache.db",
		"projects/Library/nested.txt",
		"projects/code.go",
		"bin/tool",
	})

	walker := NewFileWalker(afero.NewOsFs())
	walker.Protected = map[string]bool{"Library": true, "bin": true}

	expected := []string{"projects/code.go"}
	visited := collect(walker, tempDir)
	if fmt.Sprint(visited) != fmt.Sprint(expected) {
		t.Errorf("Expected %v, got %v", expected, visited)
	}
}

func TestFileWalker_ExcludedSubtree(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := "/home/user"
	for _, file := range []string{"a.txt", "Organized/Images/2024/01/b.jpg", "Organized/c.txt", "OrganizedNot/d.txt"} {
		if err := afero.WriteFile(fs, filepath.Join(root, file), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	walker := NewFileWalker(fs)
	walker.Exclude = filepath.Join(root, "Organized")

	expected := []string{"OrganizedNot/d.txt", "a.txt"}
	visited := collect(walker, root)
	if fmt.Sprint(visited) != fmt.Sprint(expected) {
		t.Errorf("Expected %v, got %v", expected, visited)
	}
}

func TestFileWalker_RootInsideExcluded(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/out/sub/a.txt", []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	walker := NewFileWalker(fs)
	walker.Exclude = "/out"

	if visited := collect(walker, "/out/sub"); len(visited) != 0 {
		t.Errorf("Expected nothing under excluded subtree, got %v", visited)
	}
}

func TestFileWalker_Patterns(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := "/data"
	for _, file := range []string{"keep.txt", "skip.tmp", "node_modules/pkg/index.js", "src/deep/file.tmp", "src/main.go"} {
		if err := afero.WriteFile(fs, filepath.Join(root, file), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	walker := NewFileWalker(fs)
	walker.Patterns = []string{"**/*.tmp", "node_modules"}

	expected := []string{"keep.txt", "src/main.go"}
	visited := collect(walker, root)
	if fmt.Sprint(visited) != fmt.Sprint(expected) {
		t.Errorf("Expected %v, got %v", expected, visited)
	}
}

func TestFileWalker_EarlyStop(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, []string{"a.txt", "b.txt", "c.txt"})

	walker := NewFileWalker(afero.NewOsFs())
	count := 0
	for range walker.Files(tempDir) {
		count++
		if count == 1 {
			break
		}
	}
	if count != 1 {
		t.Errorf("Expected iteration to stop after 1 file, got %d", count)
	}
}

func TestFileWalker_SymlinkToDirNotFollowed(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping symlink test in short mode")
	}

	tempDir := t.TempDir()
	outside := t.TempDir()
	createFiles(t, tempDir, []string{"file.txt"})
	createFiles(t, outside, []string{"elsewhere.txt"})

	if err := os.Symlink(outside, filepath.Join(tempDir, "link")); err != nil {
		t.Skipf("Skipping symlink test: %v", err)
	}

	walker := NewFileWalker(afero.NewOsFs())
	expected := []string{"file.txt"}
	visited := collect(walker, tempDir)
	if fmt.Sprint(visited) != fmt.Sprint(expected) {
		t.Errorf("Expected %v, got %v", expected, visited)
	}
}

func TestIsWithin(t *testing.T) {
	testCases := []struct {
		parent, path string
		expected     bool
	}{
		{"/a", "/a/b", true},
		{"/a", "/a/b/c", true},
		{"/a", "/a", false},
		{"/a", "/ab", false},
		{"/a/b", "/a", false},
		{"/", "/etc", true},
	}

	for _, tc := range testCases {
		if got := IsWithin(tc.parent, tc.path); got != tc.expected {
			t.Errorf("IsWithin(%q, %q) = %v, want %v", tc.parent, tc.path, got, tc.expected)
		}
	}
}
