package deduplicator

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/moyu-x/content-organizer/pkg/classifier"
)

const dupRoot = "/target/Organized/Duplicates"

func TestIndex_FirstOccurrence(t *testing.T) {
	idx := NewIndex(afero.NewMemMapFs(), ModeSkip, dupRoot)

	d := idx.Resolve("sha256:aa", "/target/a.txt", "/target/Organized/Documents/a.txt", "Documents")
	if d.Duplicate {
		t.Error("First occurrence should not be a duplicate")
	}
	if d.Destination != "/target/Organized/Documents/a.txt" || d.Category != "Documents" {
		t.Errorf("Unexpected decision: %+v", d)
	}
	if d.DuplicateOf != "" {
		t.Errorf("Expected empty DuplicateOf, got %s", d.DuplicateOf)
	}
	if idx.Len() != 1 {
		t.Errorf("Expected 1 digest, got %d", idx.Len())
	}
}

func TestIndex_SkipMode(t *testing.T) {
	idx := NewIndex(afero.NewMemMapFs(), ModeSkip, dupRoot)

	original := "/target/Organized/Documents/a.txt"
	idx.Resolve("sha256:aa", "/target/a.txt", original, "Documents")
	d := idx.Resolve("sha256:aa", "/target/sub/copy.txt", "/target/Organized/Documents/copy.txt", "Documents")

	if !d.Duplicate {
		t.Fatal("Second occurrence should be a duplicate")
	}
	if d.DuplicateOf != original {
		t.Errorf("Expected DuplicateOf %s, got %s", original, d.DuplicateOf)
	}
	if d.Destination != original {
		t.Errorf("Expected destination to equal original's, got %s", d.Destination)
	}
	if d.Category != "Documents" {
		t.Errorf("Skip mode should keep resolved category, got %s", d.Category)
	}
}

func TestIndex_RelocateMode(t *testing.T) {
	idx := NewIndex(afero.NewMemMapFs(), ModeRelocate, dupRoot)

	original := "/target/Organized/Images/2024/01/photo.jpg"
	idx.Resolve("sha256:bb", "/target/photo.jpg", original, "Images")

	d1 := idx.Resolve("sha256:bb", "/target/a/photo.jpg", "ignored", "Images")
	d2 := idx.Resolve("sha256:bb", "/target/b/photo.jpg", "ignored", "Images")
	d3 := idx.Resolve("sha256:bb", "/target/c/photo.jpg", "ignored", "Images")

	expected := []string{
		filepath.Join(dupRoot, "photo.jpg"),
		filepath.Join(dupRoot, "photo_1.jpg"),
		filepath.Join(dupRoot, "photo_2.jpg"),
	}
	for i, d := range []Decision{d1, d2, d3} {
		if d.Destination != expected[i] {
			t.Errorf("Duplicate %d: expected %s, got %s", i, expected[i], d.Destination)
		}
		if d.Category != classifier.CategoryDuplicates {
			t.Errorf("Duplicate %d: expected category Duplicates, got %s", i, d.Category)
		}
		if d.DuplicateOf != original {
			t.Errorf("Duplicate %d: expected DuplicateOf %s, got %s", i, original, d.DuplicateOf)
		}
	}
}

func TestIndex_RelocateAvoidsExistingFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"report.pdf", "report_1.pdf"} {
		if err := afero.WriteFile(fs, filepath.Join(dupRoot, name), []byte("old"), 0644); err != nil {
			t.Fatalf("创建测试文件失败: %v", err)
		}
	}

	idx := NewIndex(fs, ModeRelocate, dupRoot)
	idx.Resolve("sha256:cc", "/target/report.pdf", "/target/Organized/Documents/report.pdf", "Documents")

	d := idx.Resolve("sha256:cc", "/target/x/report.pdf", "ignored", "Documents")
	if d.Destination != filepath.Join(dupRoot, "report_2.pdf") {
		t.Errorf("Expected report_2.pdf, got %s", d.Destination)
	}

	d = idx.Resolve("sha256:cc", "/target/y/report.pdf", "ignored", "Documents")
	if d.Destination != filepath.Join(dupRoot, "report_3.pdf") {
		t.Errorf("Expected report_3.pdf, got %s", d.Destination)
	}
}

func TestIndex_RelocateSeparateCountersPerName(t *testing.T) {
	idx := NewIndex(afero.NewMemMapFs(), ModeRelocate, dupRoot)
	idx.Resolve("d1", "/t/a.txt", "/o/a.txt", "Documents")
	idx.Resolve("d2", "/t/b.txt", "/o/b.txt", "Documents")

	a := idx.Resolve("d1", "/t/x/a.txt", "", "Documents")
	b := idx.Resolve("d2", "/t/x/b.txt", "", "Documents")

	if a.Destination != filepath.Join(dupRoot, "a.txt") {
		t.Errorf("Expected a.txt, got %s", a.Destination)
	}
	if b.Destination != filepath.Join(dupRoot, "b.txt") {
		t.Errorf("Expected b.txt, got %s", b.Destination)
	}
}

func TestIndex_DistinctDigestsAreNotDuplicates(t *testing.T) {
	idx := NewIndex(afero.NewMemMapFs(), ModeSkip, dupRoot)
	idx.Resolve("error:/t/a", "/t/a", "/o/a", "Others")
	d := idx.Resolve("error:/t/b", "/t/b", "/o/b", "Others")
	if d.Duplicate {
		t.Error("Different digests must not be merged")
	}
}

func TestSplitName(t *testing.T) {
	testCases := []struct {
		name, stem, ext string
	}{
		{"photo.jpg", "photo", ".jpg"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"README", "README", ""},
		{".bashrc", ".bashrc", ""},
		{".config.yaml", ".config", ".yaml"},
	}

	for _, tc := range testCases {
		stem, ext := splitName(tc.name)
		if stem != tc.stem || ext != tc.ext {
			t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)", tc.name, stem, ext, tc.stem, tc.ext)
		}
	}
}
