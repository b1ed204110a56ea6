package scanner

import (
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/moyu-x/content-organizer/pkg/logger"
)

// FileWalker 递归遍历目录，跳过受保护目录、隐藏条目和输出目录
type FileWalker struct {
	Fs         afero.Fs
	Protected  map[string]bool
	SkipHidden bool
	// Exclude 输出目录，本身及其子目录都不会被遍历
	Exclude string
	// Patterns 相对根目录的 doublestar 模式
	Patterns []string
}

func NewFileWalker(fs afero.Fs) *FileWalker {
	return &FileWalker{
		Fs:        fs,
		Protected: make(map[string]bool),
	}
}

// Files 返回根目录下所有符合条件文件的惰性序列
func (w *FileWalker) Files(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		root = filepath.Clean(root)
		exclude := ""
		if w.Exclude != "" {
			exclude = filepath.Clean(w.Exclude)
		}

		stopped := false
		err := afero.Walk(w.Fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				logger.Get().Warn().Err(err).Str("path", path).Msg("访问路径出错")
				if info != nil && info.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if info.IsDir() {
				if path == root {
					if w.isExcluded(path, exclude) {
						return filepath.SkipDir
					}
					return nil
				}
				if w.skipDir(root, path, info.Name(), exclude) {
					logger.Get().Debug().Str("dir", path).Msg("跳过目录")
					return filepath.SkipDir
				}
				return nil
			}

			if info.Mode()&os.ModeSymlink != 0 {
				// 与目录一样不跟随指向目录的符号链接
				if target, err := w.Fs.Stat(path); err == nil && target.IsDir() {
					return nil
				}
			}

			if w.skipFile(root, path, info.Name()) {
				return nil
			}

			if !yield(path) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			logger.Get().Error().Err(err).Str("root", root).Msg("遍历目录失败")
		}
	}
}

func (w *FileWalker) skipDir(root, path, name, exclude string) bool {
	if w.SkipHidden && strings.HasPrefix(name, ".") {
		return true
	}
	if w.Protected[name] {
		return true
	}
	if w.isExcluded(path, exclude) {
		return true
	}
	return w.matchesPattern(root, path)
}

func (w *FileWalker) skipFile(root, path, name string) bool {
	if w.SkipHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return w.matchesPattern(root, path)
}

func (w *FileWalker) isExcluded(path, exclude string) bool {
	if exclude == "" {
		return false
	}
	return path == exclude || IsWithin(exclude, path)
}

func (w *FileWalker) matchesPattern(root, path string) bool {
	if len(w.Patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.Patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// IsWithin 判断 path 是否位于 parent 之下（不含 parent 本身）
func IsWithin(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
