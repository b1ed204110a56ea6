package deduplicator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/moyu-x/content-organizer/pkg/classifier"
	"github.com/moyu-x/content-organizer/pkg/logger"
)

// Mode 重复文件处理方式
type Mode string

const (
	// ModeSkip 重复文件的目标路径与原文件相同，应用时跳过
	ModeSkip Mode = "skip"
	// ModeRelocate 重复文件移动到 Duplicates 目录下的唯一路径
	ModeRelocate Mode = "relocate"
)

// Decision 单个文件的去重结果
type Decision struct {
	Destination string
	Category    string
	Duplicate   bool
	DuplicateOf string
}

// Index 记录每个摘要第一次出现时的目标路径，生命周期为一次规划
type Index struct {
	fs             afero.Fs
	mode           Mode
	duplicatesRoot string

	firstSeen map[string]string
	nextIndex map[string]int
	assigned  map[string]bool
}

func NewIndex(fs afero.Fs, mode Mode, duplicatesRoot string) *Index {
	if mode == "" {
		mode = ModeSkip
	}
	return &Index{
		fs:             fs,
		mode:           mode,
		duplicatesRoot: duplicatesRoot,
		firstSeen:      make(map[string]string),
		nextIndex:      make(map[string]int),
		assigned:       make(map[string]bool),
	}
}

// Len 返回已记录的不同摘要数量
func (i *Index) Len() int {
	return len(i.firstSeen)
}

// Resolve 登记一个文件。第一次出现的摘要保持原计划，之后出现的按 Mode 处理
func (i *Index) Resolve(digest, source, destination, category string) Decision {
	original, seen := i.firstSeen[digest]
	if !seen {
		i.firstSeen[digest] = destination
		return Decision{Destination: destination, Category: category}
	}

	decision := Decision{
		Destination: original,
		Category:    category,
		Duplicate:   true,
		DuplicateOf: original,
	}
	if i.mode == ModeRelocate {
		decision.Destination = i.uniqueDestination(filepath.Base(source))
		decision.Category = classifier.CategoryDuplicates
	}

	logger.Get().Debug().
		Str("file", source).
		Str("duplicate_of", original).
		Str("destination", decision.Destination).
		Msg("发现重复文件")

	return decision
}

// uniqueDestination 在 Duplicates 目录下分配一个未被占用的文件名，冲突时追加 _N 后缀
func (i *Index) uniqueDestination(filename string) string {
	base := filepath.Join(i.duplicatesRoot, filename)
	stem, ext := splitName(filename)

	next := i.nextIndex[base]
	candidate := base
	if next > 0 {
		candidate = filepath.Join(i.duplicatesRoot, fmt.Sprintf("%s_%d%s", stem, next, ext))
	}
	for i.taken(candidate) {
		next++
		candidate = filepath.Join(i.duplicatesRoot, fmt.Sprintf("%s_%d%s", stem, next, ext))
	}

	i.assigned[candidate] = true
	i.nextIndex[base] = next + 1
	return candidate
}

func (i *Index) taken(path string) bool {
	if i.assigned[path] {
		return true
	}
	exists, err := afero.Exists(i.fs, path)
	if err != nil {
		logger.Get().Warn().Err(err).Str("path", path).Msg("检查文件是否存在失败")
		return true
	}
	return exists
}

// splitName 拆分文件名和扩展名，".bashrc" 这类文件名视为没有扩展名
func splitName(filename string) (string, string) {
	ext := filepath.Ext(filename)
	if ext == filename {
		return filename, ""
	}
	return strings.TrimSuffix(filename, ext), ext
}
