package classifier

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"
)

// HeaderSize 魔数检测读取的文件头大小
const HeaderSize = 261

// MimeGuesser 根据路径猜测 MIME 类型
type MimeGuesser interface {
	Guess(path string) (string, bool)
}

// MimeGuesserFunc 允许普通函数作为 MimeGuesser
type MimeGuesserFunc func(path string) (string, bool)

func (f MimeGuesserFunc) Guess(path string) (string, bool) {
	return f(path)
}

// textTypes filetype 不识别的文本类扩展名
var textTypes = map[string]string{
	".txt":  "text/plain",
	".log":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".tsv":  "text/tab-separated-values",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".py":   "text/x-python",
	".c":    "text/x-c",
	".h":    "text/x-c",
	".ics":  "text/calendar",
	".vcf":  "text/vcard",
	".json": "application/json",
	".xml":  "application/xml",
}

// tarSuffixes 压缩过的 tar 包，整体视为 tar
var tarSuffixes = []string{".tgz", ".tar.gz", ".tar.xz", ".tar.bz2", ".tbz2", ".txz"}

// ExtensionGuesser 只根据扩展名猜测 MIME 类型，不读取文件
// 顺序：tar 后缀、内置文本表、filetype 注册表、系统 MIME 表
type ExtensionGuesser struct{}

func (ExtensionGuesser) Guess(path string) (string, bool) {
	lower := strings.ToLower(filepath.Base(path))
	for _, suffix := range tarSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return "application/x-tar", true
		}
	}

	ext := filepath.Ext(lower)
	if ext == "" {
		return "", false
	}
	if value, ok := textTypes[ext]; ok {
		return value, true
	}
	if kind := filetype.GetType(strings.TrimPrefix(ext, ".")); kind != filetype.Unknown {
		return kind.MIME.Value, true
	}
	if value := mime.TypeByExtension(ext); value != "" {
		return value, true
	}
	return "", false
}

// ContentGuesser 读取文件头，通过魔数识别 MIME 类型
type ContentGuesser struct {
	fs afero.Fs
}

func NewContentGuesser(fs afero.Fs) *ContentGuesser {
	return &ContentGuesser{fs: fs}
}

func (g *ContentGuesser) Guess(path string) (string, bool) {
	file, err := g.fs.Open(path)
	if err != nil {
		return "", false
	}
	defer file.Close()

	head := make([]byte, HeaderSize)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", false
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return "", false
	}
	return kind.MIME.Value, true
}

// ChainGuesser 依次尝试多个 guesser，返回第一个结果
type ChainGuesser []MimeGuesser

func (c ChainGuesser) Guess(path string) (string, bool) {
	for _, g := range c {
		if mime, ok := g.Guess(path); ok {
			return mime, true
		}
	}
	return "", false
}

// DefaultGuesser 先按扩展名猜测，失败后检测文件内容
func DefaultGuesser(fs afero.Fs) MimeGuesser {
	return ChainGuesser{ExtensionGuesser{}, NewContentGuesser(fs)}
}
