package profiler

import (
	"io"
	"strings"
	"unicode"

	"github.com/spf13/afero"

	"github.com/moyu-x/content-organizer/pkg/logger"
)

// MaxProfileBytes 构建词频画像时最多读取的字节数
const MaxProfileBytes = 20_000

// Profile 小写 token 到出现次数的映射
type Profile map[string]int

// IsTextual 判断 MIME 类型是否可以提取文本画像
func IsTextual(mime string) bool {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))

	if strings.HasPrefix(mime, "text/") {
		return true
	}
	return mime == "application/json" || mime == "application/xml"
}

// Tokenize 返回文本中所有连续的字母数字片段，保留原始大小写
func Tokenize(text string) []string {
	var tokens []string
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, text[start:])
	}
	return tokens
}

// FromText 由文本构建词频画像，没有 token 时返回空映射而不是 nil
func FromText(text string) Profile {
	profile := make(Profile)
	for _, token := range Tokenize(text) {
		profile[strings.ToLower(token)]++
	}
	return profile
}

// Profiler 读取文件前缀并生成词频画像
type Profiler struct {
	fs afero.Fs
}

func New(fs afero.Fs) *Profiler {
	return &Profiler{fs: fs}
}

// Build 为文本类文件生成画像。MIME 不是文本类型或读取失败时返回 nil
func (p *Profiler) Build(path, mime string) Profile {
	if !IsTextual(mime) {
		return nil
	}

	file, err := p.fs.Open(path)
	if err != nil {
		logger.Get().Debug().Err(err).Str("file", path).Msg("打开文件失败，跳过文本画像")
		return nil
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxProfileBytes))
	if err != nil {
		logger.Get().Debug().Err(err).Str("file", path).Msg("读取文件失败，跳过文本画像")
		return nil
	}

	return FromText(strings.ToValidUTF8(string(data), ""))
}
