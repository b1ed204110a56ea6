package classifier

import (
	"path/filepath"
	"strings"

	"github.com/moyu-x/content-organizer/pkg/profiler"
)

// Classifier 根据扩展名、MIME 类型和文本主题确定文件分类
type Classifier struct {
	mime MimeGuesser
}

func NewClassifier(mime MimeGuesser) *Classifier {
	return &Classifier{mime: mime}
}

// Guess 返回文件的 MIME 类型，未知时返回空字符串
func (c *Classifier) Guess(path string) string {
	if c.mime == nil {
		return ""
	}
	mime, _ := c.mime.Guess(path)
	return mime
}

// Resolve 返回分类和主题。检测到主题时无论前面的结果如何都归入 Documents/<Theme>
func (c *Classifier) Resolve(path string, profile profiler.Profile) (string, string) {
	category, ok := ExtensionCategories[strings.ToLower(filepath.Ext(path))]
	if !ok {
		category = categoryFromMime(c.Guess(path))
	}
	if category == "" {
		category = CategoryOthers
	}

	theme := ""
	if profile != nil {
		theme = SelectTheme(profile)
		if theme != "" {
			category = ThemedCategory(theme)
		}
	}

	return category, theme
}

func categoryFromMime(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))

	switch {
	case mime == "":
		return ""
	case strings.HasPrefix(mime, "image/"):
		return CategoryImages
	case strings.HasPrefix(mime, "video/"):
		return CategoryVideos
	case strings.HasPrefix(mime, "audio/"):
		return CategoryAudio
	case mime == "application/zip", mime == "application/x-tar":
		return CategoryArchives
	case strings.HasPrefix(mime, "text/"):
		return CategoryDocuments
	}
	return ""
}
