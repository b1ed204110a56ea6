package classifier

import (
	"strings"

	"github.com/moyu-x/content-organizer/pkg/profiler"
)

// Theme 文档主题及其关键词
type Theme struct {
	Name     string
	Keywords []string
}

// Themes 按声明顺序排列，得分相同时先声明的主题胜出
var Themes = []Theme{
	{Name: "Finance", Keywords: []string{"invoice", "receipt", "tax", "bank", "statement", "payment", "budget"}},
	{Name: "Work", Keywords: []string{"meeting", "project", "sprint", "presentation", "minutes", "proposal", "brief"}},
	{Name: "Personal", Keywords: []string{"travel", "family", "recipe", "health", "fitness", "shopping", "wishlist"}},
	{Name: "Education", Keywords: []string{"assignment", "lecture", "course", "university", "study", "notes"}},
	{Name: "Legal", Keywords: []string{"contract", "nda", "agreement", "license", "policy"}},
}

// SelectTheme 返回得分最高的主题，最高分为 0 时返回空字符串
func SelectTheme(profile profiler.Profile) string {
	return selectTheme(Themes, profile)
}

func selectTheme(themes []Theme, profile profiler.Profile) string {
	best := ""
	bestScore := 0
	for _, theme := range themes {
		score := 0
		for _, keyword := range theme.Keywords {
			score += profile[strings.ToLower(keyword)]
		}
		if score > bestScore {
			best = theme.Name
			bestScore = score
		}
	}
	return best
}
