package classifier

import "strings"

const (
	CategoryDocuments  = "Documents"
	CategoryImages     = "Images"
	CategoryVideos     = "Videos"
	CategoryAudio      = "Audio"
	CategoryArchives   = "Archives"
	CategoryCode       = "Code"
	CategoryOthers     = "Others"
	CategoryDuplicates = "Duplicates"
)

// ExtensionCategories 扩展名（小写，带点）到分类的映射
var ExtensionCategories = map[string]string{
	// Documents
	".pdf":  CategoryDocuments,
	".doc":  CategoryDocuments,
	".docx": CategoryDocuments,
	".ppt":  CategoryDocuments,
	".pptx": CategoryDocuments,
	".xls":  CategoryDocuments,
	".xlsx": CategoryDocuments,
	".txt":  CategoryDocuments,
	".md":   CategoryDocuments,
	".rtf":  CategoryDocuments,
	// Media
	".jpg":  CategoryImages,
	".jpeg": CategoryImages,
	".png":  CategoryImages,
	".gif":  CategoryImages,
	".heic": CategoryImages,
	".mov":  CategoryVideos,
	".mp4":  CategoryVideos,
	".m4v":  CategoryVideos,
	".mp3":  CategoryAudio,
	".aac":  CategoryAudio,
	".wav":  CategoryAudio,
	".flac": CategoryAudio,
	// Archives
	".zip": CategoryArchives,
	".tar": CategoryArchives,
	".gz":  CategoryArchives,
	".bz2": CategoryArchives,
	".7z":  CategoryArchives,
	// Code
	".py":    CategoryCode,
	".js":    CategoryCode,
	".ts":    CategoryCode,
	".java":  CategoryCode,
	".swift": CategoryCode,
	".c":     CategoryCode,
	".cpp":   CategoryCode,
	".rb":    CategoryCode,
	".go":    CategoryCode,
	".rs":    CategoryCode,
}

// TopLevel 返回分类路径的第一段，例如 "Documents/Work" -> "Documents"
func TopLevel(category string) string {
	if i := strings.IndexByte(category, '/'); i >= 0 {
		return category[:i]
	}
	return category
}

// IsMedia 判断分类是否需要按日期分桶
func IsMedia(category string) bool {
	switch TopLevel(category) {
	case CategoryImages, CategoryVideos, CategoryAudio:
		return true
	}
	return false
}

// ThemedCategory 返回主题文档分类，例如 "Documents/Finance"
func ThemedCategory(theme string) string {
	return CategoryDocuments + "/" + theme
}
