package planner

import (
	"path/filepath"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"

	"github.com/moyu-x/content-organizer/pkg/classifier"
	"github.com/moyu-x/content-organizer/pkg/logger"
)

// Planner 根据分类计算文件在输出目录中的位置
type Planner struct {
	fs   afero.Fs
	root string
	// ExifDates 为 true 时图片优先使用 EXIF 拍摄时间
	ExifDates bool
	// Now 无法读取修改时间时使用，测试中可替换
	Now func() time.Time
}

func New(fs afero.Fs, root string) *Planner {
	return &Planner{
		fs:   fs,
		root: root,
		Now:  time.Now,
	}
}

// Destination 返回 source 在 category 下的目标路径，媒体文件按 年/月 分桶
func (p *Planner) Destination(source, category string) string {
	name := filepath.Base(source)
	categoryDir := filepath.Join(p.root, filepath.FromSlash(category))

	if !classifier.IsMedia(category) {
		return filepath.Join(categoryDir, name)
	}

	date := p.fileDate(source, category)
	return filepath.Join(categoryDir, date.Format("2006"), date.Format("01"), name)
}

// fileDate 确定媒体文件日期
// 优先级：
//  1. EXIF DateTimeOriginal（仅图片，且开启 ExifDates）
//  2. 文件修改时间
//  3. 当前时间
func (p *Planner) fileDate(source, category string) time.Time {
	if p.ExifDates && classifier.TopLevel(category) == classifier.CategoryImages {
		if t, err := p.exifDate(source); err == nil {
			return t
		}
	}

	info, err := p.fs.Stat(source)
	if err != nil {
		logger.Get().Debug().Err(err).Str("file", source).Msg("无法读取修改时间，使用当前时间")
		return p.Now()
	}
	return info.ModTime()
}

func (p *Planner) exifDate(source string) (time.Time, error) {
	file, err := p.fs.Open(source)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}
