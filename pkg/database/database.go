package database

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/moyu-x/content-organizer/pkg/logger"
	"github.com/moyu-x/content-organizer/pkg/plan"
)

// entryBatchSize 批量写入计划条目的大小
const entryBatchSize = 500

// ErrRunNotFound 指定的运行记录不存在
var ErrRunNotFound = errors.New("运行记录不存在")

// RunRecord 一次整理运行
type RunRecord struct {
	ID               string `gorm:"primaryKey;size:36"`
	Target           string `gorm:"not null"`
	Root             string `gorm:"not null"`
	Applied          bool   `gorm:"not null"`
	RemoveDuplicates bool   `gorm:"not null"`
	Files            int    `gorm:"not null"`
	Duplicates       int    `gorm:"not null"`
	Error            string
	StartedAt        time.Time     `gorm:"index;not null"`
	FinishedAt       time.Time     `gorm:"not null"`
	Entries          []EntryRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

func (RunRecord) TableName() string {
	return "runs"
}

// EntryRecord 运行中的单个文件计划，Seq 为遍历顺序
type EntryRecord struct {
	ID          int64  `gorm:"primaryKey"`
	RunID       string `gorm:"index;size:36;not null"`
	Seq         int    `gorm:"not null"`
	Source      string `gorm:"not null"`
	Destination string `gorm:"not null"`
	Category    string `gorm:"not null"`
	Theme       string
	Duplicate   bool `gorm:"not null"`
	DuplicateOf string
}

func (EntryRecord) TableName() string {
	return "run_entries"
}

// RunInfo 保存运行时附带的元信息
type RunInfo struct {
	Target           string
	Applied          bool
	RemoveDuplicates bool
	StartedAt        time.Time
	FinishedAt       time.Time
	Err              error
}

// Database 运行历史存储
type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	expandedPath, err := expandPath(dbPath)
	if err != nil {
		logger.Get().Error().Err(err).Msg("扩展数据库路径失败")
		return nil, err
	}

	logger.Get().Debug().Msgf("打开历史数据库，路径: %s", expandedPath)

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		logger.Get().Error().Err(err).Msgf("创建数据库目录失败: %s", filepath.Dir(expandedPath))
		return nil, err
	}

	dsn := expandedPath + "?_journal_mode=WAL&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Get().Error().Err(err).Msg("打开数据库连接失败")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Get().Error().Err(err).Msg("获取数据库连接失败")
		closePool(db.ConnPool)
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&RunRecord{}, &EntryRecord{}); err != nil {
		logger.Get().Error().Err(err).Msg("创建数据库表失败")
		sqlDB.Close()
		return nil, err
	}

	return &Database{db: db}, nil
}

// closePool 关闭无法转换为 *sql.DB 的连接池
func closePool(pool gorm.ConnPool) {
	closer, ok := pool.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Get().Warn().Err(err).Msg("关闭数据库连接失败")
	}
}

func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// SaveRun 在一个事务中保存运行信息和全部计划条目，返回运行 ID
func (d *Database) SaveRun(info RunInfo, report *plan.Report) (string, error) {
	run := &RunRecord{
		ID:               uuid.NewString(),
		Target:           info.Target,
		Applied:          info.Applied,
		RemoveDuplicates: info.RemoveDuplicates,
		StartedAt:        info.StartedAt,
		FinishedAt:       info.FinishedAt,
	}
	if info.Err != nil {
		run.Error = info.Err.Error()
	}

	var entries []EntryRecord
	if report != nil {
		run.Root = report.Root
		run.Files = len(report.Files)
		run.Duplicates = report.Duplicates()

		entries = make([]EntryRecord, 0, len(report.Files))
		for i, f := range report.Files {
			entries = append(entries, EntryRecord{
				RunID:       run.ID,
				Seq:         i,
				Source:      f.Source,
				Destination: f.Destination,
				Category:    f.Category,
				Theme:       f.Theme,
				Duplicate:   f.IsDuplicate,
				DuplicateOf: f.DuplicateOf,
			})
		}
	}

	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Entries").Create(run).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, entryBatchSize).Error
	})
	if err != nil {
		logger.Get().Error().Err(err).Str("target", info.Target).Msg("保存运行记录失败")
		return "", err
	}

	logger.Get().Debug().Str("run", run.ID).Int("files", run.Files).Msg("运行记录已保存")
	return run.ID, nil
}

// ListRuns 按开始时间倒序返回最近的运行记录，limit <= 0 时返回全部
func (d *Database) ListRuns(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	query := d.db.Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		logger.Get().Error().Err(err).Msg("查询运行记录失败")
		return nil, err
	}
	return runs, nil
}

// LoadReport 按原始顺序重建某次运行的计划
func (d *Database) LoadReport(runID string) (*plan.Report, error) {
	var run RunRecord
	err := d.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	}).First(&run, "id = ?", runID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	report := &plan.Report{Root: run.Root, Files: make([]plan.FilePlan, 0, len(run.Entries))}
	for _, e := range run.Entries {
		report.Files = append(report.Files, plan.FilePlan{
			Source:      e.Source,
			Destination: e.Destination,
			Category:    e.Category,
			Theme:       e.Theme,
			IsDuplicate: e.Duplicate,
			DuplicateOf: e.DuplicateOf,
		})
	}
	return report, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		logger.Get().Error().Err(err).Msg("获取数据库连接失败")
		return err
	}
	return sqlDB.Close()
}
