package organizer

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/content-organizer/pkg/classifier"
	"github.com/moyu-x/content-organizer/pkg/deduplicator"
	"github.com/moyu-x/content-organizer/pkg/hasher"
	"github.com/moyu-x/content-organizer/pkg/logger"
	"github.com/moyu-x/content-organizer/pkg/plan"
	"github.com/moyu-x/content-organizer/pkg/planner"
	"github.com/moyu-x/content-organizer/pkg/profiler"
	"github.com/moyu-x/content-organizer/pkg/scanner"
)

// DefaultRootName 输出目录默认名称，位于目标目录之下
const DefaultRootName = "Organized"

var (
	// CriticalTargets 禁止整理的系统目录，除根目录外其子目录同样禁止
	CriticalTargets = []string{"/", "/System", "/Applications", "/Library", "/bin", "/usr", "/sbin", "/etc", "/var"}

	// ProtectedDirNames 遍历时不进入的目录名
	ProtectedDirNames = []string{"Applications", "Library", "System", "bin", "sbin", "usr", "etc", "var", "opt", "Volumes"}

	// HomeProtectedDirNames 目标为用户主目录时额外保护的目录名
	HomeProtectedDirNames = []string{"Applications", "Library", ".ssh", ".config"}
)

// Options 一次运行的参数
type Options struct {
	Target string
	// Apply 为 true 且未设置 DryRun 时才会移动文件
	Apply            bool
	DryRun           bool
	RemoveDuplicates bool
	RootName         string
	IncludeHidden    bool
	// Protected 额外的受保护目录名
	Protected []string
	// Exclude 相对目标目录的 doublestar 排除模式
	Exclude   []string
	Workers   int
	Algorithm hasher.Algorithm
	ExifDates bool
}

type Option func(*Organizer)

func WithFs(fs afero.Fs) Option {
	return func(o *Organizer) {
		o.fs = fs
	}
}

func WithSink(sink Sink) Option {
	return func(o *Organizer) {
		if sink != nil {
			o.sink = sink
		}
	}
}

func WithMimeGuesser(guesser classifier.MimeGuesser) Option {
	return func(o *Organizer) {
		o.guesser = guesser
	}
}

// WithHomeDir 覆盖用户主目录，用于 ~ 展开和主目录保护
func WithHomeDir(dir string) Option {
	return func(o *Organizer) {
		o.homeDir = dir
	}
}

func WithCriticalTargets(paths []string) Option {
	return func(o *Organizer) {
		o.criticalTargets = paths
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Organizer) {
		o.now = now
	}
}

// Organizer 校验目标、生成整理计划并按需执行
type Organizer struct {
	opts            Options
	fs              afero.Fs
	sink            Sink
	guesser         classifier.MimeGuesser
	homeDir         string
	criticalTargets []string
	now             func() time.Time
}

func New(opts Options, options ...Option) *Organizer {
	if opts.RootName == "" {
		opts.RootName = DefaultRootName
	}
	if opts.Algorithm == "" {
		opts.Algorithm = hasher.SHA256
	}

	o := &Organizer{
		opts:            opts,
		fs:              afero.NewOsFs(),
		sink:            discardSink{},
		criticalTargets: CriticalTargets,
		now:             time.Now,
	}
	for _, option := range options {
		option(o)
	}

	if o.guesser == nil {
		o.guesser = classifier.DefaultGuesser(o.fs)
	}
	if o.homeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			o.homeDir = home
		}
	}
	return o
}

// Run 校验目标并生成计划，需要时执行移动。校验失败返回 *ConfigError 且不做任何修改
func (o *Organizer) Run() (*plan.Report, error) {
	target, err := o.Validate()
	if err != nil {
		return nil, err
	}

	o.sink.ScanStarted(target)
	report := o.buildPlan(target)
	o.sink.Summary(report.Summary())

	if o.opts.Apply && !o.opts.DryRun {
		if err := o.apply(report); err != nil {
			return report, err
		}
	} else {
		o.sink.DryRun()
	}
	return report, nil
}

// Plan 只生成计划，不发送事件也不移动文件
func (o *Organizer) Plan() (*plan.Report, error) {
	target, err := o.Validate()
	if err != nil {
		return nil, err
	}
	return o.buildPlan(target), nil
}

// Validate 返回解析后的目标绝对路径
func (o *Organizer) Validate() (string, error) {
	abs, err := o.absTarget()
	if err != nil {
		return "", err
	}
	// 解析符号链接前后都要检查，/etc 这类路径可能本身就是链接
	if o.isCritical(abs) {
		return "", &ConfigError{Target: abs, Err: ErrCriticalTarget}
	}

	target, err := o.resolveSymlinks(abs)
	if err != nil {
		return "", err
	}

	info, err := o.fs.Stat(target)
	if err != nil || !info.IsDir() {
		return "", &ConfigError{Target: target, Err: ErrTargetMissing}
	}
	if o.isCritical(target) {
		return "", &ConfigError{Target: target, Err: ErrCriticalTarget}
	}
	return target, nil
}

func (o *Organizer) absTarget() (string, error) {
	target := o.expandHome(o.opts.Target)

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", &ConfigError{Target: target, Err: ErrTargetMissing}
	}
	return abs, nil
}

// resolveSymlinks 只有真实文件系统才解析符号链接
func (o *Organizer) resolveSymlinks(path string) (string, error) {
	if !o.onDisk() {
		return path, nil
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", &ConfigError{Target: path, Err: ErrTargetMissing}
	}
	return resolved, nil
}

func (o *Organizer) onDisk() bool {
	_, ok := o.fs.(*afero.OsFs)
	return ok
}

func (o *Organizer) expandHome(path string) string {
	if o.homeDir == "" {
		return path
	}
	if path == "~" {
		return o.homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(o.homeDir, path[2:])
	}
	return path
}

func (o *Organizer) isCritical(target string) bool {
	for _, critical := range o.criticalTargets {
		critical = filepath.Clean(critical)
		if underCritical(critical, target) {
			return true
		}
		if !o.onDisk() {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(critical); err == nil && resolved != critical {
			if underCritical(resolved, target) {
				return true
			}
		}
	}
	return false
}

// underCritical 根目录只禁止自身，其余关键目录连同子目录一起禁止
func underCritical(critical, target string) bool {
	if target == critical {
		return true
	}
	if critical == string(filepath.Separator) {
		return false
	}
	return scanner.IsWithin(critical, target)
}

func (o *Organizer) isHome(target string) bool {
	return o.homeDir != "" && filepath.Clean(o.homeDir) == target
}

// protectedNames 返回本次遍历要跳过的目录名
func (o *Organizer) protectedNames(target string) map[string]bool {
	names := make(map[string]bool)
	for _, name := range ProtectedDirNames {
		names[name] = true
	}
	for _, name := range o.opts.Protected {
		names[name] = true
	}
	if o.isHome(target) {
		for _, name := range HomeProtectedDirNames {
			names[name] = true
		}
	}
	return names
}

func (o *Organizer) mode() deduplicator.Mode {
	if o.opts.RemoveDuplicates {
		return deduplicator.ModeRelocate
	}
	return deduplicator.ModeSkip
}

// buildPlan 单次遍历生成计划，整个过程共用一个去重索引
func (o *Organizer) buildPlan(target string) *plan.Report {
	outputRoot := filepath.Join(target, o.opts.RootName)

	walker := scanner.NewFileWalker(o.fs)
	walker.Protected = o.protectedNames(target)
	walker.SkipHidden = !o.opts.IncludeHidden
	walker.Exclude = outputRoot
	walker.Patterns = o.opts.Exclude

	h := hasher.New(o.fs, o.opts.Algorithm)
	cls := classifier.NewClassifier(o.guesser)
	prof := profiler.New(o.fs)
	dest := planner.New(o.fs, outputRoot)
	dest.ExifDates = o.opts.ExifDates
	dest.Now = o.now
	index := deduplicator.NewIndex(o.fs, o.mode(), filepath.Join(outputRoot, classifier.CategoryDuplicates))

	files := walker.Files(target)
	var digests map[string]string
	if o.opts.Workers > 1 {
		paths := slices.Collect(files)
		var err error
		digests, err = h.DigestAll(paths, o.opts.Workers)
		if err != nil {
			logger.Get().Warn().Err(err).Msg("并发计算哈希失败，改为顺序计算")
		}
		files = slices.Values(paths)
	}

	report := &plan.Report{Root: outputRoot}
	for path := range files {
		mime := cls.Guess(path)
		category, theme := cls.Resolve(path, prof.Build(path, mime))
		destination := dest.Destination(path, category)

		digest, ok := digests[path]
		if !ok {
			digest = h.Digest(path)
		}
		decision := index.Resolve(digest, path, destination, category)

		report.Files = append(report.Files, plan.FilePlan{
			Source:      path,
			Destination: decision.Destination,
			Category:    decision.Category,
			Theme:       theme,
			IsDuplicate: decision.Duplicate,
			DuplicateOf: decision.DuplicateOf,
		})
	}

	o.warnCollisions(report)

	logger.Get().Info().
		Str("target", target).
		Int("files", len(report.Files)).
		Int("duplicates", report.Duplicates()).
		Int("unique", index.Len()).
		Str("algorithm", string(h.Algorithm())).
		Msg("计划生成完成")
	return report
}

func (o *Organizer) warnCollisions(report *plan.Report) {
	collisions := report.Collisions()
	destinations := make([]string, 0, len(collisions))
	for destination := range collisions {
		destinations = append(destinations, destination)
	}
	sort.Strings(destinations)

	for _, destination := range destinations {
		logger.Get().Warn().
			Str("destination", destination).
			Strs("sources", collisions[destination]).
			Msg("多个文件计划移动到同一路径，执行时后者会失败")
	}
}
