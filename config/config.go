package config

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/moyu-x/content-organizer/internal"
	"github.com/moyu-x/content-organizer/pkg/hasher"
	"github.com/moyu-x/content-organizer/pkg/organizer"
)

type Config struct {
	Output      OutputConfig
	Scanner     ScannerConfig
	Hashing     HashingConfig
	Performance PerformanceConfig
	Planner     PlannerConfig
	History     HistoryConfig
	Logging     LoggingConfig
}

type OutputConfig struct {
	RootName         string `mapstructure:"root_name"`
	RemoveDuplicates bool   `mapstructure:"remove_duplicates"`
}

var plainName = regexp.MustCompile(`^[^/\\]+$`)

// Validate 输出目录名必须是单级目录名
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.RootName,
			validation.Required,
			validation.Match(plainName).Error("must be a single directory name"),
			validation.NotIn(".", ".."),
		),
	)
}

type ScannerConfig struct {
	SkipHidden bool `mapstructure:"skip_hidden"`
	Protected  []string
	Exclude    []string
}

func (c *ScannerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Protected, validation.Each(validation.Required, validation.Match(plainName))),
		validation.Field(&c.Exclude, validation.Each(validation.Required)),
	)
}

type HashingConfig struct {
	Algorithm string
}

func (c *HashingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Algorithm, validation.Required, validation.In(string(hasher.SHA256), string(hasher.XXHash))),
	)
}

type PerformanceConfig struct {
	Workers int
}

func (c *PerformanceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Workers, validation.Min(0), validation.Max(internal.MaxWorkers)),
	)
}

type PlannerConfig struct {
	ExifDates bool `mapstructure:"exif_dates"`
}

// HistoryConfig Path 为空时不记录运行历史
type HistoryConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
	File  string
}

func (c *LoggingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In("trace", "debug", "info", "warn", "error")),
	)
}

// Validate 校验所有配置项
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Hashing.Algorithm = strings.ToLower(c.Hashing.Algorithm)

	return validation.Errors{
		"output":      c.Output.Validate(),
		"scanner":     c.Scanner.Validate(),
		"hashing":     c.Hashing.Validate(),
		"performance": c.Performance.Validate(),
		"logging":     c.Logging.Validate(),
	}.Filter()
}

var cfg Config

// SetDefaults 为所有配置项设置默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.root_name", organizer.DefaultRootName)
	v.SetDefault("output.remove_duplicates", false)
	v.SetDefault("scanner.skip_hidden", true)
	v.SetDefault("scanner.protected", []string{})
	v.SetDefault("scanner.exclude", []string{})
	v.SetDefault("hashing.algorithm", string(hasher.SHA256))
	v.SetDefault("performance.workers", internal.DefaultWorkers)
	v.SetDefault("planner.exif_dates", false)
	v.SetDefault("history.path", "")
	v.SetDefault("logging.level", internal.DefaultLogLevel)
	v.SetDefault("logging.file", "")
}

// Load 使用全局 viper 读取配置，命令行参数在调用前已绑定到全局实例
func Load(configFile string) (*Config, error) {
	c, err := LoadWith(viper.GetViper(), configFile)
	if err != nil {
		return nil, err
	}
	cfg = *c
	return &cfg, nil
}

// LoadWith 从指定 viper 实例读取配置。configFile 为空时按默认路径查找，找不到配置文件不算错误
func LoadWith(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(internal.DefaultConfigDir)
		v.AddConfigPath(".")
		v.AddConfigPath(internal.SystemConfigDir)
	}

	v.SetEnvPrefix(internal.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func Get() *Config {
	return &cfg
}
