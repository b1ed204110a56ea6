package internal

const (
	// 运行历史数据库默认路径，history 命令未配置路径时使用
	DefaultHistoryPath = "~/.content-organizer/history.db"

	// 配置文件目录
	DefaultConfigDir = "$HOME/.content-organizer"
	SystemConfigDir  = "/etc/content-organizer"

	// 环境变量前缀
	EnvPrefix = "ORGANIZER"

	DefaultWorkers  = 1
	MaxWorkers      = 256
	DefaultLogLevel = "info"
)
