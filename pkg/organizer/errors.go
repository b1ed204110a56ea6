package organizer

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetMissing 目标不存在或不是目录
	ErrTargetMissing = errors.New("目标不存在或不是目录")
	// ErrCriticalTarget 目标是受保护的系统目录
	ErrCriticalTarget = errors.New("拒绝整理系统关键目录")
	// ErrDestinationExists 目标路径已被占用，不会覆盖
	ErrDestinationExists = errors.New("目标文件已存在")
)

// ConfigError 运行前的校验错误，返回时文件系统未做任何修改
type ConfigError struct {
	Target string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Target)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
