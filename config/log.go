package config

import (
	"fmt"
	"strings"
)

// LogConfig 日志配置
//
// 日志级别是进程级开关，同进程内的多个节点共享。
type LogConfig struct {
	// Level 日志级别
	// 可选值: "debug", "info"（默认）, "warn", "error"
	Level string `json:"level"`

	// File 日志输出文件路径，空则输出到 stderr
	File string `json:"file,omitempty"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level: "info",
	}
}

// Validate 校验日志配置
func (c LogConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
}
