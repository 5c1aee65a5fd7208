package bridge

import (
	"errors"
	"fmt"

	"github.com/mothra-net/go-mothra/config"
)

var (
	// ErrBridgeClosed 桥已关闭
	ErrBridgeClosed = errors.New("bridge: closed")

	// ErrNotStarted 桥尚未启动
	ErrNotStarted = errors.New("bridge: not started")

	// ErrAlreadyStarted 桥已经启动
	ErrAlreadyStarted = errors.New("bridge: already started")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("bridge: invalid config")
)

// ============================================================================
//                              配置
// ============================================================================

// Config 事件桥配置
type Config struct {
	// CommandQueueSize 入站命令队列容量，满时 Submit 立即失败
	CommandQueueSize int

	// NotifyQueueSize 出站通知队列容量，满时丢弃最旧通知
	NotifyQueueSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		CommandQueueSize: 128,
		NotifyQueueSize:  1024,
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.CommandQueueSize <= 0 {
		return fmt.Errorf("%w: CommandQueueSize %v", ErrInvalidConfig, c.CommandQueueSize)
	}
	if c.NotifyQueueSize <= 0 {
		return fmt.Errorf("%w: NotifyQueueSize %v", ErrInvalidConfig, c.NotifyQueueSize)
	}
	return nil
}

// ConfigFromUnified 从统一配置派生事件桥配置
func ConfigFromUnified(u *config.Config) *Config {
	if u == nil {
		return DefaultConfig()
	}
	return &Config{
		CommandQueueSize: u.Bridge.CommandQueueSize,
		NotifyQueueSize:  u.Bridge.NotifyQueueSize,
	}
}
