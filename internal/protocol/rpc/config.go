package rpc

import (
	"fmt"
	"time"

	"github.com/mothra-net/go-mothra/config"
)

// ============================================================================
//                              配置
// ============================================================================

// Config RPC 服务配置
type Config struct {
	// RequestTimeout 出站请求的完成期限，从创建时刻起算
	RequestTimeout time.Duration

	// InboundWindow 入站请求等待宿主应答的窗口，到期后丢弃
	InboundWindow time.Duration

	// IOTimeout 单个帧读写的期限
	IOTimeout time.Duration

	// CompressMinSize 启用 snappy 压缩的最小负载字节数
	CompressMinSize int

	// MaxPayloadSize 单个请求或响应负载的上限
	MaxPayloadSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout:  30 * time.Second,
		InboundWindow:   10 * time.Second,
		IOTimeout:       10 * time.Second,
		CompressMinSize: 1024,
		MaxPayloadSize:  512 * 1024,
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: RequestTimeout %v", ErrInvalidConfig, c.RequestTimeout)
	}
	if c.InboundWindow <= 0 {
		return fmt.Errorf("%w: InboundWindow %v", ErrInvalidConfig, c.InboundWindow)
	}
	if c.IOTimeout <= 0 {
		return fmt.Errorf("%w: IOTimeout %v", ErrInvalidConfig, c.IOTimeout)
	}
	if c.CompressMinSize < 0 {
		return fmt.Errorf("%w: CompressMinSize %v", ErrInvalidConfig, c.CompressMinSize)
	}
	if c.MaxPayloadSize <= 0 {
		return fmt.Errorf("%w: MaxPayloadSize %v", ErrInvalidConfig, c.MaxPayloadSize)
	}
	return nil
}

// ConfigFromUnified 从统一配置派生 RPC 服务配置
func ConfigFromUnified(u *config.Config) *Config {
	if u == nil {
		return DefaultConfig()
	}
	return &Config{
		RequestTimeout:  u.RPC.RequestTimeout.Duration(),
		InboundWindow:   u.RPC.InboundWindow.Duration(),
		IOTimeout:       u.RPC.IOTimeout.Duration(),
		CompressMinSize: u.RPC.CompressMinSize,
		MaxPayloadSize:  u.RPC.MaxPayloadSize,
	}
}
