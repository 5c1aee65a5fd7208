package config

import (
	"errors"
	"time"
)

// RPCConfig 请求应答配置
type RPCConfig struct {
	// RequestTimeout 出站请求的应答截止时长
	RequestTimeout Duration `json:"request_timeout"`

	// InboundWindow 入站请求等待宿主应答的窗口
	InboundWindow Duration `json:"inbound_window"`

	// IOTimeout 单帧读写的截止时长
	IOTimeout Duration `json:"io_timeout"`

	// CompressMinSize 负载达到该字节数即压缩，0 表示全部压缩
	CompressMinSize int `json:"compress_min_size"`

	// MaxPayloadSize 单条负载的大小上限
	MaxPayloadSize int `json:"max_payload_size"`
}

// DefaultRPCConfig 返回默认 RPC 配置
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		RequestTimeout:  Duration(30 * time.Second),
		InboundWindow:   Duration(10 * time.Second),
		IOTimeout:       Duration(10 * time.Second),
		CompressMinSize: 1024,
		MaxPayloadSize:  512 * 1024,
	}
}

// Validate 校验 RPC 配置
func (c RPCConfig) Validate() error {
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.InboundWindow <= 0 {
		return errors.New("inbound window must be positive")
	}
	if c.IOTimeout <= 0 {
		return errors.New("io timeout must be positive")
	}
	if c.CompressMinSize < 0 {
		return errors.New("compress min size must not be negative")
	}
	if c.MaxPayloadSize <= 0 {
		return errors.New("max payload size must be positive")
	}
	return nil
}
