package config

import (
	"errors"
)

// BridgeConfig 事件桥配置
type BridgeConfig struct {
	// CommandQueueSize 入站命令队列容量，满时 Submit 立即失败
	CommandQueueSize int `json:"command_queue_size"`

	// NotifyQueueSize 出站通知队列容量，满时丢弃最旧通知
	NotifyQueueSize int `json:"notify_queue_size"`
}

// DefaultBridgeConfig 返回默认事件桥配置
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		CommandQueueSize: 128,
		NotifyQueueSize:  1024,
	}
}

// Validate 校验事件桥配置
func (c BridgeConfig) Validate() error {
	if c.CommandQueueSize <= 0 {
		return errors.New("command queue size must be positive")
	}
	if c.NotifyQueueSize <= 0 {
		return errors.New("notify queue size must be positive")
	}
	return nil
}
