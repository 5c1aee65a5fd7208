package config

import (
	"errors"
	"fmt"
	"time"
)

// GossipConfig 八卦路由配置
type GossipConfig struct {
	// Topics 启动时订阅的主题列表
	Topics []string `json:"topics,omitempty"`

	// SeenCacheSize 最近已见消息缓存容量（LRU 淘汰）
	SeenCacheSize int `json:"seen_cache_size"`

	// PeerQueueSize 单节点出站队列容量，溢出时丢弃最旧帧
	PeerQueueSize int `json:"peer_queue_size"`

	// MaxMessageSize 单条消息负载的大小上限
	MaxMessageSize int `json:"max_message_size"`

	// WriteTimeout 单帧写入的截止时长
	WriteTimeout Duration `json:"write_timeout"`

	// LinkTimeout 出站八卦流打开的超时
	LinkTimeout Duration `json:"link_timeout"`

	// FlushGrace 关停时排空出站队列的宽限时长
	FlushGrace Duration `json:"flush_grace"`
}

// DefaultGossipConfig 返回默认八卦配置
func DefaultGossipConfig() GossipConfig {
	return GossipConfig{
		SeenCacheSize:  100000,
		PeerQueueSize:  64,
		MaxMessageSize: 512 * 1024,
		WriteTimeout:   Duration(10 * time.Second),
		LinkTimeout:    Duration(10 * time.Second),
		FlushGrace:     Duration(2 * time.Second),
	}
}

// Validate 校验八卦配置
func (c GossipConfig) Validate() error {
	if c.SeenCacheSize <= 0 {
		return errors.New("seen cache size must be positive")
	}
	if c.PeerQueueSize <= 0 {
		return errors.New("peer queue size must be positive")
	}
	if c.MaxMessageSize <= 0 {
		return errors.New("max message size must be positive")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be positive")
	}
	if c.LinkTimeout <= 0 {
		return errors.New("link timeout must be positive")
	}
	if c.FlushGrace < 0 {
		return errors.New("flush grace must not be negative")
	}
	for i, topic := range c.Topics {
		if topic == "" {
			return fmt.Errorf("topics[%d] must not be empty", i)
		}
	}
	return nil
}

// WithTopics 设置启动订阅的主题
func (c GossipConfig) WithTopics(topics []string) GossipConfig {
	c.Topics = topics
	return c
}
