package pubsub

import (
	"fmt"
	"time"

	"github.com/mothra-net/go-mothra/config"
)

// ============================================================================
//                              配置
// ============================================================================

// Config 八卦路由配置
type Config struct {
	// SeenCacheSize 最近已见消息缓存容量（LRU 淘汰）
	SeenCacheSize int

	// PeerQueueSize 单节点出站队列容量，溢出时丢弃最旧帧
	PeerQueueSize int

	// MaxMessageSize 单条消息负载的大小上限
	//
	// 必须给帧头和主题留出余量，整帧不能超过线协议的帧上限。
	MaxMessageSize int

	// WriteTimeout 单帧写入的截止时长
	WriteTimeout time.Duration

	// LinkTimeout 出站八卦流打开的超时
	LinkTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		SeenCacheSize:  100000,
		PeerQueueSize:  64,
		MaxMessageSize: 512 * 1024,
		WriteTimeout:   10 * time.Second,
		LinkTimeout:    10 * time.Second,
	}
}

// Validate 检查配置合法性
func (c *Config) Validate() error {
	if c.SeenCacheSize <= 0 {
		return fmt.Errorf("%w: SeenCacheSize %d", ErrInvalidConfig, c.SeenCacheSize)
	}
	if c.PeerQueueSize <= 0 {
		return fmt.Errorf("%w: PeerQueueSize %d", ErrInvalidConfig, c.PeerQueueSize)
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("%w: MaxMessageSize %d", ErrInvalidConfig, c.MaxMessageSize)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("%w: WriteTimeout %v", ErrInvalidConfig, c.WriteTimeout)
	}
	if c.LinkTimeout <= 0 {
		return fmt.Errorf("%w: LinkTimeout %v", ErrInvalidConfig, c.LinkTimeout)
	}
	return nil
}

// ConfigFromUnified 从统一配置派生八卦路由配置
//
// 初始订阅主题不在此处处理，由上层在服务启动后逐个订阅。
func ConfigFromUnified(u *config.Config) *Config {
	if u == nil {
		return DefaultConfig()
	}
	return &Config{
		SeenCacheSize:  u.Gossip.SeenCacheSize,
		PeerQueueSize:  u.Gossip.PeerQueueSize,
		MaxMessageSize: u.Gossip.MaxMessageSize,
		WriteTimeout:   u.Gossip.WriteTimeout.Duration(),
		LinkTimeout:    u.Gossip.LinkTimeout.Duration(),
	}
}
