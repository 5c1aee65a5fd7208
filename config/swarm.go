package config

import (
	"errors"
	"time"
)

// SwarmConfig 会话层配置
type SwarmConfig struct {
	// DialTimeout 拨号超时（远程网络）
	DialTimeout Duration `json:"dial_timeout"`

	// DialTimeoutLocal 本地网络拨号超时
	DialTimeoutLocal Duration `json:"dial_timeout_local"`

	// UpgradeTimeout 入站连接完成升级管线的时限
	UpgradeTimeout Duration `json:"upgrade_timeout"`

	// NegotiateTimeout 单条流的协议协商时限
	NegotiateTimeout Duration `json:"negotiate_timeout"`

	// MaxSessions 会话数上限，超出按 LRU 淘汰空闲会话
	MaxSessions int `json:"max_sessions"`

	// BackoffBase 拨号退避基准时长
	BackoffBase Duration `json:"backoff_base"`

	// BackoffMax 拨号退避上限
	BackoffMax Duration `json:"backoff_max"`
}

// DefaultSwarmConfig 返回默认会话层配置
func DefaultSwarmConfig() SwarmConfig {
	return SwarmConfig{
		DialTimeout:      Duration(15 * time.Second),
		DialTimeoutLocal: Duration(5 * time.Second),
		UpgradeTimeout:   Duration(30 * time.Second),
		NegotiateTimeout: Duration(10 * time.Second),
		MaxSessions:      256,
		BackoffBase:      Duration(5 * time.Second),
		BackoffMax:       Duration(5 * time.Minute),
	}
}

// Validate 校验会话层配置
func (c SwarmConfig) Validate() error {
	if c.DialTimeout <= 0 || c.DialTimeoutLocal <= 0 {
		return errors.New("dial timeouts must be positive")
	}
	if c.UpgradeTimeout <= 0 || c.NegotiateTimeout <= 0 {
		return errors.New("upgrade and negotiate timeouts must be positive")
	}
	if c.MaxSessions <= 0 {
		return errors.New("max sessions must be positive")
	}
	if c.BackoffBase <= 0 {
		return errors.New("backoff base must be positive")
	}
	if c.BackoffMax < c.BackoffBase {
		return errors.New("backoff max must be >= backoff base")
	}
	return nil
}
