package swarm

import (
	"time"

	"github.com/mothra-net/go-mothra/config"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
)

// Config Swarm 配置
type Config struct {
	// DialTimeout 拨号超时（远程网络）
	DialTimeout time.Duration

	// DialTimeoutLocal 本地网络拨号超时
	DialTimeoutLocal time.Duration

	// UpgradeTimeout 入站连接完成升级管线的时限
	UpgradeTimeout time.Duration

	// NegotiateTimeout 单条流的协议协商时限
	NegotiateTimeout time.Duration

	// MaxSessions 会话数上限
	MaxSessions int

	// BackoffBase 拨号退避基准时长
	//
	// 第 n 次连续失败后的退避为 BackoffBase * 2^(n-1)，封顶 BackoffMax。
	BackoffBase time.Duration

	// BackoffMax 拨号退避上限
	BackoffMax time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		DialTimeout:      15 * time.Second,
		DialTimeoutLocal: 5 * time.Second,
		UpgradeTimeout:   30 * time.Second,
		NegotiateTimeout: 10 * time.Second,
		MaxSessions:      256,
		BackoffBase:      5 * time.Second,
		BackoffMax:       5 * time.Minute,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.DialTimeout <= 0 || c.DialTimeoutLocal <= 0 {
		return ErrInvalidConfig
	}
	if c.UpgradeTimeout <= 0 || c.NegotiateTimeout <= 0 {
		return ErrInvalidConfig
	}
	if c.MaxSessions <= 0 {
		return ErrInvalidConfig
	}
	if c.BackoffBase <= 0 || c.BackoffMax < c.BackoffBase {
		return ErrInvalidConfig
	}
	return nil
}

// ConfigFromUnified 从统一配置派生会话层配置
func ConfigFromUnified(u *config.Config) *Config {
	if u == nil {
		return DefaultConfig()
	}
	return &Config{
		DialTimeout:      u.Swarm.DialTimeout.Duration(),
		DialTimeoutLocal: u.Swarm.DialTimeoutLocal.Duration(),
		UpgradeTimeout:   u.Swarm.UpgradeTimeout.Duration(),
		NegotiateTimeout: u.Swarm.NegotiateTimeout.Duration(),
		MaxSessions:      u.Swarm.MaxSessions,
		BackoffBase:      u.Swarm.BackoffBase.Duration(),
		BackoffMax:       u.Swarm.BackoffMax.Duration(),
	}
}

// Option Swarm 选项函数
type Option func(*Swarm) error

// WithConfig 设置配置
func WithConfig(config *Config) Option {
	return func(s *Swarm) error {
		if config == nil {
			return ErrInvalidConfig
		}
		if err := config.Validate(); err != nil {
			return err
		}
		s.config = config
		return nil
	}
}

// WithTransport 注册传输层
//
// 同协议名的传输层后注册者覆盖先注册者。
func WithTransport(t pkgif.Transport) Option {
	return func(s *Swarm) error {
		if t == nil {
			return ErrNoTransport
		}
		s.transports[t.Proto()] = t
		return nil
	}
}

// WithPeerstore 设置节点信息表
//
// 拨号地址从这里查询，会话状态迁移写回这里。
func WithPeerstore(ps pkgif.Peerstore) Option {
	return func(s *Swarm) error {
		s.peerstore = ps
		return nil
	}
}

// WithEventBus 设置事件总线
//
// 设置后会话建立/断开会发布 EvtPeerConnected/EvtPeerDisconnected。
func WithEventBus(bus pkgif.EventBus) Option {
	return func(s *Swarm) error {
		s.eventbus = bus
		return nil
	}
}
