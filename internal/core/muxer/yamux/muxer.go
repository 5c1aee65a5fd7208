// Package yamux 实现基于 hashicorp/yamux 的流多路复用
package yamux

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/hashicorp/yamux"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
)

// ProtocolID 多路复用协议标识
const ProtocolID = "/mothra/yamux/1.0.0"

// ============================================================================
//                              Muxer 实现
// ============================================================================

// Muxer yamux 多路复用器工厂
type Muxer struct {
	config *yamux.Config
}

// 确保实现 interfaces.Muxer 接口
var _ interfaces.Muxer = (*Muxer)(nil)

// Option 复用器配置选项
type Option func(*yamux.Config)

// WithKeepAliveInterval 设置会话保活间隔
func WithKeepAliveInterval(d time.Duration) Option {
	return func(cfg *yamux.Config) {
		if d > 0 {
			cfg.KeepAliveInterval = d
		} else {
			cfg.EnableKeepAlive = false
		}
	}
}

// WithMaxStreamWindow 设置流窗口大小
func WithMaxStreamWindow(size uint32) Option {
	return func(cfg *yamux.Config) {
		if size >= 256*1024 {
			cfg.MaxStreamWindowSize = size
		}
	}
}

// New 创建 yamux 多路复用器
func New(opts ...Option) *Muxer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Muxer{config: cfg}
}

// defaultConfig 默认 yamux 配置
func defaultConfig() *yamux.Config {
	return &yamux.Config{
		AcceptBacklog:          256,
		EnableKeepAlive:        true,
		KeepAliveInterval:      30 * time.Second,
		ConnectionWriteTimeout: 10 * time.Second,
		MaxStreamWindowSize:    256 * 1024,
		StreamOpenTimeout:      75 * time.Second,
		StreamCloseTimeout:     5 * time.Minute,
		LogOutput:              io.Discard,
	}
}

// NewConn 把连接升级为多路复用会话
//
// isServer 为 true 时作为响应方（接受方向的连接）。
func (m *Muxer) NewConn(conn net.Conn, isServer bool) (interfaces.MuxedConn, error) {
	var session *yamux.Session
	var err error
	if isServer {
		session, err = yamux.Server(conn, m.config)
	} else {
		session, err = yamux.Client(conn, m.config)
	}
	if err != nil {
		return nil, fmt.Errorf("创建 yamux 会话失败: %w", err)
	}
	return newMuxedConn(session), nil
}

// Protocol 返回多路复用协议标识
func (m *Muxer) Protocol() string {
	return ProtocolID
}
