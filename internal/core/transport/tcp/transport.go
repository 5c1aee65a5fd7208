// Package tcp 实现 TCP 传输层
package tcp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ProtoName 传输协议名
const ProtoName = "tcp"

const (
	defaultDialTimeout = 10 * time.Second
	defaultKeepAlive   = 30 * time.Second
)

// ============================================================================
//                              Transport 实现
// ============================================================================

// Transport TCP 传输层实现
type Transport struct {
	dialTimeout time.Duration
	keepAlive   time.Duration

	listeners   map[string]*Listener
	listenersMu sync.Mutex

	closed atomic.Bool
}

// 确保实现 interfaces.Transport 接口
var _ interfaces.Transport = (*Transport)(nil)

// Option 传输配置选项
type Option func(*Transport)

// WithDialTimeout 设置单次拨号超时
func WithDialTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.dialTimeout = d
		}
	}
}

// WithKeepAlive 设置 TCP keepalive 周期
func WithKeepAlive(d time.Duration) Option {
	return func(t *Transport) {
		t.keepAlive = d
	}
}

// New 创建 TCP 传输层
func New(opts ...Option) *Transport {
	t := &Transport{
		dialTimeout: defaultDialTimeout,
		keepAlive:   defaultKeepAlive,
		listeners:   make(map[string]*Listener),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ============================================================================
//                              Transport 接口实现
// ============================================================================

// Dial 建立出站连接
func (t *Transport) Dial(ctx context.Context, raddr types.Addr) (interfaces.Conn, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}
	if !t.CanDial(raddr) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAddr, raddr)
	}

	dialer := &net.Dialer{
		Timeout:   t.dialTimeout,
		KeepAlive: t.keepAlive,
	}

	conn, err := dialer.DialContext(ctx, raddr.Network(), raddr.HostPort())
	if err != nil {
		return nil, fmt.Errorf("TCP 拨号 %s 失败: %w", raddr.HostPort(), err)
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		_ = conn.Close()
		return nil, fmt.Errorf("非 TCP 连接: %T", conn)
	}
	tuneConn(tcpConn, t.keepAlive)

	return newConn(tcpConn, raddr), nil
}

// CanDial 检查是否可以拨号到指定地址
func (t *Transport) CanDial(addr types.Addr) bool {
	if t.closed.Load() {
		return false
	}
	// WebSocket 地址由 websocket 传输处理
	return !addr.IsEmpty() && !addr.WS
}

// Listen 监听入站连接
func (t *Transport) Listen(laddr types.Addr) (interfaces.Listener, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}
	if laddr.WS || laddr.IsDNS() {
		return nil, fmt.Errorf("%w: 监听地址 %s", ErrUnsupportedAddr, laddr)
	}

	ln, err := net.Listen(laddr.Network(), laddr.HostPort())
	if err != nil {
		return nil, fmt.Errorf("TCP 监听 %s 失败: %w", laddr.HostPort(), err)
	}

	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		_ = ln.Close()
		return nil, fmt.Errorf("非 TCP 监听器: %T", ln)
	}

	// 端口 0 时回读实际监听地址
	actual, err := types.AddrFromNetAddr(tcpLn.Addr(), false)
	if err != nil {
		_ = tcpLn.Close()
		return nil, fmt.Errorf("获取监听地址失败: %w", err)
	}

	l := &Listener{
		transport: t,
		listener:  tcpLn,
		addr:      actual,
		keepAlive: t.keepAlive,
	}

	t.listenersMu.Lock()
	t.listeners[actual.String()] = l
	t.listenersMu.Unlock()

	return l, nil
}

// Proto 返回传输协议名
func (t *Transport) Proto() string {
	return ProtoName
}

// Close 关闭传输层及其所有监听器
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	t.listenersMu.Lock()
	listeners := make([]*Listener, 0, len(t.listeners))
	for _, l := range t.listeners {
		listeners = append(listeners, l)
	}
	t.listeners = make(map[string]*Listener)
	t.listenersMu.Unlock()

	var lastErr error
	for _, l := range listeners {
		if err := l.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// ============================================================================
//                              辅助方法
// ============================================================================

// removeListener 移除监听器记录
func (t *Transport) removeListener(addr string) {
	t.listenersMu.Lock()
	delete(t.listeners, addr)
	t.listenersMu.Unlock()
}

// ListenerCount 返回监听器数量
func (t *Transport) ListenerCount() int {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()
	return len(t.listeners)
}

// IsClosed 检查是否已关闭
func (t *Transport) IsClosed() bool {
	return t.closed.Load()
}

// tuneConn 设置 TCP 连接选项
func tuneConn(conn *net.TCPConn, keepAlive time.Duration) {
	_ = conn.SetNoDelay(true)
	if keepAlive > 0 {
		_ = conn.SetKeepAlive(true)
		_ = conn.SetKeepAlivePeriod(keepAlive)
	}
}
