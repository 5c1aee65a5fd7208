// Package websocket 实现 WebSocket 传输层
package websocket

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ProtoName 传输协议名
const ProtoName = "ws"

const (
	defaultDialTimeout = 10 * time.Second
	defaultKeepAlive   = 30 * time.Second

	// 读写缓冲大小
	bufferSize = 32 * 1024
)

// ============================================================================
//                              Transport 实现
// ============================================================================

// Transport WebSocket 传输层实现
type Transport struct {
	dialTimeout time.Duration

	listeners   map[string]*Listener
	listenersMu sync.Mutex

	closed atomic.Bool
}

// 确保实现 interfaces.Transport 接口
var _ interfaces.Transport = (*Transport)(nil)

// Option 传输配置选项
type Option func(*Transport)

// WithDialTimeout 设置拨号及握手超时
func WithDialTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.dialTimeout = d
		}
	}
}

// New 创建 WebSocket 传输层
func New(opts ...Option) *Transport {
	t := &Transport{
		dialTimeout: defaultDialTimeout,
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

	u := url.URL{Scheme: "ws", Host: raddr.HostPort(), Path: "/"}
	dialer := websocket.Dialer{
		HandshakeTimeout: t.dialTimeout,
		ReadBufferSize:   bufferSize,
		WriteBufferSize:  bufferSize,
		NetDialContext: (&net.Dialer{
			Timeout:   t.dialTimeout,
			KeepAlive: defaultKeepAlive,
		}).DialContext,
	}

	wsc, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("WebSocket 拨号 %s 失败: %w", u.String(), err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	return newConn(wsc, raddr), nil
}

// CanDial 检查是否可以拨号到指定地址
func (t *Transport) CanDial(addr types.Addr) bool {
	if t.closed.Load() {
		return false
	}
	return !addr.IsEmpty() && addr.WS
}

// Listen 监听入站连接
func (t *Transport) Listen(laddr types.Addr) (interfaces.Listener, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}
	if !laddr.WS || laddr.IsDNS() {
		return nil, fmt.Errorf("%w: 监听地址 %s", ErrUnsupportedAddr, laddr)
	}

	ln, err := net.Listen(laddr.Network(), laddr.HostPort())
	if err != nil {
		return nil, fmt.Errorf("WebSocket 监听 %s 失败: %w", laddr.HostPort(), err)
	}

	actual, err := types.AddrFromNetAddr(ln.Addr(), true)
	if err != nil {
		_ = ln.Close()
		return nil, fmt.Errorf("获取监听地址失败: %w", err)
	}

	l := newListener(t, ln, actual)

	t.listenersMu.Lock()
	t.listeners[actual.String()] = l
	t.listenersMu.Unlock()

	l.serve()
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
