// Package tcp 实现 TCP 传输层
package tcp

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              Listener 实现
// ============================================================================

// Listener TCP 监听器
type Listener struct {
	transport *Transport
	listener  *net.TCPListener
	addr      types.Addr
	keepAlive time.Duration
	closed    atomic.Bool
}

// 确保实现 interfaces.Listener 接口
var _ interfaces.Listener = (*Listener)(nil)

// Accept 接受连接
func (l *Listener) Accept() (interfaces.Conn, error) {
	conn, err := l.listener.AcceptTCP()
	if err != nil {
		if l.closed.Load() {
			return nil, ErrListenerClosed
		}
		return nil, err
	}
	tuneConn(conn, l.keepAlive)
	return newConn(conn, types.Addr{}), nil
}

// Multiaddr 返回监听地址
func (l *Listener) Multiaddr() types.Addr {
	return l.addr
}

// Close 关闭监听器
func (l *Listener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	l.transport.removeListener(l.addr.String())
	return l.listener.Close()
}

// IsClosed 检查监听器是否已关闭
func (l *Listener) IsClosed() bool {
	return l.closed.Load()
}
