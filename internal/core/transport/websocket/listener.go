// Package websocket 实现 WebSocket 传输层
package websocket

import (
	"net"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// 待接受连接队列长度
const acceptBacklog = 16

// ============================================================================
//                              Listener 实现
// ============================================================================

// Listener WebSocket 监听器
//
// 内嵌 HTTP 服务：升级握手成功的连接进入 incoming 队列，
// 由 Accept 取出。
type Listener struct {
	transport   *Transport
	netListener net.Listener
	server      *http.Server
	upgrader    websocket.Upgrader
	addr        types.Addr

	incoming chan *Conn
	done     chan struct{}
	closed   atomic.Bool
}

// 确保实现 interfaces.Listener 接口
var _ interfaces.Listener = (*Listener)(nil)

// newListener 创建监听器
func newListener(t *Transport, ln net.Listener, addr types.Addr) *Listener {
	l := &Listener{
		transport:   t,
		netListener: ln,
		addr:        addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  bufferSize,
			WriteBufferSize: bufferSize,
			// 节点间连接不做同源限制
			CheckOrigin: func(*http.Request) bool { return true },
		},
		incoming: make(chan *Conn, acceptBacklog),
		done:     make(chan struct{}),
	}
	l.server = &http.Server{Handler: l}
	return l
}

// serve 启动 HTTP 服务
func (l *Listener) serve() {
	go func() {
		// 监听器关闭时 Serve 返回 ErrServerClosed
		_ = l.server.Serve(l.netListener)
	}()
}

// ServeHTTP 处理升级握手
func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsc, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 失败时响应已写出
		return
	}

	conn := newConn(wsc, types.Addr{})
	select {
	case l.incoming <- conn:
	case <-l.done:
		_ = conn.Close()
	}
}

// Accept 接受连接
func (l *Listener) Accept() (interfaces.Conn, error) {
	select {
	case conn := <-l.incoming:
		return conn, nil
	case <-l.done:
		return nil, ErrListenerClosed
	}
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
	close(l.done)
	l.transport.removeListener(l.addr.String())

	err := l.server.Close()

	// 清空未被接受的连接
	for {
		select {
		case conn := <-l.incoming:
			_ = conn.Close()
		default:
			return err
		}
	}
}

// IsClosed 检查监听器是否已关闭
func (l *Listener) IsClosed() bool {
	return l.closed.Load()
}
