// Package websocket 实现 WebSocket 传输层
package websocket

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// 关闭帧发送宽限
const closeGrace = 100 * time.Millisecond

// ============================================================================
//                              Conn 实现
// ============================================================================

// Conn WebSocket 连接
//
// 把 WebSocket 的消息流适配成 net.Conn 字节流：Write 按消息发送，
// Read 跨消息边界连续读取。
type Conn struct {
	conn *websocket.Conn

	laddr types.Addr
	raddr types.Addr

	// 当前消息的读取器，读尽后置空
	readMu sync.Mutex
	reader io.Reader

	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// 确保实现 interfaces.Conn 接口
var _ interfaces.Conn = (*Conn)(nil)

// newConn 包装 WebSocket 连接
//
// raddr 为拨号地址；入站连接传零值，地址从连接回读。
func newConn(wsc *websocket.Conn, raddr types.Addr) *Conn {
	laddr, _ := types.AddrFromNetAddr(wsc.LocalAddr(), true)
	if raddr.IsEmpty() || raddr.IsDNS() {
		if resolved, err := types.AddrFromNetAddr(wsc.RemoteAddr(), true); err == nil {
			resolved.Peer = raddr.Peer
			raddr = resolved
		}
	}
	return &Conn{
		conn:  wsc,
		laddr: laddr,
		raddr: raddr,
	}
}

// Read 读取数据，跨消息边界连续
func (c *Conn) Read(b []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	for {
		if c.reader == nil {
			msgType, r, err := c.conn.NextReader()
			if err != nil {
				return 0, translateError(err)
			}
			// 忽略非数据消息
			if msgType != websocket.BinaryMessage && msgType != websocket.TextMessage {
				continue
			}
			c.reader = r
		}

		n, err := c.reader.Read(b)
		if errors.Is(err, io.EOF) {
			// 本条消息读尽，下次换下一条
			c.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// Write 以单条二进制消息发送数据
func (c *Conn) Write(b []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return 0, translateError(err)
	}
	return len(b), nil
}

// Close 关闭连接
//
// 尽力发送关闭帧后关闭底层连接，幂等。
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// LocalAddr 返回本端网络地址
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr 返回远端网络地址
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// SetDeadline 同时设置读写截止时间
func (c *Conn) SetDeadline(t time.Time) error {
	if err := c.conn.SetReadDeadline(t); err != nil {
		return err
	}
	return c.conn.SetWriteDeadline(t)
}

// SetReadDeadline 设置读截止时间
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

// SetWriteDeadline 设置写截止时间
func (c *Conn) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}

// LocalMultiaddr 返回本端地址
func (c *Conn) LocalMultiaddr() types.Addr {
	return c.laddr
}

// RemoteMultiaddr 返回远端地址
func (c *Conn) RemoteMultiaddr() types.Addr {
	return c.raddr
}

// translateError 把 WebSocket 关闭错误翻译成流语义
func translateError(err error) error {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		switch ce.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway:
			return io.EOF
		}
	}
	return err
}
