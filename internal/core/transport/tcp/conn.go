// Package tcp 实现 TCP 传输层
package tcp

import (
	"net"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// Conn TCP 原始连接
//
// 未加密、未复用，需经 Upgrader 升级后由 Swarm 管理。
type Conn struct {
	*net.TCPConn

	laddr types.Addr
	raddr types.Addr
}

// 确保实现 interfaces.Conn 接口
var _ interfaces.Conn = (*Conn)(nil)

// newConn 包装原始 TCP 连接
//
// raddr 为拨号地址；入站连接传零值，地址从连接回读。
// 拨到 DNS 名时远端地址以连接实际解析结果为准。
func newConn(c *net.TCPConn, raddr types.Addr) *Conn {
	laddr, _ := types.AddrFromNetAddr(c.LocalAddr(), false)
	if raddr.IsEmpty() || raddr.IsDNS() {
		if resolved, err := types.AddrFromNetAddr(c.RemoteAddr(), false); err == nil {
			resolved.Peer = raddr.Peer
			raddr = resolved
		}
	}
	return &Conn{
		TCPConn: c,
		laddr:   laddr,
		raddr:   raddr,
	}
}

// LocalMultiaddr 返回本端地址
func (c *Conn) LocalMultiaddr() types.Addr {
	return c.laddr
}

// RemoteMultiaddr 返回远端地址
func (c *Conn) RemoteMultiaddr() types.Addr {
	return c.raddr
}
