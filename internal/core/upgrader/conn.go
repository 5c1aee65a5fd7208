// Package upgrader 实现连接升级器
package upgrader

import (
	"time"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// UpgradedConn 升级完成的连接
//
// 聚合多路复用会话、握手身份与传输层地址，是 Swarm 会话的原料。
type UpgradedConn struct {
	interfaces.MuxedConn

	localPeer  types.PeerID
	remotePeer types.PeerID
	remoteKey  crypto.PublicKey

	laddr types.Addr
	raddr types.Addr

	direction types.Direction
	opened    time.Time

	security  string
	muxerName string
}

// newUpgradedConn 聚合升级产物
func newUpgradedConn(mc interfaces.MuxedConn, sc interfaces.SecureConn, raw interfaces.Conn, dir types.Direction, security, muxerName string) *UpgradedConn {
	return &UpgradedConn{
		MuxedConn:  mc,
		localPeer:  sc.LocalPeer(),
		remotePeer: sc.RemotePeer(),
		remoteKey:  sc.RemotePublicKey(),
		laddr:      raw.LocalMultiaddr(),
		raddr:      raw.RemoteMultiaddr(),
		direction:  dir,
		opened:     time.Now(),
		security:   security,
		muxerName:  muxerName,
	}
}

// LocalPeer 返回本地节点 ID
func (c *UpgradedConn) LocalPeer() types.PeerID {
	return c.localPeer
}

// RemotePeer 返回远端节点 ID
func (c *UpgradedConn) RemotePeer() types.PeerID {
	return c.remotePeer
}

// RemotePublicKey 返回远端身份公钥
func (c *UpgradedConn) RemotePublicKey() crypto.PublicKey {
	return c.remoteKey
}

// LocalMultiaddr 返回本端传输地址
func (c *UpgradedConn) LocalMultiaddr() types.Addr {
	return c.laddr
}

// RemoteMultiaddr 返回远端传输地址
func (c *UpgradedConn) RemoteMultiaddr() types.Addr {
	return c.raddr
}

// Direction 返回连接方向
func (c *UpgradedConn) Direction() types.Direction {
	return c.direction
}

// Opened 返回连接建立时间
func (c *UpgradedConn) Opened() time.Time {
	return c.opened
}

// Security 返回协商的安全协议
func (c *UpgradedConn) Security() string {
	return c.security
}

// MuxerProtocol 返回协商的复用协议
func (c *UpgradedConn) MuxerProtocol() string {
	return c.muxerName
}
