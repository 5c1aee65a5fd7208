// Package interfaces 定义 Mothra 公共接口
//
// 本文件定义安全层接口，负责连接加密和身份认证。
package interfaces

import (
	"context"
	"net"

	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// SecureTransport 定义安全握手接口
//
// 在原始连接上执行加密握手，产出认证后的加密连接。
type SecureTransport interface {
	// SecureInbound 以响应方身份执行握手
	SecureInbound(ctx context.Context, insecure net.Conn) (SecureConn, error)

	// SecureOutbound 以发起方身份执行握手
	//
	// expected 非空时校验远端身份，不匹配则握手失败。
	SecureOutbound(ctx context.Context, insecure net.Conn, expected types.PeerID) (SecureConn, error)

	// Protocol 返回安全协议标识
	Protocol() string
}

// SecureConn 定义加密连接接口
type SecureConn interface {
	net.Conn

	// LocalPeer 返回本地节点 ID
	LocalPeer() types.PeerID

	// RemotePeer 返回握手认证的远端节点 ID
	RemotePeer() types.PeerID

	// RemotePublicKey 返回远端身份公钥
	RemotePublicKey() crypto.PublicKey
}
