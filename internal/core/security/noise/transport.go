// Package noise 实现 Noise 协议安全传输
package noise

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/flynn/noise"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("core/security/noise")

// ProtocolID 安全协议标识
const ProtocolID = "/mothra/noise/1.0.0"

// Transport Noise 安全传输
type Transport struct {
	identity  crypto.PrivateKey
	localPeer types.PeerID
	static    noise.DHKey
}

// 确保实现 interfaces.SecureTransport 接口
var _ interfaces.SecureTransport = (*Transport)(nil)

// New 创建 Noise 安全传输
func New(identity crypto.PrivateKey) (*Transport, error) {
	if identity == nil {
		return nil, fmt.Errorf("身份私钥为空")
	}

	localPeer, err := crypto.PeerIDFromPrivateKey(identity)
	if err != nil {
		return nil, fmt.Errorf("派生本地节点 ID 失败: %w", err)
	}

	static, err := staticKeypair(identity)
	if err != nil {
		return nil, err
	}

	return &Transport{
		identity:  identity,
		localPeer: localPeer,
		static:    static,
	}, nil
}

// Protocol 返回安全协议标识
func (t *Transport) Protocol() string {
	return ProtocolID
}

// LocalPeer 返回本地节点 ID
func (t *Transport) LocalPeer() types.PeerID {
	return t.localPeer
}

// SecureInbound 保护入站连接（响应者）
func (t *Transport) SecureInbound(ctx context.Context, conn net.Conn) (interfaces.SecureConn, error) {
	return t.secure(ctx, conn, types.EmptyPeerID, false)
}

// SecureOutbound 保护出站连接（发起者），校验远端身份
func (t *Transport) SecureOutbound(ctx context.Context, conn net.Conn, expected types.PeerID) (interfaces.SecureConn, error) {
	return t.secure(ctx, conn, expected, true)
}

// secure 执行握手
//
// ctx 截止时间映射到连接读写截止，握手结束后清除。
func (t *Transport) secure(ctx context.Context, conn net.Conn, expected types.PeerID, isInitiator bool) (interfaces.SecureConn, error) {
	if conn == nil {
		return nil, fmt.Errorf("连接为空")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err == nil {
			defer func() { _ = conn.SetDeadline(time.Time{}) }()
		}
	}

	logger.Debug("Noise 握手开始",
		"initiator", isInitiator,
		"expected", expected.ShortString())

	sc, err := performHandshake(conn, t.identity, t.static, expected, isInitiator)
	if err != nil {
		logger.Debug("Noise 握手失败",
			"initiator", isInitiator,
			"error", err)
		return nil, err
	}

	logger.Debug("Noise 握手成功",
		"initiator", isInitiator,
		"remotePeer", sc.RemotePeer().ShortString())
	return sc, nil
}
