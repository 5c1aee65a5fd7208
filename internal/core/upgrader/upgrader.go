// Package upgrader 实现连接升级器
package upgrader

import (
	"context"
	"fmt"
	"net"
	"time"

	mss "github.com/multiformats/go-multistream"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("core/upgrader")

// defaultNegotiateTimeout 无 ctx 截止时间时的协商超时
const defaultNegotiateTimeout = 60 * time.Second

// ============================================================================
//                              Upgrader 实现
// ============================================================================

// Upgrader 连接升级器
type Upgrader struct {
	security []interfaces.SecureTransport
	muxers   []interfaces.Muxer
}

// New 创建连接升级器
func New(security []interfaces.SecureTransport, muxers []interfaces.Muxer) (*Upgrader, error) {
	if len(security) == 0 {
		return nil, ErrNoSecurityTransport
	}
	if len(muxers) == 0 {
		return nil, ErrNoMuxer
	}
	return &Upgrader{
		security: security,
		muxers:   muxers,
	}, nil
}

// Upgrade 升级原始连接
//
// 失败时关闭底层连接。出站方向必须携带期望的远端 PeerID。
func (u *Upgrader) Upgrade(ctx context.Context, conn interfaces.Conn, dir types.Direction, remotePeer types.PeerID) (*UpgradedConn, error) {
	if dir == types.DirOutbound && remotePeer.IsEmpty() {
		_ = conn.Close()
		return nil, ErrNoPeerID
	}
	isServer := dir == types.DirInbound

	// 1. 协商安全协议
	secTransport, err := u.negotiateSecurity(ctx, conn, isServer)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("安全协议协商失败: %w", err)
	}

	// 2. 安全握手
	var secConn interfaces.SecureConn
	if isServer {
		secConn, err = secTransport.SecureInbound(ctx, conn)
	} else {
		secConn, err = secTransport.SecureOutbound(ctx, conn, remotePeer)
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("安全握手失败: %w", err)
	}

	// 3. 协商多路复用器
	muxer, err := u.negotiateMuxer(ctx, secConn, isServer)
	if err != nil {
		_ = secConn.Close()
		return nil, fmt.Errorf("多路复用器协商失败: %w", err)
	}

	// 4. 建立多路复用会话
	muxedConn, err := muxer.NewConn(secConn, isServer)
	if err != nil {
		_ = secConn.Close()
		return nil, fmt.Errorf("多路复用会话建立失败: %w", err)
	}

	uc := newUpgradedConn(muxedConn, secConn, conn, dir, secTransport.Protocol(), muxer.Protocol())
	logger.Debug("连接升级成功",
		"direction", dir,
		"remotePeer", uc.RemotePeer().ShortString(),
		"security", uc.Security(),
		"muxer", uc.MuxerProtocol())
	return uc, nil
}

// ============================================================================
//                              协议协商
// ============================================================================

// negotiateSecurity 协商安全协议
//
// 服务端从客户端提议中选择，客户端按优先级提议。
func (u *Upgrader) negotiateSecurity(ctx context.Context, conn net.Conn, isServer bool) (interfaces.SecureTransport, error) {
	selected, err := u.negotiate(ctx, conn, isServer, securityProtocols(u.security))
	if err != nil {
		return nil, err
	}
	for _, st := range u.security {
		if st.Protocol() == selected {
			return st, nil
		}
	}
	return nil, fmt.Errorf("协商结果 %s 无对应安全传输", selected)
}

// negotiateMuxer 协商多路复用器
func (u *Upgrader) negotiateMuxer(ctx context.Context, conn net.Conn, isServer bool) (interfaces.Muxer, error) {
	selected, err := u.negotiate(ctx, conn, isServer, muxerProtocols(u.muxers))
	if err != nil {
		return nil, err
	}
	for _, m := range u.muxers {
		if m.Protocol() == selected {
			return m, nil
		}
	}
	return nil, fmt.Errorf("协商结果 %s 无对应复用器", selected)
}

// negotiate 执行一轮 multistream-select 协商
func (u *Upgrader) negotiate(ctx context.Context, conn net.Conn, isServer bool, protocols []string) (string, error) {
	deadline := time.Now().Add(defaultNegotiateTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return "", fmt.Errorf("设置协商截止时间失败: %w", err)
	}
	defer func() { _ = conn.SetDeadline(time.Time{}) }()

	if isServer {
		muxer := mss.NewMultistreamMuxer[string]()
		for _, p := range protocols {
			muxer.AddHandler(p, nil)
		}
		selected, _, err := muxer.Negotiate(nopCloserConn{conn})
		if err != nil {
			return "", fmt.Errorf("服务端协商失败: %w", err)
		}
		return selected, nil
	}

	selected, err := mss.SelectOneOf(protocols, nopCloserConn{conn})
	if err != nil {
		return "", fmt.Errorf("客户端协商失败: %w", err)
	}
	return selected, nil
}

// securityProtocols 按配置顺序列出安全协议
func securityProtocols(sts []interfaces.SecureTransport) []string {
	out := make([]string, len(sts))
	for i, st := range sts {
		out[i] = st.Protocol()
	}
	return out
}

// muxerProtocols 按配置顺序列出复用协议
func muxerProtocols(ms []interfaces.Muxer) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Protocol()
	}
	return out
}

// nopCloserConn 屏蔽协商库的 Close 调用
//
// 协商失败时由升级流程统一关闭连接。
type nopCloserConn struct {
	net.Conn
}

func (nopCloserConn) Close() error { return nil }
