package swarm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	mss "github.com/multiformats/go-multistream"

	"github.com/mothra-net/go-mothra/internal/core/upgrader"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// session 到单个远端节点的会话
//
// 包装升级后的连接，跟踪打开的流数量与最近活动时间，
// 两者共同决定会话在容量淘汰中的去留。
type session struct {
	swarm *Swarm
	conn  *upgrader.UpgradedConn

	// lastUsed 最近一次流活动的 unix 纳秒时间戳
	lastUsed atomic.Int64

	// nStreams 当前打开的流数量
	nStreams atomic.Int32

	closeOnce sync.Once
	closed    atomic.Bool
}

var _ pkgif.Session = (*session)(nil)

func newSession(sw *Swarm, conn *upgrader.UpgradedConn) *session {
	s := &session{
		swarm: sw,
		conn:  conn,
	}
	s.touch()
	return s
}

// LocalPeer 返回本地节点 ID
func (s *session) LocalPeer() types.PeerID {
	return s.conn.LocalPeer()
}

// RemotePeer 返回远端节点 ID
func (s *session) RemotePeer() types.PeerID {
	return s.conn.RemotePeer()
}

// RemotePublicKey 返回握手认证的远端身份公钥
func (s *session) RemotePublicKey() crypto.PublicKey {
	return s.conn.RemotePublicKey()
}

// LocalMultiaddr 返回本端地址
func (s *session) LocalMultiaddr() types.Addr {
	return s.conn.LocalMultiaddr()
}

// RemoteMultiaddr 返回远端地址
func (s *session) RemoteMultiaddr() types.Addr {
	return s.conn.RemoteMultiaddr()
}

// Direction 返回会话方向
func (s *session) Direction() types.Direction {
	return s.conn.Direction()
}

// Opened 返回会话建立时间
func (s *session) Opened() time.Time {
	return s.conn.Opened()
}

// LastUsed 返回最近一次流活动时间
func (s *session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

// NumStreams 返回会话上打开的流数量
func (s *session) NumStreams() int {
	return int(s.nStreams.Load())
}

// OpenStream 在会话上打开指定协议的流
func (s *session) OpenStream(ctx context.Context, proto string) (pkgif.Stream, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	ms, err := s.conn.OpenStream(ctx)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	// 出站侧协议协商
	deadline := time.Now().Add(s.swarm.config.NegotiateTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ms.SetDeadline(deadline); err != nil {
		ms.Close()
		return nil, err
	}
	selected, err := mss.SelectOneOf([]string{proto}, ms)
	if err != nil {
		ms.Close()
		return nil, fmt.Errorf("negotiate %s: %w", proto, err)
	}
	if err := ms.SetDeadline(time.Time{}); err != nil {
		ms.Close()
		return nil, err
	}

	st := newStream(s, ms, selected)
	s.trackStream()
	return st, nil
}

// Close 关闭会话
func (s *session) Close() error {
	return s.closeWithReason(types.ReasonLocalClose, nil)
}

// IsClosed 检查会话是否已关闭
func (s *session) IsClosed() bool {
	return s.closed.Load()
}

// closeWithReason 按给定原因关闭会话
//
// 幂等。先从会话表摘除并发出断开通知，再关闭底层连接。
func (s *session) closeWithReason(reason types.DisconnectReason, cause error) error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.swarm.removeSession(s, reason, cause)
		err = s.conn.Close()
	})
	return err
}

// touch 刷新最近活动时间
func (s *session) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}

// trackStream 计入一条新打开的流
func (s *session) trackStream() {
	s.nStreams.Add(1)
	s.touch()
}

// releaseStream 扣除一条已关闭的流
func (s *session) releaseStream() {
	s.nStreams.Add(-1)
	s.touch()
}
