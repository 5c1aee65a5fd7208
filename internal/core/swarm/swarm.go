package swarm

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	mss "github.com/multiformats/go-multistream"
	"go.uber.org/multierr"

	"github.com/mothra-net/go-mothra/internal/core/upgrader"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("core/swarm")

// Swarm 会话群管理器
type Swarm struct {
	localPeer types.PeerID
	upgrader  *upgrader.Upgrader
	config    *Config

	// transports 按协议名注册，New 之后只读
	transports map[string]pkgif.Transport

	peerstore pkgif.Peerstore
	eventbus  pkgif.EventBus

	sessionsMu sync.Mutex
	sessions   map[types.PeerID]*session

	dialsMu sync.Mutex
	dials   map[types.PeerID]*dialFuture

	backoffMu sync.Mutex
	backoff   map[types.PeerID]*backoffEntry

	handlersMu sync.RWMutex
	handlers   map[string]pkgif.StreamHandler
	mux        *mss.MultistreamMuxer[string]

	listenersMu sync.Mutex
	listeners   []pkgif.Listener

	notifieesMu sync.RWMutex
	notifiees   []pkgif.Notifiee

	emitConnected    pkgif.Emitter
	emitDisconnected pkgif.Emitter
	emitDialFailed   pkgif.Emitter

	closed atomic.Bool
}

var _ pkgif.Swarm = (*Swarm)(nil)

// New 创建 Swarm
func New(localPeer types.PeerID, up *upgrader.Upgrader, opts ...Option) (*Swarm, error) {
	if localPeer.IsEmpty() {
		return nil, types.ErrInvalidPeerID
	}
	if up == nil {
		return nil, errors.New("swarm: upgrader is required")
	}

	s := &Swarm{
		localPeer:  localPeer,
		upgrader:   up,
		config:     DefaultConfig(),
		transports: make(map[string]pkgif.Transport),
		sessions:   make(map[types.PeerID]*session),
		dials:      make(map[types.PeerID]*dialFuture),
		backoff:    make(map[types.PeerID]*backoffEntry),
		handlers:   make(map[string]pkgif.StreamHandler),
		mux:        mss.NewMultistreamMuxer[string](),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.eventbus != nil {
		var err error
		s.emitConnected, err = s.eventbus.Emitter(new(types.EvtPeerConnected))
		if err != nil {
			return nil, err
		}
		s.emitDisconnected, err = s.eventbus.Emitter(new(types.EvtPeerDisconnected))
		if err != nil {
			return nil, err
		}
		s.emitDialFailed, err = s.eventbus.Emitter(new(types.EvtDialFailed))
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

// LocalPeer 返回本地节点 ID
func (s *Swarm) LocalPeer() types.PeerID {
	return s.localPeer
}

// Peers 返回所有已连接的节点 ID
func (s *Swarm) Peers() []types.PeerID {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	peers := make([]types.PeerID, 0, len(s.sessions))
	for id := range s.sessions {
		peers = append(peers, id)
	}
	return peers
}

// Sessions 返回所有活跃会话
func (s *Swarm) Sessions() []pkgif.Session {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	out := make([]pkgif.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

// SessionToPeer 返回到指定节点的会话，无会话时返回 nil
func (s *Swarm) SessionToPeer(peer types.PeerID) pkgif.Session {
	if sess := s.sessionToPeer(peer); sess != nil {
		return sess
	}
	return nil
}

func (s *Swarm) sessionToPeer(peer types.PeerID) *session {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	return s.sessions[peer]
}

// NumSessions 返回当前会话数量
func (s *Swarm) NumSessions() int {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	return len(s.sessions)
}

// Connectedness 返回与指定节点的连接状态
func (s *Swarm) Connectedness(peer types.PeerID) types.ConnState {
	if s.sessionToPeer(peer) != nil {
		return types.ConnStateConnected
	}

	s.dialsMu.Lock()
	_, dialing := s.dials[peer]
	s.dialsMu.Unlock()
	if dialing {
		return types.ConnStateConnecting
	}
	return types.ConnStateDisconnected
}

// ClosePeer 关闭到指定节点的会话
func (s *Swarm) ClosePeer(peer types.PeerID) error {
	sess := s.sessionToPeer(peer)
	if sess == nil {
		return nil
	}
	return sess.Close()
}

// NewStream 在到指定节点的会话上打开一条新流
//
// 无会话时先拨号建立会话。
func (s *Swarm) NewStream(ctx context.Context, peer types.PeerID, proto string) (pkgif.Stream, error) {
	sess, err := s.DialPeer(ctx, peer)
	if err != nil {
		return nil, err
	}
	return sess.OpenStream(ctx, proto)
}

// ============================================================================
//                              流处理器
// ============================================================================

// SetStreamHandler 注册协议的入站流处理器
func (s *Swarm) SetStreamHandler(proto string, handler pkgif.StreamHandler) {
	if proto == "" || handler == nil {
		return
	}

	s.handlersMu.Lock()
	s.handlers[proto] = handler
	s.handlersMu.Unlock()

	s.mux.AddHandler(proto, nil)
}

// RemoveStreamHandler 移除协议的入站流处理器
func (s *Swarm) RemoveStreamHandler(proto string) {
	s.handlersMu.Lock()
	delete(s.handlers, proto)
	s.handlersMu.Unlock()

	s.mux.RemoveHandler(proto)
}

// Protocols 返回当前注册了处理器的协议列表
func (s *Swarm) Protocols() []string {
	s.handlersMu.RLock()
	defer s.handlersMu.RUnlock()

	out := make([]string, 0, len(s.handlers))
	for proto := range s.handlers {
		out = append(out, proto)
	}
	return out
}

// ============================================================================
//                              会话表
// ============================================================================

// addSession 把升级完成的连接纳入会话表
//
// 处理三种竞争情形：Swarm 已关闭、same-peer 会话已存在（双向同时
// 连接，保留先建立者）、会话数达到上限（淘汰最久未活动的空闲会话，
// 无可淘汰者则拒绝）。落败的新连接在此关闭。
func (s *Swarm) addSession(conn *upgrader.UpgradedConn) (*session, error) {
	peer := conn.RemotePeer()

	for {
		s.sessionsMu.Lock()
		if s.closed.Load() {
			s.sessionsMu.Unlock()
			conn.Close()
			return nil, ErrSwarmClosed
		}

		if existing, ok := s.sessions[peer]; ok {
			s.sessionsMu.Unlock()
			logger.Debug("保留已有会话，关闭新连接",
				"peer", peer.ShortString(),
				"existingDir", existing.Direction().String(),
				"newDir", conn.Direction().String())
			conn.Close()
			return existing, nil
		}

		if len(s.sessions) < s.config.MaxSessions {
			sess := newSession(s, conn)
			s.sessions[peer] = sess
			total := len(s.sessions)
			s.sessionsMu.Unlock()

			s.resetBackoff(peer)
			if s.peerstore != nil {
				s.peerstore.SetState(peer, types.ConnStateConnected)
			}

			logger.Info("会话已建立",
				"peer", peer.ShortString(),
				"direction", conn.Direction().String(),
				"raddr", conn.RemoteMultiaddr().String(),
				"sessions", total)

			s.notifyConnected(sess)
			s.emitConnectedEvent(peer, conn.Direction(), conn.RemoteMultiaddr(), total)

			go s.serveSession(sess)
			return sess, nil
		}

		victim := s.lruIdleVictimLocked()
		s.sessionsMu.Unlock()

		if victim == nil {
			conn.Close()
			return nil, types.NewCapacityError("sessions", s.config.MaxSessions)
		}

		logger.Debug("会话数达到上限，淘汰空闲会话",
			"victim", victim.RemotePeer().ShortString(),
			"idle", time.Since(victim.LastUsed()).Round(time.Millisecond))
		victim.closeWithReason(types.ReasonEvicted, nil)
	}
}

// lruIdleVictimLocked 选出最久未活动且没有打开流的会话
//
// 调用方持有 sessionsMu。
func (s *Swarm) lruIdleVictimLocked() *session {
	var victim *session
	var oldest int64
	for _, sess := range s.sessions {
		if sess.nStreams.Load() > 0 {
			continue
		}
		used := sess.lastUsed.Load()
		if victim == nil || used < oldest {
			victim = sess
			oldest = used
		}
	}
	return victim
}

// removeSession 把会话从会话表摘除并发出断开通知
func (s *Swarm) removeSession(sess *session, reason types.DisconnectReason, cause error) {
	peer := sess.RemotePeer()

	s.sessionsMu.Lock()
	cur, ok := s.sessions[peer]
	if !ok || cur != sess {
		s.sessionsMu.Unlock()
		return
	}
	delete(s.sessions, peer)
	total := len(s.sessions)
	s.sessionsMu.Unlock()

	if s.peerstore != nil {
		s.peerstore.SetState(peer, types.ConnStateDisconnected)
	}

	errMsg := ""
	if cause != nil {
		errMsg = cause.Error()
	}
	logger.Info("会话已断开",
		"peer", peer.ShortString(),
		"reason", reason.String(),
		"error", errMsg,
		"sessions", total)

	s.notifyDisconnected(sess, reason)
	s.emitDisconnectedEvent(peer, reason, errMsg, total)
}

// ============================================================================
//                              入站流分发
// ============================================================================

// serveSession 循环接受会话上的入站流
//
// 会话或 Swarm 关闭时退出；非本端主动关闭导致的退出触发
// 会话清理（远端关闭或传输错误）。
func (s *Swarm) serveSession(sess *session) {
	for {
		ms, err := sess.conn.AcceptStream()
		if err != nil {
			if sess.closed.Load() || s.closed.Load() {
				return
			}
			reason := types.ReasonError
			if errors.Is(err, io.EOF) {
				reason = types.ReasonRemoteClose
			}
			sess.closeWithReason(reason, err)
			return
		}
		go s.handleStream(sess, ms)
	}
}

// handleStream 协商入站流的协议并分发给注册的处理器
func (s *Swarm) handleStream(sess *session, ms pkgif.MuxedStream) {
	if err := ms.SetDeadline(time.Now().Add(s.config.NegotiateTimeout)); err != nil {
		ms.Close()
		return
	}
	proto, _, err := s.mux.Negotiate(ms)
	if err != nil {
		logger.Debug("入站流协议协商失败",
			"peer", sess.RemotePeer().ShortString(),
			"error", err)
		ms.Close()
		return
	}
	if err := ms.SetDeadline(time.Time{}); err != nil {
		ms.Close()
		return
	}

	s.handlersMu.RLock()
	handler := s.handlers[proto]
	s.handlersMu.RUnlock()
	if handler == nil {
		// 处理器在协商期间被移除
		ms.Close()
		return
	}

	st := newStream(sess, ms, proto)
	sess.trackStream()
	handler(st)
}

// ============================================================================
//                              通知与事件
// ============================================================================

// Notify 注册会话事件通知
func (s *Swarm) Notify(n pkgif.Notifiee) {
	if n == nil {
		return
	}
	s.notifieesMu.Lock()
	defer s.notifieesMu.Unlock()
	s.notifiees = append(s.notifiees, n)
}

// StopNotify 取消会话事件通知
func (s *Swarm) StopNotify(n pkgif.Notifiee) {
	s.notifieesMu.Lock()
	defer s.notifieesMu.Unlock()
	for i, cur := range s.notifiees {
		if cur == n {
			s.notifiees = append(s.notifiees[:i], s.notifiees[i+1:]...)
			return
		}
	}
}

func (s *Swarm) notifyConnected(sess *session) {
	for _, n := range s.copyNotifiees() {
		go n.Connected(sess)
	}
}

func (s *Swarm) notifyDisconnected(sess *session, reason types.DisconnectReason) {
	for _, n := range s.copyNotifiees() {
		go n.Disconnected(sess, reason)
	}
}

func (s *Swarm) copyNotifiees() []pkgif.Notifiee {
	s.notifieesMu.RLock()
	defer s.notifieesMu.RUnlock()
	out := make([]pkgif.Notifiee, len(s.notifiees))
	copy(out, s.notifiees)
	return out
}

func (s *Swarm) emitConnectedEvent(peer types.PeerID, dir types.Direction, addr types.Addr, total int) {
	if s.emitConnected == nil {
		return
	}
	if err := s.emitConnected.Emit(types.NewEvtPeerConnected(peer, dir, addr, total)); err != nil {
		logger.Debug("发布会话建立事件失败", "error", err)
	}
}

func (s *Swarm) emitDisconnectedEvent(peer types.PeerID, reason types.DisconnectReason, errMsg string, total int) {
	if s.emitDisconnected == nil {
		return
	}
	if err := s.emitDisconnected.Emit(types.NewEvtPeerDisconnected(peer, reason, errMsg, total)); err != nil {
		logger.Debug("发布会话断开事件失败", "error", err)
	}
}

func (s *Swarm) emitDialFailedEvent(peer types.PeerID, cause error) {
	if s.emitDialFailed == nil {
		return
	}
	if err := s.emitDialFailed.Emit(types.NewEvtDialFailed(peer, cause.Error())); err != nil {
		logger.Debug("发布拨号失败事件失败", "error", err)
	}
}

// ============================================================================
//                              关闭
// ============================================================================

// Close 关闭 Swarm 及其全部会话
func (s *Swarm) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	logger.Info("正在关闭 Swarm", "sessions", s.NumSessions())

	var errs error

	// 先停传输层（监听器随之关闭，accept 循环退出）
	for _, t := range s.transports {
		errs = multierr.Append(errs, t.Close())
	}

	// 再关所有会话
	s.sessionsMu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessionsMu.Unlock()
	for _, sess := range sessions {
		errs = multierr.Append(errs, sess.closeWithReason(types.ReasonShutdown, nil))
	}

	if s.emitConnected != nil {
		errs = multierr.Append(errs, s.emitConnected.Close())
	}
	if s.emitDisconnected != nil {
		errs = multierr.Append(errs, s.emitDisconnected.Close())
	}
	if s.emitDialFailed != nil {
		errs = multierr.Append(errs, s.emitDialFailed.Close())
	}

	return errs
}
