package swarm

import (
	"context"
	"fmt"

	tec "github.com/jbenet/go-temp-err-catcher"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// Listen 在指定地址上开始监听入站连接
//
// 任一地址绑定失败即整体失败，已打开的监听器会被回收。
func (s *Swarm) Listen(addrs ...types.Addr) error {
	if s.closed.Load() {
		return ErrSwarmClosed
	}
	if len(addrs) == 0 {
		return ErrNoListenAddrs
	}

	listeners := make([]pkgif.Listener, 0, len(addrs))
	for _, addr := range addrs {
		t := s.listenTransport(addr)
		if t == nil {
			closeListeners(listeners)
			return fmt.Errorf("%w: %s", ErrNoTransport, addr)
		}
		lst, err := t.Listen(addr)
		if err != nil {
			closeListeners(listeners)
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		listeners = append(listeners, lst)
	}

	s.listenersMu.Lock()
	s.listeners = append(s.listeners, listeners...)
	s.listenersMu.Unlock()

	for _, lst := range listeners {
		logger.Info("开始监听", "addr", lst.Multiaddr().String())
		go s.acceptLoop(lst)
	}
	return nil
}

// ListenAddrs 返回当前所有监听地址
func (s *Swarm) ListenAddrs() []types.Addr {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	out := make([]types.Addr, 0, len(s.listeners))
	for _, lst := range s.listeners {
		out = append(out, lst.Multiaddr())
	}
	return out
}

// listenTransport 返回能监听指定地址的传输层
func (s *Swarm) listenTransport(addr types.Addr) pkgif.Transport {
	if addr.WS {
		return s.transports["ws"]
	}
	return s.transports["tcp"]
}

func closeListeners(listeners []pkgif.Listener) {
	for _, lst := range listeners {
		lst.Close()
	}
}

// acceptLoop 循环接受监听器上的入站连接
func (s *Swarm) acceptLoop(lst pkgif.Listener) {
	var catcher tec.TempErrCatcher
	for {
		raw, err := lst.Accept()
		if err != nil {
			if s.closed.Load() {
				return
			}
			if catcher.IsTemporary(err) {
				continue
			}
			logger.Warn("监听器退出",
				"addr", lst.Multiaddr().String(),
				"error", err)
			return
		}
		go s.handleInbound(raw)
	}
}

// handleInbound 升级入站连接并纳入会话表
func (s *Swarm) handleInbound(raw pkgif.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.UpgradeTimeout)
	defer cancel()

	conn, err := s.upgrader.Upgrade(ctx, raw, types.DirInbound, types.EmptyPeerID)
	if err != nil {
		logger.Debug("入站连接升级失败",
			"raddr", raw.RemoteAddr().String(),
			"error", err)
		return
	}

	if conn.RemotePeer().Equal(s.localPeer) {
		logger.Debug("拒绝来自本节点的连接")
		conn.Close()
		return
	}

	if s.peerstore != nil {
		s.peerstore.AddAddrs(conn.RemotePeer(), conn.RemoteMultiaddr())
	}

	if _, err := s.addSession(conn); err != nil {
		logger.Debug("入站会话建立失败",
			"peer", conn.RemotePeer().ShortString(),
			"error", err)
	}
}
