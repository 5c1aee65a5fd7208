package swarm

import (
	"context"
	"fmt"
	"net"
	"sort"
	"time"

	"go.uber.org/multierr"

	"github.com/mothra-net/go-mothra/internal/core/upgrader"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// dialFuture 代表一次进行中的拨号
//
// 并发拨同一节点的调用者共享同一个 future，等待 done 关闭后
// 读取结果，保证对外只有一次实际拨号。
type dialFuture struct {
	done chan struct{}
	sess *session
	err  error
}

// backoffEntry 记录某节点的连续拨号失败情况
type backoffEntry struct {
	failures  int
	nextRetry time.Time
}

// dialResult 单个地址的拨号结果
type dialResult struct {
	conn *upgrader.UpgradedConn
	err  error
}

// DialPeer 建立到指定节点的会话
//
// 已有会话直接复用；正在拨号则等待该次拨号的结果；退避期内
// 不触网直接失败。
func (s *Swarm) DialPeer(ctx context.Context, peer types.PeerID) (pkgif.Session, error) {
	if s.closed.Load() {
		return nil, ErrSwarmClosed
	}
	if peer.IsEmpty() {
		return nil, types.ErrInvalidPeerID
	}
	if peer.Equal(s.localPeer) {
		return nil, ErrDialToSelf
	}

	if sess := s.sessionToPeer(peer); sess != nil {
		return sess, nil
	}

	s.dialsMu.Lock()
	if fut, ok := s.dials[peer]; ok {
		s.dialsMu.Unlock()
		select {
		case <-fut.done:
			if fut.err != nil {
				return nil, fut.err
			}
			return fut.sess, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	fut := &dialFuture{done: make(chan struct{})}
	s.dials[peer] = fut
	s.dialsMu.Unlock()

	sess, err := s.dialPeer(ctx, peer)

	fut.sess = sess
	fut.err = err
	s.dialsMu.Lock()
	delete(s.dials, peer)
	s.dialsMu.Unlock()
	close(fut.done)

	if err != nil {
		return nil, err
	}
	return sess, nil
}

// dialPeer 执行一次实际拨号（仅拨号 owner 调用）
func (s *Swarm) dialPeer(ctx context.Context, peer types.PeerID) (*session, error) {
	if wait := s.backoffRemaining(peer); wait > 0 {
		return nil, types.NewConnectionError(peer, "dial",
			fmt.Errorf("%w: retry in %v", ErrDialBackoff, wait.Round(time.Second)))
	}

	var known []types.Addr
	if s.peerstore != nil {
		known = s.peerstore.Addrs(peer)
	}
	addrs := s.dialableAddrs(known)
	if len(addrs) == 0 {
		return nil, types.NewConnectionError(peer, "dial", ErrNoAddresses)
	}
	rankAddrs(addrs)

	if s.peerstore != nil {
		s.peerstore.SetState(peer, types.ConnStateConnecting)
	}

	logger.Debug("开始拨号",
		"peer", peer.ShortString(),
		"addrs", len(addrs))

	conn, err := s.dialAddrs(ctx, peer, addrs)
	if err != nil {
		s.recordFailure(peer)
		if s.peerstore != nil {
			s.peerstore.SetState(peer, types.ConnStateDisconnected)
		}
		s.emitDialFailedEvent(peer, err)
		logger.Debug("拨号失败",
			"peer", peer.ShortString(),
			"error", err)
		return nil, err
	}

	return s.addSession(conn)
}

// dialAddrs 并发拨所有候选地址，取第一个成功者
func (s *Swarm) dialAddrs(ctx context.Context, peer types.PeerID, addrs []types.Addr) (*upgrader.UpgradedConn, error) {
	timeout := s.config.DialTimeout
	if allPrivate(addrs) {
		timeout = s.config.DialTimeoutLocal
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan dialResult, len(addrs))
	for _, addr := range addrs {
		go func(addr types.Addr) {
			conn, err := s.dialAddr(ctx, peer, addr)
			results <- dialResult{conn: conn, err: err}
		}(addr)
	}

	var errs []error
	for i := 0; i < len(addrs); i++ {
		select {
		case res := <-results:
			if res.err == nil {
				cancel()
				// 迟到的成功连接由后台回收
				go drainDials(results, len(addrs)-i-1)
				return res.conn, nil
			}
			errs = append(errs, res.err)
		case <-ctx.Done():
			go drainDials(results, len(addrs)-i)
			if ctx.Err() == context.DeadlineExceeded {
				return nil, types.NewConnectionError(peer, "dial", ErrDialTimeout)
			}
			return nil, ctx.Err()
		}
	}

	return nil, types.NewConnectionError(peer, "dial", multierr.Combine(errs...))
}

// drainDials 回收落败或迟到的拨号结果
func drainDials(results <-chan dialResult, n int) {
	for i := 0; i < n; i++ {
		res := <-results
		if res.conn != nil {
			res.conn.Close()
		}
	}
}

// dialAddr 拨单个地址并完成连接升级
func (s *Swarm) dialAddr(ctx context.Context, peer types.PeerID, addr types.Addr) (*upgrader.UpgradedConn, error) {
	t := s.transportFor(addr)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTransport, addr)
	}

	raw, err := t.Dial(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	conn, err := s.upgrader.Upgrade(ctx, raw, types.DirOutbound, peer)
	if err != nil {
		return nil, fmt.Errorf("upgrade %s: %w", addr, err)
	}
	return conn, nil
}

// transportFor 返回能拨指定地址的传输层
func (s *Swarm) transportFor(addr types.Addr) pkgif.Transport {
	for _, t := range s.transports {
		if t.CanDial(addr) {
			return t
		}
	}
	return nil
}

// dialableAddrs 过滤出有传输层支持的地址
func (s *Swarm) dialableAddrs(addrs []types.Addr) []types.Addr {
	out := make([]types.Addr, 0, len(addrs))
	for _, addr := range addrs {
		if s.transportFor(addr) != nil {
			out = append(out, addr)
		}
	}
	return out
}

// rankAddrs 把更可能成功的地址排到前面
//
// 本地地址优先于公网地址，TCP 优先于 WebSocket。
func rankAddrs(addrs []types.Addr) {
	sort.SliceStable(addrs, func(i, j int) bool {
		return addrScore(addrs[i]) < addrScore(addrs[j])
	})
}

func addrScore(addr types.Addr) int {
	score := 10
	if isPrivateAddr(addr) {
		score = 0
	}
	if addr.WS {
		score++
	}
	return score
}

// isPrivateAddr 判断地址是否指向本机或私有网段
func isPrivateAddr(addr types.Addr) bool {
	if addr.IsDNS() {
		return false
	}
	ip := net.ParseIP(addr.Host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate()
}

func allPrivate(addrs []types.Addr) bool {
	for _, addr := range addrs {
		if !isPrivateAddr(addr) {
			return false
		}
	}
	return true
}

// ============================================================================
//                              拨号退避
// ============================================================================

// backoffRemaining 返回节点的剩余退避时长，未在退避期返回 0
func (s *Swarm) backoffRemaining(peer types.PeerID) time.Duration {
	s.backoffMu.Lock()
	defer s.backoffMu.Unlock()

	e, ok := s.backoff[peer]
	if !ok {
		return 0
	}
	return time.Until(e.nextRetry)
}

// recordFailure 记一次拨号失败，按失败次数指数延长退避窗口
func (s *Swarm) recordFailure(peer types.PeerID) {
	s.backoffMu.Lock()
	defer s.backoffMu.Unlock()

	e, ok := s.backoff[peer]
	if !ok {
		e = &backoffEntry{}
		s.backoff[peer] = e
	}
	e.failures++

	d := s.config.BackoffBase << uint(min(e.failures-1, 16))
	if d <= 0 || d > s.config.BackoffMax {
		d = s.config.BackoffMax
	}
	e.nextRetry = time.Now().Add(d)
}

// resetBackoff 在拨号成功后清除退避记录
func (s *Swarm) resetBackoff(peer types.PeerID) {
	s.backoffMu.Lock()
	defer s.backoffMu.Unlock()
	delete(s.backoff, peer)
}
