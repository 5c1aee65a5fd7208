package peerstore

import (
	"errors"
	"sync"
	"time"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("core/peerstore")

// ErrClosed 节点表已关闭
var ErrClosed = errors.New("peerstore closed")

// 默认值
const (
	// DefaultRecordTTL 非连接状态记录的不活跃过期时间
	DefaultRecordTTL = time.Hour

	// DefaultGCInterval janitor 清理间隔
	DefaultGCInterval = time.Minute
)

var _ pkgif.Peerstore = (*Peerstore)(nil)

// Peerstore 节点信息表
type Peerstore struct {
	mu      sync.RWMutex
	records map[types.PeerID]*types.PeerRecord
	closed  bool

	recordTTL  time.Duration
	gcInterval time.Duration

	gcStop chan struct{}
	gcDone chan struct{}
}

// Option Peerstore 选项函数
type Option func(*Peerstore)

// WithRecordTTL 设置记录不活跃过期时间
func WithRecordTTL(ttl time.Duration) Option {
	return func(ps *Peerstore) {
		if ttl > 0 {
			ps.recordTTL = ttl
		}
	}
}

// WithGCInterval 设置 janitor 清理间隔
func WithGCInterval(interval time.Duration) Option {
	return func(ps *Peerstore) {
		if interval > 0 {
			ps.gcInterval = interval
		}
	}
}

// New 创建节点信息表并启动 janitor
func New(opts ...Option) *Peerstore {
	ps := &Peerstore{
		records:    make(map[types.PeerID]*types.PeerRecord),
		recordTTL:  DefaultRecordTTL,
		gcInterval: DefaultGCInterval,
		gcStop:     make(chan struct{}),
		gcDone:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ps)
	}

	go ps.janitor()
	return ps
}

// ============================================================================
//                              读写操作
// ============================================================================

// AddAddrs 为节点追加地址
//
// 节点未知时创建 Discovered 状态的新记录；地址按 Equal 去重，
// 追加成功与否都会刷新 LastSeen。
func (ps *Peerstore) AddAddrs(peer types.PeerID, addrs ...types.Addr) {
	if peer.IsEmpty() {
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.closed {
		return
	}

	rec, ok := ps.records[peer]
	if !ok {
		rec = types.NewPeerRecord(peer, nil)
		ps.records[peer] = rec
	}
	for _, addr := range addrs {
		if addr.IsEmpty() {
			continue
		}
		rec.AddAddr(addr)
	}
	rec.LastSeen = time.Now()
}

// Addrs 返回节点的已知地址副本
func (ps *Peerstore) Addrs(peer types.PeerID) []types.Addr {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	rec, ok := ps.records[peer]
	if !ok || len(rec.Addrs) == 0 {
		return nil
	}
	out := make([]types.Addr, len(rec.Addrs))
	copy(out, rec.Addrs)
	return out
}

// Get 返回节点记录的副本
func (ps *Peerstore) Get(peer types.PeerID) (*types.PeerRecord, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	rec, ok := ps.records[peer]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// SetState 更新节点连接状态
//
// 节点未知时创建新记录再迁移。状态机只允许单调推进
// （Disconnected→Connecting 重试边除外），非法迁移被忽略。
func (ps *Peerstore) SetState(peer types.PeerID, state types.ConnState) {
	if peer.IsEmpty() {
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.closed {
		return
	}

	rec, ok := ps.records[peer]
	if !ok {
		rec = types.NewPeerRecord(peer, nil)
		ps.records[peer] = rec
	}
	if rec.State == state {
		rec.LastSeen = time.Now()
		return
	}
	if !rec.State.CanTransitionTo(state) {
		logger.Debug("忽略非法状态迁移",
			"peer", peer.ShortString(),
			"from", rec.State.String(),
			"to", state.String())
		return
	}
	rec.State = state
	rec.LastSeen = time.Now()
}

// SetIdentity 记录 hello 交换得到的完整客户端身份
func (ps *Peerstore) SetIdentity(peer types.PeerID, ident types.ClientIdentity) {
	if peer.IsEmpty() {
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.closed {
		return
	}

	rec, ok := ps.records[peer]
	if !ok {
		rec = types.NewPeerRecord(peer, nil)
		ps.records[peer] = rec
	}
	rec.Agent = ident
	rec.LastSeen = time.Now()
}

// Peers 返回所有已知节点 ID
func (ps *Peerstore) Peers() []types.PeerID {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]types.PeerID, 0, len(ps.records))
	for id := range ps.records {
		peers = append(peers, id)
	}
	return peers
}

// Remove 删除节点记录
func (ps *Peerstore) Remove(peer types.PeerID) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	delete(ps.records, peer)
}

// Len 返回记录数量
func (ps *Peerstore) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.records)
}

// Close 停止 janitor
func (ps *Peerstore) Close() error {
	ps.mu.Lock()
	if ps.closed {
		ps.mu.Unlock()
		return ErrClosed
	}
	ps.closed = true
	ps.mu.Unlock()

	close(ps.gcStop)
	<-ps.gcDone
	return nil
}

// ============================================================================
//                              Janitor
// ============================================================================

// janitor 周期清理过期记录
func (ps *Peerstore) janitor() {
	defer close(ps.gcDone)

	ticker := time.NewTicker(ps.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ps.gcOnce()
		case <-ps.gcStop:
			return
		}
	}
}

// gcOnce 执行一次过期清理
//
// Connected 状态的记录永不过期，其余记录按 LastSeen 判断。
func (ps *Peerstore) gcOnce() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	removed := 0
	for id, rec := range ps.records {
		if rec.State == types.ConnStateConnected {
			continue
		}
		if rec.IsExpired(ps.recordTTL) {
			delete(ps.records, id)
			removed++
		}
	}

	if removed > 0 {
		logger.Debug("已清理不活跃节点记录", "removed", removed, "remaining", len(ps.records))
	}
}
