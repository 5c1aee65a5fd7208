package discovery

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("discovery")

// 确保 Service 实现发现接口
var _ pkgif.Discovery = (*Service)(nil)

// ============================================================================
//                              选项
// ============================================================================

// Option 服务配置选项
type Option func(*Service) error

// WithConfig 使用自定义配置
func WithConfig(cfg *Config) Option {
	return func(s *Service) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidConfig)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.config = cfg
		return nil
	}
}

// ============================================================================
//                              Service
// ============================================================================

// Service 节点发现服务
type Service struct {
	localID  types.PeerID
	localKey Key
	identity crypto.PrivateKey

	swarm     pkgif.Swarm
	peerstore pkgif.Peerstore
	eventbus  pkgif.EventBus
	config    *Config

	table    *Table
	store    *Store
	resolver *Resolver

	// mu 保护 records、announced 和 localRec
	mu        sync.Mutex
	records   map[types.PeerID]*wire.PeerRecord
	announced map[types.PeerID]struct{}
	localRec  *wire.PeerRecord

	emitDiscovered pkgif.Emitter

	loopCtx    context.Context
	loopCancel context.CancelFunc
	wg         sync.WaitGroup

	started atomic.Bool
	closed  atomic.Bool
}

// New 创建发现服务
func New(localID types.PeerID, identity crypto.PrivateKey, sw pkgif.Swarm, ps pkgif.Peerstore, bus pkgif.EventBus, opts ...Option) (*Service, error) {
	if localID.IsEmpty() {
		return nil, types.ErrInvalidPeerID
	}
	if identity == nil {
		return nil, fmt.Errorf("%w: nil identity", ErrInvalidConfig)
	}
	if sw == nil {
		return nil, fmt.Errorf("%w: nil swarm", ErrInvalidConfig)
	}
	if ps == nil {
		return nil, fmt.Errorf("%w: nil peerstore", ErrInvalidConfig)
	}

	s := &Service{
		localID:   localID,
		localKey:  KeyForPeer(localID),
		identity:  identity,
		swarm:     sw,
		peerstore: ps,
		eventbus:  bus,
		config:    DefaultConfig(),
		records:   make(map[types.PeerID]*wire.PeerRecord),
		announced: make(map[types.PeerID]struct{}),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.table = NewTable(localID, s.config.BucketSize, s.config.StaleTTL)
	s.resolver = NewResolver(s.config.DNSServer, s.config.QueryTimeout, s.config.DNSCacheTTL)

	if s.config.DataDir != "" {
		if err := os.MkdirAll(s.config.DataDir, 0o700); err != nil {
			return nil, fmt.Errorf("discovery: create data dir: %w", err)
		}
		store, err := NewStore(s.config.DataDir, s.config.StoreCacheSize, s.config.StaleTTL)
		if err != nil {
			return nil, err
		}
		s.store = store
	}

	return s, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动发现服务
//
// 注册流处理器、载入种子文件并开始周期刷新。引导需另行调用
// Bootstrap。
func (s *Service) Start(_ context.Context) error {
	if s.closed.Load() {
		return ErrDiscoveryClosed
	}
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	if s.eventbus != nil {
		em, err := s.eventbus.Emitter(new(types.EvtPeerDiscovered))
		if err != nil {
			return fmt.Errorf("discovery: create emitter: %w", err)
		}
		s.emitDiscovered = em
	}

	if s.store != nil {
		loaded, err := s.store.Load()
		if err != nil {
			// 种子文件损坏不阻断启动，引导仍可走配置的种子
			logger.Warn("种子文件载入失败", "error", err)
		}
		for _, p := range loaded {
			s.peerstore.AddAddrs(p.ID, p.Addrs...)
		}
		if len(loaded) > 0 {
			logger.Info("载入种子文件", "peers", len(loaded))
		}
		s.store.Start(s.config.SnapshotInterval)
	}

	s.swarm.SetStreamHandler(ProtocolID, s.handleStream)

	s.loopCtx, s.loopCancel = context.WithCancel(context.Background())
	s.wg.Add(1)
	go s.refreshLoop()

	logger.Info("发现服务已启动",
		"bucketSize", s.config.BucketSize,
		"alpha", s.config.Alpha,
		"refreshInterval", s.config.RefreshInterval)
	return nil
}

// Stop 停止发现服务
func (s *Service) Stop() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if s.started.Load() {
		s.swarm.RemoveStreamHandler(ProtocolID)
		s.loopCancel()
		s.wg.Wait()
	}

	var errs error
	if s.store != nil {
		errs = multierr.Append(errs, s.store.Close())
	}
	if s.emitDiscovered != nil {
		errs = multierr.Append(errs, s.emitDiscovered.Close())
	}

	logger.Info("发现服务已停止", "tableSize", s.table.Size())
	return errs
}

// ============================================================================
//                              查询接口
// ============================================================================

// FindPeer 查找指定节点的地址记录
func (s *Service) FindPeer(ctx context.Context, peer types.PeerID) (*types.PeerRecord, error) {
	if s.closed.Load() {
		return nil, ErrDiscoveryClosed
	}
	if peer.IsEmpty() {
		return nil, types.ErrInvalidPeerID
	}
	if peer == s.localID {
		return nil, ErrPeerNotFound
	}

	if rec, ok := s.localLookup(peer); ok {
		return rec, nil
	}

	s.lookup(ctx, KeyForPeer(peer))

	if rec, ok := s.localLookup(peer); ok {
		return rec, nil
	}
	return nil, ErrPeerNotFound
}

// localLookup 在路由表和节点存储中查找
func (s *Service) localLookup(peer types.PeerID) (*types.PeerRecord, bool) {
	if e, ok := s.table.Get(peer); ok {
		return s.buildPeerRecord(e), true
	}
	if rec, ok := s.peerstore.Get(peer); ok && len(rec.Addrs) > 0 {
		return rec, true
	}
	return nil, false
}

// ClosestPeers 返回路由表中距目标最近的节点记录
func (s *Service) ClosestPeers(target types.PeerID, limit int) []*types.PeerRecord {
	entries := s.table.Closest(KeyForPeer(target), limit)
	out := make([]*types.PeerRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.buildPeerRecord(e))
	}
	return out
}

// KnownPeers 返回路由表中的所有节点 ID
func (s *Service) KnownPeers() []types.PeerID {
	return s.table.Peers()
}

// TableSize 返回路由表节点总数
func (s *Service) TableSize() int {
	return s.table.Size()
}

// buildPeerRecord 优先取节点存储里的完整记录
func (s *Service) buildPeerRecord(e *entry) *types.PeerRecord {
	if rec, ok := s.peerstore.Get(e.ID); ok {
		return rec
	}
	return &types.PeerRecord{
		ID:       e.ID,
		Addrs:    e.Addrs,
		State:    types.ConnStateDiscovered,
		LastSeen: e.LastSeen,
	}
}

// ============================================================================
//                              节点准入
// ============================================================================

// admitContacted 接纳直接通信过的节点
//
// 进路由表、记地址、更新种子存储，首次见到时发布发现事件。
func (s *Service) admitContacted(id types.PeerID, addrs []types.Addr, rec *wire.PeerRecord, source string) {
	if id.IsEmpty() || id == s.localID {
		return
	}
	now := time.Now()

	if len(addrs) > 0 {
		s.peerstore.AddAddrs(id, addrs...)
	}
	if s.table.Add(id, addrs, now) {
		logger.Debug("节点进入路由表",
			"peer", id.ShortString(), "source", source, "tableSize", s.table.Size())
	}
	if s.store != nil {
		s.store.Upsert(id, addrs, now)
	}

	s.adoptRecord(id, rec)
	s.announce(id, addrs, source)
}

// learnListed 记录查询应答中罗列的第三方节点
//
// 只记地址和记录，不进路由表：入表资格要靠直接应答挣得。
func (s *Service) learnListed(id types.PeerID, addrs []types.Addr, rec *wire.PeerRecord, source string) {
	if id.IsEmpty() || id == s.localID {
		return
	}
	if len(addrs) > 0 {
		s.peerstore.AddAddrs(id, addrs...)
	}
	s.adoptRecord(id, rec)
	s.announce(id, addrs, source)
}

// adoptRecord 采信签名记录，序号不新于已有记录的忽略
func (s *Service) adoptRecord(id types.PeerID, rec *wire.PeerRecord) {
	if rec == nil {
		return
	}
	s.mu.Lock()
	cur, ok := s.records[id]
	if !ok || rec.Seq > cur.Seq {
		s.records[id] = rec
	}
	s.mu.Unlock()
}

// recordOf 返回已采信的签名记录
func (s *Service) recordOf(id types.PeerID) (*wire.PeerRecord, bool) {
	s.mu.Lock()
	rec, ok := s.records[id]
	s.mu.Unlock()
	return rec, ok
}

// announce 首次见到节点时发布发现事件
func (s *Service) announce(id types.PeerID, addrs []types.Addr, source string) {
	s.mu.Lock()
	if _, ok := s.announced[id]; ok {
		s.mu.Unlock()
		return
	}
	s.announced[id] = struct{}{}
	s.mu.Unlock()

	logger.Debug("发现新节点", "peer", id.ShortString(), "source", source, "addrs", len(addrs))
	if s.emitDiscovered == nil {
		return
	}
	if err := s.emitDiscovered.Emit(types.NewEvtPeerDiscovered(id, addrs, source)); err != nil {
		logger.Debug("发现事件发布失败", "peer", id.ShortString(), "error", err)
	}
}

// localRecord 返回本地节点的签名记录
//
// 监听地址就绪前不缓存，避免把空地址记录固化下来。
func (s *Service) localRecord() *wire.PeerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.localRec != nil {
		return s.localRec
	}
	addrs := s.swarm.ListenAddrs()
	rec, err := BuildRecord(s.identity, s.localID, addrs, uint64(time.Now().UnixNano()))
	if err != nil {
		logger.Error("构造本地签名记录失败", "error", err)
		return nil
	}
	if len(addrs) > 0 {
		s.localRec = rec
	}
	return rec
}

// ============================================================================
//                              周期刷新
// ============================================================================

func (s *Service) refreshLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh(s.loopCtx)
		case <-s.loopCtx.Done():
			return
		}
	}
}

// refresh 执行一轮路由表维护
//
// 自查询保持近邻视野，随机目标查询补充陈旧的桶，静默过久的
// 条目重新验证、失联即淘汰。
func (s *Service) refresh(ctx context.Context) {
	now := time.Now()

	s.lookup(ctx, s.localKey)
	s.table.MarkBucketRefreshed(KeySize-1, now)

	for _, idx := range s.table.BucketsNeedingRefresh(s.config.RefreshInterval, now) {
		if ctx.Err() != nil {
			return
		}
		s.lookup(ctx, s.table.RandomRefreshTarget(idx))
		s.table.MarkBucketRefreshed(idx, now)
	}

	s.reverifyStale(ctx, now)
	s.pruneAnnounced()
}

// reverifyStale 重新验证静默超限的条目
func (s *Service) reverifyStale(ctx context.Context, now time.Time) {
	stale := s.table.StaleEntries(now)
	if len(stale) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(s.config.Alpha)
	for _, e := range stale {
		e := e
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if _, err := s.queryPeer(ctx, e.ID, s.localKey); err != nil {
				s.evict(e.ID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// evict 把失联节点清出路由表
//
// 同时清掉 announced 标记：被淘汰后再次学到的节点允许重新发布
// 发现事件。
func (s *Service) evict(id types.PeerID, cause error) {
	if !s.table.Remove(id) {
		return
	}
	s.mu.Lock()
	delete(s.records, id)
	delete(s.announced, id)
	s.mu.Unlock()

	if s.store != nil {
		s.store.RecordFailure(id)
	}
	logger.Debug("节点验证失败被淘汰", "peer", id.ShortString(), "error", cause)
}

// pruneAnnounced 清理既不在路由表也不在节点存储中的发现标记
func (s *Service) pruneAnnounced() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.announced {
		if s.table.Contains(id) {
			continue
		}
		if _, ok := s.peerstore.Get(id); ok {
			continue
		}
		delete(s.announced, id)
		delete(s.records, id)
	}
}
