package discovery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// maxStoredSeeds 从种子文件取的引导候选上限
const maxStoredSeeds = 32

// bootstrapSeed 一个已解析的引导目标
type bootstrapSeed struct {
	id    types.PeerID
	addrs []types.Addr
}

// Bootstrap 连接种子节点并做首次自查询
//
// 种子来自配置和上次运行留下的种子文件。逐个并行拨号，任一成功
// 即算引导成功；全部失败返回启动错误。没有任何种子时不报错，
// 节点以孤立状态等待入站连接。
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.closed.Load() {
		return ErrDiscoveryClosed
	}
	if !s.started.Load() {
		return ErrNotStarted
	}

	seeds := s.collectSeeds(ctx)
	if len(seeds) == 0 {
		if len(s.config.BootPeers) > 0 {
			return types.NewStartupError("bootstrap", ErrNoSeeds)
		}
		logger.Warn("未配置引导种子，等待入站连接")
		return nil
	}

	var connected atomic.Int32
	var mu sync.Mutex
	var lastErr error

	var g errgroup.Group
	g.SetLimit(s.config.BootstrapParallelism)
	for _, seed := range seeds {
		seed := seed
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.config.BootstrapTimeout)
			defer cancel()

			s.peerstore.AddAddrs(seed.id, seed.addrs...)
			if _, err := s.swarm.DialPeer(cctx, seed.id); err != nil {
				logger.Warn("种子节点连接失败",
					"peer", seed.id.ShortString(), "error", err)
				mu.Lock()
				lastErr = err
				mu.Unlock()
				if s.store != nil {
					s.store.RecordFailure(seed.id)
				}
				return nil
			}
			connected.Add(1)
			s.admitContacted(seed.id, seed.addrs, nil, "bootstrap")
			return nil
		})
	}
	_ = g.Wait()

	if connected.Load() == 0 {
		err := ErrAllSeedsFailed
		if lastErr != nil {
			err = fmt.Errorf("%w: %v", ErrAllSeedsFailed, lastErr)
		}
		return types.NewStartupError("bootstrap", err)
	}

	// 自查询填充近邻视野
	s.lookup(ctx, s.localKey)

	logger.Info("引导完成",
		"connected", connected.Load(),
		"seeds", len(seeds),
		"tableSize", s.table.Size())
	return nil
}

// collectSeeds 汇总并解析引导候选
//
// 配置种子优先，种子文件候选补充，按节点去重合并地址，DNS
// 地址在此解析为 IP 地址。
func (s *Service) collectSeeds(ctx context.Context) []bootstrapSeed {
	merged := make(map[types.PeerID][]types.Addr)
	order := make([]types.PeerID, 0, len(s.config.BootPeers))

	add := func(id types.PeerID, addrs []types.Addr) {
		if id.IsEmpty() || id == s.localID {
			return
		}
		if _, ok := merged[id]; !ok {
			order = append(order, id)
		}
		merged[id] = mergeAddrs(merged[id], addrs)
	}

	for _, a := range s.config.BootPeers {
		add(a.Peer, []types.Addr{a})
	}
	if s.store != nil {
		for _, p := range s.store.Candidates(maxStoredSeeds) {
			add(p.ID, p.Addrs)
		}
	}

	seeds := make([]bootstrapSeed, 0, len(order))
	for _, id := range order {
		addrs := s.resolver.ResolveAll(ctx, merged[id])
		if len(addrs) == 0 {
			logger.Warn("种子地址不可用", "peer", id.ShortString())
			continue
		}
		seeds = append(seeds, bootstrapSeed{id: id, addrs: addrs})
	}
	return seeds
}
