package discovery

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// lookupTick 无事件唤醒时的兜底轮询间隔
const lookupTick = 100 * time.Millisecond

// candidate 迭代查询中的候选节点
type candidate struct {
	id    types.PeerID
	addrs []types.Addr
	key   Key
}

// lookupState 单次迭代查询的进度
type lookupState struct {
	svc    *Service
	target Key

	// mu 保护以下全部字段
	mu      sync.Mutex
	queried map[types.PeerID]struct{}
	pending []*candidate
	result  []*candidate
	running int

	wake chan struct{}
}

// lookup 对目标键执行一次迭代查询
//
// 从路由表中距目标最近的节点出发，每轮最多 Alpha 个并行查询，
// 应答中更近的候选继续追问，收敛到 BucketSize 个应答节点或
// 候选耗尽为止。返回按距离升序的应答节点。
func (s *Service) lookup(ctx context.Context, target Key) []*candidate {
	lk := &lookupState{
		svc:     s,
		target:  target,
		queried: make(map[types.PeerID]struct{}),
		wake:    make(chan struct{}, 1),
	}

	seeds := s.table.Closest(target, s.config.BucketSize)
	if len(seeds) == 0 {
		return nil
	}
	lk.mu.Lock()
	for _, e := range seeds {
		lk.addLocked(&candidate{id: e.ID, addrs: e.Addrs, key: e.key})
	}
	lk.mu.Unlock()

	lk.run(ctx)
	return lk.finish()
}

func (lk *lookupState) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		for _, c := range lk.takeBatch() {
			c := c
			go lk.queryOne(ctx, c)
		}

		lk.mu.Lock()
		enough := len(lk.result) >= lk.svc.config.BucketSize
		idle := lk.running == 0 && len(lk.pending) == 0
		lk.mu.Unlock()
		if enough || idle {
			return
		}

		select {
		case <-lk.wake:
		case <-time.After(lookupTick):
		case <-ctx.Done():
			return
		}
	}
}

// takeBatch 取出下一轮要查询的候选并计入 running
func (lk *lookupState) takeBatch() []*candidate {
	lk.mu.Lock()
	defer lk.mu.Unlock()

	slots := lk.svc.config.Alpha - lk.running
	if slots <= 0 {
		return nil
	}

	batch := make([]*candidate, 0, slots)
	for len(batch) < slots && len(lk.pending) > 0 {
		c := lk.pending[0]
		lk.pending = lk.pending[1:]
		if _, ok := lk.queried[c.id]; ok {
			continue
		}
		lk.queried[c.id] = struct{}{}
		batch = append(batch, c)
	}
	lk.running += len(batch)
	return batch
}

func (lk *lookupState) queryOne(ctx context.Context, c *candidate) {
	cands, err := lk.svc.queryPeer(ctx, c.id, lk.target)
	if err != nil {
		logger.Debug("候选节点无应答", "peer", c.id.ShortString(), "error", err)
	}

	lk.mu.Lock()
	lk.running--
	if err == nil {
		lk.result = append(lk.result, c)
		for _, nc := range cands {
			lk.addLocked(nc)
		}
	}
	lk.mu.Unlock()

	select {
	case lk.wake <- struct{}{}:
	default:
	}
}

// addLocked 把候选加入待查队列，按距目标升序维护
//
// 必须持有 lk.mu。队列封顶 2*BucketSize，更远的候选直接丢弃。
func (lk *lookupState) addLocked(c *candidate) {
	if _, ok := lk.queried[c.id]; ok {
		return
	}
	for _, p := range lk.pending {
		if p.id == c.id {
			return
		}
	}

	lk.pending = append(lk.pending, c)
	sort.Slice(lk.pending, func(i, j int) bool {
		return CompareDistance(lk.pending[i].key, lk.pending[j].key, lk.target) < 0
	})
	if limit := lk.svc.config.BucketSize * 2; len(lk.pending) > limit {
		lk.pending = lk.pending[:limit]
	}
}

// finish 返回按距离升序、截断到 BucketSize 的应答节点
func (lk *lookupState) finish() []*candidate {
	lk.mu.Lock()
	defer lk.mu.Unlock()

	sort.Slice(lk.result, func(i, j int) bool {
		return CompareDistance(lk.result[i].key, lk.result[j].key, lk.target) < 0
	})
	if len(lk.result) > lk.svc.config.BucketSize {
		lk.result = lk.result[:lk.svc.config.BucketSize]
	}
	return lk.result
}
