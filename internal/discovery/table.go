package discovery

import (
	"sort"
	"sync"
	"time"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              路由表条目
// ============================================================================

// entry 路由表条目
type entry struct {
	ID       types.PeerID
	Addrs    []types.Addr
	LastSeen time.Time

	key Key
}

// clone 返回条目副本（地址切片深拷贝）
func (e *entry) clone() *entry {
	c := *e
	c.Addrs = append([]types.Addr(nil), e.Addrs...)
	return &c
}

// bucket k-桶，条目按最近见到排序，队首最新
type bucket struct {
	entries []*entry

	lastRefresh time.Time
}

// find 返回条目下标，不存在返回 -1
func (b *bucket) find(id types.PeerID) int {
	for i, e := range b.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// moveToFront 把下标 i 的条目移到队首
func (b *bucket) moveToFront(i int) {
	if i == 0 {
		return
	}
	e := b.entries[i]
	copy(b.entries[1:i+1], b.entries[:i])
	b.entries[0] = e
}

// ============================================================================
//                              路由表
// ============================================================================

// Table 按 XOR 距离组织的路由表
//
// 桶号是条目键与本地键的公共前缀长度，每桶至多 k 条。桶满时
// 新条目只能顶替静默超过 staleTTL 的最久未见条目，活跃的老条目
// 优先保留：长期在线的节点比新来者更可能继续在线。
type Table struct {
	mu sync.RWMutex

	localID  types.PeerID
	localKey Key

	buckets  [KeySize]*bucket
	k        int
	staleTTL time.Duration

	size int
}

// NewTable 创建路由表
func NewTable(localID types.PeerID, k int, staleTTL time.Duration) *Table {
	t := &Table{
		localID:  localID,
		localKey: KeyForPeer(localID),
		k:        k,
		staleTTL: staleTTL,
	}
	for i := range t.buckets {
		t.buckets[i] = &bucket{}
	}
	return t
}

// Add 把节点加入路由表
//
// 已存在的条目合并地址并刷新活跃时间。返回值表示是否新插入。
func (t *Table) Add(id types.PeerID, addrs []types.Addr, now time.Time) bool {
	if id.IsEmpty() || id == t.localID {
		return false
	}
	key := KeyForPeer(id)

	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.buckets[bucketIndex(t.localKey, key)]
	if i := b.find(id); i >= 0 {
		e := b.entries[i]
		e.Addrs = mergeAddrs(e.Addrs, addrs)
		e.LastSeen = now
		b.moveToFront(i)
		return false
	}

	e := &entry{
		ID:       id,
		Addrs:    append([]types.Addr(nil), addrs...),
		LastSeen: now,
		key:      key,
	}

	if len(b.entries) < t.k {
		b.entries = append([]*entry{e}, b.entries...)
		t.size++
		return true
	}

	// 桶满：检查最久未见的条目是否已静默过期
	last := b.entries[len(b.entries)-1]
	if now.Sub(last.LastSeen) <= t.staleTTL {
		return false
	}
	b.entries = append([]*entry{e}, b.entries[:len(b.entries)-1]...)
	return true
}

// Touch 刷新节点的活跃时间，节点不在表中返回 false
func (t *Table) Touch(id types.PeerID, now time.Time) bool {
	key := KeyForPeer(id)

	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.buckets[bucketIndex(t.localKey, key)]
	i := b.find(id)
	if i < 0 {
		return false
	}
	b.entries[i].LastSeen = now
	b.moveToFront(i)
	return true
}

// Remove 从路由表中删除节点
func (t *Table) Remove(id types.PeerID) bool {
	key := KeyForPeer(id)

	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.buckets[bucketIndex(t.localKey, key)]
	i := b.find(id)
	if i < 0 {
		return false
	}
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
	t.size--
	return true
}

// Get 返回指定节点的条目副本
func (t *Table) Get(id types.PeerID) (*entry, bool) {
	key := KeyForPeer(id)

	t.mu.RLock()
	defer t.mu.RUnlock()

	b := t.buckets[bucketIndex(t.localKey, key)]
	i := b.find(id)
	if i < 0 {
		return nil, false
	}
	return b.entries[i].clone(), true
}

// Contains 判断节点是否在路由表中
func (t *Table) Contains(id types.PeerID) bool {
	key := KeyForPeer(id)

	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.buckets[bucketIndex(t.localKey, key)].find(id) >= 0
}

// Closest 返回距目标键最近的至多 limit 个条目，按距离升序
func (t *Table) Closest(target Key, limit int) []*entry {
	t.mu.RLock()
	all := make([]*entry, 0, t.size)
	for _, b := range t.buckets {
		for _, e := range b.entries {
			all = append(all, e.clone())
		}
	}
	t.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return CompareDistance(all[i].key, all[j].key, target) < 0
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

// Peers 返回路由表中的所有节点 ID
func (t *Table) Peers() []types.PeerID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]types.PeerID, 0, t.size)
	for _, b := range t.buckets {
		for _, e := range b.entries {
			out = append(out, e.ID)
		}
	}
	return out
}

// Size 返回路由表的条目总数
func (t *Table) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Entries 返回所有条目的副本（快照持久化用）
func (t *Table) Entries() []*entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*entry, 0, t.size)
	for _, b := range t.buckets {
		for _, e := range b.entries {
			out = append(out, e.clone())
		}
	}
	return out
}

// StaleEntries 返回静默超过 staleTTL 的条目
func (t *Table) StaleEntries(now time.Time) []*entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []*entry
	for _, b := range t.buckets {
		for _, e := range b.entries {
			if now.Sub(e.LastSeen) > t.staleTTL {
				out = append(out, e.clone())
			}
		}
	}
	return out
}

// BucketsNeedingRefresh 返回超过 interval 未刷新的桶号
//
// 只考察到最高非空桶再多一个的范围：更高的桶在当前网络规模下
// 几乎必然为空，对它们发起随机查询是纯浪费。多出的那一个让表
// 有机会向外扩张。
func (t *Table) BucketsNeedingRefresh(interval time.Duration, now time.Time) []int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	frontier := 0
	for i, b := range t.buckets {
		if len(b.entries) > 0 {
			frontier = i + 1
		}
	}
	if frontier >= KeySize {
		frontier = KeySize - 1
	}

	var out []int
	for i := 0; i <= frontier; i++ {
		b := t.buckets[i]
		if b.lastRefresh.IsZero() || now.Sub(b.lastRefresh) > interval {
			out = append(out, i)
		}
	}
	return out
}

// MarkBucketRefreshed 记录桶的刷新时间
func (t *Table) MarkBucketRefreshed(idx int, now time.Time) {
	if idx < 0 || idx >= KeySize {
		return
	}
	t.mu.Lock()
	t.buckets[idx].lastRefresh = now
	t.mu.Unlock()
}

// RandomRefreshTarget 返回落入指定桶的随机查询目标
func (t *Table) RandomRefreshTarget(idx int) Key {
	return randomKeyInBucket(t.localKey, idx)
}

// mergeAddrs 合并地址列表并去重
func mergeAddrs(dst, src []types.Addr) []types.Addr {
	for _, a := range src {
		dup := false
		for _, b := range dst {
			if a.Equal(b) {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, a)
		}
	}
	return dst
}
