package discovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	arc "github.com/hashicorp/golang-lru/arc/v2"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              条目与状态
// ============================================================================

// StoreFileName 种子文件名
const StoreFileName = "peers.json"

// storeFileVersion 种子文件格式版本
const storeFileVersion = 1

// unreachableThreshold 连续失败该次数后标记为不可达
const unreachableThreshold = 3

// PeerStatus 存储条目的可达性状态
type PeerStatus string

const (
	// StatusActive 近期有过成功交互
	StatusActive PeerStatus = "active"

	// StatusStale 超过静默期未见活动
	StatusStale PeerStatus = "stale"

	// StatusUnreachable 连续多次联络失败
	StatusUnreachable PeerStatus = "unreachable"
)

// StoredPeer 种子文件中的单个节点条目
type StoredPeer struct {
	ID        types.PeerID `json:"id"`
	Addrs     []types.Addr `json:"addrs"`
	LastSeen  time.Time    `json:"last_seen"`
	FailCount int          `json:"fail_count"`
	Status    PeerStatus   `json:"status"`
}

// storeFile 种子文件的顶层结构
type storeFile struct {
	Version int           `json:"version"`
	Peers   []*StoredPeer `json:"peers"`
}

// ============================================================================
//                              Store
// ============================================================================

// Store 种子文件存储
//
// 热集放在 ARC 缓存里，缓存容量就是持久化容量：挤出缓存的冷条目
// 不再落盘。快照定时写出，停机时强制落盘。
type Store struct {
	path       string
	staleAfter time.Duration

	cache *arc.ARCCache[types.PeerID, *StoredPeer]

	mu    sync.Mutex
	dirty bool

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewStore 创建种子存储
func NewStore(dir string, cacheSize int, staleAfter time.Duration) (*Store, error) {
	cache, err := arc.NewARC[types.PeerID, *StoredPeer](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("discovery: create store cache: %w", err)
	}
	return &Store{
		path:       filepath.Join(dir, StoreFileName),
		staleAfter: staleAfter,
		cache:      cache,
		done:       make(chan struct{}),
	}, nil
}

// Load 读入种子文件并填充缓存，返回载入的条目
//
// 文件不存在不算错误。
func (s *Store) Load() ([]*StoredPeer, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("discovery: read %s: %w", s.path, err)
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("discovery: parse %s: %w", s.path, err)
	}

	loaded := make([]*StoredPeer, 0, len(f.Peers))
	for _, p := range f.Peers {
		if p == nil || p.ID.IsEmpty() || len(p.Addrs) == 0 {
			continue
		}
		s.cache.Add(p.ID, p)
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// Upsert 记录一次与节点的成功交互
func (s *Store) Upsert(id types.PeerID, addrs []types.Addr, now time.Time) {
	if id.IsEmpty() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.cache.Get(id); ok {
		p.Addrs = mergeAddrs(p.Addrs, addrs)
		p.LastSeen = now
		p.FailCount = 0
		p.Status = StatusActive
	} else {
		s.cache.Add(id, &StoredPeer{
			ID:       id,
			Addrs:    append([]types.Addr(nil), addrs...),
			LastSeen: now,
			Status:   StatusActive,
		})
	}
	s.dirty = true
}

// RecordFailure 记录一次联络失败
func (s *Store) RecordFailure(id types.PeerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.cache.Get(id)
	if !ok {
		return
	}
	p.FailCount++
	if p.FailCount >= unreachableThreshold {
		p.Status = StatusUnreachable
	}
	s.dirty = true
}

// Candidates 返回引导拨号候选的副本，按最近活跃降序
//
// 不可达条目排除在外。
func (s *Store) Candidates(limit int) []*StoredPeer {
	s.mu.Lock()
	var out []*StoredPeer
	for _, id := range s.cache.Keys() {
		p, ok := s.cache.Peek(id)
		if !ok || p.Status == StatusUnreachable || len(p.Addrs) == 0 {
			continue
		}
		c := *p
		c.Addrs = append([]types.Addr(nil), p.Addrs...)
		out = append(out, &c)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastSeen.After(out[j].LastSeen)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Len 返回存储的条目数
func (s *Store) Len() int {
	return s.cache.Len()
}

// Snapshot 把当前条目写出到种子文件
func (s *Store) Snapshot() error {
	s.mu.Lock()
	now := time.Now()
	peers := make([]*StoredPeer, 0, s.cache.Len())
	for _, id := range s.cache.Keys() {
		p, ok := s.cache.Peek(id)
		if !ok {
			continue
		}
		c := *p
		c.Addrs = append([]types.Addr(nil), p.Addrs...)
		if c.Status == StatusActive && now.Sub(c.LastSeen) > s.staleAfter {
			c.Status = StatusStale
		}
		peers = append(peers, &c)
	}
	s.dirty = false
	s.mu.Unlock()

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].LastSeen.After(peers[j].LastSeen)
	})

	data, err := json.MarshalIndent(storeFile{Version: storeFileVersion, Peers: peers}, "", "  ")
	if err != nil {
		return fmt.Errorf("discovery: marshal %s: %w", s.path, err)
	}
	if err := atomicWriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("discovery: write %s: %w", s.path, err)
	}
	return nil
}

// Start 启动快照定时器
func (s *Store) Start(interval time.Duration) {
	s.wg.Add(1)
	go s.run(interval)
}

// Close 停止定时器并强制落盘
func (s *Store) Close() error {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	return s.Snapshot()
}

func (s *Store) run(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			dirty := s.dirty
			s.mu.Unlock()
			if !dirty {
				continue
			}
			if err := s.Snapshot(); err != nil {
				logger.Warn("种子文件快照失败", "error", err)
			}
		case <-s.done:
			return
		}
	}
}

// atomicWriteFile 先写临时文件再原子改名，避免半写文件
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	success = true
	return nil
}
