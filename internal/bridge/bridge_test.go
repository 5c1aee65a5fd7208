package bridge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              测试辅助
// ============================================================================

func pid(b byte) types.PeerID {
	var p types.PeerID
	p[0] = b
	return p
}

func mid(b byte) types.MessageID {
	var m types.MessageID
	m[0] = b
	return m
}

// recorder 记录回调到达顺序
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(ev string) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestBridge(t *testing.T, h Handlers, mut func(*Config)) *Bridge {
	t.Helper()

	cfg := DefaultConfig()
	if mut != nil {
		mut(cfg)
	}
	b, err := New(WithConfig(cfg), WithHandlers(h))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

// ============================================================================
//                              测试用例
// ============================================================================

func TestBridge_DeliversInOrderAcrossKinds(t *testing.T) {
	rec := &recorder{}
	h := Handlers{
		PeerDiscovered: func(peer types.PeerID) {
			rec.add("peer:" + string(rune('0'+peer[0])))
		},
		Gossip: func(id types.MessageID, from types.PeerID, topic string, payload []byte) {
			rec.add("gossip:" + topic + ":" + string(payload))
		},
		RPC: func(ev types.RPCEvent) {
			rec.add("rpc:" + ev.Kind.String() + ":" + ev.Method)
		},
	}
	b := newTestBridge(t, h, nil)

	b.NotifyPeerDiscovered(pid(1))
	b.NotifyGossip("blocks", pid(2), mid(1), []byte("alpha"))
	b.NotifyRPC(types.RPCEvent{Kind: types.RPCKindRequest, Peer: pid(2), Method: "status"})
	b.NotifyRPC(types.RPCEvent{
		Kind:   types.RPCKindFailure,
		Peer:   pid(2),
		Method: "status",
		Err:    errors.New("boom"),
	})
	b.NotifyPeerDiscovered(pid(3))

	waitFor(t, 3*time.Second, func() bool { return rec.count() == 5 }, "回调未全部到达")

	want := []string{
		"peer:1",
		"gossip:blocks:alpha",
		"rpc:request:status",
		"rpc:failure:status",
		"peer:3",
	}
	got := rec.snapshot()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("事件 %d: got %q want %q", i, got[i], want[i])
		}
	}
	if b.Dropped() != 0 {
		t.Fatalf("不应有丢弃: %d", b.Dropped())
	}
}

func TestBridge_OverflowDropsOldest(t *testing.T) {
	rec := &recorder{}
	entered := make(chan struct{})
	gate := make(chan struct{})
	var once sync.Once

	h := Handlers{
		Gossip: func(_ types.MessageID, _ types.PeerID, _ string, payload []byte) {
			rec.add(string(payload))
			once.Do(func() {
				close(entered)
				<-gate
			})
		},
	}
	b := newTestBridge(t, h, func(cfg *Config) {
		cfg.NotifyQueueSize = 4
	})

	// 第一条进入回调并阻塞分发协程，后续通知只能排队
	b.NotifyGossip("t", pid(1), mid(1), []byte("1"))
	<-entered

	for i := byte(2); i <= 7; i++ {
		b.NotifyGossip("t", pid(1), mid(i), []byte{'0' + i})
	}

	close(gate)

	waitFor(t, 3*time.Second, func() bool { return rec.count() == 5 }, "排空未完成")

	want := []string{"1", "4", "5", "6", "7"}
	got := rec.snapshot()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("事件 %d: got %q want %q", i, got[i], want[i])
		}
	}
	if b.Dropped() != 2 {
		t.Fatalf("Dropped = %d, want 2", b.Dropped())
	}
}

func TestBridge_SubmitExecutesSerially(t *testing.T) {
	b := newTestBridge(t, Handlers{}, nil)

	var mu sync.Mutex
	var order []int
	for i := 1; i <= 5; i++ {
		i := i
		if err := b.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}

	waitFor(t, 3*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 5
	}, "命令未全部执行")

	mu.Lock()
	defer mu.Unlock()
	for i := range order {
		if order[i] != i+1 {
			t.Fatalf("执行顺序 %v", order)
		}
	}
}

func TestBridge_SubmitFailsFastWhenFull(t *testing.T) {
	entered := make(chan struct{})
	gate := make(chan struct{})
	b := newTestBridge(t, Handlers{}, func(cfg *Config) {
		cfg.CommandQueueSize = 1
	})

	// 第一条命令占住执行协程，第二条占满队列
	if err := b.Submit(func() {
		close(entered)
		<-gate
	}); err != nil {
		t.Fatalf("Submit 1: %v", err)
	}
	<-entered

	executed := make(chan struct{})
	if err := b.Submit(func() { close(executed) }); err != nil {
		t.Fatalf("Submit 2: %v", err)
	}

	err := b.Submit(func() {})
	if err == nil {
		t.Fatal("队列满时 Submit 应当失败")
	}
	if !types.IsCapacityError(err) {
		t.Fatalf("期望容量错误, got %v", err)
	}
	if !strings.Contains(err.Error(), "bridge: command queue full") {
		t.Fatalf("错误文案不符: %v", err)
	}

	close(gate)
	select {
	case <-executed:
	case <-time.After(3 * time.Second):
		t.Fatal("排队命令未执行")
	}
}

func TestBridge_CloseDrainsPendingNotifications(t *testing.T) {
	rec := &recorder{}
	entered := make(chan struct{})
	gate := make(chan struct{})
	var once sync.Once

	h := Handlers{
		PeerDiscovered: func(peer types.PeerID) {
			rec.add(string(rune('0' + peer[0])))
			once.Do(func() {
				close(entered)
				<-gate
			})
		},
	}
	b, err := New(WithHandlers(h))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	b.NotifyPeerDiscovered(pid(1))
	<-entered
	b.NotifyPeerDiscovered(pid(2))
	b.NotifyPeerDiscovered(pid(3))

	closed := make(chan struct{})
	go func() {
		_ = b.Close()
		close(closed)
	}()
	close(gate)

	select {
	case <-closed:
	case <-time.After(3 * time.Second):
		t.Fatal("Close 未返回")
	}

	got := rec.snapshot()
	if len(got) != 3 {
		t.Fatalf("关闭时应排空全部通知, got %v", got)
	}
	for i, want := range []string{"1", "2", "3"} {
		if got[i] != want {
			t.Fatalf("事件 %d: got %q want %q", i, got[i], want)
		}
	}
}

func TestBridge_ClosedBridgeRejectsTraffic(t *testing.T) {
	rec := &recorder{}
	h := Handlers{
		PeerDiscovered: func(types.PeerID) { rec.add("peer") },
	}
	b, err := New(WithHandlers(h))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := b.Submit(func() {}); !errors.Is(err, ErrBridgeClosed) {
		t.Fatalf("关闭后 Submit: %v", err)
	}

	b.NotifyPeerDiscovered(pid(1))
	time.Sleep(50 * time.Millisecond)
	if rec.count() != 0 {
		t.Fatal("关闭后不应再投递通知")
	}
	if b.Dropped() != 0 {
		t.Fatalf("关闭后的通知不计入丢弃: %d", b.Dropped())
	}
}

func TestBridge_NilHandlersSkipSilently(t *testing.T) {
	b := newTestBridge(t, Handlers{}, nil)

	b.NotifyPeerDiscovered(pid(1))
	b.NotifyGossip("t", pid(1), mid(1), []byte("x"))
	b.NotifyRPC(types.RPCEvent{Kind: types.RPCKindResponse, Peer: pid(1), Method: "m"})

	time.Sleep(50 * time.Millisecond)
	if b.Dropped() != 0 {
		t.Fatalf("空回调不应产生丢弃: %d", b.Dropped())
	}
}

func TestBridge_Lifecycle(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := b.Submit(func() {}); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("启动前 Submit: %v", err)
	}

	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := b.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("重复 Start: %v", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("重复 Close: %v", err)
	}
	if err := b.Start(context.Background()); !errors.Is(err, ErrBridgeClosed) {
		t.Fatalf("关闭后 Start: %v", err)
	}
}

func TestBridge_NewValidatesArguments(t *testing.T) {
	if _, err := New(WithConfig(nil)); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("WithConfig(nil): %v", err)
	}

	bad := DefaultConfig()
	bad.NotifyQueueSize = 0
	if _, err := New(WithConfig(bad)); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("无效配置: %v", err)
	}

	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = b.Start(context.Background())
	t.Cleanup(func() { _ = b.Close() })
	if err := b.Submit(nil); err == nil {
		t.Fatal("Submit(nil) 应当失败")
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("默认配置应当有效: %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"command queue zero", func(c *Config) { c.CommandQueueSize = 0 }},
		{"command queue negative", func(c *Config) { c.CommandQueueSize = -1 }},
		{"notify queue zero", func(c *Config) { c.NotifyQueueSize = 0 }},
		{"notify queue negative", func(c *Config) { c.NotifyQueueSize = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mut(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("期望配置错误, got %v", err)
			}
		})
	}
}
