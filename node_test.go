package mothra

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mothra-net/go-mothra/config"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              测试辅助
// ============================================================================

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for: %s", msg)
}

// peerSet 线程安全的节点集合，收集发现回调
type peerSet struct {
	mu    sync.Mutex
	peers map[types.PeerID]struct{}
}

func newPeerSet() *peerSet {
	return &peerSet{peers: make(map[types.PeerID]struct{})}
}

func (s *peerSet) add(p types.PeerID) {
	s.mu.Lock()
	s.peers[p] = struct{}{}
	s.mu.Unlock()
}

func (s *peerSet) has(p types.PeerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.peers[p]
	return ok
}

// stopOnCleanup 测试失败中途退出时兜底停止节点
func stopOnCleanup(t *testing.T, n *Node) {
	t.Helper()
	t.Cleanup(func() {
		if n.IsRunning() {
			_ = n.Stop(context.Background())
		}
	})
}

// ============================================================================
//                              构造与选项
// ============================================================================

// TestNew_Defaults 默认选项下的初始状态
func TestNew_Defaults(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := n.State(); got != StateIdle {
		t.Errorf("State() = %v, want %v", got, StateIdle)
	}
	if n.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
	if !n.ID().IsEmpty() {
		t.Errorf("ID() = %v, want empty before Start", n.ID())
	}
	if addrs := n.ListenAddrs(); addrs != nil {
		t.Errorf("ListenAddrs() = %v, want nil before Start", addrs)
	}
	if topics := n.Topics(); topics != nil {
		t.Errorf("Topics() = %v, want nil before Start", topics)
	}
	if reg := n.MetricsRegistry(); reg != nil {
		t.Error("MetricsRegistry() != nil before Start")
	}
	if n.config.Network.ListenPort != 9000 {
		t.Errorf("default listen port = %d, want 9000", n.config.Network.ListenPort)
	}
}

// TestNew_OptionErrors 非法选项立即报错
func TestNew_OptionErrors(t *testing.T) {
	cases := []struct {
		name string
		opt  Option
	}{
		{"NilConfig", WithConfig(nil)},
		{"PortOutOfRange", WithListenPort(70000)},
		{"NegativePort", WithListenPort(-1)},
		{"EmptyClientName", WithClientIdentity("", "1.0", "")},
		{"EmptyDataDir", WithDataDir("")},
		{"EmptyListenAddrs", WithListenAddrs()},
		{"NilPrivateKey", WithPrivateKey(nil)},
		{"EmptyLogLevel", WithLogLevel("")},
		{"NilPeerHandler", WithPeerDiscoveredHandler(nil)},
		{"NilGossipHandler", WithGossipHandler(nil)},
		{"NilRPCHandler", WithRPCHandler(nil)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.opt); err == nil {
				t.Error("New() succeeded, want error")
			}
		})
	}
}

// TestOptions_Overlay 选项在 WithConfig 之上逐项覆盖
func TestOptions_Overlay(t *testing.T) {
	base := config.DefaultConfig()
	base.Network.ListenPort = 7000
	base.Gossip.Topics = []string{"/base/topic"}

	n, err := New(
		WithConfig(base),
		WithListenPort(7001),
		WithClientIdentity("myapp", "2.0.0", ""),
		WithTopics("/override/a", "/override/b"),
		WithBootPeers("/ip4/10.0.0.1/tcp/9000/p2p/placeholder"),
		WithDataDir("/tmp/mothra-test"),
		WithLogLevel("debug"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if n.config.Network.ListenPort != 7001 {
		t.Errorf("ListenPort = %d, want 7001", n.config.Network.ListenPort)
	}
	if n.config.Client.Name != "myapp" || n.config.Client.Version != "2.0.0" {
		t.Errorf("Client = %+v, want myapp/2.0.0", n.config.Client)
	}
	if len(n.config.Gossip.Topics) != 2 || n.config.Gossip.Topics[0] != "/override/a" {
		t.Errorf("Topics = %v, want override pair", n.config.Gossip.Topics)
	}
	if len(n.config.Discovery.BootPeers) != 1 {
		t.Errorf("BootPeers = %v, want one entry", n.config.Discovery.BootPeers)
	}
	if n.config.Storage.DataDir != "/tmp/mothra-test" {
		t.Errorf("DataDir = %q", n.config.Storage.DataDir)
	}
	if n.config.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", n.config.Log.Level)
	}
}

// TestOptions_CopySlices 切片选项复制入参，后续修改互不影响
func TestOptions_CopySlices(t *testing.T) {
	topics := []string{"/a"}
	n, err := New(WithTopics(topics...))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	topics[0] = "/mutated"
	if n.config.Gossip.Topics[0] != "/a" {
		t.Errorf("Topics[0] = %q, want %q", n.config.Gossip.Topics[0], "/a")
	}
}

// ============================================================================
//                              生命周期
// ============================================================================

// TestNode_OpsBeforeStart 启动前的操作统一返回未启动错误
func TestNode_OpsBeforeStart(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := n.Stop(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Stop() = %v, want ErrNotStarted", err)
	}
	if err := n.PublishGossip("/t", []byte("x")); !errors.Is(err, ErrNotStarted) {
		t.Errorf("PublishGossip() = %v, want ErrNotStarted", err)
	}
	if err := n.Subscribe("/t"); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Subscribe() = %v, want ErrNotStarted", err)
	}
	if err := n.Unsubscribe("/t"); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Unsubscribe() = %v, want ErrNotStarted", err)
	}

	key, err := n.SendRequest(types.PeerID{}, "status", nil)
	if !errors.Is(err, ErrNotStarted) {
		t.Errorf("SendRequest() = %v, want ErrNotStarted", err)
	}
	if key != types.EmptyCorrelationKey {
		t.Errorf("SendRequest() key = %v, want empty", key)
	}
	if err := n.SendResponse(types.PeerID{}, "status", nil); !errors.Is(err, ErrNotStarted) {
		t.Errorf("SendResponse() = %v, want ErrNotStarted", err)
	}

	if _, ok := n.PeerAgent(types.PeerID{}); ok {
		t.Error("PeerAgent() reported ok before Start")
	}
}

// TestStart_InvalidConfig 非法配置以启动错误返回，节点保持未启动
func TestStart_InvalidConfig(t *testing.T) {
	n, err := New(WithLogLevel("verbose"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = n.Start(context.Background())
	if err == nil {
		t.Fatal("Start() succeeded with invalid log level")
	}
	if !types.IsStartupError(err) {
		t.Errorf("Start() error %v is not a StartupError", err)
	}
	if !strings.Contains(err.Error(), "config") {
		t.Errorf("Start() error %q does not name the config step", err)
	}
	if got := n.State(); got != StateIdle {
		t.Errorf("State() = %v after config failure, want %v", got, StateIdle)
	}
}

// TestNode_Lifecycle 单节点的完整生命周期
func TestNode_Lifecycle(t *testing.T) {
	n, err := New(
		WithListenAddrs("/ip4/127.0.0.1/tcp/0"),
		WithClientIdentity("lifecycle", "0.3.0", ""),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stopOnCleanup(t, n)

	if err := n.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if got := n.State(); got != StateRunning {
		t.Errorf("State() = %v, want %v", got, StateRunning)
	}
	if !n.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if n.ID().IsEmpty() {
		t.Error("ID() empty after Start")
	}
	addrs := n.ListenAddrs()
	if len(addrs) == 0 {
		t.Fatal("ListenAddrs() empty after Start")
	}
	if addrs[0].Port == 0 {
		t.Errorf("ListenAddrs()[0] = %v, want resolved port", addrs[0])
	}
	if n.MetricsRegistry() == nil {
		t.Error("MetricsRegistry() = nil after Start")
	}

	if err := n.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() = %v, want ErrAlreadyStarted", err)
	}

	// 动态订阅与退订
	if err := n.Subscribe("/mothra/dynamic"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if topics := n.Topics(); len(topics) != 1 || topics[0] != "/mothra/dynamic" {
		t.Errorf("Topics() = %v, want [/mothra/dynamic]", topics)
	}
	if err := n.Subscribe("/mothra/dynamic"); err != nil {
		t.Errorf("repeated Subscribe: %v", err)
	}
	if err := n.Unsubscribe("/mothra/dynamic"); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if topics := n.Topics(); len(topics) != 0 {
		t.Errorf("Topics() = %v after Unsubscribe, want empty", topics)
	}

	if err := n.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := n.State(); got != StateStopped {
		t.Errorf("State() = %v after Stop, want %v", got, StateStopped)
	}

	// 生命周期单向：停止后不可重启，命令统一拒绝
	if err := n.Start(context.Background()); !errors.Is(err, ErrNodeStopped) {
		t.Errorf("Start() after Stop = %v, want ErrNodeStopped", err)
	}
	if err := n.Stop(context.Background()); !errors.Is(err, ErrNodeStopped) {
		t.Errorf("Stop() after Stop = %v, want ErrNodeStopped", err)
	}
	if err := n.PublishGossip("/t", []byte("x")); !errors.Is(err, ErrNodeStopped) {
		t.Errorf("PublishGossip() after Stop = %v, want ErrNodeStopped", err)
	}
}

// ============================================================================
//                              双节点回路
// ============================================================================

// TestTwoNodeRoundTrip 两个节点经引导互联后的完整回路：
// 发现回调、八卦投递、RPC 请求应答和对端 agent 查询。
func TestTwoNodeRoundTrip(t *testing.T) {
	const topic = "/mothra/test/chat"

	type gossipMsg struct {
		from    types.PeerID
		payload string
	}

	disc1 := newPeerSet()
	gossip1 := make(chan gossipMsg, 16)
	rpc1 := make(chan RPCEvent, 16)

	node1, err := New(
		WithListenAddrs("/ip4/127.0.0.1/tcp/0"),
		WithClientIdentity("alpha", "0.3.0", "go-mothra/alpha"),
		WithTopics(topic),
		WithPeerDiscoveredHandler(disc1.add),
		WithGossipHandler(func(_ types.MessageID, from types.PeerID, tp string, payload []byte) {
			if tp == topic {
				gossip1 <- gossipMsg{from: from, payload: string(payload)}
			}
		}),
		WithRPCHandler(func(ev RPCEvent) { rpc1 <- ev }),
	)
	if err != nil {
		t.Fatalf("new node1: %v", err)
	}
	stopOnCleanup(t, node1)

	if err := node1.Start(context.Background()); err != nil {
		t.Fatalf("start node1: %v", err)
	}

	addrs := node1.ListenAddrs()
	if len(addrs) == 0 {
		t.Fatal("node1 has no listen addrs")
	}
	bootAddr := addrs[0].WithPeer(node1.ID()).String()

	disc2 := newPeerSet()
	rpc2 := make(chan RPCEvent, 16)

	node2, err := New(
		WithListenAddrs("/ip4/127.0.0.1/tcp/0"),
		WithClientIdentity("beta", "0.3.0", "go-mothra/beta"),
		WithBootPeers(bootAddr),
		WithPeerDiscoveredHandler(disc2.add),
		WithRPCHandler(func(ev RPCEvent) { rpc2 <- ev }),
	)
	if err != nil {
		t.Fatalf("new node2: %v", err)
	}
	stopOnCleanup(t, node2)

	if err := node2.Start(context.Background()); err != nil {
		t.Fatalf("start node2: %v", err)
	}

	// 双向发现回调
	waitFor(t, 10*time.Second, func() bool { return disc2.has(node1.ID()) },
		"node2 discovering node1")
	waitFor(t, 10*time.Second, func() bool { return disc1.has(node2.ID()) },
		"node1 discovering node2")

	// hello 交换上报的 agent
	waitFor(t, 10*time.Second, func() bool {
		agent, ok := node1.PeerAgent(node2.ID())
		return ok && agent == "go-mothra/beta"
	}, "node1 learning node2 agent")
	if agent, ok := node2.PeerAgent(node1.ID()); !ok || agent != "go-mothra/alpha" {
		t.Errorf("node2.PeerAgent(node1) = %q, %v", agent, ok)
	}

	// 八卦投递：node1 启动时已订阅，node2 的兴趣表就绪后发布即达。
	// 订阅通告与链路建立异步，轮询期间用互异负载反复发布。
	var got gossipMsg
	deadline := time.Now().Add(10 * time.Second)
	for got.payload == "" {
		if time.Now().After(deadline) {
			t.Fatal("gossip message not delivered to node1")
		}
		payload := fmt.Sprintf("hello-%d", time.Now().UnixNano())
		if err := node2.PublishGossip(topic, []byte(payload)); err != nil {
			t.Fatalf("PublishGossip: %v", err)
		}
		select {
		case got = <-gossip1:
		case <-time.After(200 * time.Millisecond):
		}
	}
	if !got.from.Equal(node2.ID()) {
		t.Errorf("gossip origin = %v, want node2 %v", got.from, node2.ID())
	}
	if !strings.HasPrefix(got.payload, "hello-") {
		t.Errorf("gossip payload = %q", got.payload)
	}

	// RPC 请求应答回路
	key, err := node2.SendRequest(node1.ID(), "status", []byte("ping"))
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if key == types.EmptyCorrelationKey {
		t.Fatal("SendRequest returned empty correlation key")
	}

	var req RPCEvent
	select {
	case req = <-rpc1:
	case <-time.After(10 * time.Second):
		t.Fatal("node1 did not receive inbound request event")
	}
	if req.Kind != types.RPCKindRequest {
		t.Fatalf("inbound event kind = %v, want request", req.Kind)
	}
	if !req.Peer.Equal(node2.ID()) || req.Method != "status" || string(req.Payload) != "ping" {
		t.Errorf("inbound request = %+v", req)
	}

	if err := node1.SendResponse(node2.ID(), "status", []byte("pong")); err != nil {
		t.Fatalf("SendResponse: %v", err)
	}

	var resp RPCEvent
	select {
	case resp = <-rpc2:
	case <-time.After(10 * time.Second):
		t.Fatal("node2 did not receive response event")
	}
	if resp.Kind != types.RPCKindResponse {
		t.Fatalf("response event kind = %v, want response", resp.Kind)
	}
	if resp.Correlation != key {
		t.Errorf("response correlation = %v, want %v", resp.Correlation, key)
	}
	if !resp.Peer.Equal(node1.ID()) || string(resp.Payload) != "pong" {
		t.Errorf("response event = %+v", resp)
	}

	if err := node2.Stop(context.Background()); err != nil {
		t.Errorf("stop node2: %v", err)
	}
	if err := node1.Stop(context.Background()); err != nil {
		t.Errorf("stop node1: %v", err)
	}
}
