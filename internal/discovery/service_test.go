package discovery

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/mothra-net/go-mothra/internal/core/eventbus"
	"github.com/mothra-net/go-mothra/internal/core/muxer/yamux"
	"github.com/mothra-net/go-mothra/internal/core/peerstore"
	"github.com/mothra-net/go-mothra/internal/core/security/noise"
	"github.com/mothra-net/go-mothra/internal/core/swarm"
	"github.com/mothra-net/go-mothra/internal/core/transport/tcp"
	"github.com/mothra-net/go-mothra/internal/core/upgrader"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              测试辅助
// ============================================================================

type testNode struct {
	id   types.PeerID
	priv crypto.PrivateKey
	sw   *swarm.Swarm
	ps   pkgif.Peerstore
	bus  pkgif.EventBus
	svc  *Service
}

// newTestNode 组装一个监听回环地址、发现服务已启动的完整节点
func newTestNode(t *testing.T, mut func(*Config)) *testNode {
	t.Helper()

	priv, _, err := crypto.GenerateKeyPair(types.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	id, err := crypto.PeerIDFromPrivateKey(priv)
	if err != nil {
		t.Fatalf("PeerIDFromPrivateKey failed: %v", err)
	}
	sec, err := noise.New(priv)
	if err != nil {
		t.Fatalf("noise.New failed: %v", err)
	}
	up, err := upgrader.New([]pkgif.SecureTransport{sec}, []pkgif.Muxer{yamux.New()})
	if err != nil {
		t.Fatalf("upgrader.New failed: %v", err)
	}

	ps := peerstore.New()
	t.Cleanup(func() { ps.Close() })
	bus := eventbus.NewBus()

	sw, err := swarm.New(id, up,
		swarm.WithTransport(tcp.New()),
		swarm.WithPeerstore(ps),
		swarm.WithEventBus(bus),
	)
	if err != nil {
		t.Fatalf("swarm.New failed: %v", err)
	}
	t.Cleanup(func() { sw.Close() })

	la, err := types.ParseAddr("/ip4/127.0.0.1/tcp/0")
	if err != nil {
		t.Fatalf("ParseAddr failed: %v", err)
	}
	if err := sw.Listen(la); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	cfg := DefaultConfig()
	cfg.QueryTimeout = 3 * time.Second
	cfg.BootstrapTimeout = 5 * time.Second
	cfg.RefreshInterval = time.Hour
	if mut != nil {
		mut(cfg)
	}

	svc, err := New(id, priv, sw, ps, bus, WithConfig(cfg))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { svc.Stop() })

	return &testNode{id: id, priv: priv, sw: sw, ps: ps, bus: bus, svc: svc}
}

// seedAddr 返回节点的回环地址，带 /p2p 身份段
func seedAddr(t *testing.T, n *testNode) types.Addr {
	t.Helper()
	addrs := n.sw.ListenAddrs()
	if len(addrs) == 0 {
		t.Fatal("node has no listen addrs")
	}
	return addrs[0].WithPeer(n.id)
}

func bootstrapTo(t *testing.T, n *testNode) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := n.svc.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
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
	t.Fatalf("timeout waiting for: %s", msg)
}

// ============================================================================
//                              引导
// ============================================================================

func TestService_BootstrapConnects(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{seedAddr(t, a)}
	})

	bootstrapTo(t, b)

	if !b.svc.table.Contains(a.id) {
		t.Error("seed should be in the routing table after bootstrap")
	}
	if got := b.svc.TableSize(); got < 1 {
		t.Errorf("TableSize = %d, expected at least 1", got)
	}

	// 对端从入站查询学到我们
	waitFor(t, 5*time.Second, func() bool {
		return a.svc.table.Contains(b.id)
	}, "seed learning the new node")
}

func TestService_BootstrapAllSeedsFail(t *testing.T) {
	// 占个端口再关掉，得到一个必然拒绝连接的种子地址
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen failed: %v", err)
	}
	deadAddr, err := types.AddrFromNetAddr(ln.Addr(), false)
	if err != nil {
		t.Fatalf("AddrFromNetAddr failed: %v", err)
	}
	ln.Close()
	_, deadID := newTestIdentity(t, types.KeyTypeEd25519)

	b := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{deadAddr.WithPeer(deadID)}
		c.BootstrapTimeout = 2 * time.Second
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err = b.svc.Bootstrap(ctx)
	if err == nil {
		t.Fatal("Bootstrap with only a dead seed should fail")
	}
	if !types.IsStartupError(err) {
		t.Errorf("error %v should be a StartupError", err)
	}
	if !errors.Is(err, ErrAllSeedsFailed) {
		t.Errorf("error %v should wrap ErrAllSeedsFailed", err)
	}
}

func TestService_BootstrapWithoutSeeds(t *testing.T) {
	b := newTestNode(t, nil)

	// 没配种子不算失败，节点以孤立状态等待入站
	if err := b.svc.Bootstrap(context.Background()); err != nil {
		t.Errorf("Bootstrap without seeds = %v, expected nil", err)
	}
}

// ============================================================================
//                              查找
// ============================================================================

func TestService_FindPeerAcrossNetwork(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{seedAddr(t, a)}
	})
	c := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{seedAddr(t, a)}
	})

	bootstrapTo(t, b)
	bootstrapTo(t, c)

	// b 与 c 素未谋面，只有共同的种子 a 认识双方
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rec, err := b.svc.FindPeer(ctx, c.id)
	if err != nil {
		t.Fatalf("FindPeer failed: %v", err)
	}
	if !rec.ID.Equal(c.id) {
		t.Errorf("found peer = %s, expected %s", rec.ID, c.id)
	}
	if len(rec.Addrs) == 0 {
		t.Error("found record should carry dialable addrs")
	}
}

func TestService_FindPeerUnknown(t *testing.T) {
	b := newTestNode(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := b.svc.FindPeer(ctx, randomPeerID(t)); !errors.Is(err, ErrPeerNotFound) {
		t.Errorf("FindPeer = %v, expected ErrPeerNotFound", err)
	}
	if _, err := b.svc.FindPeer(ctx, b.id); !errors.Is(err, ErrPeerNotFound) {
		t.Errorf("FindPeer(self) = %v, expected ErrPeerNotFound", err)
	}
}

func TestService_ClosestPeersAndKnownPeers(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{seedAddr(t, a)}
	})

	bootstrapTo(t, b)

	known := b.svc.KnownPeers()
	if len(known) == 0 {
		t.Fatal("KnownPeers should not be empty after bootstrap")
	}
	found := false
	for _, p := range known {
		if p.Equal(a.id) {
			found = true
		}
	}
	if !found {
		t.Error("KnownPeers should include the seed")
	}

	closest := b.svc.ClosestPeers(a.id, 10)
	if len(closest) == 0 {
		t.Fatal("ClosestPeers should not be empty")
	}
	if !closest[0].ID.Equal(a.id) {
		t.Errorf("closest to a = %s, expected a itself", closest[0].ID)
	}
}

// ============================================================================
//                              发现事件
// ============================================================================

func TestService_DiscoveryEventExactlyOnce(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{seedAddr(t, a)}
	})

	sub, err := b.bus.Subscribe(new(types.EvtPeerDiscovered))
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Close()

	bootstrapTo(t, b)

	select {
	case e := <-sub.Out():
		evt := e.(*types.EvtPeerDiscovered)
		if !evt.Peer.Equal(a.id) {
			t.Errorf("event peer = %s, expected %s", evt.Peer, a.id)
		}
		if evt.Source != "bootstrap" {
			t.Errorf("event source = %q, expected bootstrap", evt.Source)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no EvtPeerDiscovered received")
	}

	// 再次联系同一节点不应再发事件
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := b.svc.queryPeer(ctx, a.id, b.svc.localKey); err != nil {
		t.Fatalf("queryPeer failed: %v", err)
	}

	select {
	case e := <-sub.Out():
		t.Fatalf("unexpected second event: %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestService_InboundDiscoveryEvent(t *testing.T) {
	a := newTestNode(t, nil)

	sub, err := a.bus.Subscribe(new(types.EvtPeerDiscovered))
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Close()

	b := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{seedAddr(t, a)}
	})
	bootstrapTo(t, b)

	select {
	case e := <-sub.Out():
		evt := e.(*types.EvtPeerDiscovered)
		if !evt.Peer.Equal(b.id) {
			t.Errorf("event peer = %s, expected %s", evt.Peer, b.id)
		}
		if evt.Source != "inbound" {
			t.Errorf("event source = %q, expected inbound", evt.Source)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no inbound EvtPeerDiscovered received")
	}
}

// ============================================================================
//                              协议防护
// ============================================================================

func TestService_HandlerRejectsMalformedTarget(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{seedAddr(t, a)}
	})
	bootstrapTo(t, b)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := b.sw.NewStream(ctx, a.id, ProtocolID)
	if err != nil {
		t.Fatalf("NewStream failed: %v", err)
	}
	defer st.Close()
	_ = st.SetDeadline(time.Now().Add(3 * time.Second))

	if err := wire.WriteFrame(st, &wire.FindNode{Target: []byte{1, 2, 3}}); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	// 目标键长度非法，对端应直接关流不作应答
	var resp wire.Nodes
	if err := wire.ReadFrame(st, &resp); err == nil {
		t.Error("expected no response to a malformed target")
	}
}

func TestService_HandlerIgnoresForeignSenderRecord(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{seedAddr(t, a)}
	})
	bootstrapTo(t, b)

	// 第三方的合法签名记录，由 b 冒名转交
	foreignPriv, foreignID := newTestIdentity(t, types.KeyTypeEd25519)
	foreignRec, err := BuildRecord(foreignPriv, foreignID,
		[]types.Addr{mustParseAddr(t, "/ip4/10.9.9.9/tcp/4001")}, 1)
	if err != nil {
		t.Fatalf("BuildRecord failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := b.sw.NewStream(ctx, a.id, ProtocolID)
	if err != nil {
		t.Fatalf("NewStream failed: %v", err)
	}
	defer st.Close()
	_ = st.SetDeadline(time.Now().Add(3 * time.Second))

	target := KeyForPeer(randomPeerID(t))
	if err := wire.WriteFrame(st, &wire.FindNode{Target: target[:], Sender: foreignRec}); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	// 查询照常应答，但冒名记录不得入表
	var resp wire.Nodes
	if err := wire.ReadFrame(st, &resp); err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if a.svc.table.Contains(foreignID) {
		t.Error("impersonated record must not enter the routing table")
	}
}

// ============================================================================
//                              维护与淘汰
// ============================================================================

func TestService_RefreshEvictsUnreachable(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{seedAddr(t, a)}
		c.StaleTTL = 50 * time.Millisecond
		c.QueryTimeout = 2 * time.Second
	})
	bootstrapTo(t, b)

	if !b.svc.table.Contains(a.id) {
		t.Fatal("seed should be in the table")
	}

	// 干掉种子再等条目过期，刷新应将其验证淘汰
	if err := a.svc.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := a.sw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	b.svc.refresh(context.Background())

	if b.svc.table.Contains(a.id) {
		t.Error("unreachable peer should be evicted by refresh")
	}
}

// ============================================================================
//                              种子持久化
// ============================================================================

func TestService_SeedPersistenceAcrossRestart(t *testing.T) {
	dir := t.TempDir()

	a := newTestNode(t, nil)
	b := newTestNode(t, func(c *Config) {
		c.BootPeers = []types.Addr{seedAddr(t, a)}
		c.DataDir = dir
	})
	bootstrapTo(t, b)

	if err := b.svc.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	// 同一数据目录的新节点不配种子，靠种子文件找回 a
	b2 := newTestNode(t, func(c *Config) {
		c.DataDir = dir
	})
	bootstrapTo(t, b2)

	if !b2.svc.table.Contains(a.id) {
		t.Error("restarted node should reconnect via the persisted seed file")
	}
}

// ============================================================================
//                              生命周期
// ============================================================================

func TestService_Lifecycle(t *testing.T) {
	b := newTestNode(t, nil)

	if err := b.svc.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start = %v, expected ErrAlreadyStarted", err)
	}

	if err := b.svc.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := b.svc.Stop(); err != nil {
		t.Errorf("repeat Stop = %v, expected nil", err)
	}

	if _, err := b.svc.FindPeer(context.Background(), randomPeerID(t)); !errors.Is(err, ErrDiscoveryClosed) {
		t.Errorf("FindPeer after Stop = %v, expected ErrDiscoveryClosed", err)
	}
	if err := b.svc.Bootstrap(context.Background()); !errors.Is(err, ErrDiscoveryClosed) {
		t.Errorf("Bootstrap after Stop = %v, expected ErrDiscoveryClosed", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	bad := DefaultConfig()
	bad.BucketSize = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero BucketSize = %v, expected ErrInvalidConfig", err)
	}

	bad = DefaultConfig()
	bad.Alpha = -1
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative Alpha = %v, expected ErrInvalidConfig", err)
	}

	bad = DefaultConfig()
	bad.BootPeers = []types.Addr{mustParseAddr(t, "/ip4/10.0.0.1/tcp/4001")}
	if err := bad.Validate(); !errors.Is(err, ErrSeedMissingPeer) {
		t.Errorf("seed without /p2p = %v, expected ErrSeedMissingPeer", err)
	}
}
