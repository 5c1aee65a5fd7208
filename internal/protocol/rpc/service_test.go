package rpc

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

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

// rpcSink 记录经 Notifier 投递的 RPC 事件
type rpcSink struct {
	mu  sync.Mutex
	evs []types.RPCEvent
}

func (n *rpcSink) NotifyPeerDiscovered(types.PeerID) {}

func (n *rpcSink) NotifyGossip(string, types.PeerID, types.MessageID, []byte) {}

func (n *rpcSink) NotifyRPC(ev types.RPCEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.evs = append(n.evs, ev)
}

func (n *rpcSink) events() []types.RPCEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]types.RPCEvent(nil), n.evs...)
}

func (n *rpcSink) eventsOfKind(kind types.RPCEventKind) []types.RPCEvent {
	var out []types.RPCEvent
	for _, ev := range n.events() {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

type testNode struct {
	id   types.PeerID
	sw   *swarm.Swarm
	ps   pkgif.Peerstore
	sink *rpcSink
	svc  *Service
}

// newTestSwarm 组装一个监听回环地址的裸 Swarm
func newTestSwarm(t *testing.T) (types.PeerID, *swarm.Swarm, pkgif.Peerstore) {
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

	sw, err := swarm.New(id, up,
		swarm.WithTransport(tcp.New()),
		swarm.WithPeerstore(ps),
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
	return id, sw, ps
}

// newTestNode 组装一个 RPC 服务已启动的完整节点
func newTestNode(t *testing.T, mut func(*Config), opts ...Option) *testNode {
	t.Helper()

	id, sw, ps := newTestSwarm(t)
	sink := &rpcSink{}

	cfg := DefaultConfig()
	if mut != nil {
		mut(cfg)
	}
	opts = append([]Option{WithConfig(cfg)}, opts...)

	svc, err := New(id, sw, sink, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { svc.Close() })

	return &testNode{id: id, sw: sw, ps: ps, sink: sink, svc: svc}
}

// connect 建立 a 到 b 的会话
func connect(t *testing.T, a, b *testNode) {
	t.Helper()

	a.ps.AddAddrs(b.id, b.sw.ListenAddrs()...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := a.sw.DialPeer(ctx, b.id); err != nil {
		t.Fatalf("DialPeer failed: %v", err)
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
//                              请求响应往返
// ============================================================================

func TestService_RequestResponseRoundTrip(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)
	connect(t, a, b)

	payload := []byte("ping")
	key, err := a.svc.SendRequest(b.id, "status", payload)
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	if key.IsEmpty() {
		t.Fatal("SendRequest returned empty correlation key")
	}

	waitFor(t, 5*time.Second, func() bool {
		return len(b.sink.eventsOfKind(types.RPCKindRequest)) == 1
	}, "b receives the request")

	req := b.sink.eventsOfKind(types.RPCKindRequest)[0]
	if !req.IsRequest() {
		t.Fatal("event should report as request")
	}
	if !req.Peer.Equal(a.id) {
		t.Fatalf("request peer = %s, want %s", req.Peer, a.id)
	}
	if req.Method != "status" {
		t.Fatalf("request method = %s, want status", req.Method)
	}
	if !bytes.Equal(req.Payload, payload) {
		t.Fatalf("request payload = %q, want %q", req.Payload, payload)
	}
	if req.Correlation != key {
		t.Fatalf("correlation = %s, want %s", req.Correlation, key)
	}

	respPayload := []byte("pong")
	if err := b.svc.SendResponse(a.id, "status", respPayload); err != nil {
		t.Fatalf("SendResponse failed: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return len(a.sink.eventsOfKind(types.RPCKindResponse)) == 1
	}, "a receives the response")

	resp := a.sink.eventsOfKind(types.RPCKindResponse)[0]
	if resp.Correlation != key {
		t.Fatalf("response correlation = %s, want %s", resp.Correlation, key)
	}
	if !resp.Peer.Equal(b.id) {
		t.Fatalf("response peer = %s, want %s", resp.Peer, b.id)
	}
	if !bytes.Equal(resp.Payload, respPayload) {
		t.Fatalf("response payload = %q, want %q", resp.Payload, respPayload)
	}

	// 没有多余事件
	time.Sleep(150 * time.Millisecond)
	if n := len(a.sink.events()); n != 1 {
		t.Fatalf("a has %d events, want 1", n)
	}
	if n := len(b.sink.events()); n != 1 {
		t.Fatalf("b has %d events, want 1", n)
	}
}

func TestService_CompressedPayloadRoundTrip(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)
	connect(t, a, b)

	reqPayload := bytes.Repeat([]byte("telemetry "), 800)
	key, err := a.svc.SendRequest(b.id, "dump", reqPayload)
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return len(b.sink.eventsOfKind(types.RPCKindRequest)) == 1
	}, "b receives the request")
	req := b.sink.eventsOfKind(types.RPCKindRequest)[0]
	if !bytes.Equal(req.Payload, reqPayload) {
		t.Fatal("compressed request payload mismatch")
	}

	respPayload := bytes.Repeat([]byte("snapshot "), 900)
	if err := b.svc.SendResponse(a.id, "dump", respPayload); err != nil {
		t.Fatalf("SendResponse failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(a.sink.eventsOfKind(types.RPCKindResponse)) == 1
	}, "a receives the response")
	resp := a.sink.eventsOfKind(types.RPCKindResponse)[0]
	if resp.Correlation != key {
		t.Fatalf("correlation mismatch: %s", resp.Correlation)
	}
	if !bytes.Equal(resp.Payload, respPayload) {
		t.Fatal("compressed response payload mismatch")
	}
}

func TestService_SendResponseCompletesOldest(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)
	connect(t, a, b)

	key1, err := a.svc.SendRequest(b.id, "status", []byte("first"))
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(b.sink.eventsOfKind(types.RPCKindRequest)) == 1
	}, "first request arrives")

	key2, err := a.svc.SendRequest(b.id, "status", []byte("second"))
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(b.sink.eventsOfKind(types.RPCKindRequest)) == 2
	}, "second request arrives")

	// 先应答的是最早的交换
	if err := b.svc.SendResponse(a.id, "status", []byte("r1")); err != nil {
		t.Fatalf("SendResponse failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(a.sink.eventsOfKind(types.RPCKindResponse)) == 1
	}, "first response delivered")
	if got := a.sink.eventsOfKind(types.RPCKindResponse)[0].Correlation; got != key1 {
		t.Fatalf("first response correlation = %s, want oldest %s", got, key1)
	}

	if err := b.svc.SendResponse(a.id, "status", []byte("r2")); err != nil {
		t.Fatalf("SendResponse failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(a.sink.eventsOfKind(types.RPCKindResponse)) == 2
	}, "second response delivered")
	if got := a.sink.eventsOfKind(types.RPCKindResponse)[1].Correlation; got != key2 {
		t.Fatalf("second response correlation = %s, want %s", got, key2)
	}

	// 队列已空
	if err := b.svc.SendResponse(a.id, "status", []byte("r3")); !errors.Is(err, ErrNoPendingExchange) {
		t.Fatalf("expected ErrNoPendingExchange, got %v", err)
	}
}

func TestService_RespondByKey(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)
	connect(t, a, b)

	key, err := a.svc.SendRequest(b.id, "status", []byte("ping"))
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(b.sink.eventsOfKind(types.RPCKindRequest)) == 1
	}, "request arrives")

	req := b.sink.eventsOfKind(types.RPCKindRequest)[0]
	if err := b.svc.Respond(req.Correlation, []byte("pong")); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(a.sink.eventsOfKind(types.RPCKindResponse)) == 1
	}, "response delivered")
	if got := a.sink.eventsOfKind(types.RPCKindResponse)[0].Correlation; got != key {
		t.Fatalf("correlation = %s, want %s", got, key)
	}

	// 已完成的键不能再应答
	if err := b.svc.Respond(req.Correlation, []byte("again")); !errors.Is(err, ErrNoPendingExchange) {
		t.Fatalf("expected ErrNoPendingExchange, got %v", err)
	}
	if err := b.svc.Respond(types.NewCorrelationKey(), []byte("x")); !errors.Is(err, ErrNoPendingExchange) {
		t.Fatalf("expected ErrNoPendingExchange for unknown key, got %v", err)
	}
}

// ============================================================================
//                              超时与失败
// ============================================================================

func TestService_RequestTimeout(t *testing.T) {
	mock := clock.NewMock()
	a := newTestNode(t, nil, WithClock(mock))
	b := newTestNode(t, nil)
	connect(t, a, b)

	key, err := a.svc.SendRequest(b.id, "status", []byte("ping"))
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(b.sink.eventsOfKind(types.RPCKindRequest)) == 1
	}, "request arrives while deadline pending")

	mock.Add(DefaultConfig().RequestTimeout + time.Second)

	waitFor(t, 5*time.Second, func() bool {
		return len(a.sink.eventsOfKind(types.RPCKindFailure)) == 1
	}, "timeout notification")

	ev := a.sink.eventsOfKind(types.RPCKindFailure)[0]
	if ev.Correlation != key {
		t.Fatalf("failure correlation = %s, want %s", ev.Correlation, key)
	}
	if ev.Method != "status" {
		t.Fatalf("failure method = %s, want status", ev.Method)
	}
	var te *types.TimeoutError
	if !errors.As(ev.Err, &te) {
		t.Fatalf("failure cause = %v, want *types.TimeoutError", ev.Err)
	}
	if te.Method != "status" {
		t.Fatalf("timeout method = %s, want status", te.Method)
	}

	// 恰好一次终态
	time.Sleep(150 * time.Millisecond)
	if n := len(a.sink.events()); n != 1 {
		t.Fatalf("a has %d events, want exactly 1", n)
	}
}

func TestService_InboundWindowExpiry(t *testing.T) {
	mock := clock.NewMock()
	a := newTestNode(t, nil)
	b := newTestNode(t, nil, WithClock(mock))
	connect(t, a, b)

	if _, err := a.svc.SendRequest(b.id, "status", []byte("ping")); err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(b.sink.eventsOfKind(types.RPCKindRequest)) == 1
	}, "request arrives")

	// 窗口到期后入站交换被丢弃，流关闭令请求方收到失败
	mock.Add(DefaultConfig().InboundWindow + time.Second)

	waitFor(t, 5*time.Second, func() bool {
		return b.svc.PendingInbound() == 0
	}, "inbound exchange discarded")
	if err := b.svc.SendResponse(a.id, "status", []byte("late")); !errors.Is(err, ErrNoPendingExchange) {
		t.Fatalf("expected ErrNoPendingExchange after expiry, got %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return len(a.sink.eventsOfKind(types.RPCKindFailure)) == 1
	}, "requester observes the dropped exchange")
}

func TestService_DisconnectUnwindsOutbound(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)
	connect(t, a, b)

	key, err := a.svc.SendRequest(b.id, "status", []byte("ping"))
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(b.sink.eventsOfKind(types.RPCKindRequest)) == 1
	}, "request arrives")

	if err := b.sw.Close(); err != nil {
		t.Fatalf("swarm close failed: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return len(a.sink.eventsOfKind(types.RPCKindFailure)) == 1
	}, "failure notification on disconnect")

	ev := a.sink.eventsOfKind(types.RPCKindFailure)[0]
	if ev.Correlation != key {
		t.Fatalf("failure correlation = %s, want %s", ev.Correlation, key)
	}
	if ev.Err == nil {
		t.Fatal("failure event missing cause")
	}

	// 终态唯一
	time.Sleep(150 * time.Millisecond)
	if n := len(a.sink.events()); n != 1 {
		t.Fatalf("a has %d events, want exactly 1", n)
	}
}

func TestService_CloseFailsOutstanding(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)
	connect(t, a, b)

	key, err := a.svc.SendRequest(b.id, "status", []byte("ping"))
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(b.sink.eventsOfKind(types.RPCKindRequest)) == 1
	}, "request arrives")

	if err := a.svc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	evs := a.sink.eventsOfKind(types.RPCKindFailure)
	if len(evs) != 1 {
		t.Fatalf("got %d failure events, want 1", len(evs))
	}
	if evs[0].Correlation != key {
		t.Fatalf("failure correlation = %s, want %s", evs[0].Correlation, key)
	}
	if !errors.Is(evs[0].Err, ErrServiceClosed) {
		t.Fatalf("failure cause = %v, want ErrServiceClosed", evs[0].Err)
	}
}

// ============================================================================
//                              协议异常
// ============================================================================

func TestService_DuplicateResponseDeliveredOnce(t *testing.T) {
	a := newTestNode(t, nil)
	bID, bSw, _ := newTestSwarm(t)

	// 行为不端的对端：同一关联键写两个响应帧
	bSw.SetStreamHandler(ProtocolID, func(st pkgif.Stream) {
		defer st.Close()
		var frame wire.RPCFrame
		if err := wire.ReadFrame(st, &frame); err != nil {
			return
		}
		resp := &wire.RPCFrame{
			Kind:        wire.RPCKind_RPC_RESPONSE,
			Method:      frame.Method,
			Correlation: frame.Correlation,
			Payload:     []byte("pong"),
		}
		_ = wire.WriteFrame(st, resp)
		_ = wire.WriteFrame(st, resp)
		time.Sleep(100 * time.Millisecond)
	})

	a.ps.AddAddrs(bID, bSw.ListenAddrs()...)
	key, err := a.svc.SendRequest(bID, "status", []byte("ping"))
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return len(a.sink.eventsOfKind(types.RPCKindResponse)) == 1
	}, "first response delivered")
	if got := a.sink.eventsOfKind(types.RPCKindResponse)[0].Correlation; got != key {
		t.Fatalf("correlation = %s, want %s", got, key)
	}

	// 第二个响应帧只记协议异常，不再投递
	time.Sleep(300 * time.Millisecond)
	if n := len(a.sink.events()); n != 1 {
		t.Fatalf("a has %d events, want exactly 1", n)
	}
}

// ============================================================================
//                              参数与生命周期
// ============================================================================

func TestService_SendRequestValidation(t *testing.T) {
	a := newTestNode(t, func(c *Config) {
		c.MaxPayloadSize = 64
	})
	var peer types.PeerID
	peer[0] = 1

	if _, err := a.svc.SendRequest(types.PeerID{}, "m", nil); !errors.Is(err, types.ErrInvalidPeerID) {
		t.Fatalf("expected ErrInvalidPeerID, got %v", err)
	}
	if _, err := a.svc.SendRequest(peer, "", nil); !errors.Is(err, ErrEmptyMethod) {
		t.Fatalf("expected ErrEmptyMethod, got %v", err)
	}
	if _, err := a.svc.SendRequest(peer, "m", make([]byte, 65)); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}

	if err := a.svc.SendResponse(peer, "m", nil); !errors.Is(err, ErrNoPendingExchange) {
		t.Fatalf("expected ErrNoPendingExchange, got %v", err)
	}
	if err := a.svc.SendResponse(peer, "", nil); !errors.Is(err, ErrEmptyMethod) {
		t.Fatalf("expected ErrEmptyMethod, got %v", err)
	}
}

func TestService_Lifecycle(t *testing.T) {
	id, sw, _ := newTestSwarm(t)
	svc, err := New(id, sw, &rpcSink{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var peer types.PeerID
	peer[0] = 1

	if _, err := svc.SendRequest(peer, "m", nil); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := svc.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("second Close should be nil, got %v", err)
	}
	if _, err := svc.SendRequest(peer, "m", nil); !errors.Is(err, ErrServiceClosed) {
		t.Fatalf("expected ErrServiceClosed, got %v", err)
	}
	if err := svc.SendResponse(peer, "m", nil); !errors.Is(err, ErrServiceClosed) {
		t.Fatalf("expected ErrServiceClosed, got %v", err)
	}
}

func TestService_NewValidatesArguments(t *testing.T) {
	id, sw, _ := newTestSwarm(t)

	if _, err := New(types.PeerID{}, sw, &rpcSink{}); !errors.Is(err, types.ErrInvalidPeerID) {
		t.Fatalf("expected ErrInvalidPeerID, got %v", err)
	}
	if _, err := New(id, nil, &rpcSink{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for nil swarm, got %v", err)
	}
	if _, err := New(id, sw, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for nil notifier, got %v", err)
	}
	if _, err := New(id, sw, &rpcSink{}, WithClock(nil)); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for nil clock, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}

	mutations := []func(*Config){
		func(c *Config) { c.RequestTimeout = 0 },
		func(c *Config) { c.InboundWindow = 0 },
		func(c *Config) { c.IOTimeout = 0 },
		func(c *Config) { c.CompressMinSize = -1 },
		func(c *Config) { c.MaxPayloadSize = 0 },
	}
	for i, mut := range mutations {
		cfg := DefaultConfig()
		mut(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("mutation %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}
}
