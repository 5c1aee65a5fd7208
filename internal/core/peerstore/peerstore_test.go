package peerstore

import (
	"testing"
	"time"

	"github.com/mothra-net/go-mothra/pkg/types"
)

func testPeerID(t *testing.T, seed byte) types.PeerID {
	t.Helper()
	var b [types.PeerIDLength]byte
	for i := range b {
		b[i] = seed
	}
	id, err := types.PeerIDFromBytes(b[:])
	if err != nil {
		t.Fatalf("PeerIDFromBytes() error = %v", err)
	}
	return id
}

func mustAddr(t *testing.T, s string) types.Addr {
	t.Helper()
	addr, err := types.ParseAddr(s)
	if err != nil {
		t.Fatalf("ParseAddr(%q) error = %v", s, err)
	}
	return addr
}

func TestPeerstore_AddAddrs(t *testing.T) {
	ps := New()
	defer ps.Close()

	peer := testPeerID(t, 1)
	a1 := mustAddr(t, "/ip4/127.0.0.1/tcp/9000")
	a2 := mustAddr(t, "/ip4/10.0.0.5/tcp/9001")

	ps.AddAddrs(peer, a1, a2)
	ps.AddAddrs(peer, a1) // 重复地址不产生第二条

	addrs := ps.Addrs(peer)
	if len(addrs) != 2 {
		t.Fatalf("Addrs() 数量 = %d, want 2", len(addrs))
	}

	rec, ok := ps.Get(peer)
	if !ok {
		t.Fatal("Get() 未找到记录")
	}
	if rec.State != types.ConnStateDiscovered {
		t.Errorf("新记录状态 = %v, want Discovered", rec.State)
	}
}

func TestPeerstore_GetReturnsCopy(t *testing.T) {
	ps := New()
	defer ps.Close()

	peer := testPeerID(t, 2)
	ps.AddAddrs(peer, mustAddr(t, "/ip4/127.0.0.1/tcp/9000"))

	rec, _ := ps.Get(peer)
	rec.Addrs = nil
	rec.State = types.ConnStateConnected

	again, _ := ps.Get(peer)
	if len(again.Addrs) != 1 {
		t.Error("修改 Get() 副本影响了内部记录")
	}
	if again.State != types.ConnStateDiscovered {
		t.Error("修改 Get() 副本状态影响了内部记录")
	}
}

func TestPeerstore_SetState(t *testing.T) {
	ps := New()
	defer ps.Close()

	peer := testPeerID(t, 3)

	ps.SetState(peer, types.ConnStateConnecting)
	ps.SetState(peer, types.ConnStateConnected)

	rec, _ := ps.Get(peer)
	if rec.State != types.ConnStateConnected {
		t.Fatalf("状态 = %v, want Connected", rec.State)
	}

	// Connected → Connecting 非法，应被忽略
	ps.SetState(peer, types.ConnStateConnecting)
	rec, _ = ps.Get(peer)
	if rec.State != types.ConnStateConnected {
		t.Errorf("非法迁移后状态 = %v, want Connected", rec.State)
	}

	// Connected → Disconnected → Connecting 重试边合法
	ps.SetState(peer, types.ConnStateDisconnected)
	ps.SetState(peer, types.ConnStateConnecting)
	rec, _ = ps.Get(peer)
	if rec.State != types.ConnStateConnecting {
		t.Errorf("重试边后状态 = %v, want Connecting", rec.State)
	}
}

func TestPeerstore_SetIdentity(t *testing.T) {
	ps := New()
	defer ps.Close()

	peer := testPeerID(t, 9)
	ps.SetIdentity(peer, types.ClientIdentity{
		Name:    "mothra",
		Version: "0.3.0",
		Agent:   "go-mothra/0.3.0",
	})

	rec, ok := ps.Get(peer)
	if !ok {
		t.Fatal("record not created")
	}
	if rec.Agent.Name != "mothra" || rec.Agent.Version != "0.3.0" {
		t.Errorf("identity = %+v", rec.Agent)
	}
	if rec.Agent.UserAgent() != "go-mothra/0.3.0" {
		t.Errorf("UserAgent() = %q, want %q", rec.Agent.UserAgent(), "go-mothra/0.3.0")
	}
}

func TestPeerstore_PeersAndRemove(t *testing.T) {
	ps := New()
	defer ps.Close()

	p1 := testPeerID(t, 5)
	p2 := testPeerID(t, 6)
	ps.AddAddrs(p1, mustAddr(t, "/ip4/127.0.0.1/tcp/9000"))
	ps.AddAddrs(p2, mustAddr(t, "/ip4/127.0.0.1/tcp/9001"))

	if n := len(ps.Peers()); n != 2 {
		t.Fatalf("Peers() 数量 = %d, want 2", n)
	}

	ps.Remove(p1)
	if n := len(ps.Peers()); n != 1 {
		t.Fatalf("删除后 Peers() 数量 = %d, want 1", n)
	}
	if _, ok := ps.Get(p1); ok {
		t.Error("删除后仍能查到记录")
	}
}

func TestPeerstore_GCExpiresIdleRecords(t *testing.T) {
	ps := New(WithRecordTTL(10*time.Millisecond), WithGCInterval(time.Hour))
	defer ps.Close()

	idle := testPeerID(t, 7)
	connected := testPeerID(t, 8)

	ps.AddAddrs(idle, mustAddr(t, "/ip4/127.0.0.1/tcp/9000"))
	ps.SetState(connected, types.ConnStateConnecting)
	ps.SetState(connected, types.ConnStateConnected)

	time.Sleep(30 * time.Millisecond)
	ps.gcOnce()

	if _, ok := ps.Get(idle); ok {
		t.Error("不活跃记录未被清理")
	}
	if _, ok := ps.Get(connected); !ok {
		t.Error("Connected 记录不应被清理")
	}
}

func TestPeerstore_Close(t *testing.T) {
	ps := New()

	if err := ps.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := ps.Close(); err != ErrClosed {
		t.Errorf("重复 Close() error = %v, want ErrClosed", err)
	}

	// 关闭后写入被忽略
	peer := testPeerID(t, 9)
	ps.AddAddrs(peer, mustAddr(t, "/ip4/127.0.0.1/tcp/9000"))
	if _, ok := ps.Get(peer); ok {
		t.Error("关闭后仍接受写入")
	}
}

func TestPeerstore_EmptyPeerIgnored(t *testing.T) {
	ps := New()
	defer ps.Close()

	ps.AddAddrs(types.EmptyPeerID, mustAddr(t, "/ip4/127.0.0.1/tcp/9000"))
	ps.SetState(types.EmptyPeerID, types.ConnStateConnecting)

	if n := ps.Len(); n != 0 {
		t.Errorf("空 PeerID 产生了 %d 条记录", n)
	}
}
