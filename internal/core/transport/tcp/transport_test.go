package tcp

import (
	"context"
	"testing"
	"time"

	"github.com/mothra-net/go-mothra/pkg/types"
)

func mustParseAddr(t *testing.T, s string) types.Addr {
	t.Helper()
	addr, err := types.ParseAddr(s)
	if err != nil {
		t.Fatalf("ParseAddr(%s) failed: %v", s, err)
	}
	return addr
}

func TestNew(t *testing.T) {
	transport := New()
	defer transport.Close()

	if transport.IsClosed() {
		t.Error("New transport should not be closed")
	}
	if transport.Proto() != ProtoName {
		t.Errorf("Proto() = %s, expected %s", transport.Proto(), ProtoName)
	}
}

func TestTransport_CanDial(t *testing.T) {
	transport := New()
	defer transport.Close()

	tests := []struct {
		addr     string
		expected bool
	}{
		{"/ip4/127.0.0.1/tcp/4001", true},
		{"/ip6/::1/tcp/4001", true},
		{"/dns4/node.example.org/tcp/4001", true},
		{"/ip4/127.0.0.1/tcp/4001/ws", false},
	}

	for _, tt := range tests {
		addr := mustParseAddr(t, tt.addr)
		result := transport.CanDial(addr)
		if result != tt.expected {
			t.Errorf("CanDial(%s) = %v, expected %v", tt.addr, result, tt.expected)
		}
	}

	// 关闭后不可拨号
	transport.Close()
	if transport.CanDial(mustParseAddr(t, "/ip4/127.0.0.1/tcp/4001")) {
		t.Error("CanDial should return false after Close")
	}
}

func TestTransport_ListenAndDial(t *testing.T) {
	transport := New()
	defer transport.Close()

	listener, err := transport.Listen(mustParseAddr(t, "/ip4/127.0.0.1/tcp/0"))
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer func() { _ = listener.Close() }()

	actualAddr := listener.Multiaddr()
	if actualAddr.Port == 0 {
		t.Fatal("Listener should report actual port")
	}
	t.Logf("Listening on %s", actualAddr)

	// 服务端回显
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, err := listener.Accept()
		if err != nil {
			t.Errorf("Accept failed: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()

		if conn.RemoteMultiaddr().IsEmpty() {
			t.Error("Accepted conn should carry remote addr")
		}

		buf := make([]byte, 16)
		n, err := conn.Read(buf)
		if err != nil {
			t.Errorf("Read failed: %v", err)
			return
		}
		if _, err := conn.Write(buf[:n]); err != nil {
			t.Errorf("Write failed: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := transport.Dial(ctx, actualAddr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	if !conn.RemoteMultiaddr().Equal(actualAddr) {
		t.Errorf("RemoteMultiaddr = %s, expected %s", conn.RemoteMultiaddr(), actualAddr)
	}
	if conn.LocalMultiaddr().IsEmpty() {
		t.Error("LocalMultiaddr should not be empty")
	}

	if _, err := conn.Write([]byte("ping")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(buf[:n]) != "ping" {
		t.Errorf("Expected 'ping' echo, got %q", string(buf[:n]))
	}

	<-serverDone
}

func TestTransport_DialCanceled(t *testing.T) {
	transport := New()
	defer transport.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 保留地址，不会真正建立连接
	_, err := transport.Dial(ctx, mustParseAddr(t, "/ip4/192.0.2.1/tcp/1"))
	if err == nil {
		t.Fatal("Dial with canceled context should fail")
	}
}

func TestTransport_DialRejectsWS(t *testing.T) {
	transport := New()
	defer transport.Close()

	_, err := transport.Dial(context.Background(), mustParseAddr(t, "/ip4/127.0.0.1/tcp/4001/ws"))
	if err == nil {
		t.Fatal("Dial to ws addr should fail")
	}
}

func TestTransport_ListenRejectsDNS(t *testing.T) {
	transport := New()
	defer transport.Close()

	_, err := transport.Listen(mustParseAddr(t, "/dns4/node.example.org/tcp/4001"))
	if err == nil {
		t.Fatal("Listen on dns addr should fail")
	}
}

func TestTransport_Close(t *testing.T) {
	transport := New()

	listener, err := transport.Listen(mustParseAddr(t, "/ip4/127.0.0.1/tcp/0"))
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	if transport.ListenerCount() != 1 {
		t.Errorf("ListenerCount = %d, expected 1", transport.ListenerCount())
	}

	if err := transport.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if !transport.IsClosed() {
		t.Error("IsClosed should be true after Close")
	}
	if transport.ListenerCount() != 0 {
		t.Errorf("ListenerCount = %d after Close, expected 0", transport.ListenerCount())
	}

	// 监听器随传输一起关闭
	if _, err := listener.Accept(); err == nil {
		t.Error("Accept on closed listener should fail")
	}

	// 关闭后再监听失败
	if _, err := transport.Listen(mustParseAddr(t, "/ip4/127.0.0.1/tcp/0")); err == nil {
		t.Error("Listen after Close should fail")
	}

	// 幂等
	if err := transport.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}

func TestListener_CloseRemovesFromTransport(t *testing.T) {
	transport := New()
	defer transport.Close()

	listener, err := transport.Listen(mustParseAddr(t, "/ip4/127.0.0.1/tcp/0"))
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	if err := listener.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if transport.ListenerCount() != 0 {
		t.Errorf("ListenerCount = %d after listener close, expected 0", transport.ListenerCount())
	}

	// 幂等
	if err := listener.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}
