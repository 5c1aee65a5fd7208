package websocket

import (
	"bytes"
	"context"
	"io"
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
		{"/ip4/127.0.0.1/tcp/4002/ws", true},
		{"/dns4/relay.example.org/tcp/443/ws", true},
		{"/ip4/127.0.0.1/tcp/4001", false},
		{"/ip6/::1/tcp/4001", false},
	}

	for _, tt := range tests {
		addr := mustParseAddr(t, tt.addr)
		result := transport.CanDial(addr)
		if result != tt.expected {
			t.Errorf("CanDial(%s) = %v, expected %v", tt.addr, result, tt.expected)
		}
	}
}

func TestTransport_ListenAndDial(t *testing.T) {
	transport := New()
	defer transport.Close()

	listener, err := transport.Listen(mustParseAddr(t, "/ip4/127.0.0.1/tcp/0/ws"))
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer func() { _ = listener.Close() }()

	actualAddr := listener.Multiaddr()
	if actualAddr.Port == 0 {
		t.Fatal("Listener should report actual port")
	}
	if !actualAddr.WS {
		t.Error("Listener addr should carry ws flag")
	}

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, err := listener.Accept()
		if err != nil {
			t.Errorf("Accept failed: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()

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

	if !conn.RemoteMultiaddr().WS {
		t.Error("Dialed conn remote addr should carry ws flag")
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

func TestConn_ReadAcrossMessages(t *testing.T) {
	transport := New()
	defer transport.Close()

	listener, err := transport.Listen(mustParseAddr(t, "/ip4/127.0.0.1/tcp/0/ws"))
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer func() { _ = listener.Close() }()

	// 服务端分三条消息发送
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		for _, chunk := range []string{"he", "llo ", "world"} {
			if _, err := conn.Write([]byte(chunk)); err != nil {
				return
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := transport.Dial(ctx, listener.Multiaddr())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	// 跨消息边界读满
	buf := make([]byte, len("hello world"))
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("ReadFull failed: %v", err)
	}
	if !bytes.Equal(buf, []byte("hello world")) {
		t.Errorf("Expected 'hello world', got %q", string(buf))
	}
}

func TestConn_RemoteCloseYieldsEOF(t *testing.T) {
	transport := New()
	defer transport.Close()

	listener, err := transport.Listen(mustParseAddr(t, "/ip4/127.0.0.1/tcp/0/ws"))
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer func() { _ = listener.Close() }()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		_ = conn.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := transport.Dial(ctx, listener.Multiaddr())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 16)
	_, err = conn.Read(buf)
	if err != io.EOF {
		t.Errorf("Read after remote close = %v, expected io.EOF", err)
	}
}

func TestTransport_DialRejectsPlainTCP(t *testing.T) {
	transport := New()
	defer transport.Close()

	_, err := transport.Dial(context.Background(), mustParseAddr(t, "/ip4/127.0.0.1/tcp/4001"))
	if err == nil {
		t.Fatal("Dial to plain tcp addr should fail")
	}
}

func TestTransport_Close(t *testing.T) {
	transport := New()

	listener, err := transport.Listen(mustParseAddr(t, "/ip4/127.0.0.1/tcp/0/ws"))
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	if transport.ListenerCount() != 1 {
		t.Errorf("ListenerCount = %d, expected 1", transport.ListenerCount())
	}

	if err := transport.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if transport.ListenerCount() != 0 {
		t.Errorf("ListenerCount = %d after Close, expected 0", transport.ListenerCount())
	}

	if _, err := listener.Accept(); err != ErrListenerClosed {
		t.Errorf("Accept on closed listener = %v, expected ErrListenerClosed", err)
	}

	if _, err := transport.Listen(mustParseAddr(t, "/ip4/127.0.0.1/tcp/0/ws")); err == nil {
		t.Error("Listen after Close should fail")
	}

	// 幂等
	if err := transport.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}
