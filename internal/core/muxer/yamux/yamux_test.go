package yamux

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
)

// connPair 在管道两端建立客户端/服务端会话
func connPair(t *testing.T) (interfaces.MuxedConn, interfaces.MuxedConn) {
	t.Helper()

	clientRaw, serverRaw := net.Pipe()
	muxer := New()

	var clientConn, serverConn interfaces.MuxedConn
	var clientErr, serverErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		clientConn, clientErr = muxer.NewConn(clientRaw, false)
	}()
	go func() {
		defer wg.Done()
		serverConn, serverErr = muxer.NewConn(serverRaw, true)
	}()
	wg.Wait()

	if clientErr != nil {
		t.Fatalf("client NewConn failed: %v", clientErr)
	}
	if serverErr != nil {
		t.Fatalf("server NewConn failed: %v", serverErr)
	}
	return clientConn, serverConn
}

func TestMuxer_Protocol(t *testing.T) {
	muxer := New()
	if muxer.Protocol() != ProtocolID {
		t.Errorf("Protocol() = %s, expected %s", muxer.Protocol(), ProtocolID)
	}
}

func TestMuxedConn_OpenAndAccept(t *testing.T) {
	client, server := connPair(t)
	defer client.Close()
	defer server.Close()

	acceptDone := make(chan struct{})
	go func() {
		defer close(acceptDone)
		stream, err := server.AcceptStream()
		if err != nil {
			t.Errorf("AcceptStream failed: %v", err)
			return
		}
		defer stream.Close()

		buf := make([]byte, 5)
		if _, err := io.ReadFull(stream, buf); err != nil {
			t.Errorf("Read failed: %v", err)
			return
		}
		if _, err := stream.Write(buf); err != nil {
			t.Errorf("Write failed: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.OpenStream(ctx)
	if err != nil {
		t.Fatalf("OpenStream failed: %v", err)
	}
	defer stream.Close()

	if _, err := stream.Write([]byte("hello")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	buf := make([]byte, 5)
	if _, err := io.ReadFull(stream, buf); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(buf) != "hello" {
		t.Errorf("Expected 'hello' echo, got %q", string(buf))
	}

	<-acceptDone
}

func TestMuxedConn_ConcurrentStreams(t *testing.T) {
	client, server := connPair(t)
	defer client.Close()
	defer server.Close()

	const numStreams = 16

	// 服务端回显所有流
	go func() {
		for i := 0; i < numStreams; i++ {
			stream, err := server.AcceptStream()
			if err != nil {
				return
			}
			go func(s interfaces.MuxedStream) {
				defer s.Close()
				_, _ = io.Copy(s, s)
			}(stream)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < numStreams; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			stream, err := client.OpenStream(ctx)
			if err != nil {
				t.Errorf("OpenStream %d failed: %v", n, err)
				return
			}
			defer stream.Close()

			msg := fmt.Sprintf("stream-%d", n)
			if _, err := stream.Write([]byte(msg)); err != nil {
				t.Errorf("Write %d failed: %v", n, err)
				return
			}
			buf := make([]byte, len(msg))
			if _, err := io.ReadFull(stream, buf); err != nil {
				t.Errorf("Read %d failed: %v", n, err)
				return
			}
			if string(buf) != msg {
				t.Errorf("stream %d got %q, expected %q", n, string(buf), msg)
			}
		}(i)
	}
	wg.Wait()
}

func TestMuxedConn_OpenStreamCanceled(t *testing.T) {
	client, server := connPair(t)
	defer client.Close()
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.OpenStream(ctx); err != context.Canceled {
		t.Errorf("OpenStream with canceled ctx = %v, expected context.Canceled", err)
	}
}

func TestMuxedConn_Close(t *testing.T) {
	client, server := connPair(t)

	if client.IsClosed() {
		t.Error("new conn should not be closed")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if !client.IsClosed() {
		t.Error("IsClosed should be true after Close")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := client.OpenStream(ctx); err == nil {
		t.Error("OpenStream on closed conn should fail")
	}

	// 对端随之关闭
	if _, err := server.AcceptStream(); err == nil {
		t.Error("AcceptStream should fail after remote close")
	}
	server.Close()
}

func TestMuxedStream_Deadline(t *testing.T) {
	client, server := connPair(t)
	defer client.Close()
	defer server.Close()

	go func() {
		stream, err := server.AcceptStream()
		if err != nil {
			return
		}
		// 保持流打开，不写数据
		defer stream.Close()
		time.Sleep(2 * time.Second)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.OpenStream(ctx)
	if err != nil {
		t.Fatalf("OpenStream failed: %v", err)
	}
	defer stream.Close()

	if err := stream.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		t.Fatalf("SetReadDeadline failed: %v", err)
	}
	buf := make([]byte, 1)
	if _, err := stream.Read(buf); err == nil {
		t.Error("Read past deadline should fail")
	}
}

func TestMuxedStream_CloseIdempotent(t *testing.T) {
	client, server := connPair(t)
	defer client.Close()
	defer server.Close()

	go func() {
		s, err := server.AcceptStream()
		if err == nil {
			defer s.Close()
			buf := make([]byte, 1)
			_, _ = s.Read(buf)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.OpenStream(ctx)
	if err != nil {
		t.Fatalf("OpenStream failed: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}
