package upgrader

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/mothra-net/go-mothra/internal/core/muxer/yamux"
	"github.com/mothra-net/go-mothra/internal/core/security/noise"
	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              测试辅助
// ============================================================================

// pipeConn 给管道连接补充地址信息
type pipeConn struct {
	net.Conn
	laddr types.Addr
	raddr types.Addr
}

var _ interfaces.Conn = (*pipeConn)(nil)

func (c *pipeConn) LocalMultiaddr() types.Addr  { return c.laddr }
func (c *pipeConn) RemoteMultiaddr() types.Addr { return c.raddr }

func testAddr(t *testing.T, s string) types.Addr {
	t.Helper()
	addr, err := types.ParseAddr(s)
	if err != nil {
		t.Fatalf("ParseAddr failed: %v", err)
	}
	return addr
}

func pipePair(t *testing.T) (interfaces.Conn, interfaces.Conn) {
	t.Helper()
	a, b := net.Pipe()
	addrA := testAddr(t, "/ip4/127.0.0.1/tcp/1001")
	addrB := testAddr(t, "/ip4/127.0.0.1/tcp/1002")
	return &pipeConn{Conn: a, laddr: addrA, raddr: addrB},
		&pipeConn{Conn: b, laddr: addrB, raddr: addrA}
}

// newTestUpgrader 创建带随机身份的升级器
func newTestUpgrader(t *testing.T) (*Upgrader, types.PeerID) {
	t.Helper()
	priv, _, err := crypto.GenerateKeyPair(types.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	sec, err := noise.New(priv)
	if err != nil {
		t.Fatalf("noise.New failed: %v", err)
	}
	up, err := New([]interfaces.SecureTransport{sec}, []interfaces.Muxer{yamux.New()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	peer, err := crypto.PeerIDFromPrivateKey(priv)
	if err != nil {
		t.Fatalf("PeerIDFromPrivateKey failed: %v", err)
	}
	return up, peer
}

type upgradeResult struct {
	conn *UpgradedConn
	err  error
}

// upgradePair 并发升级管道两端
func upgradePair(t *testing.T, dialer, listener *Upgrader, expected types.PeerID) (*UpgradedConn, *UpgradedConn) {
	t.Helper()

	dialConn, acceptConn := pipePair(t)
	dialCh := make(chan upgradeResult, 1)
	acceptCh := make(chan upgradeResult, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	go func() {
		uc, err := dialer.Upgrade(ctx, dialConn, types.DirOutbound, expected)
		dialCh <- upgradeResult{uc, err}
	}()
	go func() {
		uc, err := listener.Upgrade(ctx, acceptConn, types.DirInbound, types.EmptyPeerID)
		acceptCh <- upgradeResult{uc, err}
	}()

	dr := <-dialCh
	ar := <-acceptCh
	if dr.err != nil {
		t.Fatalf("outbound Upgrade failed: %v", dr.err)
	}
	if ar.err != nil {
		t.Fatalf("inbound Upgrade failed: %v", ar.err)
	}
	return dr.conn, ar.conn
}

// ============================================================================
//                              升级测试
// ============================================================================

func TestNew_Validation(t *testing.T) {
	priv, _, err := crypto.GenerateKeyPair(types.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	sec, err := noise.New(priv)
	if err != nil {
		t.Fatalf("noise.New failed: %v", err)
	}

	if _, err := New(nil, []interfaces.Muxer{yamux.New()}); !errors.Is(err, ErrNoSecurityTransport) {
		t.Errorf("New without security = %v, expected ErrNoSecurityTransport", err)
	}
	if _, err := New([]interfaces.SecureTransport{sec}, nil); !errors.Is(err, ErrNoMuxer) {
		t.Errorf("New without muxer = %v, expected ErrNoMuxer", err)
	}
}

func TestUpgrade_Success(t *testing.T) {
	dialer, dialerPeer := newTestUpgrader(t)
	listener, listenerPeer := newTestUpgrader(t)

	dialUC, acceptUC := upgradePair(t, dialer, listener, listenerPeer)
	defer dialUC.Close()
	defer acceptUC.Close()

	if !dialUC.RemotePeer().Equal(listenerPeer) {
		t.Errorf("dial RemotePeer = %s, expected %s", dialUC.RemotePeer(), listenerPeer)
	}
	if !acceptUC.RemotePeer().Equal(dialerPeer) {
		t.Errorf("accept RemotePeer = %s, expected %s", acceptUC.RemotePeer(), dialerPeer)
	}
	if dialUC.Direction() != types.DirOutbound {
		t.Errorf("dial Direction = %v, expected DirOutbound", dialUC.Direction())
	}
	if acceptUC.Direction() != types.DirInbound {
		t.Errorf("accept Direction = %v, expected DirInbound", acceptUC.Direction())
	}
	if dialUC.Security() != noise.ProtocolID {
		t.Errorf("Security = %s, expected %s", dialUC.Security(), noise.ProtocolID)
	}
	if dialUC.MuxerProtocol() != yamux.ProtocolID {
		t.Errorf("MuxerProtocol = %s, expected %s", dialUC.MuxerProtocol(), yamux.ProtocolID)
	}
	if dialUC.RemotePublicKey() == nil {
		t.Error("RemotePublicKey should not be nil")
	}
}

func TestUpgrade_StreamRoundtrip(t *testing.T) {
	dialer, _ := newTestUpgrader(t)
	listener, listenerPeer := newTestUpgrader(t)

	dialUC, acceptUC := upgradePair(t, dialer, listener, listenerPeer)
	defer dialUC.Close()
	defer acceptUC.Close()

	echoDone := make(chan struct{})
	go func() {
		defer close(echoDone)
		stream, err := acceptUC.AcceptStream()
		if err != nil {
			t.Errorf("AcceptStream failed: %v", err)
			return
		}
		defer stream.Close()
		buf := make([]byte, 4)
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

	stream, err := dialUC.OpenStream(ctx)
	if err != nil {
		t.Fatalf("OpenStream failed: %v", err)
	}
	defer stream.Close()

	if _, err := stream.Write([]byte("ping")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	buf := make([]byte, 4)
	if _, err := io.ReadFull(stream, buf); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(buf) != "ping" {
		t.Errorf("Expected 'ping' echo, got %q", string(buf))
	}
	<-echoDone
}

func TestUpgrade_OutboundRequiresPeer(t *testing.T) {
	up, _ := newTestUpgrader(t)
	dialConn, acceptConn := pipePair(t)
	defer acceptConn.Close()

	_, err := up.Upgrade(context.Background(), dialConn, types.DirOutbound, types.EmptyPeerID)
	if !errors.Is(err, ErrNoPeerID) {
		t.Errorf("Upgrade without peer = %v, expected ErrNoPeerID", err)
	}
}

func TestUpgrade_WrongExpectedPeer(t *testing.T) {
	dialer, _ := newTestUpgrader(t)
	listener, _ := newTestUpgrader(t)
	_, otherPeer := newTestUpgrader(t)

	dialConn, acceptConn := pipePair(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	acceptCh := make(chan upgradeResult, 1)
	go func() {
		uc, err := listener.Upgrade(ctx, acceptConn, types.DirInbound, types.EmptyPeerID)
		acceptCh <- upgradeResult{uc, err}
	}()

	// 期望第三方身份，握手校验必然失败
	_, err := dialer.Upgrade(ctx, dialConn, types.DirOutbound, otherPeer)
	if err == nil {
		t.Fatal("Upgrade with wrong expected peer should fail")
	}
	if !errors.Is(err, noise.ErrPeerIDMismatch) {
		t.Errorf("error = %v, expected to wrap noise.ErrPeerIDMismatch", err)
	}

	if ar := <-acceptCh; ar.err == nil {
		ar.conn.Close()
	}
}
