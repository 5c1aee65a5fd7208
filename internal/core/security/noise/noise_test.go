package noise

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              测试辅助
// ============================================================================

func newTestTransport(t *testing.T, keyType types.KeyType) *Transport {
	t.Helper()
	priv, _, err := crypto.GenerateKeyPair(keyType)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	tr, err := New(priv)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tr
}

type handshakeResult struct {
	conn interfaces.SecureConn
	err  error
}

// handshakePair 在管道两端并发执行握手
func handshakePair(t *testing.T, initiator, responder *Transport, expected types.PeerID) (interfaces.SecureConn, interfaces.SecureConn) {
	t.Helper()

	initConn, respConn := net.Pipe()
	initCh := make(chan handshakeResult, 1)
	respCh := make(chan handshakeResult, 1)

	go func() {
		conn, err := initiator.SecureOutbound(context.Background(), initConn, expected)
		initCh <- handshakeResult{conn, err}
	}()
	go func() {
		conn, err := responder.SecureInbound(context.Background(), respConn)
		respCh <- handshakeResult{conn, err}
	}()

	ir := <-initCh
	rr := <-respCh
	if ir.err != nil {
		t.Fatalf("SecureOutbound failed: %v", ir.err)
	}
	if rr.err != nil {
		t.Fatalf("SecureInbound failed: %v", rr.err)
	}
	return ir.conn, rr.conn
}

// ============================================================================
//                              握手测试
// ============================================================================

func TestHandshake_Ed25519(t *testing.T) {
	initiator := newTestTransport(t, types.KeyTypeEd25519)
	responder := newTestTransport(t, types.KeyTypeEd25519)

	initSC, respSC := handshakePair(t, initiator, responder, responder.LocalPeer())
	defer initSC.Close()
	defer respSC.Close()

	if !initSC.RemotePeer().Equal(responder.LocalPeer()) {
		t.Errorf("initiator RemotePeer = %s, expected %s",
			initSC.RemotePeer(), responder.LocalPeer())
	}
	if !respSC.RemotePeer().Equal(initiator.LocalPeer()) {
		t.Errorf("responder RemotePeer = %s, expected %s",
			respSC.RemotePeer(), initiator.LocalPeer())
	}
	if !initSC.LocalPeer().Equal(initiator.LocalPeer()) {
		t.Errorf("initiator LocalPeer = %s, expected %s",
			initSC.LocalPeer(), initiator.LocalPeer())
	}
}

func TestHandshake_Secp256k1(t *testing.T) {
	initiator := newTestTransport(t, types.KeyTypeSecp256k1)
	responder := newTestTransport(t, types.KeyTypeSecp256k1)

	initSC, respSC := handshakePair(t, initiator, responder, responder.LocalPeer())
	defer initSC.Close()
	defer respSC.Close()

	if !initSC.RemotePeer().Equal(responder.LocalPeer()) {
		t.Errorf("initiator RemotePeer = %s, expected %s",
			initSC.RemotePeer(), responder.LocalPeer())
	}
	if !respSC.RemotePeer().Equal(initiator.LocalPeer()) {
		t.Errorf("responder RemotePeer = %s, expected %s",
			respSC.RemotePeer(), initiator.LocalPeer())
	}
}

func TestHandshake_MixedKeyTypes(t *testing.T) {
	initiator := newTestTransport(t, types.KeyTypeEd25519)
	responder := newTestTransport(t, types.KeyTypeSecp256k1)

	initSC, respSC := handshakePair(t, initiator, responder, responder.LocalPeer())
	defer initSC.Close()
	defer respSC.Close()

	if !initSC.RemotePeer().Equal(responder.LocalPeer()) {
		t.Errorf("initiator RemotePeer = %s, expected %s",
			initSC.RemotePeer(), responder.LocalPeer())
	}
}

func TestHandshake_PeerIDMismatch(t *testing.T) {
	initiator := newTestTransport(t, types.KeyTypeEd25519)
	responder := newTestTransport(t, types.KeyTypeEd25519)
	other := newTestTransport(t, types.KeyTypeEd25519)

	initConn, respConn := net.Pipe()
	defer initConn.Close()
	defer respConn.Close()

	respCh := make(chan handshakeResult, 1)
	go func() {
		conn, err := responder.SecureInbound(context.Background(), respConn)
		respCh <- handshakeResult{conn, err}
	}()

	// 期望第三方身份，必然失败
	_, err := initiator.SecureOutbound(context.Background(), initConn, other.LocalPeer())
	if !errors.Is(err, ErrPeerIDMismatch) {
		t.Fatalf("SecureOutbound error = %v, expected ErrPeerIDMismatch", err)
	}

	rr := <-respCh
	if rr.err == nil {
		rr.conn.Close()
	}
}

func TestHandshake_RemotePublicKey(t *testing.T) {
	initiator := newTestTransport(t, types.KeyTypeEd25519)
	responder := newTestTransport(t, types.KeyTypeEd25519)

	initSC, respSC := handshakePair(t, initiator, responder, types.EmptyPeerID)
	defer initSC.Close()
	defer respSC.Close()

	remoteKey := initSC.RemotePublicKey()
	if remoteKey == nil {
		t.Fatal("RemotePublicKey should not be nil")
	}
	if !remoteKey.Equals(responder.identity.GetPublic()) {
		t.Error("RemotePublicKey should equal responder identity public key")
	}

	// 从公钥派生的 ID 与握手结果一致
	derived, err := crypto.PeerIDFromPublicKey(remoteKey)
	if err != nil {
		t.Fatalf("PeerIDFromPublicKey failed: %v", err)
	}
	if !derived.Equal(initSC.RemotePeer()) {
		t.Errorf("derived peer = %s, RemotePeer = %s", derived, initSC.RemotePeer())
	}
}

func TestHandshake_ContextCanceled(t *testing.T) {
	initiator := newTestTransport(t, types.KeyTypeEd25519)

	initConn, respConn := net.Pipe()
	defer initConn.Close()
	defer respConn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := initiator.SecureOutbound(ctx, initConn, types.EmptyPeerID); err == nil {
		t.Fatal("SecureOutbound with canceled context should fail")
	}
}

// ============================================================================
//                              数据传输测试
// ============================================================================

func TestSecureConn_Roundtrip(t *testing.T) {
	initiator := newTestTransport(t, types.KeyTypeEd25519)
	responder := newTestTransport(t, types.KeyTypeEd25519)

	initSC, respSC := handshakePair(t, initiator, responder, types.EmptyPeerID)
	defer initSC.Close()
	defer respSC.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 5)
		if _, err := io.ReadFull(respSC, buf); err != nil {
			t.Errorf("responder Read failed: %v", err)
			return
		}
		if string(buf) != "hello" {
			t.Errorf("responder got %q, expected 'hello'", string(buf))
		}
		if _, err := respSC.Write([]byte("world")); err != nil {
			t.Errorf("responder Write failed: %v", err)
		}
	}()

	if _, err := initSC.Write([]byte("hello")); err != nil {
		t.Fatalf("initiator Write failed: %v", err)
	}
	buf := make([]byte, 5)
	if _, err := io.ReadFull(initSC, buf); err != nil {
		t.Fatalf("initiator Read failed: %v", err)
	}
	if string(buf) != "world" {
		t.Errorf("initiator got %q, expected 'world'", string(buf))
	}
	<-done
}

func TestSecureConn_LargeWrite(t *testing.T) {
	initiator := newTestTransport(t, types.KeyTypeEd25519)
	responder := newTestTransport(t, types.KeyTypeEd25519)

	initSC, respSC := handshakePair(t, initiator, responder, types.EmptyPeerID)
	defer initSC.Close()
	defer respSC.Close()

	// 超过单帧明文上限，触发分帧
	payload := make([]byte, 3*maxPlaintextSize+123)
	if _, err := rand.Read(payload); err != nil {
		t.Fatalf("rand.Read failed: %v", err)
	}

	recvDone := make(chan []byte, 1)
	go func() {
		buf := make([]byte, len(payload))
		if _, err := io.ReadFull(respSC, buf); err != nil {
			t.Errorf("Read failed: %v", err)
			recvDone <- nil
			return
		}
		recvDone <- buf
	}()

	n, err := initSC.Write(payload)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(payload) {
		t.Errorf("Write returned %d, expected %d", n, len(payload))
	}

	select {
	case got := <-recvDone:
		if !bytes.Equal(got, payload) {
			t.Error("received payload differs from sent")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for large payload")
	}
}

func TestSecureConn_SmallReads(t *testing.T) {
	initiator := newTestTransport(t, types.KeyTypeEd25519)
	responder := newTestTransport(t, types.KeyTypeEd25519)

	initSC, respSC := handshakePair(t, initiator, responder, types.EmptyPeerID)
	defer initSC.Close()
	defer respSC.Close()

	go func() {
		_, _ = initSC.Write([]byte("abcdef"))
	}()

	// 单字节读取消费缓冲明文
	var got []byte
	buf := make([]byte, 1)
	for len(got) < 6 {
		n, err := respSC.Read(buf)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		got = append(got, buf[:n]...)
	}
	if string(got) != "abcdef" {
		t.Errorf("got %q, expected 'abcdef'", string(got))
	}
}

// ============================================================================
//                              密钥转换测试
// ============================================================================

func TestEd25519ToCurve25519_Deterministic(t *testing.T) {
	priv, _, err := crypto.GenerateKeyPair(types.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	raw, err := priv.Raw()
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}

	first := ed25519ToCurve25519Private(raw)
	second := ed25519ToCurve25519Private(raw)
	if !bytes.Equal(first, second) {
		t.Error("private conversion should be deterministic")
	}

	// RFC 7748 clamp
	if first[0]&7 != 0 {
		t.Error("low 3 bits should be cleared")
	}
	if first[31]&128 != 0 {
		t.Error("high bit should be cleared")
	}
	if first[31]&64 == 0 {
		t.Error("second-highest bit should be set")
	}

	pubRaw, err := priv.GetPublic().Raw()
	if err != nil {
		t.Fatalf("public Raw failed: %v", err)
	}
	pub1, err := ed25519ToCurve25519Public(pubRaw)
	if err != nil {
		t.Fatalf("public conversion failed: %v", err)
	}
	pub2, _ := ed25519ToCurve25519Public(pubRaw)
	if !bytes.Equal(pub1, pub2) {
		t.Error("public conversion should be deterministic")
	}
	if len(pub1) != 32 {
		t.Errorf("converted public key length = %d, expected 32", len(pub1))
	}
}

func TestStaticKeypair_Ed25519Deterministic(t *testing.T) {
	priv, _, err := crypto.GenerateKeyPair(types.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	kp1, err := staticKeypair(priv)
	if err != nil {
		t.Fatalf("staticKeypair failed: %v", err)
	}
	kp2, err := staticKeypair(priv)
	if err != nil {
		t.Fatalf("staticKeypair failed: %v", err)
	}
	if !bytes.Equal(kp1.Public, kp2.Public) {
		t.Error("ed25519 static keypair should be deterministic")
	}
}
