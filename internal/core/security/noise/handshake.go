// Package noise 实现 Noise 协议安全传输
package noise

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"filippo.io/edwards25519"
	"github.com/flynn/noise"

	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// payloadSigPrefix 静态密钥绑定签名的前缀，与 libp2p-noise 规范兼容
const payloadSigPrefix = "noise-libp2p-static-key:"

// ============================================================================
//                              握手实现
// ============================================================================

// cipherSuite 固定密码套件
func cipherSuite() noise.CipherSuite {
	return noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashSHA256)
}

// staticKeypair 从身份私钥派生 Noise 静态密钥对
//
// Ed25519 身份确定性转换为 Curve25519；其余类型使用随机静态密钥，
// 归属关系由握手载荷中的身份签名保证。
func staticKeypair(identity crypto.PrivateKey) (noise.DHKey, error) {
	if identity.Type() == types.KeyTypeEd25519 {
		privRaw, err := identity.Raw()
		if err != nil {
			return noise.DHKey{}, fmt.Errorf("读取身份私钥失败: %w", err)
		}
		pubRaw, err := identity.GetPublic().Raw()
		if err != nil {
			return noise.DHKey{}, fmt.Errorf("读取身份公钥失败: %w", err)
		}
		priv := ed25519ToCurve25519Private(privRaw)
		pub, err := ed25519ToCurve25519Public(pubRaw)
		if err != nil {
			return noise.DHKey{}, err
		}
		return noise.DHKey{Private: priv, Public: pub}, nil
	}

	kp, err := cipherSuite().GenerateKeypair(rand.Reader)
	if err != nil {
		return noise.DHKey{}, fmt.Errorf("生成静态密钥失败: %w", err)
	}
	return kp, nil
}

// performHandshake 执行 Noise XX 握手
//
// expected 非空时校验远端身份；isInitiator 决定握手方向。
func performHandshake(conn net.Conn, identity crypto.PrivateKey, static noise.DHKey, expected types.PeerID, isInitiator bool) (*secureConn, error) {
	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   cipherSuite(),
		Pattern:       noise.HandshakeXX,
		Initiator:     isInitiator,
		StaticKeypair: static,
	})
	if err != nil {
		return nil, fmt.Errorf("创建握手状态失败: %w", err)
	}

	localPayload, err := buildHandshakePayload(identity, static.Public)
	if err != nil {
		return nil, fmt.Errorf("构造握手载荷失败: %w", err)
	}

	var sendCS, recvCS *noise.CipherState
	var remotePayload []byte
	if isInitiator {
		sendCS, recvCS, remotePayload, err = initiatorHandshake(conn, hs, localPayload)
	} else {
		sendCS, recvCS, remotePayload, err = responderHandshake(conn, hs, localPayload)
	}
	if err != nil {
		return nil, fmt.Errorf("握手失败: %w", err)
	}

	remoteStatic := hs.PeerStatic()
	if len(remoteStatic) != 32 {
		return nil, fmt.Errorf("%w: 长度 %d", ErrBadRemoteStatic, len(remoteStatic))
	}

	remoteKey, remotePeer, err := verifyRemotePayload(remotePayload, remoteStatic)
	if err != nil {
		return nil, fmt.Errorf("校验远端载荷失败: %w", err)
	}

	if !expected.IsEmpty() && !remotePeer.Equal(expected) {
		return nil, fmt.Errorf("%w: 期望 %s 实际 %s",
			ErrPeerIDMismatch, expected.ShortString(), remotePeer.ShortString())
	}

	localPeer, err := crypto.PeerIDFromPrivateKey(identity)
	if err != nil {
		return nil, fmt.Errorf("派生本地节点 ID 失败: %w", err)
	}

	return newSecureConn(conn, sendCS, recvCS, localPeer, remotePeer, remoteKey), nil
}

// buildHandshakePayload 构造本地握手载荷
func buildHandshakePayload(identity crypto.PrivateKey, staticPub []byte) ([]byte, error) {
	idKeyBytes, err := crypto.MarshalPublicKey(identity.GetPublic())
	if err != nil {
		return nil, fmt.Errorf("序列化身份公钥失败: %w", err)
	}

	toSign := make([]byte, 0, len(payloadSigPrefix)+len(staticPub))
	toSign = append(toSign, payloadSigPrefix...)
	toSign = append(toSign, staticPub...)
	sig, err := identity.Sign(toSign)
	if err != nil {
		return nil, fmt.Errorf("签名静态密钥失败: %w", err)
	}

	payload := &wire.NoiseHandshakePayload{
		IdentityKey: idKeyBytes,
		IdentitySig: sig,
	}
	return payload.Marshal()
}

// verifyRemotePayload 校验远端载荷并提取身份
func verifyRemotePayload(payloadBytes, remoteStatic []byte) (crypto.PublicKey, types.PeerID, error) {
	payload := &wire.NoiseHandshakePayload{}
	if err := payload.Unmarshal(payloadBytes); err != nil {
		return nil, types.EmptyPeerID, fmt.Errorf("解析载荷失败: %w", err)
	}

	remoteKey, err := crypto.UnmarshalPublicKeyBytes(payload.IdentityKey)
	if err != nil {
		return nil, types.EmptyPeerID, fmt.Errorf("解析远端身份公钥失败: %w", err)
	}

	toVerify := make([]byte, 0, len(payloadSigPrefix)+len(remoteStatic))
	toVerify = append(toVerify, payloadSigPrefix...)
	toVerify = append(toVerify, remoteStatic...)
	valid, err := remoteKey.Verify(toVerify, payload.IdentitySig)
	if err != nil {
		return nil, types.EmptyPeerID, fmt.Errorf("校验签名失败: %w", err)
	}
	if !valid {
		return nil, types.EmptyPeerID, ErrInvalidSignature
	}

	remotePeer, err := crypto.PeerIDFromPublicKey(remoteKey)
	if err != nil {
		return nil, types.EmptyPeerID, fmt.Errorf("派生远端节点 ID 失败: %w", err)
	}
	return remoteKey, remotePeer, nil
}

// ============================================================================
//                              握手流程
// ============================================================================

// initiatorHandshake 发起者握手
//
//	1. -> e
//	2. <- e, ee, s, es, payload
//	3. -> s, se, payload
func initiatorHandshake(conn net.Conn, hs *noise.HandshakeState, localPayload []byte) (*noise.CipherState, *noise.CipherState, []byte, error) {
	msg1, _, _, err := hs.WriteMessage(nil, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("写首轮消息失败: %w", err)
	}
	if err := writeHandshakeFrame(conn, msg1); err != nil {
		return nil, nil, nil, fmt.Errorf("发送首轮消息失败: %w", err)
	}

	msg2, err := readHandshakeFrame(conn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("接收次轮消息失败: %w", err)
	}
	remotePayload, _, _, err := hs.ReadMessage(nil, msg2)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("读次轮消息失败: %w", err)
	}

	msg3, cs1, cs2, err := hs.WriteMessage(nil, localPayload)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("写末轮消息失败: %w", err)
	}
	if err := writeHandshakeFrame(conn, msg3); err != nil {
		return nil, nil, nil, fmt.Errorf("发送末轮消息失败: %w", err)
	}

	// 发起者：cs1 发送，cs2 接收
	return cs1, cs2, remotePayload, nil
}

// responderHandshake 响应者握手
//
//	1. <- e
//	2. -> e, ee, s, es, payload
//	3. <- s, se, payload
func responderHandshake(conn net.Conn, hs *noise.HandshakeState, localPayload []byte) (*noise.CipherState, *noise.CipherState, []byte, error) {
	msg1, err := readHandshakeFrame(conn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("接收首轮消息失败: %w", err)
	}
	if _, _, _, err := hs.ReadMessage(nil, msg1); err != nil {
		return nil, nil, nil, fmt.Errorf("读首轮消息失败: %w", err)
	}

	msg2, _, _, err := hs.WriteMessage(nil, localPayload)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("写次轮消息失败: %w", err)
	}
	if err := writeHandshakeFrame(conn, msg2); err != nil {
		return nil, nil, nil, fmt.Errorf("发送次轮消息失败: %w", err)
	}

	msg3, err := readHandshakeFrame(conn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("接收末轮消息失败: %w", err)
	}
	remotePayload, cs1, cs2, err := hs.ReadMessage(nil, msg3)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("读末轮消息失败: %w", err)
	}

	// 响应者：cs2 发送，cs1 接收
	return cs2, cs1, remotePayload, nil
}

// ============================================================================
//                              密钥转换
// ============================================================================

// ed25519ToCurve25519Private 将 Ed25519 私钥转换为 Curve25519 私钥
//
// RFC 7748 / RFC 8032：对种子做 SHA-512，取前 32 字节并 clamp。
func ed25519ToCurve25519Private(edPriv []byte) []byte {
	var seed []byte
	switch len(edPriv) {
	case ed25519.PrivateKeySize:
		seed = edPriv[:ed25519.SeedSize]
	case ed25519.SeedSize:
		seed = edPriv
	default:
		return make([]byte, 32)
	}

	h := sha512.Sum512(seed)
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64
	return h[:32]
}

// ed25519ToCurve25519Public 将 Ed25519 公钥转换为 Curve25519 公钥
//
// Edwards -> Montgomery: u = (1 + y) / (1 - y) (mod p)
func ed25519ToCurve25519Public(edPub []byte) ([]byte, error) {
	if len(edPub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 公钥长度错误: %d", len(edPub))
	}
	point, err := new(edwards25519.Point).SetBytes(edPub)
	if err != nil {
		return nil, fmt.Errorf("解析 ed25519 公钥失败: %w", err)
	}
	return point.BytesMontgomery(), nil
}

// ============================================================================
//                              握手帧
// ============================================================================

// writeHandshakeFrame 写入帧（2 字节大端长度 + 数据）
func writeHandshakeFrame(w io.Writer, data []byte) error {
	buf := make([]byte, 2+len(data))
	binary.BigEndian.PutUint16(buf, uint16(len(data)))
	copy(buf[2:], data)
	_, err := w.Write(buf)
	return err
}

// readHandshakeFrame 读取帧（2 字节大端长度 + 数据）
func readHandshakeFrame(r io.Reader) ([]byte, error) {
	lenBuf := make([]byte, 2)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint16(lenBuf)
	if length == 0 {
		return nil, nil
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
