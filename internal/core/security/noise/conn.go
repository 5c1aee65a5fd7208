// Package noise 实现 Noise 协议安全传输
package noise

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/flynn/noise"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// maxPlaintextSize 单帧明文上限（帧长上限减去 Poly1305 标签）
const maxPlaintextSize = 65535 - 16

// ============================================================================
//                              secureConn 实现
// ============================================================================

// secureConn Noise 加密连接
type secureConn struct {
	net.Conn

	sendCS *noise.CipherState
	recvCS *noise.CipherState

	localPeer  types.PeerID
	remotePeer types.PeerID
	remoteKey  crypto.PublicKey

	readMu  sync.Mutex
	writeMu sync.Mutex

	// 上次解密后未取走的明文
	readBuf []byte
}

// 确保实现 interfaces.SecureConn 接口
var _ interfaces.SecureConn = (*secureConn)(nil)

// newSecureConn 创建加密连接
func newSecureConn(conn net.Conn, sendCS, recvCS *noise.CipherState, local, remote types.PeerID, remoteKey crypto.PublicKey) *secureConn {
	return &secureConn{
		Conn:       conn,
		sendCS:     sendCS,
		recvCS:     recvCS,
		localPeer:  local,
		remotePeer: remote,
		remoteKey:  remoteKey,
	}
}

// Read 读取并解密数据
func (c *secureConn) Read(p []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	// 先消费缓冲的明文
	if len(c.readBuf) > 0 {
		n := copy(p, c.readBuf)
		c.readBuf = c.readBuf[n:]
		return n, nil
	}

	lenBuf := make([]byte, 2)
	if _, err := io.ReadFull(c.Conn, lenBuf); err != nil {
		return 0, err
	}
	msgLen := binary.BigEndian.Uint16(lenBuf)
	if msgLen == 0 {
		return 0, fmt.Errorf("收到空密文帧")
	}

	ciphertext := make([]byte, msgLen)
	if _, err := io.ReadFull(c.Conn, ciphertext); err != nil {
		return 0, err
	}

	plaintext, err := c.recvCS.Decrypt(nil, nil, ciphertext)
	if err != nil {
		return 0, fmt.Errorf("解密失败: %w", err)
	}

	n := copy(p, plaintext)
	if n < len(plaintext) {
		c.readBuf = plaintext[n:]
	}
	return n, nil
}

// Write 加密并写入数据
//
// 超过单帧明文上限时分帧发送。
func (c *secureConn) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	total := 0
	for len(p) > 0 {
		chunk := p
		if len(chunk) > maxPlaintextSize {
			chunk = chunk[:maxPlaintextSize]
		}

		ciphertext, err := c.sendCS.Encrypt(nil, nil, chunk)
		if err != nil {
			return total, fmt.Errorf("加密失败: %w", err)
		}

		frame := make([]byte, 2+len(ciphertext))
		binary.BigEndian.PutUint16(frame, uint16(len(ciphertext)))
		copy(frame[2:], ciphertext)
		if _, err := c.Conn.Write(frame); err != nil {
			return total, err
		}

		total += len(chunk)
		p = p[len(chunk):]
	}
	return total, nil
}

// LocalPeer 返回本地节点 ID
func (c *secureConn) LocalPeer() types.PeerID {
	return c.localPeer
}

// RemotePeer 返回远端节点 ID
func (c *secureConn) RemotePeer() types.PeerID {
	return c.remotePeer
}

// RemotePublicKey 返回远端身份公钥
func (c *secureConn) RemotePublicKey() crypto.PublicKey {
	return c.remoteKey
}
