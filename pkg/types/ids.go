package types

import (
	"encoding/binary"
	"errors"

	"github.com/google/uuid"
	sha256 "github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-varint"
)

// ============================================================================
//                              常量与错误
// ============================================================================

const (
	// PeerIDLength PeerID 字节长度（公钥的 SHA-256 摘要）
	PeerIDLength = 32

	// MessageIDLength 消息 ID 字节长度（内容哈希前 20 字节）
	MessageIDLength = 20

	// CorrelationKeyLength RPC 关联键字节长度（UUID）
	CorrelationKeyLength = 16
)

var (
	// ErrInvalidPeerID 无效的 PeerID
	ErrInvalidPeerID = errors.New("invalid peer id")

	// ErrInvalidMessageID 无效的消息 ID
	ErrInvalidMessageID = errors.New("invalid message id")

	// ErrInvalidCorrelationKey 无效的关联键
	ErrInvalidCorrelationKey = errors.New("invalid correlation key")
)

// ============================================================================
//                              PeerID
// ============================================================================

// PeerID 节点标识
//
// 由节点公钥派生（SHA-256），具有值语义：可比较、可作 map 键。
// 所有跨组件的节点引用都以 PeerID 为键，不持有连接句柄。
type PeerID [PeerIDLength]byte

// EmptyPeerID 空 PeerID
var EmptyPeerID PeerID

// PeerIDFromBytes 从字节切片构造 PeerID
func PeerIDFromBytes(b []byte) (PeerID, error) {
	if len(b) != PeerIDLength {
		return EmptyPeerID, ErrInvalidPeerID
	}
	var id PeerID
	copy(id[:], b)
	return id, nil
}

// PeerIDFromString 从 Base58 字符串解析 PeerID
func PeerIDFromString(s string) (PeerID, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return EmptyPeerID, ErrInvalidPeerID
	}
	return PeerIDFromBytes(raw)
}

// String 返回 Base58 编码的字符串表示
func (id PeerID) String() string {
	if id.IsEmpty() {
		return ""
	}
	return base58.Encode(id[:])
}

// ShortString 返回截断的字符串表示（用于日志）
func (id PeerID) ShortString() string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// Bytes 返回字节表示的副本
func (id PeerID) Bytes() []byte {
	b := make([]byte, PeerIDLength)
	copy(b, id[:])
	return b
}

// Equal 判断两个 PeerID 是否相等
func (id PeerID) Equal(other PeerID) bool {
	return id == other
}

// IsEmpty 判断是否为空 PeerID
func (id PeerID) IsEmpty() bool {
	return id == EmptyPeerID
}

// MarshalText 实现 encoding.TextMarshaler（JSON 种子文件使用）
func (id PeerID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (id *PeerID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = EmptyPeerID
		return nil
	}
	parsed, err := PeerIDFromString(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ============================================================================
//                              MessageID
// ============================================================================

// MessageID 八卦消息标识
//
// 由消息内容确定性派生，内容寻址：相同 (origin, topic, payload)
// 必然得到相同 ID，用于去重抑制重复转发和重复投递。
type MessageID [MessageIDLength]byte

// EmptyMessageID 空消息 ID
var EmptyMessageID MessageID

// ComputeMessageID 计算消息 ID
//
// ID = SHA-256(origin ‖ uvarint(len(topic)) ‖ topic ‖ payload) 的前 20 字节。
// 长度前缀避免 topic/payload 边界歧义。
func ComputeMessageID(origin PeerID, topic string, payload []byte) MessageID {
	h := sha256.New()
	h.Write(origin[:])

	var lenBuf [binary.MaxVarintLen64]byte
	n := varint.PutUvarint(lenBuf[:], uint64(len(topic)))
	h.Write(lenBuf[:n])
	h.Write([]byte(topic))
	h.Write(payload)

	var id MessageID
	copy(id[:], h.Sum(nil))
	return id
}

// MessageIDFromBytes 从字节切片构造消息 ID
func MessageIDFromBytes(b []byte) (MessageID, error) {
	if len(b) != MessageIDLength {
		return EmptyMessageID, ErrInvalidMessageID
	}
	var id MessageID
	copy(id[:], b)
	return id, nil
}

// String 返回 Base58 编码的字符串表示
func (id MessageID) String() string {
	if id == EmptyMessageID {
		return ""
	}
	return base58.Encode(id[:])
}

// ShortString 返回截断的字符串表示（用于日志）
func (id MessageID) ShortString() string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// Bytes 返回字节表示的副本
func (id MessageID) Bytes() []byte {
	b := make([]byte, MessageIDLength)
	copy(b, id[:])
	return b
}

// ============================================================================
//                              CorrelationKey
// ============================================================================

// CorrelationKey RPC 关联键
//
// 标识一次未决的请求/响应交换。同一 (PeerID, Method) 下并发未决的
// 交换之间关联键唯一。
type CorrelationKey [CorrelationKeyLength]byte

// EmptyCorrelationKey 空关联键
var EmptyCorrelationKey CorrelationKey

// NewCorrelationKey 生成新的随机关联键
func NewCorrelationKey() CorrelationKey {
	return CorrelationKey(uuid.New())
}

// CorrelationKeyFromBytes 从字节切片构造关联键
func CorrelationKeyFromBytes(b []byte) (CorrelationKey, error) {
	if len(b) != CorrelationKeyLength {
		return EmptyCorrelationKey, ErrInvalidCorrelationKey
	}
	var k CorrelationKey
	copy(k[:], b)
	return k, nil
}

// String 返回 UUID 格式的字符串表示
func (k CorrelationKey) String() string {
	return uuid.UUID(k).String()
}

// Bytes 返回字节表示的副本
func (k CorrelationKey) Bytes() []byte {
	b := make([]byte, CorrelationKeyLength)
	copy(b, k[:])
	return b
}

// IsEmpty 判断是否为空关联键
func (k CorrelationKey) IsEmpty() bool {
	return k == EmptyCorrelationKey
}
