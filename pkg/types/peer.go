package types

import (
	"encoding/binary"
	"time"
)

// ============================================================================
//                              PeerRecord
// ============================================================================

// PeerRecord 节点记录
//
// 节点表中每个已知节点一条，首次发现时创建，连接状态迁移时更新。
// 所有跨组件引用（订阅、交换、会话）都通过 PeerID 查回本记录，
// 避免 peer/session/exchange 之间的环状持有。
type PeerRecord struct {
	// ID 节点标识
	ID PeerID

	// Addrs 已知网络地址
	Addrs []Addr

	// State 连接状态
	State ConnState

	// FirstSeen 首次发现时间
	FirstSeen time.Time

	// LastSeen 最后活跃时间
	LastSeen time.Time

	// Agent 对端客户端身份（hello 交换后填充）
	Agent ClientIdentity
}

// NewPeerRecord 创建处于 Discovered 状态的节点记录
func NewPeerRecord(id PeerID, addrs []Addr) *PeerRecord {
	now := time.Now()
	return &PeerRecord{
		ID:        id,
		Addrs:     addrs,
		State:     ConnStateDiscovered,
		FirstSeen: now,
		LastSeen:  now,
	}
}

// Clone 返回记录的深拷贝
func (r *PeerRecord) Clone() *PeerRecord {
	cp := *r
	cp.Addrs = make([]Addr, len(r.Addrs))
	copy(cp.Addrs, r.Addrs)
	return &cp
}

// AddAddr 合并一个地址（按 Equal 去重）
func (r *PeerRecord) AddAddr(addr Addr) bool {
	addr = addr.WithoutPeer()
	for _, known := range r.Addrs {
		if known.Equal(addr) {
			return false
		}
	}
	r.Addrs = append(r.Addrs, addr)
	return true
}

// IsExpired 判断记录是否超过给定的不活跃期
func (r *PeerRecord) IsExpired(ttl time.Duration) bool {
	return time.Since(r.LastSeen) > ttl
}

// ============================================================================
//                              ClientIdentity
// ============================================================================

// ClientIdentity 客户端身份（hello 协议交换的三元组）
type ClientIdentity struct {
	// Name 客户端名称
	Name string `json:"name"`

	// Version 客户端版本
	Version string `json:"version"`

	// Agent 完整 agent 字符串
	Agent string `json:"agent"`
}

// UserAgent 返回展示用的 agent 字符串
func (c ClientIdentity) UserAgent() string {
	if c.Agent != "" {
		return c.Agent
	}
	if c.Name == "" {
		return ""
	}
	if c.Version == "" {
		return c.Name
	}
	return c.Name + "/" + c.Version
}

// IsZero 判断是否为空身份
func (c ClientIdentity) IsZero() bool {
	return c.Name == "" && c.Version == "" && c.Agent == ""
}

// ============================================================================
//                              SignedRecord
// ============================================================================

// 签名负载的域分隔前缀
const recordSignaturePrefix = "mothra-peer-record:"

// SignedRecord 签名节点记录
//
// 发现协议在 NODES 响应中交换的记录：地址信息由记录主体的身份密钥
// 签名，接收方验签失败即按协议异常丢弃。Seq 单调递增（unix 纳秒），
// 新记录覆盖旧记录。
type SignedRecord struct {
	// PeerID 记录主体
	PeerID PeerID

	// Addrs 主体声明的地址
	Addrs []Addr

	// Seq 记录序号（unix 纳秒时间戳）
	Seq uint64

	// KeyType 签名密钥类型
	KeyType KeyType

	// PublicKey 签名公钥原始字节
	PublicKey []byte

	// Signature 对 SignBytes() 的签名
	Signature []byte
}

// SignBytes 返回确定性的待签名字节串
//
// 布局：prefix ‖ peer id ‖ seq(8B BE) ‖ (uvarint(len) ‖ addr)*
func (sr *SignedRecord) SignBytes() []byte {
	size := len(recordSignaturePrefix) + PeerIDLength + 8
	rendered := make([]string, len(sr.Addrs))
	for i, a := range sr.Addrs {
		rendered[i] = a.WithoutPeer().String()
		size += binary.MaxVarintLen64 + len(rendered[i])
	}

	buf := make([]byte, 0, size)
	buf = append(buf, recordSignaturePrefix...)
	buf = append(buf, sr.PeerID[:]...)
	buf = binary.BigEndian.AppendUint64(buf, sr.Seq)
	for _, s := range rendered {
		buf = binary.AppendUvarint(buf, uint64(len(s)))
		buf = append(buf, s...)
	}
	return buf
}

// Newer 判断本记录是否比 other 新
func (sr *SignedRecord) Newer(other *SignedRecord) bool {
	if other == nil {
		return true
	}
	return sr.Seq > other.Seq
}
