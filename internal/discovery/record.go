package discovery

import (
	"encoding/binary"
	"fmt"

	"github.com/multiformats/go-varint"

	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              签名节点记录
// ============================================================================

// recordDomain 签名负载的域分隔前缀，防止跨协议签名复用
const recordDomain = "mothra/peer-record/1.0.0"

// maxRecordAddrs 单条记录携带的地址上限，超出部分截断
const maxRecordAddrs = 8

// BuildRecord 构造并签名本地节点的地址记录
//
// seq 取构造时刻的 Unix 纳秒，接收方据此识别并丢弃旧记录的重放。
func BuildRecord(priv crypto.PrivateKey, id types.PeerID, addrs []types.Addr, seq uint64) (*wire.PeerRecord, error) {
	if len(addrs) > maxRecordAddrs {
		addrs = addrs[:maxRecordAddrs]
	}
	addrStrs := make([]string, 0, len(addrs))
	for _, a := range addrs {
		addrStrs = append(addrStrs, a.WithoutPeer().String())
	}

	pub := priv.GetPublic()
	pubRaw, err := pub.Raw()
	if err != nil {
		return nil, fmt.Errorf("discovery: marshal public key: %w", err)
	}

	payload := recordPayload(id, addrStrs, seq)
	sig, err := priv.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("discovery: sign peer record: %w", err)
	}

	return &wire.PeerRecord{
		PeerId:    id.Bytes(),
		Addrs:     addrStrs,
		Seq:       seq,
		KeyType:   int32(pub.Type()),
		PublicKey: pubRaw,
		Signature: sig,
	}, nil
}

// VerifyRecord 校验签名节点记录
//
// 依次检查 PeerID 形状、公钥与 PeerID 的绑定、签名本身，任何
// 一步失败都返回包裹 ErrInvalidRecord 的错误，调用方按协议异常
// 丢弃。返回解析后的节点 ID 和地址。
func VerifyRecord(rec *wire.PeerRecord) (types.PeerID, []types.Addr, error) {
	if rec == nil {
		return types.EmptyPeerID, nil, fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}

	id, err := types.PeerIDFromBytes(rec.PeerId)
	if err != nil {
		return types.EmptyPeerID, nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	pub, err := crypto.UnmarshalPublicKey(types.KeyType(rec.KeyType), rec.PublicKey)
	if err != nil {
		return types.EmptyPeerID, nil, fmt.Errorf("%w: public key: %v", ErrInvalidRecord, err)
	}

	match, err := crypto.VerifyPeerID(pub, id)
	if err != nil {
		return types.EmptyPeerID, nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if !match {
		return types.EmptyPeerID, nil, fmt.Errorf("%w: peer id does not match public key", ErrInvalidRecord)
	}

	if len(rec.Addrs) > maxRecordAddrs {
		return types.EmptyPeerID, nil, fmt.Errorf("%w: %d addrs exceeds limit", ErrInvalidRecord, len(rec.Addrs))
	}

	ok, err := pub.Verify(recordPayload(id, rec.Addrs, rec.Seq), rec.Signature)
	if err != nil {
		return types.EmptyPeerID, nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if !ok {
		return types.EmptyPeerID, nil, fmt.Errorf("%w: signature mismatch", ErrInvalidRecord)
	}

	addrs := make([]types.Addr, 0, len(rec.Addrs))
	for _, s := range rec.Addrs {
		a, err := types.ParseAddr(s)
		if err != nil {
			return types.EmptyPeerID, nil, fmt.Errorf("%w: addr %q: %v", ErrInvalidRecord, s, err)
		}
		addrs = append(addrs, a.WithPeer(id))
	}

	return id, addrs, nil
}

// recordPayload 生成签名负载的确定性编码
//
// 地址逐条带长度前缀，避免拼接歧义。
func recordPayload(id types.PeerID, addrs []string, seq uint64) []byte {
	size := len(recordDomain) + types.PeerIDLength + binary.MaxVarintLen64 + 8
	for _, a := range addrs {
		size += binary.MaxVarintLen64 + len(a)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, recordDomain...)
	buf = append(buf, id[:]...)

	var lenBuf [binary.MaxVarintLen64]byte
	n := varint.PutUvarint(lenBuf[:], uint64(len(addrs)))
	buf = append(buf, lenBuf[:n]...)
	for _, a := range addrs {
		n = varint.PutUvarint(lenBuf[:], uint64(len(a)))
		buf = append(buf, lenBuf[:n]...)
		buf = append(buf, a...)
	}

	var seqBuf [8]byte
	binary.BigEndian.PutUint64(seqBuf[:], seq)
	buf = append(buf, seqBuf[:]...)
	return buf
}
