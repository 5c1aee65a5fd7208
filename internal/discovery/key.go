package discovery

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"math/bits"

	"lukechampine.com/blake3"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              路由键空间
// ============================================================================

// KeySize 路由键的位数
const KeySize = 256

// Key 节点在键空间中的位置
//
// 取 PeerID 的 blake3-256 摘要而非 PeerID 本身，节点无法通过
// 挑选公钥直接控制自己落入哪个桶。
type Key [KeySize / 8]byte

// KeyForPeer 计算节点的路由键
func KeyForPeer(id types.PeerID) Key {
	return blake3.Sum256(id[:])
}

// keyFromBytes 从线上字节还原路由键
func keyFromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != len(k) {
		return k, fmt.Errorf("discovery: key length %d, want %d", len(b), len(k))
	}
	copy(k[:], b)
	return k, nil
}

// Distance 返回两个键的 XOR 距离
func (k Key) Distance(other Key) Key {
	var d Key
	for i := range k {
		d[i] = k[i] ^ other[i]
	}
	return d
}

// CommonPrefixLen 返回与另一个键的公共前缀位数
func (k Key) CommonPrefixLen(other Key) int {
	for i := range k {
		x := k[i] ^ other[i]
		if x != 0 {
			return i*8 + bits.LeadingZeros8(x)
		}
	}
	return KeySize
}

// Equal 判断两个键是否相等
func (k Key) Equal(other Key) bool {
	return k == other
}

// CompareDistance 比较 a 和 b 到 target 的 XOR 距离
//
// a 更近返回 -1，b 更近返回 1，等距返回 0。
func CompareDistance(a, b, target Key) int {
	da := a.Distance(target)
	db := b.Distance(target)
	return bytes.Compare(da[:], db[:])
}

// bucketIndex 返回 key 相对 local 应落入的桶号
//
// 桶号即公共前缀长度；key == local 时前缀长为 KeySize，压到
// 最后一个桶（自身不会入表，这里只是防御越界）。
func bucketIndex(local, key Key) int {
	cpl := local.CommonPrefixLen(key)
	if cpl >= KeySize {
		return KeySize - 1
	}
	return cpl
}

// randomKeyInBucket 生成一个落入指定桶的随机键
//
// 前 idx 位与 local 相同，第 idx 位取反，其余位随机。
// 用作刷新查询的目标，使查询路径穿过目标桶对应的键空间区域。
func randomKeyInBucket(local Key, idx int) Key {
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		// crypto/rand 失败时退化为确定性目标
		k = local
	}

	byteIdx := idx / 8
	bitIdx := uint(idx % 8)

	copy(k[:byteIdx], local[:byteIdx])
	// 保留目标字节中前缀内的位，翻转第 idx 位
	mask := byte(0xFF) << (8 - bitIdx)
	k[byteIdx] = (local[byteIdx] & mask) | ((^local[byteIdx]) & (0x80 >> bitIdx)) | (k[byteIdx] &^ (mask | (0x80 >> bitIdx)))
	return k
}
