package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              密钥接口定义
// ============================================================================

// Key 基础密钥接口
type Key interface {
	// Raw 返回原始密钥字节
	Raw() ([]byte, error)

	// Type 返回密钥类型
	Type() types.KeyType

	// Equals 比较两个密钥是否相等
	Equals(Key) bool
}

// PublicKey 公钥接口
type PublicKey interface {
	Key

	// Verify 使用此公钥验证签名
	//
	// 参数：
	//   - data: 原始数据
	//   - sig: 签名字节
	//
	// 返回：
	//   - bool: 签名是否有效
	//   - error: 验证过程中的错误
	Verify(data, sig []byte) (bool, error)
}

// PrivateKey 私钥接口
type PrivateKey interface {
	Key

	// Sign 使用此私钥签名数据
	Sign(data []byte) ([]byte, error)

	// GetPublic 返回对应的公钥
	GetPublic() PublicKey
}

// ============================================================================
//                              密钥工厂函数
// ============================================================================

// GenerateKeyPair 生成密钥对
//
// 使用系统默认的加密安全随机源。
func GenerateKeyPair(keyType types.KeyType) (PrivateKey, PublicKey, error) {
	return GenerateKeyPairWithReader(keyType, rand.Reader)
}

// GenerateKeyPairWithReader 使用指定的随机源生成密钥对
//
// 参数：
//   - keyType: 密钥类型
//   - reader: 随机源（用于测试时的确定性生成）
func GenerateKeyPairWithReader(keyType types.KeyType, reader io.Reader) (PrivateKey, PublicKey, error) {
	switch keyType {
	case types.KeyTypeEd25519:
		return GenerateEd25519Key(reader)
	case types.KeyTypeSecp256k1:
		return GenerateSecp256k1Key(reader)
	default:
		return nil, nil, ErrBadKeyType
	}
}

// ============================================================================
//                              反序列化函数
// ============================================================================

// PubKeyUnmarshaller 公钥反序列化函数类型
type PubKeyUnmarshaller func(data []byte) (PublicKey, error)

// PrivKeyUnmarshaller 私钥反序列化函数类型
type PrivKeyUnmarshaller func(data []byte) (PrivateKey, error)

// PubKeyUnmarshallers 公钥反序列化函数映射
var PubKeyUnmarshallers = map[types.KeyType]PubKeyUnmarshaller{
	types.KeyTypeEd25519:   UnmarshalEd25519PublicKey,
	types.KeyTypeSecp256k1: UnmarshalSecp256k1PublicKey,
}

// PrivKeyUnmarshallers 私钥反序列化函数映射
var PrivKeyUnmarshallers = map[types.KeyType]PrivKeyUnmarshaller{
	types.KeyTypeEd25519:   UnmarshalEd25519PrivateKey,
	types.KeyTypeSecp256k1: UnmarshalSecp256k1PrivateKey,
}

// UnmarshalPublicKey 从字节反序列化指定类型的公钥
func UnmarshalPublicKey(keyType types.KeyType, data []byte) (PublicKey, error) {
	um, ok := PubKeyUnmarshallers[keyType]
	if !ok {
		return nil, ErrBadKeyType
	}
	return um(data)
}

// UnmarshalPrivateKey 从字节反序列化指定类型的私钥
func UnmarshalPrivateKey(keyType types.KeyType, data []byte) (PrivateKey, error) {
	um, ok := PrivKeyUnmarshallers[keyType]
	if !ok {
		return nil, ErrBadKeyType
	}
	return um(data)
}

// ============================================================================
//                              辅助函数
// ============================================================================

// KeyEqual 使用常量时间比较两个密钥是否相等
//
// 防止时序攻击。
func KeyEqual(k1, k2 Key) bool {
	if k1.Type() != k2.Type() {
		return false
	}

	b1, err1 := k1.Raw()
	b2, err2 := k2.Raw()

	if err1 != nil || err2 != nil {
		return false
	}

	return subtle.ConstantTimeCompare(b1, b2) == 1
}

// RandomBytes 生成指定长度的加密安全随机字节
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := io.ReadFull(rand.Reader, b)
	return b, err
}
