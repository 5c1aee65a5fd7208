package crypto

import (
	"encoding/binary"
	"fmt"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              序列化格式
// ============================================================================

// 序列化格式：
//
//   ┌─────────────────────────────────────────────────────────────┐
//   │                    公钥/私钥序列化格式                         │
//   ├─────────────────────────────────────────────────────────────┤
//   │  Type:   uint8 (KeyType)                                    │
//   │  Length: uint32 (大端序)                                     │
//   │  Data:   密钥数据                                            │
//   └─────────────────────────────────────────────────────────────┘

const (
	// 序列化头大小：1 字节类型 + 4 字节长度
	marshalHeaderSize = 5

	// 密钥数据长度上限，防止畸形输入导致超大分配
	maxKeyDataSize = 1 << 12
)

// ============================================================================
//                              公钥序列化
// ============================================================================

// MarshalPublicKey 序列化公钥
//
// 返回格式：[Type(1)] [Length(4)] [Data(n)]
func MarshalPublicKey(key PublicKey) ([]byte, error) {
	if key == nil {
		return nil, ErrNilPublicKey
	}

	raw, err := key.Raw()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshalFailed, err)
	}

	buf := make([]byte, marshalHeaderSize+len(raw))
	buf[0] = byte(key.Type())
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(raw)))
	copy(buf[5:], raw)

	return buf, nil
}

// UnmarshalPublicKeyBytes 从字节反序列化公钥
//
// 参数格式：[Type(1)] [Length(4)] [Data(n)]
func UnmarshalPublicKeyBytes(data []byte) (PublicKey, error) {
	keyType, raw, err := splitMarshaled(data)
	if err != nil {
		return nil, err
	}
	return UnmarshalPublicKey(keyType, raw)
}

// ============================================================================
//                              私钥序列化
// ============================================================================

// MarshalPrivateKey 序列化私钥
//
// 返回格式：[Type(1)] [Length(4)] [Data(n)]
func MarshalPrivateKey(key PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, ErrNilPrivateKey
	}

	raw, err := key.Raw()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshalFailed, err)
	}

	buf := make([]byte, marshalHeaderSize+len(raw))
	buf[0] = byte(key.Type())
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(raw)))
	copy(buf[5:], raw)

	return buf, nil
}

// UnmarshalPrivateKeyBytes 从字节反序列化私钥
//
// 参数格式：[Type(1)] [Length(4)] [Data(n)]
func UnmarshalPrivateKeyBytes(data []byte) (PrivateKey, error) {
	keyType, raw, err := splitMarshaled(data)
	if err != nil {
		return nil, err
	}
	return UnmarshalPrivateKey(keyType, raw)
}

// splitMarshaled 拆分序列化头和密钥数据
func splitMarshaled(data []byte) (types.KeyType, []byte, error) {
	if len(data) < marshalHeaderSize {
		return types.KeyTypeUnknown, nil, fmt.Errorf("%w: data too short", ErrUnmarshalFailed)
	}

	keyType := types.KeyType(data[0])
	length := binary.BigEndian.Uint32(data[1:5])

	if length > maxKeyDataSize {
		return types.KeyTypeUnknown, nil, fmt.Errorf("%w: key data too large", ErrUnmarshalFailed)
	}
	if len(data) != marshalHeaderSize+int(length) {
		return types.KeyTypeUnknown, nil, fmt.Errorf("%w: data length mismatch", ErrUnmarshalFailed)
	}

	return keyType, data[marshalHeaderSize:], nil
}
