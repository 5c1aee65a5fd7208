package rpc

import (
	"fmt"

	"github.com/klauspost/compress/snappy"

	"github.com/mothra-net/go-mothra/pkg/lib/wire"
)

// ============================================================================
//                              负载编解码
// ============================================================================

// encodePayload 按阈值决定是否压缩负载
func encodePayload(payload []byte, minSize int) ([]byte, bool) {
	if len(payload) < minSize {
		return payload, false
	}
	return snappy.Encode(nil, payload), true
}

// decodePayload 还原帧负载并施加大小上限
//
// 压缩负载先用声明的解压长度做预检，超限时不分配内存。
func decodePayload(frame *wire.RPCFrame, limit int) ([]byte, error) {
	if !frame.Compressed {
		if len(frame.Payload) > limit {
			return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(frame.Payload), limit)
		}
		return frame.Payload, nil
	}
	n, err := snappy.DecodedLen(frame.Payload)
	if err != nil {
		return nil, fmt.Errorf("rpc: corrupt compressed payload: %w", err)
	}
	if n > limit {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, n, limit)
	}
	body, err := snappy.Decode(nil, frame.Payload)
	if err != nil {
		return nil, fmt.Errorf("rpc: corrupt compressed payload: %w", err)
	}
	return body, nil
}
