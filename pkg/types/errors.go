package types

import (
	"errors"
	"fmt"
	"time"
)

// 错误分类。只有 StartupError 会作为硬失败穿越引擎边界；
// 其余类别要么在组件内部消化（退避重试、淘汰腾位），
// 要么作为普通结果经回调/返回值上浮。引擎不会因单个
// 对端的异常行为而终止。

// ============================================================================
//                              StartupError
// ============================================================================

// StartupError 启动失败（致命）
//
// 配置非法、监听地址无法绑定、所有种子节点不可达等，
// 中止 Start 并向调用方返回。
type StartupError struct {
	// Op 失败的启动步骤
	Op string

	// Err 底层原因
	Err error
}

// NewStartupError 创建启动错误
func NewStartupError(op string, err error) *StartupError {
	return &StartupError{Op: op, Err: err}
}

// Error 实现 error
func (e *StartupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("startup failed: %s", e.Op)
	}
	return fmt.Sprintf("startup failed: %s: %v", e.Op, e.Err)
}

// Unwrap 返回底层原因
func (e *StartupError) Unwrap() error { return e.Err }

// IsStartupError 判断错误链中是否包含启动错误
func IsStartupError(err error) bool {
	var se *StartupError
	return errors.As(err, &se)
}

// ============================================================================
//                              ConnectionError
// ============================================================================

// ConnectionError 连接失败（非致命，按节点退避）
type ConnectionError struct {
	// Peer 目标节点（可为空，如监听侧错误）
	Peer PeerID

	// Op 失败操作（"dial" / "handshake" / "upgrade"）
	Op string

	// Err 底层原因
	Err error
}

// NewConnectionError 创建连接错误
func NewConnectionError(peer PeerID, op string, err error) *ConnectionError {
	return &ConnectionError{Peer: peer, Op: op, Err: err}
}

// Error 实现 error
func (e *ConnectionError) Error() string {
	if e.Peer.IsEmpty() {
		return fmt.Sprintf("connection %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("connection %s failed: peer %s: %v", e.Op, e.Peer.ShortString(), e.Err)
}

// Unwrap 返回底层原因
func (e *ConnectionError) Unwrap() error { return e.Err }

// IsConnectionError 判断错误链中是否包含连接错误
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// ============================================================================
//                              ProtocolAnomaly
// ============================================================================

// ProtocolAnomaly 协议异常（非致命，记日志后丢弃）
//
// 重复响应、畸形帧、签名验证失败、未知协议头等。
type ProtocolAnomaly struct {
	// Peer 异常来源节点
	Peer PeerID

	// Protocol 相关协议 ID
	Protocol string

	// Detail 异常描述
	Detail string
}

// NewProtocolAnomaly 创建协议异常
func NewProtocolAnomaly(peer PeerID, protocol, detail string) *ProtocolAnomaly {
	return &ProtocolAnomaly{Peer: peer, Protocol: protocol, Detail: detail}
}

// Error 实现 error
func (e *ProtocolAnomaly) Error() string {
	return fmt.Sprintf("protocol anomaly: %s: peer %s: %s", e.Protocol, e.Peer.ShortString(), e.Detail)
}

// IsProtocolAnomaly 判断错误链中是否包含协议异常
func IsProtocolAnomaly(err error) bool {
	var pa *ProtocolAnomaly
	return errors.As(err, &pa)
}

// ============================================================================
//                              CapacityError
// ============================================================================

// CapacityError 容量超限（非致命，作为拒绝返回给调用点）
type CapacityError struct {
	// Resource 受限资源（"sessions" / "command queue" / "peer queue"）
	Resource string

	// Limit 配置的上限
	Limit int
}

// NewCapacityError 创建容量错误
func NewCapacityError(resource string, limit int) *CapacityError {
	return &CapacityError{Resource: resource, Limit: limit}
}

// Error 实现 error
func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %s (limit %d)", e.Resource, e.Limit)
}

// IsCapacityError 判断错误链中是否包含容量错误
func IsCapacityError(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}

// ============================================================================
//                              TimeoutError
// ============================================================================

// TimeoutError 超时（非致命，按交换上浮为失败通知）
type TimeoutError struct {
	// Peer 目标节点
	Peer PeerID

	// Method RPC 方法名（非 RPC 场景可为空）
	Method string

	// Elapsed 实际等待时长
	Elapsed time.Duration
}

// NewTimeoutError 创建超时错误
func NewTimeoutError(peer PeerID, method string, elapsed time.Duration) *TimeoutError {
	return &TimeoutError{Peer: peer, Method: method, Elapsed: elapsed}
}

// Error 实现 error
func (e *TimeoutError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("timeout: peer %s after %v", e.Peer.ShortString(), e.Elapsed)
	}
	return fmt.Sprintf("timeout: method %q peer %s after %v", e.Method, e.Peer.ShortString(), e.Elapsed)
}

// IsTimeoutError 判断错误链中是否包含超时错误
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
