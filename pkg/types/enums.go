package types

// ============================================================================
//                              KeyType - 密钥类型
// ============================================================================

// KeyType 身份密钥类型
type KeyType int

const (
	// KeyTypeUnknown 未知密钥类型
	KeyTypeUnknown KeyType = iota
	// KeyTypeEd25519 Ed25519 密钥
	KeyTypeEd25519
	// KeyTypeSecp256k1 secp256k1 密钥
	KeyTypeSecp256k1
)

// String 返回密钥类型的字符串表示
func (kt KeyType) String() string {
	switch kt {
	case KeyTypeEd25519:
		return "Ed25519"
	case KeyTypeSecp256k1:
		return "Secp256k1"
	default:
		return "Unknown"
	}
}

// ============================================================================
//                              Direction - 连接方向
// ============================================================================

// Direction 连接方向
type Direction int

const (
	// DirUnknown 未知方向
	DirUnknown Direction = iota
	// DirInbound 入站连接
	DirInbound
	// DirOutbound 出站连接
	DirOutbound
)

// String 返回方向的字符串表示
func (d Direction) String() string {
	switch d {
	case DirInbound:
		return "inbound"
	case DirOutbound:
		return "outbound"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              ConnState - 节点连接状态
// ============================================================================

// ConnState 节点连接状态
//
// 状态单调推进：Discovered → Connecting → Connected → Disconnected，
// 唯一的回退边是 Disconnected → Connecting（重试）。
type ConnState int

const (
	// ConnStateDiscovered 已发现，尚未尝试连接
	ConnStateDiscovered ConnState = iota
	// ConnStateConnecting 拨号/握手进行中
	ConnStateConnecting
	// ConnStateConnected 会话已建立
	ConnStateConnected
	// ConnStateDisconnected 会话已断开
	ConnStateDisconnected
)

// String 返回连接状态的字符串表示
func (s ConnState) String() string {
	switch s {
	case ConnStateDiscovered:
		return "discovered"
	case ConnStateConnecting:
		return "connecting"
	case ConnStateConnected:
		return "connected"
	case ConnStateDisconnected:
		return "disconnected"
	default:
		return "invalid"
	}
}

// CanTransitionTo 校验状态迁移是否合法
func (s ConnState) CanTransitionTo(next ConnState) bool {
	switch s {
	case ConnStateDiscovered:
		return next == ConnStateConnecting || next == ConnStateConnected
	case ConnStateConnecting:
		return next == ConnStateConnected || next == ConnStateDisconnected
	case ConnStateConnected:
		return next == ConnStateDisconnected
	case ConnStateDisconnected:
		// 重试边
		return next == ConnStateConnecting
	default:
		return false
	}
}

// ============================================================================
//                              DisconnectReason - 断开原因
// ============================================================================

// DisconnectReason 会话断开原因
type DisconnectReason int

const (
	// ReasonUnknown 未知原因
	ReasonUnknown DisconnectReason = iota
	// ReasonLocalClose 本端主动关闭
	ReasonLocalClose
	// ReasonRemoteClose 远端关闭
	ReasonRemoteClose
	// ReasonEvicted 会话数达到上限被 LRU 淘汰
	ReasonEvicted
	// ReasonShutdown 节点关闭
	ReasonShutdown
	// ReasonError 传输错误
	ReasonError
)

// String 返回断开原因的字符串表示
func (r DisconnectReason) String() string {
	switch r {
	case ReasonLocalClose:
		return "local close"
	case ReasonRemoteClose:
		return "remote close"
	case ReasonEvicted:
		return "evicted"
	case ReasonShutdown:
		return "shutdown"
	case ReasonError:
		return "error"
	default:
		return "unknown"
	}
}
