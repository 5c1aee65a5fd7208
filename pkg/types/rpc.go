package types

// ============================================================================
//                              RPC 事件
// ============================================================================

// RPCEventKind RPC 通知类别
type RPCEventKind int

const (
	// RPCKindRequest 入站请求
	RPCKindRequest RPCEventKind = iota
	// RPCKindResponse 对出站请求的响应
	RPCKindResponse
	// RPCKindFailure 出站请求失败（超时或对端断开）
	RPCKindFailure
)

// String 返回类别的字符串表示
func (k RPCEventKind) String() string {
	switch k {
	case RPCKindRequest:
		return "request"
	case RPCKindResponse:
		return "response"
	case RPCKindFailure:
		return "failure"
	default:
		return "invalid"
	}
}

// RPCEvent RPC 通知
//
// 入站请求和出站请求的结果（响应或失败）都以本结构经事件桥投递，
// 对应边界上的 "RPC received" 回调。
type RPCEvent struct {
	// Kind 通知类别
	Kind RPCEventKind

	// Peer 对端节点
	Peer PeerID

	// Method 方法名
	Method string

	// Correlation 关联键
	Correlation CorrelationKey

	// Payload 请求或响应负载（失败时为空）
	Payload []byte

	// Err 失败原因（仅 RPCKindFailure，通常为 *TimeoutError）
	Err error
}

// IsRequest 判断是否为入站请求
func (ev RPCEvent) IsRequest() bool { return ev.Kind == RPCKindRequest }

// ============================================================================
//                              边界回调签名
// ============================================================================

// PeerDiscoveredHandler 节点发现回调
type PeerDiscoveredHandler func(peer PeerID)

// GossipHandler 八卦消息回调
type GossipHandler func(id MessageID, from PeerID, topic string, payload []byte)

// RPCHandler RPC 回调
type RPCHandler func(ev RPCEvent)
