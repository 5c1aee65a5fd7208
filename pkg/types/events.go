package types

import "time"

// ============================================================================
//                              事件基础
// ============================================================================

// Event 引擎内部事件接口
type Event interface {
	// Type 事件类型名
	Type() string

	// Timestamp 事件产生时间
	Timestamp() time.Time
}

// BaseEvent 事件公共字段
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// NewBaseEvent 创建事件基础部分
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// Type 返回事件类型名
func (e BaseEvent) Type() string { return e.EventType }

// Timestamp 返回事件产生时间
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// ============================================================================
//                              连接事件
// ============================================================================

// EvtPeerConnected 会话建立事件
//
// 升级管线（握手+多路复用）完成、会话被纳入会话表后发布。
type EvtPeerConnected struct {
	BaseEvent

	// Peer 对端节点
	Peer PeerID

	// Direction 会话方向
	Direction Direction

	// Addr 对端地址
	Addr Addr

	// NumSessions 当前会话总数
	NumSessions int
}

// NewEvtPeerConnected 创建会话建立事件
func NewEvtPeerConnected(peer PeerID, dir Direction, addr Addr, numSessions int) *EvtPeerConnected {
	return &EvtPeerConnected{
		BaseEvent:   NewBaseEvent("peer.connected"),
		Peer:        peer,
		Direction:   dir,
		Addr:        addr,
		NumSessions: numSessions,
	}
}

// EvtPeerDisconnected 会话断开事件
type EvtPeerDisconnected struct {
	BaseEvent

	// Peer 对端节点
	Peer PeerID

	// Reason 断开原因
	Reason DisconnectReason

	// Err 关联错误描述（可为空）
	Err string

	// NumSessions 当前会话总数
	NumSessions int
}

// NewEvtPeerDisconnected 创建会话断开事件
func NewEvtPeerDisconnected(peer PeerID, reason DisconnectReason, errMsg string, numSessions int) *EvtPeerDisconnected {
	return &EvtPeerDisconnected{
		BaseEvent:   NewBaseEvent("peer.disconnected"),
		Peer:        peer,
		Reason:      reason,
		Err:         errMsg,
		NumSessions: numSessions,
	}
}

// EvtDialFailed 拨号失败事件
//
// 对节点的一轮拨号（全部候选地址）失败后发布，退避窗口内的
// 快速失败不发布。
type EvtDialFailed struct {
	BaseEvent

	// Peer 目标节点
	Peer PeerID

	// Err 失败原因描述
	Err string
}

// NewEvtDialFailed 创建拨号失败事件
func NewEvtDialFailed(peer PeerID, errMsg string) *EvtDialFailed {
	return &EvtDialFailed{
		BaseEvent: NewBaseEvent("dial.failed"),
		Peer:      peer,
		Err:       errMsg,
	}
}

// ============================================================================
//                              发现事件
// ============================================================================

// EvtPeerDiscovered 节点发现事件
//
// 每个新学到的 PeerID 恰好发布一次；重复发现已知且未被淘汰的节点
// 不会再次发布。节点被淘汰后再次学到视为新节点。
type EvtPeerDiscovered struct {
	BaseEvent

	// Peer 新发现的节点
	Peer PeerID

	// Addrs 发现时已知的地址
	Addrs []Addr

	// Source 发现来源（"bootstrap" / "lookup" / "inbound"）
	Source string
}

// NewEvtPeerDiscovered 创建节点发现事件
func NewEvtPeerDiscovered(peer PeerID, addrs []Addr, source string) *EvtPeerDiscovered {
	return &EvtPeerDiscovered{
		BaseEvent: NewBaseEvent("peer.discovered"),
		Peer:      peer,
		Addrs:     addrs,
		Source:    source,
	}
}
