// Package interfaces 定义 Mothra 公共接口
//
// 本文件定义 Notifier 接口，对应 internal/bridge/ 实现。
package interfaces

import (
	"github.com/mothra-net/go-mothra/pkg/types"
)

// Notifier 定义出站事件投递接口
//
// 引擎侧通过本接口向应用投递事件。实现必须不阻塞调用方：
// 队列满时丢弃最旧事件而不是反压协议处理路径。
type Notifier interface {
	// NotifyPeerDiscovered 投递节点发现事件
	NotifyPeerDiscovered(peer types.PeerID)

	// NotifyGossip 投递八卦消息
	NotifyGossip(topic string, from types.PeerID, id types.MessageID, payload []byte)

	// NotifyRPC 投递 RPC 请求、响应或失败事件
	NotifyRPC(event types.RPCEvent)
}
