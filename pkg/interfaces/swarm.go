// Package interfaces 定义 Mothra 公共接口
//
// 本文件定义 Swarm 组件接口，对应 internal/core/swarm/ 实现。
package interfaces

import (
	"context"
	"time"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// StreamHandler 入站流处理函数类型
//
// 当协商出对应协议的入站流时被调用。处理器负责读写和关闭流。
type StreamHandler func(stream Stream)

// Swarm 定义连接群管理接口
//
// Swarm 管理所有出站和入站会话，提供按协议分发的流接入。
// 每个远端节点至多维持一个会话。
type Swarm interface {
	// LocalPeer 返回本地节点 ID
	LocalPeer() types.PeerID

	// Listen 监听指定地址
	Listen(addrs ...types.Addr) error

	// ListenAddrs 返回所有监听地址
	ListenAddrs() []types.Addr

	// Peers 返回所有已连接的节点 ID
	Peers() []types.PeerID

	// Sessions 返回所有活跃会话
	Sessions() []Session

	// SessionToPeer 返回到指定节点的会话，无会话时返回 nil
	SessionToPeer(peer types.PeerID) Session

	// Connectedness 返回与指定节点的连接状态
	Connectedness(peer types.PeerID) types.ConnState

	// DialPeer 拨号连接到指定节点
	//
	// 并发拨号同一节点会合并为一次实际拨号。已有会话时直接返回。
	DialPeer(ctx context.Context, peer types.PeerID) (Session, error)

	// ClosePeer 关闭与指定节点的会话
	ClosePeer(peer types.PeerID) error

	// NewStream 在到指定节点的会话上打开指定协议的流
	//
	// 无会话时先拨号。
	NewStream(ctx context.Context, peer types.PeerID, proto string) (Stream, error)

	// SetStreamHandler 注册协议的入站流处理器
	SetStreamHandler(proto string, handler StreamHandler)

	// RemoveStreamHandler 移除协议的入站流处理器
	RemoveStreamHandler(proto string)

	// Notify 注册会话事件通知
	Notify(n Notifiee)

	// StopNotify 取消会话事件通知
	StopNotify(n Notifiee)

	// Close 关闭 Swarm 及其全部会话
	Close() error
}

// Session 定义到单个远端节点的会话接口
//
// 一个会话对应一条经过加密和多路复用升级的连接。
type Session interface {
	// LocalPeer 返回本地节点 ID
	LocalPeer() types.PeerID

	// RemotePeer 返回远端节点 ID
	RemotePeer() types.PeerID

	// LocalMultiaddr 返回本端地址
	LocalMultiaddr() types.Addr

	// RemoteMultiaddr 返回远端地址
	RemoteMultiaddr() types.Addr

	// Direction 返回会话方向
	Direction() types.Direction

	// Opened 返回会话建立时间
	Opened() time.Time

	// LastUsed 返回最近一次流活动时间
	LastUsed() time.Time

	// NumStreams 返回会话上的流数量
	NumStreams() int

	// OpenStream 在会话上打开指定协议的流
	OpenStream(ctx context.Context, proto string) (Stream, error)

	// Close 关闭会话
	Close() error

	// IsClosed 检查会话是否已关闭
	IsClosed() bool
}

// Stream 定义协议流接口
type Stream interface {
	MuxedStream

	// Protocol 返回流协商的协议标识
	Protocol() string

	// Session 返回流所属的会话
	Session() Session
}

// Notifiee 定义 Swarm 会话事件通知接口
type Notifiee interface {
	// Connected 当建立新会话时调用
	Connected(s Session)

	// Disconnected 当会话断开时调用
	Disconnected(s Session, reason types.DisconnectReason)
}
