// Package interfaces 定义 Mothra 公共接口
//
// 本文件定义 Peerstore 接口，对应 internal/core/peerstore/ 实现。
package interfaces

import (
	"github.com/mothra-net/go-mothra/pkg/types"
)

// Peerstore 定义节点信息存储接口
//
// 保存已知节点的地址、连接状态和标识信息。
// 已连接节点的记录不会被过期清理。
type Peerstore interface {
	// AddAddrs 为节点追加地址（自动去重）
	AddAddrs(peer types.PeerID, addrs ...types.Addr)

	// Addrs 返回节点的已知地址
	Addrs(peer types.PeerID) []types.Addr

	// Get 返回节点记录的副本
	Get(peer types.PeerID) (*types.PeerRecord, bool)

	// SetState 更新节点连接状态
	//
	// 非法状态迁移被忽略。
	SetState(peer types.PeerID, state types.ConnState)

	// SetIdentity 记录 hello 交换得到的完整客户端身份
	SetIdentity(peer types.PeerID, ident types.ClientIdentity)

	// Peers 返回所有已知节点 ID
	Peers() []types.PeerID

	// Remove 删除节点记录
	Remove(peer types.PeerID)

	// Close 停止后台清理
	Close() error
}
