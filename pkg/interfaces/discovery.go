// Package interfaces 定义 Mothra 公共接口
//
// 本文件定义 Discovery 接口，对应 internal/discovery/ 实现。
package interfaces

import (
	"context"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// Discovery 定义节点发现接口
//
// 维护按 XOR 距离组织的路由表，通过种子节点引导，
// 周期性查询扩充已知节点集合。
type Discovery interface {
	// Start 启动发现服务（注册协议处理器、开始周期刷新）
	Start(ctx context.Context) error

	// Stop 停止发现服务
	Stop() error

	// Bootstrap 连接种子节点并执行首次自查询
	//
	// 所有种子都不可达时返回错误。
	Bootstrap(ctx context.Context) error

	// FindPeer 查找指定节点的地址记录
	//
	// 先查本地路由表，未命中时发起迭代查询。
	FindPeer(ctx context.Context, peer types.PeerID) (*types.PeerRecord, error)

	// ClosestPeers 返回路由表中距目标最近的节点记录
	ClosestPeers(target types.PeerID, limit int) []*types.PeerRecord

	// KnownPeers 返回路由表中的所有节点 ID
	KnownPeers() []types.PeerID

	// TableSize 返回路由表节点总数
	TableSize() int
}
