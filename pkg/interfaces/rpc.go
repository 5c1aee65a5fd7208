// Package interfaces 定义 Mothra 公共接口
//
// 本文件定义 RPCService 接口，对应 internal/protocol/rpc/ 实现。
package interfaces

import (
	"github.com/mothra-net/go-mothra/pkg/types"
)

// RPCService 定义请求响应复用接口
//
// 每个出站请求分配唯一关联键，保证恰好一次响应或超时。
// 请求与响应通过出站事件投递给应用，不提供阻塞调用。
type RPCService interface {
	// SendRequest 向指定节点发送请求
	//
	// 立即返回分配的关联键；响应或超时经 Notifier 投递。
	SendRequest(peer types.PeerID, method string, payload []byte) (types.CorrelationKey, error)

	// SendResponse 应答指定节点最早的未完成入站请求
	//
	// 无匹配的未完成请求时返回错误。
	SendResponse(peer types.PeerID, method string, payload []byte) error

	// Close 关闭服务，所有在途请求按失败投递
	Close() error
}
