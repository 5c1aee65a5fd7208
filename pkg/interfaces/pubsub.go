// Package interfaces 定义 Mothra 公共接口
//
// 本文件定义 GossipRouter 接口，对应 internal/protocol/pubsub/ 实现。
package interfaces

import (
	"context"
)

// GossipRouter 定义八卦路由接口
//
// 负责主题订阅管理、消息去重和洪泛转发。
// 本地发布和远端中继走同一条去重/转发/投递路径。
type GossipRouter interface {
	// Subscribe 订阅主题
	//
	// 重复订阅幂等。订阅后收到的主题消息投递给应用。
	Subscribe(topic string) error

	// Unsubscribe 退订主题
	//
	// 退订不存在的主题不报错。
	Unsubscribe(topic string) error

	// Publish 向主题发布消息
	//
	// 消息同样经过去重表，再转发给感兴趣的邻居。
	// 本地未订阅该主题时消息不回送给应用。
	Publish(topic string, payload []byte) error

	// Topics 返回当前订阅的主题
	Topics() []string

	// Flush 等待出站队列排空或超出宽限期
	//
	// 供关停路径调用。
	Flush(ctx context.Context) error

	// Close 关闭路由器
	Close() error
}
