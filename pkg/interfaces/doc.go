// Package interfaces 定义 Mothra 的公共接口
//
// 本包采用扁平命名，一个接口文件对应一个实现目录：
//
// # Core Layer 接口
//
// P2P 网络核心能力：
//   - transport.go      - 传输层（internal/core/transport/）
//   - security.go       - 安全层（internal/core/security/noise/）
//   - muxer.go          - 多路复用层（internal/core/muxer/yamux/）
//   - swarm.go          - 连接群管理（internal/core/swarm/）
//   - peerstore.go      - 节点信息存储（internal/core/peerstore/）
//   - eventbus.go       - 事件总线（internal/core/eventbus/）
//
// # Service Layer 接口
//
// 节点对外能力：
//   - discovery.go      - 节点发现（internal/discovery/）
//   - pubsub.go         - 八卦路由（internal/protocol/pubsub/）
//   - rpc.go            - 请求响应复用（internal/protocol/rpc/）
//   - notifier.go       - 出站事件投递（internal/bridge/）
//
// # 设计原则
//
//   - 接受接口，返回结构体
//   - 阻塞操作带 context.Context
//   - 接口只定义行为，数据类型在 pkg/types
package interfaces
