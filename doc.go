// Package mothra 提供以回调为边界的 P2P 网络节点
//
// Mothra 把发现、八卦传播和请求应答封装在一个节点门面之后：
// 宿主注册回调接收网络事件，通过少量命令方法驱动网络，
// 不接触连接、流或发现表等内部构件。
//
// # 核心概念
//
//   - Node: 节点门面，宿主交互的唯一入口
//   - 回调: 节点发现、八卦消息、RPC 事件经注册的回调投递
//   - 关联键: SendRequest 返回的键，用于匹配后续的应答或失败事件
//
// # 快速开始
//
//	import "github.com/mothra-net/go-mothra"
//
//	// 1. 创建节点
//	node, err := mothra.New(
//	    mothra.WithListenPort(9000),
//	    mothra.WithTopics("/mothra/topic1"),
//	    mothra.WithGossipHandler(func(id types.MessageID, from types.PeerID, topic string, payload []byte) {
//	        fmt.Printf("%s: %s\n", topic, payload)
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// 2. 启动（监听、引导、订阅初始主题）
//	if err := node.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Stop(context.Background())
//
//	// 3. 发布消息
//	node.PublishGossip("/mothra/topic1", []byte("hello"))
//
// # 文件组织
//
//	mothra/
//	├── mothra.go             # 版本信息、类型别名、消息与 RPC 操作
//	├── node.go               # Node 结构定义、New()、Start/Stop 生命周期
//	├── fx.go                 # Fx 应用组装、组件注入
//	├── options.go            # WithXxx 配置选项
//	├── errors.go             # 错误定义
//	│
//	├── config/               # 统一 JSON 配置
//	├── internal/
//	│   ├── core/             # 身份、事件总线、节点信息表、指标、会话层
//	│   ├── discovery/        # Kademlia 节点发现
//	│   ├── protocol/         # 八卦路由、RPC 复用、hello 交换
//	│   └── bridge/           # 宿主与引擎之间的双向有界队列
//	└── pkg/                  # 公共类型、接口与基础库
//
// # 架构
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  宿主边界                                                    │
//	│     回调（PeerDiscovered / Gossip / RPC）+ 命令方法           │
//	├─────────────────────────────────────────────────────────────┤
//	│  协议层                                                      │
//	│     Gossip 路由、RPC 复用、Identify hello 交换               │
//	├─────────────────────────────────────────────────────────────┤
//	│  发现层                                                      │
//	│     Kademlia 路由表、引导、定期刷新                           │
//	├─────────────────────────────────────────────────────────────┤
//	│  核心层                                                      │
//	│     Swarm 会话管理、Noise 加密、Yamux 复用、TCP/WS 传输       │
//	└─────────────────────────────────────────────────────────────┘
//
// # 版本
//
// 当前版本: v0.3.0
package mothra
