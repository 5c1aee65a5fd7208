package mothra

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/mothra-net/go-mothra/config"

	// 核心层
	"github.com/mothra-net/go-mothra/internal/core/eventbus"
	"github.com/mothra-net/go-mothra/internal/core/identity"
	"github.com/mothra-net/go-mothra/internal/core/metrics"
	"github.com/mothra-net/go-mothra/internal/core/peerstore"
	"github.com/mothra-net/go-mothra/internal/core/swarm"

	// 发现层
	"github.com/mothra-net/go-mothra/internal/discovery"

	// 协议层
	"github.com/mothra-net/go-mothra/internal/protocol/identify"
	"github.com/mothra-net/go-mothra/internal/protocol/pubsub"
	"github.com/mothra-net/go-mothra/internal/protocol/rpc"

	// 宿主边界
	"github.com/mothra-net/go-mothra/internal/bridge"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// buildFxApp 构建 Fx 应用
//
// 组装顺序（按依赖）：
//  1. 核心层: Identity → EventBus → Peerstore → Metrics → Swarm
//  2. 宿主边界: Bridge（协议层事件的唯一出口）
//  3. 发现层: Kademlia 发现服务
//  4. 协议层: Gossip → RPC → Identify
//
// 所有模块无条件加载，监听、引导和初始订阅由节点编排层在
// 组件就绪后按序执行。
func buildFxApp(cfg *config.Config, node *Node) *fx.App {
	return fx.New(
		// ════════════════════════════════════════════════════════════════════
		// 配置注入
		// ════════════════════════════════════════════════════════════════════
		fx.Supply(cfg),
		fx.Supply(node.handlers),
		fx.Provide(
			provideIdentityConfig,
			provideClientIdentity,
			swarm.ConfigFromUnified,
			discovery.ConfigFromUnified,
			pubsub.ConfigFromUnified,
			rpc.ConfigFromUnified,
			bridge.ConfigFromUnified,
		),

		// ════════════════════════════════════════════════════════════════════
		// 模块装载
		// ════════════════════════════════════════════════════════════════════

		// 核心层
		identity.Module(),
		eventbus.Module(),
		peerstore.Module(),
		metrics.Module(),
		swarm.Module(),

		// 宿主边界
		bridge.Module(),

		// 发现层
		discovery.Module(),

		// 协议层
		pubsub.Module(),
		rpc.Module(),
		identify.Module(),

		// Node 组件注入
		fx.Invoke(injectNodeComponents(node)),

		// 生命周期超时
		fx.StartTimeout(startTimeout),
		fx.StopTimeout(startTimeout),

		// 禁用 Fx 自身的日志输出
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)
}

// ════════════════════════════════════════════════════════════════════════════
// 配置转换函数
// ════════════════════════════════════════════════════════════════════════════

// provideIdentityConfig 从统一配置派生身份配置
func provideIdentityConfig(cfg *config.Config) *identity.Config {
	ic := identity.ConfigFromUnified(cfg)
	return &ic
}

// provideClientIdentity 从统一配置派生 hello 交换用的客户端标识
func provideClientIdentity(cfg *config.Config) types.ClientIdentity {
	return types.ClientIdentity{
		Name:    cfg.Client.Name,
		Version: cfg.Client.Version,
		Agent:   cfg.Client.Agent,
	}
}

// ════════════════════════════════════════════════════════════════════════════
// 组件注入
// ════════════════════════════════════════════════════════════════════════════

// nodeComponents Node 组件注入参数
type nodeComponents struct {
	fx.In

	LocalPeer types.PeerID
	Swarm     pkgif.Swarm
	Discovery pkgif.Discovery
	Gossip    pkgif.GossipRouter
	RPC       pkgif.RPCService
	Bridge    *bridge.Bridge
	Peerstore pkgif.Peerstore
	Registry  *prometheus.Registry

	// Identify 没有其它下游消费者，列在这里保证实例化
	Identify *identify.Service
}

// injectNodeComponents 创建 Node 组件注入函数
func injectNodeComponents(node *Node) interface{} {
	return func(p nodeComponents) {
		node.localPeer = p.LocalPeer
		node.swarm = p.Swarm
		node.discovery = p.Discovery
		node.gossip = p.Gossip
		node.rpc = p.RPC
		node.bridge = p.Bridge
		node.peerstore = p.Peerstore
		node.registry = p.Registry
		node.identify = p.Identify
	}
}
