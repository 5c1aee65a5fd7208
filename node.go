package mothra

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/mothra-net/go-mothra/config"
	"github.com/mothra-net/go-mothra/internal/bridge"
	"github.com/mothra-net/go-mothra/internal/protocol/identify"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("mothra")

// ════════════════════════════════════════════════════════════════════════════
//                              节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点状态
//
// 状态单向推进：Idle → Starting → Running → Stopping → Stopped。
type NodeState int

const (
	// StateIdle 已创建，未启动
	StateIdle NodeState = iota

	// StateStarting 启动中
	StateStarting

	// StateRunning 运行中
	StateRunning

	// StateStopping 停止中
	StateStopping

	// StateStopped 已停止，不可重新启动
	StateStopped
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// 启动超时配置
const (
	// startTimeout 引擎组装与组件启动的超时
	startTimeout = 30 * time.Second

	// unwindTimeout 启动失败回退的超时
	unwindTimeout = 10 * time.Second
)

// Node Mothra 节点
//
// Node 是宿主与网络交互的唯一入口：一个门面，聚合会话层、
// 发现服务、八卦路由、RPC 复用和事件桥。网络事件经注册的
// 回调投递给宿主，宿主命令经事件桥串行进入引擎。
//
// 使用示例：
//
//	node, err := mothra.New(
//	    mothra.WithListenPort(9000),
//	    mothra.WithTopics("/mothra/topic1"),
//	    mothra.WithGossipHandler(func(id types.MessageID, from types.PeerID, topic string, payload []byte) {
//	        fmt.Println(topic, string(payload))
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := node.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Stop(context.Background())
type Node struct {
	// config 统一配置
	config *config.Config

	// handlers 宿主回调
	handlers bridge.Handlers

	// app Fx 应用，在 Start 中构建
	app *fx.App

	// logFile 日志输出文件（配置了 Log.File 时打开）
	logFile *os.File

	// ────────────────────────────────────────────────────────────────────────
	// 引擎组件（由 Fx 注入）
	// ────────────────────────────────────────────────────────────────────────

	localPeer types.PeerID
	swarm     pkgif.Swarm
	discovery pkgif.Discovery
	gossip    pkgif.GossipRouter
	rpc       pkgif.RPCService
	bridge    *bridge.Bridge
	peerstore pkgif.Peerstore
	identify  *identify.Service
	registry  *prometheus.Registry

	// ────────────────────────────────────────────────────────────────────────
	// 生命周期状态
	// ────────────────────────────────────────────────────────────────────────

	mu    sync.RWMutex
	state NodeState
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造函数
// ════════════════════════════════════════════════════════════════════════════

// New 创建新节点
//
// 只应用选项，不触网络；需要调用 Start 启动。
// 同一进程可以创建多个节点，日志级别是唯一的进程级开关。
func New(opts ...Option) (*Node, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	return &Node{
		config:   o.cfg,
		handlers: o.handlers,
		state:    StateIdle,
	}, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              基本信息
// ════════════════════════════════════════════════════════════════════════════

// ID 返回本地节点 ID
//
// 身份在 Start 中加载，启动前返回空值。
func (n *Node) ID() types.PeerID {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.localPeer
}

// ListenAddrs 返回监听地址
func (n *Node) ListenAddrs() []types.Addr {
	n.mu.RLock()
	sw := n.swarm
	n.mu.RUnlock()

	if sw == nil {
		return nil
	}
	return sw.ListenAddrs()
}

// State 返回节点当前状态
func (n *Node) State() NodeState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// IsRunning 检查节点是否正在运行
func (n *Node) IsRunning() bool {
	return n.State() == StateRunning
}

// MetricsRegistry 返回引擎指标注册表
//
// 可挂接 promhttp 对外暴露。启动前返回 nil。
func (n *Node) MetricsRegistry() *prometheus.Registry {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.registry
}

// PeerAgent 返回对端 hello 交换上报的 agent 串
//
// 对端未知或尚未完成 hello 交换时返回 false。
func (n *Node) PeerAgent(peer types.PeerID) (string, bool) {
	n.mu.RLock()
	ps := n.peerstore
	n.mu.RUnlock()

	if ps == nil {
		return "", false
	}
	rec, ok := ps.Get(peer)
	if !ok || rec.Agent.IsZero() {
		return "", false
	}
	return rec.Agent.UserAgent(), true
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期管理
// ════════════════════════════════════════════════════════════════════════════

// Start 启动节点
//
// 依次完成：
//  1. 配置校验、日志设置
//  2. 引擎组装与组件启动（身份加载、事件桥、发现、协议层）
//  3. 监听配置的地址
//  4. 发现引导（此时签名记录携带的才是真实监听地址）
//  5. 订阅初始主题
//
// 任何一步失败都回退已完成的部分并返回 StartupError。
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateIdle:
	case StateStarting, StateRunning:
		return ErrAlreadyStarted
	default:
		return ErrNodeStopped
	}

	if err := n.config.Validate(); err != nil {
		return types.NewStartupError("config", err)
	}
	if err := n.applyLogConfig(); err != nil {
		return types.NewStartupError("log", err)
	}

	n.state = StateStarting
	logger.Info("正在启动节点")

	n.app = buildFxApp(n.config, n)

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := n.app.Start(startCtx); err != nil {
		logger.Error("引擎启动失败", "error", err)
		n.unwind()
		return startupError("engine", err)
	}

	addrs, err := types.ParseAddrs(n.config.Network.ExpandedListenAddrs()...)
	if err == nil {
		err = n.swarm.Listen(addrs...)
	}
	if err != nil {
		logger.Error("监听地址失败", "error", err)
		n.unwind()
		return startupError("listen", err)
	}

	if err := n.discovery.Bootstrap(ctx); err != nil {
		logger.Error("发现引导失败", "error", err)
		n.unwind()
		return startupError("bootstrap", err)
	}

	for _, topic := range n.config.Gossip.Topics {
		if err := n.gossip.Subscribe(topic); err != nil {
			logger.Error("订阅主题失败", "topic", topic, "error", err)
			n.unwind()
			return startupError("subscribe", err)
		}
	}

	n.state = StateRunning
	logger.Info("节点启动成功",
		"peer", n.localPeer.ShortString(),
		"addrs", n.swarm.ListenAddrs())
	return nil
}

// Stop 停止节点
//
// 停止顺序：
//  1. 停止发现服务，不再产生新的对端与查询
//  2. 宽限期内尽量排空八卦出站队列
//  3. 其余组件按启动的反序停止：协议层（在途请求按失败投递）、
//     事件桥（排空剩余通知）、会话层、存储
//
// 各步骤的错误聚合后一并返回。
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	switch n.state {
	case StateRunning:
	case StateIdle, StateStarting:
		n.mu.Unlock()
		return ErrNotStarted
	default:
		n.mu.Unlock()
		return ErrNodeStopped
	}
	n.state = StateStopping
	n.mu.Unlock()

	logger.Info("正在停止节点")

	var errs error
	if err := n.discovery.Stop(); err != nil {
		errs = multierr.Append(errs, err)
	}

	if grace := n.config.Gossip.FlushGrace.Duration(); grace > 0 {
		flushCtx, cancel := context.WithTimeout(ctx, grace)
		if err := n.gossip.Flush(flushCtx); err != nil {
			logger.Warn("八卦队列未在宽限期内排空", "error", err)
		}
		cancel()
	}

	if err := n.app.Stop(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}

	n.mu.Lock()
	n.closeLogFile()
	n.state = StateStopped
	n.mu.Unlock()

	if errs != nil {
		logger.Error("停止节点出错", "error", errs)
		return errs
	}
	logger.Info("节点已停止")
	return nil
}

// unwind 回退已启动的引擎组件
//
// 调用方持有 n.mu。只停止已成功启动的部分。
func (n *Node) unwind() {
	stopCtx, cancel := context.WithTimeout(context.Background(), unwindTimeout)
	defer cancel()
	if err := n.app.Stop(stopCtx); err != nil {
		logger.Warn("启动回退未完全成功", "error", err)
	}
	n.closeLogFile()
	n.state = StateStopped
}

// startupError 包装启动错误，已是 StartupError 时原样返回
func startupError(op string, err error) error {
	if types.IsStartupError(err) {
		return err
	}
	return types.NewStartupError(op, err)
}

// applyLogConfig 应用日志级别和输出文件
func (n *Node) applyLogConfig() error {
	if n.config.Log.Level != "" {
		level, err := log.ParseLevel(n.config.Log.Level)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}
	if n.config.Log.File != "" {
		f, err := os.OpenFile(n.config.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}
		log.SetOutput(f)
		n.logFile = f
	}
	return nil
}

// closeLogFile 关闭日志输出文件
func (n *Node) closeLogFile() {
	if n.logFile != nil {
		_ = n.logFile.Close()
		n.logFile = nil
	}
}
