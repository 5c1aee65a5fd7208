package bridge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mothra-net/go-mothra/internal/core/metrics"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("bridge")

// dropWarnInterval 丢弃告警的最小间隔
const dropWarnInterval = 10 * time.Second

var _ pkgif.Notifier = (*Bridge)(nil)

// ============================================================================
//                              通知与回调
// ============================================================================

// Handlers 宿主注册的回调集，未设置的回调对应的通知被丢弃
type Handlers struct {
	PeerDiscovered types.PeerDiscoveredHandler
	Gossip         types.GossipHandler
	RPC            types.RPCHandler
}

type notifyKind int

const (
	kindPeerDiscovered notifyKind = iota
	kindGossip
	kindRPC
)

// notification 出站队列中的一条通知
type notification struct {
	kind    notifyKind
	peer    types.PeerID
	topic   string
	id      types.MessageID
	payload []byte
	rpc     types.RPCEvent
}

// ============================================================================
//                              事件桥
// ============================================================================

// Option 桥选项
type Option func(*Bridge) error

// WithConfig 指定配置
func WithConfig(cfg *Config) Option {
	return func(b *Bridge) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidConfig)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		b.config = cfg
		return nil
	}
}

// WithMetrics 接入指标记录器
func WithMetrics(rec *metrics.Recorder) Option {
	return func(b *Bridge) error {
		b.metrics = rec
		return nil
	}
}

// WithHandlers 注册宿主回调
func WithHandlers(h Handlers) Option {
	return func(b *Bridge) error {
		b.handlers = h
		return nil
	}
}

// Bridge 双向有界队列的事件桥
type Bridge struct {
	handlers Handlers
	metrics  *metrics.Recorder
	config   *Config

	out  chan notification
	in   chan func()
	done chan struct{}

	dropped      atomic.Uint64
	lastDropWarn atomic.Int64

	wg      sync.WaitGroup
	started atomic.Bool
	closed  atomic.Bool
}

// New 创建事件桥
func New(opts ...Option) (*Bridge, error) {
	b := &Bridge{
		config: DefaultConfig(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	b.out = make(chan notification, b.config.NotifyQueueSize)
	b.in = make(chan func(), b.config.CommandQueueSize)
	return b, nil
}

// Start 启动分发协程与命令执行协程
func (b *Bridge) Start(_ context.Context) error {
	if b.closed.Load() {
		return ErrBridgeClosed
	}
	if !b.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	b.wg.Add(2)
	go b.dispatcher()
	go b.runner()

	logger.Info("事件桥已启动",
		"commandQueue", b.config.CommandQueueSize,
		"notifyQueue", b.config.NotifyQueueSize)
	return nil
}

// Close 停止两个方向：排空剩余通知，丢弃剩余命令
func (b *Bridge) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	if !b.started.Load() {
		return nil
	}

	close(b.done)
	b.wg.Wait()

	if n := b.dropped.Load(); n > 0 {
		logger.Warn("事件桥关闭，累计丢弃通知", "dropped", n)
	}
	return nil
}

// Dropped 返回累计丢弃的通知数
func (b *Bridge) Dropped() uint64 {
	return b.dropped.Load()
}

// Done 返回关闭信号通道
//
// 等待已提交命令结果的调用方需要同时监听此通道：
// 关闭时未执行的命令会被丢弃，不再产生结果。
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// ============================================================================
//                              入站命令
// ============================================================================

// Submit 把宿主命令排入引擎侧执行队列
//
// 队列满时立即失败，绝不阻塞调用方。
func (b *Bridge) Submit(cmd func()) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", ErrInvalidConfig)
	}
	if b.closed.Load() {
		return ErrBridgeClosed
	}
	if !b.started.Load() {
		return ErrNotStarted
	}

	select {
	case b.in <- cmd:
		return nil
	default:
		return fmt.Errorf("bridge: command queue full: %w",
			types.NewCapacityError("command queue", b.config.CommandQueueSize))
	}
}

// runner 串行执行入站命令
func (b *Bridge) runner() {
	defer b.wg.Done()
	for {
		select {
		case cmd := <-b.in:
			cmd()
		case <-b.done:
			if n := len(b.in); n > 0 {
				logger.Debug("丢弃未执行的命令", "count", n)
			}
			return
		}
	}
}

// ============================================================================
//                              出站通知
// ============================================================================

// NotifyPeerDiscovered 投递节点发现事件
func (b *Bridge) NotifyPeerDiscovered(peer types.PeerID) {
	b.enqueue(notification{kind: kindPeerDiscovered, peer: peer})
}

// NotifyGossip 投递八卦消息
func (b *Bridge) NotifyGossip(topic string, from types.PeerID, id types.MessageID, payload []byte) {
	b.enqueue(notification{
		kind:    kindGossip,
		peer:    from,
		topic:   topic,
		id:      id,
		payload: payload,
	})
}

// NotifyRPC 投递 RPC 请求、响应或失败事件
func (b *Bridge) NotifyRPC(ev types.RPCEvent) {
	b.enqueue(notification{kind: kindRPC, peer: ev.Peer, rpc: ev})
}

// enqueue 通知入队，满时丢最旧
func (b *Bridge) enqueue(n notification) {
	if b.closed.Load() {
		return
	}

	select {
	case b.out <- n:
		return
	default:
	}
	select {
	case <-b.out:
		b.noteDrop()
	default:
	}
	select {
	case b.out <- n:
	default:
		// 与分发协程竞争出队时新通知也可能塞不进去，同样计数
		b.noteDrop()
	}
}

// noteDrop 记丢弃并限频告警
func (b *Bridge) noteDrop() {
	n := b.dropped.Add(1)
	if b.metrics != nil {
		b.metrics.ObserveNotificationDrop()
	}

	now := time.Now().UnixNano()
	last := b.lastDropWarn.Load()
	if now-last < int64(dropWarnInterval) {
		return
	}
	if b.lastDropWarn.CompareAndSwap(last, now) {
		logger.Warn("通知队列溢出，丢弃最旧通知", "dropped", n)
	}
}

// dispatcher 单协程分发通知，回调只在这里执行
func (b *Bridge) dispatcher() {
	defer b.wg.Done()
	for {
		select {
		case n := <-b.out:
			b.dispatch(n)
		case <-b.done:
			for {
				select {
				case n := <-b.out:
					b.dispatch(n)
				default:
					return
				}
			}
		}
	}
}

// dispatch 调用通知对应的宿主回调
func (b *Bridge) dispatch(n notification) {
	if b.metrics != nil {
		b.metrics.ObserveNotification(notifyLabel(n))
	}

	switch n.kind {
	case kindPeerDiscovered:
		if b.handlers.PeerDiscovered != nil {
			b.handlers.PeerDiscovered(n.peer)
		}
	case kindGossip:
		if b.handlers.Gossip != nil {
			b.handlers.Gossip(n.id, n.peer, n.topic, n.payload)
		}
	case kindRPC:
		if b.handlers.RPC != nil {
			b.handlers.RPC(n.rpc)
		}
	}
}

// notifyLabel 指标用的通知类别标签
func notifyLabel(n notification) string {
	switch n.kind {
	case kindPeerDiscovered:
		return "peer_discovered"
	case kindGossip:
		return "gossip"
	case kindRPC:
		if n.rpc.Kind == types.RPCKindFailure {
			return "rpc_failed"
		}
		return "rpc_received"
	default:
		return "unknown"
	}
}
