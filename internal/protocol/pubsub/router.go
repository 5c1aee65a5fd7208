package pubsub

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mothra-net/go-mothra/internal/core/metrics"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/protocolids"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("pubsub")

// 确保 Router 实现八卦路由接口
var _ pkgif.GossipRouter = (*Router)(nil)

// ProtocolID 八卦协议标识
const ProtocolID = protocolids.Gossip

// flushTick 等待队列排空时的轮询间隔
const flushTick = 10 * time.Millisecond

// ============================================================================
//                              选项
// ============================================================================

// Option 路由器配置选项
type Option func(*Router) error

// WithConfig 使用自定义配置
func WithConfig(cfg *Config) Option {
	return func(r *Router) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidConfig)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		r.config = cfg
		return nil
	}
}

// WithMetrics 挂接指标记录器
func WithMetrics(rec *metrics.Recorder) Option {
	return func(r *Router) error {
		r.metrics = rec
		return nil
	}
}

// ============================================================================
//                              Router
// ============================================================================

// Router 洪泛式八卦路由器
//
// 订阅集、远端兴趣表和链路表由 mu 保护；已见缓存自带并发安全。
// 帧的实际写入只发生在每条链路自己的写循环里。
type Router struct {
	localID  types.PeerID
	swarm    pkgif.Swarm
	notifier pkgif.Notifier
	metrics  *metrics.Recorder
	config   *Config

	seen *lru.Cache[types.MessageID, struct{}]

	// mu 保护 localSubs、interest 和 links
	mu        sync.RWMutex
	localSubs map[string]struct{}
	interest  map[string]map[types.PeerID]struct{}
	links     map[types.PeerID]*peerLink

	watcher *sessionWatcher

	loopCtx    context.Context
	loopCancel context.CancelFunc
	wg         sync.WaitGroup

	started atomic.Bool
	closed  atomic.Bool
}

// New 创建八卦路由器
//
// notifier 承接首见消息的本地投递，不可为 nil。
func New(localID types.PeerID, sw pkgif.Swarm, notifier pkgif.Notifier, opts ...Option) (*Router, error) {
	if localID.IsEmpty() {
		return nil, types.ErrInvalidPeerID
	}
	if sw == nil {
		return nil, fmt.Errorf("%w: nil swarm", ErrInvalidConfig)
	}
	if notifier == nil {
		return nil, fmt.Errorf("%w: nil notifier", ErrInvalidConfig)
	}

	r := &Router{
		localID:   localID,
		swarm:     sw,
		notifier:  notifier,
		config:    DefaultConfig(),
		localSubs: make(map[string]struct{}),
		interest:  make(map[string]map[types.PeerID]struct{}),
		links:     make(map[types.PeerID]*peerLink),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	seen, err := lru.New[types.MessageID, struct{}](r.config.SeenCacheSize)
	if err != nil {
		return nil, fmt.Errorf("pubsub: create seen cache: %w", err)
	}
	r.seen = seen
	r.watcher = &sessionWatcher{router: r}

	return r, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动路由器
//
// 注册流处理器和会话监视器。已有会话也会补建链路，
// 保证启动顺序不影响链路覆盖。
func (r *Router) Start(_ context.Context) error {
	if r.closed.Load() {
		return ErrRouterClosed
	}
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	r.loopCtx, r.loopCancel = context.WithCancel(context.Background())
	r.swarm.SetStreamHandler(ProtocolID, r.handleStream)
	r.swarm.Notify(r.watcher)

	for _, sess := range r.swarm.Sessions() {
		r.watcher.Connected(sess)
	}

	logger.Info("八卦路由器已启动",
		"seenCacheSize", r.config.SeenCacheSize,
		"peerQueueSize", r.config.PeerQueueSize)
	return nil
}

// Close 关闭路由器
//
// 拆除全部链路并注销网络回调。在途出站帧不再保证送达，
// 需要排空时先调用 Flush。
func (r *Router) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	if !r.started.Load() {
		return nil
	}

	r.swarm.RemoveStreamHandler(ProtocolID)
	r.swarm.StopNotify(r.watcher)
	r.loopCancel()

	r.mu.Lock()
	links := make([]*peerLink, 0, len(r.links))
	for _, l := range r.links {
		links = append(links, l)
	}
	r.mu.Unlock()

	for _, l := range links {
		r.closeLink(l, nil)
	}
	r.wg.Wait()

	logger.Info("八卦路由器已关闭")
	return nil
}

// ============================================================================
//                              订阅管理
// ============================================================================

// Subscribe 订阅主题
//
// 重复订阅幂等。变更以控制帧广播给所有链路。
func (r *Router) Subscribe(topic string) error {
	if err := r.checkRunning(); err != nil {
		return err
	}
	if topic == "" {
		return ErrEmptyTopic
	}

	r.mu.Lock()
	if _, ok := r.localSubs[topic]; ok {
		r.mu.Unlock()
		return nil
	}
	r.localSubs[topic] = struct{}{}
	links := r.snapshotLinksLocked()
	r.mu.Unlock()

	logger.Debug("订阅主题", "topic", topic)
	r.broadcastControl(links, wire.GossipKind_GOSSIP_SUBSCRIBE, []string{topic})
	return nil
}

// Unsubscribe 退订主题
//
// 退订不存在的主题不报错。
func (r *Router) Unsubscribe(topic string) error {
	if err := r.checkRunning(); err != nil {
		return err
	}
	if topic == "" {
		return ErrEmptyTopic
	}

	r.mu.Lock()
	if _, ok := r.localSubs[topic]; !ok {
		r.mu.Unlock()
		return nil
	}
	delete(r.localSubs, topic)
	links := r.snapshotLinksLocked()
	r.mu.Unlock()

	logger.Debug("退订主题", "topic", topic)
	r.broadcastControl(links, wire.GossipKind_GOSSIP_UNSUBSCRIBE, []string{topic})
	return nil
}

// Topics 返回当前订阅的主题（按字典序）
func (r *Router) Topics() []string {
	r.mu.RLock()
	topics := make([]string, 0, len(r.localSubs))
	for t := range r.localSubs {
		topics = append(topics, t)
	}
	r.mu.RUnlock()

	sort.Strings(topics)
	return topics
}

// ============================================================================
//                              发布
// ============================================================================

// Publish 向主题发布消息
//
// 发布方无需订阅主题。没有任何本地或远端兴趣时消息直接丢弃并
// 返回成功；重复内容（相同消息 ID）同样静默成功，不重复广播。
func (r *Router) Publish(topic string, payload []byte) error {
	if err := r.checkRunning(); err != nil {
		return err
	}
	if topic == "" {
		return ErrEmptyTopic
	}
	if len(payload) > r.config.MaxMessageSize {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(payload), r.config.MaxMessageSize)
	}

	if !r.hasInterest(topic) {
		logger.Debug("主题无人订阅，丢弃发布", "topic", topic)
		return nil
	}

	id := types.ComputeMessageID(r.localID, topic, payload)
	if already, _ := r.seen.ContainsOrAdd(id, struct{}{}); already {
		return nil
	}

	if r.metrics != nil {
		r.metrics.ObserveGossipPublished(len(payload))
	}

	frame := &wire.GossipFrame{
		Kind:    wire.GossipKind_GOSSIP_DATA,
		Origin:  r.localID.Bytes(),
		Topic:   topic,
		Payload: payload,
	}
	r.forwardData(topic, frame, types.PeerID{})

	if r.subscribed(topic) {
		r.notifier.NotifyGossip(topic, r.localID, id, payload)
		if r.metrics != nil {
			r.metrics.ObserveGossipDelivered(len(payload))
		}
	}
	return nil
}

// ============================================================================
//                              排空与查询
// ============================================================================

// Flush 等待所有出站队列排空
//
// 排不空时在 ctx 到期后放弃，仍返回 nil：出站八卦本就是尽力而为。
func (r *Router) Flush(ctx context.Context) error {
	if r.closed.Load() {
		return ErrRouterClosed
	}

	ticker := time.NewTicker(flushTick)
	defer ticker.Stop()

	for {
		if r.pendingFrames() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			logger.Debug("宽限期内未排空出站队列", "pending", r.pendingFrames())
			return nil
		case <-ticker.C:
		}
	}
}

// Peers 返回已建立八卦链路的节点
func (r *Router) Peers() []types.PeerID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	peers := make([]types.PeerID, 0, len(r.links))
	for p := range r.links {
		peers = append(peers, p)
	}
	return peers
}

// ListPeers 返回对指定主题表达过兴趣的远端节点
func (r *Router) ListPeers(topic string) []types.PeerID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.interest[topic]
	peers := make([]types.PeerID, 0, len(set))
	for p := range set {
		peers = append(peers, p)
	}
	return peers
}

// ============================================================================
//                              内部辅助
// ============================================================================

func (r *Router) checkRunning() error {
	if r.closed.Load() {
		return ErrRouterClosed
	}
	if !r.started.Load() {
		return ErrNotStarted
	}
	return nil
}

// subscribed 检查本地是否订阅了主题
func (r *Router) subscribed(topic string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.localSubs[topic]
	return ok
}

// hasInterest 检查主题是否存在本地订阅或远端兴趣
func (r *Router) hasInterest(topic string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.localSubs[topic]; ok {
		return true
	}
	return len(r.interest[topic]) > 0
}

// snapshotLinksLocked 在持有 mu 的前提下复制链路表
func (r *Router) snapshotLinksLocked() []*peerLink {
	links := make([]*peerLink, 0, len(r.links))
	for _, l := range r.links {
		links = append(links, l)
	}
	return links
}

// localTopicsLocked 在持有 mu 的前提下复制本地订阅集
func (r *Router) localTopicsLocked() []string {
	topics := make([]string, 0, len(r.localSubs))
	for t := range r.localSubs {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// broadcastControl 向链路集广播订阅控制帧
func (r *Router) broadcastControl(links []*peerLink, kind wire.GossipKind, topics []string) {
	if len(topics) == 0 {
		return
	}
	for _, l := range links {
		r.enqueueFrame(l, &wire.GossipFrame{Kind: kind, Topics: topics})
	}
}

// forwardData 把数据帧送往对主题感兴趣的邻居
//
// relayer 是帧的直接来源节点，本地发布时传空；来源节点和
// 发布者自身都不会被回送。
func (r *Router) forwardData(topic string, frame *wire.GossipFrame, relayer types.PeerID) {
	origin, _ := types.PeerIDFromBytes(frame.Origin)

	r.mu.RLock()
	targets := make([]*peerLink, 0, len(r.interest[topic]))
	for p := range r.interest[topic] {
		if p.Equal(relayer) || p.Equal(origin) {
			continue
		}
		if l, ok := r.links[p]; ok {
			targets = append(targets, l)
		}
	}
	r.mu.RUnlock()

	for _, l := range targets {
		r.enqueueFrame(l, frame)
	}
}

// pendingFrames 统计所有链路待发送的帧数
func (r *Router) pendingFrames() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, l := range r.links {
		n += len(l.out)
	}
	return n
}
