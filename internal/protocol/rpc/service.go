package rpc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/mothra-net/go-mothra/internal/core/metrics"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/protocolids"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("rpc")

// ProtocolID 请求响应协议标识
const ProtocolID = protocolids.RPC

var _ pkgif.RPCService = (*Service)(nil)

// ============================================================================
//                              选项
// ============================================================================

// Option 服务选项
type Option func(*Service) error

// WithConfig 指定配置
func WithConfig(cfg *Config) Option {
	return func(s *Service) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidConfig)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.config = cfg
		return nil
	}
}

// WithMetrics 接入指标记录器
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *Service) error {
		s.metrics = rec
		return nil
	}
}

// WithClock 替换时钟，测试用
func WithClock(c clock.Clock) Option {
	return func(s *Service) error {
		if c == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidConfig)
		}
		s.clock = c
		return nil
	}
}

// ============================================================================
//                              服务
// ============================================================================

// Service 异步请求响应服务
//
// 出站与入站交换分别登记，生命周期由各自的 done CAS 决出唯一终态。
// 三张表共用一把互斥锁，交换的完成路径先 CAS 后摘表。
type Service struct {
	localID  types.PeerID
	swarm    pkgif.Swarm
	notifier pkgif.Notifier
	metrics  *metrics.Recorder
	clock    clock.Clock
	config   *Config

	mu       sync.Mutex
	outbound map[types.CorrelationKey]*outboundExchange
	inbound  map[types.CorrelationKey]*inboundExchange
	queues   map[exchangeAddr][]*inboundExchange

	watcher    *sessionWatcher
	loopCtx    context.Context
	loopCancel context.CancelFunc
	wg         sync.WaitGroup

	started atomic.Bool
	closed  atomic.Bool
}

// New 创建 RPC 服务
func New(localID types.PeerID, sw pkgif.Swarm, notifier pkgif.Notifier, opts ...Option) (*Service, error) {
	if localID.IsEmpty() {
		return nil, types.ErrInvalidPeerID
	}
	if sw == nil {
		return nil, fmt.Errorf("%w: nil swarm", ErrInvalidConfig)
	}
	if notifier == nil {
		return nil, fmt.Errorf("%w: nil notifier", ErrInvalidConfig)
	}

	s := &Service{
		localID:  localID,
		swarm:    sw,
		notifier: notifier,
		clock:    clock.New(),
		config:   DefaultConfig(),
		outbound: make(map[types.CorrelationKey]*outboundExchange),
		inbound:  make(map[types.CorrelationKey]*inboundExchange),
		queues:   make(map[exchangeAddr][]*inboundExchange),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.watcher = &sessionWatcher{service: s}
	return s, nil
}

// Start 注册流处理器并开始接受交换
func (s *Service) Start(_ context.Context) error {
	if s.closed.Load() {
		return ErrServiceClosed
	}
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	s.loopCtx, s.loopCancel = context.WithCancel(context.Background())
	s.swarm.SetStreamHandler(ProtocolID, s.handleStream)
	s.swarm.Notify(s.watcher)

	logger.Info("RPC 服务已启动",
		"protocol", ProtocolID,
		"requestTimeout", s.config.RequestTimeout,
		"inboundWindow", s.config.InboundWindow)
	return nil
}

// Close 关闭服务，在途出站交换按失败投递，入站交换丢弃
func (s *Service) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if !s.started.Load() {
		return nil
	}

	s.swarm.RemoveStreamHandler(ProtocolID)
	s.swarm.StopNotify(s.watcher)
	s.loopCancel()

	s.mu.Lock()
	outs := make([]*outboundExchange, 0, len(s.outbound))
	for _, ex := range s.outbound {
		outs = append(outs, ex)
	}
	ins := make([]*inboundExchange, 0, len(s.inbound))
	for _, ex := range s.inbound {
		ins = append(ins, ex)
	}
	s.mu.Unlock()

	for _, ex := range outs {
		s.failOutbound(ex, ErrServiceClosed, "closed")
	}
	for _, ex := range ins {
		s.discardInbound(ex, "服务关闭")
	}

	s.wg.Wait()
	logger.Info("RPC 服务已关闭")
	return nil
}

// checkRunning 校验服务处于可用状态
func (s *Service) checkRunning() error {
	if s.closed.Load() {
		return ErrServiceClosed
	}
	if !s.started.Load() {
		return ErrNotStarted
	}
	return nil
}

// ============================================================================
//                              边界操作
// ============================================================================

// SendRequest 向指定节点发起请求
//
// 立即返回关联键，响应、超时或失败之后经 Notifier 投递恰好一次。
func (s *Service) SendRequest(peer types.PeerID, method string, payload []byte) (types.CorrelationKey, error) {
	if err := s.checkRunning(); err != nil {
		return types.EmptyCorrelationKey, err
	}
	if peer.IsEmpty() {
		return types.EmptyCorrelationKey, types.ErrInvalidPeerID
	}
	if method == "" {
		return types.EmptyCorrelationKey, ErrEmptyMethod
	}
	if len(payload) > s.config.MaxPayloadSize {
		return types.EmptyCorrelationKey, fmt.Errorf("%w: %d > %d",
			ErrPayloadTooLarge, len(payload), s.config.MaxPayloadSize)
	}

	ex := &outboundExchange{
		key:     types.NewCorrelationKey(),
		peer:    peer,
		method:  method,
		started: s.clock.Now(),
	}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return types.EmptyCorrelationKey, ErrServiceClosed
	}
	s.outbound[ex.key] = ex
	s.wg.Add(1)
	s.mu.Unlock()

	ex.arm(s.clock.AfterFunc(s.config.RequestTimeout, func() {
		s.timeoutOutbound(ex)
	}))
	if s.metrics != nil {
		s.metrics.ObserveRPCRequest("outbound")
	}

	go s.runRequest(ex, payload)
	return ex.key, nil
}

// SendResponse 应答指定节点最早的未完成入站请求
func (s *Service) SendResponse(peer types.PeerID, method string, payload []byte) error {
	if err := s.checkRunning(); err != nil {
		return err
	}
	if peer.IsEmpty() {
		return types.ErrInvalidPeerID
	}
	if method == "" {
		return ErrEmptyMethod
	}
	if len(payload) > s.config.MaxPayloadSize {
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(payload), s.config.MaxPayloadSize)
	}

	addr := exchangeAddr{peer: peer, method: method}
	for {
		ex := s.oldestPending(addr)
		if ex == nil {
			return ErrNoPendingExchange
		}
		responded, err := s.respondExchange(ex, payload)
		if responded {
			return err
		}
		// 该交换刚被窗口到期或断开抢终，换下一个候选
	}
}

// Respond 按关联键应答指定的入站请求
func (s *Service) Respond(key types.CorrelationKey, payload []byte) error {
	if err := s.checkRunning(); err != nil {
		return err
	}
	if len(payload) > s.config.MaxPayloadSize {
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(payload), s.config.MaxPayloadSize)
	}

	s.mu.Lock()
	ex := s.inbound[key]
	s.mu.Unlock()
	if ex == nil {
		return ErrNoPendingExchange
	}
	responded, err := s.respondExchange(ex, payload)
	if !responded {
		return ErrNoPendingExchange
	}
	return err
}

// oldestPending 取 (peer, method) 队列中最早的未终态交换
func (s *Service) oldestPending(addr exchangeAddr) *inboundExchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ex := range s.queues[addr] {
		if !ex.done.Load() {
			return ex
		}
	}
	return nil
}

// PendingOutbound 返回在途出站交换数
func (s *Service) PendingOutbound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outbound)
}

// PendingInbound 返回挂起的入站交换数
func (s *Service) PendingInbound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inbound)
}

// ============================================================================
//                              表维护
// ============================================================================

// removeOutbound 摘除出站登记
func (s *Service) removeOutbound(key types.CorrelationKey) {
	s.mu.Lock()
	delete(s.outbound, key)
	s.mu.Unlock()
}

// removeInbound 摘除入站登记及其队列项
func (s *Service) removeInbound(ex *inboundExchange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inbound, ex.key)

	addr := exchangeAddr{peer: ex.peer, method: ex.method}
	q := s.queues[addr]
	for i, cur := range q {
		if cur == ex {
			q = append(q[:i], q[i+1:]...)
			break
		}
	}
	if len(q) == 0 {
		delete(s.queues, addr)
	} else {
		s.queues[addr] = q
	}
}

// ============================================================================
//                              会话监视
// ============================================================================

// sessionWatcher 监听会话断开，解绕受影响的交换
type sessionWatcher struct {
	service *Service
}

var _ pkgif.Notifiee = (*sessionWatcher)(nil)

func (w *sessionWatcher) Connected(pkgif.Session) {}

func (w *sessionWatcher) Disconnected(sess pkgif.Session, _ types.DisconnectReason) {
	s := w.service
	if s.closed.Load() {
		return
	}
	s.unwindPeer(sess.RemotePeer())
}

// unwindPeer 把指向断开对端的在途交换全部终结
func (s *Service) unwindPeer(peer types.PeerID) {
	if s.swarm.Connectedness(peer) == types.ConnStateConnected {
		// 对端还有存活会话
		return
	}

	s.mu.Lock()
	var outs []*outboundExchange
	for _, ex := range s.outbound {
		if ex.peer.Equal(peer) {
			outs = append(outs, ex)
		}
	}
	var ins []*inboundExchange
	for _, ex := range s.inbound {
		if ex.peer.Equal(peer) {
			ins = append(ins, ex)
		}
	}
	s.mu.Unlock()

	for _, ex := range outs {
		s.failOutbound(ex, types.NewConnectionError(peer, "exchange", ErrPeerDisconnected), "disconnected")
	}
	for _, ex := range ins {
		s.discardInbound(ex, "对端断开")
	}
}
