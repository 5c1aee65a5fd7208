package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mothra"

// Recorder 持有节点的全部 Prometheus 收集器
type Recorder struct {
	sessionsActive prometheus.Gauge
	sessionsOpened *prometheus.CounterVec
	sessionsClosed *prometheus.CounterVec
	dialsFailed    prometheus.Counter

	peersDiscovered *prometheus.CounterVec

	gossipPublished prometheus.Counter
	gossipReceived  *prometheus.CounterVec
	gossipDropped   prometheus.Counter
	gossipBytes     prometheus.Histogram

	rpcRequests *prometheus.CounterVec
	rpcOutcomes *prometheus.CounterVec
	rpcLatency  prometheus.Histogram

	bridgeNotifications *prometheus.CounterVec
	bridgeDropped       prometheus.Counter
}

// NewRecorder 创建 Recorder 并把收集器注册到 reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently established sessions",
		}),
		sessionsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Total sessions established, grouped by direction",
		}, []string{"direction"}),
		sessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Total sessions closed, grouped by reason",
		}, []string{"reason"}),
		dialsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dials_failed_total",
			Help:      "Total dial rounds that exhausted all candidate addresses",
		}),
		peersDiscovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "peers_discovered_total",
			Help:      "Total newly discovered peers, grouped by source",
		}, []string{"source"}),
		gossipPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gossip_published_total",
			Help:      "Total gossip messages published locally",
		}),
		gossipReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gossip_received_total",
			Help:      "Total gossip messages received, grouped by outcome",
		}, []string{"outcome"}),
		gossipDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gossip_dropped_total",
			Help:      "Total gossip messages dropped from full peer queues",
		}),
		gossipBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gossip_payload_bytes",
			Help:      "Gossip payload sizes",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Total RPC requests, grouped by direction",
		}, []string{"direction"}),
		rpcOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_outcomes_total",
			Help:      "Total completed RPC exchanges, grouped by outcome",
		}, []string{"outcome"}),
		rpcLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_latency_seconds",
			Help:      "Latency of outbound RPC exchanges",
			Buckets:   prometheus.DefBuckets,
		}),
		bridgeNotifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_notifications_total",
			Help:      "Total notifications delivered to the application, grouped by kind",
		}, []string{"kind"}),
		bridgeDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_dropped_total",
			Help:      "Total notifications dropped from the full outbound queue",
		}),
	}

	reg.MustRegister(
		r.sessionsActive,
		r.sessionsOpened,
		r.sessionsClosed,
		r.dialsFailed,
		r.peersDiscovered,
		r.gossipPublished,
		r.gossipReceived,
		r.gossipDropped,
		r.gossipBytes,
		r.rpcRequests,
		r.rpcOutcomes,
		r.rpcLatency,
		r.bridgeNotifications,
		r.bridgeDropped,
	)
	return r
}

// NewRegistry 创建带 Go 运行时收集器的注册表
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler 返回暴露 /metrics 的 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ============================================================================
//                              会话指标
// ============================================================================

// SetSessionsActive 记录当前会话总数
func (r *Recorder) SetSessionsActive(n int) {
	r.sessionsActive.Set(float64(n))
}

// ObserveSessionOpened 记一次会话建立
func (r *Recorder) ObserveSessionOpened(direction string) {
	r.sessionsOpened.WithLabelValues(direction).Inc()
}

// ObserveSessionClosed 记一次会话断开
func (r *Recorder) ObserveSessionClosed(reason string) {
	r.sessionsClosed.WithLabelValues(reason).Inc()
}

// ObserveDialFailed 记一次整轮拨号失败
func (r *Recorder) ObserveDialFailed() {
	r.dialsFailed.Inc()
}

// ObservePeerDiscovered 记一次节点发现
func (r *Recorder) ObservePeerDiscovered(source string) {
	if source == "" {
		source = "unknown"
	}
	r.peersDiscovered.WithLabelValues(source).Inc()
}

// ============================================================================
//                              Gossip 指标
// ============================================================================

// ObserveGossipPublished 记一次本地发布
func (r *Recorder) ObserveGossipPublished(payloadLen int) {
	r.gossipPublished.Inc()
	r.gossipBytes.Observe(float64(payloadLen))
}

// ObserveGossipDelivered 记一次首见消息投递
func (r *Recorder) ObserveGossipDelivered(payloadLen int) {
	r.gossipReceived.WithLabelValues("delivered").Inc()
	r.gossipBytes.Observe(float64(payloadLen))
}

// ObserveGossipDuplicate 记一次重复消息丢弃
func (r *Recorder) ObserveGossipDuplicate() {
	r.gossipReceived.WithLabelValues("duplicate").Inc()
}

// ObserveGossipNoInterest 记一次无人订阅丢弃
func (r *Recorder) ObserveGossipNoInterest() {
	r.gossipReceived.WithLabelValues("no_interest").Inc()
}

// ObserveGossipQueueDrop 记一次发送队列溢出丢弃
func (r *Recorder) ObserveGossipQueueDrop() {
	r.gossipDropped.Inc()
}

// ============================================================================
//                              RPC 指标
// ============================================================================

// ObserveRPCRequest 记一次 RPC 请求
func (r *Recorder) ObserveRPCRequest(direction string) {
	r.rpcRequests.WithLabelValues(direction).Inc()
}

// ObserveRPCOutcome 记一次出站交换的结束
func (r *Recorder) ObserveRPCOutcome(outcome string, elapsed time.Duration) {
	r.rpcOutcomes.WithLabelValues(outcome).Inc()
	r.rpcLatency.Observe(elapsed.Seconds())
}

// ============================================================================
//                              桥接队列指标
// ============================================================================

// ObserveNotification 记一次应用通知投递
func (r *Recorder) ObserveNotification(kind string) {
	r.bridgeNotifications.WithLabelValues(kind).Inc()
}

// ObserveNotificationDrop 记一次出站队列溢出丢弃
func (r *Recorder) ObserveNotificationDrop() {
	r.bridgeDropped.Inc()
}
