package rpc

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              交换记录
// ============================================================================

// exchangeAddr 以对端与方法定位入站交换队列
type exchangeAddr struct {
	peer   types.PeerID
	method string
}

// outboundExchange 出站请求的状态
//
// done 的 CAS 决出唯一终态：响应、超时、对端断开或关闭，
// 抢先翻转者负责移除登记并投递通知。
type outboundExchange struct {
	key     types.CorrelationKey
	peer    types.PeerID
	method  string
	started time.Time

	done atomic.Bool

	mu     sync.Mutex
	timer  *clock.Timer
	stream pkgif.Stream
}

// arm 挂载超时定时器
func (ex *outboundExchange) arm(t *clock.Timer) {
	ex.mu.Lock()
	ex.timer = t
	ex.mu.Unlock()
}

// stopTimer 停止超时定时器
func (ex *outboundExchange) stopTimer() {
	ex.mu.Lock()
	t := ex.timer
	ex.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}

// attach 绑定请求流，交换已终态时拒绝
func (ex *outboundExchange) attach(st pkgif.Stream) bool {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if ex.done.Load() {
		return false
	}
	ex.stream = st
	return true
}

// closeStream 关闭已绑定的流，解除读阻塞
func (ex *outboundExchange) closeStream() {
	ex.mu.Lock()
	st := ex.stream
	ex.stream = nil
	ex.mu.Unlock()
	if st != nil {
		_ = st.Close()
	}
}

// inboundExchange 挂起的入站请求
type inboundExchange struct {
	key      types.CorrelationKey
	peer     types.PeerID
	method   string
	received time.Time
	stream   pkgif.Stream

	done atomic.Bool

	mu    sync.Mutex
	timer *clock.Timer
}

// arm 挂载窗口定时器
func (ex *inboundExchange) arm(t *clock.Timer) {
	ex.mu.Lock()
	ex.timer = t
	ex.mu.Unlock()
}

// stopTimer 停止窗口定时器
func (ex *inboundExchange) stopTimer() {
	ex.mu.Lock()
	t := ex.timer
	ex.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}
