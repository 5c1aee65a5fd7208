package pubsub

import (
	"sync"
	"sync/atomic"
	"time"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// dropWarnInterval 队列溢出告警的最小间隔
const dropWarnInterval = 10 * time.Second

// peerLink 到单个邻居的八卦链路
//
// 一条链路对应一条长连接双向流。写入只发生在链路的写循环里，
// 读取只发生在读循环里，队列投放可以来自任意 goroutine。
type peerLink struct {
	peer   types.PeerID
	stream pkgif.Stream

	out  chan *wire.GossipFrame
	done chan struct{}
	once sync.Once

	dropped      atomic.Uint64
	lastDropWarn atomic.Int64
}

func newPeerLink(peer types.PeerID, stream pkgif.Stream, queueSize int) *peerLink {
	return &peerLink{
		peer:   peer,
		stream: stream,
		out:    make(chan *wire.GossipFrame, queueSize),
		done:   make(chan struct{}),
	}
}

// ============================================================================
//                              出站队列
// ============================================================================

// enqueueFrame 把帧放进链路的出站队列
//
// 队列满时丢弃最旧的帧，绝不阻塞调用方。并发投放下腾位后的
// 重试仍可能落空，此时丢弃的是新帧，同样计入丢弃数。
func (r *Router) enqueueFrame(l *peerLink, frame *wire.GossipFrame) {
	select {
	case <-l.done:
		return
	default:
	}

	select {
	case l.out <- frame:
		return
	default:
	}

	select {
	case <-l.out:
		r.noteDrop(l)
	default:
	}
	select {
	case l.out <- frame:
	default:
		r.noteDrop(l)
	}
}

// noteDrop 记一次队列溢出丢弃，告警按间隔限流
func (r *Router) noteDrop(l *peerLink) {
	n := l.dropped.Add(1)
	if r.metrics != nil {
		r.metrics.ObserveGossipQueueDrop()
	}

	now := time.Now().UnixNano()
	last := l.lastDropWarn.Load()
	if now-last < int64(dropWarnInterval) {
		return
	}
	if l.lastDropWarn.CompareAndSwap(last, now) {
		logger.Warn("出站队列溢出，丢弃最旧帧",
			"peer", l.peer.ShortString(),
			"dropped", n)
	}
}

// writeLoop 把队列中的帧依次写入流
func (r *Router) writeLoop(l *peerLink) {
	defer r.wg.Done()

	for {
		select {
		case <-l.done:
			return
		case frame := <-l.out:
			_ = l.stream.SetWriteDeadline(time.Now().Add(r.config.WriteTimeout))
			if err := wire.WriteFrame(l.stream, frame); err != nil {
				r.closeLink(l, err)
				return
			}
		}
	}
}
