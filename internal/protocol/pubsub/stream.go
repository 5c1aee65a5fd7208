package pubsub

import (
	"context"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              链路建立
// ============================================================================

// sessionWatcher 把 Swarm 会话事件转成链路的建立与拆除
type sessionWatcher struct {
	router *Router
}

var _ pkgif.Notifiee = (*sessionWatcher)(nil)

// Connected 会话建立回调
//
// 只有会话发起方打开八卦流，应答方等待入站流，这样每对节点
// 恰好一条长连接双向流。打开失败只留下 Debug 日志，该节点在
// 重连前没有八卦链路。
func (w *sessionWatcher) Connected(sess pkgif.Session) {
	r := w.router
	if r.closed.Load() {
		return
	}
	if sess.Direction() != types.DirOutbound {
		return
	}

	go r.openLink(sess.RemotePeer())
}

// Disconnected 会话断开回调
func (w *sessionWatcher) Disconnected(sess pkgif.Session, _ types.DisconnectReason) {
	r := w.router

	r.mu.RLock()
	l := r.links[sess.RemotePeer()]
	r.mu.RUnlock()

	if l != nil {
		r.closeLink(l, nil)
	}
}

// openLink 主动打开到对端的八卦流
func (r *Router) openLink(peer types.PeerID) {
	ctx, cancel := context.WithTimeout(r.loopCtx, r.config.LinkTimeout)
	defer cancel()

	st, err := r.swarm.NewStream(ctx, peer, ProtocolID)
	if err != nil {
		logger.Debug("打开八卦流失败", "peer", peer.ShortString(), "error", err)
		return
	}
	r.attachLink(peer, st)
}

// handleStream 接收对端打开的八卦流
func (r *Router) handleStream(st pkgif.Stream) {
	r.attachLink(st.Session().RemotePeer(), st)
}

// attachLink 注册链路并启动收发循环
//
// 同一节点已有链路时拒绝新流：协议约定每对节点只有一条流，
// 多出来的流视为对端异常。注册后先通告本地完整订阅集。
// closed 检查和 wg 计数都在临界区内完成，保证 Close 的快照
// 能覆盖每一条成功注册的链路。
func (r *Router) attachLink(peer types.PeerID, st pkgif.Stream) {
	l := newPeerLink(peer, st, r.config.PeerQueueSize)

	r.mu.Lock()
	if r.closed.Load() {
		r.mu.Unlock()
		st.Close()
		return
	}
	if _, ok := r.links[peer]; ok {
		r.mu.Unlock()
		logger.Warn("重复的八卦流",
			"error", types.NewProtocolAnomaly(peer, ProtocolID, "duplicate gossip stream"))
		st.Close()
		return
	}
	r.links[peer] = l
	topics := r.localTopicsLocked()
	r.wg.Add(2)
	r.mu.Unlock()

	logger.Debug("八卦链路建立", "peer", peer.ShortString())

	if len(topics) > 0 {
		r.enqueueFrame(l, &wire.GossipFrame{
			Kind:   wire.GossipKind_GOSSIP_SUBSCRIBE,
			Topics: topics,
		})
	}

	go r.writeLoop(l)
	go r.readLoop(l)
}

// closeLink 拆除链路
//
// 幂等。同时清掉该节点的远端兴趣：对端重连后会重新通告。
func (r *Router) closeLink(l *peerLink, cause error) {
	l.once.Do(func() {
		close(l.done)
		l.stream.Close()

		r.mu.Lock()
		if cur, ok := r.links[l.peer]; ok && cur == l {
			delete(r.links, l.peer)
		}
		for topic, set := range r.interest {
			delete(set, l.peer)
			if len(set) == 0 {
				delete(r.interest, topic)
			}
		}
		r.mu.Unlock()

		if cause != nil {
			logger.Debug("八卦链路断开", "peer", l.peer.ShortString(), "error", cause)
		} else {
			logger.Debug("八卦链路关闭", "peer", l.peer.ShortString())
		}
	})
}

// ============================================================================
//                              入站处理
// ============================================================================

// readLoop 持续读取对端的帧
func (r *Router) readLoop(l *peerLink) {
	defer r.wg.Done()

	for {
		select {
		case <-l.done:
			return
		default:
		}

		var frame wire.GossipFrame
		if err := wire.ReadFrame(l.stream, &frame); err != nil {
			r.closeLink(l, err)
			return
		}
		r.handleFrame(l, &frame)
	}
}

// handleFrame 按帧类型分发
func (r *Router) handleFrame(l *peerLink, frame *wire.GossipFrame) {
	switch frame.Kind {
	case wire.GossipKind_GOSSIP_SUBSCRIBE:
		r.updateInterest(l.peer, frame.Topics, true)
	case wire.GossipKind_GOSSIP_UNSUBSCRIBE:
		r.updateInterest(l.peer, frame.Topics, false)
	case wire.GossipKind_GOSSIP_DATA:
		r.handleData(l.peer, frame)
	default:
		logger.Debug("未知八卦帧类型", "peer", l.peer.ShortString(), "kind", frame.Kind)
	}
}

// updateInterest 更新远端兴趣表
func (r *Router) updateInterest(peer types.PeerID, topics []string, add bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, topic := range topics {
		if topic == "" {
			continue
		}
		if add {
			set, ok := r.interest[topic]
			if !ok {
				set = make(map[types.PeerID]struct{})
				r.interest[topic] = set
			}
			set[peer] = struct{}{}
		} else {
			set := r.interest[topic]
			delete(set, peer)
			if len(set) == 0 {
				delete(r.interest, topic)
			}
		}
	}
}

// handleData 处理入站数据帧
//
// 与本地发布同路：兴趣准入、查已见缓存去重，首见消息继续
// 洪泛并投递给本地订阅者。
func (r *Router) handleData(from types.PeerID, frame *wire.GossipFrame) {
	origin, err := types.PeerIDFromBytes(frame.Origin)
	if err != nil {
		logger.Warn("数据帧发布者标识异常",
			"error", types.NewProtocolAnomaly(from, ProtocolID, err.Error()))
		return
	}
	if frame.Topic == "" || len(frame.Payload) > r.config.MaxMessageSize {
		logger.Warn("数据帧超限",
			"error", types.NewProtocolAnomaly(from, ProtocolID, "empty topic or oversized payload"))
		return
	}

	if !r.hasInterest(frame.Topic) {
		if r.metrics != nil {
			r.metrics.ObserveGossipNoInterest()
		}
		logger.Debug("主题无人订阅，丢弃中继", "topic", frame.Topic, "peer", from.ShortString())
		return
	}

	id := types.ComputeMessageID(origin, frame.Topic, frame.Payload)
	if already, _ := r.seen.ContainsOrAdd(id, struct{}{}); already {
		if r.metrics != nil {
			r.metrics.ObserveGossipDuplicate()
		}
		return
	}

	r.forwardData(frame.Topic, frame, from)

	if r.subscribed(frame.Topic) {
		r.notifier.NotifyGossip(frame.Topic, origin, id, frame.Payload)
		if r.metrics != nil {
			r.metrics.ObserveGossipDelivered(len(frame.Payload))
		}
	}
}
