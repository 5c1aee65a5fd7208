package rpc

import (
	"time"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              入站交换
// ============================================================================

// handleStream 接收入站请求，登记后挂起等待应答
func (s *Service) handleStream(st pkgif.Stream) {
	peer := st.Session().RemotePeer()

	_ = st.SetReadDeadline(time.Now().Add(s.config.IOTimeout))
	var frame wire.RPCFrame
	if err := wire.ReadFrame(st, &frame); err != nil {
		logger.Debug("读取请求帧失败",
			"peer", peer.ShortString(),
			"error", err)
		_ = st.Close()
		return
	}
	_ = st.SetReadDeadline(time.Time{})

	if frame.Kind != wire.RPCKind_RPC_REQUEST {
		logger.Warn("入站流上出现非请求帧",
			"error", types.NewProtocolAnomaly(peer, ProtocolID, "unexpected frame kind"))
		_ = st.Close()
		return
	}
	if frame.Method == "" {
		logger.Warn("请求帧缺少方法名",
			"error", types.NewProtocolAnomaly(peer, ProtocolID, "empty method"))
		_ = st.Close()
		return
	}
	key, err := types.CorrelationKeyFromBytes(frame.Correlation)
	if err != nil {
		logger.Warn("请求帧关联键无效",
			"error", types.NewProtocolAnomaly(peer, ProtocolID, "invalid correlation key"))
		_ = st.Close()
		return
	}
	body, err := decodePayload(&frame, s.config.MaxPayloadSize)
	if err != nil {
		logger.Warn("请求负载解码失败",
			"error", types.NewProtocolAnomaly(peer, ProtocolID, err.Error()))
		_ = st.Close()
		return
	}

	ex := &inboundExchange{
		key:      key,
		peer:     peer,
		method:   frame.Method,
		received: s.clock.Now(),
		stream:   st,
	}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		_ = st.Close()
		return
	}
	if _, dup := s.inbound[key]; dup {
		s.mu.Unlock()
		logger.Warn("入站请求关联键重复",
			"error", types.NewProtocolAnomaly(peer, ProtocolID, "duplicate correlation key"))
		_ = st.Close()
		return
	}
	s.inbound[key] = ex
	addr := exchangeAddr{peer: peer, method: frame.Method}
	s.queues[addr] = append(s.queues[addr], ex)
	s.mu.Unlock()

	ex.arm(s.clock.AfterFunc(s.config.InboundWindow, func() {
		s.discardInbound(ex, "应答窗口到期")
	}))
	if s.metrics != nil {
		s.metrics.ObserveRPCRequest("inbound")
	}

	s.notifier.NotifyRPC(types.RPCEvent{
		Kind:        types.RPCKindRequest,
		Peer:        peer,
		Method:      frame.Method,
		Correlation: key,
		Payload:     body,
	})
}

// respondExchange 写响应帧并终结入站交换
//
// 返回值第一项指示本次调用是否消费了该交换；写失败时交换仍算完成，
// 错误只回给调用方，不再有其他候选被消费。
func (s *Service) respondExchange(ex *inboundExchange, payload []byte) (bool, error) {
	if !ex.done.CompareAndSwap(false, true) {
		return false, nil
	}
	ex.stopTimer()
	s.removeInbound(ex)

	data, compressed := encodePayload(payload, s.config.CompressMinSize)
	frame := &wire.RPCFrame{
		Kind:        wire.RPCKind_RPC_RESPONSE,
		Method:      ex.method,
		Correlation: ex.key.Bytes(),
		Payload:     data,
		Compressed:  compressed,
	}
	_ = ex.stream.SetWriteDeadline(time.Now().Add(s.config.IOTimeout))
	err := wire.WriteFrame(ex.stream, frame)
	_ = ex.stream.Close()

	if s.metrics != nil {
		s.metrics.ObserveRPCOutcome("responded", s.clock.Since(ex.received))
	}
	if err != nil {
		logger.Warn("写响应帧失败",
			"peer", ex.peer.ShortString(),
			"method", ex.method,
			"error", err)
		return true, types.NewConnectionError(ex.peer, "write response", err)
	}
	logger.Debug("入站交换已应答",
		"peer", ex.peer.ShortString(),
		"method", ex.method,
		"correlation", ex.key)
	return true, nil
}

// discardInbound 丢弃入站交换，不投递任何通知
func (s *Service) discardInbound(ex *inboundExchange, reason string) {
	if !ex.done.CompareAndSwap(false, true) {
		return
	}
	ex.stopTimer()
	s.removeInbound(ex)
	_ = ex.stream.Close()

	if s.metrics != nil {
		s.metrics.ObserveRPCOutcome("dropped", s.clock.Since(ex.received))
	}
	logger.Debug("丢弃入站交换",
		"peer", ex.peer.ShortString(),
		"method", ex.method,
		"correlation", ex.key,
		"reason", reason)
}
