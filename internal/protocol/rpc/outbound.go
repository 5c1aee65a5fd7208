package rpc

import (
	"time"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// responseDrainWindow 响应到达后继续排空流的时长，用来捕获重复响应
const responseDrainWindow = time.Second

// ============================================================================
//                              出站交换
// ============================================================================

// runRequest 承载单个出站交换：开流、写请求、等响应
func (s *Service) runRequest(ex *outboundExchange, payload []byte) {
	defer s.wg.Done()

	st, err := s.swarm.NewStream(s.loopCtx, ex.peer, ProtocolID)
	if err != nil {
		s.failOutbound(ex, types.NewConnectionError(ex.peer, "open rpc stream", err), "failed")
		return
	}
	defer st.Close()
	if !ex.attach(st) {
		// 拨号期间交换已被超时或关闭终结
		return
	}

	data, compressed := encodePayload(payload, s.config.CompressMinSize)
	frame := &wire.RPCFrame{
		Kind:        wire.RPCKind_RPC_REQUEST,
		Method:      ex.method,
		Correlation: ex.key.Bytes(),
		Payload:     data,
		Compressed:  compressed,
	}
	_ = st.SetWriteDeadline(time.Now().Add(s.config.IOTimeout))
	if err := wire.WriteFrame(st, frame); err != nil {
		s.failOutbound(ex, types.NewConnectionError(ex.peer, "write request", err), "failed")
		return
	}

	s.readResponses(ex, st)
}

// readResponses 读响应帧直到流结束
//
// 首个匹配帧完成交换；其后到达的响应帧一律按协议异常记录，
// 排空窗口到期后退出，保证对端握着流不放也不会泄漏协程。
func (s *Service) readResponses(ex *outboundExchange, st pkgif.Stream) {
	for {
		var frame wire.RPCFrame
		if err := wire.ReadFrame(st, &frame); err != nil {
			if !ex.done.Load() {
				s.failOutbound(ex, types.NewConnectionError(ex.peer, "read response", err), "failed")
			}
			return
		}

		if frame.Kind != wire.RPCKind_RPC_RESPONSE {
			logger.Warn("请求流上出现非响应帧",
				"error", types.NewProtocolAnomaly(ex.peer, ProtocolID, "unexpected frame kind"))
			continue
		}
		key, err := types.CorrelationKeyFromBytes(frame.Correlation)
		if err != nil || key != ex.key {
			logger.Warn("响应帧关联键不匹配",
				"error", types.NewProtocolAnomaly(ex.peer, ProtocolID, "correlation mismatch"))
			continue
		}
		body, err := decodePayload(&frame, s.config.MaxPayloadSize)
		if err != nil {
			logger.Warn("响应负载解码失败",
				"error", types.NewProtocolAnomaly(ex.peer, ProtocolID, err.Error()))
			continue
		}

		if !s.completeOutbound(ex, body) {
			logger.Warn("丢弃已完成交换的响应",
				"error", types.NewProtocolAnomaly(ex.peer, ProtocolID, "response for completed exchange"))
			continue
		}
		_ = st.SetReadDeadline(time.Now().Add(responseDrainWindow))
	}
}

// completeOutbound 以响应完成出站交换，投递 RPCKindResponse
func (s *Service) completeOutbound(ex *outboundExchange, body []byte) bool {
	if !ex.done.CompareAndSwap(false, true) {
		return false
	}
	ex.stopTimer()
	s.removeOutbound(ex.key)

	if s.metrics != nil {
		s.metrics.ObserveRPCOutcome("completed", s.clock.Since(ex.started))
	}
	s.notifier.NotifyRPC(types.RPCEvent{
		Kind:        types.RPCKindResponse,
		Peer:        ex.peer,
		Method:      ex.method,
		Correlation: ex.key,
		Payload:     body,
	})
	return true
}

// failOutbound 以失败终结出站交换，投递 RPCKindFailure
func (s *Service) failOutbound(ex *outboundExchange, cause error, outcome string) bool {
	if !ex.done.CompareAndSwap(false, true) {
		return false
	}
	ex.stopTimer()
	ex.closeStream()
	s.removeOutbound(ex.key)

	if s.metrics != nil {
		s.metrics.ObserveRPCOutcome(outcome, s.clock.Since(ex.started))
	}
	logger.Debug("出站交换失败",
		"peer", ex.peer.ShortString(),
		"method", ex.method,
		"correlation", ex.key,
		"error", cause)
	s.notifier.NotifyRPC(types.RPCEvent{
		Kind:        types.RPCKindFailure,
		Peer:        ex.peer,
		Method:      ex.method,
		Correlation: ex.key,
		Err:         cause,
	})
	return true
}

// timeoutOutbound 请求期限到达，按超时终结
func (s *Service) timeoutOutbound(ex *outboundExchange) {
	elapsed := s.clock.Since(ex.started)
	s.failOutbound(ex, types.NewTimeoutError(ex.peer, ex.method, elapsed), "timeout")
}
