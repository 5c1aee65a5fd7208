// Package yamux 实现基于 hashicorp/yamux 的流多路复用
package yamux

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/hashicorp/yamux"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
)

// ErrSessionClosed 会话已关闭
var ErrSessionClosed = errors.New("yamux session closed")

// ============================================================================
//                              MuxedStream 实现
// ============================================================================

// muxedStream yamux 流封装
type muxedStream struct {
	stream *yamux.Stream
	closed atomic.Bool
}

// 确保实现 interfaces.MuxedStream 接口
var _ interfaces.MuxedStream = (*muxedStream)(nil)

// newMuxedStream 封装 yamux 流
func newMuxedStream(s *yamux.Stream) *muxedStream {
	return &muxedStream{stream: s}
}

// Read 从流中读取数据
func (s *muxedStream) Read(p []byte) (int, error) {
	return s.stream.Read(p)
}

// Write 向流写入数据
func (s *muxedStream) Write(p []byte) (int, error) {
	return s.stream.Write(p)
}

// Close 关闭流，幂等
func (s *muxedStream) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.stream.Close()
}

// ID 返回流 ID
func (s *muxedStream) ID() uint32 {
	return s.stream.StreamID()
}

// SetDeadline 设置读写截止时间
func (s *muxedStream) SetDeadline(t time.Time) error {
	return s.stream.SetDeadline(t)
}

// SetReadDeadline 设置读截止时间
func (s *muxedStream) SetReadDeadline(t time.Time) error {
	return s.stream.SetReadDeadline(t)
}

// SetWriteDeadline 设置写截止时间
func (s *muxedStream) SetWriteDeadline(t time.Time) error {
	return s.stream.SetWriteDeadline(t)
}
