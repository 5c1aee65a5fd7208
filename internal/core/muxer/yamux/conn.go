// Package yamux 实现基于 hashicorp/yamux 的流多路复用
package yamux

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/yamux"

	"github.com/mothra-net/go-mothra/pkg/interfaces"
)

// ============================================================================
//                              MuxedConn 实现
// ============================================================================

// muxedConn yamux 会话封装
type muxedConn struct {
	session *yamux.Session
}

// 确保实现 interfaces.MuxedConn 接口
var _ interfaces.MuxedConn = (*muxedConn)(nil)

// newMuxedConn 封装 yamux 会话
func newMuxedConn(session *yamux.Session) *muxedConn {
	return &muxedConn{session: session}
}

// OpenStream 打开新流
//
// yamux 的 OpenStream 不接受 context，在独立 goroutine 中执行
// 并用 select 支持取消；取消后迟到的流会被关闭以防泄漏。
func (c *muxedConn) OpenStream(ctx context.Context) (interfaces.MuxedStream, error) {
	if c.session.IsClosed() {
		return nil, ErrSessionClosed
	}

	type result struct {
		stream *yamux.Stream
		err    error
	}
	resultCh := make(chan result, 1)

	go func() {
		s, err := c.session.OpenStream()
		select {
		case resultCh <- result{stream: s, err: err}:
		default:
			if s != nil {
				_ = s.Close()
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-resultCh:
		if r.err != nil {
			return nil, fmt.Errorf("打开流失败: %w", r.err)
		}
		return newMuxedStream(r.stream), nil
	}
}

// AcceptStream 接受对端打开的流
func (c *muxedConn) AcceptStream() (interfaces.MuxedStream, error) {
	s, err := c.session.AcceptStream()
	if err != nil {
		if c.session.IsClosed() {
			return nil, ErrSessionClosed
		}
		return nil, fmt.Errorf("接受流失败: %w", err)
	}
	return newMuxedStream(s), nil
}

// Close 关闭会话及其所有流
func (c *muxedConn) Close() error {
	return c.session.Close()
}

// IsClosed 检查会话是否已关闭
func (c *muxedConn) IsClosed() bool {
	return c.session.IsClosed()
}

// NumStreams 返回当前活跃流数量
func (c *muxedConn) NumStreams() int {
	return c.session.NumStreams()
}

// Ping 测量会话往返时延
func (c *muxedConn) Ping() (time.Duration, error) {
	if c.session.IsClosed() {
		return 0, ErrSessionClosed
	}
	return c.session.Ping()
}
