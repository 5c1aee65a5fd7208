// Package interfaces 定义 Mothra 公共接口
//
// 本文件定义多路复用层接口，在单个加密连接上承载多条独立流。
package interfaces

import (
	"context"
	"io"
	"net"
	"time"
)

// Muxer 定义流多路复用器接口
type Muxer interface {
	// NewConn 在已加密连接上建立多路复用会话
	//
	// isServer 表示本端是握手的响应方。
	NewConn(conn net.Conn, isServer bool) (MuxedConn, error)

	// Protocol 返回多路复用协议标识
	Protocol() string
}

// MuxedConn 定义多路复用会话接口
type MuxedConn interface {
	// OpenStream 打开出站流
	OpenStream(ctx context.Context) (MuxedStream, error)

	// AcceptStream 接受入站流
	AcceptStream() (MuxedStream, error)

	// Close 关闭会话及其所有流
	Close() error

	// IsClosed 检查会话是否已关闭
	IsClosed() bool
}

// MuxedStream 定义多路复用流接口
type MuxedStream interface {
	io.Reader
	io.Writer
	io.Closer

	// SetDeadline 设置读写截止时间
	SetDeadline(t time.Time) error

	// SetReadDeadline 设置读截止时间
	SetReadDeadline(t time.Time) error

	// SetWriteDeadline 设置写截止时间
	SetWriteDeadline(t time.Time) error
}
