// Package interfaces 定义 Mothra 公共接口
//
// 本文件定义 Transport 接口，抽象底层传输协议。
package interfaces

import (
	"context"
	"net"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// Transport 定义传输层接口
//
// Transport 抽象不同的传输协议（TCP、WebSocket）。
type Transport interface {
	// Dial 拨号连接到指定地址
	//
	// 返回的连接是未加密的原始连接，需经升级器处理后才可使用。
	Dial(ctx context.Context, raddr types.Addr) (Conn, error)

	// CanDial 检查是否支持拨号到指定地址
	CanDial(addr types.Addr) bool

	// Listen 在指定地址监听
	Listen(laddr types.Addr) (Listener, error)

	// Proto 返回传输协议名（"tcp" 或 "ws"）
	Proto() string

	// Close 关闭传输及其所有监听器
	Close() error
}

// Listener 定义监听器接口
type Listener interface {
	// Accept 接受新连接
	Accept() (Conn, error)

	// Close 关闭监听器
	Close() error

	// Multiaddr 返回监听地址
	Multiaddr() types.Addr
}

// Conn 定义原始传输连接接口
//
// 在 net.Conn 之上补充结构化地址访问。
type Conn interface {
	net.Conn

	// LocalMultiaddr 返回本端地址
	LocalMultiaddr() types.Addr

	// RemoteMultiaddr 返回远端地址
	RemoteMultiaddr() types.Addr
}
