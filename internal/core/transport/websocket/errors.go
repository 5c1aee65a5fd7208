// Package websocket 实现 WebSocket 传输层
package websocket

import "errors"

var (
	// ErrTransportClosed 传输已关闭
	ErrTransportClosed = errors.New("websocket transport closed")

	// ErrListenerClosed 监听器已关闭
	ErrListenerClosed = errors.New("websocket listener closed")

	// ErrUnsupportedAddr 地址不属于本传输
	ErrUnsupportedAddr = errors.New("address not supported by websocket transport")
)
