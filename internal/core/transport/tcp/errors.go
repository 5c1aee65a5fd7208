// Package tcp 实现 TCP 传输层
package tcp

import "errors"

var (
	// ErrTransportClosed 传输已关闭
	ErrTransportClosed = errors.New("tcp transport closed")

	// ErrListenerClosed 监听器已关闭
	ErrListenerClosed = errors.New("tcp listener closed")

	// ErrUnsupportedAddr 地址不属于本传输
	ErrUnsupportedAddr = errors.New("address not supported by tcp transport")
)
