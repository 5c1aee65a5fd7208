package rpc

import "errors"

var (
	// ErrServiceClosed 服务已关闭
	ErrServiceClosed = errors.New("rpc: service closed")

	// ErrNotStarted 服务尚未启动
	ErrNotStarted = errors.New("rpc: service not started")

	// ErrAlreadyStarted 服务已经启动
	ErrAlreadyStarted = errors.New("rpc: service already started")

	// ErrEmptyMethod 方法名为空
	ErrEmptyMethod = errors.New("rpc: empty method")

	// ErrPayloadTooLarge 负载超过大小限制
	ErrPayloadTooLarge = errors.New("rpc: payload exceeds size limit")

	// ErrNoPendingExchange 没有匹配的未完成入站请求
	ErrNoPendingExchange = errors.New("rpc: no pending inbound exchange")

	// ErrPeerDisconnected 交换因对端断开而终止
	ErrPeerDisconnected = errors.New("rpc: peer disconnected")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("rpc: invalid config")
)
