package swarm

import "errors"

var (
	// ErrSwarmClosed Swarm 已关闭
	ErrSwarmClosed = errors.New("swarm closed")

	// ErrSessionClosed 会话已关闭
	ErrSessionClosed = errors.New("session closed")

	// ErrDialToSelf 尝试拨号自己
	ErrDialToSelf = errors.New("dial to self attempted")

	// ErrNoAddresses 节点没有已知地址
	ErrNoAddresses = errors.New("no addresses for peer")

	// ErrDialBackoff 节点处于拨号退避期
	ErrDialBackoff = errors.New("dial backoff in effect")

	// ErrDialTimeout 拨号超时
	ErrDialTimeout = errors.New("dial timeout")

	// ErrNoTransport 地址没有匹配的传输层
	ErrNoTransport = errors.New("no transport for address")

	// ErrNoListenAddrs 未提供监听地址
	ErrNoListenAddrs = errors.New("no listen addresses")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("invalid swarm config")
)
