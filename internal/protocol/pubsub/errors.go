package pubsub

import "errors"

// 错误定义
var (
	// ErrRouterClosed 路由器已关闭
	ErrRouterClosed = errors.New("pubsub: router closed")

	// ErrNotStarted 路由器未启动
	ErrNotStarted = errors.New("pubsub: router not started")

	// ErrAlreadyStarted 路由器已启动
	ErrAlreadyStarted = errors.New("pubsub: router already started")

	// ErrEmptyTopic 主题为空
	ErrEmptyTopic = errors.New("pubsub: empty topic")

	// ErrMessageTooLarge 消息超出大小限制
	ErrMessageTooLarge = errors.New("pubsub: message exceeds size limit")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("pubsub: invalid config")
)
