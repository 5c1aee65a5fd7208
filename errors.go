package mothra

import "errors"

// 公共错误定义
var (
	// ErrNotStarted 节点尚未启动
	ErrNotStarted = errors.New("node not started")

	// ErrAlreadyStarted 节点已经启动
	ErrAlreadyStarted = errors.New("node already started")

	// ErrNodeStopped 节点已停止
	//
	// 节点生命周期是单向的：Stop 之后不能再次 Start，
	// 需要新节点时重新 New。
	ErrNodeStopped = errors.New("node stopped")
)
