package mothra

import (
	"errors"

	"github.com/mothra-net/go-mothra/internal/bridge"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.3.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "Mothra " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

// RPCEvent 是 types.RPCEvent 的类型别名
//
// RPC 回调收到的事件，Kind 区分入站请求、应答和失败。
type RPCEvent = types.RPCEvent

// RPC 事件类别
const (
	RPCKindRequest  = types.RPCKindRequest
	RPCKindResponse = types.RPCKindResponse
	RPCKindFailure  = types.RPCKindFailure
)

// ════════════════════════════════════════════════════════════════════════════
//                              八卦消息
// ════════════════════════════════════════════════════════════════════════════

// PublishGossip 向主题发布消息
//
// 即发即忘：命令入队即返回，转发错误只记录日志。
// 发布无需事先订阅该主题。
func (n *Node) PublishGossip(topic string, payload []byte) error {
	if err := n.ensureRunning(); err != nil {
		return err
	}
	return n.submit(func() {
		if err := n.gossip.Publish(topic, payload); err != nil {
			logger.Warn("发布消息失败", "topic", topic, "error", err)
		}
	})
}

// Subscribe 订阅主题
//
// 重复订阅幂等。订阅后收到的主题消息经八卦回调投递。
func (n *Node) Subscribe(topic string) error {
	if err := n.ensureRunning(); err != nil {
		return err
	}
	return n.submitWait(func() error {
		return n.gossip.Subscribe(topic)
	})
}

// Unsubscribe 退订主题
//
// 退订不存在的主题不报错。
func (n *Node) Unsubscribe(topic string) error {
	if err := n.ensureRunning(); err != nil {
		return err
	}
	return n.submitWait(func() error {
		return n.gossip.Unsubscribe(topic)
	})
}

// Topics 返回当前订阅的主题
func (n *Node) Topics() []string {
	n.mu.RLock()
	g := n.gossip
	n.mu.RUnlock()

	if g == nil {
		return nil
	}
	return g.Topics()
}

// ════════════════════════════════════════════════════════════════════════════
//                              请求应答
// ════════════════════════════════════════════════════════════════════════════

// SendRequest 向对端发起请求
//
// 立即返回分配的关联键，应答、超时或失败之后以 RPC 回调投递，
// 事件中的关联键与返回值相同。
func (n *Node) SendRequest(peer types.PeerID, method string, payload []byte) (types.CorrelationKey, error) {
	if err := n.ensureRunning(); err != nil {
		return types.EmptyCorrelationKey, err
	}

	var key types.CorrelationKey
	err := n.submitWait(func() error {
		var err error
		key, err = n.rpc.SendRequest(peer, method, payload)
		return err
	})
	if err != nil {
		return types.EmptyCorrelationKey, err
	}
	return key, nil
}

// SendResponse 应答对端最早一条同名的未应答请求
//
// 没有匹配的未应答请求时返回错误。
func (n *Node) SendResponse(peer types.PeerID, method string, payload []byte) error {
	if err := n.ensureRunning(); err != nil {
		return err
	}
	return n.submitWait(func() error {
		return n.rpc.SendResponse(peer, method, payload)
	})
}

// ════════════════════════════════════════════════════════════════════════════
//                              内部辅助
// ════════════════════════════════════════════════════════════════════════════

// ensureRunning 检查节点是否可以接受命令
func (n *Node) ensureRunning() error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	switch n.state {
	case StateRunning:
		return nil
	case StateIdle, StateStarting:
		return ErrNotStarted
	default:
		return ErrNodeStopped
	}
}

// submit 把命令排入引擎执行队列
func (n *Node) submit(cmd func()) error {
	if err := n.bridge.Submit(cmd); err != nil {
		if errors.Is(err, bridge.ErrBridgeClosed) {
			return ErrNodeStopped
		}
		return err
	}
	return nil
}

// submitWait 排入命令并等待其执行结果
//
// 节点关停时队列中未执行的命令会被丢弃，不再产生结果，
// 所以同时监听桥的关闭信号避免永久等待。
func (n *Node) submitWait(cmd func() error) error {
	errc := make(chan error, 1)
	if err := n.submit(func() { errc <- cmd() }); err != nil {
		return err
	}

	select {
	case err := <-errc:
		return err
	case <-n.bridge.Done():
		// 关闭信号与命令执行可能竞争，已产生的结果优先
		select {
		case err := <-errc:
			return err
		default:
			return ErrNodeStopped
		}
	}
}
