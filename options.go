package mothra

import (
	"fmt"

	"github.com/mothra-net/go-mothra/config"
	"github.com/mothra-net/go-mothra/internal/bridge"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
//
// 选项在统一配置的默认值上覆盖；宿主回调单独收集，
// 启动时注册到事件桥。
type options struct {
	// cfg 统一配置
	cfg *config.Config

	// handlers 宿主回调
	handlers bridge.Handlers
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		cfg: config.DefaultConfig(),
	}
}

// ============================================================================
//                              配置选项
// ============================================================================

// WithConfig 使用完整配置
//
// 替换全部默认值，应放在其它选项之前；后续选项在其上覆盖。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("配置不能为空")
		}
		o.cfg = cfg
		return nil
	}
}

// WithClientIdentity 设置客户端身份
//
// 名称、版本和 agent 串经 hello 协议发给对端。
// agent 为空时对端展示 "name/version"。
func WithClientIdentity(name, version, agent string) Option {
	return func(o *options) error {
		if name == "" {
			return fmt.Errorf("客户端名称不能为空")
		}
		o.cfg.Client.Name = name
		o.cfg.Client.Version = version
		o.cfg.Client.Agent = agent
		return nil
	}
}

// WithListenPort 设置 TCP 监听端口
//
// 等价于监听 /ip4/0.0.0.0/tcp/<port>。
// 需要特定接口或多个地址时使用 WithListenAddrs。
func WithListenPort(port int) Option {
	return func(o *options) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("监听端口越界: %d", port)
		}
		o.cfg.Network.ListenPort = port
		o.cfg.Network.ListenAddrs = nil
		return nil
	}
}

// WithListenAddrs 设置监听地址
//
//	mothra.WithListenAddrs("/ip4/127.0.0.1/tcp/9000", "/ip4/0.0.0.0/tcp/9001/ws")
func WithListenAddrs(addrs ...string) Option {
	return func(o *options) error {
		if len(addrs) == 0 {
			return fmt.Errorf("监听地址不能为空")
		}
		o.cfg.Network.ListenAddrs = append([]string(nil), addrs...)
		return nil
	}
}

// WithDataDir 设置数据目录
//
// 身份密钥文件和种子文件保存在其中。
// 不设置数据目录的节点完全运行在内存里。
func WithDataDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return fmt.Errorf("数据目录不能为空")
		}
		o.cfg.Storage.DataDir = dir
		return nil
	}
}

// WithTopics 设置启动时订阅的主题
func WithTopics(topics ...string) Option {
	return func(o *options) error {
		o.cfg.Gossip.Topics = append([]string(nil), topics...)
		return nil
	}
}

// WithBootPeers 设置引导种子地址
//
// 地址必须携带 /p2p/<节点ID> 段：
//
//	mothra.WithBootPeers("/ip4/10.0.0.5/tcp/9000/p2p/4XTTM...")
func WithBootPeers(addrs ...string) Option {
	return func(o *options) error {
		o.cfg.Discovery.BootPeers = append([]string(nil), addrs...)
		return nil
	}
}

// WithPrivateKey 直接注入身份私钥
//
// 适用于程序化生成或外部管理密钥的场景，优先于数据目录中的密钥文件。
func WithPrivateKey(key crypto.PrivateKey) Option {
	return func(o *options) error {
		if key == nil {
			return fmt.Errorf("私钥不能为空")
		}
		o.cfg.Identity.PrivateKey = key
		return nil
	}
}

// WithLogLevel 设置日志级别
//
// 取值 debug、info、warn、error。日志级别是进程级开关，
// 同进程内后启动的节点会覆盖先前的设置。
func WithLogLevel(level string) Option {
	return func(o *options) error {
		if level == "" {
			return fmt.Errorf("日志级别不能为空")
		}
		o.cfg.Log.Level = level
		return nil
	}
}

// WithLogFile 把日志写入指定文件
func WithLogFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return fmt.Errorf("日志文件路径不能为空")
		}
		o.cfg.Log.File = path
		return nil
	}
}

// ============================================================================
//                              回调选项
// ============================================================================

// WithPeerDiscoveredHandler 注册节点发现回调
//
// 每个首次进入路由表的节点触发一次。
func WithPeerDiscoveredHandler(h types.PeerDiscoveredHandler) Option {
	return func(o *options) error {
		if h == nil {
			return fmt.Errorf("回调不能为空")
		}
		o.handlers.PeerDiscovered = h
		return nil
	}
}

// WithGossipHandler 注册八卦消息回调
//
// 本地订阅的主题收到消息时触发。
func WithGossipHandler(h types.GossipHandler) Option {
	return func(o *options) error {
		if h == nil {
			return fmt.Errorf("回调不能为空")
		}
		o.handlers.Gossip = h
		return nil
	}
}

// WithRPCHandler 注册 RPC 事件回调
//
// 入站请求、出站请求的响应和失败都经由此回调投递，
// 按 ev.Kind 区分。
func WithRPCHandler(h types.RPCHandler) Option {
	return func(o *options) error {
		if h == nil {
			return fmt.Errorf("回调不能为空")
		}
		o.handlers.RPC = h
		return nil
	}
}
