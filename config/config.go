// Package config 提供 go-mothra 的统一配置
//
// 主 Config 结构按关注点拆分为子配置，每个子配置在独立文件中定义，
// 附带默认值与校验。支持从 JSON 覆盖默认值，时长字段使用
// Duration 包装类型（接受 "30s" 这样的字符串）。
//
// 使用示例：
//
//	cfg := config.DefaultConfig()
//	cfg.Network.ListenPort = 9000
//	cfg.Gossip.Topics = []string{"/mothra/topic1"}
//	if err := cfg.Validate(); err != nil { ... }
package config

import (
	"fmt"
)

// Config go-mothra 的完整配置
//
// 校验失败的配置在节点 Start 时转换为 StartupError 返回，
// 不做静默修复。
type Config struct {
	// Identity 身份密钥配置
	Identity IdentityConfig `json:"identity"`

	// Network 监听地址配置
	Network NetworkConfig `json:"network"`

	// Swarm 会话层配置
	Swarm SwarmConfig `json:"swarm"`

	// Discovery 节点发现配置
	Discovery DiscoveryConfig `json:"discovery"`

	// Gossip 八卦路由配置
	Gossip GossipConfig `json:"gossip"`

	// RPC 请求应答配置
	RPC RPCConfig `json:"rpc"`

	// Bridge 事件桥配置
	Bridge BridgeConfig `json:"bridge"`

	// Client 客户端身份标识
	Client ClientConfig `json:"client"`

	// Storage 持久化配置
	Storage StorageConfig `json:"storage"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// DefaultConfig 创建默认配置
func DefaultConfig() *Config {
	return &Config{
		Identity:  DefaultIdentityConfig(),
		Network:   DefaultNetworkConfig(),
		Swarm:     DefaultSwarmConfig(),
		Discovery: DefaultDiscoveryConfig(),
		Gossip:    DefaultGossipConfig(),
		RPC:       DefaultRPCConfig(),
		Bridge:    DefaultBridgeConfig(),
		Client:    DefaultClientConfig(),
		Storage:   DefaultStorageConfig(),
		Log:       DefaultLogConfig(),
	}
}

// Validate 校验整棵配置树
//
// 返回第一个发现的问题，并标注所属小节。
func (c *Config) Validate() error {
	sections := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"identity", c.Identity},
		{"network", c.Network},
		{"swarm", c.Swarm},
		{"discovery", c.Discovery},
		{"gossip", c.Gossip},
		{"rpc", c.RPC},
		{"bridge", c.Bridge},
		{"client", c.Client},
		{"storage", c.Storage},
		{"log", c.Log},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("config: %s: %w", s.name, err)
		}
	}
	return nil
}
