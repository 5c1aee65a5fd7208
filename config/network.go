package config

import (
	"errors"
	"fmt"
	"strings"
)

// NetworkConfig 监听地址配置
type NetworkConfig struct {
	// ListenAddrs 监听地址列表（multiaddr 格式）
	//
	// 为空时按 ListenPort 生成默认地址。
	ListenAddrs []string `json:"listen_addrs,omitempty"`

	// ListenPort TCP 监听端口
	//
	// 仅在 ListenAddrs 为空时生效，0 表示随机端口。
	ListenPort int `json:"listen_port"`
}

// DefaultNetworkConfig 返回默认网络配置
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		ListenPort: 9000,
	}
}

// ExpandedListenAddrs 返回实际生效的监听地址列表
func (c NetworkConfig) ExpandedListenAddrs() []string {
	if len(c.ListenAddrs) > 0 {
		out := make([]string, len(c.ListenAddrs))
		copy(out, c.ListenAddrs)
		return out
	}
	return []string{fmt.Sprintf("/ip4/0.0.0.0/tcp/%d", c.ListenPort)}
}

// Validate 校验网络配置
func (c NetworkConfig) Validate() error {
	if c.ListenPort < 0 || c.ListenPort > 65535 {
		return fmt.Errorf("listen port %d out of range", c.ListenPort)
	}
	for i, addr := range c.ListenAddrs {
		if addr == "" {
			return fmt.Errorf("listen_addrs[%d] must not be empty", i)
		}
		if !strings.HasPrefix(addr, "/") {
			return errors.New("listen addresses must be multiaddrs starting with /")
		}
	}
	return nil
}
