package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DiscoveryConfig 节点发现配置
//
// Kademlia 路由表 + 引导种子。种子地址必须是完整地址
// （携带 /p2p/<节点ID> 段），发现服务才能校验对端身份。
type DiscoveryConfig struct {
	// BootPeers 引导种子列表（完整 multiaddr，含 /p2p 段）
	BootPeers []string `json:"boot_peers,omitempty"`

	// BucketSize 单个 k-桶的容量
	BucketSize int `json:"bucket_size"`

	// Alpha 迭代查询的并发度
	Alpha int `json:"alpha"`

	// RefreshInterval 路由表刷新周期
	RefreshInterval Duration `json:"refresh_interval"`

	// StaleTTL 条目的最长静默时长，超过即重新验证
	StaleTTL Duration `json:"stale_ttl"`

	// QueryTimeout 单次查询交换的超时
	QueryTimeout Duration `json:"query_timeout"`

	// BootstrapParallelism 引导拨号的最大并发数
	BootstrapParallelism int `json:"bootstrap_parallelism"`

	// BootstrapTimeout 单个种子的拨号超时
	BootstrapTimeout Duration `json:"bootstrap_timeout"`

	// DNSServer 自定义 DNS 服务器（"ip:port"），空则读系统配置
	DNSServer string `json:"dns_server,omitempty"`

	// DNSCacheTTL DNS 解析结果的缓存上限
	DNSCacheTTL Duration `json:"dns_cache_ttl"`
}

// DefaultDiscoveryConfig 返回默认发现配置
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		BucketSize:           16,
		Alpha:                3,
		RefreshInterval:      Duration(5 * time.Minute),
		StaleTTL:             Duration(30 * time.Minute),
		QueryTimeout:         Duration(10 * time.Second),
		BootstrapParallelism: 4,
		BootstrapTimeout:     Duration(15 * time.Second),
		DNSCacheTTL:          Duration(5 * time.Minute),
	}
}

// Validate 校验发现配置
func (c DiscoveryConfig) Validate() error {
	if c.BucketSize <= 0 {
		return errors.New("bucket size must be positive")
	}
	if c.Alpha <= 0 {
		return errors.New("alpha must be positive")
	}
	if c.RefreshInterval <= 0 {
		return errors.New("refresh interval must be positive")
	}
	if c.StaleTTL <= 0 {
		return errors.New("stale TTL must be positive")
	}
	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}
	if c.BootstrapParallelism <= 0 {
		return errors.New("bootstrap parallelism must be positive")
	}
	if c.BootstrapTimeout <= 0 {
		return errors.New("bootstrap timeout must be positive")
	}
	if c.DNSCacheTTL <= 0 {
		return errors.New("DNS cache TTL must be positive")
	}
	for i, seed := range c.BootPeers {
		if seed == "" {
			return fmt.Errorf("boot_peers[%d] must not be empty", i)
		}
		if !strings.HasPrefix(seed, "/") {
			return fmt.Errorf("boot_peers[%d] must be a multiaddr starting with /", i)
		}
		if !strings.Contains(seed, "/p2p/") {
			return fmt.Errorf("boot_peers[%d] must carry a /p2p/<id> segment", i)
		}
	}
	return nil
}

// WithBootPeers 设置引导种子列表
func (c DiscoveryConfig) WithBootPeers(peers []string) DiscoveryConfig {
	c.BootPeers = peers
	return c
}
