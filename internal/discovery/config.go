package discovery

import (
	"fmt"
	"time"

	"github.com/mothra-net/go-mothra/config"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              配置
// ============================================================================

// Config 发现服务配置
type Config struct {
	// BucketSize 单个 k-桶的容量（Kademlia 的 k）
	BucketSize int

	// Alpha 迭代查询的并发度
	Alpha int

	// RefreshInterval 路由表刷新周期
	//
	// 每个周期执行一次自查询，并对超过周期未刷新的桶各发起
	// 一次随机目标查询。
	RefreshInterval time.Duration

	// StaleTTL 条目的最长静默时长
	//
	// 超过该时长未见活动的条目会被重新验证，验证失败即淘汰；
	// 桶满时也只有静默超过该时长的最久未见条目才会被新节点顶替。
	StaleTTL time.Duration

	// QueryTimeout 单次 FIND_NODE 交换的超时
	QueryTimeout time.Duration

	// BootPeers 配置的引导种子（必须携带 /p2p 节点身份段）
	BootPeers []types.Addr

	// BootstrapParallelism 引导拨号的最大并发数
	BootstrapParallelism int

	// BootstrapTimeout 单个种子的拨号超时
	BootstrapTimeout time.Duration

	// DataDir 种子文件所在目录，空则不持久化
	DataDir string

	// StoreCacheSize 种子存储的 ARC 缓存容量
	StoreCacheSize int

	// SnapshotInterval 种子文件的快照周期
	SnapshotInterval time.Duration

	// DNSServer 自定义 DNS 服务器（"ip:port"），空则读系统配置
	DNSServer string

	// DNSCacheTTL DNS 解析结果的缓存上限
	DNSCacheTTL time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		BucketSize:           16,
		Alpha:                3,
		RefreshInterval:      5 * time.Minute,
		StaleTTL:             30 * time.Minute,
		QueryTimeout:         10 * time.Second,
		BootstrapParallelism: 4,
		BootstrapTimeout:     15 * time.Second,
		StoreCacheSize:       1024,
		SnapshotInterval:     time.Minute,
		DNSCacheTTL:          5 * time.Minute,
	}
}

// Validate 检查配置合法性
func (c *Config) Validate() error {
	if c.BucketSize <= 0 {
		return fmt.Errorf("%w: BucketSize %d", ErrInvalidConfig, c.BucketSize)
	}
	if c.Alpha <= 0 {
		return fmt.Errorf("%w: Alpha %d", ErrInvalidConfig, c.Alpha)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("%w: RefreshInterval %v", ErrInvalidConfig, c.RefreshInterval)
	}
	if c.StaleTTL <= 0 {
		return fmt.Errorf("%w: StaleTTL %v", ErrInvalidConfig, c.StaleTTL)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("%w: QueryTimeout %v", ErrInvalidConfig, c.QueryTimeout)
	}
	if c.BootstrapParallelism <= 0 {
		return fmt.Errorf("%w: BootstrapParallelism %d", ErrInvalidConfig, c.BootstrapParallelism)
	}
	if c.BootstrapTimeout <= 0 {
		return fmt.Errorf("%w: BootstrapTimeout %v", ErrInvalidConfig, c.BootstrapTimeout)
	}
	if c.StoreCacheSize <= 0 {
		return fmt.Errorf("%w: StoreCacheSize %d", ErrInvalidConfig, c.StoreCacheSize)
	}
	if c.SnapshotInterval <= 0 {
		return fmt.Errorf("%w: SnapshotInterval %v", ErrInvalidConfig, c.SnapshotInterval)
	}
	for _, seed := range c.BootPeers {
		if seed.Peer.IsEmpty() {
			return fmt.Errorf("%w: %s", ErrSeedMissingPeer, seed)
		}
	}
	return nil
}

// ConfigFromUnified 从统一配置派生发现服务配置
//
// 引导种子在此处解析，非法地址直接报错而不是留到运行期。
func ConfigFromUnified(u *config.Config) (*Config, error) {
	if u == nil {
		return DefaultConfig(), nil
	}
	seeds, err := types.ParseAddrs(u.Discovery.BootPeers...)
	if err != nil {
		return nil, fmt.Errorf("discovery: 解析引导种子失败: %w", err)
	}
	return &Config{
		BucketSize:           u.Discovery.BucketSize,
		Alpha:                u.Discovery.Alpha,
		RefreshInterval:      u.Discovery.RefreshInterval.Duration(),
		StaleTTL:             u.Discovery.StaleTTL.Duration(),
		QueryTimeout:         u.Discovery.QueryTimeout.Duration(),
		BootPeers:            seeds,
		BootstrapParallelism: u.Discovery.BootstrapParallelism,
		BootstrapTimeout:     u.Discovery.BootstrapTimeout.Duration(),
		DataDir:              u.Storage.DataDir,
		StoreCacheSize:       u.Storage.SeedCacheSize,
		SnapshotInterval:     u.Storage.SnapshotInterval.Duration(),
		DNSServer:            u.Discovery.DNSServer,
		DNSCacheTTL:          u.Discovery.DNSCacheTTL.Duration(),
	}, nil
}
