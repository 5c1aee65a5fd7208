package config

import (
	"errors"
	"time"
)

// StorageConfig 持久化配置
//
// 数据目录存放身份密钥文件和发现种子库：
//
//	${DataDir}/
//	├── identity.key    # 节点私钥（PEM）
//	└── peers.json      # 种子库快照
//
// 目录为空时节点完全运行在内存里，每次启动都是新身份。
type StorageConfig struct {
	// DataDir 数据目录路径，空则不持久化
	DataDir string `json:"data_dir,omitempty"`

	// SeedCacheSize 种子库热记录缓存容量
	SeedCacheSize int `json:"seed_cache_size"`

	// SnapshotInterval 种子库快照周期
	SnapshotInterval Duration `json:"snapshot_interval"`
}

// DefaultStorageConfig 返回默认持久化配置
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SeedCacheSize:    1024,
		SnapshotInterval: Duration(time.Minute),
	}
}

// Validate 校验持久化配置
func (c StorageConfig) Validate() error {
	if c.SeedCacheSize <= 0 {
		return errors.New("seed cache size must be positive")
	}
	if c.SnapshotInterval <= 0 {
		return errors.New("snapshot interval must be positive")
	}
	return nil
}
