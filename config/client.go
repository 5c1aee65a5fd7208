package config

import (
	"errors"
)

// ClientConfig 客户端身份标识
//
// 三个字段在 hello 交换中发给对端并写入对方的节点信息表。
type ClientConfig struct {
	// Name 客户端名称
	Name string `json:"name"`

	// Version 客户端版本号
	Version string `json:"version"`

	// Agent 完整的 agent 串，空则由 Name/Version 组合
	Agent string `json:"agent,omitempty"`
}

// DefaultClientConfig 返回默认客户端标识
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Name:    "mothra",
		Version: "0.3.0",
	}
}

// Validate 校验客户端标识
func (c ClientConfig) Validate() error {
	if c.Name == "" {
		return errors.New("client name must not be empty")
	}
	if c.Version == "" {
		return errors.New("client version must not be empty")
	}
	return nil
}
