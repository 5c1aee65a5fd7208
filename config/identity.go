package config

import (
	"errors"
	"strings"
)

// IdentityConfig 身份配置
//
// 节点身份由私钥决定。未注入私钥时从数据目录加载密钥文件，
// 文件不存在则生成新密钥；未配置数据目录时每次启动使用临时身份。
type IdentityConfig struct {
	// KeyType 生成新密钥时使用的类型
	// 可选值: "ed25519"（默认）, "secp256k1"
	KeyType string `json:"key_type"`

	// PrivateKey 直接注入的私钥，优先于密钥文件
	//
	// 类型为 any 以保持本包不依赖密钥实现，
	// 实际类型为 pkg/lib/crypto.PrivateKey。
	PrivateKey any `json:"-"`
}

// DefaultIdentityConfig 返回默认身份配置
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{
		KeyType: "ed25519",
	}
}

// Validate 校验身份配置
func (c IdentityConfig) Validate() error {
	switch strings.ToLower(c.KeyType) {
	case "", "ed25519", "secp256k1":
		return nil
	default:
		return errors.New("key type must be ed25519 or secp256k1")
	}
}
