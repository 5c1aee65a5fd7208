package identity

import (
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mothra-net/go-mothra/config"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("core/identity")

// KeyFileName 数据目录中的密钥文件名
const KeyFileName = "identity.key"

// pemTypePrivate PEM 块类型，内容为自描述的私钥序列化格式
const pemTypePrivate = "MOTHRA PRIVATE KEY"

var (
	// ErrInvalidPEM 无效的 PEM 数据
	ErrInvalidPEM = errors.New("identity: invalid PEM data")
	// ErrKeyNotFound 密钥文件不存在
	ErrKeyNotFound = errors.New("identity: key not found")
)

// Config 身份配置
type Config struct {
	// PrivateKey 直接注入的私钥，优先于密钥文件
	PrivateKey crypto.PrivateKey

	// DataDir 数据目录，密钥文件保存在其中
	// 为空时不持久化，每次启动生成临时身份
	DataDir string

	// KeyType 生成新密钥时使用的类型
	KeyType types.KeyType
}

// DefaultConfig 返回默认身份配置
func DefaultConfig() Config {
	return Config{
		KeyType: types.KeyTypeEd25519,
	}
}

// ConfigFromUnified 从统一配置派生身份配置
func ConfigFromUnified(u *config.Config) Config {
	if u == nil {
		return DefaultConfig()
	}
	cfg := Config{
		DataDir: u.Storage.DataDir,
		KeyType: types.KeyTypeEd25519,
	}
	if strings.ToLower(u.Identity.KeyType) == "secp256k1" {
		cfg.KeyType = types.KeyTypeSecp256k1
	}
	if priv, ok := u.Identity.PrivateKey.(crypto.PrivateKey); ok {
		cfg.PrivateKey = priv
	}
	return cfg
}

// LoadOrCreate 按配置取得节点身份
//
// 注入的私钥直接使用；否则尝试加载数据目录中的密钥文件；
// 文件不存在时生成新密钥并持久化。
func LoadOrCreate(cfg Config) (crypto.PrivateKey, error) {
	if cfg.PrivateKey != nil {
		return cfg.PrivateKey, nil
	}

	if cfg.DataDir == "" {
		priv, _, err := crypto.GenerateKeyPair(cfg.KeyType)
		if err != nil {
			return nil, fmt.Errorf("identity: 生成临时密钥失败: %w", err)
		}
		logger.Debug("使用临时身份（未配置数据目录）")
		return priv, nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("identity: 创建数据目录失败: %w", err)
	}
	path := filepath.Join(cfg.DataDir, KeyFileName)

	priv, err := Load(path)
	if err == nil {
		peer, perr := crypto.PeerIDFromPrivateKey(priv)
		if perr != nil {
			return nil, perr
		}
		logger.Info("加载节点身份", "peer", peer.ShortString(), "path", path)
		return priv, nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return nil, err
	}

	priv, _, err = crypto.GenerateKeyPair(cfg.KeyType)
	if err != nil {
		return nil, fmt.Errorf("identity: 生成密钥失败: %w", err)
	}
	if err := Save(priv, path); err != nil {
		return nil, err
	}

	peer, err := crypto.PeerIDFromPrivateKey(priv)
	if err != nil {
		return nil, err
	}
	logger.Info("生成新节点身份", "peer", peer.ShortString(), "path", path)
	return priv, nil
}

// Load 从 PEM 文件加载私钥
func Load(path string) (crypto.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("identity: 读取密钥文件失败: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemTypePrivate {
		return nil, ErrInvalidPEM
	}
	priv, err := crypto.UnmarshalPrivateKeyBytes(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("identity: 解析密钥失败: %w", err)
	}
	return priv, nil
}

// Save 把私钥以 PEM 格式写入文件
//
// 原子写入，权限 0600。
func Save(key crypto.PrivateKey, path string) error {
	raw, err := crypto.MarshalPrivateKey(key)
	if err != nil {
		return fmt.Errorf("identity: 序列化密钥失败: %w", err)
	}
	data := pem.EncodeToMemory(&pem.Block{Type: pemTypePrivate, Bytes: raw})
	return atomicWriteFile(path, data, 0600)
}

// atomicWriteFile 临时文件 + rename 的原子写
//
// 任一步骤失败时目标文件保持不变。
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("identity: 创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("identity: 写入临时文件失败: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("identity: 同步临时文件失败: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("identity: 设置文件权限失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("identity: 关闭临时文件失败: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("identity: rename 失败: %w", err)
	}

	success = true
	return nil
}
