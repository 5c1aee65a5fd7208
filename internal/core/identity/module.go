package identity

import (
	"go.uber.org/fx"

	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// moduleParams 身份构造依赖
type moduleParams struct {
	fx.In

	Config *Config `optional:"true"`
}

// provideIdentity 加载或创建节点私钥
func provideIdentity(p moduleParams) (crypto.PrivateKey, error) {
	cfg := DefaultConfig()
	if p.Config != nil {
		cfg = *p.Config
	}
	return LoadOrCreate(cfg)
}

// providePeerID 从私钥派生本地 PeerID
func providePeerID(priv crypto.PrivateKey) (types.PeerID, error) {
	return crypto.PeerIDFromPrivateKey(priv)
}

// Module 身份的 fx 模块
func Module() fx.Option {
	return fx.Module("identity",
		fx.Provide(provideIdentity),
		fx.Provide(providePeerID),
	)
}
