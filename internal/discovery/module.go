package discovery

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
)

// moduleParams 发现服务构造依赖
type moduleParams struct {
	fx.In

	Identity  crypto.PrivateKey
	Swarm     pkgif.Swarm
	Peerstore pkgif.Peerstore
	EventBus  pkgif.EventBus
	Config    *Config `optional:"true"`
}

// provideDiscovery 组装发现服务
//
// 引导不挂在生命周期钩子上：节点编排层在监听地址就绪后显式调用
// Bootstrap，保证本地签名记录里带的是真实监听地址。
func provideDiscovery(p moduleParams, lc fx.Lifecycle) (*Service, error) {
	localID, err := crypto.PeerIDFromPrivateKey(p.Identity)
	if err != nil {
		return nil, err
	}

	var opts []Option
	if p.Config != nil {
		opts = append(opts, WithConfig(p.Config))
	}

	svc, err := New(localID, p.Identity, p.Swarm, p.Peerstore, p.EventBus, opts...)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return svc.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return svc.Stop()
		},
	})
	return svc, nil
}

// Module 发现服务的 fx 模块
func Module() fx.Option {
	return fx.Module("discovery",
		fx.Provide(provideDiscovery),
		fx.Provide(func(s *Service) pkgif.Discovery { return s }),
	)
}
