package identify

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// moduleParams 模块依赖
type moduleParams struct {
	fx.In

	Swarm     pkgif.Swarm
	Peerstore pkgif.Peerstore
	Identity  types.ClientIdentity
}

// provideService 构造身份交换服务并挂接生命周期
func provideService(p moduleParams, lc fx.Lifecycle) (*Service, error) {
	svc, err := New(p.Swarm.LocalPeer(), p.Identity, p.Swarm, p.Peerstore)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return svc.Start(ctx) },
		OnStop:  func(context.Context) error { return svc.Close() },
	})
	return svc, nil
}

// Module 身份交换的 fx 模块
func Module() fx.Option {
	return fx.Module("identify",
		fx.Provide(provideService),
	)
}
