package rpc

import (
	"context"

	"go.uber.org/fx"

	"github.com/mothra-net/go-mothra/internal/core/metrics"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
)

// moduleParams 模块依赖
type moduleParams struct {
	fx.In

	Swarm    pkgif.Swarm
	Notifier pkgif.Notifier
	Metrics  *metrics.Recorder `optional:"true"`
	Config   *Config           `optional:"true"`
}

// provideService 构造 RPC 服务并挂接生命周期
func provideService(p moduleParams, lc fx.Lifecycle) (*Service, error) {
	opts := make([]Option, 0, 2)
	if p.Config != nil {
		opts = append(opts, WithConfig(p.Config))
	}
	if p.Metrics != nil {
		opts = append(opts, WithMetrics(p.Metrics))
	}
	svc, err := New(p.Swarm.LocalPeer(), p.Swarm, p.Notifier, opts...)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return svc.Start(ctx) },
		OnStop:  func(context.Context) error { return svc.Close() },
	})
	return svc, nil
}

// Module RPC 服务的 fx 模块
func Module() fx.Option {
	return fx.Module("rpc",
		fx.Provide(provideService),
		fx.Provide(func(s *Service) pkgif.RPCService { return s }),
	)
}
