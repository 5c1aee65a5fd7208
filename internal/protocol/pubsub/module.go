package pubsub

import (
	"context"

	"go.uber.org/fx"

	"github.com/mothra-net/go-mothra/internal/core/metrics"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
)

// moduleParams 路由器构造依赖
type moduleParams struct {
	fx.In

	Swarm    pkgif.Swarm
	Notifier pkgif.Notifier
	Metrics  *metrics.Recorder `optional:"true"`
	Config   *Config           `optional:"true"`
}

// provideRouter 组装八卦路由器
func provideRouter(p moduleParams, lc fx.Lifecycle) (*Router, error) {
	var opts []Option
	if p.Config != nil {
		opts = append(opts, WithConfig(p.Config))
	}
	if p.Metrics != nil {
		opts = append(opts, WithMetrics(p.Metrics))
	}

	r, err := New(p.Swarm.LocalPeer(), p.Swarm, p.Notifier, opts...)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return r.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return r.Close()
		},
	})
	return r, nil
}

// Module 八卦路由器的 fx 模块
func Module() fx.Option {
	return fx.Module("pubsub",
		fx.Provide(provideRouter),
		fx.Provide(func(r *Router) pkgif.GossipRouter { return r }),
	)
}
