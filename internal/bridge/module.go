package bridge

import (
	"context"

	"go.uber.org/fx"

	"github.com/mothra-net/go-mothra/internal/core/metrics"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
)

// moduleParams 模块依赖
type moduleParams struct {
	fx.In

	Handlers Handlers          `optional:"true"`
	Metrics  *metrics.Recorder `optional:"true"`
	Config   *Config           `optional:"true"`
}

// provideBridge 构造事件桥并挂接生命周期
func provideBridge(p moduleParams, lc fx.Lifecycle) (*Bridge, error) {
	opts := make([]Option, 0, 3)
	opts = append(opts, WithHandlers(p.Handlers))
	if p.Config != nil {
		opts = append(opts, WithConfig(p.Config))
	}
	if p.Metrics != nil {
		opts = append(opts, WithMetrics(p.Metrics))
	}
	b, err := New(opts...)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return b.Start(ctx) },
		OnStop:  func(context.Context) error { return b.Close() },
	})
	return b, nil
}

// provideWatcher 创建发现事件转发器并挂接生命周期
func provideWatcher(lc fx.Lifecycle, bus pkgif.EventBus, b *Bridge) *BusWatcher {
	w := NewBusWatcher(bus, b)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return w.Start() },
		OnStop:  func(context.Context) error { return w.Close() },
	})
	return w
}

// Module 事件桥的 fx 模块
func Module() fx.Option {
	return fx.Module("bridge",
		fx.Provide(provideBridge),
		fx.Provide(func(b *Bridge) pkgif.Notifier { return b }),
		fx.Provide(provideWatcher),
		// 转发器没有下游消费者，显式实例化
		fx.Invoke(func(*BusWatcher) {}),
	)
}
