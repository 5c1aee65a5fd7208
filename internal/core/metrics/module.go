package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
)

// provideWatcher 创建总线观察器并挂接生命周期
func provideWatcher(lc fx.Lifecycle, bus pkgif.EventBus, rec *Recorder) *BusWatcher {
	w := NewBusWatcher(bus, rec)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return w.Start() },
		OnStop:  func(context.Context) error { return w.Close() },
	})
	return w
}

// Module 指标的 fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(NewRegistry),
		fx.Provide(func(reg *prometheus.Registry) prometheus.Registerer { return reg }),
		fx.Provide(NewRecorder),
		fx.Provide(provideWatcher),
		// 观察器没有下游消费者，显式实例化
		fx.Invoke(func(*BusWatcher) {}),
	)
}
