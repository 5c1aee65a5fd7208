package eventbus

import (
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"go.uber.org/fx"
)

// Module 返回事件总线的 Fx 模块
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(func() pkgif.EventBus {
			return NewBus()
		}),
	)
}
