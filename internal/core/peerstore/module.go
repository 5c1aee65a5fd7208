package peerstore

import (
	"context"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"go.uber.org/fx"
)

// Module 返回节点信息表的 Fx 模块
func Module() fx.Option {
	return fx.Module("peerstore",
		fx.Provide(providePeerstore),
	)
}

func providePeerstore(lc fx.Lifecycle) pkgif.Peerstore {
	ps := New()
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return ps.Close()
		},
	})
	return ps
}
