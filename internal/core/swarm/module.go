package swarm

import (
	"context"

	"go.uber.org/fx"

	"github.com/mothra-net/go-mothra/internal/core/muxer/yamux"
	"github.com/mothra-net/go-mothra/internal/core/security/noise"
	"github.com/mothra-net/go-mothra/internal/core/transport/tcp"
	"github.com/mothra-net/go-mothra/internal/core/transport/websocket"
	"github.com/mothra-net/go-mothra/internal/core/upgrader"
	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/crypto"
)

// moduleParams Swarm 构造依赖
type moduleParams struct {
	fx.In

	Identity  crypto.PrivateKey
	Peerstore pkgif.Peerstore
	EventBus  pkgif.EventBus
	Config    *Config `optional:"true"`
}

// provideSwarm 组装完整的 Swarm：Noise 安全层 + Yamux 多路复用 +
// TCP/WebSocket 传输
func provideSwarm(p moduleParams, lc fx.Lifecycle) (*Swarm, error) {
	localPeer, err := crypto.PeerIDFromPrivateKey(p.Identity)
	if err != nil {
		return nil, err
	}

	sec, err := noise.New(p.Identity)
	if err != nil {
		return nil, err
	}

	up, err := upgrader.New(
		[]pkgif.SecureTransport{sec},
		[]pkgif.Muxer{yamux.New()},
	)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithTransport(tcp.New()),
		WithTransport(websocket.New()),
		WithPeerstore(p.Peerstore),
		WithEventBus(p.EventBus),
	}
	if p.Config != nil {
		opts = append(opts, WithConfig(p.Config))
	}

	sw, err := New(localPeer, up, opts...)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return sw.Close()
		},
	})
	return sw, nil
}

// Module Swarm 的 fx 模块
func Module() fx.Option {
	return fx.Module("swarm",
		fx.Provide(provideSwarm),
		fx.Provide(func(sw *Swarm) pkgif.Swarm { return sw }),
	)
}
