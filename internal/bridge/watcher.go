package bridge

import (
	"sync"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// discoveredBufSize 订阅缓冲，转发器消费极快，溢出丢弃可接受
const discoveredBufSize = 64

// BusWatcher 把总线上的发现事件转发给事件桥
//
// 发现服务只向事件总线发布，不感知宿主回调；
// 转发器是总线与事件桥之间的唯一连接点。
type BusWatcher struct {
	bus    pkgif.EventBus
	bridge *Bridge

	sub       pkgif.Subscription
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewBusWatcher 创建发现事件转发器
func NewBusWatcher(bus pkgif.EventBus, b *Bridge) *BusWatcher {
	return &BusWatcher{bus: bus, bridge: b}
}

// Start 订阅发现事件并开始转发
func (w *BusWatcher) Start() error {
	sub, err := w.bus.Subscribe(new(types.EvtPeerDiscovered), pkgif.BufSize(discoveredBufSize))
	if err != nil {
		return err
	}
	w.sub = sub

	w.wg.Add(1)
	go w.pump(sub)

	logger.Debug("发现事件转发器已启动")
	return nil
}

// Close 停止转发
func (w *BusWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		if w.sub != nil {
			err = w.sub.Close()
		}
		w.wg.Wait()
	})
	return err
}

// pump 消费订阅直到其关闭
func (w *BusWatcher) pump(sub pkgif.Subscription) {
	defer w.wg.Done()
	for e := range sub.Out() {
		if evt, ok := e.(*types.EvtPeerDiscovered); ok {
			w.bridge.NotifyPeerDiscovered(evt.Peer)
		}
	}
}
