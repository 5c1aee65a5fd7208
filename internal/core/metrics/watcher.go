package metrics

import (
	"sync"

	"go.uber.org/multierr"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("core/metrics")

// watcherBufSize 订阅缓冲，观察器消费极快，溢出丢弃可接受
const watcherBufSize = 64

// BusWatcher 把事件流转换为会话与发现指标
type BusWatcher struct {
	bus pkgif.EventBus
	rec *Recorder

	subs      []pkgif.Subscription
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewBusWatcher 创建总线观察器
func NewBusWatcher(bus pkgif.EventBus, rec *Recorder) *BusWatcher {
	return &BusWatcher{bus: bus, rec: rec}
}

// Start 订阅事件并开始采集
func (w *BusWatcher) Start() error {
	for _, eventType := range []interface{}{
		new(types.EvtPeerConnected),
		new(types.EvtPeerDisconnected),
		new(types.EvtDialFailed),
		new(types.EvtPeerDiscovered),
	} {
		sub, err := w.bus.Subscribe(eventType, pkgif.BufSize(watcherBufSize))
		if err != nil {
			w.closeSubs()
			return err
		}
		w.subs = append(w.subs, sub)

		w.wg.Add(1)
		go w.pump(sub)
	}
	logger.Debug("指标观察器已启动")
	return nil
}

// Close 停止采集
func (w *BusWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.closeSubs()
		w.wg.Wait()
	})
	return err
}

func (w *BusWatcher) closeSubs() error {
	var errs error
	for _, sub := range w.subs {
		errs = multierr.Append(errs, sub.Close())
	}
	return errs
}

// pump 消费单个订阅直到其关闭
func (w *BusWatcher) pump(sub pkgif.Subscription) {
	defer w.wg.Done()
	for e := range sub.Out() {
		switch evt := e.(type) {
		case *types.EvtPeerConnected:
			w.rec.SetSessionsActive(evt.NumSessions)
			w.rec.ObserveSessionOpened(evt.Direction.String())
		case *types.EvtPeerDisconnected:
			w.rec.SetSessionsActive(evt.NumSessions)
			w.rec.ObserveSessionClosed(evt.Reason.String())
		case *types.EvtDialFailed:
			w.rec.ObserveDialFailed()
		case *types.EvtPeerDiscovered:
			w.rec.ObservePeerDiscovered(evt.Source)
		}
	}
}
