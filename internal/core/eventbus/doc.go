// Package eventbus 实现进程内事件总线
//
// 提供按事件类型路由的发布/订阅机制：
//   - 多订阅者，每个订阅者独立缓冲
//   - 缓冲满时丢弃新事件并计数（慢消费者不阻塞发射方）
//   - 有状态发射器向新订阅者重放最近一次事件
//
// # 用法
//
//	bus := eventbus.NewBus()
//
//	sub, _ := bus.Subscribe(new(types.EvtPeerConnected))
//	defer sub.Close()
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(*types.EvtPeerConnected)
//	        _ = e
//	    }
//	}()
//
//	em, _ := bus.Emitter(new(types.EvtPeerConnected))
//	defer em.Close()
//	em.Emit(types.NewEvtPeerConnected(peer, dir, addr, 1))
//
// Subscribe 和 Emitter 的参数是事件类型的指针零值（new(EvtX)），
// 仅用作路由键；Emit 传入什么，订阅方就收到什么。
// 本仓库约定事件以指针形式发射。
package eventbus
