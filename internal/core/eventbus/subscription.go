package eventbus

import (
	"reflect"
	"sync"
)

// ============================================================================
//                              Subscription
// ============================================================================

// Subscription 单个订阅
type Subscription struct {
	bus       *Bus
	typ       reflect.Type
	out       chan interface{}
	closeOnce sync.Once
}

// Out 返回接收事件的通道
//
// 订阅关闭后通道被关闭，range 循环随之退出。
func (s *Subscription) Out() <-chan interface{} {
	return s.out
}

// Close 取消订阅
//
// 可多次调用。先从总线摘除（此后不再有新投递），
// 再排空缓冲并关闭通道。
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.bus.removeSink(s)

		go func() {
			for range s.out {
			}
		}()
		close(s.out)
	})
	return nil
}

// ============================================================================
//                              Emitter
// ============================================================================

// Emitter 单个事件类型的发射器
type Emitter struct {
	bus       *Bus
	node      *node
	typ       reflect.Type
	closeOnce sync.Once
	closed    bool
	closedMu  sync.Mutex
}

// Emit 发射事件
//
// 本仓库约定传入事件指针；订阅方收到的就是这里传入的值。
func (e *Emitter) Emit(event interface{}) error {
	e.closedMu.Lock()
	closed := e.closed
	e.closedMu.Unlock()
	if closed {
		return ErrEmitterClosed
	}

	e.node.deliver(event)
	return nil
}

// Close 关闭发射器并释放节点引用
func (e *Emitter) Close() error {
	e.closeOnce.Do(func() {
		e.closedMu.Lock()
		e.closed = true
		e.closedMu.Unlock()

		if e.node.nEmitters.Add(-1) == 0 {
			e.bus.dropNodeIfIdle(e.typ)
		}
	})
	return nil
}
