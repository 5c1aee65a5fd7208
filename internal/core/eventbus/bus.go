package eventbus

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

var (
	// ErrInvalidEventType 事件类型为 nil 或无法反射
	ErrInvalidEventType = errors.New("eventbus: invalid event type")
	// ErrNonPointerType 事件类型参数必须是指针（new(EvtX)）
	ErrNonPointerType = errors.New("eventbus: event type must be a pointer")
	// ErrEmitterClosed 发射器已关闭
	ErrEmitterClosed = errors.New("eventbus: emitter closed")
)

// 默认订阅缓冲大小
const defaultSubBuffer = 16

// ============================================================================
//                              Bus
// ============================================================================

// Bus 按事件类型路由的事件总线
type Bus struct {
	mu    sync.Mutex
	nodes map[reflect.Type]*node
}

// node 单个事件类型的路由节点
//
// 生命周期由订阅者数量与发射器引用计数共同决定，
// 两者都归零后节点从总线移除。
type node struct {
	lk        sync.Mutex
	typ       reflect.Type
	sinks     []*Subscription
	nEmitters atomic.Int32
	keepLast  bool
	last      interface{}
	dropped   atomic.Int64
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{
		nodes: make(map[reflect.Type]*node),
	}
}

var _ pkgif.EventBus = (*Bus)(nil)

// Subscribe 订阅指定类型的事件
//
// eventType 传事件类型的指针零值，如 new(types.EvtPeerConnected)。
func (b *Bus) Subscribe(eventType interface{}, opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	typ, err := eventElemType(eventType)
	if err != nil {
		return nil, err
	}

	settings := pkgif.SubscriptionSettings{Buffer: defaultSubBuffer}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.Buffer < 0 {
		settings.Buffer = 0
	}

	sub := &Subscription{
		bus: b,
		typ: typ,
		out: make(chan interface{}, settings.Buffer),
	}

	b.withNode(typ, func(n *node) {
		n.sinks = append(n.sinks, sub)

		// 有状态节点向新订阅者重放最近一次事件
		if n.keepLast && n.last != nil {
			select {
			case sub.out <- n.last:
			default:
			}
		}
	})

	return sub, nil
}

// Emitter 获取指定事件类型的发射器
func (b *Bus) Emitter(eventType interface{}, opts ...pkgif.EmitterOpt) (pkgif.Emitter, error) {
	typ, err := eventElemType(eventType)
	if err != nil {
		return nil, err
	}

	settings := pkgif.EmitterSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	var n *node
	b.withNode(typ, func(nd *node) {
		n = nd
		n.nEmitters.Add(1)
		if settings.Stateful {
			n.keepLast = true
		}
	})

	return &Emitter{bus: b, node: n, typ: typ}, nil
}

// EventTypes 返回当前注册过订阅或发射器的事件类型
func (b *Bus) EventTypes() []reflect.Type {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]reflect.Type, 0, len(b.nodes))
	for typ := range b.nodes {
		out = append(out, typ)
	}
	return out
}

// eventElemType 校验并提取事件类型参数的元素类型
func eventElemType(eventType interface{}) (reflect.Type, error) {
	if eventType == nil {
		return nil, ErrInvalidEventType
	}
	typ := reflect.TypeOf(eventType)
	if typ == nil {
		return nil, ErrInvalidEventType
	}
	if typ.Kind() != reflect.Ptr {
		return nil, ErrNonPointerType
	}
	return typ.Elem(), nil
}

// withNode 取出（或创建）类型节点并在节点锁内执行 cb
//
// 节点锁在总线锁释放前获取，保证节点不会在使用中被移除。
func (b *Bus) withNode(typ reflect.Type, cb func(*node)) {
	b.mu.Lock()
	n, ok := b.nodes[typ]
	if !ok {
		n = &node{typ: typ}
		b.nodes[typ] = n
	}
	n.lk.Lock()
	b.mu.Unlock()

	cb(n)
	n.lk.Unlock()
}

// dropNodeIfIdle 在订阅者与发射器都归零时移除节点
func (b *Bus) dropNodeIfIdle(typ reflect.Type) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, ok := b.nodes[typ]
	if !ok {
		return
	}

	n.lk.Lock()
	idle := len(n.sinks) == 0 && n.nEmitters.Load() == 0
	n.lk.Unlock()

	if idle {
		delete(b.nodes, typ)
	}
}

// removeSink 从类型节点移除订阅
func (b *Bus) removeSink(sub *Subscription) {
	b.mu.Lock()
	n, ok := b.nodes[sub.typ]
	if !ok {
		b.mu.Unlock()
		return
	}
	n.lk.Lock()
	b.mu.Unlock()

	for i, s := range n.sinks {
		if s == sub {
			n.sinks = append(n.sinks[:i], n.sinks[i+1:]...)
			break
		}
	}
	idle := len(n.sinks) == 0 && n.nEmitters.Load() == 0
	n.lk.Unlock()

	if idle {
		b.dropNodeIfIdle(sub.typ)
	}
}

// deliver 把事件投递给节点的所有订阅者
//
// 订阅缓冲满时丢弃该订阅者的本次事件，发射方永不阻塞。
func (n *node) deliver(event interface{}) {
	n.lk.Lock()
	defer n.lk.Unlock()

	if n.keepLast {
		n.last = event
	}

	for _, sub := range n.sinks {
		select {
		case sub.out <- event:
		default:
			dropped := n.dropped.Add(1)
			if dropped%100 == 1 {
				logger.Warn("订阅者消费过慢，事件被丢弃",
					"type", n.typ.String(),
					"dropped", dropped)
			}
		}
	}
}
