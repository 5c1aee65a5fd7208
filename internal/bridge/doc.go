// Package bridge 实现引擎与宿主之间的事件桥
//
// 两条有界队列各司一个方向：入站命令队列承载宿主发起的操作，
// 满时立即拒绝；出站通知队列承载引擎产生的事件，由单一分发协程
// 依次调用宿主注册的回调，满时丢最旧并计数。桥本身不含业务逻辑，
// 只是串行化与定序点，回调绝不在引擎协程上执行。
package bridge
