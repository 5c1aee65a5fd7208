// Package rpc 实现带关联键的异步请求响应协议
//
// 每个出站请求独占一条流：写入请求帧，等待响应帧，然后关闭。
// 响应或超时经 Notifier 异步投递，恰好其一，绝不阻塞调用方。
// 入站请求登记后挂起，等宿主应答或入站窗口到期后丢弃。
// 超过压缩阈值的负载用 snappy 压缩，帧内标记压缩位。
package rpc
