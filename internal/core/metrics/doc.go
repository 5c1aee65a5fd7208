// Package metrics 提供 Prometheus 指标采集
//
// Recorder 持有全部收集器。会话与发现指标由总线观察器从事件流
// 采集，协议层无需感知；消息类指标（gossip、RPC、桥接队列）由
// 各协议直接调用 Observe 系列方法记录。Handler 暴露 /metrics。
package metrics
