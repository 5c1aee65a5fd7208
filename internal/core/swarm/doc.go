// Package swarm 实现会话群管理
//
// Swarm 是引擎的连接中枢：对外拨号、对内接收，把原始传输连接
// 经升级管线（Noise 握手 + yamux 多路复用）变成会话，并以
// 每节点至多一个会话的约束维护会话表。
//
// 拨号语义：
//   - 并发拨号同一节点合并为一次实际拨号，所有调用方观察同一结果
//   - 拨号失败按节点指数退避，退避期内的再次拨号立即失败
//   - 候选地址并发竞速，最先完成升级的连接胜出
//
// 会话表语义：
//   - 双向同时连接时保留先建立的会话，关闭后来者
//   - 会话总数受配置上限约束；达到上限时淘汰最久未活动且
//     无打开流的会话，无可淘汰会话则拒绝新会话
//
// 流接入：按协议注册处理器，入站流经 multistream 协商后分发。
package swarm
