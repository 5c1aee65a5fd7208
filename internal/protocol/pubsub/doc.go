// Package pubsub 实现主题八卦路由。
//
// 路由器与每个已连接节点维持一条长连接双向流（/mothra/gossip/1.0.0），
// 会话发起方负责打开流，双方都在同一条流上收发帧。链路建立后先通告
// 本地完整订阅集，之后的订阅变更以控制帧增量广播。
//
// 本地发布和远端中继走同一条路径：先做兴趣准入，再查最近已见缓存去重，
// 首见消息转发给对该主题感兴趣的邻居并投递给本地订阅者。每节点出站
// 队列有界，溢出时丢弃最旧帧，保全整体活性而不是阻塞在慢节点上。
package pubsub
