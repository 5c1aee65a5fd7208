// Package peerstore 实现节点信息表
//
// 每个已知节点一条 PeerRecord，保存地址、连接状态、活跃时间和
// hello 交换得到的客户端身份。所有跨组件的节点引用都通过 PeerID
// 查询本表，组件之间不传递连接句柄。
//
// 记录的清理由后台 janitor 完成：处于 Connected 状态的记录永不过期，
// 其余记录在超过配置的不活跃期后被移除。
package peerstore
