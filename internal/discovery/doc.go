// Package discovery 实现基于 Kademlia 的节点发现服务
//
// 路由表按 XOR 距离把已知节点组织进 256 个 k-桶，键空间取
// PeerID 的 blake3-256 摘要。查找协议只有一种消息交换：
// FIND_NODE(目标键) 应答距目标最近的至多 k 条签名节点记录，
// 迭代查询以 α 路并发逐步逼近目标。
//
// # 节点准入
//
// 只有直接通信过的节点才进入路由表：入站 FIND_NODE 的发送方、
// 以及对我方查询做出应答的节点。查询应答中罗列的第三方节点仅作
// 为后续查询的候选和拨号地址来源，不直接入表，避免路由表被单个
// 对端灌入伪造条目。
//
// 所有跨节点传播的地址信息都封装在签名记录里：记录由节点本人用
// 身份私钥签名，接收方校验签名与 PeerID/公钥绑定后才采信，校验
// 失败按协议异常丢弃。
//
// # 持久化
//
// 已知节点以 JSON 形式保存在数据目录的 peers.json 中，启动时与
// 配置的种子节点合并作为引导候选，运行期定时快照、停机时落盘。
package discovery
