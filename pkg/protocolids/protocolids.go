package protocolids

// Version hello 帧携带的协议族版本号
const Version = "mothra/1.0.0"

// ============================================================================
//                              系统协议 ID
// ============================================================================

// Discovery 节点发现协议（FIND_NODE / NODES）
const Discovery = "/mothra/disc/1.0.0"

// Gossip 主题八卦协议（长连接双向流）
const Gossip = "/mothra/gossip/1.0.0"

// RPC 请求响应协议（每请求一个流）
const RPC = "/mothra/rpc/1.0.0"

// Hello 会话建立后的身份交换协议
const Hello = "/mothra/id/1.0.0"
