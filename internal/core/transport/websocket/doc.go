// Package websocket 实现 WebSocket 传输层
//
// websocket 在 HTTP/1.1 升级握手之上承载二进制消息流，适合穿透
// 仅放行 HTTP 的防火墙。连接在 net.Conn 语义下暴露，消息边界对
// 上层透明，需要配合安全层（Noise）和多路复用器（Yamux）使用。
//
// # 特性
//
//   - 基于 gorilla/websocket
//   - 消息流适配为字节流
//   - 需要 Upgrader 升级
//
// # 地址格式
//
//	/ip4/1.2.3.4/tcp/4002/ws
//	/dns4/relay.example.org/tcp/443/ws
//
// # 使用示例
//
//	transport := websocket.New()
//
//	// 监听
//	listener, err := transport.Listen(laddr)
//
//	// 拨号
//	conn, err := transport.Dial(ctx, raddr)
package websocket
