// Package yamux 实现基于 hashicorp/yamux 的流多路复用
//
// yamux 在一条加密连接上复用多条双向流，流由协议标识区分用途。
// 会话两端角色由连接方向决定：拨号方为客户端，接收方为服务端。
//
// # 特性
//
//   - 流级流量控制（默认窗口 256 KB）
//   - 会话保活（默认 30s 心跳）
//   - OpenStream 支持 context 取消
//
// # 使用示例
//
//	muxer := yamux.New()
//
//	// 升级连接
//	mc, err := muxer.NewConn(secureConn, isServer)
//
//	// 打开流
//	stream, err := mc.OpenStream(ctx)
//
//	// 接受流
//	stream, err := mc.AcceptStream()
package yamux
