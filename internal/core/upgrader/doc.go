// Package upgrader 实现连接升级器
//
// upgrader 把传输层产出的原始连接升级为带身份、加密且可复用的会话
// 连接。升级分三步，协议选择通过 multistream-select 协商：
//
//  1. 协商安全协议并执行握手（Noise）
//  2. 协商多路复用器并建立会话（Yamux）
//  3. 封装为 UpgradedConn 交给 Swarm 管理
//
// 出站升级必须携带期望的远端 PeerID，握手身份不符即失败；
// 入站升级的远端身份由握手结果确定。
//
// # 使用示例
//
//	up, err := upgrader.New(
//	    []interfaces.SecureTransport{noiseTransport},
//	    []interfaces.Muxer{yamuxMuxer},
//	)
//
//	uc, err := up.Upgrade(ctx, rawConn, types.DirOutbound, remotePeer)
//	stream, err := uc.OpenStream(ctx)
package upgrader
