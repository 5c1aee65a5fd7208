// Package noise 实现 Noise 协议安全传输
//
// noise 在原始传输连接之上执行 Noise XX 握手，产出双向认证的
// 加密连接。静态密钥通过握手载荷中的身份签名绑定到节点身份，
// 出站侧校验远端 PeerID 与期望值一致。
//
// # 握手流程（Noise XX）
//
//	-> e                          发起者发送临时公钥
//	<- e, ee, s, es, payload      响应者发送静态公钥与身份载荷
//	-> s, se, payload             发起者发送静态公钥与身份载荷
//
// payload 内容：
//   - identity_key: 身份公钥（序列化格式）
//   - identity_sig: Sign("noise-libp2p-static-key:" + 静态公钥)
//
// # 密码套件
//
//   - DH: Curve25519
//   - Cipher: ChaCha20-Poly1305
//   - Hash: SHA-256
//
// Ed25519 身份的静态密钥由身份私钥确定性转换而来；
// secp256k1 身份使用随机静态密钥，同样由签名绑定。
//
// # 帧格式
//
// 握手消息与密文均按 2 字节大端长度前缀分帧，单帧上限 65535 字节。
package noise
