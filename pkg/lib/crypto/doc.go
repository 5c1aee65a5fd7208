// Package crypto 提供 Mothra 节点身份所需的密码学原语
//
// 本包提供密钥生成、签名验证、序列化和 PeerID 派生。
//
// # 支持的密钥类型
//
//   - Ed25519（默认）：高性能椭圆曲线签名
//   - Secp256k1（区块链兼容）：基于 decred 的 ECDSA 实现
//
// # 快速开始
//
// 生成密钥对：
//
//	priv, pub, err := crypto.GenerateKeyPair(types.KeyTypeEd25519)
//
// 签名和验证：
//
//	sig, err := priv.Sign(data)
//	valid, err := pub.Verify(data, sig)
//
// 从公钥派生 PeerID：
//
//	peerID, err := crypto.PeerIDFromPublicKey(pub)
//
// # 架构层
//
//   - 层级：pkg/lib（公共工具包）
//   - 依赖：pkg/types
package crypto
