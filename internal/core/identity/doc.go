// Package identity 管理节点身份密钥
//
// 节点身份是一把长期私钥，PeerID 由其公钥派生。密钥以 PEM 格式
// 持久化在数据目录下的 identity.key 中，首次启动时自动生成，
// 此后每次启动加载同一把钥匙，节点因此拥有稳定的 PeerID。
//
// 加载优先级：直接注入的私钥 > 数据目录中的密钥文件 > 新生成。
package identity
