// Package protocolids 定义 Mothra 所有线上协议的唯一协议 ID 注册表。
//
// # 唯一真源原则
//
// 本包是协议 ID 的唯一权威来源。所有模块、测试和示例在需要协议 ID
// 时必须引用本包中的常量，禁止在其他位置定义字面量。
//
// # 协议命名规范
//
//	/mothra/{name}/{version}
//
// 版本号遵循语义化版本，行为不兼容的修改必须提升主版本号并保留
// 旧版本 ID 的处理器直至弃用期结束。
//
// # 例外
//
// 安全层与多路复用层的协商 ID（noise.ProtocolID、yamux.ProtocolID）
// 不在本包中：它们只出现在连接升级器内部的协商表里，属于另一个
// 命名空间，不会注册为流处理器。
package protocolids
