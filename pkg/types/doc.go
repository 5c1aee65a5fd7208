// Package types 定义 Mothra 的公共值类型
//
// 包含节点 ID、消息 ID、地址、节点记录、事件和错误分类等基础类型。
// 本包只依赖编码/哈希库，不依赖引擎内部实现，可被任意层引用。
package types
