// Package wire 定义 Mothra 节点间传输的协议消息（wire format）
//
// 本包的消息覆盖四个线上协议：八卦、RPC、发现和握手标识。
// 序列化采用 Protobuf，流上按 uvarint 长度前缀分帧（见 frame.go）。
//
// # 职能
//
// pkg/lib/wire 定义 **跨网络传输** 的协议消息：
//   - 支持跨语言序列化（Protobuf）
//   - 需要版本兼容（未知字段被跳过而非报错）
//   - 变更成本高（影响网络协议）
//
// pkg/types 定义 Go 内部数据结构（内存结构），两者通过各协议包转换。
//
// 使用以下命令重新生成 Go 代码：
//
//	go generate ./...
//
//go:generate protoc --gogofaster_out=. --gogofaster_opt=paths=source_relative wire.proto
//go:generate protoc --gogofaster_out=. --gogofaster_opt=paths=source_relative handshake.proto
package wire
