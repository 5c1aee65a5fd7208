// Package lib 包含基础设施工具库
//
// 本目录包含与架构组件无关的通用工具库：
//
//   - crypto: 密码学原语（密钥、签名、PeerID 推导）
//   - log: 日志封装
//   - wire: 线格式帧定义与编解码
//
// # 与 pkg/ 其他目录的关系
//
// pkg/ 目录包含四类内容：
//
//   - interfaces/: 组件公共接口（架构核心）
//   - types/: 公共类型定义（架构核心）
//   - protocolids/: 协议 ID 注册表
//   - lib/: 基础设施工具库（本目录）
//
// # 使用示例
//
//	import (
//	    "github.com/mothra-net/go-mothra/pkg/lib/crypto"
//	    "github.com/mothra-net/go-mothra/pkg/lib/log"
//	    "github.com/mothra-net/go-mothra/pkg/lib/wire"
//	)
package lib
