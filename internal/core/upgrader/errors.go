// Package upgrader 实现连接升级器
package upgrader

import "errors"

var (
	// ErrNoPeerID 出站升级缺少期望的远端 PeerID
	ErrNoPeerID = errors.New("upgrader: outbound upgrade requires remote peer id")

	// ErrNoSecurityTransport 没有配置安全传输
	ErrNoSecurityTransport = errors.New("upgrader: no security transport configured")

	// ErrNoMuxer 没有配置多路复用器
	ErrNoMuxer = errors.New("upgrader: no stream muxer configured")
)
