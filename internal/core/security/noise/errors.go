// Package noise 实现 Noise 协议安全传输
package noise

import "errors"

var (
	// ErrPeerIDMismatch 远端身份与期望不符
	ErrPeerIDMismatch = errors.New("remote peer id does not match expected")

	// ErrInvalidSignature 静态密钥签名校验失败
	ErrInvalidSignature = errors.New("static key not bound to identity key")

	// ErrBadRemoteStatic 远端静态密钥格式错误
	ErrBadRemoteStatic = errors.New("invalid remote static key")
)
