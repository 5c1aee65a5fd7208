package types

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ============================================================================
//                              地址格式
// ============================================================================

// 支持的地址格式（multiaddr 子集）：
//   - /ip4/127.0.0.1/tcp/9000
//   - /ip6/::1/tcp/9000
//   - /dns4/seed.example.org/tcp/9000
//   - 以上任意形式追加 /ws 表示 WebSocket 传输
//   - 以上任意形式追加 /p2p/<base58 peer id> 携带目标节点身份

var (
	// ErrInvalidAddr 无效地址
	ErrInvalidAddr = errors.New("invalid address")

	// ErrAddrMissingPort 地址缺少端口
	ErrAddrMissingPort = errors.New("address missing tcp port")
)

// ============================================================================
//                              Addr
// ============================================================================

// Addr 节点网络地址（值类型）
//
// Proto 取值 "ip4" / "ip6" / "dns4"；WS 标记 WebSocket 传输；
// Peer 为可选的目标节点身份（来自 /p2p 段）。
type Addr struct {
	Proto string
	Host  string
	Port  int
	WS    bool
	Peer  PeerID
}

// ParseAddr 解析地址字符串
func ParseAddr(s string) (Addr, error) {
	var a Addr
	if s == "" || !strings.HasPrefix(s, "/") {
		return a, fmt.Errorf("%w: %q", ErrInvalidAddr, s)
	}

	parts := strings.Split(strings.TrimPrefix(s, "/"), "/")
	i := 0
	next := func() (string, bool) {
		if i >= len(parts) {
			return "", false
		}
		p := parts[i]
		i++
		return p, true
	}

	proto, ok := next()
	if !ok {
		return a, fmt.Errorf("%w: %q", ErrInvalidAddr, s)
	}
	switch proto {
	case "ip4", "ip6", "dns4":
		a.Proto = proto
	default:
		return a, fmt.Errorf("%w: 不支持的协议段 %q", ErrInvalidAddr, proto)
	}

	host, ok := next()
	if !ok || host == "" {
		return a, fmt.Errorf("%w: 缺少主机段", ErrInvalidAddr)
	}
	a.Host = host

	// 传输段必须是 tcp
	tcpTag, ok := next()
	if !ok || tcpTag != "tcp" {
		return a, fmt.Errorf("%w: %q", ErrAddrMissingPort, s)
	}
	portStr, ok := next()
	if !ok {
		return a, fmt.Errorf("%w: %q", ErrAddrMissingPort, s)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return a, fmt.Errorf("%w: 端口 %q", ErrInvalidAddr, portStr)
	}
	a.Port = port

	// 可选尾段：/ws 和 /p2p/<id>，顺序固定
	if seg, ok := next(); ok {
		if seg == "ws" {
			a.WS = true
			seg, ok = next()
			if !ok {
				return a, nil
			}
		}
		if seg != "p2p" {
			return a, fmt.Errorf("%w: 意外的地址段 %q", ErrInvalidAddr, seg)
		}
		idStr, ok := next()
		if !ok {
			return a, fmt.Errorf("%w: /p2p 后缺少节点 ID", ErrInvalidAddr)
		}
		peer, err := PeerIDFromString(idStr)
		if err != nil {
			return a, fmt.Errorf("%w: 无效的 /p2p 节点 ID %q", ErrInvalidAddr, idStr)
		}
		a.Peer = peer
	}
	if i != len(parts) {
		return a, fmt.Errorf("%w: 多余的地址段", ErrInvalidAddr)
	}
	return a, nil
}

// ParseAddrs 批量解析地址，遇到第一个错误即返回
func ParseAddrs(ss ...string) ([]Addr, error) {
	addrs := make([]Addr, 0, len(ss))
	for _, s := range ss {
		a, err := ParseAddr(s)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}
	return addrs, nil
}

// AddrFromNetAddr 从 net.Addr 构造（监听器回读本地地址时使用）
func AddrFromNetAddr(na net.Addr, ws bool) (Addr, error) {
	tcpAddr, ok := na.(*net.TCPAddr)
	if !ok {
		return Addr{}, fmt.Errorf("%w: 非 TCP 地址 %T", ErrInvalidAddr, na)
	}
	proto := "ip6"
	if tcpAddr.IP.To4() != nil {
		proto = "ip4"
	}
	return Addr{Proto: proto, Host: tcpAddr.IP.String(), Port: tcpAddr.Port, WS: ws}, nil
}

// String 渲染为 multiaddr 子集字符串
func (a Addr) String() string {
	if a.IsEmpty() {
		return ""
	}
	var b strings.Builder
	b.WriteByte('/')
	b.WriteString(a.Proto)
	b.WriteByte('/')
	b.WriteString(a.Host)
	b.WriteString("/tcp/")
	b.WriteString(strconv.Itoa(a.Port))
	if a.WS {
		b.WriteString("/ws")
	}
	if !a.Peer.IsEmpty() {
		b.WriteString("/p2p/")
		b.WriteString(a.Peer.String())
	}
	return b.String()
}

// HostPort 返回 host:port 形式（拨号器使用）
func (a Addr) HostPort() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Network 返回网络类型（net.Dialer 使用）
func (a Addr) Network() string {
	switch a.Proto {
	case "ip4":
		return "tcp4"
	case "ip6":
		return "tcp6"
	default:
		return "tcp"
	}
}

// IsDNS 判断主机段是否需要解析
func (a Addr) IsDNS() bool {
	return a.Proto == "dns4"
}

// IsEmpty 判断是否为零值地址
func (a Addr) IsEmpty() bool {
	return a.Proto == "" && a.Host == "" && a.Port == 0
}

// Equal 判断两个地址是否相等（忽略 Peer 段）
func (a Addr) Equal(other Addr) bool {
	return a.Proto == other.Proto && a.Host == other.Host &&
		a.Port == other.Port && a.WS == other.WS
}

// WithPeer 返回携带节点身份的副本
func (a Addr) WithPeer(p PeerID) Addr {
	a.Peer = p
	return a
}

// WithoutPeer 返回剥离节点身份的副本
func (a Addr) WithoutPeer() Addr {
	a.Peer = EmptyPeerID
	return a
}

// WithHost 返回替换主机段的副本（DNS 解析后使用）
func (a Addr) WithHost(proto, host string) Addr {
	a.Proto = proto
	a.Host = host
	return a
}

// MarshalText 实现 encoding.TextMarshaler
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (a *Addr) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = Addr{}
		return nil
	}
	parsed, err := ParseAddr(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
