package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/miekg/dns"

	"github.com/mothra-net/go-mothra/pkg/types"
)

// ============================================================================
//                              DNS 解析
// ============================================================================

// fallbackDNSServer 系统配置不可读时的兜底服务器
const fallbackDNSServer = "8.8.8.8:53"

// resolvConfPath 系统解析器配置路径
const resolvConfPath = "/etc/resolv.conf"

// resolverEntry 解析缓存条目
type resolverEntry struct {
	ips       []net.IP
	expiresAt time.Time
}

// Resolver 把 /dns4 地址解析为 /ip4 地址
//
// 解析在拨号前进行，结果按应答 TTL 缓存（受配置上限约束）。
type Resolver struct {
	client *dns.Client
	server string
	maxTTL time.Duration

	cacheMu sync.Mutex
	cache   map[string]resolverEntry
}

// NewResolver 创建解析器
//
// server 为空时读取系统解析器配置，读不到则退回公共 DNS。
func NewResolver(server string, timeout, maxTTL time.Duration) *Resolver {
	if server == "" {
		if conf, err := dns.ClientConfigFromFile(resolvConfPath); err == nil && len(conf.Servers) > 0 {
			server = net.JoinHostPort(conf.Servers[0], conf.Port)
		} else {
			server = fallbackDNSServer
		}
	}
	return &Resolver{
		client: &dns.Client{Timeout: timeout},
		server: server,
		maxTTL: maxTTL,
		cache:  make(map[string]resolverEntry),
	}
}

// Resolve 解析单个地址
//
// 非 DNS 地址原样返回。一个域名可能解析出多个 A 记录，每条都
// 展开为一个独立地址，端口、WS 标记和 /p2p 段保持不变。
func (r *Resolver) Resolve(ctx context.Context, addr types.Addr) ([]types.Addr, error) {
	if !addr.IsDNS() {
		return []types.Addr{addr}, nil
	}

	ips, err := r.lookupA(ctx, addr.Host)
	if err != nil {
		return nil, fmt.Errorf("discovery: resolve %s: %w", addr.Host, err)
	}

	out := make([]types.Addr, 0, len(ips))
	for _, ip := range ips {
		out = append(out, addr.WithHost("ip4", ip.String()))
	}
	return out, nil
}

// ResolveAll 解析地址列表，失败的域名记日志后跳过
func (r *Resolver) ResolveAll(ctx context.Context, addrs []types.Addr) []types.Addr {
	out := make([]types.Addr, 0, len(addrs))
	for _, a := range addrs {
		resolved, err := r.Resolve(ctx, a)
		if err != nil {
			logger.Warn("种子地址解析失败", "addr", a.String(), "error", err)
			continue
		}
		out = append(out, resolved...)
	}
	return out
}

// lookupA 查询域名的 A 记录
func (r *Resolver) lookupA(ctx context.Context, host string) ([]net.IP, error) {
	if ips, ok := r.fromCache(host); ok {
		return ips, nil
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeA)

	in, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err != nil {
		return nil, err
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: rcode %s", ErrNoAnswer, dns.RcodeToString[in.Rcode])
	}

	var ips []net.IP
	ttl := r.maxTTL
	for _, ans := range in.Answer {
		a, ok := ans.(*dns.A)
		if !ok {
			continue
		}
		ips = append(ips, a.A)
		if d := time.Duration(a.Hdr.Ttl) * time.Second; d < ttl {
			ttl = d
		}
	}
	if len(ips) == 0 {
		return nil, ErrNoAnswer
	}

	r.toCache(host, ips, ttl)
	return ips, nil
}

func (r *Resolver) fromCache(host string) ([]net.IP, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	e, ok := r.cache[host]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	ips := make([]net.IP, len(e.ips))
	copy(ips, e.ips)
	return ips, true
}

func (r *Resolver) toCache(host string, ips []net.IP, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	stored := make([]net.IP, len(ips))
	copy(stored, ips)
	r.cache[host] = resolverEntry{ips: stored, expiresAt: time.Now().Add(ttl)}
}
