// Package identify 实现会话建立后的 hello 身份交换
//
// 会话发起方打开 hello 流，先写自己的身份再读对端的；
// 应答方读到对方身份后回写自己的。双方把得到的客户端标识
// 和监听地址存入节点存储，一个会话恰好交换一次。
package identify

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/protocolids"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("identify")

// ProtocolID hello 协议标识
const ProtocolID = protocolids.Hello

const (
	// exchangeTimeout 整个 hello 往返的期限
	exchangeTimeout = 10 * time.Second

	// maxFieldLen 单个身份字段的长度上限
	maxFieldLen = 256

	// maxListenAddrs hello 帧携带的监听地址上限
	maxListenAddrs = 16
)

// ErrInvalidConfig 配置无效
var ErrInvalidConfig = fmt.Errorf("identify: invalid config")

// ============================================================================
//                              服务
// ============================================================================

// Service hello 身份交换服务
type Service struct {
	localID   types.PeerID
	ident     types.ClientIdentity
	swarm     pkgif.Swarm
	peerstore pkgif.Peerstore

	watcher    *sessionWatcher
	loopCtx    context.Context
	loopCancel context.CancelFunc

	started atomic.Bool
	closed  atomic.Bool
}

// New 创建身份交换服务
func New(localID types.PeerID, ident types.ClientIdentity, sw pkgif.Swarm, ps pkgif.Peerstore) (*Service, error) {
	if localID.IsEmpty() {
		return nil, types.ErrInvalidPeerID
	}
	if sw == nil {
		return nil, fmt.Errorf("%w: nil swarm", ErrInvalidConfig)
	}
	if ps == nil {
		return nil, fmt.Errorf("%w: nil peerstore", ErrInvalidConfig)
	}

	s := &Service{
		localID:   localID,
		ident:     ident,
		swarm:     sw,
		peerstore: ps,
	}
	s.watcher = &sessionWatcher{service: s}
	return s, nil
}

// Start 注册流处理器并为既有会话补做交换
func (s *Service) Start(_ context.Context) error {
	if s.closed.Load() {
		return fmt.Errorf("identify: service closed")
	}
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("identify: service already started")
	}

	s.loopCtx, s.loopCancel = context.WithCancel(context.Background())
	s.swarm.SetStreamHandler(ProtocolID, s.handleStream)
	s.swarm.Notify(s.watcher)
	for _, sess := range s.swarm.Sessions() {
		s.watcher.Connected(sess)
	}

	logger.Info("身份交换服务已启动", "protocol", ProtocolID)
	return nil
}

// Close 注销流处理器
func (s *Service) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if !s.started.Load() {
		return nil
	}

	s.swarm.RemoveStreamHandler(ProtocolID)
	s.swarm.StopNotify(s.watcher)
	s.loopCancel()
	return nil
}

// ============================================================================
//                              交换流程
// ============================================================================

// sessionWatcher 捕获新会话，由发起方触发交换
type sessionWatcher struct {
	service *Service
}

var _ pkgif.Notifiee = (*sessionWatcher)(nil)

func (w *sessionWatcher) Connected(sess pkgif.Session) {
	s := w.service
	if s.closed.Load() {
		return
	}
	if sess.Direction() != types.DirOutbound {
		return
	}
	go s.runExchange(sess.RemotePeer())
}

func (w *sessionWatcher) Disconnected(pkgif.Session, types.DisconnectReason) {}

// runExchange 发起方：写自己的 hello，读对端的
func (s *Service) runExchange(peer types.PeerID) {
	ctx, cancel := context.WithTimeout(s.loopCtx, exchangeTimeout)
	defer cancel()

	st, err := s.swarm.NewStream(ctx, peer, ProtocolID)
	if err != nil {
		logger.Debug("打开 hello 流失败",
			"peer", peer.ShortString(),
			"error", err)
		return
	}
	defer st.Close()
	_ = st.SetDeadline(time.Now().Add(exchangeTimeout))

	if err := wire.WriteFrame(st, s.buildHello()); err != nil {
		logger.Debug("写 hello 帧失败",
			"peer", peer.ShortString(),
			"error", err)
		return
	}
	var hello wire.Hello
	if err := wire.ReadFrame(st, &hello); err != nil {
		logger.Debug("读 hello 帧失败",
			"peer", peer.ShortString(),
			"error", err)
		return
	}
	s.absorbHello(peer, &hello)
}

// handleStream 应答方：读对端 hello，回写自己的
func (s *Service) handleStream(st pkgif.Stream) {
	defer st.Close()
	peer := st.Session().RemotePeer()
	_ = st.SetDeadline(time.Now().Add(exchangeTimeout))

	var hello wire.Hello
	if err := wire.ReadFrame(st, &hello); err != nil {
		logger.Debug("读 hello 帧失败",
			"peer", peer.ShortString(),
			"error", err)
		return
	}
	s.absorbHello(peer, &hello)

	if err := wire.WriteFrame(st, s.buildHello()); err != nil {
		logger.Debug("写 hello 帧失败",
			"peer", peer.ShortString(),
			"error", err)
	}
}

// buildHello 组装本端身份帧
func (s *Service) buildHello() *wire.Hello {
	listen := s.swarm.ListenAddrs()
	addrs := make([]string, 0, len(listen))
	for _, a := range listen {
		addrs = append(addrs, a.String())
	}
	return &wire.Hello{
		ClientName:      s.ident.Name,
		ClientVersion:   s.ident.Version,
		Agent:           s.ident.UserAgent(),
		ProtocolVersion: protocolids.Version,
		ListenAddrs:     addrs,
	}
}

// absorbHello 校验并落库对端身份
func (s *Service) absorbHello(peer types.PeerID, hello *wire.Hello) {
	if len(hello.ClientName) > maxFieldLen ||
		len(hello.ClientVersion) > maxFieldLen ||
		len(hello.Agent) > maxFieldLen ||
		len(hello.ProtocolVersion) > maxFieldLen {
		logger.Warn("hello 字段超长",
			"error", types.NewProtocolAnomaly(peer, ProtocolID, "oversized identity field"))
		return
	}
	if hello.ProtocolVersion != protocolids.Version {
		// 版本不同仍然接纳，协议内帧自带兼容性
		logger.Debug("对端协议版本不同",
			"peer", peer.ShortString(),
			"version", hello.ProtocolVersion)
	}

	s.peerstore.SetIdentity(peer, types.ClientIdentity{
		Name:    hello.ClientName,
		Version: hello.ClientVersion,
		Agent:   hello.Agent,
	})

	count := 0
	for _, raw := range hello.ListenAddrs {
		if count >= maxListenAddrs {
			break
		}
		addr, err := types.ParseAddr(raw)
		if err != nil {
			continue
		}
		s.peerstore.AddAddrs(peer, addr)
		count++
	}

	logger.Debug("记录对端身份",
		"peer", peer.ShortString(),
		"agent", hello.Agent,
		"addrs", count)
}
