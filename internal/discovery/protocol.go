package discovery

import (
	"context"
	"fmt"
	"time"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
	"github.com/mothra-net/go-mothra/pkg/lib/wire"
	"github.com/mothra-net/go-mothra/pkg/protocolids"
	"github.com/mothra-net/go-mothra/pkg/types"
)

// ProtocolID 发现协议的协议 ID
const ProtocolID = protocolids.Discovery

// ============================================================================
//                              服务端
// ============================================================================

// handleStream 处理入站查询
//
// 一条流承载一次 FIND_NODE 往返：读请求、采信请求方的签名记录、
// 回最近节点集合，随后关流。
func (s *Service) handleStream(st pkgif.Stream) {
	defer st.Close()
	remote := st.Session().RemotePeer()

	_ = st.SetDeadline(time.Now().Add(s.config.QueryTimeout))

	var req wire.FindNode
	if err := wire.ReadFrame(st, &req); err != nil {
		logger.Debug("读取查询请求失败", "peer", remote.ShortString(), "error", err)
		return
	}

	target, err := keyFromBytes(req.Target)
	if err != nil {
		logger.Warn("查询目标异常",
			"error", types.NewProtocolAnomaly(remote, ProtocolID, err.Error()))
		return
	}

	// 请求方主动联系了我们，其记录可直接进路由表
	if req.Sender != nil {
		s.processSenderRecord(remote, req.Sender, "inbound")
	}

	resp := &wire.Nodes{
		Records: s.closestRecords(target, s.config.BucketSize, remote),
		Sender:  s.localRecord(),
	}
	if err := wire.WriteFrame(st, resp); err != nil {
		logger.Debug("写入查询应答失败", "peer", remote.ShortString(), "error", err)
	}
}

// closestRecords 收集距目标最近节点的签名记录
//
// 只回已采信签名记录的节点，exclude 用来避免把请求方自己
// 回给它。
func (s *Service) closestRecords(target Key, limit int, exclude types.PeerID) []*wire.PeerRecord {
	entries := s.table.Closest(target, limit+1)
	out := make([]*wire.PeerRecord, 0, len(entries))
	for _, e := range entries {
		if len(out) >= limit {
			break
		}
		if e.ID == exclude {
			continue
		}
		if rec, ok := s.recordOf(e.ID); ok {
			out = append(out, rec)
		}
	}
	return out
}

// processSenderRecord 验证并采信对端随消息附带的自身记录
//
// 记录里声明的节点必须就是会话对端本身，否则视为协议异常丢弃。
func (s *Service) processSenderRecord(remote types.PeerID, rec *wire.PeerRecord, source string) {
	id, addrs, err := VerifyRecord(rec)
	if err != nil {
		logger.Warn("对端记录验证失败",
			"error", types.NewProtocolAnomaly(remote, ProtocolID, err.Error()))
		return
	}
	if id != remote {
		logger.Warn("对端记录身份不符",
			"error", types.NewProtocolAnomaly(remote, ProtocolID,
				fmt.Sprintf("record claims %s", id.ShortString())))
		return
	}
	s.admitContacted(id, addrs, rec, source)
}

// ============================================================================
//                              客户端
// ============================================================================

// queryPeer 向单个节点发起 FIND_NODE 查询
//
// 返回应答中经过签名验证的候选节点，应答方本身计为一次存活
// 确认。
func (s *Service) queryPeer(ctx context.Context, peer types.PeerID, target Key) ([]*candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	st, err := s.swarm.NewStream(ctx, peer, ProtocolID)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if dl, ok := ctx.Deadline(); ok {
		_ = st.SetDeadline(dl)
	}

	req := &wire.FindNode{Target: target[:], Sender: s.localRecord()}
	if err := wire.WriteFrame(st, req); err != nil {
		return nil, types.NewConnectionError(peer, "find_node", err)
	}

	var resp wire.Nodes
	if err := wire.ReadFrame(st, &resp); err != nil {
		return nil, types.NewConnectionError(peer, "read_nodes", err)
	}

	if resp.Sender != nil {
		s.processSenderRecord(peer, resp.Sender, "lookup")
	} else {
		s.admitContacted(peer, nil, nil, "lookup")
	}
	s.table.Touch(peer, time.Now())

	cands := make([]*candidate, 0, len(resp.Records))
	for _, rec := range resp.Records {
		id, addrs, err := VerifyRecord(rec)
		if err != nil {
			logger.Warn("候选节点记录验证失败",
				"error", types.NewProtocolAnomaly(peer, ProtocolID, err.Error()))
			continue
		}
		if id == s.localID || id == peer {
			continue
		}
		s.learnListed(id, addrs, rec, "lookup")
		cands = append(cands, &candidate{id: id, addrs: addrs, key: KeyForPeer(id)})
	}
	return cands, nil
}
