package discovery

import "errors"

var (
	// ErrDiscoveryClosed 服务已停止
	ErrDiscoveryClosed = errors.New("discovery: service closed")

	// ErrNotStarted 服务尚未启动
	ErrNotStarted = errors.New("discovery: service not started")

	// ErrAlreadyStarted 服务已经启动
	ErrAlreadyStarted = errors.New("discovery: service already started")

	// ErrNoSeeds 没有可用的引导节点
	ErrNoSeeds = errors.New("discovery: no bootstrap seeds configured")

	// ErrAllSeedsFailed 所有引导节点都不可达
	ErrAllSeedsFailed = errors.New("discovery: all bootstrap seeds unreachable")

	// ErrSeedMissingPeer 种子地址缺少 /p2p 节点身份段
	ErrSeedMissingPeer = errors.New("discovery: seed address missing /p2p peer id")

	// ErrPeerNotFound 查找未命中
	ErrPeerNotFound = errors.New("discovery: peer not found")

	// ErrInvalidRecord 签名节点记录校验失败
	ErrInvalidRecord = errors.New("discovery: invalid signed peer record")

	// ErrInvalidConfig 配置非法
	ErrInvalidConfig = errors.New("discovery: invalid config")

	// ErrNoAnswer DNS 查询无结果
	ErrNoAnswer = errors.New("discovery: dns query returned no answer")
)
