// Package main 提供 mothra 命令行入口
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mothra-net/go-mothra"
	"github.com/mothra-net/go-mothra/config"
	"github.com/mothra-net/go-mothra/pkg/lib/log"
	"github.com/mothra-net/go-mothra/pkg/types"
)

var logger = log.Logger("mothra/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
// 配置边界：
//
//   命令行参数：运行时覆盖 / 快速测试（「这次运行」想怎么跑）
//   JSON 配置文件：持久化配置 / 长期运行（「这个节点」的固定配置）
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	// ─────────────────────────────────────────────────────────────────────
	// 运行时参数（快速指定）
	// ─────────────────────────────────────────────────────────────────────
	port        = flag.Int("port", 0, "监听端口（0 = 随机端口）")
	listenAddrs = flag.String("listen", "", "监听地址（multiaddr，逗号分隔，覆盖 -port）")
	configFile  = flag.String("config", "", "配置文件路径")
	dataDir     = flag.String("data-dir", "", "数据目录（保存身份密钥与种子文件）")

	// ─────────────────────────────────────────────────────────────────────
	// 网络参数
	// ─────────────────────────────────────────────────────────────────────
	topics    = flag.String("topics", "", "启动时订阅的主题（逗号分隔）")
	bootPeers = flag.String("boot-peers", "", "引导节点地址（含 /p2p 段，逗号分隔）")

	// ─────────────────────────────────────────────────────────────────────
	// 客户端身份
	// ─────────────────────────────────────────────────────────────────────
	clientName = flag.String("name", "", "客户端名称（hello 交换中发给对端）")
	agent      = flag.String("agent", "", "完整 agent 串（默认由名称和版本组合）")

	// ─────────────────────────────────────────────────────────────────────
	// 日志参数
	// ─────────────────────────────────────────────────────────────────────
	logLevel = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")
	logFile  = flag.String("log", "", "日志文件路径")
	logDir   = flag.String("log-dir", "logs", "自动日志的输出目录")
	autoLog  = flag.Bool("auto-log", true, "自动生成日志文件（保持控制台只输出事件）")

	// ─────────────────────────────────────────────────────────────────────
	// 信息显示
	// ─────────────────────────────────────────────────────────────────────
	showVersion = flag.Bool("version", false, "显示版本信息")
	showHelp    = flag.Bool("help", false, "显示帮助信息")
)

// actualLogPath 实际使用的日志文件路径（用于输出显示）
var actualLogPath string

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		printVersion()
		return nil
	}

	if *showHelp {
		printHelp()
		return nil
	}

	opts, err := buildOptions()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	opts = append(opts, trafficHandlers()...)

	node, err := mothra.New(opts...)
	if err != nil {
		return fmt.Errorf("创建节点失败: %w", err)
	}

	fmt.Printf("📦 %s\n", mothra.VersionInfo())
	logger.Info("启动 mothra 节点",
		"version", mothra.Version, "commit", mothra.GitCommit, "buildDate", mothra.BuildDate)

	fmt.Println("正在启动 mothra 节点...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := node.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	printNodeInfo(node)

	fmt.Println("节点已启动，按 Ctrl+C 退出")
	waitForSignal()

	fmt.Println("\n正在关闭节点...")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	return node.Stop(stopCtx)
}

// buildOptions 构建节点选项
//
// 配置优先级（从高到低）：
//  1. 命令行参数（运行时覆盖）
//  2. 环境变量（MOTHRA_* 前缀）
//  3. 配置文件（持久化配置）
//  4. 默认值
func buildOptions() ([]mothra.Option, error) {
	var cfg *config.Config

	// ═══════════════════════════════════════════════════════════════════
	// 1. 加载配置文件（持久化配置）
	// ═══════════════════════════════════════════════════════════════════
	if *configFile != "" {
		var err error
		cfg, err = config.LoadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	// ═══════════════════════════════════════════════════════════════════
	// 2. 应用环境变量覆盖
	// ═══════════════════════════════════════════════════════════════════
	applyEnvOverrides(cfg)

	// ═══════════════════════════════════════════════════════════════════
	// 3. 应用命令行参数覆盖（最高优先级）
	// ═══════════════════════════════════════════════════════════════════
	opts := []mothra.Option{mothra.WithConfig(cfg)}

	if *listenAddrs != "" {
		opts = append(opts, mothra.WithListenAddrs(splitAndTrim(*listenAddrs, ",")...))
	} else if isFlagSet("port") {
		opts = append(opts, mothra.WithListenPort(*port))
	}

	if *dataDir != "" {
		opts = append(opts, mothra.WithDataDir(*dataDir))
	}

	if *topics != "" {
		opts = append(opts, mothra.WithTopics(splitAndTrim(*topics, ",")...))
	}

	if *bootPeers != "" {
		opts = append(opts, mothra.WithBootPeers(splitAndTrim(*bootPeers, ",")...))
	}

	if *clientName != "" || *agent != "" {
		name := cfg.Client.Name
		if *clientName != "" {
			name = *clientName
		}
		agentStr := cfg.Client.Agent
		if *agent != "" {
			agentStr = *agent
		}
		opts = append(opts, mothra.WithClientIdentity(name, cfg.Client.Version, agentStr))
	}

	if *logLevel != "" {
		opts = append(opts, mothra.WithLogLevel(*logLevel))
	}

	logPath, err := resolveLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告: %v\n", err)
		fmt.Fprintln(os.Stderr, "将继续使用控制台输出日志")
	} else if logPath != "" {
		opts = append(opts, mothra.WithLogFile(logPath))
		actualLogPath = logPath
	}

	return opts, nil
}

// trafficHandlers 注册把回调流量打印到控制台的处理器
func trafficHandlers() []mothra.Option {
	return []mothra.Option{
		mothra.WithPeerDiscoveredHandler(func(peer types.PeerID) {
			fmt.Printf("◆ 发现节点 %s\n", peer.ShortString())
		}),
		mothra.WithGossipHandler(func(id types.MessageID, from types.PeerID, topic string, payload []byte) {
			fmt.Printf("◆ 八卦 [%s] 来自 %s (%s): %s\n",
				topic, from.ShortString(), id.ShortString(), previewPayload(payload))
		}),
		mothra.WithRPCHandler(func(ev mothra.RPCEvent) {
			switch ev.Kind {
			case mothra.RPCKindRequest:
				fmt.Printf("◆ 请求 [%s] 来自 %s: %s\n",
					ev.Method, ev.Peer.ShortString(), previewPayload(ev.Payload))
			case mothra.RPCKindResponse:
				fmt.Printf("◆ 应答 [%s] 来自 %s (%s): %s\n",
					ev.Method, ev.Peer.ShortString(), ev.Correlation, previewPayload(ev.Payload))
			case mothra.RPCKindFailure:
				fmt.Printf("◆ 失败 [%s] 对端 %s: %v\n",
					ev.Method, ev.Peer.ShortString(), ev.Err)
			}
		}),
	}
}

// previewPayload 截断展示负载，避免二进制内容刷屏
func previewPayload(payload []byte) string {
	const maxShow = 64
	if len(payload) <= maxShow {
		return string(payload)
	}
	return fmt.Sprintf("%s... (%d 字节)", payload[:maxShow], len(payload))
}

// resolveLogFile 确定日志文件路径
//
// 优先级：-log 参数 > MOTHRA_LOG_FILE 环境变量 > 自动生成。
// 禁用自动日志且未指定路径时返回空串（日志输出到 stderr）。
func resolveLogFile() (string, error) {
	if *logFile != "" {
		return *logFile, nil
	}
	if v := getLogFileFromEnv(); v != "" {
		return v, nil
	}
	if !*autoLog {
		return "", nil
	}

	timestamp := time.Now().Format("20060102-150405")
	path := filepath.Join(*logDir, fmt.Sprintf("mothra-%s-%d.log", timestamp, os.Getpid()))
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("创建日志目录失败: %w", err)
	}
	return path, nil
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// waitForSignal 等待退出信号
func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
}

// printNodeInfo 打印节点信息（美化输出）
//
// 输出包含可复制的完整地址，便于分享给其他节点作引导种子。
func printNodeInfo(node *mothra.Node) {
	id := node.ID()

	fmt.Println()
	fmt.Println("╔════════════════════════════════════════════════════════════════════════╗")
	fmt.Printf("║                    Mothra Node Started (%s)                        ║\n", mothra.Version)
	fmt.Println("╠════════════════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  Node ID: %-60s  ║\n", id)
	fmt.Println("║                                                                        ║")
	fmt.Println("║  Addresses (copy to share):                                            ║")

	// 输出完整地址（含 /p2p/NodeID），不截断，便于复制
	for _, addr := range node.ListenAddrs() {
		printWrappedLine(addr.WithPeer(id).String(), 68)
	}

	if topics := node.Topics(); len(topics) > 0 {
		fmt.Println("║                                                                        ║")
		fmt.Println("║  Topics:                                                               ║")
		for _, topic := range topics {
			printWrappedLine(topic, 68)
		}
	}

	fmt.Println("║                                                                        ║")

	if actualLogPath != "" {
		printWrappedLabel("Log file:", actualLogPath, 60)
		fmt.Println("║                                                                        ║")
	}

	fmt.Println("╚════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
}

// printWrappedLine 打印可复制的长行内容（不截断）
func printWrappedLine(text string, width int) {
	if width <= 0 {
		fmt.Printf("║    %s  ║\n", text)
		return
	}
	for len(text) > width {
		fmt.Printf("║    %-*s  ║\n", width, text[:width])
		text = text[width:]
	}
	fmt.Printf("║    %-*s  ║\n", width, text)
}

// printWrappedLabel 打印带标签的长行内容（不截断）
func printWrappedLabel(label, text string, width int) {
	prefix := fmt.Sprintf("║  %s ", label)
	if width <= 0 {
		fmt.Printf("%s%s  ║\n", prefix, text)
		return
	}
	remaining := width
	linePrefix := prefix
	for len(text) > remaining {
		fmt.Printf("%s%-*s  ║\n", linePrefix, remaining, text[:remaining])
		text = text[remaining:]
		// 续行对齐
		linePrefix = "║" + fmt.Sprintf("%*s", len(label)+3, " ")
		remaining = width
	}
	fmt.Printf("%s%-*s  ║\n", linePrefix, remaining, text)
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("mothra %s\n", mothra.Version)
	if mothra.GitCommit != "" {
		fmt.Printf("  commit: %s\n", mothra.GitCommit)
	}
	if mothra.BuildDate != "" {
		fmt.Printf("  built:  %s\n", mothra.BuildDate)
	}
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("mothra - 八卦与请求应答的 P2P 网络引擎")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  mothra [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println("环境变量")
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("  MOTHRA_LISTEN_PORT   监听端口")
	fmt.Println("  MOTHRA_TOPICS        订阅主题（逗号分隔）")
	fmt.Println("  MOTHRA_BOOT_PEERS    引导节点地址（逗号分隔）")
	fmt.Println("  MOTHRA_DATA_DIR      数据目录（隔离多节点密钥与种子）")
	fmt.Println("  MOTHRA_LOG_LEVEL     日志级别")
	fmt.Println("  MOTHRA_LOG_FILE      日志文件路径")
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println("使用示例")
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("  # 使用默认配置启动（端口 9000）")
	fmt.Println("  mothra")
	fmt.Println()
	fmt.Println("  # 订阅主题并等待消息")
	fmt.Println("  mothra -port 9001 -topics /mothra/beacon_block,/mothra/attestation")
	fmt.Println()
	fmt.Println("  # 连接引导节点（地址从对方启动输出复制）")
	fmt.Println("  mothra -port 0 -boot-peers /ip4/10.0.0.5/tcp/9000/p2p/4XTTM...")
	fmt.Println()
	fmt.Println("  # 使用配置文件（推荐用于长期运行的节点）")
	fmt.Println("  mothra -config node.json -data-dir ./data/node1")
	fmt.Println()
	fmt.Println("  # 同机双节点测试")
	fmt.Println("  mothra -port 9000 -data-dir ./data/a -topics /mothra/chat")
	fmt.Println("  mothra -port 9001 -data-dir ./data/b -topics /mothra/chat -boot-peers <节点A地址>")
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println("配置文件示例 (node.json)")
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println(`  {`)
	fmt.Println(`    "network": {`)
	fmt.Println(`      "listen_port": 9000`)
	fmt.Println(`    },`)
	fmt.Println(`    "gossip": {`)
	fmt.Println(`      "topics": ["/mothra/beacon_block"]`)
	fmt.Println(`    },`)
	fmt.Println(`    "discovery": {`)
	fmt.Println(`      "boot_peers": ["/ip4/10.0.0.5/tcp/9000/p2p/4XTTM..."]`)
	fmt.Println(`    },`)
	fmt.Println(`    "client": {`)
	fmt.Println(`      "name": "mothra",`)
	fmt.Println(`      "version": "0.3.0"`)
	fmt.Println(`    },`)
	fmt.Println(`    "storage": {`)
	fmt.Println(`      "data_dir": "./data"`)
	fmt.Println(`    }`)
	fmt.Println(`  }`)
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println("地址格式 (multiaddr)")
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("  /ip4/<IP>/tcp/<PORT>/p2p/<NodeID>        # TCP")
	fmt.Println("  /ip4/<IP>/tcp/<PORT>/ws/p2p/<NodeID>     # WebSocket")
	fmt.Println("  /dns4/<DOMAIN>/tcp/<PORT>/p2p/<NodeID>   # DNS")
}
