package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/mothra-net/go-mothra/config"
)

// ============================================================================
//                              环境变量覆盖（CLI 专用）
// ============================================================================

// envPrefix 所有环境变量的统一前缀
const envPrefix = "MOTHRA_"

const (
	envListenPort = "LISTEN_PORT"
	envTopics     = "TOPICS"
	envBootPeers  = "BOOT_PEERS"
	envDataDir    = "DATA_DIR"
	envLogLevel   = "LOG_LEVEL"
	envLogFile    = "LOG_FILE"
)

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
func applyEnvOverrides(cfg *config.Config) {
	// MOTHRA_LISTEN_PORT
	if v := os.Getenv(envPrefix + envListenPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port >= 0 && port <= 65535 {
			cfg.Network.ListenPort = port
			cfg.Network.ListenAddrs = nil
		}
	}

	// MOTHRA_TOPICS（逗号分隔）
	if v := os.Getenv(envPrefix + envTopics); v != "" {
		cfg.Gossip.Topics = splitAndTrim(v, ",")
	}

	// MOTHRA_BOOT_PEERS（逗号分隔）
	if v := os.Getenv(envPrefix + envBootPeers); v != "" {
		cfg.Discovery.BootPeers = splitAndTrim(v, ",")
	}

	// MOTHRA_DATA_DIR
	if v := os.Getenv(envPrefix + envDataDir); v != "" {
		cfg.Storage.DataDir = v
	}

	// MOTHRA_LOG_LEVEL
	if v := os.Getenv(envPrefix + envLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// getLogFileFromEnv 从环境变量获取日志文件路径
func getLogFileFromEnv() string {
	return os.Getenv(envPrefix + envLogFile)
}

// ============================================================================
//                              辅助函数
// ============================================================================

// splitAndTrim 分割字符串并去除空白
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
