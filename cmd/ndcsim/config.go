package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/ndckit/pkg/config/xconf"
	"github.com/omeyang/ndckit/pkg/observability/xlog"
)

// usageError 表示参数错误，run() 将其映射为退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// simConfig 模拟运行配置。
//
// 字段与配置文件的顶层键一一对应，命令行参数覆盖文件取值。
type simConfig struct {
	// Clients 并发客户端数量
	Clients int `koanf:"clients"`

	// Requests 每个客户端的请求数
	Requests int `koanf:"requests"`

	// Seed 负载随机种子，相同种子产生相同负载
	Seed int `koanf:"seed"`

	// Level 日志级别 (debug/info/warn/error)
	Level string `koanf:"level"`

	// Format 日志格式 (text/json)
	Format string `koanf:"format"`

	// LogFile 日志文件路径，为空时输出到 stdout
	LogFile string `koanf:"log_file"`

	// ReapInterval 诊断注册表的回收扫描间隔（访问次数）
	ReapInterval int `koanf:"reap_interval"`

	// StatsInterval 注册表状态日志的输出间隔
	StatsInterval time.Duration `koanf:"stats_interval"`

	// MaxJitter 单次请求的最大模拟耗时
	MaxJitter time.Duration `koanf:"max_jitter"`
}

// defaultSimConfig 返回内置默认配置。
func defaultSimConfig() simConfig {
	return simConfig{
		Level:         "info",
		Format:        "text",
		StatsInterval: time.Second,
		MaxJitter:     5 * time.Millisecond,
	}
}

// loadConfig 按"默认值 < 配置文件 < 命令行参数"的优先级合并配置。
//
// 返回的 xconf.Config 在指定了 --config 时非 nil，供调用方注册热更新。
func loadConfig(cmd *cli.Command) (simConfig, xconf.Config, error) {
	cfg := defaultSimConfig()

	var store xconf.Config
	if path := cmd.String("config"); path != "" {
		c, err := xconf.New(path)
		if err != nil {
			return cfg, nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		if err := c.Unmarshal("", &cfg); err != nil {
			return cfg, nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
		store = c
	}

	applyFlags(cmd, &cfg)

	if err := validateConfig(cfg); err != nil {
		return cfg, nil, err
	}
	return cfg, store, nil
}

// applyFlags 将显式设置的命令行参数覆盖到配置。
func applyFlags(cmd *cli.Command, cfg *simConfig) {
	if cmd.IsSet("clients") {
		cfg.Clients = cmd.Int("clients")
	}
	if cmd.IsSet("requests") {
		cfg.Requests = cmd.Int("requests")
	}
	if cmd.IsSet("seed") {
		cfg.Seed = cmd.Int("seed")
	}
	if cmd.IsSet("level") {
		cfg.Level = cmd.String("level")
	}
	if cmd.IsSet("format") {
		cfg.Format = cmd.String("format")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
}

// validateConfig 校验用户可见的配置取值，失败返回 usageError。
func validateConfig(cfg simConfig) error {
	if _, err := xlog.ParseLevel(cfg.Level); err != nil {
		return &usageError{msg: fmt.Sprintf("无效日志级别 %q", cfg.Level)}
	}
	if cfg.Format != "" && cfg.Format != "text" && cfg.Format != "json" {
		return &usageError{msg: fmt.Sprintf("无效日志格式 %q（支持 text/json）", cfg.Format)}
	}
	if cfg.Seed < 0 {
		return &usageError{msg: "seed 不能为负数"}
	}
	return nil
}
