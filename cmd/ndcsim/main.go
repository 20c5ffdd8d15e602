// ndcsim 是诊断上下文管道的模拟演示程序。
//
// 用法:
//
//	ndcsim [全局选项] <命令> [命令参数]
//
// 命令:
//
//	run            运行模拟负载
//	help           显示帮助信息
//
// run 命令说明:
//
//	模拟 N 个并发客户端，每个客户端发起 M 次请求。每个客户端 goroutine
//	压入 client=<ip> 诊断帧，每次请求再压入 request=<path> 与 rid=<uuid>
//	帧；所有日志行由 DiagnosticHandler 自动携带当前 goroutine 的完整
//	诊断上下文。
//
//	配置优先级：命令行参数 > 配置文件 > 内置默认值。
//	配置文件（--config）支持热更新：运行期间修改 level 字段可动态调整
//	日志级别，无需重启。
//
// 退出码:
//
//	0: 模拟正常完成（含信号触发的优雅关闭）
//	1: 运行失败
//	2: 参数错误（无效级别、无效格式等）
//
// 示例:
//
//	ndcsim run                                    # 默认形状（4 客户端 x 8 请求）
//	ndcsim run --clients 16 --requests 100        # 自定义负载形状
//	ndcsim run --format json --log-file sim.log   # JSON 格式写入轮转文件
//	ndcsim run --config sim.yaml                  # 从配置文件加载（可热更新）
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "ndcsim",
		Usage:   "诊断上下文管道模拟器",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Commands: []*cli.Command{
			createRunCommand(),
		},
		DefaultCommand: "help",
		Authors: []any{
			"NDCKit Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
		Description: `ndcsim 演示嵌套诊断上下文（NDC）在并发日志管道中的完整链路:
配置加载 → 日志构建 → 并发客户端模拟 → 诊断帧自动注入 → 优雅关闭。

每个客户端 goroutine 维护独立的诊断栈，日志输出中的 ndc 属性
只反映发起该日志的 goroutine 自身的上下文，互不串扰。`,
	}
}

func run() int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Run(ctx, os.Args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}
