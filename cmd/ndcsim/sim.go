package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/ndckit/internal/simwork"
	"github.com/omeyang/ndckit/pkg/config/xconf"
	"github.com/omeyang/ndckit/pkg/context/xndc"
	"github.com/omeyang/ndckit/pkg/lifecycle/xrun"
	"github.com/omeyang/ndckit/pkg/observability/xlog"
	"github.com/omeyang/ndckit/pkg/observability/xmetrics"
)

// createRunCommand 创建 run 子命令。
func createRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "运行模拟负载",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径 (yaml/json)，支持运行时热更新日志级别",
			},
			&cli.IntFlag{
				Name:  "clients",
				Usage: "并发客户端数量",
			},
			&cli.IntFlag{
				Name:  "requests",
				Usage: "每个客户端的请求数",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "负载随机种子（相同种子产生相同负载）",
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "日志级别 (debug/info/warn/error)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "日志格式 (text/json)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件路径（启用轮转），为空输出到 stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, store, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runSimulation(ctx, cfg, store)
		},
	}
}

// runSimulation 执行一次完整的模拟：构建日志管道、启动并发客户端、
// 周期性输出注册表状态，并在信号或完成时优雅收尾。
func runSimulation(ctx context.Context, cfg simConfig, store xconf.Config) error {
	ctx, stop := signal.NotifyContext(ctx, xrun.DefaultSignals()...)
	defer stop()

	observer, err := xmetrics.NewOTelObserver()
	if err != nil {
		return fmt.Errorf("创建观测器失败: %w", err)
	}

	reg := xndc.New(
		xndc.WithReapInterval(cfg.ReapInterval),
		xndc.WithObserver(observer),
	)

	logger, cleanup, err := buildLogger(cfg, reg)
	if err != nil {
		return fmt.Errorf("构建日志器失败: %w", err)
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			fmt.Fprintf(os.Stderr, "日志清理失败: %v\n", cerr)
		}
	}()

	if store != nil {
		stopWatch, werr := watchLevel(store, logger)
		if werr != nil {
			logger.Warn(ctx, "config watch unavailable", xlog.Err(werr))
		} else {
			defer stopWatch()
		}
	}

	shape := simwork.Shape{
		Clients:  cfg.Clients,
		Requests: cfg.Requests,
		Seed:     uint64(cfg.Seed),
	}.Normalize()
	clients := simwork.Clients(shape)

	logger.Info(ctx, "simulation starting",
		xlog.Component("ndcsim"),
		xlog.Count(int64(shape.Clients)),
	)
	start := time.Now()

	g, gctx := xrun.NewGroup(ctx,
		xrun.WithName("ndcsim"),
		xrun.WithRegistry(reg),
	)

	statsInterval := cfg.StatsInterval
	if statsInterval <= 0 {
		statsInterval = defaultSimConfig().StatsInterval
	}

	// 周期性输出注册表状态，观察条目数量随 goroutine 生灭的变化
	g.Go(xrun.Ticker(statsInterval, false, func(ctx context.Context) error {
		logger.Debug(ctx, "registry stats",
			xlog.Component("ndcsim"),
			xlog.Count(int64(reg.Len())),
		)
		return nil
	}))

	// 工作负载在子 Group 中运行：全部客户端完成后取消外层 Group，
	// 让 Ticker 随之退出
	workers, _ := xrun.NewGroup(gctx,
		xrun.WithName("ndcsim-clients"),
		xrun.WithRegistry(reg),
	)
	for i, c := range clients {
		jitter := simwork.NewGenerator(shape.Seed + uint64(i) + 1)
		workers.GoWithName(fmt.Sprintf("client-%d", i),
			clientWorker(reg, logger, observer, c, jitter, cfg.MaxJitter))
	}
	g.Go(func(ctx context.Context) error {
		err := workers.Wait()
		g.Cancel(nil)
		return err
	})

	err = g.Wait()

	logger.Info(ctx, "simulation finished",
		xlog.Component("ndcsim"),
		xlog.Duration(time.Since(start)),
		xlog.Count(int64(reg.Len())),
	)
	return err
}

// buildLogger 按配置构建带诊断上下文注入的日志器。
func buildLogger(cfg simConfig, reg *xndc.Registry) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetLevelString(cfg.Level).
		SetFormat(cfg.Format).
		SetDiagnosticRegistry(reg)
	if cfg.LogFile != "" {
		b.SetRotation(cfg.LogFile)
	}
	return b.Build()
}

// watchLevel 监视配置文件变更，热更新日志级别。
// 返回的函数用于停止监视。
func watchLevel(store xconf.Config, logger xlog.LoggerWithLevel) (func(), error) {
	wc, ok := store.(xconf.WatchConfig)
	if !ok {
		return nil, fmt.Errorf("配置源不支持监视: %s", store.Path())
	}

	watcher, err := wc.Watch(func(c xconf.Config, err error) {
		ctx := context.Background()
		if err != nil {
			logger.Warn(ctx, "config reload failed", xlog.Err(err))
			return
		}
		var nc simConfig
		if err := c.Unmarshal("", &nc); err != nil {
			logger.Warn(ctx, "config parse failed", xlog.Err(err))
			return
		}
		level, err := xlog.ParseLevel(nc.Level)
		if err != nil {
			logger.Warn(ctx, "invalid log level in config", xlog.Err(err))
			return
		}
		logger.SetLevel(level)
		logger.Info(ctx, "log level updated",
			xlog.Component("ndcsim"),
		)
	})
	if err != nil {
		return nil, err
	}

	watcher.StartAsync()
	return func() { _ = watcher.Stop() }, nil
}

// clientWorker 返回一个客户端服务：压入 client=<ip> 帧后顺序发起请求。
func clientWorker(reg *xndc.Registry, logger xlog.Logger, observer xmetrics.Observer,
	client simwork.Client, jitter *simwork.Generator, maxJitter time.Duration,
) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		reg.Push("client=" + client.Addr)
		defer reg.Pop()

		logger.Info(ctx, "client connected", xlog.Client(client.Addr))

		for _, path := range client.Paths {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := handleRequest(ctx, reg, logger, observer, path, jitter.Jitter(maxJitter)); err != nil {
				return err
			}
		}

		logger.Info(ctx, "client finished",
			xlog.Client(client.Addr),
			xlog.Count(int64(len(client.Paths))),
		)
		return nil
	}
}

// handleRequest 模拟处理一次请求：request 帧由守卫管理，rid 帧手动配对。
func handleRequest(ctx context.Context, reg *xndc.Registry, logger xlog.Logger,
	observer xmetrics.Observer, path string, cost time.Duration,
) error {
	scope := reg.Enter("request=" + path)
	defer scope.Exit()

	rid := uuid.NewString()
	reg.Push("rid=" + rid)
	defer reg.Pop()

	ctx, span := xmetrics.Start(ctx, observer, xmetrics.SpanOptions{
		Component: "ndcsim",
		Operation: "handle_request",
		Kind:      xmetrics.KindServer,
		Attrs: []xmetrics.Attr{
			{Key: "path", Value: path},
		},
	})

	start := time.Now()
	logger.Info(ctx, "request received", xlog.Path(path), xlog.RequestID(rid))

	if cost > 0 {
		timer := time.NewTimer(cost)
		select {
		case <-ctx.Done():
			timer.Stop()
			span.End(xmetrics.Result{Err: ctx.Err()})
			return ctx.Err()
		case <-timer.C:
		}
	}

	logger.Info(ctx, "request completed",
		xlog.Path(path),
		xlog.RequestID(rid),
		xlog.Duration(time.Since(start)),
	)
	span.End(xmetrics.Result{Status: xmetrics.StatusOK})
	return nil
}
