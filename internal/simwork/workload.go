package simwork

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// 默认负载形状
const (
	DefaultClients  = 4
	DefaultRequests = 8
	DefaultSeed     = 1
)

// 生成上限，防止误配置的参数撑爆内存
const (
	maxClients  = 10000
	maxRequests = 100000
)

// pathSegments 请求路径的候选段。
// 组合生成两级路径，如 /api/orders。
var pathSegments = [...]string{
	"api", "admin", "assets", "auth", "billing",
	"index", "orders", "reports", "search", "users",
}

// Shape 描述一次模拟运行的形状。
type Shape struct {
	// Clients 并发客户端数量
	Clients int

	// Requests 每个客户端发起的请求数
	Requests int

	// Seed 随机种子，相同种子产生相同负载
	Seed uint64
}

// Normalize 返回填充了默认值并截断到上限的形状副本。
func (s Shape) Normalize() Shape {
	if s.Clients <= 0 {
		s.Clients = DefaultClients
	}
	if s.Requests <= 0 {
		s.Requests = DefaultRequests
	}
	if s.Seed == 0 {
		s.Seed = DefaultSeed
	}
	if s.Clients > maxClients {
		s.Clients = maxClients
	}
	if s.Requests > maxRequests {
		s.Requests = maxRequests
	}
	return s
}

// Client 一个模拟客户端：固定来源地址与请求路径序列。
type Client struct {
	// Addr 点分 IPv4 来源地址
	Addr string

	// Paths 请求路径序列，长度等于 Shape.Requests
	Paths []string
}

// Generator 确定性负载生成器。
//
// 非并发安全：每个 Generator 应只被一个 goroutine 使用。
type Generator struct {
	rng *rand.Rand
}

// NewGenerator 创建由种子完全决定的生成器。
func NewGenerator(seed uint64) *Generator {
	// 设计决策: 使用 PCG 而非全局随机源，保证同种子同序列，
	// 模拟结果可复现、测试可精确断言。
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Addr 生成一个点分 IPv4 地址，限定在 10.0.0.0/8 段内，
// 避免与真实公网地址混淆。
func (g *Generator) Addr() string {
	return fmt.Sprintf("10.%d.%d.%d",
		g.rng.IntN(256), g.rng.IntN(256), 1+g.rng.IntN(254))
}

// Path 生成一个两级请求路径，如 /api/orders。
func (g *Generator) Path() string {
	a := pathSegments[g.rng.IntN(len(pathSegments))]
	b := pathSegments[g.rng.IntN(len(pathSegments))]
	return "/" + a + "/" + b
}

// Jitter 返回 [0, max) 范围内的随机时长；max <= 0 时返回 0。
func (g *Generator) Jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(g.rng.Int64N(int64(max)))
}

// Clients 按形状生成全部客户端负载。
func Clients(shape Shape) []Client {
	shape = shape.Normalize()
	g := NewGenerator(shape.Seed)

	clients := make([]Client, shape.Clients)
	for i := range clients {
		paths := make([]string, shape.Requests)
		for j := range paths {
			paths[j] = g.Path()
		}
		clients[i] = Client{
			Addr:  g.Addr(),
			Paths: paths,
		}
	}
	return clients
}
