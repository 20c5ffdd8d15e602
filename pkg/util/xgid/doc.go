// Package xgid 提供 goroutine 身份与存活探测。
//
// # 核心功能
//
//   - [ID]: 当前 goroutine 的 id（解析 runtime.Stack 头部）
//   - [Live] / [LiveSet]: 枚举进程内所有存活 goroutine 的 id
//
// # 适用场景
//
// Go 运行时刻意不暴露 goroutine id，常规业务代码也不应依赖它。
// xgid 面向的是必须以 goroutine 为 key 管理状态的基础设施场景
// （如 xndc 的按 goroutine 诊断上下文注册表）：id 由运行时单调分配、
// 永不复用，因此既是稳定的身份令牌，也可通过存活枚举充当活性标记。
//
// # 性能说明
//
// ID 每次调用执行一次单 goroutine 的 runtime.Stack（约百纳秒级），
// 缓冲区通过 sync.Pool 复用。Live/LiveSet 执行全量 stack dump，
// 会短暂 stop-the-world，只应在低频路径（如惰性回收扫描）使用。
package xgid
