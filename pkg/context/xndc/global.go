package xndc

import (
	"sync"
	"sync/atomic"
)

// =============================================================================
// 进程默认 Registry
//
// NDC 的典型消费方（日志 Handler）没有注入点，因此提供进程级默认实例；
// 需要隔离回收策略或测试隔离时用 New 创建独立实例。
// =============================================================================

// globalRegistry 进程默认 Registry（并发安全）。
var globalRegistry atomic.Pointer[Registry]

// globalMu 保护 globalOnce 及其 Do 执行（也用于 ResetDefault）。
var globalMu sync.Mutex

// globalOnce 确保默认 Registry 只初始化一次。
var globalOnce sync.Once

// defaultRegistry 惰性创建默认 Registry。
//
// 设计决策: 与 xlog 的全局实例一致，在持锁状态下执行 once.Do，
// 确保 ResetDefault 重置 globalOnce 时不与 Do 并发（覆盖 sync.Once
// 内部状态会导致 fatal）。初始化后 Default 走 atomic.Load 快速路径。
func defaultRegistry() *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalOnce.Do(func() {
		globalRegistry.Store(New())
	})
	return globalRegistry.Load()
}

// Default 返回进程默认 Registry，首次调用时以默认选项惰性创建。
func Default() *Registry {
	if r := globalRegistry.Load(); r != nil {
		return r
	}
	return defaultRegistry()
}

// SetDefault 替换进程默认 Registry。nil 会被忽略。
// 用于需要自定义回收间隔或观测器的进程在启动时注入。
func SetDefault(r *Registry) {
	if r == nil {
		return
	}
	globalRegistry.Store(r)
}

// ResetDefault 重置默认 Registry 为未初始化状态（仅用于测试）。
func ResetDefault() {
	globalMu.Lock()
	globalRegistry.Store(nil)
	globalOnce = sync.Once{}
	globalMu.Unlock()
}

// =============================================================================
// 包级便利函数：操作默认 Registry 中调用方 goroutine 自己的栈
// =============================================================================

// Push 向调用方 goroutine 的栈压入一条上下文消息。
func Push(message string) { Default().Push(message) }

// PushLogString 与 [Push] 嵌套语义相同，消息视为已按日志输出编码。
func PushLogString(message string) { Default().PushLogString(message) }

// Pop 弹出并返回调用方栈顶消息，空栈返回空串。
func Pop() string { return Default().Pop() }

// Peek 返回调用方栈顶消息，不修改栈。
func Peek() string { return Default().Peek() }

// Clear 清空调用方的栈。
func Clear() { Default().Clear() }

// SetMaxDepth 将调用方栈裁剪到至多 n 帧。
func SetMaxDepth(n int) { Default().SetMaxDepth(n) }

// Depth 返回调用方栈的当前帧数。
func Depth() int { return Default().Depth() }

// Empty 报告调用方的栈是否为空。
func Empty() bool { return Default().Empty() }

// Get 将调用方的完整上下文串追加到 dst。
func Get(dst []byte) ([]byte, bool) { return Default().Get(dst) }

// Current 返回调用方的完整上下文串。
func Current() (string, bool) { return Default().Current() }

// Remove 删除调用方 goroutine 的条目。
func Remove() { Default().Remove() }

// CloneStack 返回调用方栈的深拷贝快照。
func CloneStack() Snapshot { return Default().CloneStack() }

// Inherit 用快照整体替换调用方的栈内容。
func Inherit(snap Snapshot) { Default().Inherit(snap) }

// Enter 压入 message 并返回作用域守卫。
func Enter(message string) *Scope { return Default().Enter(message) }

// Len 返回默认注册表中的条目数。
func Len() int { return Default().Len() }

// Reap 立即执行一次回收清扫，返回清除的条目数。
func Reap() int { return Default().Reap() }

// Reset 清空默认注册表的全部条目。
func Reset() { Default().Reset() }
