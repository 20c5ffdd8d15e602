// Package context 提供诊断上下文管理相关的子包。
//
// 子包列表：
//   - xndc: 每 goroutine 的嵌套诊断上下文（NDC），栈式管理与惰性回收
//
// 设计原则：
//   - 诊断上下文按 goroutine 隔离，互不干扰
//   - 跨 goroutine 传播通过显式快照（CloneStack/Inherit）完成
//   - 已退出 goroutine 的条目由注册表惰性回收，无需手动清理
package context
