// Package xndc 提供按 goroutine 隔离的嵌套诊断上下文（NDC）。
//
// # 核心功能
//
//   - 每个 goroutine 独立的 LIFO 上下文帧栈（Push/Pop/Peek/Clear/Depth）
//   - Get/Current 返回自底向上拼接的完整上下文串，供日志管道打点
//   - Enter/Exit 作用域守卫：进入时 Push，任意退出路径恰好 Pop 一次
//   - CloneStack/Inherit 深拷贝快照，跨 goroutine 传递上下文无别名
//   - 注册表惰性回收：未显式 Remove 的已退出 goroutine 条目最终被清理
//
// # 并发模型
//
// 注册表 map 是唯一的跨 goroutine 共享可变状态，结构性修改（建条目、
// Remove、回收清扫）由单把互斥锁保护。解析到自己的栈之后，所有栈操作
// 都只由属主 goroutine 执行，无锁。跨 goroutine 只能通过 [Snapshot]
// 值拷贝读取，绝不共享活引用。
//
// # 生命周期
//
// 栈在 goroutine 首次 Push 时惰性创建。属主应在退出前调用 [Remove]；
// 忘记调用不是硬错误——条目会在后续注册表活动触发的惰性清扫中被回收
// （通过存活 goroutine 枚举判定，绝不清除存活者，也绝不依赖定时器）。
//
// # 错误语义
//
// 本包没有任何错误路径：空栈上的 Pop/Peek 返回空串，Get 返回 false，
// Depth 返回 0。多余的 Pop 不被检测，属于调用方契约。
//
// # 典型用法
//
//	func handle(conn net.Conn) {
//	    defer xndc.Remove()
//
//	    scope := xndc.Enter("client=" + conn.RemoteAddr().String())
//	    defer scope.Exit()
//
//	    // 此后该 goroutine 的所有日志都带上 "client=..." 上下文
//	}
package xndc
