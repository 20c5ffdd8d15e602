package xndc

import "sync/atomic"

// Scope 是一次 Push 的作用域守卫。
//
// 由 [Registry.Enter] 构造（构造即 Push），[Scope.Exit] 在作用域的任意
// 退出路径上恰好 Pop 一次。Exit 幂等：第二次及后续调用为空操作。
//
// 守卫绑定创建它的 Registry 和 goroutine。从其他 goroutine 调用 Exit
// 属于文档化误用：为避免弹掉别人的栈帧，这种调用直接空操作，
// 守卫保持未消费状态，属主仍可正常 Exit。
type Scope struct {
	reg  *Registry
	gid  uint64
	done atomic.Bool
}

// Enter 压入 message 并返回作用域守卫。
//
//	scope := reg.Enter("request=/index")
//	defer scope.Exit()
func (r *Registry) Enter(message string) *Scope {
	r.Push(message)
	return &Scope{reg: r, gid: currentGID()}
}

// Exit 弹出 Enter 时压入的帧。幂等；非属主 goroutine 调用时空操作。
func (s *Scope) Exit() {
	if s == nil || s.reg == nil {
		return
	}
	if currentGID() != s.gid {
		return
	}
	if !s.done.CompareAndSwap(false, true) {
		return
	}
	s.reg.Pop()
}
