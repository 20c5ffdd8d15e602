package xndc

import (
	"context"
	"sync"

	"github.com/omeyang/ndckit/pkg/observability/xmetrics"
	"github.com/omeyang/ndckit/pkg/util/xgid"
)

// currentGID 与 liveSet 是 xgid 的包级变量，支持测试中 mock。
var (
	currentGID = xgid.ID
	liveSet    = xgid.LiveSet
)

// Registry 是进程级的 goroutine → 上下文栈映射。
//
// 所有栈操作方法都作用于调用方 goroutine 自己的栈：先经注册表解析
// （不存在时按需惰性创建），再无锁操作已解析的栈。结构性修改
// （建条目、Remove、回收清扫）由单把互斥锁保护——栈本身单写者，
// 不需要分片或更细的锁。
//
// goroutine id 由运行时单调分配且永不复用，条目的 id 即其活性标记：
// 清扫时枚举存活 goroutine，id 不在其中的条目属于已退出的属主，直接清除。
type Registry struct {
	mu       sync.Mutex
	entries  map[uint64]*stack
	accesses int
	opts     *options
}

// New 创建一个空的 Registry。
//
// 多数场景直接使用包级函数（进程默认实例）即可；独立实例用于测试
// 或需要隔离回收策略的场景。New 没有失败路径，非法选项被归一化。
func New(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return &Registry{
		entries: make(map[uint64]*stack),
		opts:    o,
	}
}

// resolve 返回调用方 goroutine 的栈。
// create 为 true 时不存在则惰性创建；为 false 时不存在返回 nil。
// 每次解析计入访问计数，达到阈值时顺带执行一次回收清扫。
func (r *Registry) resolve(create bool) *stack {
	gid := currentGID()

	r.mu.Lock()
	s, ok := r.entries[gid]
	if !ok && create {
		s = &stack{}
		r.entries[gid] = s
	}
	scanned, purged, swept := r.maybeReapLocked()
	r.mu.Unlock()

	if swept {
		r.observeReap(scanned, purged)
	}
	return s
}

// maybeReapLocked 递增访问计数，达到阈值时执行清扫。调用方必须持有 mu。
func (r *Registry) maybeReapLocked() (scanned, purged int, swept bool) {
	r.accesses++
	if r.accesses < r.opts.reapInterval {
		return 0, 0, false
	}
	r.accesses = 0
	scanned, purged = r.reapLocked()
	return scanned, purged, true
}

// reapLocked 清除属主已退出的条目。调用方必须持有 mu。
//
// 存活枚举来自运行时的全量 stack dump（stop-the-world），存活 goroutine
// 必然出现在枚举中，因此绝不会误清存活者；调用方自身持锁执行，自己的
// 条目同样安全。
func (r *Registry) reapLocked() (scanned, purged int) {
	if len(r.entries) == 0 {
		return 0, 0
	}
	live := liveSet()
	for gid := range r.entries {
		scanned++
		if _, ok := live[gid]; !ok {
			delete(r.entries, gid)
			purged++
		}
	}
	return scanned, purged
}

// observeReap 记录一次清扫跨度。observer 未配置时为空操作。
func (r *Registry) observeReap(scanned, purged int) {
	if r.opts.observer == nil {
		return
	}
	_, span := xmetrics.Start(context.Background(), r.opts.observer, xmetrics.SpanOptions{
		Component: "xndc",
		Operation: "reap",
		Kind:      xmetrics.KindInternal,
		Attrs: []xmetrics.Attr{
			{Key: "scanned", Value: scanned},
		},
	})
	span.End(xmetrics.Result{
		Status: xmetrics.StatusOK,
		Attrs: []xmetrics.Attr{
			{Key: "purged", Value: purged},
		},
	})
}

// Push 向调用方 goroutine 的栈压入一条上下文消息。
// 任意字符串按原样接受；首次 Push 时惰性创建栈。
func (r *Registry) Push(message string) {
	r.resolve(true).push(message)
}

// PushLogString 与 [Registry.Push] 嵌套语义完全相同。
//
// 保留此入口是为了让调用方显式标注"消息已按日志输出编码"，
// 跳过 Push 入口可能引入的任何消息规整；当前两者都按原样入栈。
func (r *Registry) PushLogString(message string) {
	r.resolve(true).push(message)
}

// Pop 弹出并返回调用方栈顶消息。空栈（或从未 Push）返回空串，不是错误。
func (r *Registry) Pop() string {
	s := r.resolve(false)
	if s == nil {
		return ""
	}
	return s.pop()
}

// Peek 返回调用方栈顶消息，不修改栈。空栈返回空串。
func (r *Registry) Peek() string {
	s := r.resolve(false)
	if s == nil {
		return ""
	}
	return s.peek()
}

// Clear 清空调用方的栈。条目本身保留，与 [Registry.Remove] 不同。
func (r *Registry) Clear() {
	r.SetMaxDepth(0)
}

// SetMaxDepth 当调用方栈深超过 n 时弹出多余帧直到深度为 n；否则不动。
// Clear 即 SetMaxDepth(0)。
func (r *Registry) SetMaxDepth(n int) {
	s := r.resolve(false)
	if s == nil {
		return
	}
	s.setMaxDepth(n)
}

// Depth 返回调用方栈的当前帧数，从未 Push 时为 0。
func (r *Registry) Depth() int {
	s := r.resolve(false)
	if s == nil {
		return 0
	}
	return s.depth()
}

// Empty 报告调用方的栈是否为空。
func (r *Registry) Empty() bool {
	return r.Depth() == 0
}

// Get 将调用方栈顶帧的完整上下文串追加到 dst 并返回 (dst, true)。
// 空栈时不修改 dst，返回 (dst, false)。
func (r *Registry) Get(dst []byte) ([]byte, bool) {
	s := r.resolve(false)
	if s == nil {
		return dst, false
	}
	return s.get(dst)
}

// Current 返回调用方的完整上下文串。空栈返回 ("", false)。
func (r *Registry) Current() (string, bool) {
	s := r.resolve(false)
	if s == nil {
		return "", false
	}
	n := len(s.frames)
	if n == 0 {
		return "", false
	}
	return s.frames[n-1].FullMessage, true
}

// Remove 删除调用方 goroutine 的条目（栈与全部帧）。
//
// 属主应在退出前调用；遗漏不是硬错误，条目会被惰性回收。
// Remove 之后再次 Push 会从全新的栈开始（深度 1，无残留）。
func (r *Registry) Remove() {
	gid := currentGID()

	r.mu.Lock()
	delete(r.entries, gid)
	scanned, purged, swept := r.maybeReapLocked()
	r.mu.Unlock()

	if swept {
		r.observeReap(scanned, purged)
	}
}

// CloneStack 返回调用方栈的深拷贝快照，可安全交给其他 goroutine。
func (r *Registry) CloneStack() Snapshot {
	s := r.resolve(false)
	if s == nil {
		return Snapshot{}
	}
	return s.clone()
}

// Inherit 用快照的深拷贝整体替换调用方的栈内容。
//
// 继承后与捐赠方不共享任何帧：捐赠方后续的 Pop/Remove 不影响继承方。
func (r *Registry) Inherit(snap Snapshot) {
	r.resolve(true).inherit(snap)
}

// Len 返回当前注册表中的条目数（含尚未回收的已退出属主），用于监控与测试。
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reap 立即执行一次回收清扫，返回清除的条目数。
//
// 清扫在注册表访问达到阈值时自动发生（见 [WithReapInterval]），
// 显式调用用于测试或进程关闭前的主动清理。
func (r *Registry) Reap() int {
	r.mu.Lock()
	scanned, purged := r.reapLocked()
	r.accesses = 0
	r.mu.Unlock()

	r.observeReap(scanned, purged)
	return purged
}

// Reset 清空注册表全部条目，回到"无条目残留"的终态。
// 用于进程关闭或测试隔离；对其他 goroutine 正在使用的栈没有同步通知。
func (r *Registry) Reset() {
	r.mu.Lock()
	r.entries = make(map[uint64]*stack)
	r.accesses = 0
	r.mu.Unlock()
}
