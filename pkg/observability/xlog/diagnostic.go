package xlog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/omeyang/ndckit/pkg/context/xndc"
)

// ErrNilHandler 当 NewDiagnosticHandler 的 base handler 为 nil 时返回
var ErrNilHandler = errors.New("xlog: base handler is nil")

// DiagnosticHandler 自动把调用方 goroutine 的诊断上下文串注入日志
//
// 装饰模式实现，包装底层 slog.Handler，在 Handle() 时读取当前 goroutine
// 的诊断上下文栈，把完整上下文串以 ndc 属性添加到记录。
//
// Best-effort 策略：goroutine 没有诊断上下文时不添加任何属性，
// 日志记录照常输出。
type DiagnosticHandler struct {
	base slog.Handler
	reg  *xndc.Registry
}

// NewDiagnosticHandler 创建 DiagnosticHandler
//
// reg 为 nil 时使用 xndc 的全局默认 Registry——每条日志在 Handle 时
// 动态解析，SetDefault/ResetDefault 的变更会即时生效。
//
// 设计决策: 调用 WithGroup 后，ndc 属性会被归入 group 下。
// 这是 slog handler 架构的固有限制——group 作用于 handler 处理的所有属性。
// 保持 ndc 字段始终在顶层需要重写 handler 的 group 管理（复杂度高、易出错），
// 且多数场景不会对 logger 调用 WithGroup。如需顶层 ndc 字段，避免对带诊断
// 注入的 logger 调用 WithGroup。
func NewDiagnosticHandler(base slog.Handler, reg *xndc.Registry) (*DiagnosticHandler, error) {
	if base == nil {
		return nil, ErrNilHandler
	}
	return &DiagnosticHandler{base: base, reg: reg}, nil
}

// Enabled 委托给底层 handler
func (h *DiagnosticHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// maxDiagnosticAttrs 最大注入属性数量（完整上下文串 1 个）
const maxDiagnosticAttrs = 1

// Handle 在调用底层 handler 前，读取调用方 goroutine 的诊断上下文
//
// 重要：根据 slog 契约，必须 Clone record 后再修改，避免影响其他 handler。
// 注入依赖 Handle 与日志调用发生在同一 goroutine——slog.Logger 的同步
// 调用链保证这一点；异步 handler 需在投递前完成注入。
//
// 性能优化：使用栈数组 [maxDiagnosticAttrs]slog.Attr 避免热路径堆分配
func (h *DiagnosticHandler) Handle(ctx context.Context, r slog.Record) error {
	reg := h.reg
	if reg == nil {
		reg = xndc.Default()
	}

	// 使用栈数组避免堆分配
	var buf [maxDiagnosticAttrs]slog.Attr
	attrs := reg.AppendLogAttrs(buf[:0])

	// 如果有属性需要添加，必须 Clone record
	if len(attrs) > 0 {
		// Clone record 后再修改，符合 slog 契约
		r = r.Clone()
		r.AddAttrs(attrs...)
	}

	return h.base.Handle(ctx, r)
}

// WithAttrs 返回带额外属性的新 handler
func (h *DiagnosticHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &DiagnosticHandler{
		base: h.base.WithAttrs(attrs),
		reg:  h.reg,
	}
}

// WithGroup 返回带分组的新 handler
func (h *DiagnosticHandler) WithGroup(name string) slog.Handler {
	return &DiagnosticHandler{
		base: h.base.WithGroup(name),
		reg:  h.reg,
	}
}
