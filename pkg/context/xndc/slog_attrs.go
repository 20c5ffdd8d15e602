package xndc

import "log/slog"

// KeyNDC 是完整上下文串在日志记录中的属性名。
const KeyNDC = "ndc"

// AppendLogAttrs 将调用方 goroutine 的完整上下文串以 [KeyNDC] 属性
// 追加到现有切片。栈为空时不追加。
// 零分配热路径优化：传入预分配的切片，与 xlog 的 Handler 装饰器配合使用。
func (r *Registry) AppendLogAttrs(attrs []slog.Attr) []slog.Attr {
	if full, ok := r.Current(); ok {
		attrs = append(attrs, slog.String(KeyNDC, full))
	}
	return attrs
}

// AppendLogAttrs 基于默认 Registry 追加调用方的上下文属性。
func AppendLogAttrs(attrs []slog.Attr) []slog.Attr {
	return Default().AppendLogAttrs(attrs)
}

// LogAttrs 返回调用方上下文的 slog.Attr 切片；栈为空时返回 nil。
// 注意：每次调用会分配新切片。热路径建议使用 [AppendLogAttrs]。
func LogAttrs() []slog.Attr {
	attrs := AppendLogAttrs(make([]slog.Attr, 0, 1))
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
