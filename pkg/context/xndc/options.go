package xndc

import "github.com/omeyang/ndckit/pkg/observability/xmetrics"

// defaultReapInterval 是触发一次惰性回收清扫所需的注册表访问次数。
const defaultReapInterval = 64

// Option 配置 Registry 的选项函数。
type Option func(*options)

type options struct {
	reapInterval int
	observer     xmetrics.Observer
}

func defaultOptions() *options {
	return &options{
		reapInterval: defaultReapInterval,
	}
}

// WithReapInterval 设置每多少次注册表访问触发一次惰性回收清扫。
//
// 间隔越小回收越及时，但清扫需要全量 goroutine 枚举（短暂 stop-the-world），
// 过小的间隔会放大这部分开销。默认 64。
//
// 设计决策: n <= 0 归一化为默认值而非返回错误——本包遵循"无错误路径"
// 契约（与 Pop 空栈返回空串同理），New 不返回 error。
func WithReapInterval(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.reapInterval = n
		}
	}
}

// WithObserver 设置回收清扫的观测器。
//
// 每次清扫记录一个跨度，附带扫描与清除的条目数。仅观测，不参与回收决策；
// nil observer 等价于不观测（默认）。
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}
