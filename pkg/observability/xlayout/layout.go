package xlayout

// Event 日志事件的窄接口
//
// 转换器只读取事件的片段，不修改事件本身。
type Event interface {
	// Message 返回事件的原始消息
	Message() string

	// Diagnostic 返回事件所属 goroutine 的诊断上下文串
	// 无上下文时返回空字符串
	Diagnostic() string
}

// Converter 模式转换器接口
//
// Format 把事件的某个片段追加到 dst，只追加、不返回错误。
// 实现必须是纯函数：相同输入产生相同追加内容，无副作用。
type Converter interface {
	Format(ev Event, dst *[]byte)
}

// Record 实现 Event 的值适配器
//
// 用于管线调用点和测试：从两个字符串片段构造事件，零开销。
type Record struct {
	// Msg 原始消息
	Msg string

	// Diag 诊断上下文串，无上下文时为空
	Diag string
}

// Message 实现 Event 接口
func (r Record) Message() string { return r.Msg }

// Diagnostic 实现 Event 接口
func (r Record) Diagnostic() string { return r.Diag }

// messageConverter 追加事件原始消息的转换器
type messageConverter struct{}

// Format 实现 Converter 接口
func (messageConverter) Format(ev Event, dst *[]byte) {
	*dst = append(*dst, ev.Message()...)
}

// diagnosticConverter 追加诊断上下文串的转换器
type diagnosticConverter struct{}

// Format 实现 Converter 接口
//
// 事件无诊断上下文（空串）时不追加任何内容。
func (diagnosticConverter) Format(ev Event, dst *[]byte) {
	if d := ev.Diagnostic(); d != "" {
		*dst = append(*dst, d...)
	}
}

// NewMessageConverter 创建消息转换器
//
// 设计决策: options 参数被接受但忽略——所有转换器工厂共享统一签名
// func([]string) Converter，使调用方能按名称构建转换器注册表而无需
// 区分各工厂的参数形态。消息转换器本身无可配置项。
func NewMessageConverter(options []string) Converter {
	_ = options
	return messageConverter{}
}

// NewDiagnosticConverter 创建诊断上下文转换器
//
// options 同 [NewMessageConverter]，接受但忽略。
func NewDiagnosticConverter(options []string) Converter {
	_ = options
	return diagnosticConverter{}
}

// 编译时接口检查
var (
	_ Event     = Record{}
	_ Converter = messageConverter{}
	_ Converter = diagnosticConverter{}
)
