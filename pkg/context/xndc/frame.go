package xndc

// Separator 是拼接祖先消息生成完整上下文串时使用的分隔符。
const Separator = " "

// Frame 是一条已入栈的上下文帧。
//
// FullMessage 在 Push 时一次性计算（父帧 FullMessage + [Separator] + Message，
// 无父帧时即 Message），此后不可变——即使祖先帧先被弹出，存活帧的
// FullMessage 也不会被改写。
type Frame struct {
	// Message 调用方提供的原始消息，按原样保存。
	Message string

	// FullMessage 自栈底到本帧的全部消息拼接。
	FullMessage string
}

// Snapshot 是某个栈在某一时刻的帧序列值拷贝。
//
// 由 [Registry.CloneStack] 产出、[Registry.Inherit] 消费。快照与任何
// 活栈不共享底层存储：捐赠方后续的变更或销毁不影响快照持有者。
type Snapshot struct {
	frames []Frame
}

// Depth 返回快照中的帧数。
func (s Snapshot) Depth() int {
	return len(s.frames)
}

// Frames 返回帧序列的拷贝，栈底在前。
func (s Snapshot) Frames() []Frame {
	out := make([]Frame, len(s.frames))
	copy(out, s.frames)
	return out
}
