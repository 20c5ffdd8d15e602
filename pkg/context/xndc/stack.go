package xndc

// stack 是单个 goroutine 独占的上下文帧序列，栈底在前。
//
// 帧以追加式切片而非父指针链表示，因此 clone 是一次纯值拷贝，
// 不存在跨栈别名或悬挂引用。所有方法只由属主 goroutine 调用，无锁。
type stack struct {
	frames []Frame
}

// push 追加一帧，FullMessage 基于当前栈顶一次性计算。
func (s *stack) push(message string) {
	full := message
	if n := len(s.frames); n > 0 {
		full = s.frames[n-1].FullMessage + Separator + message
	}
	s.frames = append(s.frames, Frame{Message: message, FullMessage: full})
}

// pop 弹出并返回栈顶消息，空栈返回空串。
func (s *stack) pop() string {
	n := len(s.frames)
	if n == 0 {
		return ""
	}
	msg := s.frames[n-1].Message
	// 清零后再缩短，让被弹出帧的字符串尽早可回收。
	s.frames[n-1] = Frame{}
	s.frames = s.frames[:n-1]
	return msg
}

// peek 返回栈顶消息，不修改栈，空栈返回空串。
func (s *stack) peek() string {
	if n := len(s.frames); n > 0 {
		return s.frames[n-1].Message
	}
	return ""
}

// depth 返回当前帧数。
func (s *stack) depth() int {
	return len(s.frames)
}

// get 将栈顶帧的 FullMessage 追加到 dst。空栈时不修改 dst 并返回 false。
func (s *stack) get(dst []byte) ([]byte, bool) {
	n := len(s.frames)
	if n == 0 {
		return dst, false
	}
	return append(dst, s.frames[n-1].FullMessage...), true
}

// setMaxDepth 当前深度超过 n 时弹出多余帧直到深度为 n，否则不动。
func (s *stack) setMaxDepth(n int) {
	if n < 0 {
		n = 0
	}
	for len(s.frames) > n {
		s.pop()
	}
}

// clone 返回帧序列的值拷贝。
func (s *stack) clone() Snapshot {
	frames := make([]Frame, len(s.frames))
	copy(frames, s.frames)
	return Snapshot{frames: frames}
}

// inherit 用快照的值拷贝整体替换当前内容。
func (s *stack) inherit(snap Snapshot) {
	frames := make([]Frame, len(snap.frames))
	copy(frames, snap.frames)
	s.frames = frames
}
