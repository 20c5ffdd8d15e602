package xgid

import (
	"bytes"
	"runtime"
	"sync"
)

// goroutinePrefix 是 runtime.Stack 输出中每个 goroutine 段的头部前缀。
// 完整头部形如 "goroutine 123 [running]:"。
var goroutinePrefix = []byte("goroutine ")

const (
	// headerBufSize 单 goroutine 头部所需的缓冲区大小。
	// 头部不超过 64 字节（"goroutine " + 十进制 id + " [state]:"）。
	headerBufSize = 64

	// initialDumpSize 全量 dump 的初始缓冲区大小。
	initialDumpSize = 64 * 1024
)

// readStack 是 runtime.Stack 的包级变量，支持测试中 mock。
//
// 设计决策: 使用包级变量 mock 是本项目小型叶子包的惯用测试模式
// （与 xproc 风格一致），避免为两个导出函数引入依赖注入。
var readStack = runtime.Stack

// headerPool 复用单 goroutine 头部解析的小缓冲区。
var headerPool = sync.Pool{
	New: func() any {
		buf := make([]byte, headerBufSize)
		return &buf
	},
}

// ID 返回当前 goroutine 的 id。
//
// id 由运行时单调分配且永不复用，可作为 goroutine 的稳定身份令牌。
// 解析失败（运行时改变头部格式）时返回 0；0 不是合法的 goroutine id，
// 调用方可据此判断。
func ID() uint64 {
	bufp, ok := headerPool.Get().(*[]byte)
	if !ok {
		buf := make([]byte, headerBufSize)
		bufp = &buf
	}
	defer headerPool.Put(bufp)

	n := readStack(*bufp, false)
	id, _ := parseHeader((*bufp)[:n])
	return id
}

// Live 返回当前所有存活 goroutine 的 id 列表。
//
// 通过全量 stack dump 枚举，dump 期间运行时会短暂 stop-the-world，
// 因此正在运行或阻塞的 goroutine 必然出现在结果中。顺序未定义。
func Live() []uint64 {
	return scanDump(dumpAll())
}

// LiveSet 返回当前所有存活 goroutine 的 id 集合。
// 语义与 [Live] 相同，适用于需要 O(1) 成员判断的调用方（如注册表回收扫描）。
func LiveSet() map[uint64]struct{} {
	ids := Live()
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// dumpAll 获取全量 goroutine dump，缓冲区不足时翻倍重试直到完整容纳。
//
// runtime.Stack(buf, true) 在 n == len(buf) 时说明输出可能被截断，
// 截断的 dump 会丢失 goroutine 段，导致存活枚举出现假阴性，必须重试。
func dumpAll() []byte {
	buf := make([]byte, initialDumpSize)
	for {
		n := readStack(buf, true)
		if n < len(buf) {
			return buf[:n]
		}
		buf = make([]byte, len(buf)*2)
	}
}

// scanDump 从完整 dump 中提取所有 goroutine 头部的 id。
func scanDump(dump []byte) []uint64 {
	var ids []uint64
	for len(dump) > 0 {
		line := dump
		if i := bytes.IndexByte(dump, '\n'); i >= 0 {
			line = dump[:i]
			dump = dump[i+1:]
		} else {
			dump = nil
		}
		if id, ok := parseHeader(line); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseHeader 解析 "goroutine N [state]:" 头部，返回 N。
// 非头部行或格式异常时返回 (0, false)。
func parseHeader(line []byte) (uint64, bool) {
	if !bytes.HasPrefix(line, goroutinePrefix) {
		return 0, false
	}
	rest := line[len(goroutinePrefix):]

	var id uint64
	var digits int
	for _, c := range rest {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
		digits++
	}
	if digits == 0 || digits < len(rest) && rest[digits] != ' ' {
		return 0, false
	}
	return id, true
}
