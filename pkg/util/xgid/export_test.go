package xgid

// SetReadStackForTest 替换底层的 runtime.Stack（仅用于测试异常格式路径）。
// 返回恢复函数，测试结束时必须调用。
func SetReadStackForTest(fn func(buf []byte, all bool) int) func() {
	old := readStack
	readStack = fn
	return func() { readStack = old }
}

// ParseHeader 导出内部解析函数供白盒测试与 fuzz 使用。
var ParseHeader = parseHeader

// ScanDump 导出内部扫描函数供白盒测试使用。
var ScanDump = scanDump
