// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xgid: goroutine ID 解析与存活探测，基于 runtime.Stack
//
// 设计原则：
//   - 解析逻辑不依赖 unsafe 或运行时内部结构
//   - 热路径缓冲区复用，避免重复分配
package util
