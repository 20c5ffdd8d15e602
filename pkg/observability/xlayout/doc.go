// Package xlayout 提供日志模式转换器（pattern converter）。
//
// 转换器把日志事件的某个片段追加到输出缓冲区，是格式化管线中
// 最小的组合单元：
//   - MessageConverter: 追加事件的原始消息
//   - DiagnosticConverter: 追加事件的诊断上下文串（无上下文时不追加）
//
// 设计原则:
//   - Format 只追加、不返回错误：转换器是纯函数，失败语义不存在
//   - Event 是窄接口：转换器只依赖事件能提供的两个字符串片段，
//     与具体日志实现解耦
//   - 工厂函数接受 options 参数并忽略之，保持统一的构造签名，
//     便于按名称注册转换器表
//
// 使用示例:
//
//	conv := xlayout.NewMessageConverter(nil)
//	var buf []byte
//	conv.Format(xlayout.Record{Msg: "connection refused"}, &buf)
package xlayout
