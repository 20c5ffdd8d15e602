// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展
//   - xlayout: 日志布局转换器，消息与诊断上下文的格式化
//   - xmetrics: 统一可观测性接口（指标、追踪、日志）
//   - xrotate: 日志文件轮转
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 自动将每个 goroutine 的诊断上下文注入日志
//   - 支持动态级别控制和文件轮转策略
package observability
