// Package xconf 提供诊断日志管线的配置加载，基于 koanf 实现。
//
// # 定位
//
// xconf 是 ndckit 管线的配置入口：cmd/ndcsim 用它加载模拟负载与日志
// 配置（级别、格式、轮转文件、回收间隔），并通过文件监视实现日志级别
// 的热更新。包本身只负责加载、反序列化与热重载；必选字段校验和默认值
// 注入由调用方（如 ndcsim 的配置合并逻辑）完成。
//
// 两种来源：
//   - New：从文件加载，按扩展名识别格式，支持 Reload 与 Watch
//   - NewFromBytes：从字节数据加载（K8s ConfigMap、测试内联配置），
//     需显式指定格式，不支持重载与监视
//
// # 支持的格式
//
//   - YAML（默认，推荐）：.yaml, .yml
//   - JSON：.json
//
// # 并发安全
//
// 所有方法都是并发安全的。Reload 解析成功后才在锁内替换内部实例，
// 解析失败时原有配置保持可用（不会读到半新半旧的数据）。
// Unmarshal 在读锁下取当前实例，与 Reload 并发调用安全。
//
// # 配置监视
//
// Watch 基于 fsnotify 监视配置文件所在目录（而非文件本身，编辑器
// 原子写入会先删后建），内置防抖合并连续变更。变更触发 Reload 后
// 以新旧状态回调通知调用方。Stop 保证返回后不再有回调执行，
// 在回调中调用 Stop 不会死锁。
package xconf
