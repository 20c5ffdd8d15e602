package xconf

import "errors"

// 配置加载相关的哨兵错误，均可通过 errors.Is 判别。
var (
	// ErrEmptyPath 配置文件路径为空。
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 无法识别的配置格式或文件扩展名。
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoadFailed 读取配置来源失败。
	ErrLoadFailed = errors.New("xconf: failed to load config")

	// ErrParseFailed 配置数据解析失败。
	ErrParseFailed = errors.New("xconf: failed to parse config")

	// ErrUnmarshalFailed 配置反序列化到目标结构体失败。
	ErrUnmarshalFailed = errors.New("xconf: failed to unmarshal config")

	// ErrNoBackingFile 实例没有底层文件，无法 Reload 或 Watch。
	// 由 NewFromBytes 创建的实例触发。
	ErrNoBackingFile = errors.New("xconf: config has no backing file")
)
