package xconf

// Format 配置数据格式。
type Format string

// 管线配置支持的格式。
const (
	// FormatYAML YAML 格式（默认，推荐用于 K8s ConfigMap）。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Config 配置实例接口。
//
// 接口刻意保持最小：ndckit 的消费方（ndcsim 的模拟配置、管线测试）
// 只需要反序列化、热重载和来源信息三种能力。
type Config interface {
	// Unmarshal 将 path 子树反序列化到目标结构体。
	// path 为空字符串时反序列化整棵配置树。
	Unmarshal(path string, target any) error

	// Reload 重新读取并解析底层文件。
	// 解析成功前原有配置保持可用；并发调用安全。
	// 字节数据创建的实例返回 ErrNoBackingFile。
	Reload() error

	// Path 返回底层配置文件路径。
	// 字节数据创建的实例返回空字符串。
	Path() string

	// Format 返回配置数据格式。
	Format() Format
}
