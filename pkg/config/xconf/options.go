package xconf

// Options 配置加载选项。
type Options struct {
	// Delim 嵌套键的路径分隔符，默认 "."。
	// 例如 "sim.clients" 定位 sim 节下的 clients 键。
	Delim string

	// Tag Unmarshal 使用的结构体标签名，默认 "koanf"。
	Tag string
}

// Option 选项函数。
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Delim: ".",
		Tag:   "koanf",
	}
}

// WithDelim 设置嵌套键的路径分隔符。
func WithDelim(delim string) Option {
	return func(o *Options) {
		o.Delim = delim
	}
}

// WithTag 设置 Unmarshal 使用的结构体标签名。
// 复用已带 json 标签的结构体时可设为 "json"。
func WithTag(tag string) Option {
	return func(o *Options) {
		o.Tag = tag
	}
}
