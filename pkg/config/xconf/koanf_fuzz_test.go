package xconf

import (
	"testing"
)

// FuzzNewFromBytes 任意输入都不得 panic：
// 解析失败返回错误，解析成功后 Unmarshal 也必须安全。
func FuzzNewFromBytes(f *testing.F) {
	f.Add([]byte("level: info\nformat: json\n"), true)
	f.Add([]byte(`{"level":"debug","reap_interval":64}`), false)
	f.Add([]byte("sim:\n  clients: 4\n  requests: 8\n"), true)
	f.Add([]byte("level: [unclosed"), true)
	f.Add([]byte("{"), false)
	f.Add([]byte{}, true)

	f.Fuzz(func(t *testing.T, data []byte, asYAML bool) {
		format := FormatJSON
		if asYAML {
			format = FormatYAML
		}

		cfg, err := NewFromBytes(data, format)
		if err != nil {
			return
		}

		var pc pipelineConfig
		_ = cfg.Unmarshal("", &pc)

		var out map[string]any
		_ = cfg.Unmarshal("", &out)
	})
}
