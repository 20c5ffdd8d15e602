package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// store 是 Config 的 koanf 实现。
//
// 读路径（Unmarshal）持读锁取当前 koanf 实例；Reload 在锁外完成
// 读文件和解析，成功后才持写锁替换实例。失败的 Reload 不影响读方。
type store struct {
	mu     sync.RWMutex
	k      *koanf.Koanf
	path   string // 空串表示字节数据创建，无法 Reload/Watch
	format Format
	opts   *Options
}

// New 从文件创建配置实例，按扩展名识别格式（.yaml/.yml/.json）。
//
// 典型用法是加载 ndcsim 的管线配置：
//
//	cfg, err := xconf.New("/etc/ndcsim/sim.yaml")
func New(path string, opts ...Option) (Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	k, err := parseFile(path, format, options.Delim)
	if err != nil {
		return nil, err
	}

	return &store{
		k:      k,
		path:   path,
		format: format,
		opts:   options,
	}, nil
}

// NewFromBytes 从字节数据创建配置实例，格式需显式指定。
//
// 适用于 K8s ConfigMap 注入和测试内联配置。空数据创建空配置，
// Unmarshal 得到目标结构体的零值；该实例不支持 Reload 和 Watch。
func NewFromBytes(data []byte, format Format, opts ...Option) (Config, error) {
	if format != FormatYAML && format != FormatJSON {
		return nil, ErrUnsupportedFormat
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	k := koanf.New(options.Delim)
	if len(data) > 0 {
		if err := loadInto(k, data, format); err != nil {
			return nil, err
		}
	}

	return &store{
		k:      k,
		format: format,
		opts:   options,
	}, nil
}

// Unmarshal 实现 Config 接口。
func (s *store) Unmarshal(path string, target any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	err := s.k.UnmarshalWithConf(path, target, koanf.UnmarshalConf{
		Tag: s.opts.Tag,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

// Reload 实现 Config 接口。
//
// 解析在锁外进行；旧实例在新数据完整解析成功之前持续服务读方，
// 因此热更新期间的并发 Unmarshal 要么读到完整的旧配置、要么读到
// 完整的新配置，不会观察到中间状态。
func (s *store) Reload() error {
	if s.path == "" {
		return ErrNoBackingFile
	}

	k, err := parseFile(s.path, s.format, s.opts.Delim)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.k = k
	s.mu.Unlock()
	return nil
}

// Path 实现 Config 接口。
func (s *store) Path() string {
	return s.path
}

// Format 实现 Config 接口。
func (s *store) Format() Format {
	return s.format
}

// formatForPath 按文件扩展名识别格式。
func formatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// parseFile 读取并解析文件，返回新的 koanf 实例。
func parseFile(path string, format Format, delim string) (*koanf.Koanf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	k := koanf.New(delim)
	if err := loadInto(k, data, format); err != nil {
		return nil, err
	}
	return k, nil
}

// loadInto 把字节数据按格式解析进 koanf 实例。
func loadInto(k *koanf.Koanf, data []byte, format Format) error {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return ErrUnsupportedFormat
	}

	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}

// 编译时接口检查
var (
	_ Config      = (*store)(nil)
	_ WatchConfig = (*store)(nil)
)
