package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce 连续变更的合并窗口。
// 编辑器保存往往产生多个事件（truncate + write、写临时文件后 rename），
// 窗口内只触发一次重载。
const defaultDebounce = 100 * time.Millisecond

// WatchCallback 配置变更回调。
// 每次变更触发 Reload 后调用；err 非 nil 表示重载失败，此时 cfg
// 仍持有上一次成功加载的数据。
type WatchCallback func(cfg Config, err error)

// WatchOption 监视器选项函数。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

// WithDebounce 设置变更合并窗口，默认 100ms。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		o.debounce = d
	}
}

// Watcher 配置文件监视器。
//
// 监视配置文件所在目录并在文件变更时自动 Reload。
// ndcsim 用它实现日志级别热更新：修改配置文件中的 level 字段后，
// 回调里解析新配置并调用 Leveler.SetLevel，无需重启进程。
type Watcher struct {
	cfg      *store
	filename string // 只响应此文件名的事件
	watcher  *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	running bool
	timer   *time.Timer // 防抖定时器，Stop 时需要取消
}

// Watch 为文件型配置创建监视器。
//
// 监视的是配置文件所在目录而非文件本身：vim/emacs 等编辑器采用
// 原子写入（写临时文件后 rename），直接监视文件会在第一次保存后
// 丢失后续事件。
//
// 字节数据创建的配置返回 ErrNoBackingFile。
// 返回的 Watcher 需调用 Start 或 StartAsync 开始监视，Stop 停止。
func Watch(cfg Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	s, ok := cfg.(*store)
	if !ok {
		return nil, fmt.Errorf("xconf: unsupported config implementation %T", cfg)
	}
	if s.path == "" {
		return nil, ErrNoBackingFile
	}

	options := &watchOptions{debounce: defaultDebounce}
	for _, opt := range opts {
		opt(options)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: failed to create watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := fsWatcher.Add(dir); err != nil {
		closeErr := fsWatcher.Close()
		return nil, errors.Join(
			fmt.Errorf("xconf: failed to watch directory %s: %w", dir, err),
			closeErr,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		cfg:      s,
		filename: filepath.Base(s.path),
		watcher:  fsWatcher,
		callback: callback,
		debounce: options.debounce,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start 启动监视。此方法阻塞，通常在 goroutine 中调用。
func (w *Watcher) Start() {
	if !w.markRunning() {
		return
	}
	w.run()
}

// StartAsync 在后台 goroutine 中启动监视，立即返回。
// running 标志在 goroutine 启动前设置，避免与 Stop 竞态。
func (w *Watcher) StartAsync() {
	if !w.markRunning() {
		return
	}
	go w.run()
}

// markRunning 设置运行标志；已在运行时返回 false。
func (w *Watcher) markRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return false
	}
	w.running = true
	return true
}

// Stop 停止监视。返回后保证不再有回调执行；重复调用无害。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	// 先掐掉防抖定时器，防止 Stop 返回后残留回调触发
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	w.cancel()
	w.running = false
	return w.watcher.Close()
}

// run 事件循环。
func (w *Watcher) run() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleError(err)
		}
	}
}

// handleEvent 过滤并防抖处理文件系统事件。
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// 目录级监视会收到同目录其他文件的事件，只响应目标配置文件
	if filepath.Base(event.Name) != w.filename {
		return
	}

	// Write: 就地修改；Create: 部分编辑器先删后建；
	// Rename: 原子写入（写临时文件后 rename 覆盖）
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		// 定时器触发与 Stop 可能竞争，取消后放弃本次重载
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		err := w.cfg.Reload()
		if w.callback != nil {
			w.callback(w.cfg, err)
		}
	})
}

// handleError 把底层 watcher 错误转交回调。
func (w *Watcher) handleError(err error) {
	if w.callback != nil {
		w.callback(w.cfg, fmt.Errorf("xconf: watch error: %w", err))
	}
}

// WatchConfig 带监视能力的配置接口。
// 文件型配置实现此接口；调用方可类型断言后直接 Watch。
type WatchConfig interface {
	Config

	// Watch 监视配置文件变更，变更时自动重载并调用 callback。
	Watch(callback WatchCallback, opts ...WatchOption) (*Watcher, error)
}

// Watch 实现 WatchConfig 接口。
func (s *store) Watch(callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	return Watch(s, callback, opts...)
}
