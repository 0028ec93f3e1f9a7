package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader reads a YAML config file and watches it for changes.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *ServiceConfig
	onChange []func(*ServiceConfig)
	onError  func(error)
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Config returns the current (latest) configuration.
func (l *Loader) Config() *ServiceConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the config reloads.
func (l *Loader) OnChange(fn func(*ServiceConfig)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// OnError registers a callback for reload and watcher failures. The
// previous config stays active when a reload fails.
func (l *Loader) OnError(fn func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = fn
}

// Watch starts a background goroutine that hot-reloads the config on file changes.
// Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", l.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					if _, err := l.Reload(); err != nil {
						l.reportError(err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.reportError(fmt.Errorf("config watcher: %w", err))
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

// Reload forces an immediate re-read of the config file. An invalid file
// is rejected and the current config kept.
func (l *Loader) Reload() (*ServiceConfig, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.current = cfg
	callbacks := make([]func(*ServiceConfig), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
	return cfg, nil
}

func (l *Loader) reportError(err error) {
	l.mu.RLock()
	fn := l.onError
	l.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

func (l *Loader) load() (*ServiceConfig, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", l.path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (*ServiceConfig, error) {
	var cfg ServiceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *ServiceConfig {
	cfg := &ServiceConfig{Version: "v1"}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *ServiceConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeoutMs == 0 {
		cfg.Server.ReadTimeoutMs = 10000
	}
	if cfg.Server.WriteTimeoutMs == 0 {
		cfg.Server.WriteTimeoutMs = 30000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 4 << 20
	}
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = 8
	}
	if cfg.Engine.QueueDepth == 0 {
		cfg.Engine.QueueDepth = 1000
	}
	if cfg.Engine.TimeoutMs == 0 {
		cfg.Engine.TimeoutMs = 5000
	}
	if cfg.Diagnostic.MaxDepth == 0 {
		cfg.Diagnostic.MaxDepth = 10000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Encoding == "" {
		cfg.Log.Encoding = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 100
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 10
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 7
	}
}
