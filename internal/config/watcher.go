package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// ChangeCallback receives a freshly loaded and validated config
type ChangeCallback func(cfg *Config)

// Watcher reloads the config file when it changes on disk
type Watcher struct {
	watcher            *fsnotify.Watcher
	loader             *Loader
	path               string
	stabilityThreshold time.Duration
	onChange           ChangeCallback
	done               chan struct{}
	timer              *time.Timer
	mu                 sync.Mutex
	stopOnce           sync.Once
}

// WatcherConfig holds configuration for the watcher
type WatcherConfig struct {
	Path               string
	StabilityThreshold time.Duration
	OnChange           ChangeCallback
}

// NewWatcher creates a config watcher
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if cfg.StabilityThreshold == 0 {
		cfg.StabilityThreshold = 100 * time.Millisecond
	}

	return &Watcher{
		watcher:            watcher,
		loader:             NewLoader(cfg.Path),
		path:               filepath.Clean(cfg.Path),
		stabilityThreshold: cfg.StabilityThreshold,
		onChange:           cfg.OnChange,
		done:               make(chan struct{}),
	}, nil
}

// Start watches the directory holding the config file. Editors often
// replace files by rename, which a watch on the file itself would lose.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go w.eventLoop()

	log.Info().
		Str("path", w.path).
		Msg("Config watcher started")

	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
	})

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	log.Info().Msg("Config watcher stopped")
	return nil
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.debounce()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Config watcher error")

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.stabilityThreshold, func() {
		select {
		case <-w.done:
			return
		default:
			w.reload()
		}
	})
}

// reload keeps the previous config when the new file does not load or validate
func (w *Watcher) reload() {
	cfg, err := w.loader.Load()
	if err != nil {
		log.Error().Err(err).Str("path", w.path).Msg("Failed to reload config")
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Str("path", w.path).Msg("Reloaded config is invalid")
		return
	}

	log.Info().Str("path", w.path).Msg("Config reloaded")
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
