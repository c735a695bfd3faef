package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	domainconfig "github.com/rickerduniya/Sayanho-sub000/domain/config"
)

// ConfigWatcher watches the engine tunables file and republishes it on change
type ConfigWatcher struct {
	path        string
	environment string
	watcher     *fsnotify.Watcher
	current     *domainconfig.DomainConfig
	mu          sync.RWMutex
	onChange    []func(*domainconfig.DomainConfig) error
	logger      *zap.Logger
	stopCh      chan struct{}
	stopOnce    sync.Once
	debounce    time.Duration
}

// NewConfigWatcher creates a watcher for path. The file must load cleanly.
func NewConfigWatcher(environment, configPath string, logger *zap.Logger) (*ConfigWatcher, error) {
	// Load initial configuration
	config, err := LoadEngineConfig(environment, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	// Create file watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so atomic saves (rename over the file) are seen
	dir := filepath.Dir(configPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &ConfigWatcher{
		path:        configPath,
		environment: environment,
		watcher:     watcher,
		current:     config,
		logger:      logger,
		stopCh:      make(chan struct{}),
		debounce:    100 * time.Millisecond,
	}, nil
}

// Start begins watching for configuration changes
func (w *ConfigWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("Configuration watcher started", zap.String("path", w.path))
}

// Stop stops watching for configuration changes
func (w *ConfigWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.logger.Info("Configuration watcher stopped")
	})
}

// watchLoop is the main loop that watches for file changes
func (w *ConfigWatcher) watchLoop() {
	// Debounce timer to avoid multiple reloads
	var debounceTimer *time.Timer

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(w.debounce, w.handleConfigChange)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

// handleConfigChange reloads the file and notifies listeners. An invalid file
// keeps the current configuration.
func (w *ConfigWatcher) handleConfigChange() {
	w.logger.Info("Configuration file changed, reloading", zap.String("path", w.path))

	newConfig, err := LoadEngineConfig(w.environment, w.path)
	if err != nil {
		w.logger.Error("Invalid configuration, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	oldConfig := w.current
	w.current = newConfig
	handlers := append([]func(*domainconfig.DomainConfig) error(nil), w.onChange...)
	w.mu.Unlock()

	w.logConfigChanges(oldConfig, newConfig)

	for _, handler := range handlers {
		if err := handler(newConfig.Clone()); err != nil {
			w.logger.Error("Configuration listener rejected update", zap.Error(err))
		}
	}

	w.logger.Info("Configuration reloaded successfully")
}

// logConfigChanges logs the differences between old and new config
func (w *ConfigWatcher) logConfigChanges(oldConfig, newConfig *domainconfig.DomainConfig) {
	changes := []string{}

	if oldConfig.HistoryLimit != newConfig.HistoryLimit {
		changes = append(changes, fmt.Sprintf("HistoryLimit: %d -> %d",
			oldConfig.HistoryLimit, newConfig.HistoryLimit))
	}
	if oldConfig.PasteOffset != newConfig.PasteOffset {
		changes = append(changes, fmt.Sprintf("PasteOffset: %v -> %v",
			oldConfig.PasteOffset, newConfig.PasteOffset))
	}
	if oldConfig.RecalcDebounce != newConfig.RecalcDebounce {
		changes = append(changes, fmt.Sprintf("RecalcDebounce: %s -> %s",
			oldConfig.RecalcDebounce, newConfig.RecalcDebounce))
	}
	if len(oldConfig.WiringSizes) != len(newConfig.WiringSizes) {
		changes = append(changes, fmt.Sprintf("WiringSizes: %d -> %d entries",
			len(oldConfig.WiringSizes), len(newConfig.WiringSizes)))
	}

	if len(changes) > 0 {
		w.logger.Info("Configuration changes detected",
			zap.Strings("changes", changes),
		)
	}
}

// OnChange registers a callback for configuration changes
func (w *ConfigWatcher) OnChange(handler func(*domainconfig.DomainConfig) error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// GetCurrent returns a copy of the current configuration
func (w *ConfigWatcher) GetCurrent() *domainconfig.DomainConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current.Clone()
}
