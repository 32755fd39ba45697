package permission

import (
	"sync/atomic"

	"github.com/opencode-ai/safemode/internal/config"
	"github.com/opencode-ai/safemode/internal/event"
	"github.com/opencode-ai/safemode/internal/logging"
	"github.com/opencode-ai/safemode/internal/safety"
)

// blockedTools is the hard-coded set of tools that are never available in
// safe mode. It is compiled into every ModeConfig snapshot and cannot be
// re-enabled through a config file.
var blockedTools = map[string]struct{}{
	"write": {},
	"edit":  {},
	"patch": {},
	"batch": {},
}

// BlockedTools returns a copy of the hard-coded blocked tool set.
func BlockedTools() map[string]struct{} {
	blocked := make(map[string]struct{}, len(blockedTools))
	for tool := range blockedTools {
		blocked[tool] = struct{}{}
	}
	return blocked
}

// Manager owns the active ModeConfig snapshot. Snapshots are immutable and
// replaced wholesale, so readers racing a reload see either the old or the
// new configuration, never a mix.
type Manager struct {
	current atomic.Pointer[safety.ModeConfig]
	watcher *config.Watcher
}

// NewManager creates a manager with the deny-everything default installed.
func NewManager() *Manager {
	m := &Manager{}
	cfg, _ := config.Default().Compile(BlockedTools())
	m.current.Store(cfg)
	return m
}

// Current returns the active configuration snapshot.
func (m *Manager) Current() *safety.ModeConfig {
	return m.current.Load()
}

// Swap installs a compiled snapshot directly. Most callers want Apply.
func (m *Manager) Swap(cfg *safety.ModeConfig) {
	m.current.Store(cfg)
}

// Apply compiles a config document and installs it as the active snapshot.
// Compilation failure leaves the previous snapshot in force.
func (m *Manager) Apply(file *config.File, source string) error {
	cfg, err := file.Compile(BlockedTools())
	if err != nil {
		return err
	}
	m.Swap(cfg)

	event.Publish(event.Event{
		Type: event.ModeUpdated,
		Data: event.ModeUpdatedData{
			DisplayName:  cfg.DisplayName,
			PatternCount: len(cfg.ReadOnlyBashPatterns),
			Source:       source,
		},
	})
	return nil
}

// WatchFile starts hot-reloading the config file at path. Documents that
// fail to compile are dropped and the previous snapshot stays in force.
func (m *Manager) WatchFile(path string) error {
	log := logging.Component("permission.manager")
	watcher, err := config.Watch(path, func(file *config.File) {
		if err := m.Apply(file, path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("rejected updated config, keeping previous mode")
		}
	})
	if err != nil {
		return err
	}
	m.watcher = watcher
	return nil
}

// Close stops the config watcher if one is running.
func (m *Manager) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Close()
}
