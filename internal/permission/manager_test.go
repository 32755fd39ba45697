package permission

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/safemode/internal/config"
	"github.com/opencode-ai/safemode/internal/event"
	"github.com/opencode-ai/safemode/internal/safety"
)

func TestNewManager_DeniesEverything(t *testing.T) {
	m := NewManager()
	cfg := m.Current()

	assert.Empty(t, cfg.ReadOnlyBashPatterns)
	assert.True(t, cfg.IsToolBlocked("write"))

	decision := safety.Classify("ls", cfg)
	assert.False(t, decision.Allowed)
}

func TestApply(t *testing.T) {
	m := NewManager()
	file := config.Default()
	file.DisplayName = "Explore"
	file.ReadOnlyBashPatterns = []safety.PatternSpec{{Source: "ls( .*)?"}}

	updated := make(chan event.ModeUpdatedData, 1)
	defer event.Subscribe(event.ModeUpdated, func(ev event.Event) {
		if data, ok := ev.Data.(event.ModeUpdatedData); ok {
			updated <- data
		}
	})()

	require.NoError(t, m.Apply(file, "test"))

	cfg := m.Current()
	assert.Equal(t, "Explore", cfg.DisplayName)
	assert.True(t, safety.Classify("ls -la", cfg).Allowed)
	// The hard-coded blocked set survives every reload.
	assert.True(t, cfg.IsToolBlocked("edit"))

	select {
	case data := <-updated:
		assert.Equal(t, "Explore", data.DisplayName)
		assert.Equal(t, 1, data.PatternCount)
		assert.Equal(t, "test", data.Source)
	case <-time.After(time.Second):
		t.Fatal("no mode.updated event")
	}
}

func TestApply_BadConfigKeepsPrevious(t *testing.T) {
	m := testManager(t)
	before := m.Current()

	bad := config.Default()
	bad.ReadOnlyBashPatterns = []safety.PatternSpec{{Source: "(unclosed"}}
	require.Error(t, m.Apply(bad, "test"))

	assert.Same(t, before, m.Current())
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "safemode.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1}`), 0644))

	m := NewManager()
	require.NoError(t, m.WatchFile(path))
	defer m.Close()

	updated := make(chan event.ModeUpdatedData, 1)
	defer event.Subscribe(event.ModeUpdated, func(ev event.Event) {
		if data, ok := ev.Data.(event.ModeUpdatedData); ok {
			updated <- data
		}
	})()

	next := `{"version":1,"displayName":"Explore","readOnlyBashPatterns":[{"source":"ls( .*)?"}]}`
	require.NoError(t, os.WriteFile(path, []byte(next), 0644))

	select {
	case data := <-updated:
		assert.Equal(t, "Explore", data.DisplayName)
	case <-time.After(5 * time.Second):
		t.Fatal("config change never applied")
	}

	assert.True(t, safety.Classify("ls", m.Current()).Allowed)
}

func TestBlockedTools_Copy(t *testing.T) {
	blocked := BlockedTools()
	delete(blocked, "write")

	again := BlockedTools()
	_, ok := again["write"]
	assert.True(t, ok)
}
