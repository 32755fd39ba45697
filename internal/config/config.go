package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"

	"github.com/opencode-ai/safemode/internal/safety"
)

// CurrentVersion is the config document version this build understands.
const CurrentVersion = 1

// File is the on-disk safemode configuration document. Pattern sources are
// kept uncompiled here; Compile turns them into an immutable ModeConfig
// snapshot, and any malformed entry fails compilation before the classifier
// ever sees it. Note that blocked tools are deliberately absent: that set
// is hard-coded and cannot be re-enabled through an editable file.
type File struct {
	Version              int                  `json:"version"`
	DisplayName          string               `json:"displayName,omitempty"`
	ShortcutHint         string               `json:"shortcutHint,omitempty"`
	ReadOnlyBashPatterns []safety.PatternSpec `json:"readOnlyBashPatterns"`
	ReadOnlyMcpPatterns  []string             `json:"readOnlyMcpPatterns"`
	AllowedApiEndpoints  []string             `json:"allowedApiEndpoints"`
	AllowedWritePaths    []string             `json:"allowedWritePaths"`
}

// Default returns the built-in configuration: deny everything. Used when no
// config file exists anywhere; an empty allow-list is a valid, safe state,
// not an error.
func Default() *File {
	return &File{Version: CurrentVersion}
}

// Load reads and parses a single config file. JSONC comments are accepted.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	file, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return file, nil
}

func parse(data []byte) (*File, error) {
	var file File
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if file.Version == 0 {
		file.Version = CurrentVersion
	}
	if file.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version %d", file.Version)
	}
	return &file, nil
}

// Resolve returns the config file safemode should use, or "" when none
// exists. Priority: the SAFEMODE_CONFIG environment variable, the project
// directory, then the user config directory.
func Resolve(directory string) string {
	if path := os.Getenv("SAFEMODE_CONFIG"); path != "" {
		return path
	}
	for _, path := range candidates(directory) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func candidates(directory string) []string {
	var paths []string
	if directory != "" {
		paths = append(paths,
			filepath.Join(directory, "safemode.json"),
			filepath.Join(directory, "safemode.jsonc"),
			filepath.Join(directory, ".safemode", "safemode.json"),
			filepath.Join(directory, ".safemode", "safemode.jsonc"),
		)
	}
	configDir := GetPaths().Config
	return append(paths,
		filepath.Join(configDir, "safemode.json"),
		filepath.Join(configDir, "safemode.jsonc"),
	)
}

// LoadDefault loads the effective configuration for a project directory.
// SAFEMODE_CONFIG_CONTENT (inline JSON) wins over any file; a resolvable
// file comes next; with neither, the deny-everything default applies. The
// returned source is the file path, "inline", or "default".
func LoadDefault(directory string) (*File, string, error) {
	if content := os.Getenv("SAFEMODE_CONFIG_CONTENT"); content != "" {
		file, err := parse([]byte(content))
		if err != nil {
			return nil, "", fmt.Errorf("SAFEMODE_CONFIG_CONTENT: %w", err)
		}
		return file, "inline", nil
	}
	if path := Resolve(directory); path != "" {
		file, err := Load(path)
		if err != nil {
			return nil, "", err
		}
		return file, path, nil
	}
	return Default(), "default", nil
}

// Compile validates the document and produces an immutable ModeConfig
// snapshot. blockedTools is supplied by the caller (the mode manager's
// hard-coded set), never read from the document itself.
func (f *File) Compile(blockedTools map[string]struct{}) (*safety.ModeConfig, error) {
	patterns, err := safety.CompilePatterns(f.ReadOnlyBashPatterns)
	if err != nil {
		return nil, err
	}
	mcpPatterns, err := safety.CompileNamePatterns(f.ReadOnlyMcpPatterns)
	if err != nil {
		return nil, err
	}
	for i, glob := range f.AllowedWritePaths {
		if !doublestar.ValidatePattern(glob) {
			return nil, fmt.Errorf("allowedWritePaths[%d]: invalid glob %q", i, glob)
		}
	}

	displayName := f.DisplayName
	if displayName == "" {
		displayName = "Safe Mode"
	}

	blocked := make(map[string]struct{}, len(blockedTools))
	for tool := range blockedTools {
		blocked[tool] = struct{}{}
	}

	return &safety.ModeConfig{
		BlockedTools:         blocked,
		ReadOnlyBashPatterns: patterns,
		ReadOnlyMCPPatterns:  mcpPatterns,
		AllowedAPIEndpoints:  append([]string(nil), f.AllowedApiEndpoints...),
		AllowedWritePaths:    append([]string(nil), f.AllowedWritePaths...),
		DisplayName:          displayName,
		ShortcutHint:         f.ShortcutHint,
	}, nil
}
