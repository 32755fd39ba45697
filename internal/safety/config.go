package safety

import "regexp"

// ModeConfig is one immutable snapshot of the reduced-trust mode's policy.
// A new snapshot replaces the old one wholesale on config change, so an
// in-flight classification always sees a complete, consistent policy.
type ModeConfig struct {
	// BlockedTools are agent tool identifiers that are always blocked in
	// this mode regardless of arguments. The set is hard-coded by the mode
	// manager and never read from user-editable configuration, so a
	// tampered config file cannot re-enable write tools.
	BlockedTools map[string]struct{}

	// ReadOnlyBashPatterns is the ordered allow-list for shell leaf
	// commands. Empty means no command is allowed yet.
	ReadOnlyBashPatterns []*CompiledPattern

	// ReadOnlyMCPPatterns is the allow-list for MCP tool names.
	ReadOnlyMCPPatterns []*regexp.Regexp

	// AllowedAPIEndpoints are URL prefixes the agent may fetch in this mode.
	AllowedAPIEndpoints []string

	// AllowedWritePaths are glob patterns for paths the dispatch layer may
	// let non-blocked tools write to (scratch areas and the like). They
	// never weaken BlockedTools or the redirect rule.
	AllowedWritePaths []string

	// DisplayName is the human-facing mode name, e.g. "Safe Mode".
	DisplayName string

	// ShortcutHint is the keybinding that exits this mode, referenced in
	// rejection messages.
	ShortcutHint string
}

// IsToolBlocked reports whether a tool identifier is hard-blocked in this
// mode.
func (c *ModeConfig) IsToolBlocked(name string) bool {
	_, ok := c.BlockedTools[name]
	return ok
}
