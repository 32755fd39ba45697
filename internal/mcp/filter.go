// Package mcp filters MCP tool descriptors down to the read-only set the
// active mode exposes.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/opencode-ai/safemode/internal/safety"
)

// ReadOnly reports whether an MCP tool may be exposed under the given mode.
// The tool's name must match one of the mode's read-only name patterns.
// Annotations only ever narrow the result: a server declaring its own tool
// destructive (or explicitly not read-only) vetoes a name match, but a
// read-only hint on an unmatched name grants nothing, since annotations are
// self-reported and untrusted.
func ReadOnly(tool mcp.Tool, cfg *safety.ModeConfig) bool {
	if !safety.MatchesName(tool.Name, cfg.ReadOnlyMCPPatterns) {
		return false
	}
	ann := tool.Annotations
	if ann.ReadOnlyHint != nil && !*ann.ReadOnlyHint {
		return false
	}
	if ann.DestructiveHint != nil && *ann.DestructiveHint {
		return false
	}
	return true
}

// FilterTools returns the subset of tools exposable under the given mode,
// preserving order.
func FilterTools(tools []mcp.Tool, cfg *safety.ModeConfig) []mcp.Tool {
	var filtered []mcp.Tool
	for _, tool := range tools {
		if ReadOnly(tool, cfg) {
			filtered = append(filtered, tool)
		}
	}
	return filtered
}
