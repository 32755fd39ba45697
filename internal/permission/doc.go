// Package permission enforces safe mode around tool execution. The Manager
// owns the active ModeConfig snapshot and hot-reloads it from disk; the
// Checker answers the questions tool dispatch needs to ask: may this shell
// command run, is this tool available at all, is this MCP tool read-only.
// The RepeatDetector flags an agent stuck re-proposing a rejected command.
package permission
