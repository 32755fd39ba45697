// Package config loads, resolves, and hot-reloads the safemode
// configuration document. Documents are JSONC, resolved from the
// environment, the project directory, or the user config directory, and
// compiled into immutable safety.ModeConfig snapshots before use.
package config
