package permission

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/oklog/ulid/v2"

	"github.com/opencode-ai/safemode/internal/event"
	"github.com/opencode-ai/safemode/internal/safety"
)

// BlockedError is returned when safe mode refuses an operation.
type BlockedError struct {
	SessionID string
	Tool      string
	Command   string
	Reason    safety.RejectionReason
	Message   string
}

func (e *BlockedError) Error() string {
	return e.Message
}

// IsBlockedError checks if an error is a safe-mode refusal.
func IsBlockedError(err error) bool {
	_, ok := err.(*BlockedError)
	return ok
}

// Checker gates tool execution against the active mode configuration. All
// decisions come from the pure classifier; the checker adds event
// publishing and repeat tracking around them.
type Checker struct {
	manager *Manager
	repeats *RepeatDetector
}

// NewChecker creates a checker backed by the given manager.
func NewChecker(manager *Manager) *Checker {
	return &Checker{
		manager: manager,
		repeats: NewRepeatDetector(),
	}
}

// CheckBash classifies a shell command. A nil return means the command is
// read-only under the active mode and may run without asking.
func (c *Checker) CheckBash(sessionID, command string) error {
	cfg := c.manager.Current()
	decision := safety.Classify(command, cfg)

	if decision.Allowed {
		c.repeats.Reset(sessionID)
		event.Publish(event.Event{
			Type: event.CommandAllowed,
			Data: event.CommandAllowedData{
				ID:        ulid.Make().String(),
				SessionID: sessionID,
				Command:   command,
			},
		})
		return nil
	}

	message := safety.FormatRejectionMessage(command, decision.Reason, cfg)
	repeated := c.repeats.Observe(sessionID, command)

	event.Publish(event.Event{
		Type: event.CommandRejected,
		Data: event.CommandRejectedData{
			ID:        ulid.Make().String(),
			SessionID: sessionID,
			Command:   command,
			Reason:    string(decision.Reason.Kind()),
			Message:   message,
			Repeated:  repeated,
		},
	})

	return &BlockedError{
		SessionID: sessionID,
		Tool:      "bash",
		Command:   command,
		Reason:    decision.Reason,
		Message:   message,
	}
}

// CheckTool refuses tools in the hard-coded blocked set.
func (c *Checker) CheckTool(sessionID, tool string) error {
	cfg := c.manager.Current()
	if !cfg.IsToolBlocked(tool) {
		return nil
	}

	event.Publish(event.Event{
		Type: event.ToolBlocked,
		Data: event.ToolBlockedData{
			ID:        ulid.Make().String(),
			SessionID: sessionID,
			Tool:      tool,
		},
	})

	return &BlockedError{
		SessionID: sessionID,
		Tool:      tool,
		Message:   cfg.DisplayName + " does not permit the " + tool + " tool",
	}
}

// CheckMCPTool matches an MCP tool name against the mode's read-only name
// patterns. Unmatched names are refused.
func (c *Checker) CheckMCPTool(sessionID, name string) error {
	cfg := c.manager.Current()
	decision := safety.ClassifyToolName(name, cfg)
	if decision.Allowed {
		return nil
	}

	event.Publish(event.Event{
		Type: event.ToolBlocked,
		Data: event.ToolBlockedData{
			ID:        ulid.Make().String(),
			SessionID: sessionID,
			Tool:      name,
		},
	})

	return &BlockedError{
		SessionID: sessionID,
		Tool:      name,
		Reason:    decision.Reason,
		Message:   cfg.DisplayName + " does not recognize " + name + " as a read-only tool",
	}
}

// IsWritePathAllowed reports whether path matches one of the mode's
// allowed write path globs. This carves out exceptions like scratch
// directories; it never unblocks the blocked tool set.
func (c *Checker) IsWritePathAllowed(path string) bool {
	cfg := c.manager.Current()
	slashed := filepath.ToSlash(path)
	for _, glob := range cfg.AllowedWritePaths {
		if ok, err := doublestar.Match(glob, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

// IsAPIEndpointAllowed reports whether url falls under one of the mode's
// allowed API endpoint prefixes.
func (c *Checker) IsAPIEndpointAllowed(url string) bool {
	cfg := c.manager.Current()
	for _, prefix := range cfg.AllowedAPIEndpoints {
		if prefix != "" && strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

// ClearSession drops the repeat history for a session.
func (c *Checker) ClearSession(sessionID string) {
	c.repeats.Clear(sessionID)
}
