package event

// ModeUpdatedData is the data for mode.updated events.
type ModeUpdatedData struct {
	DisplayName  string `json:"displayName"`
	PatternCount int    `json:"patternCount"`
	Source       string `json:"source,omitempty"`
}

// CommandAllowedData is the data for command.allowed events.
type CommandAllowedData struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID,omitempty"`
	Command   string `json:"command"`
}

// CommandRejectedData is the data for command.rejected events.
type CommandRejectedData struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID,omitempty"`
	Command   string `json:"command"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	// Repeated marks the command as one the agent keeps re-proposing
	// after identical rejections.
	Repeated bool `json:"repeated,omitempty"`
}

// ToolBlockedData is the data for tool.blocked events.
type ToolBlockedData struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID,omitempty"`
	Tool      string `json:"tool"`
}
