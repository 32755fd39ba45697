package server

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/opencode-ai/safemode/internal/config"
	"github.com/opencode-ai/safemode/internal/permission"
	"github.com/opencode-ai/safemode/internal/safety"
)

// ClassifyRequest is the body for POST /classify and POST /classify/tool.
type ClassifyRequest struct {
	Command   string `json:"command,omitempty"`
	Tool      string `json:"tool,omitempty"`
	SessionID string `json:"sessionID,omitempty"`
}

// ClassifyResponse is the decision JSON returned by the classify endpoints.
type ClassifyResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// PatternInfo describes one compiled allow-list pattern.
type PatternInfo struct {
	Source  string `json:"source"`
	Comment string `json:"comment,omitempty"`
}

// ModeResponse describes the active mode configuration.
type ModeResponse struct {
	DisplayName  string        `json:"displayName"`
	ShortcutHint string        `json:"shortcutHint,omitempty"`
	BlockedTools []string      `json:"blockedTools"`
	Patterns     []PatternInfo `json:"patterns"`
	McpPatterns  []string      `json:"mcpPatterns"`
}

// classifyCommand handles POST /classify.
func (s *Server) classifyCommand(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}

	err := s.checker.CheckBash(req.SessionID, req.Command)
	if err == nil {
		writeJSON(w, http.StatusOK, ClassifyResponse{Allowed: true})
		return
	}

	blocked, ok := err.(*permission.BlockedError)
	if !ok {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	resp := ClassifyResponse{
		Allowed: false,
		Message: blocked.Message,
	}
	if blocked.Reason != nil {
		resp.Reason = string(blocked.Reason.Kind())
	}
	writeJSON(w, http.StatusOK, resp)
}

// classifyTool handles POST /classify/tool. The hard-coded blocked set is
// consulted first, then the mode's read-only tool name patterns.
func (s *Server) classifyTool(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.Tool == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "tool is required")
		return
	}

	err := s.checker.CheckTool(req.SessionID, req.Tool)
	if err == nil {
		err = s.checker.CheckMCPTool(req.SessionID, req.Tool)
	}
	if err == nil {
		writeJSON(w, http.StatusOK, ClassifyResponse{Allowed: true})
		return
	}

	blocked, ok := err.(*permission.BlockedError)
	if !ok {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ClassifyResponse{Allowed: false, Message: blocked.Message})
}

// getMode handles GET /mode.
func (s *Server) getMode(w http.ResponseWriter, r *http.Request) {
	cfg := s.manager.Current()
	writeJSON(w, http.StatusOK, modeResponse(cfg))
}

func modeResponse(cfg *safety.ModeConfig) ModeResponse {
	blocked := make([]string, 0, len(cfg.BlockedTools))
	for tool := range cfg.BlockedTools {
		blocked = append(blocked, tool)
	}
	sort.Strings(blocked)

	patterns := make([]PatternInfo, 0, len(cfg.ReadOnlyBashPatterns))
	for _, p := range cfg.ReadOnlyBashPatterns {
		patterns = append(patterns, PatternInfo{Source: p.Source, Comment: p.Comment})
	}

	mcpPatterns := make([]string, 0, len(cfg.ReadOnlyMCPPatterns))
	for _, p := range cfg.ReadOnlyMCPPatterns {
		mcpPatterns = append(mcpPatterns, p.String())
	}

	return ModeResponse{
		DisplayName:  cfg.DisplayName,
		ShortcutHint: cfg.ShortcutHint,
		BlockedTools: blocked,
		Patterns:     patterns,
		McpPatterns:  mcpPatterns,
	}
}

// reloadMode handles POST /mode/reload. It re-resolves and re-loads the
// configuration from disk; a document that fails to load or compile leaves
// the active mode unchanged.
func (s *Server) reloadMode(w http.ResponseWriter, r *http.Request) {
	file, source, err := config.LoadDefault(s.config.Directory)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, ErrCodeReloadFailed, err.Error())
		return
	}
	if err := s.manager.Apply(file, source); err != nil {
		writeError(w, http.StatusUnprocessableEntity, ErrCodeReloadFailed, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"source": source,
		"mode":   modeResponse(s.manager.Current()),
	})
}

// health handles GET /health.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
