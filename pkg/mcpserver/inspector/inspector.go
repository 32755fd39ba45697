// Package inspector provides an MCP server exposing the safemode
// classifier, so MCP-capable clients can ask whether a command would be
// allowed before proposing it.
package inspector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opencode-ai/safemode/internal/safety"
)

// NewServer creates an MCP server with the safemode inspection tools.
// current returns the active mode snapshot; handlers call it per request so
// a hot-reloaded configuration takes effect immediately.
func NewServer(current func() *safety.ModeConfig) *server.MCPServer {
	s := server.NewMCPServer(
		"safemode",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	classifyTool := mcp.NewTool("read_classify_command",
		mcp.WithDescription("Classifies a shell command as read-only or not under the active safe mode"),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Shell command to classify"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(classifyTool, classifyHandler(current))

	patternsTool := mcp.NewTool("read_mode_patterns",
		mcp.WithDescription("Lists the active safe mode's read-only command patterns"),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(patternsTool, patternsHandler(current))

	return s
}

func classifyHandler(current func() *safety.ModeConfig) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		command, ok := args["command"].(string)
		if !ok || command == "" {
			return mcp.NewToolResultError("command argument is required"), nil
		}

		cfg := current()
		decision := safety.Classify(command, cfg)
		if decision.Allowed {
			return mcp.NewToolResultText("allowed"), nil
		}
		return mcp.NewToolResultText(safety.FormatRejectionMessage(command, decision.Reason, cfg)), nil
	}
}

func patternsHandler(current func() *safety.ModeConfig) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cfg := current()

		type patternInfo struct {
			Source  string `json:"source"`
			Comment string `json:"comment,omitempty"`
		}
		patterns := make([]patternInfo, 0, len(cfg.ReadOnlyBashPatterns))
		for _, p := range cfg.ReadOnlyBashPatterns {
			patterns = append(patterns, patternInfo{Source: p.Source, Comment: p.Comment})
		}

		data, err := json.MarshalIndent(map[string]any{
			"displayName": cfg.DisplayName,
			"patterns":    patterns,
		}, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode patterns: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
