package server

import (
	"encoding/json"

	"github.com/flitsinc/docsrs-mcp/tools"
)

// protocolVersion is the MCP protocol revision reported by initialize.
const protocolVersion = "2025-06-18"

// MCP protocol types for the handshake and tool discovery surface.

type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ListToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

type ToolInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *tools.ValueSchema `json:"inputSchema"`
}

type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type CallToolResult struct {
	Content []Content `json:"content"`
}

type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// textContent wraps a tool result as a single text content block.
func textContent(res tools.Result) CallToolResult {
	return CallToolResult{Content: []Content{{Type: "text", Text: res.Text()}}}
}
