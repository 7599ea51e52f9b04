package docsrs

import (
	"context"

	"github.com/flitsinc/docsrs-mcp/tools"
)

// ToolName is the method name the fetch tool is invoked by.
const ToolName = "fetch_document"

const toolDescription = "Fetch Rust documentation from docs.rs"

// NewTool adapts the client into a registrable tool. Argument validation
// beyond JSON shape (traversal characters, empty values) stays inside
// FetchDocs so every caller gets it, not just the protocol path.
func NewTool(client *Client) tools.Tool {
	return tools.Func(ToolName, toolDescription,
		func(ctx context.Context, params Params) (tools.Result, error) {
			doc, err := client.FetchDocs(ctx, params)
			if err != nil {
				return nil, err
			}
			return doc, nil
		})
}
