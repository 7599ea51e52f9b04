// Package server contains the transport-agnostic request dispatcher and the
// two transport bindings (SSE over HTTP and stdio) that feed it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/flitsinc/docsrs-mcp/jsonrpc"
	"github.com/flitsinc/docsrs-mcp/tools"
)

// Server routes decoded requests to registered tools. The registry is fixed
// at construction, so concurrent Dispatch calls share nothing mutable.
type Server struct {
	registry *tools.Registry
	info     ServerInfo
}

// New returns a server dispatching to the given registry.
func New(registry *tools.Registry, info ServerInfo) *Server {
	return &Server{registry: registry, info: info}
}

// Dispatch processes exactly one request and produces its response, always
// echoing the request's correlation id. It returns nil for notifications,
// which expect no response. Dispatch is independent of any transport; both
// bindings funnel through here.
func (s *Server) Dispatch(ctx context.Context, req jsonrpc.Request) *jsonrpc.Response {
	if req.IsNotification() {
		// Only lifecycle notifications are expected; anything else is
		// noted and dropped, per JSON-RPC.
		if !strings.HasPrefix(req.Method, "notifications/") {
			log.WithField("method", req.Method).Debug("ignoring unexpected notification")
		}
		return nil
	}

	if req.Method == "" {
		return respond(jsonrpc.NewErrorResponse(req.ID, &jsonrpc.Error{
			Code:    jsonrpc.CodeInvalidRequest,
			Message: "method is required",
		}))
	}

	switch req.Method {
	case "initialize":
		return respond(jsonrpc.NewResponse(req.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]any{"tools": map[string]any{}},
			ServerInfo:      s.info,
		}))
	case "ping":
		return respond(jsonrpc.NewResponse(req.ID, map[string]any{}))
	case "tools/list":
		return respond(jsonrpc.NewResponse(req.ID, s.listTools()))
	case "tools/call":
		return respond(s.callTool(ctx, req))
	}

	// Every registered tool is also addressable directly by its own name,
	// with the params object as the arguments.
	tool, ok := s.registry.Resolve(req.Method)
	if !ok {
		return respond(jsonrpc.NewErrorResponse(req.ID, &jsonrpc.Error{
			Code:    jsonrpc.CodeMethodNotFound,
			Message: fmt.Sprintf("method %q not found", req.Method),
		}))
	}

	res, err := tool.Call(ctx, req.Params)
	if err != nil {
		log.WithError(err).WithField("method", req.Method).Debug("tool call failed")
		return respond(errorResponse(req.ID, err))
	}
	return respond(jsonrpc.NewResponse(req.ID, res.Text()))
}

// listTools builds the discovery listing in registration order.
func (s *Server) listTools() ListToolsResult {
	result := ListToolsResult{Tools: []ToolInfo{}}
	for _, tool := range s.registry.All() {
		schema := tool.Schema()
		result.Tools = append(result.Tools, ToolInfo{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: &schema.Parameters,
		})
	}
	return result
}

// callTool handles the tools/call route, which wraps the tool name and
// arguments one level deeper than direct method dispatch.
func (s *Server) callTool(ctx context.Context, req jsonrpc.Request) jsonrpc.Response {
	var params CallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return jsonrpc.NewErrorResponse(req.ID, &jsonrpc.Error{
				Code:    jsonrpc.CodeInvalidParams,
				Message: fmt.Sprintf("invalid params: %v", err),
			})
		}
	}
	if params.Name == "" {
		return jsonrpc.NewErrorResponse(req.ID, &jsonrpc.Error{
			Code:    jsonrpc.CodeInvalidParams,
			Message: "invalid params: \"name\" is required",
			Data:    map[string]string{"param": "name"},
		})
	}

	tool, ok := s.registry.Resolve(params.Name)
	if !ok {
		return jsonrpc.NewErrorResponse(req.ID, &jsonrpc.Error{
			Code:    jsonrpc.CodeMethodNotFound,
			Message: fmt.Sprintf("tool %q not found", params.Name),
		})
	}

	res, err := tool.Call(ctx, params.Arguments)
	if err != nil {
		log.WithError(err).WithField("tool", params.Name).Debug("tool call failed")
		return errorResponse(req.ID, err)
	}
	return jsonrpc.NewResponse(req.ID, textContent(res))
}

// errorResponse maps a handler failure to its wire form. Errors that carry
// their own classification are used as-is; anything else is internal.
func errorResponse(id jsonrpc.ID, err error) jsonrpc.Response {
	var coder jsonrpc.ErrorCoder
	if errors.As(err, &coder) {
		return jsonrpc.NewErrorResponse(id, coder.RPCError())
	}
	return jsonrpc.NewErrorResponse(id, &jsonrpc.Error{
		Code:    jsonrpc.CodeInternalError,
		Message: err.Error(),
	})
}

func respond(resp jsonrpc.Response) *jsonrpc.Response {
	return &resp
}
