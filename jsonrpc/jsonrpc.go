package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the protocol version tag carried by every envelope.
const Version = "2.0"

// Standard JSON-RPC 2.0 error codes, plus implementation-defined codes in the
// reserved server error range for failures raised by tool handlers.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// CodeUpstreamError reports a non-2xx status from the documentation
	// host. The upstream status code is carried in the error data.
	CodeUpstreamError = -32000
	// CodeNetworkError reports a connection-level failure reaching the
	// documentation host.
	CodeNetworkError = -32001
)

// Request is one inbound envelope.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      ID              `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id and therefore
// expects no response.
func (r Request) IsNotification() bool {
	return r.ID.IsZero()
}

// Response is one outbound envelope. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      ID              `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the wire form of a failed call.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// ErrorCoder is implemented by errors that know their own wire form. The
// dispatcher uses it to classify handler failures without depending on the
// packages that raise them.
type ErrorCoder interface {
	RPCError() *Error
}

// NewResponse builds a success envelope carrying the marshaled result. The
// result must marshal cleanly; a marshaling failure is reported as an
// internal error envelope instead so the caller always receives exactly one
// of result or error.
func NewResponse(id ID, result any) Response {
	raw, err := json.Marshal(result)
	if err != nil {
		return NewErrorResponse(id, &Error{
			Code:    CodeInternalError,
			Message: fmt.Sprintf("failed to encode result: %v", err),
		})
	}
	return Response{JSONRPC: Version, ID: id, Result: raw}
}

// NewErrorResponse builds an error envelope echoing the given id.
func NewErrorResponse(id ID, rpcErr *Error) Response {
	return Response{JSONRPC: Version, ID: id, Error: rpcErr}
}
