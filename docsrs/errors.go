package docsrs

import (
	"fmt"

	"github.com/flitsinc/docsrs-mcp/jsonrpc"
)

// ErrorKind classifies a documentation fetch failure.
type ErrorKind int

const (
	// KindInvalidParams means the fetch parameters failed validation; no
	// network call was attempted.
	KindInvalidParams ErrorKind = iota
	// KindNetwork means the outbound request could not complete.
	KindNetwork
	// KindUpstream means the documentation host answered with a non-2xx
	// status.
	KindUpstream
)

// Error is a classified documentation fetch failure.
type Error struct {
	Kind   ErrorKind
	Param  string // offending parameter, set for KindInvalidParams
	Status int    // upstream HTTP status, set for KindUpstream
	Reason string
	Err    error // underlying cause, set for KindNetwork
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidParams:
		return fmt.Sprintf("invalid params: %q: %s", e.Param, e.Reason)
	case KindNetwork:
		return fmt.Sprintf("request error: %v", e.Err)
	case KindUpstream:
		return fmt.Sprintf("failed to find documentation: upstream status %d", e.Status)
	default:
		return e.Reason
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RPCError implements jsonrpc.ErrorCoder.
func (e *Error) RPCError() *jsonrpc.Error {
	switch e.Kind {
	case KindInvalidParams:
		return &jsonrpc.Error{
			Code:    jsonrpc.CodeInvalidParams,
			Message: e.Error(),
			Data:    map[string]string{"param": e.Param},
		}
	case KindUpstream:
		return &jsonrpc.Error{
			Code:    jsonrpc.CodeUpstreamError,
			Message: e.Error(),
			Data:    map[string]int{"status": e.Status},
		}
	default:
		return &jsonrpc.Error{
			Code:    jsonrpc.CodeNetworkError,
			Message: e.Error(),
		}
	}
}

func invalidParam(param, reason string) *Error {
	return &Error{Kind: KindInvalidParams, Param: param, Reason: reason}
}
