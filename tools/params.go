package tools

import (
	"fmt"

	"github.com/flitsinc/docsrs-mcp/jsonrpc"
)

// ParamError reports an argument that failed schema validation. Param names
// the offending field when it is known.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid params: %s", e.Reason)
	}
	return fmt.Sprintf("invalid params: %q: %s", e.Param, e.Reason)
}

// RPCError implements jsonrpc.ErrorCoder.
func (e *ParamError) RPCError() *jsonrpc.Error {
	rpcErr := &jsonrpc.Error{
		Code:    jsonrpc.CodeInvalidParams,
		Message: e.Error(),
	}
	if e.Param != "" {
		rpcErr.Data = map[string]string{"param": e.Param}
	}
	return rpcErr
}
