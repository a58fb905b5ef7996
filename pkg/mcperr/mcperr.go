// Package mcperr provides sentinel errors and a wrapping layer that maps
// internal failures onto the canonical JSON-RPC error codes without losing
// the underlying cause, in the fmt.Errorf("...: %w", err) idiom the
// teacher's own packages already use.
package mcperr

import (
	"errors"
	"fmt"

	"github.com/richard-senior/mcp/pkg/protocol"
)

// Sentinel errors callers can match against with errors.Is.
var (
	ErrNotInitialized     = errors.New("mcp: session is not initialized")
	ErrAlreadyInitialized = errors.New("mcp: session is already initialized")
	ErrCapabilityMissing  = errors.New("mcp: peer did not negotiate this capability")
	ErrUnknownMethod      = errors.New("mcp: no handler registered for method")
	ErrClosed             = errors.New("mcp: connection closed")
	ErrTimeout            = errors.New("mcp: request timed out")
	ErrCancelled          = errors.New("mcp: request cancelled")
)

// McpError wraps an internal error with the JSON-RPC code it should surface
// as, so a single conversion point (ToJsonRpcError) can build the wire
// error without every call site hand-building a protocol.JsonRpcError.
type McpError struct {
	Code    int
	Message string
	Data    any
	Cause   error
}

func (e *McpError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *McpError) Unwrap() error { return e.Cause }

// Wrap builds an McpError carrying code and message, with cause preserved
// for errors.Is/As and logging.
func Wrap(code int, message string, cause error) *McpError {
	return &McpError{Code: code, Message: message, Cause: cause}
}

// ToJsonRpcError converts err into the wire-level error object. Errors
// already shaped as *McpError carry their code through; anything else
// falls back to ErrInternal, matching the classification rule of §4.8.
func ToJsonRpcError(err error) *protocol.JsonRpcError {
	var mcpErr *McpError
	if errors.As(err, &mcpErr) {
		return &protocol.JsonRpcError{Code: mcpErr.Code, Message: mcpErr.Error(), Data: mcpErr.Data}
	}

	switch {
	case errors.Is(err, ErrUnknownMethod):
		return &protocol.JsonRpcError{Code: protocol.ErrMethodNotFound, Message: err.Error()}
	case errors.Is(err, ErrTimeout):
		return &protocol.JsonRpcError{Code: protocol.ErrRequestTimeout, Message: err.Error()}
	case errors.Is(err, ErrClosed):
		return &protocol.JsonRpcError{Code: protocol.ErrConnectionClosed, Message: err.Error()}
	case errors.Is(err, ErrCapabilityMissing), errors.Is(err, ErrNotInitialized), errors.Is(err, ErrAlreadyInitialized):
		return &protocol.JsonRpcError{Code: protocol.ErrInvalidRequest, Message: err.Error()}
	default:
		return &protocol.JsonRpcError{Code: protocol.ErrInternal, Message: err.Error()}
	}
}
