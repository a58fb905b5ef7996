package protocol

// Canonical JSON-RPC 2.0 / MCP error codes. The -327xx range is reserved by
// the JSON-RPC spec itself; -32000..-32099 is the server-error range MCP
// uses for its own conditions.
const (
	ErrParse          = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603

	// ErrConnectionClosed is used when a pending request's transport closes
	// before a response arrives.
	ErrConnectionClosed = -32000
	// ErrRequestTimeout is used when a pending request exceeds its timeout
	// without a matching response or enough progress to reset it.
	ErrRequestTimeout = -32001

	// ErrServer is the generic server-error code kept from the teacher's
	// original naming for handler-level failures that don't map onto a
	// more specific code above.
	ErrServer = -32000
	// ErrToolExecutionFailed reports that a registered tool handler
	// returned an error while executing tools/call.
	ErrToolExecutionFailed = -32000
)
