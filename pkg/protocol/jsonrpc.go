// Package protocol defines the wire-level JSON-RPC 2.0 message shapes and
// the MCP value types (tools, prompts, resources, roots, capabilities,
// content) that ride on top of them.
//
// https://modelcontextprotocol.info/specification/draft/basic/lifecycle/
package protocol

import (
	"encoding/json"
	"fmt"
)

// JsonRpcVersion is the only JSON-RPC protocol version this package speaks.
const JsonRpcVersion = "2.0"

// RequestID is a non-null string or integer chosen by the request sender.
// It is carried as `any` because JSON-RPC allows either shape and the codec
// preserves whichever one arrived.
type RequestID = any

// JsonRpcRequest represents a JSON-RPC 2.0 request or notification object.
// A nil ID means this is a notification: it MUST NOT receive a response.
type JsonRpcRequest struct {
	JsonRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      RequestID       `json:"id,omitempty"`
}

// IsNotification reports whether this message carries no id.
func (r *JsonRpcRequest) IsNotification() bool {
	return r.ID == nil
}

// JsonRpcResponse represents a JSON-RPC 2.0 success or error response.
// Exactly one of Result/Error is populated; never both.
type JsonRpcResponse struct {
	JsonRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JsonRpcError   `json:"error,omitempty"`
	ID      any             `json:"id"`
}

// JsonRpcError is the canonical JSON-RPC 2.0 error object.
type JsonRpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *JsonRpcError) Error() string {
	return fmt.Sprintf("jsonrpc error: code=%d message=%s", e.Code, e.Message)
}

// NewJsonRpcRequest creates a JSON-RPC 2.0 request. Pass a nil id to build a
// notification.
func NewJsonRpcRequest(method string, params any, id RequestID) (*JsonRpcRequest, error) {
	paramsJSON, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &JsonRpcRequest{
		JsonRPC: JsonRpcVersion,
		Method:  method,
		Params:  paramsJSON,
		ID:      id,
	}, nil
}

// NewJsonRpcNotification creates a JSON-RPC 2.0 notification (a request
// without an id).
func NewJsonRpcNotification(method string, params any) (*JsonRpcRequest, error) {
	return NewJsonRpcRequest(method, params, nil)
}

// NewJsonRpcResponse creates a JSON-RPC 2.0 success response.
func NewJsonRpcResponse(result any, id RequestID) (*JsonRpcResponse, error) {
	resultJSON, err := marshalParams(result)
	if err != nil {
		return nil, err
	}
	return &JsonRpcResponse{
		JsonRPC: JsonRpcVersion,
		Result:  resultJSON,
		ID:      id,
	}, nil
}

// NewJsonRpcErrorResponse creates a JSON-RPC 2.0 error response.
func NewJsonRpcErrorResponse(code int, message string, data any, id RequestID) *JsonRpcResponse {
	return &JsonRpcResponse{
		JsonRPC: JsonRpcVersion,
		Error: &JsonRpcError{
			Code:    code,
			Message: message,
			Data:    data,
		},
		ID: id,
	}
}

func marshalParams(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// MessageKind classifies a decoded message per the structural rule in
// §4.1: id+method => request, method alone => notification, id+result =>
// success, id+error => error.
type MessageKind int

const (
	KindInvalid MessageKind = iota
	KindRequest
	KindNotification
	KindSuccess
	KindError
)

// envelope is used only to sniff which of the four shapes a frame is,
// without committing to a concrete decode.
type envelope struct {
	JsonRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  *string         `json:"method"`
	Result  json.RawMessage `json:"result"`
	Error   json.RawMessage `json:"error"`
}

// Classify inspects a raw JSON-RPC frame and reports its MessageKind without
// fully decoding it into one of the four concrete types.
func Classify(data []byte) (MessageKind, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return KindInvalid, err
	}
	if env.JsonRPC != JsonRpcVersion {
		return KindInvalid, fmt.Errorf("invalid JSON-RPC version: %q", env.JsonRPC)
	}

	hasID := len(env.ID) > 0 && string(env.ID) != "null"
	switch {
	case env.Method != nil && hasID:
		return KindRequest, nil
	case env.Method != nil:
		return KindNotification, nil
	case hasID && len(env.Result) > 0:
		return KindSuccess, nil
	case hasID && len(env.Error) > 0:
		return KindError, nil
	default:
		return KindInvalid, fmt.Errorf("message matches no known JSON-RPC 2.0 shape")
	}
}

// DecodeRequest parses a JSON-RPC 2.0 request or notification from raw JSON.
func DecodeRequest(data []byte) (*JsonRpcRequest, error) {
	var req JsonRpcRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if req.JsonRPC != JsonRpcVersion {
		return nil, fmt.Errorf("invalid JSON-RPC version: %q", req.JsonRPC)
	}
	return &req, nil
}

// DecodeResponse parses a JSON-RPC 2.0 success/error response from raw JSON.
func DecodeResponse(data []byte) (*JsonRpcResponse, error) {
	var resp JsonRpcResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.JsonRPC != JsonRpcVersion {
		return nil, fmt.Errorf("invalid JSON-RPC version: %q", resp.JsonRPC)
	}
	return &resp, nil
}

// Encode serializes any of the four message shapes to bytes.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// ParseJsonRpcRequest is kept for callers ported from the original
// single-shape decoder; it is equivalent to DecodeRequest.
func ParseJsonRpcRequest(data []byte) (*JsonRpcRequest, error) { return DecodeRequest(data) }

// ParseJsonRpcResponse is kept for callers ported from the original
// single-shape decoder; it is equivalent to DecodeResponse.
func ParseJsonRpcResponse(data []byte) (*JsonRpcResponse, error) { return DecodeResponse(data) }

// BatchRequest represents a batch of JSON-RPC 2.0 requests/notifications.
// §9 leaves batch support as an optional transport-level feature: the
// engine itself always treats a batch as a sequence of independent frames.
type BatchRequest []json.RawMessage

// IsBatch reports whether data is a JSON array rather than a JSON object,
// i.e. a JSON-RPC batch frame.
func IsBatch(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// String returns an indented JSON representation, for logging.
func (r *JsonRpcRequest) String() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf("<error marshaling request: %v>", err)
	}
	return string(b)
}

// String returns an indented JSON representation, for logging.
func (r *JsonRpcResponse) String() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf("<error marshaling response: %v>", err)
	}
	return string(b)
}
