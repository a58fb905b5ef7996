package tools

import (
	"fmt"
	"strings"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/prompts"
	"github.com/richard-senior/mcp/pkg/protocol"
)

// PromptRegistr_y returns the prompt_registry tool definition: a thin tool
// wrapper around pkg/prompts' file-backed template store, usable by a
// client that only speaks tools/call and not prompts/get.
func PromptRegistr_y() protocol.Tool {
	return protocol.Tool{
		Name:        "prompt_registry",
		Description: "Implements a registry of prompt data which can be read from or written to",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"action": {
					Type:        "string",
					Description: "One of: list, get",
				},
				"id": {
					Type:        "string",
					Description: "The ID of the prompt we want to work with",
				},
			},
			Required: []string{"action"},
		},
	}
}

// HandlePromptRegistryTool services the prompt_registry tool invocation.
func HandlePromptRegistryTool(params interface{}) (any, error) {
	paramsMap, ok := params.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid parameters format")
	}

	action, _ := paramsMap["action"].(string)
	registry := prompts.GetGlobalRegistry()

	switch action {
	case "list":
		list, err := registry.ListPrompts()
		if err != nil {
			return nil, err
		}
		return map[string]any{"prompts": list, "count": len(list)}, nil
	case "get":
		id, _ := paramsMap["id"].(string)
		prompt, err := registry.GetPrompt(id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"prompt": prompt}, nil
	default:
		return nil, fmt.Errorf("unknown prompt_registry action: %s", action)
	}
}

// ProcessPromptRegistryRequest handles the legacy CLI query-string form of
// prompt registry commands, kept for internal/processor's non-JSON-RPC
// request path.
func ProcessPromptRegistryRequest(query string, requestID string) (*protocol.JsonRpcResponse, error) {
	registry := prompts.GetGlobalRegistry()

	if strings.HasPrefix(query, "list_prompts") {
		list, err := registry.ListPrompts()
		if err != nil {
			logger.Error("Failed to list prompts", err)
			return protocol.NewJsonRpcErrorResponse(protocol.ErrInternal, "Failed to list prompts", nil, requestID), nil
		}
		ctx := map[string]interface{}{"prompts": list, "count": len(list)}
		return protocol.NewJsonRpcResponse(ctx, requestID)
	}

	if strings.HasPrefix(query, "get_prompt ") {
		id := strings.TrimPrefix(query, "get_prompt ")
		prompt, err := registry.GetPrompt(id)
		if err != nil {
			logger.Error("Failed to get prompt", err)
			return protocol.NewJsonRpcErrorResponse(protocol.ErrInternal, "Failed to get prompt", nil, requestID), nil
		}
		ctx := map[string]interface{}{"prompt": prompt}
		return protocol.NewJsonRpcResponse(ctx, requestID)
	}

	return nil, fmt.Errorf("not a prompt registry command")
}
