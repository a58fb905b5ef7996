package processor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/tools"
)

// MCPRequest represents an MCP request
type MCPRequest struct {
	Query     string `json:"query"`
	RequestID string `json:"requestId"`
}

// MCPResponse represents an MCP response
type MCPResponse struct {
	RequestID   string                 `json:"requestId,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Tools       []Tool                 `json:"tools,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Tool represents a tool that can be used by the MCP client
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// createErrorResponse creates an error response
func createErrorResponse(code, message, requestID string) ([]byte, error) {
	var response ErrorResponse
	response.Error.Code = code
	response.Error.Message = message

	return json.MarshalIndent(response, "", "  ")
}

// resultResponse wraps an arbitrary result value into an MCPResponse envelope.
func resultResponse(requestID string, result any) ([]byte, error) {
	response := MCPResponse{
		RequestID: requestID,
		Context: map[string]interface{}{
			"result": result,
		},
		Metadata: map[string]interface{}{
			"version": "1.0.0",
		},
	}
	return json.MarshalIndent(response, "", "  ")
}

// processPromptRegistry handles the CLI "list_prompts" / "get_prompt <id>" query forms
// by delegating to pkg/tools' prompt registry bridge.
func processPromptRegistry(query, requestID string) ([]byte, error) {
	resp, err := tools.ProcessPromptRegistryRequest(query, requestID)
	if err != nil {
		return createErrorResponse("prompt_registry_error", err.Error(), requestID)
	}
	return json.MarshalIndent(resp, "", "  ")
}

// processRulesProcessor handles "process_rules ..." / "get_rule_content ..." by
// delegating to pkg/tools' rules processor.
func processRulesProcessor(query, requestID string) ([]byte, error) {
	resp, err := tools.ProcessRulesProcessorRequest(query, requestID)
	if err != nil {
		return createErrorResponse("rules_processor_error", err.Error(), requestID)
	}
	return json.MarshalIndent(resp, "", "  ")
}

// processGoogleSearch handles "googlesearch <query> [num_results]".
func processGoogleSearch(query, requestID string) ([]byte, error) {
	rest := strings.TrimPrefix(query, "googlesearch ")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return createErrorResponse("invalid_params", "googlesearch requires a query", requestID)
	}

	numResults := 5
	terms := fields
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
			numResults = n
			terms = fields[:len(fields)-1]
		}
	}

	result, err := tools.HandleGoogleSearchTool(map[string]any{
		"query": strings.Join(terms, " "),
		"num":   numResults,
	})
	if err != nil {
		return createErrorResponse("google_search_error", err.Error(), requestID)
	}
	return resultResponse(requestID, result)
}

// processWikipediaImage handles "wikipediaimage <query> [size]".
func processWikipediaImage(query, requestID string) ([]byte, error) {
	rest := strings.TrimPrefix(query, "wikipediaimage ")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return createErrorResponse("invalid_params", "wikipediaimage requires a query", requestID)
	}

	size := 500
	terms := fields
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
			size = n
			terms = fields[:len(fields)-1]
		}
	}

	result, err := tools.HandleWikipediaImageTool(map[string]any{
		"query": strings.Join(terms, " "),
		"size":  size,
	})
	if err != nil {
		return createErrorResponse("wikipedia_image_error", err.Error(), requestID)
	}
	return resultResponse(requestID, result)
}

// processWikipediaImageSave handles "wikipediaimagesave <query> <size> <output_path>".
func processWikipediaImageSave(query, requestID string) ([]byte, error) {
	rest := strings.TrimPrefix(query, "wikipediaimagesave ")
	fields := strings.Fields(rest)
	if len(fields) < 3 {
		return createErrorResponse("invalid_params", "wikipediaimagesave requires a query, size and output path", requestID)
	}

	outputPath := fields[len(fields)-1]
	size, err := strconv.Atoi(fields[len(fields)-2])
	if err != nil {
		return createErrorResponse("invalid_params", "size must be an integer", requestID)
	}
	terms := fields[:len(fields)-2]

	result, err := tools.SaveWikipediaImage(strings.Join(terms, " "), size, outputPath)
	if err != nil {
		return createErrorResponse("wikipedia_image_save_error", err.Error(), requestID)
	}
	return resultResponse(requestID, result)
}

// ProcessRequest processes an MCP request and returns a response
func ProcessRequest(input []byte) ([]byte, error) {
	// Parse the input JSON
	var request MCPRequest
	if err := json.Unmarshal(input, &request); err != nil {
		logger.Error("Failed to parse input JSON", err)
		return createErrorResponse("invalid_request", fmt.Sprintf("Invalid JSON: %v", err), request.RequestID)
	}

	logger.Info("Processing request", request.Query)

	// Check if this is a calculator request
	if strings.HasPrefix(request.Query, "calculate ") {
		expression := strings.TrimPrefix(request.Query, "calculate ")
		result, err := tools.HandleCalculatorTool(map[string]interface{}{"expression": expression})
		if err != nil {
			logger.Error("Calculation error", err)
			return createErrorResponse("calculation_error", err.Error(), request.RequestID)
		}
		return resultResponse(request.RequestID, result)
	}

	// Check if this is a prompt registry request
	if strings.HasPrefix(request.Query, "list_prompts") || strings.HasPrefix(request.Query, "get_prompt ") {
		return processPromptRegistry(request.Query, request.RequestID)
	}

	// Check if this is a rules processor request
	if strings.HasPrefix(request.Query, "process_rules ") || strings.HasPrefix(request.Query, "get_rule_content ") {
		return processRulesProcessor(request.Query, request.RequestID)
	}

	// Check if this is a Google search request
	if strings.HasPrefix(request.Query, "googlesearch ") {
		return processGoogleSearch(request.Query, request.RequestID)
	}

	// Check if this is a Wikipedia image save request
	if strings.HasPrefix(request.Query, "wikipediaimagesave ") {
		return processWikipediaImageSave(request.Query, request.RequestID)
	}

	// Check if this is a Wikipedia image search request
	if strings.HasPrefix(request.Query, "wikipediaimage ") {
		return processWikipediaImage(request.Query, request.RequestID)
	}

	// Create a response with example tools
	response := MCPResponse{
		RequestID: request.RequestID,
		Tools: []Tool{
			{
				Name:        "calculator",
				Description: "A calculator tool that can perform basic arithmetic operations",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"expression": map[string]interface{}{
							"type":        "string",
							"description": "The arithmetic expression to calculate (e.g., '2 + 2')",
						},
					},
					"required": []string{"expression"},
				},
			},
			{
				Name:        "prompt_registry",
				Description: "A tool to manage and retrieve prompts from the prompt registry",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"action": map[string]interface{}{
							"type":        "string",
							"description": "The action to perform (list_prompts, get_prompt)",
							"enum":        []string{"list_prompts", "get_prompt"},
						},
						"prompt_id": map[string]interface{}{
							"type":        "string",
							"description": "The ID of the prompt to retrieve (required for get_prompt)",
						},
					},
					"required": []string{"action"},
				},
			},
			{
				Name:        "rules_processor",
				Description: "A tool to process files against development standard rules",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"action": map[string]interface{}{
							"type":        "string",
							"description": "The action to perform (process_rules, get_rule_content)",
							"enum":        []string{"process_rules", "get_rule_content"},
						},
						"file_path": map[string]interface{}{
							"type":        "string",
							"description": "The path to the file to process",
						},
						"registry_path": map[string]interface{}{
							"type":        "string",
							"description": "The path to the rules registry file",
						},
					},
					"required": []string{"action", "registry_path"},
				},
			},
			{
				Name:        "google_search",
				Description: "A tool to perform Google searches and return the top results",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "The search query to perform",
						},
						"num_results": map[string]interface{}{
							"type":        "integer",
							"description": "The number of results to return (default: 5, max: 10)",
							"default":     5,
							"maximum":     10,
						},
					},
					"required": []string{"query"},
				},
			},
			{
				Name:        "wikipedia_image",
				Description: "A tool to search for images on Wikipedia",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "The search query (e.g., 'Albert Einstein')",
						},
						"size": map[string]interface{}{
							"type":        "integer",
							"description": "The desired image size in pixels (default: 500)",
							"default":     500,
						},
					},
					"required": []string{"query"},
				},
			},
		},
		Suggestions: []string{
			"Try using the calculator tool with 'calculate 2 + 2'",
			"List available prompts with 'list_prompts'",
			"Get a specific prompt with 'get_prompt [id]'",
			"Process rules with 'process_rules [registry_path] [file_path]'",
			"Get rule content with 'get_rule_content [rule_id] [registry_path]'",
			"Search Google with 'googlesearch [query] [num_results]'",
			"Search Wikipedia for images with 'wikipediaimage [query] [size]'",
			"Save Wikipedia images to disk with 'wikipediaimagesave [query] [size] [output_path]'",
		},
		Metadata: map[string]interface{}{
			"version": "1.0.0",
		},
	}

	// Marshal the response to JSON
	jsonResult, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal response to JSON", err)
		return createErrorResponse("internal_error", "Failed to create response", request.RequestID)
	}

	return jsonResult, nil
}
