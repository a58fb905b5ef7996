package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/prompts"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/resources"
	"github.com/richard-senior/mcp/pkg/tools"
	"github.com/richard-senior/mcp/pkg/transport"
)

// requestContext returns the background context used for transport reads and
// writes in this legacy request/response loop; there is no per-request
// deadline because the underlying stdio transport has none either.
func requestContext() context.Context {
	return context.Background()
}

// Server represents an MCP server. It predates pkg/engine and pkg/session;
// kept as the teacher's original request/response-shaped dispatch loop for
// the legacy "invoke_tool" wire format, adapted onto the new protocol
// types rather than the engine's bidirectional correlation (see
// cmd/mcpserver for the engine/session-based entrypoint).
type Server struct {
	transport transport.Transport
	handlers  map[string]HandlerFunc
	tools     []protocol.Tool
	resources []protocol.Resource
	prompts   []protocol.Prompt
}

// HandlerFunc is a function that handles an MCP request
type HandlerFunc func(params interface{}) (interface{}, error)

// Singleton instance
var (
	instance *Server
	once     sync.Once
	mu       sync.Mutex
)

// GetInstance returns the singleton instance of the Server
func GetInstance() *Server {
	if instance == nil {
		t := transport.NewStdioTransport()
		instance = InitInstance(t)
		logger.Warn("Server instance requested but not initialized. Use InitInstance first.")
	}
	return instance
}

// InitInstance initializes the singleton instance of the Server with the specified transport
func InitInstance(t transport.Transport) *Server {
	once.Do(func() {
		instance = &Server{
			transport: t,
			handlers:  make(map[string]HandlerFunc),
			tools:     []protocol.Tool{},
			resources: []protocol.Resource{},
			prompts:   []protocol.Prompt{},
		}
		instance.RegisterDefaultTools()
		instance.RegisterDefaultResources()
		instance.RegisterDefaultPrompts()
	})
	return instance
}

// RegisterTool registers a tool with the server
func (s *Server) RegisterTool(tool protocol.Tool, handler HandlerFunc) {
	mu.Lock()
	defer mu.Unlock()

	s.tools = append(s.tools, tool)
	s.handlers[tool.Name] = handler
	logger.Info("Registered tool:", tool.Name)
}

// RegisterResource registers a resource with the server
func (s *Server) RegisterResource(resource protocol.Resource) {
	mu.Lock()
	defer mu.Unlock()

	s.resources = append(s.resources, resource)
	logger.Info("Registered resource:", resource.Name)
}

// GetTools returns the list of registered tools
func (s *Server) GetTools() []protocol.Tool {
	mu.Lock()
	defer mu.Unlock()
	return s.tools
}

// RegisterDefaultTools registers all the default tools with the server
func (s *Server) RegisterDefaultTools() {
	logger.Info("Registering default tools...")

	register := func(t protocol.Tool, h HandlerFunc) {
		t.Name = "mcp___" + t.Name
		s.RegisterTool(t, h)
	}

	register(tools.GoogleSearchTool(), tools.HandleGoogleSearchTool)
	register(tools.HTMLToMarkdownTool(), tools.HandleURLToMarkdown)
	register(tools.WikipediaImageTool(), tools.HandleWikipediaImageTool)
	register(tools.NewMemeTool(), tools.HandleMemeTool)
	register(tools.NewThoughtsTool(), tools.HandleThoughts)
	register(tools.PromptRegistr_y(), tools.HandlePromptRegistryTool)
	register(tools.CalculatorTool(), tools.HandleCalculatorTool)
	register(tools.DateTimeTool(), tools.HandleDateTimeTool)
	register(tools.NewOrchastrationTool(), tools.HandleOrchastrationTool)
	register(tools.PoddsTool(), tools.HandlePoddsTool)
	register(tools.NewSvgTool(), tools.HandleSvgTool)

	register(tools.GoDebugLaunchTool(), tools.HandleGoDebugLaunch)
	register(tools.GoDebugContinueTool(), tools.HandleGoDebugContinue)
	register(tools.GoDebugStepTool(), tools.HandleGoDebugStep)
	register(tools.GoDebugStepOverTool(), tools.HandleGoDebugStepOver)
	register(tools.GoDebugStepOutTool(), tools.HandleGoDebugStepOut)
	register(tools.GoDebugSetBreakpointTool(), tools.HandleGoDebugSetBreakpoint)
	register(tools.GoDebugListBreakpointsTool(), tools.HandleGoDebugListBreakpoints)
	register(tools.GoDebugRemoveBreakpointTool(), tools.HandleGoDebugRemoveBreakpoint)
	register(tools.GoDebugEvalVariableTool(), tools.HandleGoDebugEvalVariable)
	register(tools.GoDebugCloseTool(), tools.HandleGoDebugClose)
	register(tools.GoDebugGetOutputTool(), tools.HandleGoDebugGetOutput)

	s.handlers[string(protocol.MethodInitialize)] = s.handleInitialize
	s.handlers[string(protocol.MethodNotificationsInitialized)] = s.handleInitialized
	s.handlers[string(protocol.MethodToolsList)] = s.handleToolsList
	s.handlers[string(protocol.MethodResourcesList)] = s.handleResourcesList
	s.handlers[string(protocol.MethodToolsCall)] = s.handleToolsCall
	s.handlers[string(protocol.MethodPromptsList)] = s.handlePromptsList
	s.handlers[string(protocol.MethodPromptsGet)] = s.handlePromptsGet
	s.handlers[string(protocol.MethodPing)] = s.handlePing
}

// RegisterDefaultPrompts loads the file-backed prompt templates from the
// global prompts registry and exposes them as prompts/list entries.
func (s *Server) RegisterDefaultPrompts() {
	logger.Info("Registering default prompts...")

	registry := prompts.GetGlobalRegistry()
	stored, err := registry.ListPrompts()
	if err != nil {
		logger.Error("Failed to load prompts from registry", err)
		return
	}

	promptList := make([]protocol.Prompt, 0, len(stored))
	for _, p := range stored {
		promptList = append(promptList, p.ToProtocolPrompt())
	}

	mu.Lock()
	s.prompts = promptList
	mu.Unlock()

	logger.Info("Loaded prompts from registry", len(promptList))
}

// RegisterDefaultResources registers all the default resources with the server
func (s *Server) RegisterDefaultResources() {
	logger.Info("Registering default resources...")
	s.RegisterResource(resources.ExampleResource())
	s.RegisterResource(resources.WeatherResource())
}

// Start starts the server and begins processing requests
func (s *Server) Start() error {
	logger.Info("Starting MCP server")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ProcessRequests()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("Received signal:", sig)
		return nil
	}
}

// ProcessRequests continuously processes incoming requests
func (s *Server) ProcessRequests() error {
	for {
		req, err := s.readRequest()
		if err != nil {
			return err
		}

		resp := s.handleRequest(req)
		if resp == nil {
			continue
		}

		if err := s.writeResponse(resp); err != nil {
			return err
		}
	}
}

func (s *Server) readRequest() (*protocol.JsonRpcRequest, error) {
	raw, err := s.transport.Receive(requestContext())
	if err != nil {
		return nil, err
	}
	return protocol.DecodeRequest(raw)
}

func (s *Server) writeResponse(resp *protocol.JsonRpcResponse) error {
	raw, err := protocol.Encode(resp)
	if err != nil {
		return err
	}
	return s.transport.Send(requestContext(), raw)
}

// handleRequest processes a request and returns a response
func (s *Server) handleRequest(req *protocol.JsonRpcRequest) *protocol.JsonRpcResponse {
	logger.Info(">> ", req.Method)

	if reqBytes, err := json.Marshal(req); err == nil {
		logger.Inform("Full request:", string(reqBytes))
	}

	if strings.HasPrefix(req.Method, "notifications/") {
		logger.Info("Received notification:", req.Method)
		return nil
	}

	resp := &protocol.JsonRpcResponse{
		JsonRPC: protocol.JsonRpcVersion,
		ID:      req.ID,
	}

	var handler HandlerFunc
	var params any

	if req.Method == string(protocol.MethodInvokeTool) {
		var invokeParams map[string]any
		if err := json.Unmarshal(req.Params, &invokeParams); err != nil {
			resp.Error = &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: "Invalid parameters for invoke_tool: " + err.Error()}
			return resp
		}

		toolName, ok := invokeParams["name"].(string)
		if !ok {
			resp.Error = &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: "Missing tool name in invoke_tool parameters"}
			return resp
		}

		logger.Info("Tool invocation requested for:", toolName)
		handler = s.handlers[toolName]
		if handler == nil && strings.HasPrefix(toolName, "mcp___") {
			strippedName := strings.TrimPrefix(toolName, "mcp___")
			logger.Info("Trying with stripped name:", strippedName)
			handler = s.handlers[strippedName]
		}
		params = invokeParams["parameters"]
	} else {
		handler = s.handlers[req.Method]
		params = req.Params
	}

	if handler == nil {
		resp.Error = &protocol.JsonRpcError{Code: protocol.ErrMethodNotFound, Message: fmt.Sprintf("Method not found: %s", req.Method)}
		return resp
	}

	result, err := handler(params)

	if err == nil && result == nil {
		return nil
	}

	if err != nil {
		resp.Error = &protocol.JsonRpcError{Code: protocol.ErrToolExecutionFailed, Message: err.Error()}
		return resp
	}

	resultBytes, err := json.MarshalIndent(result, "", " ")
	if err != nil {
		resp.Error = &protocol.JsonRpcError{Code: protocol.ErrInternal, Message: "Failed to marshal result: " + err.Error()}
		return resp
	}
	logger.Inform("output \n", string(resultBytes))
	resp.Result = resultBytes

	if respBytes, err := json.Marshal(resp); err == nil {
		logger.Inform("Full response:", string(respBytes))
	}

	return resp
}

func (s *Server) handlePing(params interface{}) (interface{}, error) {
	return map[string]any{}, nil
}

// handlePromptsList returns a list of stored prompts
func (s *Server) handlePromptsList(params interface{}) (interface{}, error) {
	logger.Info("Handling prompts/list request")
	return protocol.PromptsResponse{Prompts: s.prompts}, nil
}

// handlePromptsGet handles the prompts/get method
func (s *Server) handlePromptsGet(params interface{}) (interface{}, error) {
	logger.Info("Handling prompts/get request")

	type PromptsGetParams struct {
		Name      string            `json:"name"`
		Arguments map[string]string `json:"arguments,omitempty"`
	}

	var getParams PromptsGetParams
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %v", err)
	}
	if err := json.Unmarshal(paramsBytes, &getParams); err != nil {
		return nil, fmt.Errorf("invalid prompts/get parameters: %v", err)
	}

	logger.Info("Prompt get requested for:", getParams.Name)

	registry := prompts.GetGlobalRegistry()
	prompt, err := registry.GetPrompt(getParams.Name)
	if err != nil {
		return nil, fmt.Errorf("prompt not found: %s", getParams.Name)
	}

	return prompt.Render(getParams.Arguments), nil
}

// handleToolsList handles the tools/list method
func (s *Server) handleToolsList(params interface{}) (interface{}, error) {
	logger.Info("Handling tools/list request")
	return protocol.ToolsResponse{Tools: s.tools}, nil
}

// handleResourcesList handles the resources/list method
func (s *Server) handleResourcesList(params interface{}) (interface{}, error) {
	logger.Info("Handling resources/list request")
	return protocol.ResourcesResponse{Resources: s.resources}, nil
}

// handleInitialize handles the initialize method
func (s *Server) handleInitialize(params interface{}) (interface{}, error) {
	logger.Info("Handling initialize request with", len(s.tools), "tools and", len(s.prompts), "prompts registered")

	requestedProtocolVersion := "2024-11-05"

	var paramsMap map[string]interface{}
	if params != nil {
		if jsonBytes, ok := params.(json.RawMessage); ok {
			json.Unmarshal(jsonBytes, &paramsMap)
		} else if directMap, ok := params.(map[string]interface{}); ok {
			paramsMap = directMap
		}
		if version, exists := paramsMap["protocolVersion"].(string); exists {
			requestedProtocolVersion = version
		}
	}

	caps := protocol.ServerCapabilities{}
	if len(s.tools) > 0 {
		caps.Tools = &protocol.ToolsCapability{ListChanged: true}
	}
	if len(s.prompts) > 0 {
		caps.Prompts = &protocol.PromptsCapability{ListChanged: true}
	}
	if len(s.resources) > 0 {
		caps.Resources = &protocol.ResourcesCapability{ListChanged: true}
	}

	return struct {
		ProtocolVersion string                     `json:"protocolVersion"`
		Capabilities    protocol.ServerCapabilities `json:"capabilities"`
		ServerInfo      protocol.Implementation    `json:"serverInfo"`
	}{
		ProtocolVersion: requestedProtocolVersion,
		Capabilities:    caps,
		ServerInfo:      protocol.Implementation{Name: "mcp", Version: "1.0.0"},
	}, nil
}

// handleInitialized handles the initialized notification
func (s *Server) handleInitialized(params interface{}) (interface{}, error) {
	logger.Info("Handling initialized notification")
	return nil, nil
}

func (s *Server) handleToolsCall(params any) (any, error) {
	logger.Info("Handling tools/call request")

	type ToolCallParams struct {
		Arguments map[string]any `json:"arguments"`
		Name      string         `json:"name"`
	}

	var toolCallParams ToolCallParams
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %v", err)
	}
	if err := json.Unmarshal(paramsBytes, &toolCallParams); err != nil {
		return nil, fmt.Errorf("invalid tools/call parameters: %v", err)
	}

	logger.Info("Tool call requested for:", toolCallParams.Name)

	toolName := toolCallParams.Name
	handler := s.handlers[toolName]
	if handler == nil && strings.HasPrefix(toolName, "mcp___") {
		strippedName := strings.TrimPrefix(toolName, "mcp___")
		logger.Info("Trying with stripped name:", strippedName)
		handler = s.handlers[strippedName]
	}
	if handler == nil {
		return nil, fmt.Errorf("tool not found: %s", toolName)
	}

	result, err := handler(toolCallParams.Arguments)
	if err != nil {
		return nil, fmt.Errorf("tool execution failed: %v", err)
	}
	return result, nil
}
