// Command mcpserver wires the engine/session/registry stack over a stdio
// transport: the Go-native successor to cmd/main.go's singleton Server,
// built directly against pkg/engine and pkg/registry rather than the
// teacher's original ad hoc handler map.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/engine"
	"github.com/richard-senior/mcp/pkg/prompts"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/registry"
	"github.com/richard-senior/mcp/pkg/resources"
	"github.com/richard-senior/mcp/pkg/session"
	"github.com/richard-senior/mcp/pkg/tools"
	"github.com/richard-senior/mcp/pkg/transport"
)

func main() {
	logger.SetLogOutput('f')
	logger.SetShowDateTime(true)
	logger.SetLevel(logger.FATAL) // stdout is the wire; keep it JSON-RPC only

	toolRegistry := registry.NewTools()
	promptRegistry := registry.NewPrompts()
	resourceRegistry := registry.NewResources()
	subs := registry.NewSubscriptions()

	registerTools(toolRegistry)
	registerPrompts(promptRegistry)
	registerResources(resourceRegistry)

	t := transport.NewStdioTransport()
	e := engine.New(t)
	sess := session.New(session.RoleServer, e)

	sess.ServeAsServer(
		protocol.Implementation{Name: "mcp", Version: "1.0.0"},
		serverCapabilities(toolRegistry, promptRegistry, resourceRegistry),
	)

	registerFeatureHandlers(e, toolRegistry, promptRegistry, resourceRegistry, subs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() { errChan <- e.Run(ctx) }()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("engine run loop exited", err)
		}
	case sig := <-sigChan:
		logger.Info("received signal", sig)
		sess.Shutdown()
	}
}

func serverCapabilities(t *registry.Tools, p *registry.Prompts, r *registry.Resources) protocol.ServerCapabilities {
	caps := protocol.ServerCapabilities{}
	if t.Len() > 0 {
		caps.Tools = &protocol.ToolsCapability{ListChanged: true}
	}
	if len(p.List()) > 0 {
		caps.Prompts = &protocol.PromptsCapability{ListChanged: true}
	}
	if len(r.ListConcrete()) > 0 || len(r.ListTemplates()) > 0 {
		caps.Resources = &protocol.ResourcesCapability{ListChanged: true, Subscribe: true}
	}
	return caps
}

func registerTools(reg *registry.Tools) {
	add := func(tool protocol.Tool, handler func(interface{}) (any, error)) {
		reg.Add(tool, func(arguments map[string]any) (protocol.CallToolResult, error) {
			return toCallToolResult(handler(arguments))
		})
	}

	add(tools.CalculatorTool(), tools.HandleCalculatorTool)
	add(tools.DateTimeTool(), tools.HandleDateTimeTool)
	add(tools.GoogleSearchTool(), tools.HandleGoogleSearchTool)
	add(tools.HTMLToMarkdownTool(), tools.HandleURLToMarkdown)
	add(tools.WikipediaImageTool(), tools.HandleWikipediaImageTool)
	add(tools.NewMemeTool(), tools.HandleMemeTool)
	add(tools.NewThoughtsTool(), tools.HandleThoughts)
	add(tools.NewOrchastrationTool(), tools.HandleOrchastrationTool)
	add(tools.PoddsTool(), tools.HandlePoddsTool)
	add(tools.NewSvgTool(), tools.HandleSvgTool)
	add(tools.PromptRegistr_y(), tools.HandlePromptRegistryTool)
}

// toCallToolResult adapts the teacher's loosely-typed tool handlers (any
// JSON-marshalable value, or an error) onto the wire-shaped CallToolResult.
func toCallToolResult(result any, err error) (protocol.CallToolResult, error) {
	if err != nil {
		return protocol.CallToolResult{
			Content: []protocol.Content{protocol.TextContent(err.Error())},
			IsError: true,
		}, nil
	}
	if text, ok := result.(string); ok {
		return protocol.CallToolResult{Content: []protocol.Content{protocol.TextContent(text)}}, nil
	}
	b, merr := json.Marshal(result)
	if merr != nil {
		return protocol.CallToolResult{}, merr
	}
	return protocol.CallToolResult{
		Content:           []protocol.Content{protocol.TextContent(string(b))},
		StructuredContent: result,
	}, nil
}

func registerPrompts(reg *registry.Prompts) {
	store := prompts.GetGlobalRegistry()
	stored, err := store.ListPrompts()
	if err != nil {
		logger.Error("failed to load prompts", err)
		return
	}
	for i := range stored {
		p := stored[i]
		reg.Add(p.ToProtocolPrompt(), func(arguments map[string]string) (protocol.GetPromptResult, error) {
			live, err := store.GetPrompt(p.ID)
			if err != nil {
				return protocol.GetPromptResult{}, err
			}
			return live.Render(arguments), nil
		})
	}
}

func registerResources(reg *registry.Resources) {
	reg.AddConcrete(resources.ExampleResource(), func(uri string) (protocol.ReadResourceResult, error) {
		result, err := resources.HandleResourceQuery("example_documentation", nil)
		return toReadResourceResult(uri, result, err)
	})
	reg.AddConcrete(resources.WeatherResource(), func(uri string) (protocol.ReadResourceResult, error) {
		result, err := resources.HandleResourceQuery("weather_data", nil)
		return toReadResourceResult(uri, result, err)
	})
}

func toReadResourceResult(uri string, result any, err error) (protocol.ReadResourceResult, error) {
	if err != nil {
		return protocol.ReadResourceResult{}, err
	}
	b, merr := json.Marshal(result)
	if merr != nil {
		return protocol.ReadResourceResult{}, merr
	}
	return protocol.ReadResourceResult{
		Contents: []protocol.ResourceContents{{URI: uri, MimeType: "application/json", Text: string(b)}},
	}, nil
}

// registerFeatureHandlers binds tools/prompts/resources/* methods onto the
// engine on top of the initialize/initialized pair session.ServeAsServer
// already registered.
func registerFeatureHandlers(e *engine.Engine, toolReg *registry.Tools, promptReg *registry.Prompts, resourceReg *registry.Resources, subs *registry.Subscriptions) {
	e.SetRequestHandler(string(protocol.MethodToolsList), func(ctx context.Context, params json.RawMessage) (any, error) {
		return protocol.ToolsResponse{Tools: toolReg.List()}, nil
	})

	e.SetRequestHandler(string(protocol.MethodToolsCall), func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		_, handler, ok := toolReg.Get(p.Name)
		if !ok {
			return nil, protocol.NewJsonRpcErrorResponse(protocol.ErrMethodNotFound, "unknown tool: "+p.Name, nil, nil).Error
		}
		return handler(p.Arguments)
	})

	e.SetRequestHandler(string(protocol.MethodPromptsList), func(ctx context.Context, params json.RawMessage) (any, error) {
		return protocol.PromptsResponse{Prompts: promptReg.List()}, nil
	})

	e.SetRequestHandler(string(protocol.MethodPromptsGet), func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Name      string            `json:"name"`
			Arguments map[string]string `json:"arguments"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		_, handler, ok := promptReg.Get(p.Name)
		if !ok {
			return nil, protocol.NewJsonRpcErrorResponse(protocol.ErrInvalidParams, "unknown prompt: "+p.Name, nil, nil).Error
		}
		return handler(p.Arguments)
	})

	e.SetRequestHandler(string(protocol.MethodResourcesList), func(ctx context.Context, params json.RawMessage) (any, error) {
		return protocol.ResourcesResponse{Resources: resourceReg.ListConcrete()}, nil
	})

	e.SetRequestHandler(string(protocol.MethodResourcesTemplatesList), func(ctx context.Context, params json.RawMessage) (any, error) {
		return protocol.ResourceTemplatesResponse{ResourceTemplates: resourceReg.ListTemplates()}, nil
	})

	e.SetRequestHandler(string(protocol.MethodResourcesRead), func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			URI string `json:"uri"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		handler, templated, vars, ok := resourceReg.Resolve(p.URI)
		if !ok {
			return nil, protocol.NewJsonRpcErrorResponse(protocol.ErrInvalidParams, "unknown resource: "+p.URI, nil, nil).Error
		}
		if handler != nil {
			return handler(p.URI)
		}
		return templated(p.URI, vars)
	})

	e.SetRequestHandler(string(protocol.MethodResourcesSubscribe), func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			URI string `json:"uri"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		subs.Subscribe(p.URI, registry.ConnectionID("stdio"))
		return map[string]any{}, nil
	})

	e.SetRequestHandler(string(protocol.MethodResourcesUnsubscribe), func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			URI string `json:"uri"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		subs.Unsubscribe(p.URI, registry.ConnectionID("stdio"))
		return map[string]any{}, nil
	})
}
