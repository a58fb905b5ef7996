package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/mcp/pkg/protocol"
)

func TestToolsAddGetRemove(t *testing.T) {
	reg := NewTools()
	tool := protocol.Tool{Name: "echo"}
	handler := func(args map[string]any) (protocol.CallToolResult, error) {
		return protocol.CallToolResult{}, nil
	}

	assert.True(t, reg.Add(tool, handler))
	assert.False(t, reg.Add(tool, handler), "duplicate add must fail")

	_, _, ok := reg.Get("echo")
	assert.True(t, ok)

	assert.Equal(t, 1, reg.Len())
	assert.True(t, reg.Remove("echo"))
	assert.True(t, reg.Remove("echo"), "remove is idempotent")

	_, _, ok = reg.Get("echo")
	assert.False(t, ok)
}

func TestToolsListSorted(t *testing.T) {
	reg := NewTools()
	h := func(args map[string]any) (protocol.CallToolResult, error) { return protocol.CallToolResult{}, nil }
	reg.Add(protocol.Tool{Name: "zeta"}, h)
	reg.Add(protocol.Tool{Name: "alpha"}, h)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "zeta", list[1].Name)
}

func TestPromptsAddGetList(t *testing.T) {
	reg := NewPrompts()
	h := func(args map[string]string) (protocol.GetPromptResult, error) { return protocol.GetPromptResult{}, nil }

	assert.True(t, reg.Add(protocol.Prompt{Name: "greet"}, h))
	_, _, ok := reg.Get("greet")
	assert.True(t, ok)
	assert.Len(t, reg.List(), 1)
}

func TestResourcesConcreteResolve(t *testing.T) {
	reg := NewResources()
	h := func(uri string) (protocol.ReadResourceResult, error) {
		return protocol.ReadResourceResult{Contents: []protocol.ResourceContents{{URI: uri}}}, nil
	}
	assert.True(t, reg.AddConcrete(protocol.Resource{URI: "file:///a.txt"}, h))

	handler, templated, vars, ok := reg.Resolve("file:///a.txt")
	require.True(t, ok)
	assert.NotNil(t, handler)
	assert.Nil(t, templated)
	assert.Nil(t, vars)
}

func TestResourcesTemplateResolve(t *testing.T) {
	reg := NewResources()
	th := func(uri string, vars map[string]string) (protocol.ReadResourceResult, error) {
		return protocol.ReadResourceResult{}, nil
	}
	require.NoError(t, reg.AddTemplate(protocol.ResourceTemplate{URITemplate: "file:///{name}"}, th))

	handler, templated, vars, ok := reg.Resolve("file:///notes.txt")
	require.True(t, ok)
	assert.Nil(t, handler)
	assert.NotNil(t, templated)
	assert.Equal(t, "notes.txt", vars["name"])
}

func TestResourcesConcreteWinsOverTemplate(t *testing.T) {
	reg := NewResources()
	concreteCalled := false
	reg.AddConcrete(protocol.Resource{URI: "file:///exact.txt"}, func(uri string) (protocol.ReadResourceResult, error) {
		concreteCalled = true
		return protocol.ReadResourceResult{}, nil
	})
	reg.AddTemplate(protocol.ResourceTemplate{URITemplate: "file:///{name}"}, func(uri string, vars map[string]string) (protocol.ReadResourceResult, error) {
		return protocol.ReadResourceResult{}, nil
	})

	handler, templated, _, ok := reg.Resolve("file:///exact.txt")
	require.True(t, ok)
	require.NotNil(t, handler)
	assert.Nil(t, templated)

	_, err := handler("file:///exact.txt")
	require.NoError(t, err)
	assert.True(t, concreteCalled)
}

func TestRootsRejectsNonFileURI(t *testing.T) {
	reg := NewRoots()
	assert.False(t, reg.Add(protocol.Root{URI: "https://example.com"}))
	assert.True(t, reg.Add(protocol.Root{URI: "file:///home/user"}))
	assert.False(t, reg.Add(protocol.Root{URI: "file:///home/user"}), "duplicate must fail")
	assert.Len(t, reg.List(), 1)
}

func TestSubscriptions(t *testing.T) {
	subs := NewSubscriptions()
	subs.Subscribe("file:///a.txt", ConnectionID("conn1"))
	subs.Subscribe("file:///a.txt", ConnectionID("conn2"))

	assert.ElementsMatch(t, []ConnectionID{"conn1", "conn2"}, subs.Subscribers("file:///a.txt"))

	subs.Unsubscribe("file:///a.txt", ConnectionID("conn1"))
	assert.Equal(t, []ConnectionID{"conn2"}, subs.Subscribers("file:///a.txt"))

	subs.UnsubscribeAll(ConnectionID("conn2"))
	assert.Empty(t, subs.Subscribers("file:///a.txt"))
}
