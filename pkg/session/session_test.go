package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/mcp/pkg/engine"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/transport"
)

func newSessionPair(t *testing.T) (*Session, *Session, func()) {
	t.Helper()
	clientT, serverT := transport.NewInMemoryTransportPair()
	clientEngine := engine.New(clientT)
	serverEngine := engine.New(serverT)

	client := New(RoleClient, clientEngine)
	server := New(RoleServer, serverEngine)

	ctx, cancel := context.WithCancel(context.Background())
	go clientEngine.Run(ctx)
	go serverEngine.Run(ctx)

	return client, server, cancel
}

func TestInitializeHandshakeTransitionsBothSides(t *testing.T) {
	client, server, cancel := newSessionPair(t)
	defer cancel()

	server.ServeAsServer(
		protocol.Implementation{Name: "test-server", Version: "1.0"},
		protocol.ServerCapabilities{Tools: &protocol.ToolsCapability{}},
	)

	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	result, err := client.InitializeAsClient(ctx,
		protocol.Implementation{Name: "test-client", Version: "1.0"},
		protocol.ClientCapabilities{Roots: &protocol.RootsCapability{}},
	)
	require.NoError(t, err)
	assert.Equal(t, "test-server", result.ServerInfo.Name)
	assert.Equal(t, StateOperating, client.State())

	// Give the server's notification handler a moment to run.
	require.Eventually(t, func() bool {
		return server.State() == StateOperating
	}, time.Second, 10*time.Millisecond)

	assert.NotNil(t, server.ClientCapabilities().Roots)
	assert.NotNil(t, client.ServerCapabilities().Tools)
}

func TestShutdownTerminatesSession(t *testing.T) {
	client, _, cancel := newSessionPair(t)
	defer cancel()

	assert.NoError(t, client.Shutdown())
	assert.Equal(t, StateTerminated, client.State())
}

func TestAssertCapabilityForMethodMissing(t *testing.T) {
	clientT, serverT := transport.NewInMemoryTransportPair()
	_ = serverT
	s := New(RoleClient, engine.New(clientT))

	err := s.AssertCapabilityForMethod(string(protocol.MethodToolsList))
	assert.Error(t, err)
}

func TestAssertCapabilityForMethodPresent(t *testing.T) {
	clientT, serverT := transport.NewInMemoryTransportPair()
	_ = serverT
	s := New(RoleClient, engine.New(clientT))
	s.serverCapabilities = protocol.ServerCapabilities{Tools: &protocol.ToolsCapability{}}

	assert.NoError(t, s.AssertCapabilityForMethod(string(protocol.MethodToolsList)))
}

func TestAssertNotificationCapability(t *testing.T) {
	clientT, serverT := transport.NewInMemoryTransportPair()
	_ = serverT
	s := New(RoleServer, engine.New(clientT))

	assert.Error(t, s.AssertNotificationCapability(string(protocol.MethodNotificationsToolsListChanged)))

	s.serverCapabilities = protocol.ServerCapabilities{Tools: &protocol.ToolsCapability{ListChanged: true}}
	assert.NoError(t, s.AssertNotificationCapability(string(protocol.MethodNotificationsToolsListChanged)))
}

func TestAssertRequestHandlerCapabilityAlwaysPermits(t *testing.T) {
	clientT, _ := transport.NewInMemoryTransportPair()
	s := New(RoleServer, engine.New(clientT))
	assert.NoError(t, s.AssertRequestHandlerCapability(string(protocol.MethodSamplingCreateMessage)))
}
