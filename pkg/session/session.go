// Package session implements the MCP session state machine and the
// initialize handshake for both roles, plus the capability gate that
// decides whether a given request/notification/handler registration is
// allowed given what was actually negotiated.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/engine"
	"github.com/richard-senior/mcp/pkg/mcperr"
	"github.com/richard-senior/mcp/pkg/protocol"
)

// State is one point in the session lifecycle.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateInitializing
	StateInitialized
	StateOperating
	StateShuttingDown
	StateTerminated
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateOperating:
		return "operating"
	case StateShuttingDown:
		return "shutting_down"
	case StateTerminated:
		return "terminated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ProtocolVersion is the version string this package negotiates.
const ProtocolVersion = "2024-11-05"

// Role distinguishes a session's side of the connection, for the
// capability gate (a client checks server capabilities and vice versa).
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

// Session tracks negotiated capabilities and lifecycle state for one
// connection, on top of an engine.Engine driving the wire.
type Session struct {
	role   Role
	engine *engine.Engine

	mu                 sync.RWMutex
	state              State
	clientInfo         protocol.Implementation
	serverInfo         protocol.Implementation
	clientCapabilities protocol.ClientCapabilities
	serverCapabilities protocol.ServerCapabilities
}

// New wraps engine with session-state tracking for the given role.
func New(role Role, e *engine.Engine) *Session {
	return &Session{role: role, engine: e, state: StateDisconnected}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	logger.Debug("session: transitioned to", st.String())
}

// InitializeParams is the params object a client sends with "initialize".
type InitializeParams struct {
	ProtocolVersion string                    `json:"protocolVersion"`
	Capabilities    protocol.ClientCapabilities `json:"capabilities"`
	ClientInfo      protocol.Implementation   `json:"clientInfo"`
}

// InitializeResult is the result object a server replies with.
type InitializeResult struct {
	ProtocolVersion string                    `json:"protocolVersion"`
	Capabilities    protocol.ServerCapabilities `json:"capabilities"`
	ServerInfo      protocol.Implementation   `json:"serverInfo"`
}

// InitializeAsClient runs the client side of the handshake: sends
// "initialize", records the server's reply, then sends the
// notifications/initialized acknowledgement.
func (s *Session) InitializeAsClient(ctx context.Context, clientInfo protocol.Implementation, caps protocol.ClientCapabilities) (InitializeResult, error) {
	s.setState(StateConnecting)
	s.setState(StateInitializing)

	s.mu.Lock()
	s.clientInfo = clientInfo
	s.clientCapabilities = caps
	s.mu.Unlock()

	raw, err := s.engine.Request(ctx, string(protocol.MethodInitialize), InitializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    caps,
		ClientInfo:      clientInfo,
	})
	if err != nil {
		s.setState(StateError)
		return InitializeResult{}, err
	}

	var result InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		s.setState(StateError)
		return InitializeResult{}, mcperr.Wrap(protocol.ErrInternal, "decode initialize result", err)
	}

	s.mu.Lock()
	s.serverInfo = result.ServerInfo
	s.serverCapabilities = result.Capabilities
	s.mu.Unlock()

	if err := s.engine.Notification(ctx, string(protocol.MethodNotificationsInitialized), nil); err != nil {
		s.setState(StateError)
		return result, err
	}

	s.setState(StateInitialized)
	s.setState(StateOperating)
	return result, nil
}

// ServeAsServer registers the initialize/initialized handlers a server-role
// session needs; call once before engine.Run.
func (s *Session) ServeAsServer(serverInfo protocol.Implementation, caps protocol.ServerCapabilities) {
	s.mu.Lock()
	s.serverInfo = serverInfo
	s.serverCapabilities = caps
	s.mu.Unlock()

	s.setState(StateConnecting)

	s.engine.SetRequestHandler(string(protocol.MethodInitialize), func(ctx context.Context, params json.RawMessage) (any, error) {
		s.setState(StateInitializing)

		var p InitializeParams
		if len(params) > 0 {
			if err := json.Unmarshal(params, &p); err != nil {
				s.setState(StateError)
				return nil, mcperr.Wrap(protocol.ErrInvalidParams, "decode initialize params", err)
			}
		}

		s.mu.Lock()
		s.clientInfo = p.ClientInfo
		s.clientCapabilities = p.Capabilities
		s.mu.Unlock()

		return InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    caps,
			ServerInfo:      serverInfo,
		}, nil
	})

	s.engine.SetNotificationHandler(string(protocol.MethodNotificationsInitialized), func(ctx context.Context, params json.RawMessage) {
		s.setState(StateInitialized)
		s.setState(StateOperating)
	})
}

// ClientCapabilities returns the capabilities negotiated by the peer
// client (meaningful on a server-role session once initialized).
func (s *Session) ClientCapabilities() protocol.ClientCapabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientCapabilities
}

// ServerCapabilities returns the capabilities negotiated by the peer
// server (meaningful on a client-role session once initialized).
func (s *Session) ServerCapabilities() protocol.ServerCapabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serverCapabilities
}

// Shutdown moves the session to ShuttingDown then Terminated and closes
// the underlying engine. Safe to call more than once.
func (s *Session) Shutdown() error {
	s.setState(StateShuttingDown)
	err := s.engine.Close()
	s.setState(StateTerminated)
	return err
}

// --- capability gate -------------------------------------------------

// AssertCapabilityForMethod checks that the peer negotiated whatever
// capability method requires before this session issues it as a request,
// mirroring the original SDK's AssertCapabilityForMethod hook.
func (s *Session) AssertCapabilityForMethod(method string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch method {
	case string(protocol.MethodSamplingCreateMessage):
		if s.role == RoleServer && s.clientCapabilities.Sampling == nil {
			return fmt.Errorf("%w: sampling", mcperr.ErrCapabilityMissing)
		}
	case string(protocol.MethodRootsList):
		if s.role == RoleServer && s.clientCapabilities.Roots == nil {
			return fmt.Errorf("%w: roots", mcperr.ErrCapabilityMissing)
		}
	case string(protocol.MethodToolsList), string(protocol.MethodToolsCall):
		if s.role == RoleClient && s.serverCapabilities.Tools == nil {
			return fmt.Errorf("%w: tools", mcperr.ErrCapabilityMissing)
		}
	case string(protocol.MethodResourcesList), string(protocol.MethodResourcesRead),
		string(protocol.MethodResourcesTemplatesList):
		if s.role == RoleClient && s.serverCapabilities.Resources == nil {
			return fmt.Errorf("%w: resources", mcperr.ErrCapabilityMissing)
		}
	case string(protocol.MethodResourcesSubscribe), string(protocol.MethodResourcesUnsubscribe):
		if s.role == RoleClient && (s.serverCapabilities.Resources == nil || !s.serverCapabilities.Resources.Subscribe) {
			return fmt.Errorf("%w: resources.subscribe", mcperr.ErrCapabilityMissing)
		}
	case string(protocol.MethodPromptsList), string(protocol.MethodPromptsGet):
		if s.role == RoleClient && s.serverCapabilities.Prompts == nil {
			return fmt.Errorf("%w: prompts", mcperr.ErrCapabilityMissing)
		}
	case string(protocol.MethodLoggingSetLevel):
		if s.role == RoleClient && s.serverCapabilities.Logging == nil {
			return fmt.Errorf("%w: logging", mcperr.ErrCapabilityMissing)
		}
	case string(protocol.MethodCompletionComplete):
		if s.role == RoleClient && s.serverCapabilities.Completions == nil {
			return fmt.Errorf("%w: completions", mcperr.ErrCapabilityMissing)
		}
	}
	return nil
}

// AssertNotificationCapability checks that this session may emit the given
// notification method given what was negotiated.
func (s *Session) AssertNotificationCapability(method string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch method {
	case string(protocol.MethodNotificationsToolsListChanged):
		if s.serverCapabilities.Tools == nil || !s.serverCapabilities.Tools.ListChanged {
			return fmt.Errorf("%w: tools.listChanged", mcperr.ErrCapabilityMissing)
		}
	case string(protocol.MethodNotificationsPromptsListChanged):
		if s.serverCapabilities.Prompts == nil || !s.serverCapabilities.Prompts.ListChanged {
			return fmt.Errorf("%w: prompts.listChanged", mcperr.ErrCapabilityMissing)
		}
	case string(protocol.MethodNotificationsResourcesListChanged):
		if s.serverCapabilities.Resources == nil || !s.serverCapabilities.Resources.ListChanged {
			return fmt.Errorf("%w: resources.listChanged", mcperr.ErrCapabilityMissing)
		}
	case string(protocol.MethodNotificationsRootsListChanged):
		if s.clientCapabilities.Roots == nil || !s.clientCapabilities.Roots.ListChanged {
			return fmt.Errorf("%w: roots.listChanged", mcperr.ErrCapabilityMissing)
		}
	}
	return nil
}

// AssertRequestHandlerCapability checks that this session is allowed to
// register a handler for method at all, before SetRequestHandler runs.
func (s *Session) AssertRequestHandlerCapability(method string) error {
	// Registration is always permitted locally; the gate that matters is
	// whether the *peer* will ever be allowed to call it, which is
	// enforced on their side via AssertCapabilityForMethod. Kept as an
	// explicit hook (rather than omitted) so a future local policy -
	// e.g. refusing to serve sampling/createMessage without a configured
	// backend - has one place to plug into.
	return nil
}
