// Package streamablehttp implements the MCP Streamable HTTP transport: a
// single endpoint accepting POST (client-to-server messages), GET (opening
// a standalone server-to-client SSE stream) and DELETE (session teardown),
// with optional resumability via a pluggable eventstore.Store.
package streamablehttp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/eventstore"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/transport"
)

// standaloneStreamID is the well-known stream id for the server-initiated
// GET SSE stream, distinct from any POST-response stream.
const standaloneStreamID eventstore.StreamID = "_GET_stream"

// SessionIDGenerator produces a new session identifier. The default uses
// google/uuid; returning "" from a custom generator disables session
// management (stateless mode).
type SessionIDGenerator func() string

// DefaultSessionIDGenerator returns a securely-random UUID per call.
func DefaultSessionIDGenerator() string {
	return uuid.NewString()
}

// Options configures a ServerTransport.
type Options struct {
	// Path is the single HTTP endpoint the transport serves, e.g. "/mcp".
	Path string
	// SessionIDGenerator enables stateful mode when non-nil. A nil value
	// runs the transport in stateless mode: no session id is issued or
	// required.
	SessionIDGenerator SessionIDGenerator
	// OnSessionInitialized is called once a new session id is minted.
	OnSessionInitialized func(sessionID string)
	// EnableJSONResponse answers POST requests with a plain JSON body
	// instead of opening an SSE stream for the response.
	EnableJSONResponse bool
	// EventStore enables resumable SSE streams. Nil disables resumption.
	EventStore eventstore.Store
}

// pendingStream is one open SSE connection this transport is writing to,
// keyed either by request id (a POST response stream) or by
// standaloneStreamID (the GET stream).
type pendingStream struct {
	flusher http.Flusher
	w       http.ResponseWriter
	done    chan struct{}
}

// ServerTransport implements transport.Transport over the Streamable HTTP
// wire format described in §4.3. Unlike stdio/inmemory, it is driven by an
// http.Handler rather than owning its own read loop; wire it into a router
// with Handler().
type ServerTransport struct {
	opts Options

	mu            sync.Mutex
	sessionID     string
	initialized   bool
	streams       map[string]*pendingStream // keyed by request id
	standalone    *pendingStream
	inbox         chan json.RawMessage
	requestStream map[string]string // request id -> stream key, "" = standalone

	closeOnce sync.Once
	onClose   transport.OnCloseHandler
}

// NewServerTransport builds a streamable-HTTP transport. Call Handler to
// obtain the http.Handler to mount, and drive Send/Receive from the engine
// exactly as with any other transport.Transport.
func NewServerTransport(opts Options) *ServerTransport {
	if opts.Path == "" {
		opts.Path = "/mcp"
	}
	return &ServerTransport{
		opts:          opts,
		streams:       make(map[string]*pendingStream),
		inbox:         make(chan json.RawMessage, 256),
		requestStream: make(map[string]string),
	}
}

// SetOnClose registers a callback fired when the session is torn down via
// DELETE or an unrecoverable transport error.
func (t *ServerTransport) SetOnClose(fn transport.OnCloseHandler) {
	t.onClose = fn
}

// Start is a no-op; the transport is driven by incoming HTTP requests.
func (t *ServerTransport) Start(ctx context.Context) error { return nil }

// Receive returns the next inbound message posted by a client.
func (t *ServerTransport) Receive(ctx context.Context) (json.RawMessage, error) {
	select {
	case msg, ok := <-t.inbox:
		if !ok {
			return nil, transport.ErrTransportClosed
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Send delivers an outbound message to whichever open stream the engine
// designates: the response stream for the request it replies to, or the
// standalone GET stream for a server-initiated request/notification.
// Callers route by embedding the message's "id" (responses) to find the
// matching POST stream; anything else goes to the standalone stream.
func (t *ServerTransport) Send(ctx context.Context, message json.RawMessage) error {
	key := t.streamKeyFor(message)

	t.mu.Lock()
	var ps *pendingStream
	if key == "" {
		ps = t.standalone
	} else {
		ps = t.streams[key]
	}
	store := t.opts.EventStore
	t.mu.Unlock()

	streamID := standaloneStreamID
	if key != "" {
		streamID = eventstore.StreamID(key)
	}

	var eventID eventstore.EventID
	if store != nil {
		id, err := store.StoreEvent(ctx, streamID, message)
		if err != nil {
			logger.Error("streamablehttp: failed to store event:", err)
		}
		eventID = id
	}

	if ps == nil {
		// No live stream for this message yet (e.g. JSON-response mode, or
		// client hasn't opened the GET stream): nothing to flush now. The
		// message remains retrievable via replay once eventID exists.
		return nil
	}
	return writeSSEEvent(ps, eventID, message)
}

func writeSSEEvent(ps *pendingStream, id eventstore.EventID, message json.RawMessage) error {
	if id != "" {
		if _, err := fmt.Fprintf(ps.w, "id: %s\n", id); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(ps.w, "event: message\ndata: %s\n\n", message); err != nil {
		return err
	}
	ps.flusher.Flush()
	return nil
}

// streamKeyFor extracts the responding request id from a message, if any,
// so Send knows which POST stream to write to. Notifications and
// server-initiated requests return "" (the standalone stream).
func (t *ServerTransport) streamKeyFor(message json.RawMessage) string {
	var env struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(message, &env); err != nil || len(env.ID) == 0 {
		return ""
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if key, ok := t.requestStream[string(env.ID)]; ok {
		return key
	}
	return ""
}

// Close ends every open SSE stream and closes the inbox.
func (t *ServerTransport) Close() error {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		for _, ps := range t.streams {
			close(ps.done)
		}
		if t.standalone != nil {
			close(t.standalone.done)
		}
		t.mu.Unlock()
		close(t.inbox)
		if t.onClose != nil {
			t.onClose(nil)
		}
	})
	return nil
}

// Handler returns the http.Handler implementing POST/GET/DELETE on
// opts.Path, ready to mount on a gorilla/mux router.
func (t *ServerTransport) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(t.opts.Path, t.handlePost).Methods(http.MethodPost)
	r.HandleFunc(t.opts.Path, t.handleGet).Methods(http.MethodGet)
	r.HandleFunc(t.opts.Path, t.handleDelete).Methods(http.MethodDelete)
	return r
}

func (t *ServerTransport) handlePost(w http.ResponseWriter, r *http.Request) {
	if t.opts.SessionIDGenerator != nil {
		if err := t.checkSession(r); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	kind, err := protocol.Classify(body)
	if err != nil {
		writeJSONRPCError(w, protocol.ErrParse, "parse error: "+err.Error())
		return
	}

	if kind == protocol.KindRequest && t.opts.SessionIDGenerator != nil && !t.hasSession() {
		sid := t.opts.SessionIDGenerator()
		if sid != "" {
			t.mu.Lock()
			t.sessionID = sid
			t.mu.Unlock()
			if t.opts.OnSessionInitialized != nil {
				t.opts.OnSessionInitialized(sid)
			}
			w.Header().Set("Mcp-Session-Id", sid)
		}
	} else if t.hasSession() {
		w.Header().Set("Mcp-Session-Id", t.sessionIDValue())
	}

	var reqID string
	if kind == protocol.KindRequest {
		var env struct {
			ID json.RawMessage `json:"id"`
		}
		json.Unmarshal(body, &env)
		reqID = string(env.ID)
	}

	if kind == protocol.KindNotification || t.opts.EnableJSONResponse {
		t.inbox <- json.RawMessage(body)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	// Open an SSE stream dedicated to this request's response.
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ps := &pendingStream{flusher: flusher, w: w, done: make(chan struct{})}
	key := reqID
	t.mu.Lock()
	t.streams[key] = ps
	if reqID != "" {
		t.requestStream[reqID] = key
	}
	t.mu.Unlock()

	t.inbox <- json.RawMessage(body)

	select {
	case <-ps.done:
	case <-r.Context().Done():
	}

	t.mu.Lock()
	delete(t.streams, key)
	delete(t.requestStream, reqID)
	t.mu.Unlock()
}

func (t *ServerTransport) handleGet(w http.ResponseWriter, r *http.Request) {
	if t.opts.SessionIDGenerator != nil {
		if err := t.checkSession(r); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ps := &pendingStream{flusher: flusher, w: w, done: make(chan struct{})}
	t.mu.Lock()
	t.standalone = ps
	t.mu.Unlock()

	if lastEventID := r.Header.Get("Last-Event-ID"); lastEventID != "" && t.opts.EventStore != nil {
		_, err := t.opts.EventStore.ReplayAfter(r.Context(), eventstore.EventID(lastEventID), func(id eventstore.EventID, msg json.RawMessage) error {
			return writeSSEEvent(ps, id, msg)
		})
		if err != nil {
			logger.Error("streamablehttp: replay failed:", err)
		}
	}

	select {
	case <-ps.done:
	case <-r.Context().Done():
	}

	t.mu.Lock()
	if t.standalone == ps {
		t.standalone = nil
	}
	t.mu.Unlock()
}

func (t *ServerTransport) handleDelete(w http.ResponseWriter, r *http.Request) {
	if t.opts.SessionIDGenerator != nil {
		if err := t.checkSession(r); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
	t.Close()
}

func (t *ServerTransport) checkSession(r *http.Request) error {
	if !t.hasSession() {
		return nil
	}
	got := r.Header.Get("Mcp-Session-Id")
	if got == "" {
		return fmt.Errorf("Bad Request: Mcp-Session-Id header is required")
	}
	if got != t.sessionIDValue() {
		return fmt.Errorf("session not found")
	}
	return nil
}

func (t *ServerTransport) hasSession() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID != ""
}

func (t *ServerTransport) sessionIDValue() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

func writeJSONRPCError(w http.ResponseWriter, code int, message string) {
	resp := protocol.NewJsonRpcErrorResponse(code, message, nil, nil)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	b, _ := json.Marshal(resp)
	w.Write(b)
}
