// Package engine implements the Protocol Engine: the transport-agnostic
// request/response/notification correlation layer both client and server
// roles share. It tracks outstanding requests, enforces per-request and
// total timeouts, routes progress notifications back to the request that
// asked for them, and dispatches inbound requests/notifications to
// registered handlers.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/mcperr"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/transport"
)

// DefaultRequestTimeout is how long Request waits for a response before
// failing with ErrRequestTimeout, absent an explicit override.
const DefaultRequestTimeout = 60 * time.Second

// RequestHandlerFunc answers an inbound request. A non-nil error is
// converted to a JSON-RPC error response via mcperr.ToJsonRpcError.
type RequestHandlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

// NotificationHandlerFunc processes an inbound notification; it returns no
// response because notifications never get one.
type NotificationHandlerFunc func(ctx context.Context, params json.RawMessage)

// ProgressHandler is invoked for each notifications/progress received that
// correlates to a request this engine issued with WithProgress.
type ProgressHandler func(progress, total float64, message string)

// RequestOption customizes one outbound Request call.
type RequestOption func(*requestConfig)

type requestConfig struct {
	timeout                time.Duration
	maxTotalTimeout         time.Duration
	resetTimeoutOnProgress  bool
	onProgress              ProgressHandler
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) RequestOption {
	return func(c *requestConfig) { c.timeout = d }
}

// WithMaxTotalTimeout caps the total time a request may run even if
// progress notifications keep resetting its rolling timeout.
func WithMaxTotalTimeout(d time.Duration) RequestOption {
	return func(c *requestConfig) { c.maxTotalTimeout = d }
}

// WithProgress registers a handler for notifications/progress correlated
// to this request, and resets the request's timeout every time one
// arrives.
func WithProgress(resetTimeout bool, onProgress ProgressHandler) RequestOption {
	return func(c *requestConfig) {
		c.resetTimeoutOnProgress = resetTimeout
		c.onProgress = onProgress
	}
}

type pendingRequest struct {
	result chan *protocol.JsonRpcResponse
	cfg    requestConfig

	mu        sync.Mutex
	timer     *time.Timer
	totalTimer *time.Timer
	progressToken string
}

// Engine is the transport-agnostic correlation layer. One Engine is bound
// to exactly one Transport for its lifetime.
type Engine struct {
	t transport.Transport

	nextID int64

	mu      sync.Mutex
	pending map[string]*pendingRequest

	handlerMu            sync.RWMutex
	requestHandlers      map[string]RequestHandlerFunc
	notificationHandlers map[string]NotificationHandlerFunc
	fallbackRequest      RequestHandlerFunc
	fallbackNotification NotificationHandlerFunc

	closeOnce sync.Once
	closed    chan struct{}
}

// New builds an Engine driving t. Call Run to start its read loop.
func New(t transport.Transport) *Engine {
	e := &Engine{
		t:                    t,
		pending:              make(map[string]*pendingRequest),
		requestHandlers:      make(map[string]RequestHandlerFunc),
		notificationHandlers: make(map[string]NotificationHandlerFunc),
		closed:               make(chan struct{}),
	}
	e.SetRequestHandler(string(protocol.MethodPing), func(ctx context.Context, params json.RawMessage) (any, error) {
		return map[string]any{}, nil
	})
	return e
}

// SetRequestHandler registers the handler invoked for inbound requests
// with the given method, replacing any previous registration.
func (e *Engine) SetRequestHandler(method string, h RequestHandlerFunc) {
	e.handlerMu.Lock()
	defer e.handlerMu.Unlock()
	e.requestHandlers[method] = h
}

// SetNotificationHandler registers the handler invoked for inbound
// notifications with the given method.
func (e *Engine) SetNotificationHandler(method string, h NotificationHandlerFunc) {
	e.handlerMu.Lock()
	defer e.handlerMu.Unlock()
	e.notificationHandlers[method] = h
}

// SetFallbackRequestHandler registers the handler used when no specific
// method handler matches an inbound request.
func (e *Engine) SetFallbackRequestHandler(h RequestHandlerFunc) {
	e.handlerMu.Lock()
	defer e.handlerMu.Unlock()
	e.fallbackRequest = h
}

// SetFallbackNotificationHandler registers the handler used when no
// specific method handler matches an inbound notification.
func (e *Engine) SetFallbackNotificationHandler(h NotificationHandlerFunc) {
	e.handlerMu.Lock()
	defer e.handlerMu.Unlock()
	e.fallbackNotification = h
}

// Request sends method/params and blocks for the matching response,
// honoring the request's timeout and cancellation via ctx.
func (e *Engine) Request(ctx context.Context, method string, params any, opts ...RequestOption) (json.RawMessage, error) {
	cfg := requestConfig{timeout: DefaultRequestTimeout}
	for _, o := range opts {
		o(&cfg)
	}

	id := fmt.Sprintf("%d", atomic.AddInt64(&e.nextID, 1))

	paramsJSON, err := marshalAny(params)
	if err != nil {
		return nil, mcperr.Wrap(protocol.ErrInvalidParams, "marshal request params", err)
	}

	var progressToken string
	if cfg.onProgress != nil {
		progressToken = uuid.NewString()
		if pj, err := withProgressToken(paramsJSON, progressToken); err == nil {
			paramsJSON = pj
		}
	}

	req := &protocol.JsonRpcRequest{
		JsonRPC: protocol.JsonRpcVersion,
		Method:  method,
		Params:  paramsJSON,
		ID:      id,
	}

	pr := &pendingRequest{result: make(chan *protocol.JsonRpcResponse, 1), cfg: cfg, progressToken: progressToken}

	e.mu.Lock()
	e.pending[id] = pr
	e.mu.Unlock()

	pr.timer = time.AfterFunc(cfg.timeout, func() { e.timeoutRequest(id) })
	if cfg.maxTotalTimeout > 0 {
		pr.totalTimer = time.AfterFunc(cfg.maxTotalTimeout, func() { e.timeoutRequest(id) })
	}

	defer func() {
		e.mu.Lock()
		delete(e.pending, id)
		e.mu.Unlock()
		pr.timer.Stop()
		if pr.totalTimer != nil {
			pr.totalTimer.Stop()
		}
	}()

	raw, err := protocol.Encode(req)
	if err != nil {
		return nil, mcperr.Wrap(protocol.ErrInternal, "encode request", err)
	}
	if err := e.t.Send(ctx, raw); err != nil {
		return nil, mcperr.Wrap(protocol.ErrConnectionClosed, "send request", err)
	}

	select {
	case resp := <-pr.result:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	case <-ctx.Done():
		e.cancelRequest(id, "context cancelled")
		return nil, ctx.Err()
	case <-e.closed:
		return nil, mcperr.ErrClosed
	}
}

// Notification sends a one-way message with no response expected.
func (e *Engine) Notification(ctx context.Context, method string, params any) error {
	paramsJSON, err := marshalAny(params)
	if err != nil {
		return mcperr.Wrap(protocol.ErrInvalidParams, "marshal notification params", err)
	}
	note := &protocol.JsonRpcRequest{JsonRPC: protocol.JsonRpcVersion, Method: method, Params: paramsJSON}
	raw, err := protocol.Encode(note)
	if err != nil {
		return mcperr.Wrap(protocol.ErrInternal, "encode notification", err)
	}
	return e.t.Send(ctx, raw)
}

func (e *Engine) timeoutRequest(id string) {
	e.mu.Lock()
	pr, ok := e.pending[id]
	e.mu.Unlock()
	if !ok {
		return
	}
	select {
	case pr.result <- &protocol.JsonRpcResponse{
		JsonRPC: protocol.JsonRpcVersion,
		ID:      id,
		Error:   &protocol.JsonRpcError{Code: protocol.ErrRequestTimeout, Message: "request timed out"},
	}:
	default:
	}
}

func (e *Engine) cancelRequest(id string, reason string) {
	e.Notification(context.Background(), string(protocol.MethodNotificationsCancelled), map[string]any{
		"requestId": id,
		"reason":    reason,
	})
}

// Run drives the read loop, dispatching inbound frames until ctx is
// cancelled or the transport closes.
func (e *Engine) Run(ctx context.Context) error {
	for {
		raw, err := e.t.Receive(ctx)
		if err != nil {
			e.Close()
			return err
		}
		e.dispatch(ctx, raw)
	}
}

func (e *Engine) dispatch(ctx context.Context, raw json.RawMessage) {
	kind, err := protocol.Classify(raw)
	if err != nil {
		logger.Warn("engine: dropping unparseable frame:", err)
		return
	}

	switch kind {
	case protocol.KindSuccess, protocol.KindError:
		e.handleResponse(raw)
	case protocol.KindRequest:
		e.handleRequest(ctx, raw)
	case protocol.KindNotification:
		e.handleNotification(ctx, raw)
	}
}

func (e *Engine) handleResponse(raw json.RawMessage) {
	resp, err := protocol.DecodeResponse(raw)
	if err != nil {
		logger.Warn("engine: malformed response:", err)
		return
	}
	id := fmt.Sprintf("%v", resp.ID)

	e.mu.Lock()
	pr, ok := e.pending[id]
	e.mu.Unlock()
	if !ok {
		return
	}
	select {
	case pr.result <- resp:
	default:
	}
}

func (e *Engine) handleRequest(ctx context.Context, raw json.RawMessage) {
	req, err := protocol.DecodeRequest(raw)
	if err != nil {
		logger.Warn("engine: malformed request:", err)
		return
	}

	e.handlerMu.RLock()
	h, ok := e.requestHandlers[req.Method]
	fallback := e.fallbackRequest
	e.handlerMu.RUnlock()
	if !ok {
		h = fallback
	}

	resp := &protocol.JsonRpcResponse{JsonRPC: protocol.JsonRpcVersion, ID: req.ID}
	if h == nil {
		resp.Error = &protocol.JsonRpcError{Code: protocol.ErrMethodNotFound, Message: "method not found: " + req.Method}
		e.sendResponse(ctx, resp)
		return
	}

	result, err := h(ctx, req.Params)
	if err != nil {
		resp.Error = mcperr.ToJsonRpcError(err)
		e.sendResponse(ctx, resp)
		return
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		resp.Error = &protocol.JsonRpcError{Code: protocol.ErrInternal, Message: "marshal result: " + err.Error()}
		e.sendResponse(ctx, resp)
		return
	}
	resp.Result = resultJSON
	e.sendResponse(ctx, resp)
}

func (e *Engine) sendResponse(ctx context.Context, resp *protocol.JsonRpcResponse) {
	raw, err := protocol.Encode(resp)
	if err != nil {
		logger.Error("engine: failed to encode response:", err)
		return
	}
	if err := e.t.Send(ctx, raw); err != nil {
		logger.Error("engine: failed to send response:", err)
	}
}

func (e *Engine) handleNotification(ctx context.Context, raw json.RawMessage) {
	req, err := protocol.DecodeRequest(raw)
	if err != nil {
		logger.Warn("engine: malformed notification:", err)
		return
	}

	if req.Method == string(protocol.MethodNotificationsProgress) {
		e.routeProgress(req.Params)
		return
	}

	e.handlerMu.RLock()
	h, ok := e.notificationHandlers[req.Method]
	fallback := e.fallbackNotification
	e.handlerMu.RUnlock()
	if !ok {
		h = fallback
	}
	if h != nil {
		h(ctx, req.Params)
	}
}

func (e *Engine) routeProgress(params json.RawMessage) {
	var p progressNotificationParams
	if err := json.Unmarshal(params, &p); err != nil {
		return
	}

	e.mu.Lock()
	var match *pendingRequest
	for _, pr := range e.pending {
		if pr.progressToken == p.ProgressToken && p.ProgressToken != "" {
			match = pr
			break
		}
	}
	e.mu.Unlock()
	if match == nil {
		return
	}

	if match.cfg.resetTimeoutOnProgress {
		match.mu.Lock()
		if match.timer != nil {
			match.timer.Reset(match.cfg.timeout)
		}
		match.mu.Unlock()
	}
	if match.cfg.onProgress != nil {
		match.cfg.onProgress(p.Progress, p.Total, p.Message)
	}
}

// Close stops the engine, failing every pending request with
// ErrConnectionClosed.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.closed)
		e.mu.Lock()
		for _, pr := range e.pending {
			select {
			case pr.result <- &protocol.JsonRpcResponse{
				JsonRPC: protocol.JsonRpcVersion,
				Error:   &protocol.JsonRpcError{Code: protocol.ErrConnectionClosed, Message: "connection closed"},
			}:
			default:
			}
		}
		e.mu.Unlock()
	})
	return nil
}

func marshalAny(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(v)
}
