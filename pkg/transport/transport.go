// Package transport implements the wire-level carriers the protocol engine
// runs on top of: stdio, an in-memory paired transport for tests, and
// streamable HTTP (see the streamablehttp subpackage).
package transport

import (
	"context"
	"encoding/json"
)

// Transport is the minimal bidirectional message carrier the engine drives.
// A Transport moves whole JSON-RPC frames (request, notification, response)
// as opaque bytes; framing and message-shape concerns live in the codec and
// engine layers, not here.
type Transport interface {
	// Start begins accepting/dialing as needed. It must be safe to call
	// Send/Receive only after Start returns.
	Start(ctx context.Context) error

	// Send writes one message frame. Implementations add whatever
	// delimiter or encapsulation their wire format needs.
	Send(ctx context.Context, message json.RawMessage) error

	// Receive blocks until the next inbound message frame is available,
	// ctx is cancelled, or the transport closes.
	Receive(ctx context.Context) (json.RawMessage, error)

	// Close releases any underlying resources. Receive must return an
	// error after Close.
	Close() error
}

// OnCloseHandler is invoked once when a transport detects its peer has
// disconnected, so a Session can move to its terminal state.
type OnCloseHandler func(error)
