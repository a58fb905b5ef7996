// Package eventstore implements resumability support for the streamable
// HTTP transport: every SSE event is stored keyed by the stream it belongs
// to, so a client reconnecting with a Last-Event-ID header can replay
// everything it missed.
package eventstore

import (
	"context"
	"encoding/json"
)

// EventID identifies one stored event within its stream, in emission order.
type EventID string

// StreamID identifies one SSE stream. The standalone GET stream and each
// POST-response stream are stored independently so resuming one never
// replays messages from the other.
type StreamID string

// Store is the resumability contract a streamable-HTTP transport consults.
// StoreEvent is called once per outbound SSE event; ReplayAfter is called
// once when a client reconnects with Last-Event-ID.
type Store interface {
	// StoreEvent records message on stream and returns the EventID to send
	// as the SSE event's `id:` field.
	StoreEvent(ctx context.Context, stream StreamID, message json.RawMessage) (EventID, error)

	// ReplayAfter calls send, in order, for every event stored after
	// lastEventID within whichever stream lastEventID belongs to, and
	// returns that stream's id so the caller knows where to keep
	// appending new events.
	ReplayAfter(ctx context.Context, lastEventID EventID, send func(EventID, json.RawMessage) error) (StreamID, error)
}
