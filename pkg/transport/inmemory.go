package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ErrTransportClosed is returned by Receive/Send once Close has been called.
var ErrTransportClosed = errors.New("transport: closed")

// inboxCapacity bounds each peer's queue. Messages sent before the peer
// ever calls Receive simply sit in the channel, mirroring the original
// SDK's pre-start message queue.
const inboxCapacity = 4096

// InMemoryTransport is one end of a pair of transports that talk directly
// to each other within the same process, with no serialization in between.
// Used to pair a client and server in tests without a real stdio/HTTP hop.
type InMemoryTransport struct {
	peer  *InMemoryTransport
	inbox chan json.RawMessage

	closeOnce sync.Once
	onClose   OnCloseHandler
}

// NewInMemoryTransportPair builds two linked transports; messages Sent on
// one arrive via Receive on the other. One should be given to a Client,
// the other to a Server.
func NewInMemoryTransportPair() (client *InMemoryTransport, server *InMemoryTransport) {
	client = &InMemoryTransport{inbox: make(chan json.RawMessage, inboxCapacity)}
	server = &InMemoryTransport{inbox: make(chan json.RawMessage, inboxCapacity)}
	client.peer = server
	server.peer = client
	return client, server
}

// SetOnClose registers a callback invoked once when Close runs.
func (t *InMemoryTransport) SetOnClose(fn OnCloseHandler) {
	t.onClose = fn
}

// Start is a no-op: messages sent before either side calls Receive already
// queue in the channel buffer.
func (t *InMemoryTransport) Start(ctx context.Context) error {
	return nil
}

// Send hands message directly to the peer's inbox.
func (t *InMemoryTransport) Send(ctx context.Context, message json.RawMessage) error {
	if t.peer == nil {
		return ErrTransportClosed
	}
	select {
	case t.peer.inbox <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive blocks until a message arrives from the peer, ctx is cancelled,
// or the transport is closed.
func (t *InMemoryTransport) Receive(ctx context.Context) (json.RawMessage, error) {
	select {
	case msg, ok := <-t.inbox:
		if !ok {
			return nil, ErrTransportClosed
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes this end and notifies the peer's onClose handler, mirroring
// the original SDK's cross-notifying close().
func (t *InMemoryTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.inbox)
		if t.onClose != nil {
			t.onClose(nil)
		}
		if t.peer != nil {
			t.peer.closeOnce.Do(func() {
				close(t.peer.inbox)
				if t.peer.onClose != nil {
					t.peer.onClose(nil)
				}
			})
		}
	})
	return nil
}
