package eventstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type storedEvent struct {
	id      EventID
	stream  StreamID
	seq     int
	message json.RawMessage
}

// MemoryStore is the default, process-local Store: events live only as
// long as the server process does. Fine for single-instance deployments;
// sqlitestore.Store trades that for durability across restarts.
type MemoryStore struct {
	mu     sync.Mutex
	events []storedEvent
	seq    map[StreamID]int
}

// NewMemoryStore builds an empty in-memory event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seq: make(map[StreamID]int)}
}

func (s *MemoryStore) StoreEvent(ctx context.Context, stream StreamID, message json.RawMessage) (EventID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq[stream]++
	n := s.seq[stream]
	id := EventID(fmt.Sprintf("%s:%d", stream, n))

	s.events = append(s.events, storedEvent{id: id, stream: stream, seq: n, message: message})
	return id, nil
}

func (s *MemoryStore) ReplayAfter(ctx context.Context, lastEventID EventID, send func(EventID, json.RawMessage) error) (StreamID, error) {
	s.mu.Lock()
	var stream StreamID
	var afterSeq int
	found := false
	for _, e := range s.events {
		if e.id == lastEventID {
			stream = e.stream
			afterSeq = e.seq
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return "", fmt.Errorf("eventstore: unknown event id %q", lastEventID)
	}
	var toSend []storedEvent
	for _, e := range s.events {
		if e.stream == stream && e.seq > afterSeq {
			toSend = append(toSend, e)
		}
	}
	s.mu.Unlock()

	for _, e := range toSend {
		if err := send(e.id, e.message); err != nil {
			return stream, err
		}
	}
	return stream, nil
}
