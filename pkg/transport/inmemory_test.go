package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTransportPairRoundTrip(t *testing.T) {
	client, server := NewInMemoryTransportPair()
	ctx := context.Background()

	require.NoError(t, client.Send(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)))

	msg, err := server.Receive(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"method":"ping"}`, string(msg))
}

func TestInMemoryTransportQueuesBeforeReceive(t *testing.T) {
	client, server := NewInMemoryTransportPair()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, client.Send(ctx, []byte(`{"jsonrpc":"2.0","method":"notifications/progress"}`)))
	}

	for i := 0; i < 3; i++ {
		_, err := server.Receive(ctx)
		require.NoError(t, err)
	}
}

func TestInMemoryTransportCloseNotifiesPeer(t *testing.T) {
	client, server := NewInMemoryTransportPair()

	closed := make(chan struct{}, 1)
	server.SetOnClose(func(err error) { closed <- struct{}{} })

	require.NoError(t, client.Close())

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("peer onClose was not invoked")
	}

	_, err := server.Receive(context.Background())
	assert.ErrorIs(t, err, ErrTransportClosed)
}
