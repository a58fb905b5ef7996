package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/transport"
)

func newPair(t *testing.T) (*Engine, *Engine, func()) {
	t.Helper()
	clientT, serverT := transport.NewInMemoryTransportPair()
	client := New(clientT)
	server := New(serverT)

	ctx, cancel := context.WithCancel(context.Background())
	go client.Run(ctx)
	go server.Run(ctx)

	return client, server, cancel
}

func TestPingBuiltinHandler(t *testing.T) {
	client, server, cancel := newPair(t)
	defer cancel()
	_ = server

	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	raw, err := client.Request(ctx, string(protocol.MethodPing), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestRequestResponseCorrelation(t *testing.T) {
	client, server, cancel := newPair(t)
	defer cancel()

	server.SetRequestHandler("echo", func(ctx context.Context, params json.RawMessage) (any, error) {
		var p map[string]any
		json.Unmarshal(params, &p)
		return p, nil
	})

	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	raw, err := client.Request(ctx, "echo", map[string]any{"hello": "world"})
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "world", result["hello"])
}

func TestRequestTimeout(t *testing.T) {
	client, server, cancel := newPair(t)
	defer cancel()
	_ = server // server never answers "slow"

	ctx := context.Background()
	_, err := client.Request(ctx, "slow", nil, WithTimeout(50*time.Millisecond))
	require.Error(t, err)
	rpcErr, ok := err.(*protocol.JsonRpcError)
	require.True(t, ok)
	assert.Equal(t, protocol.ErrRequestTimeout, rpcErr.Code)
}

func TestUnknownMethodReturnsMethodNotFound(t *testing.T) {
	client, server, cancel := newPair(t)
	defer cancel()
	_ = server

	ctx, done := context.WithTimeout(context.Background(), time.Second)
	defer done()

	_, err := client.Request(ctx, "does/not/exist", nil)
	require.Error(t, err)
	rpcErr, ok := err.(*protocol.JsonRpcError)
	require.True(t, ok)
	assert.Equal(t, protocol.ErrMethodNotFound, rpcErr.Code)
}

func TestNotificationHandlerInvoked(t *testing.T) {
	client, server, cancel := newPair(t)
	defer cancel()
	_ = client

	received := make(chan string, 1)
	server.SetNotificationHandler("notifications/test", func(ctx context.Context, params json.RawMessage) {
		var p struct {
			Msg string `json:"msg"`
		}
		json.Unmarshal(params, &p)
		received <- p.Msg
	})

	require.NoError(t, client.Notification(context.Background(), "notifications/test", map[string]any{"msg": "hi"}))

	select {
	case msg := <-received:
		assert.Equal(t, "hi", msg)
	case <-time.After(time.Second):
		t.Fatal("notification handler was not invoked")
	}
}

func TestProgressRouting(t *testing.T) {
	client, server, cancel := newPair(t)
	defer cancel()

	server.SetRequestHandler("longop", func(ctx context.Context, params json.RawMessage) (any, error) {
		token, _ := extractProgressToken(params)
		server.Notification(ctx, string(protocol.MethodNotificationsProgress), progressNotificationParams{
			ProgressToken: token,
			Progress:      0.5,
			Total:         1,
			Message:       "halfway",
		})
		return map[string]any{"done": true}, nil
	})

	var gotProgress float64
	progressCh := make(chan struct{}, 1)

	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	raw, err := client.Request(ctx, "longop", nil, WithProgress(true, func(progress, total float64, message string) {
		gotProgress = progress
		progressCh <- struct{}{}
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"done":true}`, string(raw))

	select {
	case <-progressCh:
		assert.Equal(t, 0.5, gotProgress)
	case <-time.After(time.Second):
		t.Fatal("progress handler was not invoked")
	}
}

func TestCloseFailsPendingRequests(t *testing.T) {
	client, server, cancel := newPair(t)
	defer cancel()
	_ = server

	done := make(chan error, 1)
	go func() {
		_, err := client.Request(context.Background(), "never/answered", nil, WithTimeout(10*time.Second))
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	client.Close()

	select {
	case err := <-done:
		require.Error(t, err)
		rpcErr, ok := err.(*protocol.JsonRpcError)
		require.True(t, ok)
		assert.Equal(t, protocol.ErrConnectionClosed, rpcErr.Code)
	case <-time.After(time.Second):
		t.Fatal("request did not fail after Close")
	}
}
