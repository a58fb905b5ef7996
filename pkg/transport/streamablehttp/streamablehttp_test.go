package streamablehttp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/mcp/pkg/transport"
)

func TestHandlePostNotificationDeliversToReceive(t *testing.T) {
	tr := NewServerTransport(Options{Path: "/mcp"})
	server := httptest.NewServer(tr.Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+"/mcp", "application/json", strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/test"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := tr.Receive(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(msg), "notifications/test")
}

func TestHandlePostRequestStreamsResponse(t *testing.T) {
	tr := NewServerTransport(Options{Path: "/mcp"})
	server := httptest.NewServer(tr.Handler())
	defer server.Close()

	go func() {
		msg, err := tr.Receive(context.Background())
		if err != nil {
			return
		}
		var env struct {
			ID json.RawMessage `json:"id"`
		}
		json.Unmarshal(msg, &env)
		resp := fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,"result":{"ok":true}}`, string(env.ID))
		tr.Send(context.Background(), json.RawMessage(resp))
	}()

	resp, err := http.Post(server.URL+"/mcp", "application/json", strings.NewReader(`{"jsonrpc":"2.0","id":"1","method":"ping"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	var body strings.Builder
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		line, err := reader.ReadString('\n')
		body.WriteString(line)
		if err != nil {
			break
		}
		if strings.Contains(body.String(), `"ok":true`) {
			break
		}
	}
	assert.Contains(t, body.String(), `"ok":true`)
}

func TestStatefulModeRejectsMissingSessionHeader(t *testing.T) {
	tr := NewServerTransport(Options{Path: "/mcp", SessionIDGenerator: DefaultSessionIDGenerator})
	server := httptest.NewServer(tr.Handler())
	defer server.Close()

	go func() { tr.Receive(context.Background()) }()

	resp, err := http.Post(server.URL+"/mcp", "application/json", strings.NewReader(`{"jsonrpc":"2.0","id":"1","method":"ping"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	sid := resp.Header.Get("Mcp-Session-Id")
	assert.NotEmpty(t, sid)

	resp2, err := http.Post(server.URL+"/mcp", "application/json", strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/test"}`))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestDeleteClosesTransport(t *testing.T) {
	tr := NewServerTransport(Options{Path: "/mcp"})
	server := httptest.NewServer(tr.Handler())
	defer server.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/mcp", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err = tr.Receive(context.Background())
	assert.ErrorIs(t, err, transport.ErrTransportClosed)
}
