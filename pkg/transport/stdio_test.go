package transport

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdioTransportSend(t *testing.T) {
	var out bytes.Buffer
	tr := NewStdioTransportFor(strings.NewReader(""), &out)

	require.NoError(t, tr.Send(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)))
	assert.Equal(t, "{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"ping\"}\n", out.String())
}

func TestStdioTransportReceive(t *testing.T) {
	in := strings.NewReader("{\"jsonrpc\":\"2.0\",\"method\":\"notifications/initialized\"}\n")
	var out bytes.Buffer
	tr := NewStdioTransportFor(in, &out)

	msg, err := tr.Receive(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","method":"notifications/initialized"}`, string(msg))
}

func TestStdioTransportReceiveEOFFiresOnClose(t *testing.T) {
	in := strings.NewReader("")
	var out bytes.Buffer
	tr := NewStdioTransportFor(in, &out)

	var gotErr error
	closed := false
	tr.SetOnClose(func(err error) {
		closed = true
		gotErr = err
	})

	_, err := tr.Receive(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, closed)
	assert.ErrorIs(t, gotErr, io.EOF)
}
