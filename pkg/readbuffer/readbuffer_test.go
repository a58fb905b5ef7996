package readbuffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMessageSingleFrame(t *testing.T) {
	var rb ReadBuffer
	rb.Append([]byte("{\"jsonrpc\":\"2.0\"}\n"))

	msg, err := rb.ReadMessage()
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, `{"jsonrpc":"2.0"}`, string(msg))

	msg, err = rb.ReadMessage()
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestReadMessageSplitAcrossAppends(t *testing.T) {
	var rb ReadBuffer
	rb.Append([]byte(`{"jsonrpc":"2.`))
	msg, err := rb.ReadMessage()
	require.NoError(t, err)
	assert.Nil(t, msg)

	rb.Append([]byte("0\"}\n"))
	msg, err = rb.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"jsonrpc":"2.0"}`, string(msg))
}

func TestReadMessageStripsCR(t *testing.T) {
	var rb ReadBuffer
	rb.Append([]byte("{\"a\":1}\r\n"))
	msg, err := rb.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(msg))
}

func TestReadMessageSkipsBlankLines(t *testing.T) {
	var rb ReadBuffer
	rb.Append([]byte("\n\n{\"a\":1}\n"))
	msg, err := rb.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(msg))
}

func TestReadMessageTooLarge(t *testing.T) {
	var rb ReadBuffer
	rb.Append([]byte(strings.Repeat("x", MaxMessageSize+1)))
	_, err := rb.ReadMessage()
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestClear(t *testing.T) {
	var rb ReadBuffer
	rb.Append([]byte(`{"a":1}`))
	rb.Clear()
	msg, err := rb.ReadMessage()
	require.NoError(t, err)
	assert.Nil(t, msg)
}
