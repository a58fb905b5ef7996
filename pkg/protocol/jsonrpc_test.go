package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRequest(t *testing.T) {
	kind, err := Classify([]byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	require.NoError(t, err)
	assert.Equal(t, KindRequest, kind)
}

func TestClassifyNotification(t *testing.T) {
	kind, err := Classify([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	assert.Equal(t, KindNotification, kind)
}

func TestClassifySuccess(t *testing.T) {
	kind, err := Classify([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	require.NoError(t, err)
	assert.Equal(t, KindSuccess, kind)
}

func TestClassifyError(t *testing.T) {
	kind, err := Classify([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32600,"message":"bad"}}`))
	require.NoError(t, err)
	assert.Equal(t, KindError, kind)
}

func TestClassifyInvalid(t *testing.T) {
	_, err := Classify([]byte(`{"jsonrpc":"2.0"}`))
	assert.Error(t, err)
}

func TestClassifyWrongVersion(t *testing.T) {
	_, err := Classify([]byte(`{"jsonrpc":"1.0","id":1,"method":"ping"}`))
	assert.Error(t, err)
}

func TestRequestResponseRoundTrip(t *testing.T) {
	req, err := NewJsonRpcRequest("tools/list", map[string]any{"cursor": "abc"}, "1")
	require.NoError(t, err)

	raw, err := Encode(req)
	require.NoError(t, err)

	decoded, err := DecodeRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, "tools/list", decoded.Method)
	assert.False(t, decoded.IsNotification())

	resp, err := NewJsonRpcResponse(map[string]any{"tools": []any{}}, decoded.ID)
	require.NoError(t, err)
	rawResp, err := Encode(resp)
	require.NoError(t, err)

	decodedResp, err := DecodeResponse(rawResp)
	require.NoError(t, err)
	assert.Nil(t, decodedResp.Error)
}

func TestNotificationHasNoID(t *testing.T) {
	note, err := NewJsonRpcNotification("notifications/progress", nil)
	require.NoError(t, err)
	assert.True(t, note.IsNotification())
}

func TestIsBatch(t *testing.T) {
	assert.True(t, IsBatch([]byte(`  [{"jsonrpc":"2.0"}]`)))
	assert.False(t, IsBatch([]byte(`{"jsonrpc":"2.0"}`)))
}

func TestErrorResponseError(t *testing.T) {
	e := &JsonRpcError{Code: ErrMethodNotFound, Message: "nope"}
	assert.Contains(t, e.Error(), "nope")
}
