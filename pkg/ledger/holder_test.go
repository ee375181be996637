package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder(t *testing.T) {
	h := NewHolder(HTTPFactory(0))
	assert.Nil(t, h.Current())
	assert.False(t, h.Ready())

	require.NoError(t, h.Connect("node-a.example"))
	first := h.Current()
	require.NotNil(t, first)
	assert.Equal(t, "node-a.example", h.Endpoint())

	require.NoError(t, h.Connect("http://node-b.example"))
	second := h.Current()
	assert.NotSame(t, first.(*HTTPClient), second.(*HTTPClient))
	assert.Equal(t, "http://node-b.example", second.(*HTTPClient).Endpoint())
}

func TestHolder_FailedConnectKeepsPrevious(t *testing.T) {
	calls := 0
	h := NewHolder(func(endpoint string) (Client, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("dial failed")
		}
		return NewHTTPClient(endpoint, 0)
	})

	require.NoError(t, h.Connect("node-a.example"))
	before := h.Current()

	require.Error(t, h.Connect("node-b.example"))
	assert.Same(t, before.(*HTTPClient), h.Current().(*HTTPClient))
	assert.Equal(t, "node-a.example", h.Endpoint())
}

func TestStatic(t *testing.T) {
	assert.Nil(t, Static(nil).Current())
}
