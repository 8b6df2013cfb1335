package embedder

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorBytesRoundTrip(t *testing.T) {
	v := []float32{0.25, -1.5, 3.125, 0}
	got := BytesToFloats(FloatsToBytes(v))
	assert.Equal(t, v, got)
}

func TestClientNotConfigured(t *testing.T) {
	c := New("", "", "text-embedding-004", 768)
	_, err := c.Embed("hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/embeddings", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var body struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Input, 1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{1, 0, 0, 0.5}}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", "m", 4)
	vec, err := c.Embed("hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0, 0.5}, vec)
	assert.Equal(t, 4, c.Dimension())
}

func TestClientEmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", "m", 4)
	_, err := c.Embed("hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientEmbedWrongDimension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{1, 0}}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", "m", 4)
	_, err := c.Embed("hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMockDeterministic(t *testing.T) {
	m := NewMock(64)
	a, err := m.Embed("the poti lighthouse")
	require.NoError(t, err)
	b, err := m.Embed("the poti lighthouse")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	var norm float64
	for _, x := range a {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestMockFails(t *testing.T) {
	m := NewMock(8)
	m.Err = errors.New("down")
	_, err := m.Embed("anything")
	assert.Error(t, err)
}
