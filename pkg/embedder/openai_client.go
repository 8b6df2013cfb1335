package embedder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client calls an OpenAI-compatible /v1/embeddings endpoint.
type Client struct {
	endpoint, key, model string
	dim                  int
	httpc                *http.Client
}

func New(endpoint, key, model string, dim int) *Client {
	if dim <= 0 {
		dim = 768
	}
	return &Client{endpoint, key, model, dim, &http.Client{Timeout: 20 * time.Second}}
}

func (c *Client) Dimension() int { return c.dim }

func (c *Client) Embed(text string) ([]float32, error) {
	if c.endpoint == "" || c.key == "" {
		return nil, fmt.Errorf("%w: endpoint or api key not configured", ErrUnavailable)
	}
	body := map[string]any{"model": c.model, "input": []string{text}}
	b, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(c.endpoint, "/")+"/v1/embeddings", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) != c.dim {
		return nil, fmt.Errorf("%w: expected %d dims", ErrUnavailable, c.dim)
	}
	return out.Data[0].Embedding, nil
}
