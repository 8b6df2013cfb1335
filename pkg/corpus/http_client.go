// pkg/corpus/http_client.go

package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vazovski37/argon-backend/pkg/rag/types"
)

// ErrNotConfigured is returned when no corpus name is set. Fail fast, no
// retry: the caller falls back to the local pipeline immediately.
var ErrNotConfigured = errors.New("retrieval corpus not configured")

type httpClient struct {
	endpoint string
	key      string
	corpus   string
	httpc    *http.Client
}

func New(endpoint, key, corpusName string) Client {
	return &httpClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		corpus:   corpusName,
		httpc:    &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *httpClient) Retrieve(query string, topK int, threshold float64) ([]types.RetrievalResult, error) {
	if c.corpus == "" || c.endpoint == "" {
		return nil, ErrNotConfigured
	}
	body := map[string]any{
		"corpus":    c.corpus,
		"query":     query,
		"top_k":     topK,
		"threshold": threshold,
	}
	b, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, c.endpoint+"/v1/retrieve", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("corpus retrieve: status %d", resp.StatusCode)
	}

	var out struct {
		Contexts []struct {
			Text      string         `json:"text"`
			SourceURI string         `json:"source_uri"`
			Score     float64        `json:"score"`
			Metadata  map[string]any `json:"metadata"`
		} `json:"contexts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("corpus retrieve: decode: %w", err)
	}
	results := make([]types.RetrievalResult, 0, len(out.Contexts))
	for _, ctx := range out.Contexts {
		results = append(results, types.RetrievalResult{
			Content:    ctx.Text,
			SourceFile: ctx.SourceURI,
			Metadata:   ctx.Metadata,
			Similarity: ctx.Score,
		})
	}
	return results, nil
}

// BuildContext formats corpus results with per-source headers; the corpus
// side has no category tags, so the layout differs from the local one.
func (c *httpClient) BuildContext(query string, maxChunks int, userVisited []string) (string, error) {
	results, err := c.Retrieve(query, maxChunks, 0.5)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	parts := []string{"## Relevant Information from Knowledge Base\n"}
	for i, res := range results {
		content := strings.TrimSpace(res.Content)
		if content == "" {
			continue
		}
		source := res.SourceFile
		if idx := strings.LastIndex(source, "/"); idx >= 0 {
			source = source[idx+1:]
		}
		if source == "" {
			source = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("**Source %d** (%s):\n%s\n", i+1, source, content))
	}
	if len(userVisited) > 0 {
		parts = append(parts, fmt.Sprintf("\n## User has already visited: %s", strings.Join(userVisited, ", ")))
	}
	return strings.Join(parts, "\n"), nil
}

func (c *httpClient) ListFiles() ([]File, error) {
	if c.corpus == "" || c.endpoint == "" {
		return nil, ErrNotConfigured
	}
	req, err := http.NewRequest(http.MethodGet, c.endpoint+"/v1/corpora/"+c.corpus+"/files", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("corpus files: status %d", resp.StatusCode)
	}
	var out struct {
		Files []File `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("corpus files: decode: %w", err)
	}
	return out.Files, nil
}

func (c *httpClient) Info() map[string]any {
	if c.corpus == "" || c.endpoint == "" {
		return map[string]any{"configured": false, "error": ErrNotConfigured.Error()}
	}
	req, err := http.NewRequest(http.MethodGet, c.endpoint+"/v1/corpora/"+c.corpus, nil)
	if err != nil {
		return map[string]any{"configured": true, "name": c.corpus, "error": err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return map[string]any{"configured": true, "name": c.corpus, "error": err.Error()}
	}
	defer resp.Body.Close()
	info := map[string]any{"configured": true, "name": c.corpus}
	if resp.StatusCode != http.StatusOK {
		info["error"] = fmt.Sprintf("status %d", resp.StatusCode)
		return info
	}
	var detail map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil {
		for k, v := range detail {
			info[k] = v
		}
	}
	return info
}
