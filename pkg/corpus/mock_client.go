// pkg/corpus/mock_client.go

package corpus

import (
	"github.com/vazovski37/argon-backend/pkg/rag/types"
)

// MockClient is a canned corpus for tests.
type MockClient struct {
	Results []types.RetrievalResult
	Context string
	Files   []File
	Err     error
}

func (m *MockClient) Retrieve(query string, topK int, threshold float64) ([]types.RetrievalResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if topK < len(m.Results) {
		return m.Results[:topK], nil
	}
	return m.Results, nil
}

func (m *MockClient) BuildContext(query string, maxChunks int, userVisited []string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Context, nil
}

func (m *MockClient) ListFiles() ([]File, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Files, nil
}

func (m *MockClient) Info() map[string]any {
	return map[string]any{"configured": m.Err == nil, "name": "mock"}
}
