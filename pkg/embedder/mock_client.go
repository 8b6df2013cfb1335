package embedder

import (
	"hash/fnv"
	"math"
	"strings"
)

// Mock is a deterministic bag-of-words embedder for tests and local dev.
// Identical texts embed to identical unit vectors; texts sharing words get
// positive cosine similarity. Set Err to simulate an unavailable backend.
type Mock struct {
	Dim int
	Err error
}

func NewMock(dim int) *Mock {
	if dim <= 0 {
		dim = 768
	}
	return &Mock{Dim: dim}
}

func (m *Mock) Dimension() int { return m.Dim }

func (m *Mock) Embed(text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	v := make([]float32, m.Dim)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if w == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[int(h.Sum32())%m.Dim]++
	}
	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range v {
			v[i] /= n
		}
	}
	return v, nil
}
