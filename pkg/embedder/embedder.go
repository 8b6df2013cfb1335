package embedder

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// ErrUnavailable marks any failure of the embedding backend: unreachable,
// unauthorized, misconfigured or answering garbage. Callers branch on it
// with errors.Is and degrade to lexical search instead of failing.
var ErrUnavailable = errors.New("embedding backend unavailable")

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(text string) ([]float32, error)
	Dimension() int
}

func FloatsToBytes(v []float32) []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, v)
	return buf.Bytes()
}

func BytesToFloats(b []byte) []float32 {
	n := len(b) / 4
	out := make([]float32, n)
	_ = binary.Read(bytes.NewReader(b), binary.LittleEndian, &out)
	return out
}
