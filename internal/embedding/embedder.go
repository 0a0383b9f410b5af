// Package embedding produces sentence vectors for the semantic article
// index. The production path runs a MiniLM ONNX model; tests use the
// deterministic mock.
package embedding

import "context"

// Embedder turns text into fixed-dimension vectors suitable for cosine
// similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
