package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/zetasearch/zeta/pkg/utils"
)

// MockEmbedder derives a unit vector from the text hash, so identical texts
// always embed identically. It stands in for MiniLM in tests and in builds
// without a model file.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns a deterministic embedder of the given width.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed returns a deterministic unit-length vector for text.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := float64(h.Sum64() % 100003)

	vector := make([]float32, e.dimensions)
	for i := range vector {
		vector[i] = float32(math.Sin(seed + float64(i)))
	}
	utils.NormalizeL2(vector)
	return vector, nil
}

// EmbedBatch embeds each text in order.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Dimensions returns the vector width.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op.
func (e *MockEmbedder) Close() error {
	return nil
}
