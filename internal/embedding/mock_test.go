package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(384)
	a, err := e.Embed(context.Background(), "the eiffel tower")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := e.Embed(context.Background(), "the eiffel tower")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding differs at %d: %v vs %v", i, a[i], b[i])
		}
	}

	c, _ := e.Embed(context.Background(), "something else entirely")
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should embed differently")
	}
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	e := NewMockEmbedder(384)
	v, _ := e.Embed(context.Background(), "some article text")
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1.0) > 1e-4 {
		t.Errorf("squared norm: got %f", sum)
	}
}

func TestMockEmbedder_Batch(t *testing.T) {
	e := NewMockEmbedder(16)
	vs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vs) != 3 {
		t.Fatalf("got %d vectors", len(vs))
	}
	for i, v := range vs {
		if len(v) != 16 {
			t.Errorf("vector %d width: %d", i, len(v))
		}
	}
	if e.Dimensions() != 16 {
		t.Errorf("dimensions: %d", e.Dimensions())
	}
}
