//go:build !cgo
// +build !cgo

package embedding

import (
	"context"
	"errors"

	"github.com/zetasearch/zeta/internal/config"
)

var errNoCGO = errors.New("minilm embedder requires CGO; build with CGO_ENABLED=1 and the onnxruntime library")

// MiniLM stub for builds without CGO; see minilm.go for the real thing.
type MiniLM struct{}

// NewMiniLM fails when built without CGO, since ONNX runtime needs it.
func NewMiniLM(_ *config.EmbeddingConfig) (*MiniLM, error) {
	return nil, errNoCGO
}

func (m *MiniLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errNoCGO
}

func (m *MiniLM) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errNoCGO
}

func (m *MiniLM) Dimensions() int { return 0 }

func (m *MiniLM) Close() error { return nil }
