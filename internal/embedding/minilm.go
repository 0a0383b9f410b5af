//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/zetasearch/zeta/internal/config"
	"github.com/zetasearch/zeta/pkg/utils"
)

// MiniLM runs a MiniLM sentence-transformer exported to ONNX. The model
// emits per-token hidden states; Embed mean-pools them over the attention
// mask and L2-normalizes the result, matching how sentence-transformers
// pools the same model.
//
// Tensors are allocated once and reused, so inference is serialized by mu.
type MiniLM struct {
	session    *ort.AdvancedSession
	tokenizer  Tokenizer
	cache      *Cache
	dimensions int
	maxTokens  int

	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	tokenTypeIDs  *ort.Tensor[int64]
	hiddenStates  *ort.Tensor[float32]
	mu            sync.Mutex
}

// NewMiniLM loads the ONNX model at cfg.ModelPath and prepares a reusable
// inference session.
func NewMiniLM(cfg *config.EmbeddingConfig) (*MiniLM, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize onnx runtime: %w", err)
	}

	tokenizer := &WordHashTokenizer{}
	ids, mask, types := tokenizer.Tokenize("", cfg.MaxTokens)

	seq := ort.NewShape(1, int64(cfg.MaxTokens))
	inputIDs, err := ort.NewTensor(seq, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	attentionMask, err := ort.NewTensor(seq, mask)
	if err != nil {
		inputIDs.Destroy()
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	tokenTypeIDs, err := ort.NewTensor(seq, types)
	if err != nil {
		inputIDs.Destroy()
		attentionMask.Destroy()
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}
	hiddenStates, err := ort.NewTensor(
		ort.NewShape(1, int64(cfg.MaxTokens), int64(cfg.Dimensions)),
		make([]float32, cfg.MaxTokens*cfg.Dimensions),
	)
	if err != nil {
		inputIDs.Destroy()
		attentionMask.Destroy()
		tokenTypeIDs.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		[]ort.ArbitraryTensor{inputIDs, attentionMask, tokenTypeIDs},
		[]ort.ArbitraryTensor{hiddenStates},
		nil,
	)
	if err != nil {
		inputIDs.Destroy()
		attentionMask.Destroy()
		tokenTypeIDs.Destroy()
		hiddenStates.Destroy()
		return nil, fmt.Errorf("failed to create onnx session: %w", err)
	}

	return &MiniLM{
		session:       session,
		tokenizer:     tokenizer,
		cache:         NewCache(cfg.CacheSize),
		dimensions:    cfg.Dimensions,
		maxTokens:     cfg.MaxTokens,
		inputIDs:      inputIDs,
		attentionMask: attentionMask,
		tokenTypeIDs:  tokenTypeIDs,
		hiddenStates:  hiddenStates,
	}, nil
}

// Embed returns the unit-length sentence vector for text.
func (m *MiniLM) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := m.cache.Get(text); ok {
		return cached, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ids, mask, types := m.tokenizer.Tokenize(text, m.maxTokens)
	copy(m.inputIDs.GetData(), ids)
	copy(m.attentionMask.GetData(), mask)
	copy(m.tokenTypeIDs.GetData(), types)

	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	vector := meanPool(m.hiddenStates.GetData(), mask, m.dimensions)
	utils.NormalizeL2(vector)
	m.cache.Put(text, vector)
	return vector, nil
}

// EmbedBatch embeds each text in order.
func (m *MiniLM) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Dimensions returns the vector width.
func (m *MiniLM) Dimensions() int {
	return m.dimensions
}

// Close releases the session and its tensors.
func (m *MiniLM) Close() error {
	var err error
	if m.session != nil {
		err = m.session.Destroy()
		m.session = nil
	}
	for _, t := range []*ort.Tensor[int64]{m.inputIDs, m.attentionMask, m.tokenTypeIDs} {
		if t != nil {
			_ = t.Destroy()
		}
	}
	m.inputIDs, m.attentionMask, m.tokenTypeIDs = nil, nil, nil
	if m.hiddenStates != nil {
		_ = m.hiddenStates.Destroy()
		m.hiddenStates = nil
	}
	return err
}

// meanPool averages the per-token hidden states over positions the attention
// mask marks as real tokens.
func meanPool(hidden []float32, mask []int64, dims int) []float32 {
	pooled := make([]float32, dims)
	var count float32
	for pos, m := range mask {
		if m == 0 {
			continue
		}
		count++
		row := hidden[pos*dims : (pos+1)*dims]
		for i, v := range row {
			pooled[i] += v
		}
	}
	if count > 0 {
		for i := range pooled {
			pooled[i] /= count
		}
	}
	return pooled
}
