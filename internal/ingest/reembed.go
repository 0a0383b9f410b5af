package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zetasearch/zeta/internal/config"
	"github.com/zetasearch/zeta/internal/embedding"
	"github.com/zetasearch/zeta/internal/esclient"
	"github.com/zetasearch/zeta/internal/models"
	"github.com/zetasearch/zeta/pkg/utils"
)

const (
	// minEmbedTextLength skips documents too short to embed usefully.
	minEmbedTextLength = 100
	// semanticTextLength bounds the text stored alongside the vector.
	semanticTextLength = 500
	// contributorMaxLength bounds the stored contributor name.
	contributorMaxLength = 50
	// scrollBatchSize is how many documents each scroll page carries.
	scrollBatchSize = 100
)

// ReembedStats summarizes one migration run.
type ReembedStats struct {
	Scanned  int
	Skipped  int
	Embedded int
	Failed   int
}

// Reembedder migrates articles from the search index into the semantic
// index: scroll, embed title plus leading text, upsert by source ID.
type Reembedder struct {
	client   esclient.Client
	embedder embedding.Embedder
	source   string
	target   string
	cfg      *config.IngestConfig
	logger   *zap.Logger
}

// NewReembedder creates a migration over the given source and target
// indices.
func NewReembedder(client esclient.Client, embedder embedding.Embedder, source, target string, cfg *config.IngestConfig, logger *zap.Logger) *Reembedder {
	return &Reembedder{
		client:   client,
		embedder: embedder,
		source:   source,
		target:   target,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run scrolls every article with a title and text, embeds it, and upserts
// the semantic document under the same ID. A batch that fails to embed is
// counted and skipped; the scroll continues.
func (r *Reembedder) Run(ctx context.Context) (ReembedStats, error) {
	if err := r.client.EnsureIndex(ctx, r.target, esclient.SemanticMapping); err != nil {
		return ReembedStats{}, fmt.Errorf("failed to prepare semantic index: %w", err)
	}

	embedLen := r.cfg.EmbedTextLength
	if embedLen <= 0 {
		embedLen = 800
	}

	var stats ReembedStats
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{"exists": map[string]interface{}{"field": "title"}},
					map[string]interface{}{"exists": map[string]interface{}{"field": "text"}},
				},
			},
		},
	}

	err := r.client.ScrollPages(ctx, r.source, body, scrollBatchSize, func(hits []esclient.Hit) error {
		var ids []string
		var texts []string
		var sources []esclient.Source
		for _, hit := range hits {
			stats.Scanned++
			if len(hit.Source.Text) < minEmbedTextLength {
				stats.Skipped++
				continue
			}
			ids = append(ids, hit.ID)
			texts = append(texts, hit.Source.Title+". "+utils.Truncate(hit.Source.Text, embedLen))
			sources = append(sources, hit.Source)
		}
		if len(ids) == 0 {
			return nil
		}

		vectors, err := r.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			r.logger.Error("embedding batch failed", zap.Int("batch_size", len(ids)), zap.Error(err))
			stats.Failed += len(ids)
			return nil
		}

		docs := make([]esclient.Document, len(ids))
		for i, id := range ids {
			docs[i] = esclient.Document{
				ID: id,
				Source: &models.SemanticDocument{
					Title:               sources[i].Title,
					Text:                utils.TruncateEllipsis(sources[i].Text, semanticTextLength),
					ContentEmbedding:    vectors[i],
					Timestamp:           sources[i].Timestamp,
					ContributorUsername: utils.Truncate(sources[i].ContributorUsername, contributorMaxLength),
				},
			}
		}
		bulk, err := r.client.BulkIndex(ctx, r.target, docs)
		if err != nil {
			r.logger.Error("semantic bulk upload failed", zap.Int("batch_size", len(docs)), zap.Error(err))
			stats.Failed += len(docs)
			return nil
		}
		stats.Embedded += bulk.Indexed
		stats.Failed += bulk.Failed
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("scroll failed: %w", err)
	}

	if err := r.client.Refresh(ctx, r.target); err != nil {
		r.logger.Warn("semantic index refresh failed", zap.Error(err))
	}

	r.logger.Info("reembed run finished",
		zap.Int("scanned", stats.Scanned),
		zap.Int("skipped", stats.Skipped),
		zap.Int("embedded", stats.Embedded),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}
