// Package search builds engine queries and shapes engine responses for the
// article search API.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zetasearch/zeta/internal/config"
	"github.com/zetasearch/zeta/internal/esclient"
	"github.com/zetasearch/zeta/internal/models"
)

// Engine runs article searches against the external engine.
type Engine struct {
	client esclient.Client
	index  string
	config *config.SearchConfig
	logger *zap.Logger
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(client esclient.Client, index string, cfg *config.SearchConfig, logger *zap.Logger) *Engine {
	return &Engine{
		client: client,
		index:  index,
		config: cfg,
		logger: logger,
	}
}

// Search normalizes the query, runs it against the engine, and shapes the
// response. Out-of-range pagination and sort values are clamped, never
// rejected; only an engine failure surfaces as an error.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	if query.Query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	query.Normalize(e.config.DefaultPageSize, e.config.MaxPageSize)

	body := BuildRequest(query, e.config)
	resp, err := e.client.Search(ctx, e.index, body)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	shaped := Shape(resp, query, e.config)
	if e.logger != nil {
		e.logger.Debug("search completed",
			zap.String("query", query.Query),
			zap.Int("raw_hits", len(resp.Hits.Hits)),
			zap.Int("returned", len(shaped.Results)),
		)
	}
	return shaped, nil
}

// Healthy reports whether the engine is reachable.
func (e *Engine) Healthy(ctx context.Context) bool {
	return e.client.Ping(ctx)
}
