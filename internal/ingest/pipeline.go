// Package ingest loads wiki dump files into the search index and migrates
// indexed articles into the semantic index.
package ingest

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/zetasearch/zeta/internal/config"
	"github.com/zetasearch/zeta/internal/dump"
	"github.com/zetasearch/zeta/internal/esclient"
	"github.com/zetasearch/zeta/internal/models"
	"github.com/zetasearch/zeta/internal/quality"
	"github.com/zetasearch/zeta/internal/storage"
)

// dropFlushSize bounds how many drop records accumulate before a ledger
// write.
const dropFlushSize = 500

// Stats summarizes one ingest run.
type Stats struct {
	PagesRead int
	Skipped   int
	Indexed   int
	Dropped   int
	Failed    int
}

// Pipeline streams a dump file into the search index: parse, clean, gate,
// batch, bulk upload. Parsing is single-threaded; bulk uploads run on a
// worker pool.
type Pipeline struct {
	client esclient.Client
	ledger *storage.Ledger
	index  string
	cfg    *config.IngestConfig
	pool   *ants.Pool
	logger *zap.Logger

	mu    sync.Mutex
	stats Stats
}

// NewPipeline creates an ingest pipeline. The ledger may be nil, in which
// case runs are not recorded.
func NewPipeline(client esclient.Client, ledger *storage.Ledger, index string, cfg *config.IngestConfig, logger *zap.Logger) (*Pipeline, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	return &Pipeline{
		client: client,
		ledger: ledger,
		index:  index,
		cfg:    cfg,
		pool:   pool,
		logger: logger,
	}, nil
}

// Run ingests the dump file at path and returns run counters. Pages that
// fail the index gate are recorded in the ledger with a reason; upload
// failures are counted but do not stop the run.
func (p *Pipeline) Run(ctx context.Context, path string) (Stats, error) {
	reader, err := dump.Open(path, dump.WithLogger(p.logger))
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open dump: %w", err)
	}
	defer reader.Close()

	var runID string
	if p.ledger != nil {
		runID, err = p.ledger.StartRun(ctx, path)
		if err != nil {
			return Stats{}, fmt.Errorf("failed to record run: %w", err)
		}
	}

	p.mu.Lock()
	p.stats = Stats{}
	p.mu.Unlock()

	buildOpts := quality.BuildOptions{
		MinTextLength:    p.cfg.MinTextLength,
		StoredTextLength: p.cfg.StoredTextLength,
		SummaryLength:    p.cfg.SummaryLength,
	}
	batchSize := p.cfg.BatchSize
	if batchSize < 1 {
		batchSize = 50
	}

	var wg sync.WaitGroup
	var runErr error
	batch := make([]esclient.Document, 0, batchSize)
	drops := make([]storage.DroppedPage, 0, dropFlushSize)

	flushDrops := func() {
		if p.ledger == nil || len(drops) == 0 {
			return
		}
		if err := p.ledger.RecordDrops(ctx, runID, drops); err != nil {
			p.logger.Warn("failed to record dropped pages", zap.Error(err))
		}
		drops = drops[:0]
	}

	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		page, err := reader.Next()
		if err != nil {
			break
		}

		p.mu.Lock()
		p.stats.PagesRead++
		p.mu.Unlock()

		doc := quality.BuildDocument(page, buildOpts)
		if !doc.Indexable() {
			p.mu.Lock()
			p.stats.Dropped++
			p.mu.Unlock()
			drops = append(drops, storage.DroppedPage{
				PageID: pageNumericID(page.ID),
				Title:  page.Title,
				Reason: dropReason(doc),
			})
			if len(drops) >= dropFlushSize {
				flushDrops()
			}
			continue
		}

		id := doc.PageID
		if id == "" {
			id = uuid.NewString()
		}
		batch = append(batch, esclient.Document{ID: id, Source: doc})
		if len(batch) >= batchSize {
			p.submitBatch(ctx, &wg, batch)
			batch = make([]esclient.Document, 0, batchSize)
		}
	}
	if len(batch) > 0 {
		p.submitBatch(ctx, &wg, batch)
	}
	wg.Wait()
	flushDrops()

	if runErr == nil {
		if err := p.client.Refresh(ctx, p.index); err != nil {
			p.logger.Warn("index refresh failed", zap.Error(err))
		}
	}

	p.mu.Lock()
	stats := p.stats
	p.mu.Unlock()
	stats.Skipped = reader.Skipped()

	if p.ledger != nil {
		msg := ""
		if runErr != nil {
			msg = runErr.Error()
		}
		if err := p.ledger.FinishRun(ctx, runID, stats.PagesRead, stats.Indexed, stats.Dropped, stats.Failed, msg); err != nil {
			p.logger.Warn("failed to finalize run record", zap.Error(err))
		}
	}

	p.logger.Info("ingest run finished",
		zap.String("source", path),
		zap.Int("pages_read", stats.PagesRead),
		zap.Int("skipped", stats.Skipped),
		zap.Int("indexed", stats.Indexed),
		zap.Int("dropped", stats.Dropped),
		zap.Int("failed", stats.Failed),
	)
	return stats, runErr
}

// submitBatch hands a full batch to the worker pool. Submit only fails when
// the pool is released, in which case the upload runs inline.
func (p *Pipeline) submitBatch(ctx context.Context, wg *sync.WaitGroup, batch []esclient.Document) {
	wg.Add(1)
	upload := func() {
		defer wg.Done()
		stats, err := p.client.BulkIndex(ctx, p.index, batch)
		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.logger.Error("bulk upload failed", zap.Int("batch_size", len(batch)), zap.Error(err))
			p.stats.Failed += len(batch)
			return
		}
		p.stats.Indexed += stats.Indexed
		p.stats.Failed += stats.Failed
	}
	if err := p.pool.Submit(upload); err != nil {
		upload()
	}
}

// Close releases the worker pool.
func (p *Pipeline) Close() {
	p.pool.Release()
}

// dropReason classifies why a built document failed the index gate.
func dropReason(doc *models.ArticleDocument) string {
	switch {
	case doc.Redirect != "":
		return storage.DropRedirect
	case doc.ContentType != models.ContentTypeArticle:
		return storage.DropNotArticle
	case doc.TextLength == 0:
		return storage.DropEmptyText
	default:
		return storage.DropTooShort
	}
}

// pageNumericID parses the dump page ID, returning 0 for missing or
// malformed values.
func pageNumericID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
