// Package esclient wraps the Elasticsearch client behind a small interface:
// search, bulk upload, scrolling, and index bootstrap. Index schema and query
// execution are delegated entirely to the engine.
package esclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"go.uber.org/zap"
)

// Config holds connection settings for the engine.
type Config struct {
	Addresses []string
	Username  string
	Password  string
	APIKey    string
}

// Document is one (id, source) pair for bulk upload. An empty ID lets the
// engine assign one.
type Document struct {
	ID     string
	Source interface{}
}

// BulkStats reports per-batch outcomes of a bulk upload.
type BulkStats struct {
	Indexed int
	Failed  int
}

// Client is the engine boundary consumed by the search and ingest paths.
// One instance per process, shared read-only across requests.
type Client interface {
	Ping(ctx context.Context) bool
	Search(ctx context.Context, index string, body map[string]interface{}) (*Response, error)
	BulkIndex(ctx context.Context, index string, docs []Document) (BulkStats, error)
	ScrollPages(ctx context.Context, index string, body map[string]interface{}, size int, fn func(hits []Hit) error) error
	EnsureIndex(ctx context.Context, index string, mapping string) error
	Refresh(ctx context.Context, index string) error
}

// Elastic implements Client against a real Elasticsearch cluster.
type Elastic struct {
	es     *elasticsearch.Client
	logger *zap.Logger
}

// New builds a client from cfg. The connection is not verified here; use
// Ping for that.
func New(cfg Config, logger *zap.Logger) (*Elastic, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Elastic{es: es, logger: logger}, nil
}

// Ping reports whether the cluster is reachable.
func (c *Elastic) Ping(ctx context.Context) bool {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

// Search executes the given query body against index and parses the response.
func (c *Elastic) Search(ctx context.Context, index string, body map[string]interface{}) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search returned %s: %s", res.Status(), msg)
	}
	var parsed Response
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &parsed, nil
}

// BulkIndex uploads docs to index in one bulk operation. Partial failures
// within the batch do not fail the call; they are counted in the stats.
func (c *Elastic) BulkIndex(ctx context.Context, index string, docs []Document) (BulkStats, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client: c.es,
		Index:  index,
	})
	if err != nil {
		return BulkStats{}, fmt.Errorf("failed to create bulk indexer: %w", err)
	}
	for _, doc := range docs {
		payload, err := json.Marshal(doc.Source)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("skipping unencodable document", zap.String("id", doc.ID), zap.Error(err))
			}
			continue
		}
		item := esutil.BulkIndexerItem{
			Action: "index",
			Body:   bytes.NewReader(payload),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if c.logger == nil {
					return
				}
				if err != nil {
					c.logger.Warn("bulk item failed", zap.String("id", item.DocumentID), zap.Error(err))
				} else {
					c.logger.Warn("bulk item rejected", zap.String("id", item.DocumentID), zap.String("reason", res.Error.Reason))
				}
			},
		}
		if doc.ID != "" {
			item.DocumentID = doc.ID
		}
		if err := bi.Add(ctx, item); err != nil {
			return BulkStats{}, fmt.Errorf("bulk add failed: %w", err)
		}
	}
	if err := bi.Close(ctx); err != nil {
		return BulkStats{}, fmt.Errorf("bulk close failed: %w", err)
	}
	stats := bi.Stats()
	return BulkStats{
		Indexed: int(stats.NumFlushed),
		Failed:  int(stats.NumFailed),
	}, nil
}

// ScrollPages walks every matching document in index with the scroll API,
// invoking fn once per page of hits until the scroll is exhausted or fn
// returns an error.
func (c *Elastic) ScrollPages(ctx context.Context, index string, body map[string]interface{}, size int, fn func(hits []Hit) error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode scroll query: %w", err)
	}
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(payload)),
		c.es.Search.WithSize(size),
		c.es.Search.WithScroll(scrollKeepAlive),
	)
	if err != nil {
		return fmt.Errorf("scroll open failed: %w", err)
	}
	page, scrollID, err := decodeScrollPage(res)
	if err != nil {
		return err
	}
	defer c.clearScroll(scrollID)

	for len(page) > 0 {
		if err := fn(page); err != nil {
			return err
		}
		res, err := c.es.Scroll(
			c.es.Scroll.WithContext(ctx),
			c.es.Scroll.WithScrollID(scrollID),
			c.es.Scroll.WithScroll(scrollKeepAlive),
		)
		if err != nil {
			return fmt.Errorf("scroll continue failed: %w", err)
		}
		page, scrollID, err = decodeScrollPage(res)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Elastic) clearScroll(scrollID string) {
	if scrollID == "" {
		return
	}
	res, err := c.es.ClearScroll(c.es.ClearScroll.WithScrollID(scrollID))
	if err == nil {
		res.Body.Close()
	}
}

// EnsureIndex creates index with the given mapping when it does not already exist.
func (c *Elastic) EnsureIndex(ctx context.Context, index string, mapping string) error {
	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists check failed: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	created, err := c.es.Indices.Create(
		index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return fmt.Errorf("index create failed: %w", err)
	}
	defer created.Body.Close()
	if created.IsError() {
		msg, _ := io.ReadAll(created.Body)
		return fmt.Errorf("index create returned %s: %s", created.Status(), msg)
	}
	return nil
}

// Refresh makes recently indexed documents searchable.
func (c *Elastic) Refresh(ctx context.Context, index string) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithContext(ctx),
		c.es.Indices.Refresh.WithIndex(index),
	)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	res.Body.Close()
	return nil
}
