package search

import (
	"sort"

	"github.com/zetasearch/zeta/internal/config"
	"github.com/zetasearch/zeta/internal/esclient"
	"github.com/zetasearch/zeta/internal/models"
	"github.com/zetasearch/zeta/internal/quality"
	"github.com/zetasearch/zeta/pkg/utils"
)

// Shape converts the raw engine response into the API response: previews,
// highlights, optional thin-result filtering, score ordering, pagination,
// and deduplicated suggestions.
//
// When thin-result filtering is active the filter runs before pagination
// (the builder over-fetched for exactly this reason) and the reported total
// is the count of results actually returned, not the engine's match count.
func Shape(resp *esclient.Response, query *models.SearchQuery, cfg *config.SearchConfig) *models.SearchResponse {
	results := make([]*models.SearchResult, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if cfg.FilterThinResults && quality.CountSentences(hit.Source.Text) < cfg.MinSentences {
			continue
		}
		results = append(results, shapeHit(hit, cfg))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > query.PageSize {
		results = results[:query.PageSize]
	}

	total := resp.Hits.Total.Value
	if cfg.FilterThinResults {
		total = len(results)
	}

	return &models.SearchResponse{
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
		Results:  results,
		Suggest:  collectSuggestions(resp),
	}
}

func shapeHit(hit esclient.Hit, cfg *config.SearchConfig) *models.SearchResult {
	result := &models.SearchResult{
		ID:          hit.ID,
		Title:       hit.Source.Title,
		Text:        utils.Truncate(hit.Source.Text, cfg.PreviewLength),
		Contributor: hit.Source.ContributorUsername,
		Timestamp:   hit.Source.Timestamp,
		Score:       hit.Score,
	}
	if len(hit.Highlight) > 0 {
		result.Highlights = &models.SearchHighlight{
			Title: hit.Highlight["title"],
			Text:  hit.Highlight["text"],
		}
	}
	return result
}

// collectSuggestions deduplicates the engine's title suggestions, keeping
// encounter order.
func collectSuggestions(resp *esclient.Response) []string {
	entries, ok := resp.Suggest["title_suggestions"]
	if !ok {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, entry := range entries {
		for _, opt := range entry.Options {
			if !seen[opt.Text] {
				seen[opt.Text] = true
				out = append(out, opt.Text)
			}
		}
	}
	return out
}
