package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/zetasearch/zeta/internal/esclient"
	"github.com/zetasearch/zeta/internal/models"
)

// MaxSuggestionLimit caps how many suggestions a single request can ask for.
const MaxSuggestionLimit = 20

// Suggester serves query suggestions: engine-backed when the engine
// cooperates, with a deterministic static fallback otherwise. The fallback
// is a designed degradation path, not an error swallow.
type Suggester struct {
	client     esclient.Client
	index      string
	defaultMax int
	logger     *zap.Logger
}

// NewSuggester creates a suggester backed by the given engine client.
// defaultMax is used when a request does not say how many it wants.
func NewSuggester(client esclient.Client, index string, defaultMax int, logger *zap.Logger) *Suggester {
	if defaultMax < 1 {
		defaultMax = 10
	}
	return &Suggester{client: client, index: index, defaultMax: defaultMax, logger: logger}
}

// Suggest returns up to max suggestions for the query prefix. Queries under
// two characters are refused; engine failures degrade to the static list.
func (s *Suggester) Suggest(ctx context.Context, query string, max int) *models.SuggestionResponse {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 {
		return &models.SuggestionResponse{
			Success:     false,
			Suggestions: []string{},
			Message:     "query must be at least 2 characters long",
		}
	}
	if max < 1 {
		max = s.defaultMax
	}
	if max > MaxSuggestionLimit {
		max = MaxSuggestionLimit
	}

	suggestions, err := s.engineSuggestions(ctx, q)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("engine suggestions failed, using static fallback", zap.String("query", q), zap.Error(err))
		}
		return &models.SuggestionResponse{
			Success:     true,
			Suggestions: limitTo(StaticSuggestions(q), max),
			IsStatic:    true,
			Message:     "used fallback suggestions due to an error",
		}
	}
	if len(suggestions) == 0 {
		return &models.SuggestionResponse{
			Success:     true,
			Suggestions: limitTo(StaticSuggestions(q), max),
			IsStatic:    true,
		}
	}
	return &models.SuggestionResponse{
		Success:     true,
		Suggestions: limitTo(suggestions, max),
	}
}

// engineSuggestions merges title aggregation buckets with direct title
// matches, mixes in query variations, drops the query itself, and sorts
// prefix matches first, shorter first.
func (s *Suggester) engineSuggestions(ctx context.Context, q string) ([]string, error) {
	var all []string
	seen := make(map[string]bool)
	add := func(text string) {
		if text != "" && !seen[text] {
			seen[text] = true
			all = append(all, text)
		}
	}

	aggResp, err := s.client.Search(ctx, s.index, map[string]interface{}{
		"size": 0,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{"prefix": map[string]interface{}{"title": map[string]interface{}{"value": q, "boost": 2.0}}},
					map[string]interface{}{"match_phrase_prefix": map[string]interface{}{"text": map[string]interface{}{"query": q, "slop": 2}}},
				},
			},
		},
		"aggs": map[string]interface{}{
			"title_suggestions": map[string]interface{}{
				"terms": map[string]interface{}{"field": "title.exact", "size": 5},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("title aggregation failed: %w", err)
	}
	if agg, ok := aggResp.Aggregations["title_suggestions"]; ok {
		for _, bucket := range agg.Buckets {
			add(bucket.Key)
		}
	}

	directResp, err := s.client.Search(ctx, s.index, map[string]interface{}{
		"size": 10,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{"prefix": map[string]interface{}{"title": q}},
					map[string]interface{}{"match": map[string]interface{}{"title": map[string]interface{}{"query": q, "fuzziness": "AUTO"}}},
					map[string]interface{}{"match_phrase_prefix": map[string]interface{}{"text": map[string]interface{}{"query": q, "slop": 3}}},
					map[string]interface{}{"match": map[string]interface{}{"text": map[string]interface{}{"query": q, "fuzziness": "AUTO", "operator": "AND"}}},
				},
			},
		},
		"_source": []string{"title"},
	})
	if err != nil {
		return nil, fmt.Errorf("direct title search failed: %w", err)
	}
	for _, hit := range directResp.Hits.Hits {
		add(hit.Source.Title)
	}

	for _, v := range queryVariations(q) {
		add(v)
	}

	filtered := all[:0]
	for _, sug := range all {
		if strings.ToLower(sug) != q {
			filtered = append(filtered, sug)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(filtered[i]), q)
		pj := strings.HasPrefix(strings.ToLower(filtered[j]), q)
		if pi != pj {
			return pi
		}
		return len(filtered[i]) < len(filtered[j])
	})
	return filtered, nil
}

// queryVariations are the suffixed forms mixed into every suggestion list.
func queryVariations(q string) []string {
	return []string{
		q + " definition",
		q + " examples",
		q + " tutorial",
		"what is " + q,
	}
}

// StaticSuggestions generates the deterministic fallback list for q.
func StaticSuggestions(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	variations := []string{
		q + " definition",
		q + " examples",
		q + " tutorial",
		"what is " + q,
		q + " guide",
		q + " vs",
		"learn " + q,
		q + " best practices",
	}
	out := variations[:0]
	for _, v := range variations {
		if strings.ToLower(v) != q {
			out = append(out, v)
		}
	}
	return out
}

func limitTo(suggestions []string, max int) []string {
	if len(suggestions) > max {
		return suggestions[:max]
	}
	return suggestions
}
