package search

import (
	"github.com/zetasearch/zeta/internal/config"
	"github.com/zetasearch/zeta/internal/models"
)

// overfetchCap bounds how far the builder widens size when thin-result
// filtering is active.
const overfetchCap = 100

// BuildRequest translates a normalized SearchQuery into the engine's query
// body: weighted multi-field match, optional filters and sort, highlighting,
// and a title term suggester.
func BuildRequest(query *models.SearchQuery, cfg *config.SearchConfig) map[string]interface{} {
	size := query.PageSize
	if cfg.FilterThinResults {
		// Over-fetch so that dropping thin hits still yields a full page.
		size = query.PageSize * 10
		if size > overfetchCap {
			size = overfetchCap
		}
	}

	q := map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":     query.Query,
			"fields":    []string{"title^3", "text^2", "comment^1"},
			"fuzziness": "AUTO",
			"operator":  "or",
		},
	}

	if len(query.FilterBy) > 0 {
		filters := make([]interface{}, 0, len(query.FilterBy))
		for field, value := range query.FilterBy {
			switch v := value.(type) {
			case []interface{}:
				filters = append(filters, map[string]interface{}{
					"terms": map[string]interface{}{field: v},
				})
			case []string:
				filters = append(filters, map[string]interface{}{
					"terms": map[string]interface{}{field: v},
				})
			default:
				filters = append(filters, map[string]interface{}{
					"term": map[string]interface{}{field: v},
				})
			}
		}
		q = map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   q,
				"filter": filters,
			},
		}
	}

	body := map[string]interface{}{
		"from":  query.From(),
		"size":  size,
		"query": q,
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"title": map[string]interface{}{"number_of_fragments": 1},
				"text":  map[string]interface{}{"number_of_fragments": 1, "fragment_size": 150},
			},
			"pre_tags":  []string{cfg.HighlightPreTag},
			"post_tags": []string{cfg.HighlightPostTag},
		},
		"suggest": map[string]interface{}{
			"text": query.Query,
			"title_suggestions": map[string]interface{}{
				"term": map[string]interface{}{
					"field":        "title",
					"suggest_mode": "popular",
					"sort":         "frequency",
				},
			},
		},
	}

	if query.SortBy != "" {
		body["sort"] = []interface{}{
			map[string]interface{}{
				query.SortBy: map[string]interface{}{"order": query.SortOrder},
			},
		}
	}

	return body
}
