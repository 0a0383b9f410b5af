package models

// SearchHighlight carries engine-returned highlight fragments for one hit.
type SearchHighlight struct {
	Title []string `json:"title,omitempty"`
	Text  []string `json:"text,omitempty"`
}

// SearchResult is one shaped hit in a search response.
type SearchResult struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Text        string           `json:"text"`
	Contributor string           `json:"contributor,omitempty"`
	Timestamp   string           `json:"timestamp,omitempty"`
	Score       float64          `json:"score"`
	Highlights  *SearchHighlight `json:"highlights,omitempty"`
}

// SearchResponse is the response for a search request.
//
// Total is the engine's raw match count when thin-result filtering is
// disabled. When filtering is active, Total is the count of results
// actually returned after filtering, not the full corpus match count.
type SearchResponse struct {
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Results  []*SearchResult `json:"results"`
	Suggest  []string        `json:"suggest,omitempty"`
}

// SuggestionResponse is the response for a suggestion request.
type SuggestionResponse struct {
	Success     bool     `json:"success"`
	Suggestions []string `json:"suggestions"`
	IsStatic    bool     `json:"is_static,omitempty"`
	Message     string   `json:"message,omitempty"`
}

// HealthResponse reports API and engine health.
type HealthResponse struct {
	Status               string `json:"status"`
	ElasticsearchHealthy bool   `json:"elasticsearch"`
}
