package esclient

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const scrollKeepAlive = 15 * time.Minute

// Response is the parsed engine search response, reduced to the fields the
// service consumes.
type Response struct {
	ScrollID     string                    `json:"_scroll_id,omitempty"`
	Hits         Hits                      `json:"hits"`
	Suggest      map[string][]SuggestEntry `json:"suggest,omitempty"`
	Aggregations map[string]Aggregation    `json:"aggregations,omitempty"`
}

// Hits is the hit collection with the engine's raw match total.
type Hits struct {
	Total Total `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Total is the engine's match count.
type Total struct {
	Value int `json:"value"`
}

// Hit is one raw engine hit.
type Hit struct {
	ID        string              `json:"_id"`
	Score     float64             `json:"_score"`
	Source    Source              `json:"_source"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// Source is the stored document subset used when shaping results.
type Source struct {
	Title               string `json:"title"`
	Text                string `json:"text"`
	ContributorUsername string `json:"contributor_username"`
	Timestamp           string `json:"timestamp"`
}

// SuggestEntry is one suggester entry with its candidate options.
type SuggestEntry struct {
	Text    string          `json:"text"`
	Options []SuggestOption `json:"options"`
}

// SuggestOption is one suggested term.
type SuggestOption struct {
	Text string `json:"text"`
}

// Aggregation carries terms-aggregation buckets.
type Aggregation struct {
	Buckets []Bucket `json:"buckets"`
}

// Bucket is one terms-aggregation bucket.
type Bucket struct {
	Key string `json:"key"`
}

func decodeScrollPage(res *esapi.Response) ([]Hit, string, error) {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, "", fmt.Errorf("scroll returned %s: %s", res.Status(), msg)
	}
	var parsed Response
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, "", fmt.Errorf("failed to decode scroll response: %w", err)
	}
	return parsed.Hits.Hits, parsed.ScrollID, nil
}
