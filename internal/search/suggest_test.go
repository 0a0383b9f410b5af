package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zetasearch/zeta/internal/esclient"
)

func TestSuggester_TooShort(t *testing.T) {
	s := NewSuggester(&mockClient{}, "wiki_articles", 10, nil)
	resp := s.Suggest(context.Background(), "a", 10)
	if resp.Success {
		t.Error("single-character query should be refused")
	}
	if len(resp.Suggestions) != 0 {
		t.Errorf("suggestions: %v", resp.Suggestions)
	}
	if resp.Message == "" {
		t.Error("expected explanatory message")
	}
}

func TestSuggester_EngineBacked(t *testing.T) {
	client := &mockClient{
		responses: []*esclient.Response{
			{
				Aggregations: map[string]esclient.Aggregation{
					"title_suggestions": {Buckets: []esclient.Bucket{{Key: "paris metro"}, {Key: "paris"}}},
				},
			},
			{
				Hits: esclient.Hits{Hits: []esclient.Hit{
					{Source: esclient.Source{Title: "Paris Commune"}},
					{Source: esclient.Source{Title: "History of Paris"}},
				}},
			},
		},
	}
	s := NewSuggester(client, "wiki_articles", 10, nil)

	resp := s.Suggest(context.Background(), "paris", 10)
	if !resp.Success || resp.IsStatic {
		t.Fatalf("expected engine-backed response: %+v", resp)
	}
	if client.calls != 2 {
		t.Errorf("expected aggregation and direct searches, got %d calls", client.calls)
	}
	for _, sug := range resp.Suggestions {
		if strings.ToLower(sug) == "paris" {
			t.Errorf("query itself must not be suggested: %v", resp.Suggestions)
		}
	}
	// Prefix matches come first, shorter first.
	if resp.Suggestions[0] != "paris metro" {
		t.Errorf("first suggestion: %q", resp.Suggestions[0])
	}
	for i, sug := range resp.Suggestions {
		if strings.HasPrefix(strings.ToLower(sug), "paris") {
			continue
		}
		for _, rest := range resp.Suggestions[i:] {
			if strings.HasPrefix(strings.ToLower(rest), "paris") {
				t.Fatalf("prefix match %q sorted after non-prefix %q", rest, sug)
			}
		}
		break
	}
}

func TestSuggester_IncludesVariations(t *testing.T) {
	s := NewSuggester(&mockClient{responses: []*esclient.Response{{}, {}}}, "wiki_articles", 10, nil)
	resp := s.Suggest(context.Background(), "golang", 20)
	want := map[string]bool{
		"golang definition": false,
		"golang examples":   false,
		"golang tutorial":   false,
		"what is golang":    false,
	}
	for _, sug := range resp.Suggestions {
		if _, ok := want[sug]; ok {
			want[sug] = true
		}
	}
	for v, found := range want {
		if !found {
			t.Errorf("variation %q missing from %v", v, resp.Suggestions)
		}
	}
}

func TestSuggester_FallbackOnError(t *testing.T) {
	client := &mockClient{err: errors.New("cluster down")}
	s := NewSuggester(client, "wiki_articles", 10, nil)

	resp := s.Suggest(context.Background(), "golang", 10)
	if !resp.Success {
		t.Error("fallback response should still succeed")
	}
	if !resp.IsStatic {
		t.Error("expected static fallback")
	}
	if resp.Message == "" {
		t.Error("fallback should carry a message")
	}
	if len(resp.Suggestions) != 8 {
		t.Errorf("static list: %v", resp.Suggestions)
	}
}

func TestSuggester_LimitClamped(t *testing.T) {
	client := &mockClient{err: errors.New("down")}
	s := NewSuggester(client, "wiki_articles", 10, nil)

	if resp := s.Suggest(context.Background(), "golang", 3); len(resp.Suggestions) != 3 {
		t.Errorf("max=3: got %d", len(resp.Suggestions))
	}
	if resp := s.Suggest(context.Background(), "golang", 0); len(resp.Suggestions) != 8 {
		t.Errorf("max=0 should default to 10: got %d", len(resp.Suggestions))
	}
	if resp := s.Suggest(context.Background(), "golang", 500); len(resp.Suggestions) != 8 {
		t.Errorf("oversized max should clamp, got %d", len(resp.Suggestions))
	}
}

func TestStaticSuggestions(t *testing.T) {
	got := StaticSuggestions("Rust")
	if len(got) != 8 {
		t.Fatalf("got %d suggestions", len(got))
	}
	for _, sug := range got {
		if !strings.Contains(sug, "rust") {
			t.Errorf("suggestion %q does not mention the query", sug)
		}
	}
}
