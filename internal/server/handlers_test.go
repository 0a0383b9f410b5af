package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/zetasearch/zeta/internal/config"
	"github.com/zetasearch/zeta/internal/esclient"
	"github.com/zetasearch/zeta/internal/models"
	"github.com/zetasearch/zeta/internal/search"
)

type mockClient struct {
	resp   *esclient.Response
	err    error
	pingOK bool
}

func (m *mockClient) Ping(ctx context.Context) bool { return m.pingOK }

func (m *mockClient) Search(ctx context.Context, index string, body map[string]interface{}) (*esclient.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.resp == nil {
		return &esclient.Response{}, nil
	}
	return m.resp, nil
}

func (m *mockClient) BulkIndex(ctx context.Context, index string, docs []esclient.Document) (esclient.BulkStats, error) {
	return esclient.BulkStats{}, nil
}

func (m *mockClient) ScrollPages(ctx context.Context, index string, body map[string]interface{}, size int, fn func([]esclient.Hit) error) error {
	return nil
}

func (m *mockClient) EnsureIndex(ctx context.Context, index string, mapping string) error {
	return nil
}

func (m *mockClient) Refresh(ctx context.Context, index string) error { return nil }

func newTestServer(client esclient.Client) *Server {
	searchCfg := &config.SearchConfig{
		DefaultPageSize:  10,
		MaxPageSize:      100,
		PreviewLength:    500,
		MinSentences:     6,
		HighlightPreTag:  "<mark>",
		HighlightPostTag: "</mark>",
	}
	logger := zap.NewNop()
	engine := search.NewEngine(client, "wiki_articles", searchCfg, logger)
	suggester := search.NewSuggester(client, "wiki_articles", searchCfg.MaxSuggestions, logger)
	return NewServer(engine, suggester, &config.ServerConfig{
		Host:        "localhost",
		Port:        8080,
		CORSOrigins: []string{"http://localhost:3000"},
	}, logger)
}

func searchResponse() *esclient.Response {
	return &esclient.Response{
		Hits: esclient.Hits{
			Total: esclient.Total{Value: 1},
			Hits: []esclient.Hit{{
				ID:     "1",
				Score:  2.5,
				Source: esclient.Source{Title: "Paris", Text: "Paris is the capital of France."},
			}},
		},
	}
}

func TestHandleSearch_Post(t *testing.T) {
	srv := newTestServer(&mockClient{resp: searchResponse()})
	body := `{"query": "paris", "page": 1, "page_size": 10}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d, body: %s", w.Code, w.Body.String())
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Errorf("response: %+v", resp)
	}
	if resp.Results[0].Title != "Paris" {
		t.Errorf("title: %s", resp.Results[0].Title)
	}
}

func TestHandleSearch_Get(t *testing.T) {
	srv := newTestServer(&mockClient{resp: searchResponse()})
	req := httptest.NewRequest(http.MethodGet, "/api/search?query=paris&page=2&page_size=5", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Page != 2 || resp.PageSize != 5 {
		t.Errorf("pagination: page=%d pageSize=%d", resp.Page, resp.PageSize)
	}
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	srv := newTestServer(&mockClient{})
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: %d", w.Code)
	}
}

func TestHandleSearch_InvalidBody(t *testing.T) {
	srv := newTestServer(&mockClient{})
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: %d", w.Code)
	}
}

func TestHandleSearch_EngineError(t *testing.T) {
	srv := newTestServer(&mockClient{err: errors.New("connection refused")})
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"query":"paris"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status: %d", w.Code)
	}
}

func TestHandleSuggest(t *testing.T) {
	srv := newTestServer(&mockClient{err: errors.New("down")})
	req := httptest.NewRequest(http.MethodGet, "/api/suggest?query=golang", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var resp models.SuggestionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || !resp.IsStatic {
		t.Errorf("response: %+v", resp)
	}
	if len(resp.Suggestions) == 0 {
		t.Error("expected fallback suggestions")
	}
}

func TestHandleSuggest_TooShort(t *testing.T) {
	srv := newTestServer(&mockClient{})
	req := httptest.NewRequest(http.MethodGet, "/api/suggest?query=a", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var resp models.SuggestionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success {
		t.Error("short query should not succeed")
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&mockClient{pingOK: true})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || !resp.ElasticsearchHealthy {
		t.Errorf("response: %+v", resp)
	}
}

func TestHandleHealth_Degraded(t *testing.T) {
	srv := newTestServer(&mockClient{pingOK: false})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status: %d", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(&mockClient{pingOK: true})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted origin allowed: %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&mockClient{})
	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status: %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight should carry allowed methods")
	}
}
