package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
elastic:
  addresses: ["http://es1:9200"]
  index: "wiki_test"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Elastic.Index != "wiki_test" {
		t.Errorf("index: got %s", cfg.Elastic.Index)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Elastic.Addresses[0] != "http://localhost:9200" {
		t.Errorf("addresses: got %v", cfg.Elastic.Addresses)
	}
	if cfg.Elastic.Index != "wiki_articles" {
		t.Errorf("index: got %s", cfg.Elastic.Index)
	}
	if cfg.Search.DefaultPageSize != 10 || cfg.Search.MaxPageSize != 100 {
		t.Errorf("page size defaults: %+v", cfg.Search)
	}
	if cfg.Search.PreviewLength != 500 || cfg.Search.MinSentences != 6 {
		t.Errorf("search defaults: %+v", cfg.Search)
	}
	if cfg.Search.HighlightPreTag != "<mark>" || cfg.Search.HighlightPostTag != "</mark>" {
		t.Errorf("highlight tags: %+v", cfg.Search)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("dimensions: got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Ingest.BatchSize != 50 {
		t.Errorf("batch size: got %d", cfg.Ingest.BatchSize)
	}
	if cfg.Ingest.MinTextLength != 100 || cfg.Ingest.StoredTextLength != 1000 || cfg.Ingest.EmbedTextLength != 800 {
		t.Errorf("ingest length tunables: %+v", cfg.Ingest)
	}
}

func TestLoad_expandsRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
ingest:
  ledger_path: "./ingest.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Ingest.LedgerPath != filepath.Join(dir, "ingest.db") {
		t.Errorf("ledger_path: got %s", cfg.Ingest.LedgerPath)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
