// Package config provides configuration loading and structs for the zeta server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Elastic   ElasticConfig   `yaml:"elastic"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Ingest    IngestConfig    `yaml:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// ElasticConfig holds Elasticsearch connection and index settings.
type ElasticConfig struct {
	Addresses     []string `yaml:"addresses"`
	Username      string   `yaml:"username"`
	Password      string   `yaml:"password"`
	APIKey        string   `yaml:"api_key"`
	Index         string   `yaml:"index"`
	SemanticIndex string   `yaml:"semantic_index"`
}

// EmbeddingConfig holds ONNX embedder settings.
type EmbeddingConfig struct {
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// SearchConfig holds query building and result shaping settings.
type SearchConfig struct {
	DefaultPageSize   int    `yaml:"default_page_size"`
	MaxPageSize       int    `yaml:"max_page_size"`
	PreviewLength     int    `yaml:"preview_length"`
	MinSentences      int    `yaml:"min_sentences"`
	FilterThinResults bool   `yaml:"filter_thin_results"`
	HighlightPreTag   string `yaml:"highlight_pre_tag"`
	HighlightPostTag  string `yaml:"highlight_post_tag"`
	MaxSuggestions    int    `yaml:"max_suggestions"`
}

// IngestConfig holds offline pipeline settings. The text length thresholds
// are tunables, not contracts; earlier deployments ran with larger values.
type IngestConfig struct {
	BatchSize        int      `yaml:"batch_size"`
	Workers          int      `yaml:"workers"`
	MinTextLength    int      `yaml:"min_text_length"`
	StoredTextLength int      `yaml:"stored_text_length"`
	EmbedTextLength  int      `yaml:"embed_text_length"`
	SummaryLength    int      `yaml:"summary_length"`
	LedgerPath       string   `yaml:"ledger_path"`
	SpoolDirectories []string `yaml:"spool_directories"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.Ingest.LedgerPath = expandPath(cfg.Ingest.LedgerPath, configDir)
	for i := range cfg.Ingest.SpoolDirectories {
		cfg.Ingest.SpoolDirectories[i] = expandPath(cfg.Ingest.SpoolDirectories[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
