package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.CORSOrigins == nil {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if len(cfg.Elastic.Addresses) == 0 {
		cfg.Elastic.Addresses = []string{"http://localhost:9200"}
	}
	if cfg.Elastic.Index == "" {
		cfg.Elastic.Index = "wiki_articles"
	}
	if cfg.Elastic.SemanticIndex == "" {
		cfg.Elastic.SemanticIndex = "wiki_articles_semantic"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/zeta/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Search.DefaultPageSize == 0 {
		cfg.Search.DefaultPageSize = 10
	}
	if cfg.Search.MaxPageSize == 0 {
		cfg.Search.MaxPageSize = 100
	}
	if cfg.Search.PreviewLength == 0 {
		cfg.Search.PreviewLength = 500
	}
	if cfg.Search.MinSentences == 0 {
		cfg.Search.MinSentences = 6
	}
	if cfg.Search.HighlightPreTag == "" {
		cfg.Search.HighlightPreTag = "<mark>"
	}
	if cfg.Search.HighlightPostTag == "" {
		cfg.Search.HighlightPostTag = "</mark>"
	}
	if cfg.Search.MaxSuggestions == 0 {
		cfg.Search.MaxSuggestions = 10
	}
	if cfg.Ingest.BatchSize == 0 {
		cfg.Ingest.BatchSize = 50
	}
	if cfg.Ingest.Workers == 0 {
		cfg.Ingest.Workers = 4
	}
	if cfg.Ingest.MinTextLength == 0 {
		cfg.Ingest.MinTextLength = 100
	}
	if cfg.Ingest.StoredTextLength == 0 {
		cfg.Ingest.StoredTextLength = 1000
	}
	if cfg.Ingest.EmbedTextLength == 0 {
		cfg.Ingest.EmbedTextLength = 800
	}
	if cfg.Ingest.SummaryLength == 0 {
		cfg.Ingest.SummaryLength = 500
	}
	if cfg.Ingest.LedgerPath == "" {
		cfg.Ingest.LedgerPath = "/usr/local/var/zeta/ingest.db"
	}
}
