// Package models defines core data structures for articles, queries, and search results.
package models

// Content types derived from the dump namespace code and redirect presence.
const (
	ContentTypeArticle  = "article"
	ContentTypeTalk     = "talk"
	ContentTypeFile     = "file"
	ContentTypeCategory = "category"
	ContentTypeRedirect = "redirect"
)

// ArticleDocument is the indexed document shape for one wiki article.
// JSON tags match the Elasticsearch field names.
type ArticleDocument struct {
	Title       string `json:"title"`
	Namespace   string `json:"ns"`
	PageID      string `json:"id"`
	Redirect    string `json:"redirect"`
	ContentType string `json:"content_type"`

	RevisionID          string `json:"revision_id"`
	ParentID            string `json:"parentid"`
	Timestamp           string `json:"timestamp"`
	ContributorUsername string `json:"contributor_username"`
	ContributorID       string `json:"contributor_id"`
	Comment             string `json:"comment"`
	Origin              string `json:"origin"`
	Model               string `json:"model"`
	Format              string `json:"format"`

	Text          string   `json:"text"`
	RawText       string   `json:"raw_text"`
	Summary       string   `json:"summary"`
	Keywords      []string `json:"keywords"`
	SentenceCount int      `json:"sentence_count"`
	QualityScore  float64  `json:"quality_score"`
	TextLength    int      `json:"text_length"`

	TitleKeywords []string `json:"title_keywords"`
	HasContent    bool     `json:"has_content"`
	IsSubstantial bool     `json:"is_substantial"`

	IndexedAt string `json:"indexed_at"`
	URL       string `json:"url"`
}

// Indexable reports whether this document should be uploaded to the search
// index: real articles with content, never redirects.
func (a *ArticleDocument) Indexable() bool {
	return a.ContentType == ContentTypeArticle && a.Redirect == "" && a.HasContent
}

// SemanticDocument is the reduced shape stored in the semantic index,
// carrying the content embedding alongside minimal metadata.
type SemanticDocument struct {
	Title               string    `json:"title"`
	Text                string    `json:"text"`
	ContentEmbedding    []float32 `json:"content_embedding"`
	Timestamp           string    `json:"timestamp,omitempty"`
	ContributorUsername string    `json:"contributor_username"`
}
