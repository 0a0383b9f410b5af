// Package quality derives searchable fields from cleaned article text:
// sentence counts, keywords, summaries, and content classification.
package quality

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/zetasearch/zeta/internal/dump"
	"github.com/zetasearch/zeta/internal/models"
	"github.com/zetasearch/zeta/internal/wikitext"
)

// MinSubstantialSentences is the sentence count at or above which an
// article counts as substantial.
const MinSubstantialSentences = 6

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	titleTokenRe    = regexp.MustCompile(`\b[A-Za-z]{3,}\b`)
	properNounRe    = regexp.MustCompile(`\b[A-Z][a-z]{2,}\b`)
	bodyTokenRe     = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)
	codeLabelRe     = regexp.MustCompile(`^[A-Z_]+\s*[:=]`)
	numberedRe      = regexp.MustCompile(`^\d+\s*[.:]\s*`)
)

// CountSentences splits text on runs of sentence punctuation and counts
// the non-empty trimmed fragments. This is the simple variant used by
// result filtering.
func CountSentences(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	count := 0
	for _, s := range sentenceSplitRe.Split(strings.TrimSpace(text), -1) {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}

// CountSentencesStrict is the ingestion-time variant: fragments of 10
// characters or fewer are discarded as abbreviation artifacts. The online
// filtering path must not use this; it uses CountSentences.
func CountSentencesStrict(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	count := 0
	for _, s := range sentenceSplitRe.Split(strings.TrimSpace(text), -1) {
		if len(strings.TrimSpace(s)) > 10 {
			count++
		}
	}
	return count
}

// ExtractKeywords builds a keyword set from the title and body: lowercase
// title tokens of 3+ letters, lowercased capitalized words from the body,
// and lowercase body tokens of 4+ letters that appear more than once
// (capped to the first 20 qualifying tokens in encounter order).
func ExtractKeywords(text, title string) []string {
	var keywords []string
	seen := make(map[string]bool)
	add := func(w string) {
		if !seen[w] {
			seen[w] = true
			keywords = append(keywords, w)
		}
	}

	for _, w := range titleTokenRe.FindAllString(strings.ToLower(title), -1) {
		add(w)
	}
	for _, w := range properNounRe.FindAllString(text, -1) {
		add(strings.ToLower(w))
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range bodyTokenRe.FindAllString(strings.ToLower(text), -1) {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	frequent := 0
	for _, w := range order {
		if counts[w] > 1 {
			add(w)
			frequent++
			if frequent >= 20 {
				break
			}
		}
	}
	return keywords
}

// ExtractSummary builds a summary from the leading well-formed sentences
// of text, staying within maxLength. Short fragments, code-like labels,
// and numbered list items are skipped. When no sentence qualifies, the
// first maxLength characters of the input are returned instead.
func ExtractSummary(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	var accepted []string
	length := 0 // length of the joined summary, excluding the trailing period
	for _, s := range sentenceSplitRe.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s == "" || len(s) < 20 {
			continue
		}
		if codeLabelRe.MatchString(s) || numberedRe.MatchString(s) {
			continue
		}
		next := length + len(s)
		if len(accepted) > 0 {
			next += 2 // ". " separator
		}
		if next > maxLength {
			break
		}
		accepted = append(accepted, s)
		length = next
	}
	if len(accepted) == 0 {
		if len(text) > maxLength {
			return text[:maxLength]
		}
		return text
	}
	return strings.Join(accepted, ". ") + "."
}

// ContentType classifies a page from its namespace code and redirect target.
func ContentType(namespace, redirectTarget string) string {
	switch namespace {
	case "1":
		return models.ContentTypeTalk
	case "6":
		return models.ContentTypeFile
	case "14":
		return models.ContentTypeCategory
	}
	if redirectTarget != "" {
		return models.ContentTypeRedirect
	}
	return models.ContentTypeArticle
}

// Score maps a sentence count onto the 1..10 quality scale. Monotonic
// non-decreasing in the sentence count.
func Score(sentenceCount int) float64 {
	score := float64(sentenceCount) / 2
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// BuildOptions tunes document assembly. Zero values fall back to the
// historical defaults.
type BuildOptions struct {
	MinTextLength    int // cleaned length above which has_content is true
	StoredTextLength int // stored text truncation; 0 = keep full text
	SummaryLength    int
}

func (o *BuildOptions) withDefaults() BuildOptions {
	opts := *o
	if opts.MinTextLength == 0 {
		opts.MinTextLength = 100
	}
	if opts.SummaryLength == 0 {
		opts.SummaryLength = 500
	}
	return opts
}

// BuildDocument assembles the indexable document for one raw dump page:
// markup is stripped, quality fields are derived from the cleaned text
// (never the raw text), and the stored body is truncated per options while
// raw_text is kept in full for reprocessing.
func BuildDocument(page *dump.Page, opts BuildOptions) *models.ArticleDocument {
	o := opts.withDefaults()
	redirect := page.RedirectTarget()

	cleaned := wikitext.Clean(page.Revision.Text)
	sentences := CountSentencesStrict(cleaned)

	stored := cleaned
	if o.StoredTextLength > 0 && len(stored) > o.StoredTextLength {
		stored = stored[:o.StoredTextLength]
	}

	doc := &models.ArticleDocument{
		Title:       page.Title,
		Namespace:   page.NS,
		PageID:      page.ID,
		Redirect:    redirect,
		ContentType: ContentType(page.NS, redirect),

		RevisionID:          page.Revision.ID,
		ParentID:            page.Revision.ParentID,
		Timestamp:           page.Revision.Timestamp,
		ContributorUsername: page.Revision.Contributor.Username,
		ContributorID:       page.Revision.Contributor.ID,
		Comment:             page.Revision.Comment,
		Origin:              page.Revision.Origin,
		Model:               page.Revision.Model,
		Format:              page.Revision.Format,

		Text:          stored,
		RawText:       page.Revision.Text,
		Summary:       ExtractSummary(cleaned, o.SummaryLength),
		Keywords:      ExtractKeywords(cleaned, page.Title),
		SentenceCount: sentences,
		QualityScore:  Score(sentences),
		TextLength:    len(cleaned),

		TitleKeywords: strings.Fields(strings.ToLower(page.Title)),
		HasContent:    len(cleaned) > o.MinTextLength,
		IsSubstantial: sentences >= MinSubstantialSentences,

		IndexedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if page.Title != "" {
		doc.URL = fmt.Sprintf("https://en.wikipedia.org/wiki/%s", strings.ReplaceAll(page.Title, " ", "_"))
	}
	return doc
}
