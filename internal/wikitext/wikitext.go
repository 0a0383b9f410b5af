// Package wikitext strips MediaWiki markup into plain text suitable for
// indexing and embedding.
package wikitext

import (
	"regexp"
	"strings"
)

// Cleanup passes run in a fixed order; later passes assume earlier cleanup
// (e.g. heading markers are stripped only after templates and tables are gone).
var (
	citeTemplateRe = regexp.MustCompile(`(?i)\{\{cite[^}]+\}\}`)
	templateRe     = regexp.MustCompile(`\{\{[^}]+\}\}`)
	refPairRe      = regexp.MustCompile(`(?s)<ref.*?>.*?</ref>`)
	refSelfRe      = regexp.MustCompile(`<ref[^>]*?/>`)
	citeMarkerRe   = regexp.MustCompile(`\[\d+\]`)
	pipedLinkRe    = regexp.MustCompile(`\[\[([^|\]]+)\|([^\]]+)\]\]`)
	plainLinkRe    = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	extLinkBareRe  = regexp.MustCompile(`\[http[^\]\s]+\]`)
	extLinkTextRe  = regexp.MustCompile(`\[https?://[^\s\]]+([^\]]*)\]`)
	tableRe        = regexp.MustCompile(`(?s)\{\|.*?\|\}`)
	fileLinkRe     = regexp.MustCompile(`\[\[File:[^\]]+\]\]`)
	imageLinkRe    = regexp.MustCompile(`\[\[Image:[^\]]+\]\]`)
	boldRe         = regexp.MustCompile(`'''(.*?)'''`)
	italicRe       = regexp.MustCompile(`''(.*?)''`)
	subHeadingRe   = regexp.MustCompile(`===+([^=]+)===+`)
	headingRe      = regexp.MustCompile(`==([^=]+)==`)
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Clean strips MediaWiki markup from raw article text. It is a pure,
// deterministic function; empty input yields an empty string.
//
// Templates are removed with a non-recursive brace scan, which is enough for
// the quality of text wiki dumps carry in practice.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	text := citeTemplateRe.ReplaceAllString(raw, "")
	text = templateRe.ReplaceAllString(text, "")

	text = refPairRe.ReplaceAllString(text, "")
	text = refSelfRe.ReplaceAllString(text, "")
	text = citeMarkerRe.ReplaceAllString(text, "")

	// File and image directives go before link resolution, otherwise the
	// link pass would keep "File:..." as display text.
	text = fileLinkRe.ReplaceAllString(text, "")
	text = imageLinkRe.ReplaceAllString(text, "")

	// [[target|display]] keeps display, [[target]] keeps target.
	text = pipedLinkRe.ReplaceAllString(text, "$2")
	text = plainLinkRe.ReplaceAllString(text, "$1")

	text = extLinkBareRe.ReplaceAllString(text, "")
	text = extLinkTextRe.ReplaceAllString(text, "$1")

	text = tableRe.ReplaceAllString(text, "")

	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = subHeadingRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "$1")

	text = htmlTagRe.ReplaceAllString(text, "")

	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
