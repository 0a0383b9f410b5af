// Package dump reads wiki export XML streams one article at a time.
package dump

import (
	"compress/bzip2"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Page is one raw article record from the dump, before any cleaning.
// A missing optional element decodes to an empty string, never an error.
type Page struct {
	Title    string    `xml:"title"`
	NS       string    `xml:"ns"`
	ID       string    `xml:"id"`
	Redirect *Redirect `xml:"redirect"`
	Revision Revision  `xml:"revision"`
}

// Redirect is present only on redirect pages; the target is the title attribute.
type Redirect struct {
	Title string `xml:"title,attr"`
}

// Revision carries the page's latest revision metadata and body text.
type Revision struct {
	ID          string      `xml:"id"`
	ParentID    string      `xml:"parentid"`
	Timestamp   string      `xml:"timestamp"`
	Contributor Contributor `xml:"contributor"`
	Comment     string      `xml:"comment"`
	Origin      string      `xml:"origin"`
	Model       string      `xml:"model"`
	Format      string      `xml:"format"`
	Text        string      `xml:"text"`
}

// Contributor identifies the revision author.
type Contributor struct {
	Username string `xml:"username"`
	ID       string `xml:"id"`
}

// RedirectTarget returns the redirect target title, or "" for normal pages.
func (p *Page) RedirectTarget() string {
	if p.Redirect == nil {
		return ""
	}
	return p.Redirect.Title
}

// Reader streams pages out of a wiki export XML document in one forward
// pass. Each page's decoded subtree is released before the next one is
// read, so peak memory stays bounded regardless of dump size.
type Reader struct {
	decoder *xml.Decoder
	closer  io.Closer
	logger  *zap.Logger
	skipped int
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets a logger for skipped-page diagnostics.
func WithLogger(l *zap.Logger) ReaderOption {
	return func(r *Reader) { r.logger = l }
}

// Open opens the dump file at path. Files ending in .bz2 are decompressed
// on the fly.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	var src io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		src = bzip2.NewReader(f)
	}
	r := NewReader(src, opts...)
	r.closer = f
	return r, nil
}

// NewReader reads pages from src. Use Open for files.
func NewReader(src io.Reader, opts ...ReaderOption) *Reader {
	r := &Reader{decoder: xml.NewDecoder(src)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the next page, or io.EOF when the stream is exhausted.
//
// A page element that fails to decode is skipped and traversal continues.
// A malformed or truncated document ends the stream cleanly: everything
// parsed so far has already been returned, and Next reports io.EOF.
func (r *Reader) Next() (*Page, error) {
	for {
		tok, err := r.decoder.Token()
		if err != nil {
			if err != io.EOF && r.logger != nil {
				r.logger.Warn("dump ended with malformed XML, keeping parsed pages", zap.Error(err))
			}
			return nil, io.EOF
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "page" {
			continue
		}
		var page Page
		if err := r.decoder.DecodeElement(&page, &start); err != nil {
			r.skipped++
			if r.logger != nil {
				r.logger.Warn("skipping malformed page element", zap.Error(err))
			}
			continue
		}
		return &page, nil
	}
}

// Skipped returns how many page elements failed to decode and were skipped.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Close closes the underlying file, if the reader owns one.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
