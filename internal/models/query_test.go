package models

import "testing"

func TestSearchQuery_Normalize(t *testing.T) {
	q := &SearchQuery{Query: "paris"}
	q.Normalize(10, 100)
	if q.Page != 1 {
		t.Errorf("page: got %d", q.Page)
	}
	if q.PageSize != 10 {
		t.Errorf("page_size: got %d", q.PageSize)
	}
	if q.SortOrder != SortDesc {
		t.Errorf("sort_order: got %s", q.SortOrder)
	}
}

func TestSearchQuery_NormalizeClamps(t *testing.T) {
	q := &SearchQuery{Query: "x", Page: -3, PageSize: 5000, SortOrder: "sideways"}
	q.Normalize(10, 100)
	if q.Page != 1 {
		t.Errorf("page: got %d", q.Page)
	}
	if q.PageSize != 100 {
		t.Errorf("page_size: got %d", q.PageSize)
	}
	if q.SortOrder != SortDesc {
		t.Errorf("sort_order: got %s", q.SortOrder)
	}
}

func TestSearchQuery_NormalizeKeepsValid(t *testing.T) {
	q := &SearchQuery{Query: "x", Page: 2, PageSize: 25, SortOrder: SortAsc}
	q.Normalize(10, 100)
	if q.Page != 2 || q.PageSize != 25 || q.SortOrder != SortAsc {
		t.Errorf("valid fields changed: %+v", q)
	}
}

func TestSearchQuery_From(t *testing.T) {
	q := &SearchQuery{Query: "x", Page: 2, PageSize: 10}
	q.Normalize(10, 100)
	if q.From() != 10 {
		t.Errorf("from: got %d", q.From())
	}
}

func TestArticleDocument_Indexable(t *testing.T) {
	doc := &ArticleDocument{ContentType: ContentTypeArticle, HasContent: true}
	if !doc.Indexable() {
		t.Error("article with content should be indexable")
	}
	redirect := &ArticleDocument{ContentType: ContentTypeRedirect, Redirect: "Elsewhere", HasContent: true}
	if redirect.Indexable() {
		t.Error("redirect should never be indexable")
	}
	thin := &ArticleDocument{ContentType: ContentTypeArticle, HasContent: false}
	if thin.Indexable() {
		t.Error("contentless page should not be indexable")
	}
}
