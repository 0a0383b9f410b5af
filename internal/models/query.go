package models

// SortOrder values accepted by SearchQuery.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SearchQuery represents one search request. Constructed per request,
// normalized once at the boundary, then treated as immutable.
type SearchQuery struct {
	Query     string                 `json:"query"`
	Page      int                    `json:"page"`
	PageSize  int                    `json:"page_size"`
	FilterBy  map[string]interface{} `json:"filter_by,omitempty"`
	SortBy    string                 `json:"sort_by,omitempty"`
	SortOrder string                 `json:"sort_order,omitempty"`
}

// Normalize clamps out-of-range fields to the nearest valid value rather
// than rejecting the request. maxPageSize caps PageSize; defaultPageSize is
// used when PageSize is unset.
func (q *SearchQuery) Normalize(defaultPageSize, maxPageSize int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	if q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		q.SortOrder = SortDesc
	}
}

// From returns the result offset for the engine request.
func (q *SearchQuery) From() int {
	return (q.Page - 1) * q.PageSize
}
