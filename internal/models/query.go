package models

// SearchQuery represents a product search request.
type SearchQuery struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Normalize clamps limit and offset. A zero limit takes defaultLimit; limits above
// maxLimit are capped. An empty query is valid and yields no results.
func (q *SearchQuery) Normalize(defaultLimit, maxLimit int) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// BrowseQuery lists a branch (or the whole catalog) in a sort order, one page at a time.
type BrowseQuery struct {
	Branch   string `json:"branch,omitempty"`
	Sort     string `json:"sort,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}
