package models

// SearchResponse is the response for a search request. Products are ordered by
// relevance; scores are not part of the contract.
type SearchResponse struct {
	Query     string     `json:"query"`
	Products  []*Product `json:"products"`
	Total     int        `json:"total"`
	QueryTime int64      `json:"query_time_ms"`
	// Branch is set when the query named a branch and the listing is that branch's products.
	Branch string `json:"branch,omitempty"`
}

// BrowseResponse is one page of a branch or catalog listing.
type BrowseResponse struct {
	Branch     string     `json:"branch,omitempty"`
	Sort       string     `json:"sort"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Total      int        `json:"total"`
	Products   []*Product `json:"products"`
}
