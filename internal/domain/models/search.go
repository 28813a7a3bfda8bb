package models

// Default search configuration values
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SearchRequest is the POST /api/search body.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// ApplyDefaults fills in default values for unset fields
func (r *SearchRequest) ApplyDefaults() {
	if r.Limit <= 0 {
		r.Limit = DefaultSearchLimit
	}
}

// RankedDocument is a store-level search hit: a document plus the relevance
// score assigned by the store's ranking function. Higher means more relevant;
// the score is never re-ranked by this system.
type RankedDocument struct {
	Document Document
	Score    float64
}

// SearchResult is one hit as returned to clients, with a computed snippet.
type SearchResult struct {
	Document       Document `json:"document"`
	RelevanceScore float64  `json:"relevance_score"`
	Snippet        string   `json:"snippet"`
}

// SearchResponse is the full search response.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
	Query   string         `json:"query"`
}
