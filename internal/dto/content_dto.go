package dto

// ContentType tags the unified random/search payloads.
const (
	ContentTypeNote     = "note"
	ContentTypeURLChunk = "url_chunk"
	ContentTypeTweet    = "tweet"
)

// ContentWithRelatedResponse is the unified metadata payload for random
// content: the source the item belongs to, the item itself, and its nearest
// neighbors within that source.
type ContentWithRelatedResponse struct {
	ContentType  string      `json:"content_type"`
	Source       interface{} `json:"source"`
	Content      interface{} `json:"content"`
	RelatedItems interface{} `json:"related_items"`
}

// SearchHit is one semantic search match with its resolved source.
type SearchHit struct {
	ContentType string      `json:"content_type"`
	Source      interface{} `json:"source"`
	Content     interface{} `json:"content"`
}

type SearchResponse struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
	Count   int         `json:"count"`
}
