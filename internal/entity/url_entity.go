package entity

import (
	"time"

	"github.com/google/uuid"
)

type URL struct {
	Id         uuid.UUID
	URL        string
	Title      string
	ChunkCount int
	CreatedAt  time.Time
}

// URLChunk is one bounded slice of a fetched page. ChunkOrder 0 is the
// LLM-generated summary; the original text follows in order.
type URLChunk struct {
	Id          uuid.UUID
	Content     string
	ContentHash string
	Embedding   []float32
	URLId       uuid.UUID
	ChunkOrder  int
	IsSummary   bool
	CreatedAt   time.Time
}
