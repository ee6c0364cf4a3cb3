package dto

import (
	"time"

	"github.com/google/uuid"
)

type URLIngestRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type URLResponse struct {
	Id         uuid.UUID `json:"id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type URLChunkResponse struct {
	Id         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	ChunkOrder int       `json:"chunk_order"`
	IsSummary  bool      `json:"is_summary"`
	CreatedAt  time.Time `json:"created_at"`
}

type URLWithChunksResponse struct {
	URL    URLResponse        `json:"url"`
	Chunks []URLChunkResponse `json:"chunks"`
}
