package contract

import (
	"context"

	"ai-recall-be/internal/entity"

	"github.com/google/uuid"
)

type URLRepository interface {
	Create(ctx context.Context, url *entity.URL) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.URL, error)
	// GetByURL returns nil when the exact URL string has not been ingested.
	GetByURL(ctx context.Context, url string) (*entity.URL, error)
	List(ctx context.Context) ([]*entity.URL, error)
	UpdateChunkCount(ctx context.Context, id uuid.UUID, count int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type URLChunkRepository interface {
	CreateDedup(ctx context.Context, chunk *entity.URLChunk) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.URLChunk, error)
	// GetByURLID returns the URL's chunks ordered by chunk_order ascending.
	GetByURLID(ctx context.Context, urlId uuid.UUID) ([]*entity.URLChunk, error)
	GetRandom(ctx context.Context) (*entity.URLChunk, error)
	FindSimilar(ctx context.Context, chunk *entity.URLChunk, limit int, threshold float64) ([]*entity.URLChunk, error)
	SearchByEmbedding(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.URLChunk, error)
	CountWithEmbeddings(ctx context.Context) (int64, error)
	DeleteByURLID(ctx context.Context, urlId uuid.UUID) error
}
