package contract

import (
	"context"

	"ai-recall-be/internal/entity"

	"github.com/google/uuid"
)

type TweetThreadRepository interface {
	Create(ctx context.Context, thread *entity.TweetThread) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TweetThread, error)
	// GetByRootTweetID returns nil when the thread has not been ingested.
	// The root tweet ID is only known after fetching, so thread dedup runs
	// post-fetch, unlike the URL pipeline.
	GetByRootTweetID(ctx context.Context, rootTweetID string) (*entity.TweetThread, error)
	List(ctx context.Context) ([]*entity.TweetThread, error)
	UpdateTweetCount(ctx context.Context, id uuid.UUID, count int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TweetRepository interface {
	CreateDedup(ctx context.Context, tweet *entity.Tweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Tweet, error)
	// GetByThreadID returns the thread's tweets ordered by position ascending.
	GetByThreadID(ctx context.Context, threadId uuid.UUID) ([]*entity.Tweet, error)
	FindSimilar(ctx context.Context, tweet *entity.Tweet, limit int, threshold float64) ([]*entity.Tweet, error)
	SearchByEmbedding(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.Tweet, error)
	CountWithEmbeddings(ctx context.Context) (int64, error)
	DeleteByThreadID(ctx context.Context, threadId uuid.UUID) error
}
