package contract

import (
	"context"

	"ai-recall-be/internal/entity"

	"github.com/google/uuid"
)

type NoteRepository interface {
	// CreateDedup inserts the note unless a note with the same content hash
	// already exists, in which case the existing row is loaded into note.
	// Ingestion stays idempotent under retries and concurrent runs.
	CreateDedup(ctx context.Context, note *entity.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Note, error)
	GetByBookID(ctx context.Context, bookId uuid.UUID) ([]*entity.Note, error)
	// GetRandom picks one uniformly among notes that carry an embedding.
	// Returns nil when none exist.
	GetRandom(ctx context.Context) (*entity.Note, error)
	// FindSimilar returns notes from the same book within the cosine
	// distance threshold, closest first, excluding the note itself.
	// Returns empty when the note has no embedding.
	FindSimilar(ctx context.Context, note *entity.Note, limit int, threshold float64) ([]*entity.Note, error)
	SearchByEmbedding(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.Note, error)
	CountWithEmbeddings(ctx context.Context) (int64, error)
	DeleteByBookID(ctx context.Context, bookId uuid.UUID) error
}
