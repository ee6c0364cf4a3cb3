package contract

import (
	"context"

	"ai-recall-be/internal/entity"

	"github.com/google/uuid"
)

type BookRepository interface {
	// CreateDedup inserts the book or, when a book with the same
	// (title, author) pair exists, loads the existing row into book.
	CreateDedup(ctx context.Context, book *entity.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Book, error)
	List(ctx context.Context) ([]*entity.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
