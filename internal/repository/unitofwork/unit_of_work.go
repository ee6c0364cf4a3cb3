package unitofwork

import (
	"context"

	"ai-recall-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BookRepository() contract.BookRepository
	NoteRepository() contract.NoteRepository
	URLRepository() contract.URLRepository
	URLChunkRepository() contract.URLChunkRepository
	TweetThreadRepository() contract.TweetThreadRepository
	TweetRepository() contract.TweetRepository
	EvaluationRepository() contract.EvaluationRepository
}
