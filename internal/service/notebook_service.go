package service

import (
	"context"
	"time"

	"ai-recall-be/internal/dto"
	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/pkg/logger"
	"ai-recall-be/internal/repository/unitofwork"
	"ai-recall-be/pkg/chunker"
	"ai-recall-be/pkg/embedding"
	"ai-recall-be/pkg/notebook"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type INotebookService interface {
	// Ingest parses a Kindle notebook HTML export, embeds every note and
	// persists the book with its notes. Re-uploading the same export
	// converges on the already-stored rows via hash dedup.
	Ingest(ctx context.Context, htmlContent string) (*dto.BookWithNotesResponse, error)
	ListBooks(ctx context.Context) ([]dto.BookResponse, error)
	NotesByBook(ctx context.Context, bookId uuid.UUID) (*dto.BookWithNotesResponse, error)
	DeleteBook(ctx context.Context, bookId uuid.UUID) error
}

type notebookService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewNotebookService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) INotebookService {
	return &notebookService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (s *notebookService) Ingest(ctx context.Context, htmlContent string) (*dto.BookWithNotesResponse, error) {
	parsed, err := notebook.Parse(htmlContent)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	book := entity.Book{
		Id:        uuid.New(),
		Title:     parsed.BookTitle,
		Author:    parsed.Authors,
		CreatedAt: time.Now(),
	}
	if err := uow.BookRepository().CreateDedup(ctx, &book); err != nil {
		return nil, err
	}

	s.log.Info("notebook_service", "generating note embeddings", map[string]interface{}{
		"book_id": book.Id,
		"notes":   len(parsed.Notes),
	})

	// One embedding request per note, all in flight at once. Any failure
	// aborts the batch before anything is persisted.
	embeddings := make([][]float32, len(parsed.Notes))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, content := range parsed.Notes {
		group.Go(func() error {
			vec, err := s.embeddingProvider.Generate(groupCtx, content)
			if err != nil {
				return err
			}
			embeddings[i] = vec
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		s.log.Error("notebook_service", "embedding batch failed", map[string]interface{}{
			"book_id": book.Id,
			"error":   err.Error(),
		})
		return nil, err
	}

	notes := make([]dto.NoteResponse, 0, len(parsed.Notes))
	for i, content := range parsed.Notes {
		note := entity.Note{
			Id:          uuid.New(),
			Content:     content,
			ContentHash: chunker.HashContent(content),
			Embedding:   embeddings[i],
			BookId:      book.Id,
			CreatedAt:   time.Now(),
		}
		if err := uow.NoteRepository().CreateDedup(ctx, &note); err != nil {
			return nil, err
		}
		notes = append(notes, toNoteResponse(&note))
	}

	s.log.Info("notebook_service", "notebook ingested", map[string]interface{}{
		"book_id": book.Id,
		"notes":   len(notes),
	})

	return &dto.BookWithNotesResponse{
		Book:  toBookResponse(&book),
		Notes: notes,
	}, nil
}

func (s *notebookService) ListBooks(ctx context.Context) ([]dto.BookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	books, err := uow.BookRepository().List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BookResponse, len(books))
	for i, b := range books {
		responses[i] = toBookResponse(b)
	}
	return responses, nil
}

func (s *notebookService) NotesByBook(ctx context.Context, bookId uuid.UUID) (*dto.BookWithNotesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	book, err := uow.BookRepository().GetByID(ctx, bookId)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, nil
	}

	notes, err := uow.NoteRepository().GetByBookID(ctx, bookId)
	if err != nil {
		return nil, err
	}

	noteResponses := make([]dto.NoteResponse, len(notes))
	for i, n := range notes {
		noteResponses[i] = toNoteResponse(n)
	}

	return &dto.BookWithNotesResponse{
		Book:  toBookResponse(book),
		Notes: noteResponses,
	}, nil
}

// DeleteBook removes the book with its notes and their evaluations.
func (s *notebookService) DeleteBook(ctx context.Context, bookId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	notes, err := uow.NoteRepository().GetByBookID(ctx, bookId)
	if err != nil {
		return err
	}
	for _, note := range notes {
		if err := uow.EvaluationRepository().DeleteByNoteID(ctx, note.Id); err != nil {
			return err
		}
	}
	if err := uow.NoteRepository().DeleteByBookID(ctx, bookId); err != nil {
		return err
	}
	if err := uow.BookRepository().Delete(ctx, bookId); err != nil {
		return err
	}

	return uow.Commit()
}

func toBookResponse(b *entity.Book) dto.BookResponse {
	return dto.BookResponse{
		Id:        b.Id,
		Title:     b.Title,
		Author:    b.Author,
		CreatedAt: b.CreatedAt,
	}
}

func toNoteResponse(n *entity.Note) dto.NoteResponse {
	return dto.NoteResponse{
		Id:        n.Id,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}
