package service

import (
	"context"

	"ai-recall-be/internal/dto"
	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/pkg/logger"
	"ai-recall-be/internal/repository/unitofwork"
	"ai-recall-be/pkg/embedding"

	"github.com/google/uuid"
)

const (
	// searchThreshold is the maximum cosine distance for an item to count as
	// a search hit.
	searchThreshold = 0.7
	searchMaxLimit  = 50
	searchDefLimit  = 10
)

type ISearchService interface {
	// Search embeds the query once and runs it against every content
	// population: notes, URL chunks and tweets. Each hit carries its
	// resolved source.
	Search(ctx context.Context, query string, limit int) (*dto.SearchResponse, error)
}

type searchService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (s *searchService) Search(ctx context.Context, query string, limit int) (*dto.SearchResponse, error) {
	if limit <= 0 {
		limit = searchDefLimit
	}
	if limit > searchMaxLimit {
		limit = searchMaxLimit
	}

	queryVector, err := s.embeddingProvider.Generate(ctx, query)
	if err != nil {
		s.log.Error("search_service", "query embedding failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	results := make([]dto.SearchHit, 0)

	noteHits, err := s.searchNotes(ctx, uow, queryVector, limit)
	if err != nil {
		return nil, err
	}
	results = append(results, noteHits...)

	chunkHits, err := s.searchChunks(ctx, uow, queryVector, limit)
	if err != nil {
		return nil, err
	}
	results = append(results, chunkHits...)

	tweetHits, err := s.searchTweets(ctx, uow, queryVector, limit)
	if err != nil {
		return nil, err
	}
	results = append(results, tweetHits...)

	return &dto.SearchResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	}, nil
}

func (s *searchService) searchNotes(ctx context.Context, uow unitofwork.UnitOfWork, queryVector []float32, limit int) ([]dto.SearchHit, error) {
	notes, err := uow.NoteRepository().SearchByEmbedding(ctx, queryVector, limit, searchThreshold)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, nil
	}

	bookIds := make([]uuid.UUID, 0, len(notes))
	seen := make(map[uuid.UUID]bool)
	for _, n := range notes {
		if !seen[n.BookId] {
			seen[n.BookId] = true
			bookIds = append(bookIds, n.BookId)
		}
	}
	books, err := uow.BookRepository().GetByIDs(ctx, bookIds)
	if err != nil {
		return nil, err
	}
	booksById := make(map[uuid.UUID]*entity.Book, len(books))
	for _, b := range books {
		booksById[b.Id] = b
	}

	hits := make([]dto.SearchHit, 0, len(notes))
	for _, n := range notes {
		book, ok := booksById[n.BookId]
		if !ok {
			// Book deleted mid-search, drop the orphaned hit
			continue
		}
		hits = append(hits, dto.SearchHit{
			ContentType: dto.ContentTypeNote,
			Source:      toBookResponse(book),
			Content:     toNoteResponse(n),
		})
	}
	return hits, nil
}

func (s *searchService) searchChunks(ctx context.Context, uow unitofwork.UnitOfWork, queryVector []float32, limit int) ([]dto.SearchHit, error) {
	chunks, err := uow.URLChunkRepository().SearchByEmbedding(ctx, queryVector, limit, searchThreshold)
	if err != nil {
		return nil, err
	}

	hits := make([]dto.SearchHit, 0, len(chunks))
	sources := make(map[uuid.UUID]*entity.URL)
	for _, c := range chunks {
		source, ok := sources[c.URLId]
		if !ok {
			source, err = uow.URLRepository().GetByID(ctx, c.URLId)
			if err != nil {
				return nil, err
			}
			sources[c.URLId] = source
		}
		if source == nil {
			continue
		}
		hits = append(hits, dto.SearchHit{
			ContentType: dto.ContentTypeURLChunk,
			Source:      toURLResponse(source),
			Content:     toURLChunkResponse(c),
		})
	}
	return hits, nil
}

func (s *searchService) searchTweets(ctx context.Context, uow unitofwork.UnitOfWork, queryVector []float32, limit int) ([]dto.SearchHit, error) {
	tweets, err := uow.TweetRepository().SearchByEmbedding(ctx, queryVector, limit, searchThreshold)
	if err != nil {
		return nil, err
	}

	hits := make([]dto.SearchHit, 0, len(tweets))
	sources := make(map[uuid.UUID]*entity.TweetThread)
	for _, tw := range tweets {
		source, ok := sources[tw.ThreadId]
		if !ok {
			source, err = uow.TweetThreadRepository().GetByID(ctx, tw.ThreadId)
			if err != nil {
				return nil, err
			}
			sources[tw.ThreadId] = source
		}
		if source == nil {
			continue
		}
		hits = append(hits, dto.SearchHit{
			ContentType: dto.ContentTypeTweet,
			Source:      toTweetThreadResponse(source),
			Content:     toTweetResponse(tw),
		})
	}
	return hits, nil
}
