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
	"ai-recall-be/pkg/fetcher"
	"ai-recall-be/pkg/llm"
	"ai-recall-be/pkg/prompts"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// URLFetcher is the slice of pkg/fetcher the pipeline needs, kept narrow so
// tests can substitute a stub.
type URLFetcher interface {
	Fetch(ctx context.Context, rawURL string, maxContentSize int) (*fetcher.FetchedContent, error)
}

type IURLService interface {
	// Process runs the URL ingestion pipeline: dedup short-circuit, fetch,
	// chunk, summarize, embed in parallel, persist.
	Process(ctx context.Context, url string) (*dto.URLWithChunksResponse, error)
	List(ctx context.Context) ([]dto.URLResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.URLWithChunksResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type urlService struct {
	uowFactory        unitofwork.RepositoryFactory
	urlFetcher        URLFetcher
	llmProvider       llm.LLMProvider
	embeddingProvider embedding.EmbeddingProvider
	chunkMaxSize      int
	summaryWindow     int
	log               logger.ILogger
}

func NewURLService(
	uowFactory unitofwork.RepositoryFactory,
	urlFetcher URLFetcher,
	llmProvider llm.LLMProvider,
	embeddingProvider embedding.EmbeddingProvider,
	chunkMaxSize int,
	summaryWindow int,
	log logger.ILogger,
) IURLService {
	return &urlService{
		uowFactory:        uowFactory,
		urlFetcher:        urlFetcher,
		llmProvider:       llmProvider,
		embeddingProvider: embeddingProvider,
		chunkMaxSize:      chunkMaxSize,
		summaryWindow:     summaryWindow,
		log:               log,
	}
}

func (s *urlService) Process(ctx context.Context, url string) (*dto.URLWithChunksResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Known URLs never hit the network again
	existing, err := uow.URLRepository().GetByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Info("url_service", "URL already ingested", map[string]interface{}{"url": url})
		return s.buildResponse(ctx, uow, existing)
	}

	fetched, err := s.urlFetcher.Fetch(ctx, url, 0)
	if err != nil {
		s.log.Error("url_service", "fetch failed", map[string]interface{}{"url": url, "error": err.Error()})
		return nil, err
	}

	urlRecord := entity.URL{
		Id:        uuid.New(),
		URL:       url,
		Title:     fetched.Title,
		CreatedAt: time.Now(),
	}
	if err := uow.URLRepository().Create(ctx, &urlRecord); err != nil {
		return nil, err
	}

	textChunks := chunker.ChunkByParagraphs(fetched.Content, s.chunkMaxSize)
	s.log.Info("url_service", "content chunked", map[string]interface{}{
		"url":    url,
		"chunks": len(textChunks),
	})

	summaryInput := fetched.Content
	if len(summaryInput) > s.summaryWindow {
		summaryInput = summaryInput[:s.summaryWindow]
	}
	summary, err := s.llmProvider.Generate(ctx, prompts.CreateSummaryPrompt(summaryInput), prompts.SystemInstructions["summarizer"])
	if err != nil {
		s.log.Error("url_service", "summary generation failed", map[string]interface{}{"url": url, "error": err.Error()})
		return nil, err
	}

	// Summary leads the chunk list at order 0, original text follows
	toEmbed := make([]entity.URLChunk, 0, len(textChunks)+1)
	toEmbed = append(toEmbed, entity.URLChunk{
		Id:          uuid.New(),
		Content:     summary,
		ContentHash: chunker.HashContent(summary),
		URLId:       urlRecord.Id,
		ChunkOrder:  0,
		IsSummary:   true,
		CreatedAt:   time.Now(),
	})
	for i, tc := range textChunks {
		toEmbed = append(toEmbed, entity.URLChunk{
			Id:          uuid.New(),
			Content:     tc.Content,
			ContentHash: tc.ContentHash,
			URLId:       urlRecord.Id,
			ChunkOrder:  i + 1,
			IsSummary:   false,
			CreatedAt:   time.Now(),
		})
	}

	if err := s.embedChunks(ctx, toEmbed); err != nil {
		s.log.Error("url_service", "embedding batch failed", map[string]interface{}{"url": url, "error": err.Error()})
		return nil, err
	}

	chunkResponses := make([]dto.URLChunkResponse, 0, len(toEmbed))
	for i := range toEmbed {
		if err := uow.URLChunkRepository().CreateDedup(ctx, &toEmbed[i]); err != nil {
			return nil, err
		}
		chunkResponses = append(chunkResponses, toURLChunkResponse(&toEmbed[i]))
	}

	if err := uow.URLRepository().UpdateChunkCount(ctx, urlRecord.Id, len(toEmbed)); err != nil {
		return nil, err
	}
	urlRecord.ChunkCount = len(toEmbed)

	s.log.Info("url_service", "URL ingested", map[string]interface{}{
		"url":    url,
		"chunks": len(toEmbed),
	})

	return &dto.URLWithChunksResponse{
		URL:    toURLResponse(&urlRecord),
		Chunks: chunkResponses,
	}, nil
}

// embedChunks fans out one embedding request per chunk and joins on all of
// them. The first error cancels the siblings; nothing is persisted then.
func (s *urlService) embedChunks(ctx context.Context, chunks []entity.URLChunk) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for i := range chunks {
		group.Go(func() error {
			vec, err := s.embeddingProvider.Generate(groupCtx, chunks[i].Content)
			if err != nil {
				return err
			}
			chunks[i].Embedding = vec
			return nil
		})
	}
	return group.Wait()
}

func (s *urlService) List(ctx context.Context) ([]dto.URLResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	urls, err := uow.URLRepository().List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.URLResponse, len(urls))
	for i, u := range urls {
		responses[i] = toURLResponse(u)
	}
	return responses, nil
}

func (s *urlService) Show(ctx context.Context, id uuid.UUID) (*dto.URLWithChunksResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	urlRecord, err := uow.URLRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if urlRecord == nil {
		return nil, nil
	}
	return s.buildResponse(ctx, uow, urlRecord)
}

// Delete removes the URL and all its chunks.
func (s *urlService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.URLChunkRepository().DeleteByURLID(ctx, id); err != nil {
		return err
	}
	if err := uow.URLRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *urlService) buildResponse(ctx context.Context, uow unitofwork.UnitOfWork, urlRecord *entity.URL) (*dto.URLWithChunksResponse, error) {
	chunks, err := uow.URLChunkRepository().GetByURLID(ctx, urlRecord.Id)
	if err != nil {
		return nil, err
	}

	chunkResponses := make([]dto.URLChunkResponse, len(chunks))
	for i, c := range chunks {
		chunkResponses[i] = toURLChunkResponse(c)
	}

	return &dto.URLWithChunksResponse{
		URL:    toURLResponse(urlRecord),
		Chunks: chunkResponses,
	}, nil
}

func toURLResponse(u *entity.URL) dto.URLResponse {
	return dto.URLResponse{
		Id:         u.Id,
		URL:        u.URL,
		Title:      u.Title,
		ChunkCount: u.ChunkCount,
		CreatedAt:  u.CreatedAt,
	}
}

func toURLChunkResponse(c *entity.URLChunk) dto.URLChunkResponse {
	return dto.URLChunkResponse{
		Id:         c.Id,
		Content:    c.Content,
		ChunkOrder: c.ChunkOrder,
		IsSummary:  c.IsSummary,
		CreatedAt:  c.CreatedAt,
	}
}
