package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-recall-be/internal/dto"
	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/pkg/logger"
	"ai-recall-be/internal/repository/unitofwork"
	"ai-recall-be/pkg/chunker"
	"ai-recall-be/pkg/embedding"
	"ai-recall-be/pkg/llm"
	"ai-recall-be/pkg/prompts"
	"ai-recall-be/pkg/twitter"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// titleTruncateLimit caps single-tweet thread titles.
	titleTruncateLimit = 50
	// threadSummaryWindow caps the combined text handed to the summarizer.
	threadSummaryWindow = 3000
)

// ThreadFetcher is the slice of pkg/twitter the pipeline needs, kept narrow
// so tests can substitute a stub.
type ThreadFetcher interface {
	FetchThread(ctx context.Context, tweetID string, maxDepth int) (*twitter.FetchedThread, error)
}

type ITweetService interface {
	// Ingest resolves the input (URL or bare ID), fetches the full thread,
	// and persists it. A thread whose root was already stored is returned
	// as-is without re-fetching its tweets from storage.
	Ingest(ctx context.Context, input string) (*dto.TweetThreadWithTweetsResponse, error)
	List(ctx context.Context) ([]dto.TweetThreadResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.TweetThreadWithTweetsResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tweetService struct {
	uowFactory        unitofwork.RepositoryFactory
	threadFetcher     ThreadFetcher
	llmProvider       llm.LLMProvider
	embeddingProvider embedding.EmbeddingProvider
	maxThreadDepth    int
	log               logger.ILogger
}

func NewTweetService(
	uowFactory unitofwork.RepositoryFactory,
	threadFetcher ThreadFetcher,
	llmProvider llm.LLMProvider,
	embeddingProvider embedding.EmbeddingProvider,
	maxThreadDepth int,
	log logger.ILogger,
) ITweetService {
	return &tweetService{
		uowFactory:        uowFactory,
		threadFetcher:     threadFetcher,
		llmProvider:       llmProvider,
		embeddingProvider: embeddingProvider,
		maxThreadDepth:    maxThreadDepth,
		log:               log,
	}
}

func (s *tweetService) Ingest(ctx context.Context, input string) (*dto.TweetThreadWithTweetsResponse, error) {
	tweetID, err := twitter.ParseTweetInput(input)
	if err != nil {
		return nil, err
	}

	// The fetch happens before the dedup lookup: the input may point at any
	// tweet in the thread, and only the fetch reveals the root ID.
	thread, err := s.threadFetcher.FetchThread(ctx, tweetID, s.maxThreadDepth)
	if err != nil {
		s.log.Error("tweet_service", "thread fetch failed", map[string]interface{}{
			"tweet_id": tweetID,
			"error":    err.Error(),
		})
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.TweetThreadRepository().GetByRootTweetID(ctx, thread.RootTweetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Info("tweet_service", "thread already ingested", map[string]interface{}{
			"root_tweet_id": thread.RootTweetID,
		})
		return s.buildResponse(ctx, uow, existing)
	}

	title := s.generateTitle(ctx, thread)

	threadRecord := entity.TweetThread{
		Id:                uuid.New(),
		RootTweetID:       thread.RootTweetID,
		AuthorUsername:    thread.AuthorUsername,
		AuthorDisplayName: thread.AuthorDisplayName,
		Title:             title,
		CreatedAt:         time.Now(),
	}
	if err := uow.TweetThreadRepository().Create(ctx, &threadRecord); err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(thread.Tweets))
	group, groupCtx := errgroup.WithContext(ctx)
	for i := range thread.Tweets {
		group.Go(func() error {
			vec, err := s.embeddingProvider.Generate(groupCtx, thread.Tweets[i].Content)
			if err != nil {
				return err
			}
			embeddings[i] = vec
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		s.log.Error("tweet_service", "embedding batch failed", map[string]interface{}{
			"root_tweet_id": thread.RootTweetID,
			"error":         err.Error(),
		})
		return nil, err
	}

	tweetResponses := make([]dto.TweetResponse, 0, len(thread.Tweets))
	for i, ft := range thread.Tweets {
		tweetedAt := ft.TweetedAt
		if tweetedAt.IsZero() {
			tweetedAt = time.Now()
		}
		tweet := entity.Tweet{
			Id:               uuid.New(),
			TweetID:          ft.TweetID,
			Content:          ft.Content,
			ContentHash:      chunker.HashContent(ft.Content),
			Embedding:        embeddings[i],
			MediaURLs:        ft.MediaURLs,
			ThreadId:         threadRecord.Id,
			PositionInThread: i,
			TweetedAt:        tweetedAt,
			CreatedAt:        time.Now(),
		}
		if err := uow.TweetRepository().CreateDedup(ctx, &tweet); err != nil {
			return nil, err
		}
		tweetResponses = append(tweetResponses, toTweetResponse(&tweet))
	}

	if err := uow.TweetThreadRepository().UpdateTweetCount(ctx, threadRecord.Id, len(thread.Tweets)); err != nil {
		return nil, err
	}
	threadRecord.TweetCount = len(thread.Tweets)

	s.log.Info("tweet_service", "thread ingested", map[string]interface{}{
		"root_tweet_id": thread.RootTweetID,
		"tweets":        len(thread.Tweets),
	})

	return &dto.TweetThreadWithTweetsResponse{
		Thread: toTweetThreadResponse(&threadRecord),
		Tweets: tweetResponses,
	}, nil
}

// generateTitle derives a thread title. Single tweets are truncated; longer
// threads are summarized by the LLM, falling back to truncation when the
// model is unavailable.
func (s *tweetService) generateTitle(ctx context.Context, thread *twitter.FetchedThread) string {
	if len(thread.Tweets) == 1 {
		return truncateTitle(thread.Tweets[0].Content)
	}

	lines := make([]string, len(thread.Tweets))
	for i, t := range thread.Tweets {
		lines[i] = fmt.Sprintf("Tweet %d: %s", i+1, t.Content)
	}
	combined := strings.Join(lines, "\n\n")
	if len(combined) > threadSummaryWindow {
		combined = combined[:threadSummaryWindow] + "..."
	}

	title, err := s.llmProvider.Generate(ctx, prompts.CreateThreadSummaryPrompt(combined), prompts.SystemInstructions["summarizer"])
	if err != nil {
		s.log.Warn("tweet_service", "title summarization failed, using truncation", map[string]interface{}{
			"root_tweet_id": thread.RootTweetID,
			"error":         err.Error(),
		})
		return truncateTitle(thread.Tweets[0].Content)
	}
	return strings.TrimSpace(title)
}

func truncateTitle(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= titleTruncateLimit {
		return string(runes)
	}
	return string(runes[:titleTruncateLimit]) + "…"
}

func (s *tweetService) List(ctx context.Context) ([]dto.TweetThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	threads, err := uow.TweetThreadRepository().List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TweetThreadResponse, len(threads))
	for i, t := range threads {
		responses[i] = toTweetThreadResponse(t)
	}
	return responses, nil
}

func (s *tweetService) Show(ctx context.Context, id uuid.UUID) (*dto.TweetThreadWithTweetsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.TweetThreadRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, nil
	}
	return s.buildResponse(ctx, uow, thread)
}

// Delete removes the thread and all its tweets.
func (s *tweetService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.TweetRepository().DeleteByThreadID(ctx, id); err != nil {
		return err
	}
	if err := uow.TweetThreadRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *tweetService) buildResponse(ctx context.Context, uow unitofwork.UnitOfWork, thread *entity.TweetThread) (*dto.TweetThreadWithTweetsResponse, error) {
	tweets, err := uow.TweetRepository().GetByThreadID(ctx, thread.Id)
	if err != nil {
		return nil, err
	}

	tweetResponses := make([]dto.TweetResponse, len(tweets))
	for i, t := range tweets {
		tweetResponses[i] = toTweetResponse(t)
	}

	return &dto.TweetThreadWithTweetsResponse{
		Thread: toTweetThreadResponse(thread),
		Tweets: tweetResponses,
	}, nil
}

func toTweetThreadResponse(t *entity.TweetThread) dto.TweetThreadResponse {
	return dto.TweetThreadResponse{
		Id:                t.Id,
		RootTweetID:       t.RootTweetID,
		AuthorUsername:    t.AuthorUsername,
		AuthorDisplayName: t.AuthorDisplayName,
		Title:             t.Title,
		TweetCount:        t.TweetCount,
		CreatedAt:         t.CreatedAt,
	}
}

func toTweetResponse(t *entity.Tweet) dto.TweetResponse {
	return dto.TweetResponse{
		Id:               t.Id,
		TweetID:          t.TweetID,
		Content:          t.Content,
		MediaURLs:        t.MediaURLs,
		PositionInThread: t.PositionInThread,
		TweetedAt:        t.TweetedAt,
		CreatedAt:        t.CreatedAt,
	}
}
