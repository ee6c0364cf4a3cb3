package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-recall-be/internal/dto"
	"ai-recall-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBookWithNotes(t *testing.T, factory *fakeFactory, title string, noteContents ...string) *entity.Book {
	t.Helper()
	book := &entity.Book{
		Id:        uuid.New(),
		Title:     title,
		Author:    "Author",
		CreatedAt: time.Now(),
	}
	require.NoError(t, factory.uow.books.CreateDedup(context.Background(), book))
	for i, content := range noteContents {
		note := &entity.Note{
			Id:          uuid.New(),
			Content:     content,
			ContentHash: content,
			Embedding:   []float32{1, 0, 0},
			BookId:      book.Id,
			CreatedAt:   time.Now().Add(time.Duration(i) * time.Millisecond),
		}
		require.NoError(t, factory.uow.notes.CreateDedup(context.Background(), note))
	}
	return book
}

func seedURLWithChunk(t *testing.T, factory *fakeFactory, rawURL, content string) *entity.URL {
	t.Helper()
	source := &entity.URL{
		Id:        uuid.New(),
		URL:       rawURL,
		Title:     "Page",
		CreatedAt: time.Now(),
	}
	require.NoError(t, factory.uow.urls.Create(context.Background(), source))
	chunk := &entity.URLChunk{
		Id:          uuid.New(),
		Content:     content,
		ContentHash: content,
		Embedding:   []float32{0, 1, 0},
		URLId:       source.Id,
		ChunkOrder:  1,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, factory.uow.urlChunks.CreateDedup(context.Background(), chunk))
	return source
}

func seedThreadWithTweet(t *testing.T, factory *fakeFactory, content string) *entity.TweetThread {
	t.Helper()
	thread := &entity.TweetThread{
		Id:          uuid.New(),
		RootTweetID: uuid.NewString(),
		Title:       "Thread",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, factory.uow.threads.Create(context.Background(), thread))
	tweet := &entity.Tweet{
		Id:          uuid.New(),
		TweetID:     uuid.NewString(),
		Content:     content,
		ContentHash: content,
		Embedding:   []float32{0, 0, 1},
		ThreadId:    thread.Id,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, factory.uow.tweets.CreateDedup(context.Background(), tweet))
	return thread
}

func TestSearchServiceSpansAllPopulations(t *testing.T) {
	factory := newFakeFactory()
	book := seedBookWithNotes(t, factory, "Book One", "alpha note", "beta note")
	seedURLWithChunk(t, factory, "https://example.com/page", "gamma excerpt")
	seedThreadWithTweet(t, factory, "delta tweet")
	svc := NewSearchService(factory, &stubEmbedder{}, nopLogger{})

	result, err := svc.Search(context.Background(), "greek letters", 10)
	require.NoError(t, err)

	assert.Equal(t, "greek letters", result.Query)
	assert.Equal(t, 4, result.Count)
	require.Len(t, result.Results, 4)

	byType := map[string]int{}
	for _, hit := range result.Results {
		byType[hit.ContentType]++
		assert.NotNil(t, hit.Source)
		assert.NotNil(t, hit.Content)
	}
	assert.Equal(t, 2, byType[dto.ContentTypeNote])
	assert.Equal(t, 1, byType[dto.ContentTypeURLChunk])
	assert.Equal(t, 1, byType[dto.ContentTypeTweet])

	// Note hits carry their resolved book
	for _, hit := range result.Results {
		if hit.ContentType == dto.ContentTypeNote {
			source, ok := hit.Source.(dto.BookResponse)
			require.True(t, ok)
			assert.Equal(t, book.Title, source.Title)
		}
	}
}

func TestSearchServiceLimitClamped(t *testing.T) {
	factory := newFakeFactory()
	contents := make([]string, 60)
	for i := range contents {
		contents[i] = uuid.NewString()
	}
	seedBookWithNotes(t, factory, "Big Book", contents...)
	svc := NewSearchService(factory, &stubEmbedder{}, nopLogger{})

	result, err := svc.Search(context.Background(), "anything", 500)
	require.NoError(t, err)
	assert.Equal(t, searchMaxLimit, result.Count)

	// Non-positive limits fall back to the default
	result, err = svc.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Equal(t, searchDefLimit, result.Count)
}

func TestSearchServiceEmbeddingFailure(t *testing.T) {
	factory := newFakeFactory()
	seedBookWithNotes(t, factory, "Book", "note")
	embedder := &stubEmbedder{err: errors.New("embedding backend down")}
	svc := NewSearchService(factory, embedder, nopLogger{})

	_, err := svc.Search(context.Background(), "query", 10)
	assert.Error(t, err)
}

func TestSearchServiceNoMatches(t *testing.T) {
	svc := NewSearchService(newFakeFactory(), &stubEmbedder{}, nopLogger{})

	result, err := svc.Search(context.Background(), "query into the void", 10)
	require.NoError(t, err)
	assert.Zero(t, result.Count)
	assert.Empty(t, result.Results)
}
