package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-recall-be/pkg/fetcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newURLServiceForTest(factory *fakeFactory, urlFetcher URLFetcher, model *stubLLM, embedder *stubEmbedder) IURLService {
	return NewURLService(factory, urlFetcher, model, embedder, 1000, 3000, nopLogger{})
}

func TestURLServiceProcess(t *testing.T) {
	factory := newFakeFactory()
	urlFetcher := &stubURLFetcher{content: &fetcher.FetchedContent{
		Title:   "Understanding B-Trees",
		Content: "First paragraph about b-trees.\n\nSecond paragraph about page splits.",
	}}
	model := &stubLLM{generateResp: "A short article on b-tree internals."}
	embedder := &stubEmbedder{}
	svc := newURLServiceForTest(factory, urlFetcher, model, embedder)

	result, err := svc.Process(context.Background(), "https://example.com/btrees")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/btrees", result.URL.URL)
	assert.Equal(t, "Understanding B-Trees", result.URL.Title)

	// Summary chunk leads, original text follows in order
	require.NotEmpty(t, result.Chunks)
	assert.True(t, result.Chunks[0].IsSummary)
	assert.Equal(t, 0, result.Chunks[0].ChunkOrder)
	assert.Equal(t, "A short article on b-tree internals.", result.Chunks[0].Content)
	for i, c := range result.Chunks {
		assert.Equal(t, i, c.ChunkOrder)
		if i > 0 {
			assert.False(t, c.IsSummary)
		}
	}

	assert.Equal(t, len(result.Chunks), result.URL.ChunkCount)
	// Summary included in the embedding fan-out
	assert.Equal(t, len(result.Chunks), embedder.callCount())
}

func TestURLServiceProcessSkipsFetchForKnownURL(t *testing.T) {
	factory := newFakeFactory()
	urlFetcher := &stubURLFetcher{content: &fetcher.FetchedContent{
		Title:   "Title",
		Content: "Some content worth keeping.",
	}}
	svc := newURLServiceForTest(factory, urlFetcher, &stubLLM{generateResp: "Summary."}, &stubEmbedder{})

	first, err := svc.Process(context.Background(), "https://example.com/article")
	require.NoError(t, err)
	second, err := svc.Process(context.Background(), "https://example.com/article")
	require.NoError(t, err)

	// The second run short-circuits on the stored URL without touching the network
	assert.Equal(t, 1, urlFetcher.callCount())
	assert.Equal(t, first.URL.Id, second.URL.Id)
	assert.Len(t, second.Chunks, len(first.Chunks))
}

func TestURLServiceProcessFetchFailure(t *testing.T) {
	factory := newFakeFactory()
	fetchErr := &fetcher.FetchError{URL: "https://example.com/gone", Message: "error fetching URL"}
	svc := newURLServiceForTest(factory, &stubURLFetcher{err: fetchErr}, &stubLLM{}, &stubEmbedder{})

	_, err := svc.Process(context.Background(), "https://example.com/gone")
	require.Error(t, err)
	var fe *fetcher.FetchError
	assert.ErrorAs(t, err, &fe)

	urls, err := factory.uow.urls.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestURLServiceProcessSummaryFailureAborts(t *testing.T) {
	factory := newFakeFactory()
	urlFetcher := &stubURLFetcher{content: &fetcher.FetchedContent{
		Title:   "Title",
		Content: "Paragraph one.\n\nParagraph two.",
	}}
	model := &stubLLM{generateErr: errors.New("model unavailable")}
	svc := newURLServiceForTest(factory, urlFetcher, model, &stubEmbedder{})

	_, err := svc.Process(context.Background(), "https://example.com/article")
	require.Error(t, err)

	// No chunks survive a failed summary
	urls, listErr := factory.uow.urls.List(context.Background())
	require.NoError(t, listErr)
	require.Len(t, urls, 1)
	chunks, chunkErr := factory.uow.urlChunks.GetByURLID(context.Background(), urls[0].Id)
	require.NoError(t, chunkErr)
	assert.Empty(t, chunks)
}

func TestURLServiceProcessEmbeddingFailureAborts(t *testing.T) {
	factory := newFakeFactory()
	urlFetcher := &stubURLFetcher{content: &fetcher.FetchedContent{
		Title:   "Title",
		Content: "Paragraph one.\n\nParagraph two.",
	}}
	embedder := &stubEmbedder{err: errors.New("embedding backend down")}
	svc := newURLServiceForTest(factory, urlFetcher, &stubLLM{generateResp: "Summary."}, embedder)

	_, err := svc.Process(context.Background(), "https://example.com/article")
	require.Error(t, err)

	urls, listErr := factory.uow.urls.List(context.Background())
	require.NoError(t, listErr)
	require.Len(t, urls, 1)
	chunks, chunkErr := factory.uow.urlChunks.GetByURLID(context.Background(), urls[0].Id)
	require.NoError(t, chunkErr)
	assert.Empty(t, chunks)
}

func TestURLServiceProcessTruncatesSummaryInput(t *testing.T) {
	factory := newFakeFactory()
	longContent := strings.Repeat("word ", 2000) // 10000 chars, one paragraph
	urlFetcher := &stubURLFetcher{content: &fetcher.FetchedContent{
		Title:   "Long",
		Content: longContent,
	}}
	model := &stubLLM{generateResp: "Summary of a long page."}
	svc := newURLServiceForTest(factory, urlFetcher, model, &stubEmbedder{})

	_, err := svc.Process(context.Background(), "https://example.com/long")
	require.NoError(t, err)

	// Only the leading window reaches the summarizer
	require.Len(t, model.prompts, 1)
	assert.Less(t, len(model.prompts[0]), 3000+200)
}

func TestURLServiceDeleteCascades(t *testing.T) {
	factory := newFakeFactory()
	urlFetcher := &stubURLFetcher{content: &fetcher.FetchedContent{
		Title:   "Title",
		Content: "Paragraph one.\n\nParagraph two.",
	}}
	svc := newURLServiceForTest(factory, urlFetcher, &stubLLM{generateResp: "Summary."}, &stubEmbedder{})

	result, err := svc.Process(context.Background(), "https://example.com/article")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), result.URL.Id))

	stored, err := factory.uow.urls.GetByID(context.Background(), result.URL.Id)
	require.NoError(t, err)
	assert.Nil(t, stored)
	chunks, err := factory.uow.urlChunks.GetByURLID(context.Background(), result.URL.Id)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
