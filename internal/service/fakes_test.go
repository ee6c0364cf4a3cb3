package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/repository/contract"
	"ai-recall-be/internal/repository/unitofwork"
	"ai-recall-be/pkg/fetcher"
	"ai-recall-be/pkg/twitter"

	"github.com/google/uuid"
)

// In-memory repositories backing the service tests. Dedup, ordering and
// nil-on-miss semantics mirror the Postgres implementations; similarity is
// approximated as "same parent, has an embedding".

type fakeBookRepo struct {
	mu    sync.Mutex
	books map[uuid.UUID]*entity.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[uuid.UUID]*entity.Book{}}
}

func (r *fakeBookRepo) CreateDedup(_ context.Context, book *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.Title == book.Title && b.Author == book.Author {
			*book = *b
			return nil
		}
	}
	clone := *book
	r.books[book.Id] = &clone
	return nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.books[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeBookRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) List(_ context.Context) ([]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Book, 0, len(r.books))
	for _, b := range r.books {
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
	return nil
}

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes map[uuid.UUID]*entity.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: map[uuid.UUID]*entity.Note{}}
}

func (r *fakeNoteRepo) CreateDedup(_ context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.ContentHash == note.ContentHash {
			*note = *n
			return nil
		}
	}
	clone := *note
	r.notes[note.Id] = &clone
	return nil
}

func (r *fakeNoteRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notes[id]; ok {
		clone := *n
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeNoteRepo) GetByBookID(_ context.Context, bookId uuid.UUID) ([]*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Note, 0)
	for _, n := range r.notes {
		if n.BookId == bookId {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeNoteRepo) GetRandom(_ context.Context) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.Embedding != nil {
			clone := *n
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindSimilar(_ context.Context, note *entity.Note, limit int, _ float64) ([]*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if note.Embedding == nil {
		return nil, nil
	}
	out := make([]*entity.Note, 0)
	for _, n := range r.notes {
		if n.Id != note.Id && n.BookId == note.BookId && n.Embedding != nil {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNoteRepo) SearchByEmbedding(_ context.Context, _ []float32, limit int, _ float64) ([]*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Note, 0)
	for _, n := range r.notes {
		if n.Embedding != nil {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNoteRepo) CountWithEmbeddings(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notes {
		if n.Embedding != nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeNoteRepo) DeleteByBookID(_ context.Context, bookId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.notes {
		if n.BookId == bookId {
			delete(r.notes, id)
		}
	}
	return nil
}

type fakeURLRepo struct {
	mu   sync.Mutex
	urls map[uuid.UUID]*entity.URL
}

func newFakeURLRepo() *fakeURLRepo {
	return &fakeURLRepo{urls: map[uuid.UUID]*entity.URL{}}
}

func (r *fakeURLRepo) Create(_ context.Context, url *entity.URL) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *url
	r.urls[url.Id] = &clone
	return nil
}

func (r *fakeURLRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.urls[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeURLRepo) GetByURL(_ context.Context, url string) (*entity.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.urls {
		if u.URL == url {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeURLRepo) List(_ context.Context) ([]*entity.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.URL, 0, len(r.urls))
	for _, u := range r.urls {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeURLRepo) UpdateChunkCount(_ context.Context, id uuid.UUID, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.urls[id]
	if !ok {
		return fmt.Errorf("url %s not found", id)
	}
	u.ChunkCount = count
	return nil
}

func (r *fakeURLRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.urls, id)
	return nil
}

type fakeURLChunkRepo struct {
	mu     sync.Mutex
	chunks map[uuid.UUID]*entity.URLChunk
	// randomNil simulates the counted rows vanishing before the pick.
	randomNil bool
}

func newFakeURLChunkRepo() *fakeURLChunkRepo {
	return &fakeURLChunkRepo{chunks: map[uuid.UUID]*entity.URLChunk{}}
}

func (r *fakeURLChunkRepo) CreateDedup(_ context.Context, chunk *entity.URLChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chunks {
		if c.ContentHash == chunk.ContentHash {
			*chunk = *c
			return nil
		}
	}
	clone := *chunk
	r.chunks[chunk.Id] = &clone
	return nil
}

func (r *fakeURLChunkRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.URLChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.chunks[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeURLChunkRepo) GetByURLID(_ context.Context, urlId uuid.UUID) ([]*entity.URLChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.URLChunk, 0)
	for _, c := range r.chunks {
		if c.URLId == urlId {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkOrder < out[j].ChunkOrder })
	return out, nil
}

func (r *fakeURLChunkRepo) GetRandom(_ context.Context) (*entity.URLChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.randomNil {
		return nil, nil
	}
	for _, c := range r.chunks {
		if c.Embedding != nil {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeURLChunkRepo) FindSimilar(_ context.Context, chunk *entity.URLChunk, limit int, _ float64) ([]*entity.URLChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chunk.Embedding == nil {
		return nil, nil
	}
	out := make([]*entity.URLChunk, 0)
	for _, c := range r.chunks {
		if c.Id != chunk.Id && c.URLId == chunk.URLId && c.Embedding != nil {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkOrder < out[j].ChunkOrder })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeURLChunkRepo) SearchByEmbedding(_ context.Context, _ []float32, limit int, _ float64) ([]*entity.URLChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.URLChunk, 0)
	for _, c := range r.chunks {
		if c.Embedding != nil {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkOrder < out[j].ChunkOrder })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeURLChunkRepo) CountWithEmbeddings(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.chunks {
		if c.Embedding != nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeURLChunkRepo) DeleteByURLID(_ context.Context, urlId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.chunks {
		if c.URLId == urlId {
			delete(r.chunks, id)
		}
	}
	return nil
}

type fakeTweetThreadRepo struct {
	mu      sync.Mutex
	threads map[uuid.UUID]*entity.TweetThread
}

func newFakeTweetThreadRepo() *fakeTweetThreadRepo {
	return &fakeTweetThreadRepo{threads: map[uuid.UUID]*entity.TweetThread{}}
}

func (r *fakeTweetThreadRepo) Create(_ context.Context, thread *entity.TweetThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *thread
	r.threads[thread.Id] = &clone
	return nil
}

func (r *fakeTweetThreadRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.TweetThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.threads[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeTweetThreadRepo) GetByRootTweetID(_ context.Context, rootTweetID string) (*entity.TweetThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.threads {
		if t.RootTweetID == rootTweetID {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeTweetThreadRepo) List(_ context.Context) ([]*entity.TweetThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.TweetThread, 0, len(r.threads))
	for _, t := range r.threads {
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTweetThreadRepo) UpdateTweetCount(_ context.Context, id uuid.UUID, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.threads[id]
	if !ok {
		return fmt.Errorf("thread %s not found", id)
	}
	t.TweetCount = count
	return nil
}

func (r *fakeTweetThreadRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.threads, id)
	return nil
}

type fakeTweetRepo struct {
	mu     sync.Mutex
	tweets map[uuid.UUID]*entity.Tweet
}

func newFakeTweetRepo() *fakeTweetRepo {
	return &fakeTweetRepo{tweets: map[uuid.UUID]*entity.Tweet{}}
}

func (r *fakeTweetRepo) CreateDedup(_ context.Context, tweet *entity.Tweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tweets {
		if t.ContentHash == tweet.ContentHash {
			*tweet = *t
			return nil
		}
	}
	clone := *tweet
	r.tweets[tweet.Id] = &clone
	return nil
}

func (r *fakeTweetRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tweets[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeTweetRepo) GetByThreadID(_ context.Context, threadId uuid.UUID) ([]*entity.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Tweet, 0)
	for _, t := range r.tweets {
		if t.ThreadId == threadId {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PositionInThread < out[j].PositionInThread })
	return out, nil
}

func (r *fakeTweetRepo) FindSimilar(_ context.Context, tweet *entity.Tweet, limit int, _ float64) ([]*entity.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tweet.Embedding == nil {
		return nil, nil
	}
	out := make([]*entity.Tweet, 0)
	for _, t := range r.tweets {
		if t.Id != tweet.Id && t.ThreadId == tweet.ThreadId && t.Embedding != nil {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PositionInThread < out[j].PositionInThread })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTweetRepo) SearchByEmbedding(_ context.Context, _ []float32, limit int, _ float64) ([]*entity.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Tweet, 0)
	for _, t := range r.tweets {
		if t.Embedding != nil {
			clone := *t
			out = append(out, &clone)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTweetRepo) CountWithEmbeddings(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, t := range r.tweets {
		if t.Embedding != nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeTweetRepo) DeleteByThreadID(_ context.Context, threadId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tweets {
		if t.ThreadId == threadId {
			delete(r.tweets, id)
		}
	}
	return nil
}

type fakeEvaluationRepo struct {
	mu          sync.Mutex
	evaluations []*entity.Evaluation
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{}
}

func (r *fakeEvaluationRepo) Create(_ context.Context, evaluation *entity.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *evaluation
	r.evaluations = append(r.evaluations, &clone)
	return nil
}

func (r *fakeEvaluationRepo) GetByNoteID(_ context.Context, noteId uuid.UUID) ([]*entity.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Evaluation, 0)
	for _, e := range r.evaluations {
		if e.NoteId == noteId {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeEvaluationRepo) ListRecent(_ context.Context, limit int) ([]*entity.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Evaluation, 0, len(r.evaluations))
	for i := len(r.evaluations) - 1; i >= 0 && len(out) < limit; i-- {
		clone := *r.evaluations[i]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeEvaluationRepo) DeleteByNoteID(_ context.Context, noteId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.evaluations[:0]
	for _, e := range r.evaluations {
		if e.NoteId != noteId {
			kept = append(kept, e)
		}
	}
	r.evaluations = kept
	return nil
}

type fakeUnitOfWork struct {
	books       *fakeBookRepo
	notes       *fakeNoteRepo
	urls        *fakeURLRepo
	urlChunks   *fakeURLChunkRepo
	threads     *fakeTweetThreadRepo
	tweets      *fakeTweetRepo
	evaluations *fakeEvaluationRepo
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		books:       newFakeBookRepo(),
		notes:       newFakeNoteRepo(),
		urls:        newFakeURLRepo(),
		urlChunks:   newFakeURLChunkRepo(),
		threads:     newFakeTweetThreadRepo(),
		tweets:      newFakeTweetRepo(),
		evaluations: newFakeEvaluationRepo(),
	}
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                 { return nil }
func (u *fakeUnitOfWork) Rollback() error               { return nil }

func (u *fakeUnitOfWork) BookRepository() contract.BookRepository               { return u.books }
func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository               { return u.notes }
func (u *fakeUnitOfWork) URLRepository() contract.URLRepository                 { return u.urls }
func (u *fakeUnitOfWork) URLChunkRepository() contract.URLChunkRepository       { return u.urlChunks }
func (u *fakeUnitOfWork) TweetThreadRepository() contract.TweetThreadRepository { return u.threads }
func (u *fakeUnitOfWork) TweetRepository() contract.TweetRepository             { return u.tweets }
func (u *fakeUnitOfWork) EvaluationRepository() contract.EvaluationRepository   { return u.evaluations }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: newFakeUnitOfWork()}
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// stubEmbedder returns a fixed-size vector and counts calls. Safe for the
// concurrent fan-out in the ingestion pipelines.
type stubEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubEmbedder) Generate(_ context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (s *stubEmbedder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubLLM struct {
	mu           sync.Mutex
	generateResp string
	generateErr  error
	streamDeltas []string
	streamErr    error
	prompts      []string
}

func (s *stubLLM) Generate(_ context.Context, prompt, _ string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return s.generateResp, nil
}

func (s *stubLLM) Stream(_ context.Context, prompt, _ string, onDelta func(delta string) error) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.streamErr != nil {
		return "", s.streamErr
	}
	var full string
	for _, d := range s.streamDeltas {
		if err := onDelta(d); err != nil {
			return "", err
		}
		full += d
	}
	return full, nil
}

type stubURLFetcher struct {
	mu      sync.Mutex
	calls   int
	content *fetcher.FetchedContent
	err     error
}

func (s *stubURLFetcher) Fetch(_ context.Context, rawURL string, _ int) (*fetcher.FetchedContent, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	content := *s.content
	if content.URL == "" {
		content.URL = rawURL
	}
	return &content, nil
}

func (s *stubURLFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubThreadFetcher struct {
	mu     sync.Mutex
	calls  int
	thread *twitter.FetchedThread
	err    error
}

func (s *stubThreadFetcher) FetchThread(_ context.Context, _ string, _ int) (*twitter.FetchedThread, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	clone := *s.thread
	return &clone, nil
}

func (s *stubThreadFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (s *stubPublisher) Publish(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *stubPublisher) published() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.payloads...)
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
