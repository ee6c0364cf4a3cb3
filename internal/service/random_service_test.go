package service

import (
	"context"
	"testing"
	"time"

	"ai-recall-be/internal/dto"
	"ai-recall-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNote(t *testing.T, factory *fakeFactory, content string) *entity.Note {
	t.Helper()
	note := &entity.Note{
		Id:          uuid.New(),
		Content:     content,
		ContentHash: content,
		Embedding:   []float32{1, 0, 0},
		BookId:      uuid.New(),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, factory.uow.notes.CreateDedup(context.Background(), note))
	return note
}

func seedChunk(t *testing.T, factory *fakeFactory, content string) *entity.URLChunk {
	t.Helper()
	chunk := &entity.URLChunk{
		Id:          uuid.New(),
		Content:     content,
		ContentHash: content,
		Embedding:   []float32{0, 1, 0},
		URLId:       uuid.New(),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, factory.uow.urlChunks.CreateDedup(context.Background(), chunk))
	return chunk
}

func TestRandomServiceSelectEmpty(t *testing.T) {
	svc := NewRandomService(newFakeFactory(), nopLogger{})

	selection, err := svc.Select(context.Background())
	require.NoError(t, err)
	assert.Nil(t, selection)
}

func TestRandomServiceSelectWeighting(t *testing.T) {
	factory := newFakeFactory()
	seedNote(t, factory, "note a")
	seedNote(t, factory, "note b")
	seedNote(t, factory, "note c")
	seedChunk(t, factory, "chunk a")

	var drawnFrom int
	svc := &randomService{
		uowFactory: factory,
		randInt: func(n int) int {
			drawnFrom = n
			return 2 // inside the note share [0, 3)
		},
		log: nopLogger{},
	}

	selection, err := svc.Select(context.Background())
	require.NoError(t, err)
	require.NotNil(t, selection)

	// One draw over the combined population of 3 notes + 1 chunk
	assert.Equal(t, 4, drawnFrom)
	assert.Equal(t, dto.ContentTypeNote, selection.ContentType)
	require.NotNil(t, selection.Note)
	assert.Nil(t, selection.Chunk)

	svc.randInt = func(n int) int { return 3 } // the chunk share
	selection, err = svc.Select(context.Background())
	require.NoError(t, err)
	require.NotNil(t, selection)
	assert.Equal(t, dto.ContentTypeURLChunk, selection.ContentType)
	require.NotNil(t, selection.Chunk)
	assert.Nil(t, selection.Note)
}

func TestRandomServiceSelectOnlyNotes(t *testing.T) {
	factory := newFakeFactory()
	seedNote(t, factory, "lonely note")
	svc := NewRandomService(factory, nopLogger{})

	selection, err := svc.Select(context.Background())
	require.NoError(t, err)
	require.NotNil(t, selection)
	assert.Equal(t, dto.ContentTypeNote, selection.ContentType)
}

func TestRandomServiceSelectIgnoresUnembeddedContent(t *testing.T) {
	factory := newFakeFactory()
	note := &entity.Note{
		Id:          uuid.New(),
		Content:     "no embedding yet",
		ContentHash: "no embedding yet",
		BookId:      uuid.New(),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, factory.uow.notes.CreateDedup(context.Background(), note))
	svc := NewRandomService(factory, nopLogger{})

	selection, err := svc.Select(context.Background())
	require.NoError(t, err)
	assert.Nil(t, selection)
}

func TestRandomServiceSelectRaceMissReturnsNil(t *testing.T) {
	factory := newFakeFactory()
	seedChunk(t, factory, "only chunk")

	svc := &randomService{
		uowFactory: factory,
		randInt:    func(int) int { return 0 },
		log:        nopLogger{},
	}

	// The counted chunk vanishes between the count and the pick
	factory.uow.urlChunks.randomNil = true

	selection, err := svc.Select(context.Background())
	require.NoError(t, err)
	assert.Nil(t, selection)
}
