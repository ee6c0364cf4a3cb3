package service

import (
	"context"
	"math/rand/v2"

	"ai-recall-be/internal/dto"
	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/pkg/logger"
	"ai-recall-be/internal/repository/unitofwork"
)

// RandomSelection holds the outcome of one weighted draw. Exactly one of
// Note and Chunk is set; both nil means no embedded content exists yet.
type RandomSelection struct {
	ContentType string
	Note        *entity.Note
	Chunk       *entity.URLChunk
}

type IRandomService interface {
	// Select draws one random embedded item, weighted by the population of
	// each content type so notes and URL chunks surface proportionally.
	Select(ctx context.Context) (*RandomSelection, error)
}

type randomService struct {
	uowFactory unitofwork.RepositoryFactory
	randInt    func(n int) int
	log        logger.ILogger
}

func NewRandomService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IRandomService {
	return &randomService{
		uowFactory: uowFactory,
		randInt:    rand.IntN,
		log:        log,
	}
}

func (s *randomService) Select(ctx context.Context) (*RandomSelection, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	noteCount, err := uow.NoteRepository().CountWithEmbeddings(ctx)
	if err != nil {
		return nil, err
	}
	chunkCount, err := uow.URLChunkRepository().CountWithEmbeddings(ctx)
	if err != nil {
		return nil, err
	}

	total := int(noteCount + chunkCount)
	if total == 0 {
		return nil, nil
	}

	// A single draw over the combined population keeps the per-type odds
	// proportional to how much of each type exists.
	if s.randInt(total) < int(noteCount) {
		note, err := uow.NoteRepository().GetRandom(ctx)
		if err != nil {
			return nil, err
		}
		if note == nil {
			// Counted rows disappeared between count and pick
			return nil, nil
		}
		return &RandomSelection{ContentType: dto.ContentTypeNote, Note: note}, nil
	}

	chunk, err := uow.URLChunkRepository().GetRandom(ctx)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, nil
	}
	return &RandomSelection{ContentType: dto.ContentTypeURLChunk, Chunk: chunk}, nil
}
