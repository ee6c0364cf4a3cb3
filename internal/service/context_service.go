package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-recall-be/internal/dto"
	"ai-recall-be/internal/pkg/logger"
	"ai-recall-be/internal/repository/unitofwork"
	"ai-recall-be/pkg/llm"
	"ai-recall-be/pkg/prompts"

	"github.com/google/uuid"
)

const (
	// relatedItemsLimit caps the nearest-neighbor lookup shown alongside the
	// selected item.
	relatedItemsLimit = 3
	// relatedThreshold is the maximum cosine distance for a neighbor to be
	// considered related.
	relatedThreshold = 0.5
)

// PreparedContext is a random selection resolved into everything the stream
// needs: the metadata payload sent before the first token, the prompt, and
// the note to evaluate afterwards (nil for URL chunks).
type PreparedContext struct {
	Metadata          *dto.ContentWithRelatedResponse
	Prompt            string
	SystemInstruction string
	NoteId            *uuid.UUID
}

type IContextService interface {
	// PrepareRandom draws a random embedded item and resolves its source and
	// related neighbors. Returns nil when nothing has been ingested yet.
	PrepareRandom(ctx context.Context) (*PreparedContext, error)
	// RandomNote is the non-streaming variant scoped to notes: a random note
	// with its book and neighbors. Returns nil when no embedded notes exist.
	RandomNote(ctx context.Context) (*dto.ContentWithRelatedResponse, error)
	// Stream generates LLM context for the prepared item, invoking onDelta
	// per token batch. When the item is a note, the finished response is
	// handed to the evaluation pipeline; a failed hand-off never fails the
	// stream.
	Stream(ctx context.Context, prepared *PreparedContext, onDelta func(delta string) error) error
}

type contextService struct {
	uowFactory    unitofwork.RepositoryFactory
	randomService IRandomService
	llmProvider   llm.LLMProvider
	publisher     IPublisherService
	log           logger.ILogger
}

func NewContextService(
	uowFactory unitofwork.RepositoryFactory,
	randomService IRandomService,
	llmProvider llm.LLMProvider,
	publisher IPublisherService,
	log logger.ILogger,
) IContextService {
	return &contextService{
		uowFactory:    uowFactory,
		randomService: randomService,
		llmProvider:   llmProvider,
		publisher:     publisher,
		log:           log,
	}
}

func (s *contextService) PrepareRandom(ctx context.Context) (*PreparedContext, error) {
	selection, err := s.randomService.Select(ctx)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return nil, nil
	}

	switch selection.ContentType {
	case dto.ContentTypeNote:
		return s.prepareNote(ctx, selection)
	case dto.ContentTypeURLChunk:
		return s.prepareChunk(ctx, selection)
	default:
		return nil, fmt.Errorf("unknown content type %q", selection.ContentType)
	}
}

func (s *contextService) RandomNote(ctx context.Context) (*dto.ContentWithRelatedResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().GetRandom(ctx)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	prepared, err := s.prepareNote(ctx, &RandomSelection{ContentType: dto.ContentTypeNote, Note: note})
	if err != nil {
		return nil, err
	}
	return prepared.Metadata, nil
}

func (s *contextService) prepareNote(ctx context.Context, selection *RandomSelection) (*PreparedContext, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note := selection.Note

	book, err := uow.BookRepository().GetByID(ctx, note.BookId)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s not found for note %s", note.BookId, note.Id)
	}

	related, err := uow.NoteRepository().FindSimilar(ctx, note, relatedItemsLimit, relatedThreshold)
	if err != nil {
		return nil, err
	}
	relatedResponses := make([]dto.NoteResponse, len(related))
	for i, r := range related {
		relatedResponses[i] = toNoteResponse(r)
	}

	noteId := note.Id
	return &PreparedContext{
		Metadata: &dto.ContentWithRelatedResponse{
			ContentType:  dto.ContentTypeNote,
			Source:       toBookResponse(book),
			Content:      toNoteResponse(note),
			RelatedItems: relatedResponses,
		},
		Prompt:            prompts.CreateContextPrompt(book.Title, note.Content),
		SystemInstruction: prompts.SystemInstructions["note_context"],
		NoteId:            &noteId,
	}, nil
}

func (s *contextService) prepareChunk(ctx context.Context, selection *RandomSelection) (*PreparedContext, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunk := selection.Chunk

	source, err := uow.URLRepository().GetByID(ctx, chunk.URLId)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("url %s not found for chunk %s", chunk.URLId, chunk.Id)
	}

	related, err := uow.URLChunkRepository().FindSimilar(ctx, chunk, relatedItemsLimit, relatedThreshold)
	if err != nil {
		return nil, err
	}
	relatedResponses := make([]dto.URLChunkResponse, len(related))
	for i, r := range related {
		relatedResponses[i] = toURLChunkResponse(r)
	}

	return &PreparedContext{
		Metadata: &dto.ContentWithRelatedResponse{
			ContentType:  dto.ContentTypeURLChunk,
			Source:       toURLResponse(source),
			Content:      toURLChunkResponse(chunk),
			RelatedItems: relatedResponses,
		},
		Prompt:            prompts.CreateChunkContextPrompt(source.URL, source.Title, chunk.Content),
		SystemInstruction: prompts.SystemInstructions["note_context"],
	}, nil
}

func (s *contextService) Stream(ctx context.Context, prepared *PreparedContext, onDelta func(delta string) error) error {
	fullResponse, err := s.llmProvider.Stream(ctx, prepared.Prompt, prepared.SystemInstruction, onDelta)
	if err != nil {
		return err
	}

	if prepared.NoteId != nil {
		s.publishEvaluation(ctx, *prepared.NoteId, prepared.Prompt, fullResponse)
	}
	return nil
}

// publishEvaluation hands the finished response to the async evaluation
// consumer. Failures are logged and swallowed; the client already has its
// stream.
func (s *contextService) publishEvaluation(ctx context.Context, noteId uuid.UUID, prompt, response string) {
	payload, err := json.Marshal(dto.EvaluateContextMessage{
		NoteId:   noteId,
		Prompt:   prompt,
		Response: response,
	})
	if err != nil {
		s.log.Error("context_service", "evaluation payload marshal failed", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.log.Error("context_service", "evaluation publish failed", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
	}
}
