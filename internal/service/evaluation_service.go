package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-recall-be/internal/dto"
	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/pkg/logger"
	"ai-recall-be/internal/repository/unitofwork"
	"ai-recall-be/pkg/llm"
	"ai-recall-be/pkg/prompts"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// EvaluationError means the evaluator model replied outside the expected
// Score:/Evaluation: format.
type EvaluationError struct {
	Message string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation failed: %s", e.Message)
}

type IEvaluationService interface {
	// Consume subscribes to the evaluation topic and scores finished context
	// responses in the background.
	Consume(ctx context.Context) error
	ListRecent(ctx context.Context, limit int) ([]dto.EvaluationResponse, error)
	ByNote(ctx context.Context, noteId uuid.UUID) ([]dto.EvaluationResponse, error)
}

type evaluationService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	uowFactory      unitofwork.RepositoryFactory
	llmProvider     llm.LLMProvider
	evaluationModel string
	log             logger.ILogger
}

func NewEvaluationService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	evaluationModel string,
	log logger.ILogger,
) IEvaluationService {
	return &evaluationService{
		pubSub:          pubSub,
		topicName:       topicName,
		uowFactory:      uowFactory,
		llmProvider:     llmProvider,
		evaluationModel: evaluationModel,
		log:             log,
	}
}

func (s *evaluationService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *evaluationService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.EvaluateContextMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.log.Error("evaluation_service", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		// Malformed payloads never become valid, drop them
		msg.Ack()
		return
	}

	s.log.Info("evaluation_service", "evaluating context response", map[string]interface{}{
		"note_id": payload.NoteId,
	})

	content, err := s.llmProvider.Generate(ctx,
		prompts.CreateEvaluationPrompt(payload.Prompt, payload.Response),
		prompts.SystemInstructions["evaluator"])
	if err != nil {
		s.log.Error("evaluation_service", "evaluator call failed", map[string]interface{}{
			"note_id": payload.NoteId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	score, analysis, err := ParseEvaluationResponse(content)
	if err != nil {
		s.log.Error("evaluation_service", "evaluator reply unparseable", map[string]interface{}{
			"note_id": payload.NoteId,
			"error":   err.Error(),
		})
		// A retry would re-spend tokens on the same prompt, drop instead
		msg.Ack()
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	evaluation := entity.Evaluation{
		Id:        uuid.New(),
		Score:     score,
		Prompt:    payload.Prompt,
		Response:  payload.Response,
		Analysis:  analysis,
		ModelName: s.evaluationModel,
		NoteId:    payload.NoteId,
		CreatedAt: time.Now(),
	}
	if err := uow.EvaluationRepository().Create(ctx, &evaluation); err != nil {
		s.log.Error("evaluation_service", "failed to store evaluation", map[string]interface{}{
			"note_id": payload.NoteId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	s.log.Info("evaluation_service", "evaluation stored", map[string]interface{}{
		"note_id": payload.NoteId,
		"score":   score,
	})
	msg.Ack()
}

// ParseEvaluationResponse extracts the score and analysis from an evaluator
// reply in the Score:/Evaluation: line format. The score is clamped to
// [0, 1]; anything the format does not cover yields an EvaluationError.
func ParseEvaluationResponse(content string) (float64, string, error) {
	var (
		score      float64
		scoreFound bool
		analysis   []string
		inAnalysis bool
	)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Score:"):
			raw := strings.TrimSpace(strings.TrimPrefix(trimmed, "Score:"))
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return 0, "", &EvaluationError{Message: fmt.Sprintf("invalid score %q", raw)}
			}
			score = parsed
			scoreFound = true
			inAnalysis = false
		case strings.HasPrefix(trimmed, "Evaluation:"):
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "Evaluation:"))
			if rest != "" {
				analysis = append(analysis, rest)
			}
			inAnalysis = true
		case inAnalysis && trimmed != "":
			analysis = append(analysis, trimmed)
		}
	}

	if !scoreFound {
		return 0, "", &EvaluationError{Message: "no Score line in evaluator reply"}
	}
	if len(analysis) == 0 {
		return 0, "", &EvaluationError{Message: "no Evaluation line in evaluator reply"}
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, strings.Join(analysis, " "), nil
}

func (s *evaluationService) ListRecent(ctx context.Context, limit int) ([]dto.EvaluationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	evaluations, err := uow.EvaluationRepository().ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toEvaluationResponses(evaluations), nil
}

func (s *evaluationService) ByNote(ctx context.Context, noteId uuid.UUID) ([]dto.EvaluationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	evaluations, err := uow.EvaluationRepository().GetByNoteID(ctx, noteId)
	if err != nil {
		return nil, err
	}
	return toEvaluationResponses(evaluations), nil
}

func toEvaluationResponses(evaluations []*entity.Evaluation) []dto.EvaluationResponse {
	responses := make([]dto.EvaluationResponse, len(evaluations))
	for i, e := range evaluations {
		responses[i] = dto.EvaluationResponse{
			Id:        e.Id,
			Score:     e.Score,
			Analysis:  e.Analysis,
			ModelName: e.ModelName,
			NoteId:    e.NoteId,
			CreatedAt: e.CreatedAt,
		}
	}
	return responses
}
