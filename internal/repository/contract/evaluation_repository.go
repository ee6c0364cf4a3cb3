package contract

import (
	"context"

	"ai-recall-be/internal/entity"

	"github.com/google/uuid"
)

type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *entity.Evaluation) error
	GetByNoteID(ctx context.Context, noteId uuid.UUID) ([]*entity.Evaluation, error)
	// ListRecent returns the newest evaluations first.
	ListRecent(ctx context.Context, limit int) ([]*entity.Evaluation, error)
	DeleteByNoteID(ctx context.Context, noteId uuid.UUID) error
}
