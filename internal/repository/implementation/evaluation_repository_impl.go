package implementation

import (
	"context"

	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/mapper"
	"ai-recall-be/internal/model"
	"ai-recall-be/internal/repository/contract"
	"ai-recall-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvaluationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EvaluationMapper
}

func NewEvaluationRepository(db *gorm.DB) contract.EvaluationRepository {
	return &EvaluationRepositoryImpl{
		db:     db,
		mapper: mapper.NewEvaluationMapper(),
	}
}

func (r *EvaluationRepositoryImpl) Create(ctx context.Context, evaluation *entity.Evaluation) error {
	m := r.mapper.ToModel(evaluation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*evaluation = *r.mapper.ToEntity(m)
	return nil
}

func (r *EvaluationRepositoryImpl) GetByNoteID(ctx context.Context, noteId uuid.UUID) ([]*entity.Evaluation, error) {
	var models []*model.Evaluation
	query := r.db.WithContext(ctx)
	query = specification.Filter("note_id", noteId).Apply(query)
	query = specification.OrderBy{Field: "created_at", Desc: true}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *EvaluationRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*entity.Evaluation, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []*model.Evaluation
	query := r.db.WithContext(ctx)
	query = specification.OrderBy{Field: "created_at", Desc: true}.Apply(query)
	query = specification.Limit{N: limit}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *EvaluationRepositoryImpl) DeleteByNoteID(ctx context.Context, noteId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("note_id = ?", noteId).Delete(&model.Evaluation{}).Error
}
