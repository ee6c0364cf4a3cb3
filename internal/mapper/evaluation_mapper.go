package mapper

import (
	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/model"
)

type EvaluationMapper struct{}

func NewEvaluationMapper() *EvaluationMapper {
	return &EvaluationMapper{}
}

func (m *EvaluationMapper) ToEntity(e *model.Evaluation) *entity.Evaluation {
	if e == nil {
		return nil
	}
	return &entity.Evaluation{
		Id:        e.Id,
		Score:     e.Score,
		Prompt:    e.Prompt,
		Response:  e.Response,
		Analysis:  e.Analysis,
		ModelName: e.ModelName,
		NoteId:    e.NoteId,
		CreatedAt: e.CreatedAt,
	}
}

func (m *EvaluationMapper) ToModel(e *entity.Evaluation) *model.Evaluation {
	if e == nil {
		return nil
	}
	return &model.Evaluation{
		Id:        e.Id,
		Score:     e.Score,
		Prompt:    e.Prompt,
		Response:  e.Response,
		Analysis:  e.Analysis,
		ModelName: e.ModelName,
		NoteId:    e.NoteId,
		CreatedAt: e.CreatedAt,
	}
}

func (m *EvaluationMapper) ToEntities(evaluations []*model.Evaluation) []*entity.Evaluation {
	entities := make([]*entity.Evaluation, len(evaluations))
	for i, e := range evaluations {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
