package mapper

import (
	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/model"
)

type BookMapper struct{}

func NewBookMapper() *BookMapper {
	return &BookMapper{}
}

func (m *BookMapper) ToEntity(b *model.Book) *entity.Book {
	if b == nil {
		return nil
	}
	return &entity.Book{
		Id:        b.Id,
		Title:     b.Title,
		Author:    b.Author,
		CreatedAt: b.CreatedAt,
	}
}

func (m *BookMapper) ToModel(b *entity.Book) *model.Book {
	if b == nil {
		return nil
	}
	return &model.Book{
		Id:        b.Id,
		Title:     b.Title,
		Author:    b.Author,
		CreatedAt: b.CreatedAt,
	}
}

func (m *BookMapper) ToEntities(books []*model.Book) []*entity.Book {
	entities := make([]*entity.Book, len(books))
	for i, b := range books {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
