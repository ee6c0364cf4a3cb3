package mapper

import (
	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/model"
)

type URLMapper struct{}

func NewURLMapper() *URLMapper {
	return &URLMapper{}
}

func (m *URLMapper) ToEntity(u *model.URL) *entity.URL {
	if u == nil {
		return nil
	}
	return &entity.URL{
		Id:         u.Id,
		URL:        u.URL,
		Title:      u.Title,
		ChunkCount: u.ChunkCount,
		CreatedAt:  u.CreatedAt,
	}
}

func (m *URLMapper) ToModel(u *entity.URL) *model.URL {
	if u == nil {
		return nil
	}
	return &model.URL{
		Id:         u.Id,
		URL:        u.URL,
		Title:      u.Title,
		ChunkCount: u.ChunkCount,
		CreatedAt:  u.CreatedAt,
	}
}

func (m *URLMapper) ToEntities(urls []*model.URL) []*entity.URL {
	entities := make([]*entity.URL, len(urls))
	for i, u := range urls {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

type URLChunkMapper struct{}

func NewURLChunkMapper() *URLChunkMapper {
	return &URLChunkMapper{}
}

func (m *URLChunkMapper) ToEntity(c *model.URLChunk) *entity.URLChunk {
	if c == nil {
		return nil
	}
	return &entity.URLChunk{
		Id:          c.Id,
		Content:     c.Content,
		ContentHash: c.ContentHash,
		Embedding:   vectorToSlice(c.Embedding),
		URLId:       c.URLId,
		ChunkOrder:  c.ChunkOrder,
		IsSummary:   c.IsSummary,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *URLChunkMapper) ToModel(c *entity.URLChunk) *model.URLChunk {
	if c == nil {
		return nil
	}
	return &model.URLChunk{
		Id:          c.Id,
		Content:     c.Content,
		ContentHash: c.ContentHash,
		Embedding:   sliceToVector(c.Embedding),
		URLId:       c.URLId,
		ChunkOrder:  c.ChunkOrder,
		IsSummary:   c.IsSummary,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *URLChunkMapper) ToEntities(chunks []*model.URLChunk) []*entity.URLChunk {
	entities := make([]*entity.URLChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
